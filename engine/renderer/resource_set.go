package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrCapacityMismatch is returned by Sync when a scene collection no longer has the length fixed at setup.
	ErrCapacityMismatch = errors.New("renderer: scene collection length differs from allocated capacity")

	// ErrModelCountMismatch is returned by NewResourceSet when the number of models differs from the number of objects.
	ErrModelCountMismatch = errors.New("renderer: model count must equal object count")

	// ErrLayoutMismatch is returned by NewResourceSet when the shader does not declare bind groups 0 and 1.
	ErrLayoutMismatch = errors.New("renderer: shader must declare bind groups 0 and 1")
)

const (
	groupObject = 0
	groupLights = 1

	bindingCamera = 0
	bindingObject = 1

	bindingPointLights       = 0
	bindingDirectionalLights = 1
)

// Device is the subset of *wgpu.Device used to allocate the resource set.
type Device interface {
	CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error)
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)
	CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)
	CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)
	CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error)
	CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)
}

var _ Device = (*wgpu.Device)(nil)

// resourceSet is the implementation of the ResourceSet interface.
type resourceSet struct {
	mu    *sync.Mutex
	label string

	queue bind_group_provider.BufferWriter

	// counts fixed at setup
	objectCount           int
	pointLightCount       int
	directionalLightCount int

	// cameraProvider owns the camera uniform buffer shared by every object bind group.
	cameraProvider bind_group_provider.BindGroupProvider
	// objectProviders own one object uniform buffer and the group 0 bind group each.
	objectProviders []bind_group_provider.BindGroupProvider
	// lightProvider owns both light storage buffers and the group 1 bind group.
	lightProvider bind_group_provider.BindGroupProvider
	// meshProviders own the vertex and index buffers of each model, parallel to objectProviders.
	meshProviders []bind_group_provider.BindGroupProvider

	bindGroupLayouts []*wgpu.BindGroupLayout
	pipelineLayout   *wgpu.PipelineLayout
	module           *wgpu.ShaderModule
	pipeline         pipeline.Pipeline

	// options
	shaderSource    string
	pipelineOptions []pipeline.PipelineBuilderOption
}

// ResourceSet owns every GPU resource the mesh pass needs for one scene: the camera uniform,
// one uniform per object, the light storage buffers, the bind groups referencing them, the
// uploaded meshes, and the render pipeline. Collection sizes are fixed at construction.
type ResourceSet interface {
	// Sync uploads the dirty parts of the scene. Lights are written first, then the camera,
	// then every object; each cache is cleared only after its write succeeds.
	// Nothing is written when any collection length differs from the allocated capacity.
	//
	// Parameters:
	//   - scn: the scene the set was created for
	//
	// Returns:
	//   - error: ErrCapacityMismatch, or the first failed queue write
	Sync(scn scene.Scene) error

	// Draw records the mesh pass: the pipeline once, then per object its mesh buffers,
	// its group 0 bind group, the shared light bind group, and one indexed draw.
	//
	// Parameters:
	//   - pass: the render pass of the current frame
	Draw(pass RenderPass)

	// ObjectCount returns the number of objects allocated at setup.
	//
	// Returns:
	//   - int: the object count
	ObjectCount() int

	// PointLightCount returns the number of point lights allocated at setup.
	//
	// Returns:
	//   - int: the point light count
	PointLightCount() int

	// DirectionalLightCount returns the number of directional lights allocated at setup.
	//
	// Returns:
	//   - int: the directional light count
	DirectionalLightCount() int

	// Pipeline returns the mesh pipeline.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline and its configuration
	Pipeline() pipeline.Pipeline

	// Release releases every GPU resource held by the set.
	Release()
}

var _ ResourceSet = &resourceSet{}

// NewResourceSet allocates the GPU resources for scn and compiles the mesh pipeline with the
// light loops sized to the scene's light counts. models[i] is drawn for object i. Buffer
// contents are uploaded by the first Sync, since every scene cache starts dirty.
//
// Parameters:
//   - device: the GPU device
//   - queue: the queue used for mesh uploads and later syncs
//   - scn: the scene whose collection sizes fix the allocation
//   - models: one imported mesh per scene object
//   - format: the color format of the surface the pipeline renders to
//   - options: optional ResourceSetBuilderOption functions
//
// Returns:
//   - ResourceSet: the allocated resource set
//   - error: ErrModelCountMismatch, an invalid model, a shader error, or a device error
func NewResourceSet(device Device, queue bind_group_provider.BufferWriter, scn scene.Scene, models []model.ImportedModel, format wgpu.TextureFormat, options ...ResourceSetBuilderOption) (ResourceSet, error) {
	rs := &resourceSet{
		mu:                    &sync.Mutex{},
		label:                 "mesh",
		queue:                 queue,
		objectCount:           scn.Objects().Len(),
		pointLightCount:       scn.PointLights().Len(),
		directionalLightCount: scn.DirectionalLights().Len(),
		shaderSource:          shader.MeshShaderSource,
	}
	for _, opt := range options {
		opt(rs)
	}

	if len(models) != rs.objectCount {
		return nil, fmt.Errorf("%w: %d models for %d objects", ErrModelCountMismatch, len(models), rs.objectCount)
	}
	for i := range models {
		if err := models[i].Validate(); err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
	}

	sh, err := shader.NewShader(rs.label, rs.shaderSource,
		shader.WithConstant(shader.PointLightCountConstant, float64(rs.pointLightCount)),
		shader.WithConstant(shader.DirectionalLightCountConstant, float64(rs.directionalLightCount)),
	)
	if err != nil {
		return nil, err
	}

	if err := rs.allocate(device, sh, models, format); err != nil {
		rs.Release()
		return nil, err
	}
	common.Logger().Info("resource set ready",
		"label", rs.label,
		"objects", rs.objectCount,
		"point_lights", rs.pointLightCount,
		"directional_lights", rs.directionalLightCount,
	)
	return rs, nil
}

func (rs *resourceSet) allocate(device Device, sh shader.Shader, models []model.ImportedModel, format wgpu.TextureFormat) error {
	descs := sh.BindGroupLayoutDescriptors()
	if len(descs) != 2 {
		return fmt.Errorf("%w: got %d groups", ErrLayoutMismatch, len(descs))
	}
	for g := range 2 {
		desc, ok := descs[g]
		if !ok {
			return fmt.Errorf("%w: group %d missing", ErrLayoutMismatch, g)
		}
		layout, err := device.CreateBindGroupLayout(&desc)
		if err != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, err)
		}
		rs.bindGroupLayouts = append(rs.bindGroupLayouts, layout)
	}

	cameraBuf, err := createBuffer(device, rs.label+" Camera Uniform", uint64(camera.GPUCameraUniformSize), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	rs.cameraProvider = bind_group_provider.NewBindGroupProvider(rs.label+" camera",
		bind_group_provider.WithBuffer(bindingCamera, cameraBuf),
	)

	// zero-length storage bindings are invalid, so empty light lists still get one element
	pointBuf, err := createBuffer(device, rs.label+" Point Lights", uint64(max(rs.pointLightCount, 1)*light.PointLightSize), wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	rs.lightProvider = bind_group_provider.NewBindGroupProvider(rs.label+" lights",
		bind_group_provider.WithBuffer(bindingPointLights, pointBuf),
	)
	dirBuf, err := createBuffer(device, rs.label+" Directional Lights", uint64(max(rs.directionalLightCount, 1)*light.DirectionalLightSize), wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	rs.lightProvider.SetBuffer(bindingDirectionalLights, dirBuf)

	lightGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  rs.label + " Lights Bind Group",
		Layout: rs.bindGroupLayouts[groupLights],
		Entries: []wgpu.BindGroupEntry{
			{Binding: bindingPointLights, Buffer: pointBuf, Offset: 0, Size: wgpu.WholeSize},
			{Binding: bindingDirectionalLights, Buffer: dirBuf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}
	rs.lightProvider.SetBindGroup(lightGroup)

	for i := range rs.objectCount {
		label := fmt.Sprintf("%s object %d", rs.label, i)
		objBuf, err := createBuffer(device, label+" Uniform", model.ObjectSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		group, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  label + " Bind Group",
			Layout: rs.bindGroupLayouts[groupObject],
			Entries: []wgpu.BindGroupEntry{
				{Binding: bindingCamera, Buffer: cameraBuf, Offset: 0, Size: wgpu.WholeSize},
				{Binding: bindingObject, Buffer: objBuf, Offset: 0, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			objBuf.Release()
			return err
		}
		rs.objectProviders = append(rs.objectProviders, bind_group_provider.NewBindGroupProvider(label,
			bind_group_provider.WithBuffer(bindingObject, objBuf),
			bind_group_provider.WithBindGroup(group),
		))
	}

	for i := range models {
		mesh, err := rs.uploadMesh(device, fmt.Sprintf("%s mesh %d (%s)", rs.label, i, models[i].Name), &models[i])
		if err != nil {
			return err
		}
		rs.meshProviders = append(rs.meshProviders, mesh)
	}

	rs.module, err = device.CreateShaderModule(sh.Module())
	if err != nil {
		return fmt.Errorf("failed to create shader module: %w", err)
	}
	rs.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            rs.label,
		BindGroupLayouts: rs.bindGroupLayouts,
	})
	if err != nil {
		return err
	}

	opts := append([]pipeline.PipelineBuilderOption{pipeline.WithVertexLayouts(model.VertexBufferLayout())}, rs.pipelineOptions...)
	rs.pipeline = pipeline.NewPipeline(rs.label, sh, opts...)
	created, err := device.CreateRenderPipeline(rs.pipeline.Descriptor(rs.module, rs.pipelineLayout, format))
	if err != nil {
		return fmt.Errorf("failed to create render pipeline: %w", err)
	}
	rs.pipeline.SetRenderPipeline(created)
	return nil
}

func (rs *resourceSet) uploadMesh(device Device, label string, m *model.ImportedModel) (bind_group_provider.BindGroupProvider, error) {
	vertexData := model.MarshalVertices(m.Vertices)
	vb, err := createBuffer(device, label+" Vertex Buffer", uint64(len(vertexData)), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	indexData := model.MarshalIndices(m.Indices)
	ib, err := createBuffer(device, label+" Index Buffer", uint64(len(indexData)), wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	if err != nil {
		vb.Release()
		return nil, err
	}
	mesh := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithMesh(vb, ib, int(m.IndexCount())))

	if err := rs.queue.WriteBuffer(vb, 0, vertexData); err != nil {
		mesh.Release()
		return nil, fmt.Errorf("upload %s vertices: %w", label, err)
	}
	if err := rs.queue.WriteBuffer(ib, 0, indexData); err != nil {
		mesh.Release()
		return nil, fmt.Errorf("upload %s indices: %w", label, err)
	}
	return mesh, nil
}

func createBuffer(device Device, label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %q: %w", label, err)
	}
	return buf, nil
}

func (rs *resourceSet) Sync(scn scene.Scene) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	objects, points, dirs := scn.Objects(), scn.PointLights(), scn.DirectionalLights()
	if objects.Len() != rs.objectCount || points.Len() != rs.pointLightCount || dirs.Len() != rs.directionalLightCount {
		return fmt.Errorf("%w: objects %d/%d, point lights %d/%d, directional lights %d/%d",
			ErrCapacityMismatch,
			objects.Len(), rs.objectCount,
			points.Len(), rs.pointLightCount,
			dirs.Len(), rs.directionalLightCount,
		)
	}

	if points.IsDirty() {
		if rs.pointLightCount > 0 {
			err := bind_group_provider.WriteBuffers(rs.queue, []bind_group_provider.BufferWrite{{
				Provider: rs.lightProvider,
				Binding:  bindingPointLights,
				Data:     light.MarshalPointLights(points.Values()),
			}})
			if err != nil {
				return err
			}
		}
		points.Clear()
	}
	if dirs.IsDirty() {
		if rs.directionalLightCount > 0 {
			err := bind_group_provider.WriteBuffers(rs.queue, []bind_group_provider.BufferWrite{{
				Provider: rs.lightProvider,
				Binding:  bindingDirectionalLights,
				Data:     light.MarshalDirectionalLights(dirs.Values()),
			}})
			if err != nil {
				return err
			}
		}
		dirs.Clear()
	}

	cam := scn.Camera()
	if cam.IsDirty() {
		uniform := cam.Get().Uniform()
		err := bind_group_provider.WriteBuffers(rs.queue, []bind_group_provider.BufferWrite{{
			Provider: rs.cameraProvider,
			Binding:  bindingCamera,
			Data:     uniform.Marshal(),
		}})
		if err != nil {
			return err
		}
		cam.Clear()
	}

	if objects.IsDirty() {
		writes := make([]bind_group_provider.BufferWrite, 0, rs.objectCount)
		for i, provider := range rs.objectProviders {
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: provider,
				Binding:  bindingObject,
				Data:     objects.At(i).Marshal(),
			})
		}
		if err := bind_group_provider.WriteBuffers(rs.queue, writes); err != nil {
			return err
		}
		objects.Clear()
	}
	return nil
}

func (rs *resourceSet) Draw(pass RenderPass) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	pass.SetPipeline(rs.pipeline.Pipeline())
	for i, obj := range rs.objectProviders {
		mesh := rs.meshProviders[i]
		pass.SetVertexBuffer(0, mesh.VertexBuffer())
		pass.SetIndexBuffer(mesh.IndexBuffer())
		pass.SetBindGroup(groupObject, obj.BindGroup())
		pass.SetBindGroup(groupLights, rs.lightProvider.BindGroup())
		pass.DrawIndexed(uint32(mesh.IndexCount()))
	}
}

func (rs *resourceSet) ObjectCount() int {
	return rs.objectCount
}

func (rs *resourceSet) PointLightCount() int {
	return rs.pointLightCount
}

func (rs *resourceSet) DirectionalLightCount() int {
	return rs.directionalLightCount
}

func (rs *resourceSet) Pipeline() pipeline.Pipeline {
	return rs.pipeline
}

func (rs *resourceSet) Release() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.pipeline != nil {
		rs.pipeline.Release()
		rs.pipeline = nil
	}
	if rs.pipelineLayout != nil {
		rs.pipelineLayout.Release()
		rs.pipelineLayout = nil
	}
	if rs.module != nil {
		rs.module.Release()
		rs.module = nil
	}
	// bind groups reference the camera buffer, release them before it
	for _, p := range rs.objectProviders {
		p.Release()
	}
	rs.objectProviders = nil
	for _, p := range rs.meshProviders {
		p.Release()
	}
	rs.meshProviders = nil
	if rs.lightProvider != nil {
		rs.lightProvider.Release()
		rs.lightProvider = nil
	}
	if rs.cameraProvider != nil {
		rs.cameraProvider.Release()
		rs.cameraProvider = nil
	}
	for _, l := range rs.bindGroupLayouts {
		l.Release()
	}
	rs.bindGroupLayouts = nil
}
