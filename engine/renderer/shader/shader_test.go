package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessPinsOverrides(t *testing.T) {
	src := "override POINT_LIGHT_COUNT: u32;\n" +
		"    override GAIN: f32 = 1.0;\n" +
		"@id(3) override OTHER: u32 = 7u;\n" +
		"fn main() {}"

	out, err := Preprocess(src, map[string]float64{"POINT_LIGHT_COUNT": 3, "GAIN": 0.25})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "const POINT_LIGHT_COUNT: u32 = u32(3);", lines[0])
	assert.Equal(t, "    const GAIN: f32 = f32(0.25);", lines[1])
	assert.Equal(t, "@id(3) override OTHER: u32 = 7u;", lines[2], "unconfigured overrides are left alone")
	assert.Equal(t, "fn main() {}", lines[3])
}

func TestPreprocessUndeclaredConstant(t *testing.T) {
	_, err := Preprocess("override A: u32;", map[string]float64{"A": 1, "B": 2})
	require.ErrorIs(t, err, ErrUndeclaredConstant)
	assert.Contains(t, err.Error(), "B")
}

func TestPreprocessInvalidIntegerConstant(t *testing.T) {
	_, err := Preprocess("override A: u32;", map[string]float64{"A": 1.5})
	assert.ErrorIs(t, err, ErrInvalidConstant)

	_, err = Preprocess("override A: u32;", map[string]float64{"A": -1})
	assert.ErrorIs(t, err, ErrInvalidConstant)

	out, err := Preprocess("override A: i32;", map[string]float64{"A": -1})
	require.NoError(t, err)
	assert.Equal(t, "const A: i32 = i32(-1);", out)
}

func TestPreProcessorAnnotations(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include point_light\n//@oxy:group 1 0 storage_read lights array<point_light>")
	require.NoError(t, err)

	assert.Contains(t, out, "struct PointLight {")
	assert.Contains(t, out, "@group(1) @binding(0) var<storage, read> lights: array<PointLight>;")
	require.Len(t, pp.Declarations(), 1)
	assert.Equal(t, 1, *pp.Declarations()[0].Group)
}

func TestPreProcessorRejectsMalformedAnnotations(t *testing.T) {
	cases := []string{
		"//@oxy:",
		"//@oxy:include",
		"//@oxy:include texture",
		"//@oxy:group x 0 uniform camera camera",
		"//@oxy:group 0 0 workgroup camera camera",
		"//@oxy:group 0 0 uniform camera array<texture>",
		"//@oxy:provider 0 0 camera",
	}
	for _, c := range cases {
		_, err := NewPreProcessor().Process(c)
		assert.Error(t, err, c)
	}
}

func TestNewMeshShader(t *testing.T) {
	s, err := NewMeshShader(2, 0)
	require.NoError(t, err)

	assert.Equal(t, "vert_main", s.VertexEntryPoint())
	assert.Equal(t, "frag_main", s.FragmentEntryPoint())
	assert.Contains(t, s.Source(), "const POINT_LIGHT_COUNT: u32 = u32(2);")
	assert.Contains(t, s.Source(), "const DIRECTIONAL_LIGHT_COUNT: u32 = u32(0);")
	assert.NotContains(t, s.Source(), "@oxy:")
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)

	layouts := s.BindGroupLayoutDescriptors()
	require.Len(t, layouts, 2)
	require.Len(t, layouts[0].Entries, 2)
	require.Len(t, layouts[1].Entries, 2)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, layouts[0].Entries[0].Buffer.Type)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, layouts[0].Entries[1].Buffer.Type)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, layouts[1].Entries[0].Buffer.Type)
	assert.Equal(t, uint32(1), layouts[1].Entries[1].Binding)

	assert.Equal(t, "camera", s.BindGroupVarName(0, 0))
	assert.Equal(t, "object", s.BindGroupVarName(0, 1))
	assert.Equal(t, "directional_lights", s.BindGroupVarName(1, 1))
	assert.Equal(t, "", s.BindGroupVarName(2, 0))
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	_, err := NewShader("broken", "@vertex fn vs() {}")
	assert.ErrorIs(t, err, ErrMissingEntryPoint)
}
