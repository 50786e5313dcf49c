package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ loader backend.
	BackendTypeOBJ LoaderBackendType = iota

	// BackendTypeGLTF selects the glTF 2.0 loader backend. Both JSON (.gltf) and binary (.glb)
	// documents are accepted.
	BackendTypeGLTF
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.RWMutex

	workers int

	modelCache map[string]*model.ImportedModel

	backends map[LoaderBackendType]loaderBackend
}

// Loader loads and caches imported models. The file format is chosen from the file extension.
type Loader interface {
	// Load imports a model file and caches the result by path.
	// If the model is already cached, the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *model.ImportedModel: the loaded model
	//   - error: error if loading fails
	Load(path string) (*model.ImportedModel, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - backendType: the format of the stream
	//
	// Returns:
	//   - *model.ImportedModel: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, backendType LoaderBackendType) (*model.ImportedModel, error)

	// LoadAll imports several model files in parallel on a worker pool.
	// Results keep the order of paths. The first failure is returned.
	//
	// Parameters:
	//   - paths: the model files to load
	//
	// Returns:
	//   - []model.ImportedModel: the loaded models in input order
	//   - error: error if any model fails to load
	LoadAll(paths []string) ([]model.ImportedModel, error)

	// Model returns a cached model by key, or nil if not cached.
	//
	// Parameters:
	//   - key: the cache key (path or reader name)
	//
	// Returns:
	//   - *model.ImportedModel: the cached model or nil
	Model(key string) *model.ImportedModel
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the OBJ and glTF backends registered.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the newly created loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         &sync.RWMutex{},
		workers:    max(runtime.NumCPU()-1, 1),
		modelCache: make(map[string]*model.ImportedModel),
		backends: map[LoaderBackendType]loaderBackend{
			BackendTypeOBJ:  &objLoaderBackend{},
			BackendTypeGLTF: &gltfLoaderBackend{},
		},
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*model.ImportedModel, error) {
	if m := l.Model(path); m != nil {
		return m, nil
	}

	backend, err := l.backendFor(path)
	if err != nil {
		return nil, err
	}
	m, err := backend.Load(path)
	if err != nil {
		return nil, err
	}
	common.Logger().Debug("model loaded", "path", path, "vertices", len(m.Vertices), "indices", len(m.Indices))

	l.mu.Lock()
	defer l.mu.Unlock()
	l.modelCache[path] = m
	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, backendType LoaderBackendType) (*model.ImportedModel, error) {
	backend, ok := l.backends[backendType]
	if !ok {
		return nil, fmt.Errorf("no loader backend registered for type %d", backendType)
	}
	m, err := backend.LoadReader(name, r)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.modelCache[name] = m
	return m, nil
}

func (l *loader) LoadAll(paths []string) ([]model.ImportedModel, error) {
	results := make([]*model.ImportedModel, len(paths))
	errs := make([]error, len(paths))

	// Each worker gets a single-worker pool so Stop reaches exactly that worker's goroutine.
	// Workers pull paths from a shared cursor until none are left.
	n := min(l.workers, len(paths))
	pools := make([]worker.DynamicWorkerPool, n)
	var next atomic.Int64
	var wg sync.WaitGroup
	for i := range pools {
		pools[i] = worker.NewDynamicWorkerPool(1, 1, 1*time.Second)
		wg.Add(1)
		pools[i].SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				for {
					idx := int(next.Add(1) - 1)
					if idx >= len(paths) {
						return nil, nil
					}
					results[idx], errs[idx] = l.Load(paths[idx])
				}
			},
		})
	}
	wg.Wait()
	for _, pool := range pools {
		pool.Stop()
	}

	models := make([]model.ImportedModel, len(paths))
	for i := range paths {
		if errs[i] != nil {
			return nil, fmt.Errorf("failed to load model %s: %w", paths[i], errs[i])
		}
		models[i] = *results[i]
	}
	return models, nil
}

func (l *loader) Model(key string) *model.ImportedModel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[key]
}

// backendFor selects a backend from the file extension.
func (l *loader) backendFor(path string) (loaderBackend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return l.backends[BackendTypeOBJ], nil
	case ".gltf", ".glb":
		return l.backends[BackendTypeGLTF], nil
	default:
		return nil, fmt.Errorf("unsupported model format %q", filepath.Ext(path))
	}
}
