package loader

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 -1
s off
f 1/1/1 2/2/1 3/3/1 4/4/1
`

const triangleOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func TestOBJ_QuadIsFanTriangulated(t *testing.T) {
	m, err := (&objLoaderBackend{}).LoadReader("quad", strings.NewReader(quadOBJ))
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 4, "shared corners are deduplicated")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	assert.Equal(t, [2]float32{1, 1}, m.Vertices[2].UV)
	assert.Equal(t, [3]float32{0, 0, -1}, m.Vertices[3].Normal)
}

func TestOBJ_MissingAttributesAreZero(t *testing.T) {
	m, err := (&objLoaderBackend{}).LoadReader("tri", strings.NewReader(triangleOBJ))
	require.NoError(t, err)

	require.Len(t, m.Vertices, 3)
	assert.Equal(t, [3]float32{}, m.Vertices[0].Normal)
	assert.Equal(t, [2]float32{}, m.Vertices[0].UV)
}

func TestOBJ_NegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf -3//-1 -2//-1 -1//-1\n"
	m, err := (&objLoaderBackend{}).LoadReader("neg", strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	assert.Equal(t, [3]float32{0, 1, 0}, m.Vertices[2].Position)
	assert.Equal(t, [3]float32{0, 0, 1}, m.Vertices[2].Normal)
}

func TestOBJ_Errors(t *testing.T) {
	cases := map[string]string{
		"out of range": "v 0 0 0\nf 1 2 3\n",
		"zero index":   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"bad float":    "v 0 x 0\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"empty":        "# nothing\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := (&objLoaderBackend{}).LoadReader(name, strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoader_LoadAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	quad := filepath.Join(dir, "quad.obj")
	tri := filepath.Join(dir, "tri.OBJ")
	require.NoError(t, os.WriteFile(quad, []byte(quadOBJ), 0o644))
	require.NoError(t, os.WriteFile(tri, []byte(triangleOBJ), 0o644))

	l := NewLoader(WithWorkers(2))
	models, err := l.LoadAll([]string{tri, quad, tri})
	require.NoError(t, err)
	require.Len(t, models, 3)

	assert.Len(t, models[0].Indices, 3)
	assert.Len(t, models[1].Indices, 6)
	assert.Len(t, models[2].Indices, 3)
	assert.NotNil(t, l.Model(quad))
}

func TestLoader_LoadAllStopsItsWorkers(t *testing.T) {
	tri := filepath.Join(t.TempDir(), "tri.obj")
	require.NoError(t, os.WriteFile(tri, []byte(triangleOBJ), 0o644))

	before := runtime.NumGoroutine()
	for range 5 {
		_, err := NewLoader(WithWorkers(3)).LoadAll([]string{tri, tri, tri, tri})
		require.NoError(t, err)
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond, "worker goroutines outlive LoadAll")
}

func TestLoader_LoadAllEmpty(t *testing.T) {
	models, err := NewLoader().LoadAll(nil)
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestLoader_Errors(t *testing.T) {
	l := NewLoader()

	_, err := l.Load("model.fbx")
	assert.Error(t, err)

	_, err = l.LoadAll([]string{filepath.Join(t.TempDir(), "missing.obj")})
	assert.Error(t, err)
}
