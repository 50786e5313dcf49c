package main

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModelsDefaultsToCube(t *testing.T) {
	models, err := loadModels(nil)
	require.NoError(t, err)
	require.Len(t, models, 1)
	require.NoError(t, models[0].Validate())
	assert.Len(t, models[0].Indices, 36, "six quads fan-triangulated")
}

func TestLoadModelsMixesBuiltinCube(t *testing.T) {
	models, err := loadModels([]string{builtinCube, builtinCube})
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, models[0].Indices, models[1].Indices)

	_, err = loadModels([]string{"missing.obj"})
	assert.Error(t, err)
}

func TestClearColor(t *testing.T) {
	c := clearColor([4]float64{0.1, 0.2, 0.3, 1})
	assert.Equal(t, 0.1, c.R)
	assert.Equal(t, 1.0, c.A)
}

func TestDefaultScene(t *testing.T) {
	scn := defaultScene(camera.NewCamera(), 3)

	objects := scn.Objects().Values()
	require.Len(t, objects, 3)
	assert.Equal(t, float32(-1.5), objects[0].Model[12])
	assert.Equal(t, float32(0), objects[1].Model[12])
	assert.Equal(t, float32(1.5), objects[2].Model[12])
	assert.Equal(t, float32(-1), objects[1].Model[0], "mirrored in X")
	for _, o := range objects {
		assert.Equal(t, float32(0.5), o.Metallic)
	}

	require.Equal(t, 1, scn.PointLights().Len())
	assert.Equal(t, [3]float32{0, 1, -2}, scn.PointLights().Values()[0].Position)
	assert.Equal(t, float32(5), scn.PointLights().Values()[0].Strength)
	assert.Equal(t, 1, scn.DirectionalLights().Len())
}
