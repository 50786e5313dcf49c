package scene

import (
	"github.com/Carmen-Shannon/oxy-sandbox/engine/cache"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithObjects sets the scene's objects. The count is fixed from here on.
//
// Parameters:
//   - objects: the objects, in draw order
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...model.Object) SceneBuilderOption {
	return func(s *scene) {
		s.objects = cache.NewSlice(objects)
	}
}

// WithPointLights sets the scene's point lights. The count is fixed from here on.
//
// Parameters:
//   - lights: the point lights
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPointLights(lights ...light.PointLight) SceneBuilderOption {
	return func(s *scene) {
		s.pointLights = cache.NewSlice(lights)
	}
}

// WithDirectionalLights sets the scene's directional lights. The count is fixed from here on.
//
// Parameters:
//   - lights: the directional lights
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithDirectionalLights(lights ...light.DirectionalLight) SceneBuilderOption {
	return func(s *scene) {
		s.directionalLights = cache.NewSlice(lights)
	}
}
