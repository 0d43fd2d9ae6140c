package scene

import "github.com/Carmen-Shannon/oxy-rig/engine/game_object"

// SceneBuilderOption is a functional option for configuring a Scene.
type SceneBuilderOption func(*sceneImpl)

// WithName sets the scene's identifier.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: functional option to set the name
func WithName(name string) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.name = name
	}
}

// WithActive sets whether the scene takes part in queries.
//
// Parameters:
//   - active: true to enable queries
//
// Returns:
//   - SceneBuilderOption: functional option to set the active state
func WithActive(active bool) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.active = active
	}
}

// WithObjects registers the given objects in order during construction.
// Handles can be recovered later with HandleOf.
//
// Parameters:
//   - objects: the objects to register
//
// Returns:
//   - SceneBuilderOption: functional option to register objects
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *sceneImpl) {
		for _, obj := range objects {
			if obj != nil {
				s.addLocked(obj)
			}
		}
	}
}
