package game_object

import "github.com/go-gl/mathgl/mgl32"

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the name of the GameObject.
//
// Parameters:
//   - name: display name used in logs
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject takes part in spatial queries.
//
// Parameters:
//   - enabled: true to include the object in queries
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithLayer sets the layer bits used by spatial query masks.
//
// Parameters:
//   - layer: layer bit mask
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the layer
func WithLayer(layer uint32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.layer = layer
	}
}

// WithPosition sets the initial local position (world position for roots).
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.localPosition = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the initial local rotation (world rotation for roots).
//
// Parameters:
//   - q: the rotation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(q mgl32.Quat) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.localRotation = q.Normalize()
	}
}

// WithParent attaches the object to a parent at construction time.
//
// Parameters:
//   - parent: the parent object
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the parent
func WithParent(parent GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.SetParent(parent)
	}
}

// WithBone registers a named bone child at construction time.
//
// Parameters:
//   - name: bone name
//   - bone: the bone object
//
// Returns:
//   - GameObjectBuilderOption: functional option to add the bone
func WithBone(name string, bone GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.AddBone(name, bone)
	}
}

// WithTargetOffset attaches an aim offset component to the object.
//
// Parameters:
//   - x, y, z: local-space offset
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the target offset
func WithTargetOffset(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.targetOffset = mgl32.Vec3{x, y, z}
		obj.hasTargetOffset = true
	}
}
