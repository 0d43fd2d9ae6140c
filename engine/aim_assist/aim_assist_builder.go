package aim_assist

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/curve"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
)

// AimAssistBuilderOption is a functional option for configuring an AimAssist.
type AimAssistBuilderOption func(*aimAssistImpl)

// WithWorld sets the world targets are resolved in.
//
// Parameters:
//   - world: the target world (usually a scene.Scene)
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the world
func WithWorld(world TargetWorld) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.world = world
	}
}

// WithEnabled sets the initial global enable state.
//
// Parameters:
//   - enabled: true to enable aim assist
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the enabled state
func WithEnabled(enabled bool) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.enabled = enabled
	}
}

// WithMaxDistance sets the largest anchor-to-target distance accepted (inclusive).
//
// Parameters:
//   - distance: world units
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the maximum distance
func WithMaxDistance(distance float32) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.maxDistance = distance
	}
}

// WithBreakForce sets the force above which the target is released.
//
// Parameters:
//   - force: the break threshold
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the break force
func WithBreakForce(force float32) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.breakForce = force
	}
}

// WithSwitchQuery sets the overlap radius and candidate capacity of target switching.
//
// Parameters:
//   - radius: overlap radius around the current target
//   - capacity: maximum number of candidates gathered (values < 2 are raised to 2)
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the switch query
func WithSwitchQuery(radius float32, capacity int) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.switchRadius = radius
		a.candidates = make([]scene.Handle, max(capacity, 2))
	}
}

// WithSwitchSpeed sets the fixed angular speed of a switch blend and the angle under which
// the switch completes.
//
// Parameters:
//   - degreesPerSecond: turn speed
//   - epsilon: completion angle in degrees
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the switch speed
func WithSwitchSpeed(degreesPerSecond, epsilon float32) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.switchSpeed = degreesPerSecond
		a.switchEpsilon = epsilon
	}
}

// WithInfluence sets the pull strength (per second) keyed by angular misalignment in
// degrees. The curve must be non-increasing.
//
// Parameters:
//   - influence: the influence curve
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the influence curve
func WithInfluence(influence curve.Curve) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.influence = influence
	}
}

// WithBone aims at a named bone of each target instead of its root.
//
// Parameters:
//   - name: the bone name
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the bone
func WithBone(name string) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.bone = name
	}
}

// WithLayerMask restricts switch candidates to the given layers.
//
// Parameters:
//   - mask: layer bits
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the layer mask
func WithLayerMask(mask uint32) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.layerMask = mask
	}
}

// WithRequireAim only allows targets while the player is aiming.
//
// Parameters:
//   - require: true to require active aim
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the aim requirement
func WithRequireAim(require bool) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.requireAim = require
	}
}

// WithRequireVisible only switches to candidates inside the view frustum once one has been
// set with SetViewFrustum.
//
// Parameters:
//   - require: true to filter by frustum
//
// Returns:
//   - AimAssistBuilderOption: functional option to set the visibility requirement
func WithRequireVisible(require bool) AimAssistBuilderOption {
	return func(a *aimAssistImpl) {
		a.requireVisible = require
	}
}
