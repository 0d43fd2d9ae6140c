package spring

import "github.com/go-gl/mathgl/mgl32"

// SpringBuilderOption is a functional option for configuring a Spring.
type SpringBuilderOption func(*springImpl)

// WithStiffness sets how strongly the spring pulls toward its target.
//
// Parameters:
//   - stiffness: acceleration per unit of displacement
//
// Returns:
//   - SpringBuilderOption: functional option to set the stiffness
func WithStiffness(stiffness float32) SpringBuilderOption {
	return func(s *springImpl) {
		s.stiffness = stiffness
	}
}

// WithDamping sets how strongly velocity is resisted.
//
// Parameters:
//   - damping: deceleration per unit of velocity
//
// Returns:
//   - SpringBuilderOption: functional option to set the damping
func WithDamping(damping float32) SpringBuilderOption {
	return func(s *springImpl) {
		s.damping = damping
	}
}

// WithVelocityBounds sets the per-axis velocity magnitude bounds.
// Velocities below min settle to zero; velocities above max are clamped.
//
// Parameters:
//   - min: smallest non-zero velocity magnitude
//   - max: largest velocity magnitude
//
// Returns:
//   - SpringBuilderOption: functional option to set the velocity bounds
func WithVelocityBounds(min, max float32) SpringBuilderOption {
	return func(s *springImpl) {
		s.minVelocity = min
		s.maxVelocity = max
	}
}

// WithValueBounds clamps every output of the spring to [min, max] per axis.
//
// Parameters:
//   - min: per-axis lower bound
//   - max: per-axis upper bound
//
// Returns:
//   - SpringBuilderOption: functional option to set the value bounds
func WithValueBounds(min, max mgl32.Vec3) SpringBuilderOption {
	return func(s *springImpl) {
		s.clampValue = true
		s.minValue = min
		s.maxValue = max
	}
}

// WithVelocityFadeIn ramps the applied velocity from zero to full over the given
// length after construction or Reset.
//
// Parameters:
//   - seconds: fade-in length (0 disables)
//
// Returns:
//   - SpringBuilderOption: functional option to set the fade-in length
func WithVelocityFadeIn(seconds float32) SpringBuilderOption {
	return func(s *springImpl) {
		s.fadeInLength = seconds
	}
}
