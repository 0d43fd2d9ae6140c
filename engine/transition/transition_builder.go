package transition

// TransitionBuilderOption is a functional option for configuring a Transition.
type TransitionBuilderOption func(*transitionImpl)

// WithDuration selects time mode with a fixed blend duration.
//
// Parameters:
//   - seconds: the blend duration (0 completes on the first advance)
//
// Returns:
//   - TransitionBuilderOption: functional option to set the duration
func WithDuration(seconds float32) TransitionBuilderOption {
	return func(t *transitionImpl) {
		t.mode = ModeTime
		t.duration = seconds
	}
}

// WithSpeed selects distance mode: the duration is the positional gap divided by speed,
// clamped to the duration bounds.
//
// Parameters:
//   - unitsPerSecond: closing speed in world units per second
//
// Returns:
//   - TransitionBuilderOption: functional option to set the speed
func WithSpeed(unitsPerSecond float32) TransitionBuilderOption {
	return func(t *transitionImpl) {
		t.mode = ModeDistance
		t.speed = unitsPerSecond
	}
}

// WithDurationBounds sets the clamp range for distance-mode durations.
//
// Parameters:
//   - min: shortest blend in seconds
//   - max: longest blend in seconds
//
// Returns:
//   - TransitionBuilderOption: functional option to set the bounds
func WithDurationBounds(min, max float32) TransitionBuilderOption {
	return func(t *transitionImpl) {
		t.minDuration = min
		t.maxDuration = max
	}
}

// WithEasing replaces the ease-in-out curve applied to the normalized progress.
// The function must map [0, 1] monotonically onto [0, 1].
//
// Parameters:
//   - easing: the easing function
//
// Returns:
//   - TransitionBuilderOption: functional option to set the easing
func WithEasing(easing func(float32) float32) TransitionBuilderOption {
	return func(t *transitionImpl) {
		if easing != nil {
			t.easing = easing
		}
	}
}
