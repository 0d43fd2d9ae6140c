package rig

import (
	"log"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/aim_assist"
	"github.com/Carmen-Shannon/oxy-rig/engine/spring"
	"github.com/Carmen-Shannon/oxy-rig/engine/transition"
	"github.com/Carmen-Shannon/oxy-rig/engine/view_type"
)

// RigBuilderOption is a functional option for configuring a Rig.
type RigBuilderOption func(*rigImpl)

// WithViewTypes registers view types. Duplicate ids are logged and skipped.
//
// Parameters:
//   - viewTypes: the view types to register
//
// Returns:
//   - RigBuilderOption: functional option to register view types
func WithViewTypes(viewTypes ...view_type.ViewType) RigBuilderOption {
	return func(r *rigImpl) {
		for _, vt := range viewTypes {
			if err := r.Register(vt); err != nil {
				log.Printf("[rig] %v", err)
			}
		}
	}
}

// WithDefaultViewType activates a view type (without a transition) when the rig is built.
//
// Parameters:
//   - id: the view type id
//
// Returns:
//   - RigBuilderOption: functional option to set the default view type
func WithDefaultViewType(id string) RigBuilderOption {
	return func(r *rigImpl) {
		r.defaultID = id
	}
}

// WithPerspectiveViewTypes sets the view types used by the perspective toggle.
//
// Parameters:
//   - firstPersonID: the first-person view type id
//   - thirdPersonID: the third-person view type id
//
// Returns:
//   - RigBuilderOption: functional option to set the perspective view types
func WithPerspectiveViewTypes(firstPersonID, thirdPersonID string) RigBuilderOption {
	return func(r *rigImpl) {
		r.firstPersonID = firstPersonID
		r.thirdPersonID = thirdPersonID
	}
}

// WithTransition sets the transition used for non-immediate view type switches.
//
// Parameters:
//   - t: the transition (nil makes every switch immediate)
//
// Returns:
//   - RigBuilderOption: functional option to set the transition
func WithTransition(t transition.Transition) RigBuilderOption {
	return func(r *rigImpl) {
		r.transition = t
	}
}

// WithAimAssist sets the aim assist applied after the view type rotation.
//
// Parameters:
//   - aim: the aim assist
//
// Returns:
//   - RigBuilderOption: functional option to set the aim assist
func WithAimAssist(aim aim_assist.AimAssist) RigBuilderOption {
	return func(r *rigImpl) {
		r.aim = aim
	}
}

// WithAnchor sets the followed character.
//
// Parameters:
//   - anchor: the anchor
//
// Returns:
//   - RigBuilderOption: functional option to set the anchor
func WithAnchor(anchor common.Anchor) RigBuilderOption {
	return func(r *rigImpl) {
		r.anchor = anchor
	}
}

// WithFieldOfViewSpring replaces the spring that smooths field of view changes.
//
// Parameters:
//   - options: spring options
//
// Returns:
//   - RigBuilderOption: functional option to set the field of view spring
func WithFieldOfViewSpring(options ...spring.SpringBuilderOption) RigBuilderOption {
	return func(r *rigImpl) {
		r.fovSpring = spring.NewSpring(options...)
	}
}
