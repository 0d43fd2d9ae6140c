package config

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/engine/aim_assist"
	"github.com/Carmen-Shannon/oxy-rig/engine/curve"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/spring"
	"github.com/Carmen-Shannon/oxy-rig/engine/transition"
	"github.com/Carmen-Shannon/oxy-rig/engine/view_type"
	"github.com/go-gl/mathgl/mgl32"
)

// Options converts the spring configuration to builder options, skipping zero fields.
func (s *SpringConfig) Options() []spring.SpringBuilderOption {
	if s == nil {
		return nil
	}
	var options []spring.SpringBuilderOption
	if s.Stiffness > 0 {
		options = append(options, spring.WithStiffness(s.Stiffness))
	}
	if s.Damping > 0 {
		options = append(options, spring.WithDamping(s.Damping))
	}
	if s.MaxVelocity > 0 {
		options = append(options, spring.WithVelocityBounds(s.MinVelocity, s.MaxVelocity))
	}
	if s.FadeIn > 0 {
		options = append(options, spring.WithVelocityFadeIn(s.FadeIn))
	}
	return options
}

func (v Vec3) vec() mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// Options converts the view type configuration to builder options.
func (vt ViewTypeConfig) Options() []view_type.ViewTypeBuilderOption {
	var options []view_type.ViewTypeBuilderOption
	if vt.FirstPerson != nil {
		options = append(options, view_type.WithFirstPersonPerspective(*vt.FirstPerson))
	}
	if vt.CanZoom != nil {
		options = append(options, view_type.WithCanZoom(*vt.CanZoom))
	}
	if vt.PitchLimits != nil {
		options = append(options, view_type.WithPitchLimits(vt.PitchLimits[0], vt.PitchLimits[1]))
	}
	if vt.Sensitivity != nil {
		options = append(options, view_type.WithSensitivity(vt.Sensitivity[0], vt.Sensitivity[1]))
	}
	if vt.FieldOfView > 0 || vt.ZoomFieldOfView > 0 {
		fov, zoomFov := vt.FieldOfView, vt.ZoomFieldOfView
		if fov == 0 {
			fov = 60
		}
		if zoomFov == 0 {
			zoomFov = fov
		}
		options = append(options, view_type.WithFieldOfView(fov, zoomFov))
	}
	if vt.LookSmoothing != nil || vt.LookSpring != nil {
		enabled := vt.LookSmoothing == nil || *vt.LookSmoothing
		options = append(options, view_type.WithLookSmoothing(enabled, vt.LookSpring.Options()...))
	}
	if vt.PositionSmoothing != nil || vt.PositionSpring != nil {
		enabled := vt.PositionSmoothing == nil || *vt.PositionSmoothing
		options = append(options, view_type.WithPositionSmoothing(enabled, vt.PositionSpring.Options()...))
	}
	if vt.ForceSpring != nil {
		options = append(options, view_type.WithForceSpring(vt.ForceSpring.Options()...))
	}
	if vt.LookOffset != nil {
		options = append(options, view_type.WithLookOffset(vt.LookOffset.vec()))
	}
	if vt.PivotOffset != nil {
		options = append(options, view_type.WithPivotOffset(vt.PivotOffset.vec()))
	}
	if vt.ShoulderOffset != nil {
		options = append(options, view_type.WithShoulderOffset(vt.ShoulderOffset.vec()))
	}
	if vt.Distance != nil {
		options = append(options, view_type.WithDistance(*vt.Distance))
	}
	if vt.FixedPitch != nil {
		options = append(options, view_type.WithFixedPitch(*vt.FixedPitch))
	}
	if vt.AlignToCharacter {
		options = append(options, view_type.WithAlignToCharacter(true))
	}
	return options
}

// NewViewType constructs the view type described by the configuration.
//
// Returns:
//   - view_type.ViewType: the view type
//   - error: an error wrapping ErrInvalid for an unknown kind
func (vt ViewTypeConfig) NewViewType() (view_type.ViewType, error) {
	switch vt.Kind {
	case KindFirstPerson:
		return view_type.NewFirstPerson(vt.ID, vt.Options()...), nil
	case KindThirdPerson:
		return view_type.NewThirdPerson(vt.ID, vt.Options()...), nil
	case KindTopDown:
		return view_type.NewTopDown(vt.ID, vt.Options()...), nil
	}
	return nil, invalid("unknown kind %q", vt.Kind)
}

// NewTransition constructs the configured transition, or nil in "none" mode.
//
// Returns:
//   - transition.Transition: the transition or nil
func (t TransitionConfig) NewTransition() transition.Transition {
	switch t.Mode {
	case TransitionTime:
		return transition.NewTransition(transition.WithDuration(t.Duration))
	case TransitionDistance:
		return transition.NewTransition(
			transition.WithSpeed(t.Speed),
			transition.WithDurationBounds(t.MinDuration, t.MaxDuration),
		)
	}
	return nil
}

// NewAimAssist constructs the configured aim assist.
//
// Parameters:
//   - world: the world targets are resolved in
//
// Returns:
//   - aim_assist.AimAssist: the aim assist
//   - error: an invalid influence curve
func (a AimAssistConfig) NewAimAssist(world aim_assist.TargetWorld) (aim_assist.AimAssist, error) {
	keys := make([]curve.Key, len(a.Influence))
	for i, k := range a.Influence {
		keys[i] = curve.Key{Time: k.Angle, Value: k.Strength}
	}
	influence, err := curve.New(keys...)
	if err != nil {
		return nil, fmt.Errorf("aimAssist influence: %w", err)
	}

	options := []aim_assist.AimAssistBuilderOption{
		aim_assist.WithWorld(world),
		aim_assist.WithMaxDistance(a.MaxDistance),
		aim_assist.WithBreakForce(a.BreakForce),
		aim_assist.WithSwitchQuery(a.SwitchRadius, a.Capacity),
		aim_assist.WithSwitchSpeed(a.SwitchSpeed, a.SwitchEpsilon),
		aim_assist.WithInfluence(influence),
		aim_assist.WithRequireAim(a.RequireAim),
		aim_assist.WithRequireVisible(a.RequireVisible),
	}
	if a.Enabled != nil {
		options = append(options, aim_assist.WithEnabled(*a.Enabled))
	}
	if a.Bone != "" {
		options = append(options, aim_assist.WithBone(a.Bone))
	}
	if len(a.Layers) > 0 {
		var mask uint32
		for _, layer := range a.Layers {
			mask |= 1 << layer
		}
		options = append(options, aim_assist.WithLayerMask(mask))
	}
	return aim_assist.NewAimAssist(options...)
}

// Build constructs the rig described by the configuration.
//
// Parameters:
//   - world: the world aim assist resolves targets in (nil disables aim assist)
//   - options: extra rig options applied after the configured ones (e.g. rig.WithAnchor)
//
// Returns:
//   - rig.Rig: the rig
//   - error: a construction error
func (c *Config) Build(world aim_assist.TargetWorld, options ...rig.RigBuilderOption) (rig.Rig, error) {
	viewTypes := make([]view_type.ViewType, 0, len(c.ViewTypes))
	for _, vtc := range c.ViewTypes {
		vt, err := vtc.NewViewType()
		if err != nil {
			return nil, fmt.Errorf("config: build view type %q: %w", vtc.ID, err)
		}
		viewTypes = append(viewTypes, vt)
	}

	rigOptions := []rig.RigBuilderOption{
		rig.WithViewTypes(viewTypes...),
		rig.WithTransition(c.Transition.NewTransition()),
	}
	if c.FirstPersonViewType != "" && c.ThirdPersonViewType != "" {
		rigOptions = append(rigOptions, rig.WithPerspectiveViewTypes(c.FirstPersonViewType, c.ThirdPersonViewType))
	}
	if c.AimAssist != nil && world != nil {
		aim, err := c.AimAssist.NewAimAssist(world)
		if err != nil {
			return nil, fmt.Errorf("config: build: %w", err)
		}
		rigOptions = append(rigOptions, rig.WithAimAssist(aim))
	}
	if c.FieldOfViewSpring != nil {
		rigOptions = append(rigOptions, rig.WithFieldOfViewSpring(c.FieldOfViewSpring.Options()...))
	}
	rigOptions = append(rigOptions, options...)
	if c.DefaultViewType != "" {
		rigOptions = append(rigOptions, rig.WithDefaultViewType(c.DefaultViewType))
	}
	return rig.NewRig(rigOptions...), nil
}
