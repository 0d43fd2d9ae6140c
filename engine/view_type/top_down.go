package view_type

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/go-gl/mathgl/mgl32"
)

// TopDown looks down on the anchor from a fixed pitch. Horizontal input turns the view,
// vertical input is ignored and zoom is never allowed.
type TopDown struct {
	*Base
}

// NewTopDown creates a top-down view type.
//
// Parameters:
//   - id: the registry key
//   - options: functional options to configure the view type
//
// Returns:
//   - *TopDown: the view type
func NewTopDown(id string, options ...ViewTypeBuilderOption) *TopDown {
	s := defaultSettings(id)
	s.firstPerson = false
	s.rotatePriority = true
	s.distance = 12
	for _, option := range options {
		option(s)
	}
	s.canZoom = false
	s.fixedPitch = mgl32.Clamp(s.fixedPitch, -89, 89)
	s.minPitch = s.fixedPitch
	s.maxPitch = s.fixedPitch
	return &TopDown{Base: newBase(s)}
}

func (t *TopDown) Rotate(dt, horizontal, vertical float32, immediate bool) mgl32.Quat {
	return t.Look(dt, horizontal, 0, immediate)
}

func (t *TopDown) Move(dt float32, immediate bool) mgl32.Vec3 {
	if t.anchor == nil {
		return t.pose.Position
	}
	orbit := common.EulerRotation(t.pitch, t.yaw)
	desired := t.anchor.Position().Sub(orbit.Rotate(common.Forward).Mul(t.settings.distance))
	return t.Place(dt, desired, immediate)
}

func (t *TopDown) ChangeViewType(activate bool, pitch, yaw float32, characterRotation mgl32.Quat) {
	if activate && t.settings.alignToCharacter {
		_, yaw = common.PitchYaw(characterRotation)
	}
	t.Base.ChangeViewType(activate, pitch, yaw, characterRotation)
}
