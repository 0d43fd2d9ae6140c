package view_type

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ThirdPerson orbits a pivot on the anchor at a fixed distance, offset over the shoulder.
// The orbit uses the rotation computed this frame, so it rotates before it moves.
type ThirdPerson struct {
	*Base
}

// NewThirdPerson creates a third-person view type.
//
// Parameters:
//   - id: the registry key
//   - options: functional options to configure the view type
//
// Returns:
//   - *ThirdPerson: the view type
func NewThirdPerson(id string, options ...ViewTypeBuilderOption) *ThirdPerson {
	s := defaultSettings(id)
	s.firstPerson = false
	s.rotatePriority = true
	s.minPitch = -60
	s.maxPitch = 75
	s.smoothPosition = true
	for _, option := range options {
		option(s)
	}
	return &ThirdPerson{Base: newBase(s)}
}

func (t *ThirdPerson) Move(dt float32, immediate bool) mgl32.Vec3 {
	if t.anchor == nil {
		return t.pose.Position
	}
	s := t.settings
	pivot := t.anchor.Position().Add(t.anchor.Rotation().Rotate(s.pivotOffset))
	// orbit on the look angles only; force offsets shake the view, not the boom
	orbit := common.EulerRotation(t.pitch, t.yaw)
	desired := pivot.Add(orbit.Rotate(s.shoulderOffset)).Sub(orbit.Rotate(common.Forward).Mul(s.distance))
	return t.Place(dt, desired, immediate)
}

// Distance returns the boom length behind the pivot.
func (t *ThirdPerson) Distance() float32 {
	return t.settings.distance
}
