package view_type

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FirstPerson places the camera at an eye offset on the anchor. Its position does not depend
// on the camera rotation, so it moves before it rotates.
type FirstPerson struct {
	*Base
}

// NewFirstPerson creates a first-person view type.
//
// Parameters:
//   - id: the registry key
//   - options: functional options to configure the view type
//
// Returns:
//   - *FirstPerson: the view type
func NewFirstPerson(id string, options ...ViewTypeBuilderOption) *FirstPerson {
	s := defaultSettings(id)
	s.firstPerson = true
	s.rotatePriority = false
	s.minPitch = -80
	s.maxPitch = 80
	s.fieldOfView = 75
	s.zoomFieldOfView = 45
	for _, option := range options {
		option(s)
	}
	return &FirstPerson{Base: newBase(s)}
}

func (f *FirstPerson) Move(dt float32, immediate bool) mgl32.Vec3 {
	if f.anchor == nil {
		return f.pose.Position
	}
	eye := f.anchor.Position().Add(f.anchor.Rotation().Rotate(f.settings.lookOffset))
	return f.Place(dt, eye, immediate)
}
