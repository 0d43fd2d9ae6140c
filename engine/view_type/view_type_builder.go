package view_type

import (
	"github.com/Carmen-Shannon/oxy-rig/engine/spring"
	"github.com/go-gl/mathgl/mgl32"
)

// settings holds every tunable of the built-in strategies. Each strategy reads the
// fields it needs; options that do not apply to a strategy are ignored by it.
type settings struct {
	id string

	firstPerson    bool
	rotatePriority bool
	canZoom        bool

	minPitch    float32
	maxPitch    float32
	sensitivity mgl32.Vec2

	smoothLook     bool
	smoothPosition bool
	lookSpring     []spring.SpringBuilderOption
	positionSpring []spring.SpringBuilderOption
	forceSpring    []spring.SpringBuilderOption

	fieldOfView     float32
	zoomFieldOfView float32

	// first person
	lookOffset mgl32.Vec3

	// third person
	pivotOffset    mgl32.Vec3
	shoulderOffset mgl32.Vec3
	distance       float32

	// top down
	fixedPitch       float32
	alignToCharacter bool
}

func defaultSettings(id string) *settings {
	return &settings{
		id:              id,
		canZoom:         true,
		minPitch:        -80,
		maxPitch:        80,
		sensitivity:     mgl32.Vec2{2, 2},
		smoothLook:      true,
		fieldOfView:     60,
		zoomFieldOfView: 40,
		lookSpring: []spring.SpringBuilderOption{
			spring.WithStiffness(400), spring.WithDamping(40), spring.WithVelocityBounds(0.0001, 2000),
		},
		positionSpring: []spring.SpringBuilderOption{
			spring.WithStiffness(200), spring.WithDamping(28), spring.WithVelocityBounds(0.0001, 200),
		},
		forceSpring: []spring.SpringBuilderOption{
			spring.WithStiffness(150), spring.WithDamping(18), spring.WithVelocityBounds(0.0001, 500),
		},
		lookOffset:     mgl32.Vec3{0, 1.6, 0.1},
		pivotOffset:    mgl32.Vec3{0, 1.8, 0},
		shoulderOffset: mgl32.Vec3{0.5, 0, 0},
		distance:       4,
		fixedPitch:     60,
	}
}

// ViewTypeBuilderOption is a functional option for configuring a view type.
type ViewTypeBuilderOption func(*settings)

// WithFirstPersonPerspective overrides whether the strategy counts as first person.
//
// Parameters:
//   - firstPerson: true for a first-person strategy
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the perspective flag
func WithFirstPersonPerspective(firstPerson bool) ViewTypeBuilderOption {
	return func(s *settings) {
		s.firstPerson = firstPerson
	}
}

// WithCanZoom sets whether the strategy allows zooming.
//
// Parameters:
//   - canZoom: false to refuse zoom requests while active
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the zoom policy
func WithCanZoom(canZoom bool) ViewTypeBuilderOption {
	return func(s *settings) {
		s.canZoom = canZoom
	}
}

// WithPitchLimits sets the pitch clamp range in degrees. Positive pitch looks down.
//
// Parameters:
//   - min: lowest pitch (looking up)
//   - max: highest pitch (looking down)
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the pitch limits
func WithPitchLimits(min, max float32) ViewTypeBuilderOption {
	return func(s *settings) {
		if min > max {
			min, max = max, min
		}
		s.minPitch = min
		s.maxPitch = max
	}
}

// WithSensitivity sets the degrees of rotation per unit of look input.
//
// Parameters:
//   - horizontal: yaw degrees per horizontal input unit
//   - vertical: pitch degrees per vertical input unit
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the sensitivity
func WithSensitivity(horizontal, vertical float32) ViewTypeBuilderOption {
	return func(s *settings) {
		s.sensitivity = mgl32.Vec2{horizontal, vertical}
	}
}

// WithLookSmoothing enables or disables spring smoothing of pitch and yaw.
//
// Parameters:
//   - enabled: true to smooth rotation
//   - options: spring options used when smoothing (defaults apply if empty)
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the look smoothing
func WithLookSmoothing(enabled bool, options ...spring.SpringBuilderOption) ViewTypeBuilderOption {
	return func(s *settings) {
		s.smoothLook = enabled
		if len(options) > 0 {
			s.lookSpring = options
		}
	}
}

// WithPositionSmoothing enables or disables spring smoothing of the camera position.
//
// Parameters:
//   - enabled: true to smooth position
//   - options: spring options used when smoothing (defaults apply if empty)
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the position smoothing
func WithPositionSmoothing(enabled bool, options ...spring.SpringBuilderOption) ViewTypeBuilderOption {
	return func(s *settings) {
		s.smoothPosition = enabled
		if len(options) > 0 {
			s.positionSpring = options
		}
	}
}

// WithForceSpring sets the spring that decays positional and rotational impulses.
//
// Parameters:
//   - options: spring options
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the force spring
func WithForceSpring(options ...spring.SpringBuilderOption) ViewTypeBuilderOption {
	return func(s *settings) {
		s.forceSpring = options
	}
}

// WithFieldOfView sets the vertical field of view in degrees for the normal and zoomed states.
//
// Parameters:
//   - fov: field of view when not zoomed
//   - zoomFov: field of view while zoomed
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the field of view
func WithFieldOfView(fov, zoomFov float32) ViewTypeBuilderOption {
	return func(s *settings) {
		s.fieldOfView = fov
		s.zoomFieldOfView = zoomFov
	}
}

// WithLookOffset sets the first-person eye offset in anchor space.
//
// Parameters:
//   - offset: eye position relative to the anchor
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the look offset
func WithLookOffset(offset mgl32.Vec3) ViewTypeBuilderOption {
	return func(s *settings) {
		s.lookOffset = offset
	}
}

// WithPivotOffset sets the third-person orbit pivot in anchor space.
//
// Parameters:
//   - offset: pivot position relative to the anchor
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the pivot offset
func WithPivotOffset(offset mgl32.Vec3) ViewTypeBuilderOption {
	return func(s *settings) {
		s.pivotOffset = offset
	}
}

// WithShoulderOffset sets the third-person offset in camera space applied at the pivot.
//
// Parameters:
//   - offset: camera-local offset (+X moves the camera to the right)
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the shoulder offset
func WithShoulderOffset(offset mgl32.Vec3) ViewTypeBuilderOption {
	return func(s *settings) {
		s.shoulderOffset = offset
	}
}

// WithDistance sets how far behind the pivot the third-person and top-down cameras sit.
//
// Parameters:
//   - distance: world units (negative values are treated as zero)
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the distance
func WithDistance(distance float32) ViewTypeBuilderOption {
	return func(s *settings) {
		s.distance = max(distance, 0)
	}
}

// WithFixedPitch sets the top-down camera's constant pitch in degrees.
//
// Parameters:
//   - pitch: pitch in degrees (positive looks down)
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the fixed pitch
func WithFixedPitch(pitch float32) ViewTypeBuilderOption {
	return func(s *settings) {
		s.fixedPitch = pitch
	}
}

// WithAlignToCharacter makes the top-down camera take its yaw from the character's
// heading when activated instead of the outgoing view type's yaw.
//
// Parameters:
//   - align: true to align on activation
//
// Returns:
//   - ViewTypeBuilderOption: functional option to set the alignment
func WithAlignToCharacter(align bool) ViewTypeBuilderOption {
	return func(s *settings) {
		s.alignToCharacter = align
	}
}
