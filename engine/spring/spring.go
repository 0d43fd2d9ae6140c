package spring

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Spring is a damped follower that moves a value toward a target without discontinuities.
// Each axis of the vector is integrated independently; a scalar spring uses the X axis only.
// A Spring is not safe for concurrent use and is owned by a single view type or rig.
type Spring interface {
	// Update advances the spring by dt seconds and returns the smoothed value.
	// The returned value differs from current by at most velocity*dt, so it never
	// jumps even when target does.
	//
	// Parameters:
	//   - current: the value produced by the previous update
	//   - target: the value the spring is pulled toward
	//   - dt: elapsed time in seconds (values <= 0 return current unchanged)
	//
	// Returns:
	//   - mgl32.Vec3: the smoothed value
	Update(current, target mgl32.Vec3, dt float32) mgl32.Vec3

	// UpdateScalar is Update for a single value, used for field of view.
	//
	// Parameters:
	//   - current: the value produced by the previous update
	//   - target: the value the spring is pulled toward
	//   - dt: elapsed time in seconds
	//
	// Returns:
	//   - float32: the smoothed value
	UpdateScalar(current, target, dt float32) float32

	// AddForce adds an instantaneous impulse to the spring's velocity.
	//
	// Parameters:
	//   - force: velocity change in value units per second
	AddForce(force mgl32.Vec3)

	// Velocity returns the current per-axis velocity.
	//
	// Returns:
	//   - mgl32.Vec3: velocity in value units per second
	Velocity() mgl32.Vec3

	// Reset zeroes the accumulated velocity and restarts the velocity fade-in.
	Reset()

	// Settled reports whether the velocity is zero on every axis.
	//
	// Returns:
	//   - bool: true if the spring is at rest
	Settled() bool
}

type springImpl struct {
	stiffness float32
	damping   float32

	minVelocity float32
	maxVelocity float32

	clampValue bool
	minValue   mgl32.Vec3
	maxValue   mgl32.Vec3

	fadeInLength  float32
	fadeInElapsed float32

	velocity mgl32.Vec3
}

var _ Spring = &springImpl{}

// NewSpring creates a Spring with defaults tuned for camera smoothing at 60 Hz.
//
// Parameters:
//   - options: functional options to configure the spring
//
// Returns:
//   - Spring: the newly created spring
func NewSpring(options ...SpringBuilderOption) Spring {
	s := &springImpl{
		stiffness:   120,
		damping:     22,
		minVelocity: 0.0001,
		maxVelocity: 1000,
	}
	for _, option := range options {
		option(s)
	}
	if s.maxVelocity < s.minVelocity {
		s.maxVelocity = s.minVelocity
	}
	return s
}

func (s *springImpl) Update(current, target mgl32.Vec3, dt float32) mgl32.Vec3 {
	if dt <= 0 {
		return current
	}

	fade := float32(1)
	if s.fadeInLength > 0 && s.fadeInElapsed < s.fadeInLength {
		s.fadeInElapsed += dt
		fade = mgl32.Clamp(s.fadeInElapsed/s.fadeInLength, 0, 1)
	}

	// Semi-implicit Euler: integrate velocity first, then position from the new velocity.
	for i := 0; i < 3; i++ {
		accel := (target[i]-current[i])*s.stiffness - s.velocity[i]*s.damping
		v := s.velocity[i] + accel*dt
		s.velocity[i] = s.clampVelocity(v)
	}

	next := current.Add(s.velocity.Mul(dt * fade))
	if s.clampValue {
		for i := 0; i < 3; i++ {
			clamped := mgl32.Clamp(next[i], s.minValue[i], s.maxValue[i])
			if clamped != next[i] {
				s.velocity[i] = 0
			}
			next[i] = clamped
		}
	}
	return next
}

func (s *springImpl) UpdateScalar(current, target, dt float32) float32 {
	return s.Update(mgl32.Vec3{current, 0, 0}, mgl32.Vec3{target, 0, 0}, dt)[0]
}

// clampVelocity bounds the magnitude of a single axis velocity to [minVelocity, maxVelocity].
// Magnitudes below minVelocity settle to zero.
func (s *springImpl) clampVelocity(v float32) float32 {
	mag := float32(math.Abs(float64(v)))
	switch {
	case mag < s.minVelocity:
		return 0
	case mag > s.maxVelocity:
		return float32(math.Copysign(float64(s.maxVelocity), float64(v)))
	}
	return v
}

func (s *springImpl) AddForce(force mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		v := s.velocity[i] + force[i]
		mag := float32(math.Abs(float64(v)))
		if mag > s.maxVelocity {
			v = float32(math.Copysign(float64(s.maxVelocity), float64(v)))
		}
		s.velocity[i] = v
	}
}

func (s *springImpl) Velocity() mgl32.Vec3 {
	return s.velocity
}

func (s *springImpl) Reset() {
	s.velocity = mgl32.Vec3{}
	s.fadeInElapsed = 0
}

func (s *springImpl) Settled() bool {
	return s.velocity == mgl32.Vec3{}
}
