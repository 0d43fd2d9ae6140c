package spring

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = float32(1.0 / 60.0)

func TestSpringConverges(t *testing.T) {
	s := NewSpring()
	target := mgl32.Vec3{3, -2, 10}
	value := mgl32.Vec3{}
	for i := 0; i < 600; i++ {
		value = s.Update(value, target, dt)
	}
	assert.True(t, common.ApproxVec3(value, target, 1e-2), "got %v", value)
}

func TestSpringContinuousOnTargetJump(t *testing.T) {
	const maxVel = 5
	s := NewSpring(WithVelocityBounds(0.0001, maxVel))
	value := mgl32.Vec3{}
	target := mgl32.Vec3{1, 0, 0}
	for i := 0; i < 240; i++ {
		if i == 120 {
			target = mgl32.Vec3{-1000, 0, 0}
		}
		next := s.Update(value, target, dt)
		step := next.Sub(value)
		for axis := 0; axis < 3; axis++ {
			assert.LessOrEqual(t, mgl32.Abs(step[axis]), maxVel*dt+1e-6, "frame %d axis %d", i, axis)
		}
		value = next
	}
}

func TestSpringVelocityClamp(t *testing.T) {
	t.Run("max", func(t *testing.T) {
		s := NewSpring(WithVelocityBounds(0.01, 2))
		s.Update(mgl32.Vec3{}, mgl32.Vec3{100, -100, 0}, dt)
		v := s.Velocity()
		assert.InDelta(t, 2, v[0], 1e-6)
		assert.InDelta(t, -2, v[1], 1e-6)
	})
	t.Run("min_settles", func(t *testing.T) {
		s := NewSpring(WithVelocityBounds(1, 10))
		s.Update(mgl32.Vec3{}, mgl32.Vec3{0.001, 0, 0}, dt)
		assert.True(t, s.Settled())
	})
	t.Run("impulse_respects_max", func(t *testing.T) {
		s := NewSpring(WithVelocityBounds(0.01, 3))
		s.AddForce(mgl32.Vec3{10, 0, 0})
		assert.InDelta(t, 3, s.Velocity()[0], 1e-6)
	})
}

func TestSpringReset(t *testing.T) {
	s := NewSpring()
	s.AddForce(mgl32.Vec3{1, 2, 3})
	require.False(t, s.Settled())
	s.Reset()
	assert.True(t, s.Settled())
	assert.Equal(t, mgl32.Vec3{}, s.Velocity())
}

func TestSpringValueBounds(t *testing.T) {
	s := NewSpring(WithValueBounds(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))
	value := mgl32.Vec3{}
	for i := 0; i < 300; i++ {
		value = s.Update(value, mgl32.Vec3{5, -5, 0}, dt)
		assert.LessOrEqual(t, value[0], float32(1))
		assert.GreaterOrEqual(t, value[1], float32(-1))
	}
	assert.InDelta(t, 1, value[0], 1e-6)
}

func TestSpringFadeIn(t *testing.T) {
	plain := NewSpring()
	faded := NewSpring(WithVelocityFadeIn(0.5))
	target := mgl32.Vec3{10, 0, 0}

	a := plain.Update(mgl32.Vec3{}, target, dt)
	b := faded.Update(mgl32.Vec3{}, target, dt)
	assert.Less(t, b[0], a[0], "fade-in scales the first steps down")
	assert.Greater(t, b[0], float32(0))
}

func TestSpringScalarAndZeroDelta(t *testing.T) {
	s := NewSpring()
	assert.Equal(t, float32(60), s.UpdateScalar(60, 40, 0))
	fov := float32(60)
	for i := 0; i < 600; i++ {
		fov = s.UpdateScalar(fov, 40, dt)
	}
	assert.InDelta(t, 40, fov, 1e-2)
}
