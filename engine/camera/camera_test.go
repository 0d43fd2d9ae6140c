package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestViewMatrixMapsForwardToView(t *testing.T) {
	c := NewCamera(WithPose(common.Pose{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: common.EulerRotation(0, 90),
	}))

	// a point one unit in front of the camera lands on the view-space +Z axis
	ahead := c.Pose().Position.Add(c.Forward())
	v := c.ViewMatrix().Mul4x1(ahead.Vec4(1))
	assert.True(t, common.ApproxVec3(v.Vec3(), mgl32.Vec3{0, 0, 1}, 1e-5), "got %v", v)
}

func TestFrustumFollowsPose(t *testing.T) {
	c := NewCamera(WithAspect(1), WithFieldOfView(60), WithClipPlanes(0.1, 100))

	assert.True(t, c.Frustum().ContainsPoint(mgl32.Vec3{0, 0, 10}))
	assert.False(t, c.Frustum().ContainsPoint(mgl32.Vec3{0, 0, -10}))

	c.SetPose(common.Pose{Rotation: common.EulerRotation(0, 180)})
	assert.True(t, c.Frustum().ContainsPoint(mgl32.Vec3{0, 0, -10}))
	assert.False(t, c.Frustum().ContainsPoint(mgl32.Vec3{0, 0, 10}))
}

func TestSettersValidate(t *testing.T) {
	c := NewCamera()
	c.SetFieldOfView(500)
	assert.Equal(t, float32(179), c.FieldOfView())

	c.SetAspect(-1)
	assert.InDelta(t, 16.0/9.0, c.Aspect(), 1e-6)

	c.SetClipPlanes(10, 5)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(1000), c.Far())

	p := c.ProjectionMatrix().Mul4(c.InverseProjectionMatrix())
	for i, want := range mgl32.Ident4() {
		assert.InDelta(t, want, p[i], 1e-4, "element %d", i)
	}
}
