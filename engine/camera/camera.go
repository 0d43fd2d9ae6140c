package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/go-gl/mathgl/mgl32"
)

// flipZ converts the rig's +Z-forward view space to the -Z-forward space mgl32.Perspective expects.
var flipZ = mgl32.Scale3D(1, 1, -1)

type cameraImpl struct {
	mu *sync.Mutex

	pose common.Pose

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix              mgl32.Mat4
	projectionMatrix        mgl32.Mat4
	viewProjectionMatrix    mgl32.Mat4
	inverseProjectionMatrix mgl32.Mat4
	frustum                 common.Frustum
}

// Camera is the render-side camera object the rig writes its pose into once per frame.
// It holds perspective settings and keeps the view and projection matrices current.
// Thread-safe, as the rig writes from the tick while a renderer may read concurrently.
type Camera interface {
	// Pose returns the camera's world-space position and rotation.
	//
	// Returns:
	//   - common.Pose: the camera pose
	Pose() common.Pose

	// SetPose sets the camera's position and rotation and recomputes the view matrices.
	//
	// Parameters:
	//   - pose: the new pose
	SetPose(pose common.Pose)

	// Forward returns the camera's forward direction.
	//
	// Returns:
	//   - mgl32.Vec3: unit forward vector
	Forward() mgl32.Vec3

	// FieldOfView returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	FieldOfView() float32

	// SetFieldOfView sets the vertical field of view in degrees and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in degrees (clamped to [1, 179])
	SetFieldOfView(fov float32)

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetClipPlanes sets the near and far clipping distances and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	//   - far: far plane distance
	SetClipPlanes(near, far float32)

	// ViewMatrix returns the current view matrix (inverse of the camera transform).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjectionMatrix() mgl32.Mat4

	// InverseProjectionMatrix returns the inverse of the projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse projection matrix
	InverseProjectionMatrix() mgl32.Mat4

	// Frustum returns the world-space view frustum for the current matrices.
	//
	// Returns:
	//   - common.Frustum: the frustum planes
	Frustum() common.Frustum
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the origin facing +Z with default perspective settings.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		pose:   common.IdentityPose(),
		fov:    60,
		aspect: 16.0 / 9.0,
		near:   0.1,
		far:    1000,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Pose() common.Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

func (c *cameraImpl) SetPose(pose common.Pose) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pose = pose
	c.updateMatrices()
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose.Forward()
}

func (c *cameraImpl) FieldOfView() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) SetFieldOfView(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = mgl32.Clamp(fov, 1, 179)
	c.updateMatrices()
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetClipPlanes(near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if near <= 0 || far <= near {
		return
	}
	c.near = near
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustum
}

// updateMatrices recalculates the view, projection, view-projection and inverse projection
// matrices and the frustum. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	rotation := c.pose.Rotation.Normalize()
	// the inverse of a rigid transform is the transposed rotation and the negated, rotated translation
	inverse := rotation.Conjugate()
	c.viewMatrix = inverse.Mat4().Mul4(mgl32.Translate3D(-c.pose.Position.X(), -c.pose.Position.Y(), -c.pose.Position.Z()))

	c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far).Mul4(flipZ)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.inverseProjectionMatrix = c.projectionMatrix.Inv()
	c.frustum = common.ExtractFrustum(c.viewProjectionMatrix)
}
