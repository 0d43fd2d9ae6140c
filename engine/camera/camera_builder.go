package camera

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

type CameraBuilderOption func(*cameraImpl)

// WithPose sets the camera's initial pose.
//
// Parameters:
//   - pose: the initial position and rotation
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pose
func WithPose(pose common.Pose) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pose = pose
	}
}

// WithFieldOfView sets the camera's vertical field of view in degrees.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFieldOfView(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipPlanes sets the camera's near and far clipping distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}
