package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Axes of the rig's left-handed frame. Yaw 0 faces Forward and positive pitch looks down.
var (
	Right   = mgl32.Vec3{1, 0, 0}
	Up      = mgl32.Vec3{0, 1, 0}
	Forward = mgl32.Vec3{0, 0, 1}
)

// epsilon below which vectors are treated as zero length.
const epsilon = 1e-6

// WrapAngle reduces an angle in degrees to the canonical [0, 360) range.
//
// Parameters:
//   - deg: angle in degrees, any magnitude or sign
//
// Returns:
//   - float32: the equivalent angle in [0, 360)
func WrapAngle(deg float32) float32 {
	a := float32(math.Mod(float64(deg), 360))
	if a < 0 {
		a += 360
	}
	// a tiny negative remainder plus 360 can round up to exactly 360
	if a >= 360 {
		a = 0
	}
	return a
}

// SignedAngle reduces an angle in degrees to the (-180, 180] range.
//
// Parameters:
//   - deg: angle in degrees
//
// Returns:
//   - float32: the equivalent signed angle
func SignedAngle(deg float32) float32 {
	a := WrapAngle(deg)
	if a > 180 {
		a -= 360
	}
	return a
}

// ClampAngle clamps a signed angle in degrees to [min, max]. The angle is first
// reduced to (-180, 180] so that e.g. 350 is treated as -10.
//
// Parameters:
//   - deg: angle in degrees
//   - min: lower bound in degrees
//   - max: upper bound in degrees
//
// Returns:
//   - float32: the clamped angle
func ClampAngle(deg, min, max float32) float32 {
	return mgl32.Clamp(SignedAngle(deg), min, max)
}

// DeltaAngle returns the shortest signed difference from a to b in degrees.
func DeltaAngle(a, b float32) float32 {
	return SignedAngle(b - a)
}

// ApproxVec3 reports whether two vectors match per component. The tolerance is absolute
// near zero and relative to the component magnitudes above one, so float noise around an
// exact zero still compares equal.
//
// Parameters:
//   - a: the first vector
//   - b: the second vector
//   - eps: the tolerance
//
// Returns:
//   - bool: true if every component is within tolerance
func ApproxVec3(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		scale := max(1, mgl32.Abs(a[i])+mgl32.Abs(b[i]))
		if mgl32.Abs(a[i]-b[i]) > eps*scale {
			return false
		}
	}
	return true
}

// EulerRotation builds a camera rotation from pitch and yaw in degrees.
// Yaw is applied around world up after pitch is applied around the local right axis.
//
// Parameters:
//   - pitch: rotation around the right axis in degrees (positive looks down)
//   - yaw: rotation around the up axis in degrees (0 faces +Z)
//
// Returns:
//   - mgl32.Quat: the combined rotation
func EulerRotation(pitch, yaw float32) mgl32.Quat {
	qYaw := mgl32.QuatRotate(mgl32.DegToRad(yaw), Up)
	qPitch := mgl32.QuatRotate(mgl32.DegToRad(pitch), Right)
	return qYaw.Mul(qPitch).Normalize()
}

// PitchYaw decomposes a rotation into the pitch and yaw of its forward vector.
// Roll is discarded. Yaw is returned in [0, 360), pitch in [-90, 90].
//
// Parameters:
//   - q: the rotation to decompose
//
// Returns:
//   - pitch, yaw: angles in degrees
func PitchYaw(q mgl32.Quat) (pitch, yaw float32) {
	f := q.Rotate(Forward)
	yaw = WrapAngle(mgl32.RadToDeg(float32(math.Atan2(float64(f.X()), float64(f.Z())))))
	pitch = -mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(f.Y(), -1, 1)))))
	return pitch, yaw
}

// LookRotation returns the roll-free rotation whose forward axis points along dir.
// A zero-length direction yields the identity rotation.
//
// Parameters:
//   - dir: the desired forward direction (need not be normalized)
//
// Returns:
//   - mgl32.Quat: the look rotation
func LookRotation(dir mgl32.Vec3) mgl32.Quat {
	if dir.Dot(dir) < epsilon*epsilon {
		return mgl32.QuatIdent()
	}
	f := dir.Normalize()
	yaw := mgl32.RadToDeg(float32(math.Atan2(float64(f.X()), float64(f.Z()))))
	pitch := -mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(f.Y(), -1, 1)))))
	return EulerRotation(pitch, yaw)
}

// Slerp spherically interpolates between two rotations along the shortest arc.
// The amount is clamped to [0, 1].
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	t = mgl32.Clamp(t, 0, 1)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	return mgl32.QuatSlerp(a, b, t).Normalize()
}

// QuatAngle returns the angle in degrees between two rotations.
//
// Parameters:
//   - a, b: rotations to compare
//
// Returns:
//   - float32: the angle in degrees, in [0, 180]
func QuatAngle(a, b mgl32.Quat) float32 {
	d := float32(math.Abs(float64(a.Normalize().Dot(b.Normalize()))))
	if d >= 1 {
		return 0
	}
	return mgl32.RadToDeg(2 * float32(math.Acos(float64(d))))
}

// RotateTowards rotates from toward to by at most maxDegrees.
//
// Parameters:
//   - from: the current rotation
//   - to: the goal rotation
//   - maxDegrees: the largest step allowed
//
// Returns:
//   - mgl32.Quat: to if it is within maxDegrees, otherwise the partial rotation
func RotateTowards(from, to mgl32.Quat, maxDegrees float32) mgl32.Quat {
	angle := QuatAngle(from, to)
	if angle <= maxDegrees || angle == 0 {
		return to
	}
	return Slerp(from, to, maxDegrees/angle)
}

// Lerp linearly interpolates between two points. The amount is not clamped.
func Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// EaseInOut applies a smoothstep ease-in-out curve to a normalized progress value.
// The input is clamped to [0, 1]; the curve is monotonic with zero slope at both ends.
func EaseInOut(t float32) float32 {
	t = mgl32.Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// DistanceSq returns the squared distance between two points.
func DistanceSq(a, b mgl32.Vec3) float32 {
	d := b.Sub(a)
	return d.Dot(d)
}

// InverseTransformPoint expresses a world-space point in the local space of a
// transform given by its position and rotation (scale is assumed to be one).
//
// Parameters:
//   - position: world position of the transform
//   - rotation: world rotation of the transform
//   - point: the world-space point to convert
//
// Returns:
//   - mgl32.Vec3: the point in the transform's local space
func InverseTransformPoint(position mgl32.Vec3, rotation mgl32.Quat, point mgl32.Vec3) mgl32.Vec3 {
	return rotation.Normalize().Inverse().Rotate(point.Sub(position))
}
