// package common contains the plain types and math helpers shared by every rig package. They are not
// interface-wrapped structs, just value types and free functions.
package common

import "github.com/go-gl/mathgl/mgl32"

// Pose is a camera placement produced once per frame by the authoritative view type or transition.
type Pose struct {
	// Position is the world-space camera position.
	Position mgl32.Vec3
	// Rotation is the world-space camera rotation.
	Rotation mgl32.Quat
}

// IdentityPose returns a pose at the origin facing +Z.
func IdentityPose() Pose {
	return Pose{Rotation: mgl32.QuatIdent()}
}

// Forward returns the pose's forward direction.
func (p Pose) Forward() mgl32.Vec3 {
	return p.Rotation.Rotate(Forward)
}

// ApproxEqual reports whether two poses match within a positional threshold (world units)
// and an angular threshold (degrees).
func (p Pose) ApproxEqual(o Pose, posEpsilon, angleEpsilon float32) bool {
	return ApproxVec3(p.Position, o.Position, posEpsilon) &&
		QuatAngle(p.Rotation, o.Rotation) <= angleEpsilon
}

// Anchor is the character-relative reference the camera follows.
// Implementations are owned by gameplay code and sampled once per frame.
type Anchor interface {
	// Position returns the anchor's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the anchor position
	Position() mgl32.Vec3

	// Rotation returns the anchor's world-space rotation.
	//
	// Returns:
	//   - mgl32.Quat: the anchor rotation
	Rotation() mgl32.Quat
}
