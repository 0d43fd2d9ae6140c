package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: n·p + d = 0.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// SignedDistance returns the signed distance of a point from the plane.
// Positive values lie in the half-space the normal points into.
func (p Plane) SignedDistance(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// Frustum represents the six planes of a view frustum.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts frustum planes from a view-projection matrix using the
// Gribb/Hartmann method. The projection is expected to map depth to [-1, 1]
// clip space, as mgl32.Perspective does.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(viewProj mgl32.Mat4) Frustum {
	var f Frustum
	row := func(i int) mgl32.Vec4 { return viewProj.Row(i) }
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	combos := [6]mgl32.Vec4{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r3.Add(r2), // near
		r3.Sub(r2), // far
	}
	for i, c := range combos {
		f.Planes[i] = Plane{Normal: mgl32.Vec3{c[0], c[1], c[2]}, Distance: c[3]}
		f.normalizePlane(i)
	}
	return f
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := float32(math.Sqrt(float64(p.Normal.Dot(p.Normal))))
	if length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
}

// ContainsPoint reports whether a world-space point lies inside all six planes.
func (f Frustum) ContainsPoint(point mgl32.Vec3) bool {
	return f.ContainsSphere(point, 0)
}

// ContainsSphere reports whether a sphere intersects or lies inside the frustum.
//
// Parameters:
//   - center: world-space sphere center
//   - radius: sphere radius (0 for a point test)
//
// Returns:
//   - bool: false only if the sphere is fully outside at least one plane
func (f Frustum) ContainsSphere(center mgl32.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(center) < -radius {
			return false
		}
	}
	return true
}
