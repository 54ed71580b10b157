package fog

// Plane is a world-space plane in normal-distance form. The normal
// points toward the inside of the frustum, so Distance is positive for
// points in front of the plane.
type Plane struct {
	Normal Vec3
	D      float32
}

// Distance returns the signed distance from pt to the plane.
func (p Plane) Distance(pt Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum plane indices.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Frustum is the six camera planes extracted from a view-projection
// matrix, indexed by the Plane* constants.
type Frustum [6]Plane

// FrustumFromMatrix extracts normalized frustum planes from a row-major
// view-projection matrix with depth in [0, 1].
func FrustumFromMatrix(m Mat4) Frustum {
	r0 := m.Row(0)
	r1 := m.Row(1)
	r2 := m.Row(2)
	r3 := m.Row(3)

	var f Frustum
	f[PlaneLeft] = planeFromVec4(addVec4(r3, r0))
	f[PlaneRight] = planeFromVec4(subVec4(r3, r0))
	f[PlaneBottom] = planeFromVec4(addVec4(r3, r1))
	f[PlaneTop] = planeFromVec4(subVec4(r3, r1))
	f[PlaneNear] = planeFromVec4(r2)
	f[PlaneFar] = planeFromVec4(subVec4(r3, r2))
	return f
}

// ContainsSphere reports whether a bounding sphere is inside or
// straddling the frustum. The far plane is never tested: fog may
// extend beyond the standard draw distance, so distance alone must not
// cull it. A sphere is rejected only when some tested plane has it
// entirely on the outside, further away than its radius.
func (f *Frustum) ContainsSphere(center Vec3, radius float32) bool {
	for i := PlaneLeft; i < PlaneFar; i++ {
		if d := f[i].Distance(center); d < 0 && -d > radius {
			return false
		}
	}
	return true
}

func planeFromVec4(v Vec4) Plane {
	n := Vec3{v[0], v[1], v[2]}
	l := n.Len()
	if l < 1e-8 {
		return Plane{}
	}
	inv := 1.0 / l
	return Plane{Normal: n.Mul(inv), D: v[3] * inv}
}

func addVec4(a, b Vec4) Vec4 {
	return Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func subVec4(a, b Vec4) Vec4 {
	return Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}
