// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

// Plane is the set of points p with A*p.X + B*p.Y + C*p.Z + D = 0.
type Plane struct {
	A, B, C, D float32
}

// Normal returns (A, B, C).
func (p Plane) Normal() Vec3 {
	return Vec3{p.A, p.B, p.C}
}

// Normalize scales the plane so that its normal has unit length.
// A degenerate plane is returned unchanged.
func (p Plane) Normalize() Plane {
	m := math32.Sqrt(p.A*p.A + p.B*p.B + p.C*p.C)
	if m == 0 {
		return p
	}
	return Plane{p.A / m, p.B / m, p.C / m, p.D / m}
}

// Distance returns the signed distance of v to a normalized plane.
func (p Plane) Distance(v Vec3) float32 {
	return p.A*v.X + p.B*v.Y + p.C*v.Z + p.D
}
