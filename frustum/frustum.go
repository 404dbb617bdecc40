// SPDX-License-Identifier: GPL-2.0-or-later

// Package frustum culls points and boxes against the six clip planes of
// a combined projection and view matrix.
package frustum

import (
	"goquake3/math/mat"
	"goquake3/math/vec"
)

const (
	Left = iota
	Right
	Bottom
	Top
	Near
	Far
)

type Frustum struct {
	planes [6]vec.Plane
}

// New returns the frustum of m = projection * view.
func New(m *mat.Matrix) *Frustum {
	f := &Frustum{}
	f.Update(m)
	return f
}

// Update recomputes the planes. Their normals point inside.
func (f *Frustum) Update(m *mat.Matrix) {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	add := func(a, b [4]float32) vec.Plane {
		return vec.Plane{A: a[0] + b[0], B: a[1] + b[1], C: a[2] + b[2], D: a[3] + b[3]}.Normalize()
	}
	sub := func(a, b [4]float32) vec.Plane {
		return vec.Plane{A: a[0] - b[0], B: a[1] - b[1], C: a[2] - b[2], D: a[3] - b[3]}.Normalize()
	}
	f.planes[Left] = add(r3, r0)
	f.planes[Right] = sub(r3, r0)
	f.planes[Bottom] = add(r3, r1)
	f.planes[Top] = sub(r3, r1)
	f.planes[Near] = add(r3, r2)
	f.planes[Far] = sub(r3, r2)
}

func (f *Frustum) Planes() [6]vec.Plane {
	return f.planes
}

// PointVisible reports whether p is strictly inside all planes.
func (f *Frustum) PointVisible(p vec.Vec3) bool {
	for _, pl := range f.planes {
		if pl.Distance(p) <= 0 {
			return false
		}
	}
	return true
}

// BoxVisible reports whether the axis aligned box can intersect the
// frustum. A box is culled only if all eight corners are on or behind a
// single plane.
func (f *Frustum) BoxVisible(mins, maxs vec.Vec3) bool {
	for _, pl := range f.planes {
		// the corner farthest along the normal decides for all eight
		c := maxs
		if pl.A < 0 {
			c.X = mins.X
		}
		if pl.B < 0 {
			c.Y = mins.Y
		}
		if pl.C < 0 {
			c.Z = mins.Z
		}
		if pl.Distance(c) <= 0 {
			return false
		}
	}
	return true
}
