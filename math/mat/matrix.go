// SPDX-License-Identifier: GPL-2.0-or-later

// Package mat provides 4x4 float32 matrices in row-major order that act on
// column vectors, as used for view and projection transforms.
package mat

import (
	"fmt"

	"github.com/chewxy/math32"

	"goquake3/math/vec"
)

type Matrix struct {
	m [16]float32
}

func (m *Matrix) String() string {
	return fmt.Sprintf("[%v %v %v %v; %v %v %v %v; %v %v %v %v; %v %v %v %v]",
		m.m[0], m.m[1], m.m[2], m.m[3],
		m.m[4], m.m[5], m.m[6], m.m[7],
		m.m[8], m.m[9], m.m[10], m.m[11],
		m.m[12], m.m[13], m.m[14], m.m[15],
	)
}

func Identity() *Matrix {
	return &Matrix{
		m: [16]float32{
			1, 0, 0, 0, // 0 - 3
			0, 1, 0, 0, // 4 - 7
			0, 0, 1, 0, // 8 - 11
			0, 0, 0, 1, // 12 - 15
		},
	}
}

// FromRows builds a matrix from 16 values in row-major order.
func FromRows(v [16]float32) *Matrix {
	return &Matrix{m: v}
}

func (m *Matrix) Copy() *Matrix {
	nm := &Matrix{}
	nm.m = m.m
	return nm
}

// At returns the element in row r and column c.
func (m *Matrix) At(r, c int) float32 {
	return m.m[r*4+c]
}

// Row returns row r.
func (m *Matrix) Row(r int) [4]float32 {
	return [4]float32{m.m[r*4], m.m[r*4+1], m.m[r*4+2], m.m[r*4+3]}
}

// ColumnMajor returns the elements in the order OpenGL expects them.
func (m *Matrix) ColumnMajor() [16]float32 {
	var r [16]float32
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[j*4+i] = m.m[i*4+j]
		}
	}
	return r
}

// Mul returns a*b. Applied to a vector b acts first.
func Mul(a, b *Matrix) *Matrix {
	r := &Matrix{}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float32
			for k := 0; k < 4; k++ {
				s += a.m[i*4+k] * b.m[k*4+j]
			}
			r.m[i*4+j] = s
		}
	}
	return r
}

// Transform returns m*(v,w).
func (m *Matrix) Transform(v vec.Vec3, w float32) [4]float32 {
	var r [4]float32
	for i := 0; i < 4; i++ {
		r[i] = m.m[i*4]*v.X + m.m[i*4+1]*v.Y + m.m[i*4+2]*v.Z + m.m[i*4+3]*w
	}
	return r
}

func (m *Matrix) Translate(x, y, z float32) {
	// 1, 0, 0, x
	// 0, 1, 0, y
	// 0, 0, 1, z
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		m.m[0], m.m[1], m.m[2], x*m.m[0] + y*m.m[1] + z*m.m[2] + m.m[3],
		m.m[4], m.m[5], m.m[6], x*m.m[4] + y*m.m[5] + z*m.m[6] + m.m[7],
		m.m[8], m.m[9], m.m[10], x*m.m[8] + y*m.m[9] + z*m.m[10] + m.m[11],
		m.m[12], m.m[13], m.m[14], x*m.m[12] + y*m.m[13] + z*m.m[14] + m.m[15],
	}
	m.m = n
}

// Perspective returns a projection with a vertical field of view of fovy
// degrees, mapping the view volume between near and far to clip space.
func Perspective(fovy, aspect, near, far float32) *Matrix {
	f := 1 / math32.Tan(fovy*math32.Pi/360)
	nf := near - far
	return &Matrix{
		m: [16]float32{
			f / aspect, 0, 0, 0,
			0, f, 0, 0,
			0, 0, (far + near) / nf, 2 * far * near / nf,
			0, 0, -1, 0,
		},
	}
}

// LookAt returns a view transform with the eye at eye looking at center.
func LookAt(eye, center, up vec.Vec3) *Matrix {
	fw := vec.Sub(center, eye)
	f := fw.Normalize()
	sd := vec.Cross(f, up)
	s := sd.Normalize()
	u := vec.Cross(s, f)
	m := &Matrix{
		m: [16]float32{
			s.X, s.Y, s.Z, 0,
			u.X, u.Y, u.Z, 0,
			-f.X, -f.Y, -f.Z, 0,
			0, 0, 0, 1,
		},
	}
	m.Translate(-eye.X, -eye.Y, -eye.Z)
	return m
}
