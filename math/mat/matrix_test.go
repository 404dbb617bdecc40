// SPDX-License-Identifier: GPL-2.0-or-later

package mat

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"goquake3/math/vec"
)

const (
	e = 1.e-5
)

func eq(a, b [16]float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > e {
			return false
		}
	}
	return true
}

// eqGL compares against a column-major mathgl matrix.
func eqGL(t *testing.T, m *Matrix, g mgl32.Mat4) {
	t.Helper()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if math32.Abs(m.At(r, c)-g.At(r, c)) > e {
				t.Errorf("At(%d,%d) = %v want %v", r, c, m.At(r, c), g.At(r, c))
			}
		}
	}
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if !eq(m.m, [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}) {
		t.Errorf("Identity broken: %v", m)
	}
}

func TestTranslate(t *testing.T) {
	m := Identity()
	m.Translate(2, 3, 5)
	if !eq(m.m, [16]float32{
		1, 0, 0, 2,
		0, 1, 0, 3,
		0, 0, 1, 5,
		0, 0, 0, 1,
	}) {
		t.Errorf("Identity.Translate(2,3,5) = %v", m)
	}
}

func TestMul(t *testing.T) {
	a := FromRows([16]float32{
		1, 2, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	b := Identity()
	b.Translate(1, 1, 1)
	got := Mul(a, b)
	if !eq(got.m, [16]float32{
		1, 2, 0, 3,
		0, 1, 0, 1,
		0, 0, 1, 1,
		0, 0, 0, 1,
	}) {
		t.Errorf("Mul = %v", got)
	}
	if !eq(Mul(Identity(), a).m, a.m) {
		t.Errorf("Identity*a != a")
	}
}

func TestColumnMajor(t *testing.T) {
	m := Identity()
	m.Translate(7, 8, 9)
	cm := m.ColumnMajor()
	if cm[12] != 7 || cm[13] != 8 || cm[14] != 9 {
		t.Errorf("ColumnMajor = %v", cm)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(50, 4.0/3.0, 0.1, 5000)
	g := mgl32.Perspective(mgl32.DegToRad(50), 4.0/3.0, 0.1, 5000)
	eqGL(t, m, g)
}

func TestLookAt(t *testing.T) {
	eye := vec.Vec3{10, 20, 30}
	center := vec.Vec3{11, 19, 35}
	up := vec.Vec3{0, 1, 0}
	m := LookAt(eye, center, up)
	g := mgl32.LookAtV(mgl32.Vec3{10, 20, 30}, mgl32.Vec3{11, 19, 35}, mgl32.Vec3{0, 1, 0})
	eqGL(t, m, g)
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := vec.Vec3{-3, 4, 12}
	m := LookAt(eye, vec.Vec3{0, 4, 12}, vec.Vec3{0, 1, 0})
	p := m.Transform(eye, 1)
	for i := 0; i < 3; i++ {
		if math32.Abs(p[i]) > e {
			t.Errorf("LookAt(eye) * eye = %v want origin", p)
		}
	}
	// straight ahead ends up on the negative z axis
	p = m.Transform(vec.Vec3{0, 4, 12}, 1)
	if math32.Abs(p[2]+3) > e {
		t.Errorf("center maps to %v want z=-3", p)
	}
}
