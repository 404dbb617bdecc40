// SPDX-License-Identifier: GPL-2.0-or-later

package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goquake3/math/vec"
)

const e = 1e-4

func assertVec(t *testing.T, want, got vec.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, e, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, e, "y of %v", got)
	assert.InDelta(t, want.Z, got.Z, e, "z of %v", got)
}

func TestDefaults(t *testing.T) {
	c := New(DefaultFOV, DefaultZNear, DefaultZFar)
	assert.Equal(t, float32(50), c.FOV())
	assert.Equal(t, float32(1), c.Aspect())
	assert.False(t, c.ThirdPerson())
	theta, psi := c.Angles()
	assert.Equal(t, float32(0), theta)
	assert.Equal(t, float32(90), psi)
	assertVec(t, vec.Vec3{0, 0, 1}, c.Direction())
	assertVec(t, vec.Vec3{}, c.Position())
}

func TestRotateHor(t *testing.T) {
	c := New(DefaultFOV, DefaultZNear, DefaultZFar)
	c.RotateHor(90)
	assertVec(t, vec.Vec3{1, 0, 0}, c.Direction())
	c.RotateHor(-180)
	theta, _ := c.Angles()
	assert.InDelta(t, 270, theta, e)
	assertVec(t, vec.Vec3{-1, 0, 0}, c.Direction())
	c.RotateHor(450)
	theta, _ = c.Angles()
	assert.InDelta(t, 0, theta, e)

	c.RotateHorAbs(-90)
	theta, _ = c.Angles()
	assert.InDelta(t, 270, theta, e)
}

func TestRotateVert(t *testing.T) {
	c := New(DefaultFOV, DefaultZNear, DefaultZFar)
	c.RotateVert(-90)
	assertVec(t, vec.Vec3{0, 1, 0}, c.Direction())
	c.RotateVert(-45)
	_, psi := c.Angles()
	assert.InDelta(t, 315, psi, e)

	c.RotateVertAbs(135)
	d := c.Direction()
	assert.InDelta(t, -math32.Sqrt2/2, d.Y, e)
}

func TestThirdPerson(t *testing.T) {
	c := New(DefaultFOV, DefaultZNear, DefaultZFar)
	c.SetThirdPerson(true, 20)
	require.True(t, c.ThirdPerson())
	// on the sphere, looking at the origin
	assertVec(t, vec.Vec3{0, 0, 20}, c.Position())
	assertVec(t, vec.Vec3{0, 0, -1}, c.Direction())

	c.RotateVert(500)
	_, psi := c.Angles()
	assert.InDelta(t, 179.9, psi, e)
	c.RotateVert(-1000)
	_, psi = c.Angles()
	assert.InDelta(t, 0.01, psi, e)

	c.RotateVertAbs(120)
	_, psi = c.Angles()
	assert.InDelta(t, 90, psi, e)

	c.RotateHor(90)
	assertVec(t, vec.Vec3{20, 0, 0}, c.Position())
}

func TestMove(t *testing.T) {
	c := New(DefaultFOV, DefaultZNear, DefaultZFar)
	c.SetPosition(vec.Vec3{0, 0, -50})
	c.MoveForward(10)
	assertVec(t, vec.Vec3{0, 0, -40}, c.Position())
	c.MoveBackward(20)
	assertVec(t, vec.Vec3{0, 0, -60}, c.Position())
	// looking along +z with y up, right is -x
	c.MoveRight(5)
	assertVec(t, vec.Vec3{-5, 0, -60}, c.Position())
	c.MoveLeft(15)
	assertVec(t, vec.Vec3{10, 0, -60}, c.Position())
	c.Move(vec.Vec3{0, 1, 0}, 3)
	assertVec(t, vec.Vec3{10, 3, -60}, c.Position())
}

func TestSetDirection(t *testing.T) {
	c := New(DefaultFOV, DefaultZNear, DefaultZFar)
	c.SetDirection(vec.Vec3{-3, 0, 0})
	assertVec(t, vec.Vec3{-1, 0, 0}, c.Direction())
	theta, psi := c.Angles()
	assert.InDelta(t, 270, theta, e)
	assert.InDelta(t, 90, psi, e)

	// rotating keeps the derived angles
	c.RotateHor(90)
	assertVec(t, vec.Vec3{0, 0, 1}, c.Direction())

	c.SetDirection(vec.Vec3{})
	assertVec(t, vec.Vec3{0, 0, 1}, c.Direction())
}

func TestCombined(t *testing.T) {
	c := New(70, 1, 1000)
	c.SetViewport(640, 480)
	c.SetPosition(vec.Vec3{10, 20, 30})
	c.RotateHor(30)
	c.RotateVert(10)

	p, d := c.Position(), c.Direction()
	eye := mgl32.Vec3{p.X, p.Y, p.Z}
	want := mgl32.Perspective(mgl32.DegToRad(70), 640.0/480.0, 1, 1000).Mul4(
		mgl32.LookAtV(eye, eye.Add(mgl32.Vec3{d.X, d.Y, d.Z}), mgl32.Vec3{0, 1, 0}))
	got := c.Combined()
	for r := 0; r < 4; r++ {
		for col := 0; col < 4; col++ {
			assert.InDelta(t, want.At(r, col), got.At(r, col), 1e-3, "At(%d,%d)", r, col)
		}
	}
}

func TestSetViewportIgnoresEmptyWindow(t *testing.T) {
	c := New(DefaultFOV, DefaultZNear, DefaultZFar)
	c.SetViewport(0, 100)
	assert.Equal(t, float32(1), c.Aspect())
	c.SetViewableArea(90, 2, 200)
	assert.Equal(t, float32(90), c.FOV())
	assert.Equal(t, float32(2), c.ZNear())
	assert.Equal(t, float32(200), c.ZFar())
}
