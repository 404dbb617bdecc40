// SPDX-License-Identifier: GPL-2.0-or-later

package camera

import (
	"github.com/chewxy/math32"

	"goquake3/math"
	"goquake3/math/mat"
	"goquake3/math/vec"
	"goquake3/model"
)

const (
	DefaultFOV               = 50
	DefaultZNear             = 0.1
	DefaultZFar              = 1500
	DefaultThirdPersonRadius = 10
)

// Camera is a free look camera. psi is the angle from the up axis, theta
// the rotation around it, both in degrees. In third person mode the camera
// orbits the origin at a fixed radius and always looks at it.
type Camera struct {
	fov    float32
	znear  float32
	zfar   float32
	aspect float32

	thirdPerson bool
	radius      float32

	pos vec.Vec3
	dir vec.Vec3
	up  vec.Vec3

	psi   float32
	theta float32
}

var _ model.View = (*Camera)(nil)

func New(fov, znear, zfar float32) *Camera {
	c := &Camera{
		fov:    fov,
		znear:  znear,
		zfar:   zfar,
		aspect: 1,
		radius: DefaultThirdPersonRadius,
		up:     vec.Vec3{0, 1, 0},
		psi:    90,
		theta:  0,
	}
	c.updateDirection()
	return c
}

func (c *Camera) SetViewableArea(fov, znear, zfar float32) {
	c.fov = fov
	c.znear = znear
	c.zfar = zfar
}

// SetViewport sets the aspect ratio from the window size.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
}

func (c *Camera) FOV() float32    { return c.fov }
func (c *Camera) Aspect() float32 { return c.aspect }
func (c *Camera) ZNear() float32  { return c.znear }
func (c *Camera) ZFar() float32   { return c.zfar }

func (c *Camera) SetThirdPerson(enabled bool, radius float32) {
	c.thirdPerson = enabled
	c.radius = radius
	if enabled {
		c.psi = math.Clamp(0.01, c.psi, 179.9)
	}
	c.updateDirection()
}

func (c *Camera) ThirdPerson() bool {
	return c.thirdPerson
}

func (c *Camera) SetPosition(p vec.Vec3) {
	c.pos = p
}

func (c *Camera) Position() vec.Vec3 {
	return c.pos
}

// SetDirection points the camera along d. The rotation angles are
// derived from d.
func (c *Camera) SetDirection(d vec.Vec3) {
	n := d.Normalize()
	if n == (vec.Vec3{}) {
		return
	}
	c.psi = math32.Acos(math.Clamp(-1, n.Y, 1)) * 180 / math32.Pi
	c.theta = math.AngleMod(math32.Atan2(n.X, n.Z) * 180 / math32.Pi)
	c.dir = n
}

func (c *Camera) Direction() vec.Vec3 {
	return c.dir
}

func (c *Camera) Angles() (theta, psi float32) {
	return c.theta, c.psi
}

// RotateVert adds angle to the vertical rotation.
func (c *Camera) RotateVert(angle float32) {
	c.psi += angle
	if c.thirdPerson {
		c.psi = math.Clamp(0.01, c.psi, 179.9)
	} else {
		c.psi = math.AngleMod(c.psi)
	}
	c.updateDirection()
}

// RotateHor adds angle to the horizontal rotation.
func (c *Camera) RotateHor(angle float32) {
	c.theta = math.AngleMod(c.theta + angle)
	c.updateDirection()
}

// RotateVertAbs sets the vertical rotation.
func (c *Camera) RotateVertAbs(angle float32) {
	if c.thirdPerson {
		c.psi = math.Clamp(-90, angle, 90)
	} else {
		c.psi = math.AngleMod(angle)
	}
	c.updateDirection()
}

// RotateHorAbs sets the horizontal rotation.
func (c *Camera) RotateHorAbs(angle float32) {
	c.theta = math.AngleMod(angle)
	c.updateDirection()
}

func (c *Camera) updateDirection() {
	if c.thirdPerson {
		c.pos = vec.SphericalDeg(c.theta, c.psi, c.radius)
		d := c.pos.Scale(-1)
		c.dir = d.Normalize()
		return
	}
	d := vec.SphericalDeg(c.theta, c.psi, 1)
	c.dir = d.Normalize()
}

// Move moves the camera by factor along d.
func (c *Camera) Move(d vec.Vec3, factor float32) {
	c.pos = vec.Add(c.pos, d.Scale(factor))
}

func (c *Camera) MoveForward(factor float32) {
	c.Move(c.dir, factor)
}

func (c *Camera) MoveBackward(factor float32) {
	c.Move(c.dir, -factor)
}

func (c *Camera) strafe() vec.Vec3 {
	s := vec.Cross(c.dir, c.up)
	return s.Normalize()
}

func (c *Camera) MoveLeft(factor float32) {
	c.Move(c.strafe(), -factor)
}

func (c *Camera) MoveRight(factor float32) {
	c.Move(c.strafe(), factor)
}

// View returns the world to eye transform.
func (c *Camera) View() *mat.Matrix {
	if c.thirdPerson {
		return mat.LookAt(c.pos, vec.Vec3{}, c.up)
	}
	return mat.LookAt(c.pos, vec.Add(c.pos, c.dir), c.up)
}

func (c *Camera) Projection() *mat.Matrix {
	return mat.Perspective(c.fov, c.aspect, c.znear, c.zfar)
}

// Combined returns projection * view.
func (c *Camera) Combined() *mat.Matrix {
	return mat.Mul(c.Projection(), c.View())
}
