// SPDX-License-Identifier: GPL-2.0-or-later

// Package math holds the scalar helpers used by the camera and the frame
// limiter. Vectors and matrices live in the vec and mat sub packages.
package math

import (
	"github.com/chewxy/math32"
)

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Clamp returns val limited to [lo, hi].
func Clamp[K Number](lo, val, hi K) K {
	switch {
	case val < lo:
		return lo
	case val > hi:
		return hi
	}
	return val
}

// AngleMod wraps an angle in degrees into [0, 360).
func AngleMod(a float32) float32 {
	r := a - math32.Floor(a/360)*360
	if r >= 360 {
		// tiny negative angles round up to 360
		return 0
	}
	return r
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float32) float32 {
	return deg * math32.Pi / 180
}
