// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

// ModifyGamma brightens packed RGB data in place by factor. A pixel whose
// brightest channel would overflow is scaled down as a whole so the hue
// is kept.
func ModifyGamma(rgb []byte, factor float32) {
	for i := 0; i+2 < len(rgb); i += 3 {
		r := float32(rgb[i]) * factor / 255
		g := float32(rgb[i+1]) * factor / 255
		b := float32(rgb[i+2]) * factor / 255

		scale := float32(1)
		if r > 1 && 1/r < scale {
			scale = 1 / r
		}
		if g > 1 && 1/g < scale {
			scale = 1 / g
		}
		if b > 1 && 1/b < scale {
			scale = 1 / b
		}
		scale *= 255
		rgb[i] = byte(r * scale)
		rgb[i+1] = byte(g * scale)
		rgb[i+2] = byte(b * scale)
	}
}
