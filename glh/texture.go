// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"

	"goquake3/texture"
)

// Uploader creates GL textures. The handles are GL texture names.
type Uploader struct{}

var _ texture.Uploader = (*Uploader)(nil)

func NewUploader() *Uploader {
	return &Uploader{}
}

type pixelFormat struct {
	internal int32
	format   uint32
}

func formatOf(t *texture.Texture) (pixelFormat, error) {
	want := int(t.Width) * int(t.Height) * t.BytesPerPixel()
	if t.Width <= 0 || t.Height <= 0 || len(t.Data) != want {
		return pixelFormat{}, errors.Errorf("texture %s: %dx%d with %d bytes", t.Name(), t.Width, t.Height, len(t.Data))
	}
	if t.Typ == texture.ColorTypeLightmap {
		return pixelFormat{gl.RGB8, gl.RGB}, nil
	}
	return pixelFormat{gl.RGBA8, gl.RGBA}, nil
}

type filterModes struct {
	min, mag, wrap int32
}

func filterOf(t *texture.Texture) filterModes {
	var m filterModes
	switch {
	case t.Flags(texture.TexPrefMipMap):
		m.min, m.mag = gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	case t.Flags(texture.TexPrefLinear):
		m.min, m.mag = gl.LINEAR, gl.LINEAR
	default:
		m.min, m.mag = gl.NEAREST, gl.NEAREST
	}
	m.wrap = gl.CLAMP_TO_EDGE
	if t.Flags(texture.TexPrefRepeat) {
		m.wrap = gl.REPEAT
	}
	return m
}

// Upload copies the pixels of t into a new texture on the main thread.
func (u *Uploader) Upload(t *texture.Texture) (texture.Handle, error) {
	pf, err := formatOf(t)
	if err != nil {
		return 0, err
	}
	fm := filterOf(t)
	var id uint32
	mainthread.Call(func() {
		gl.GenTextures(1, &id)
		gl.BindTexture(gl.TEXTURE_2D, id)
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.TexImage2D(gl.TEXTURE_2D, 0, pf.internal, t.Width, t.Height,
			0, pf.format, gl.UNSIGNED_BYTE, gl.Ptr(t.Data))
		if t.Flags(texture.TexPrefMipMap) {
			gl.GenerateMipmap(gl.TEXTURE_2D)
		}
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, fm.min)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, fm.mag)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, fm.wrap)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, fm.wrap)
	})
	if id == 0 {
		return 0, errors.Errorf("texture %s: no texture name", t.Name())
	}
	return texture.Handle(id), nil
}

func (u *Uploader) Delete(h texture.Handle) {
	if h == 0 {
		return
	}
	id := uint32(h)
	mainthread.CallNonBlock(func() {
		gl.DeleteTextures(1, &id)
	})
}
