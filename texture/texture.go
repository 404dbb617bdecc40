// SPDX-License-Identifier: GPL-2.0-or-later

package texture

// Handle identifies an uploaded texture. 0 means no texture.
type Handle uint32

type TexPref uint32

const (
	TexPrefMipMap TexPref = 1 << iota
	TexPrefLinear
	TexPrefRepeat
	TexPrefNone TexPref = 0
)

type ColorType int

const (
	ColorTypeRGBA ColorType = iota
	ColorTypeLightmap
)

// Texture is decoded pixel data waiting for or tracking an upload.
// RGBA textures carry 4 bytes per pixel, lightmaps 3.
type Texture struct {
	Handle Handle
	Width  int32
	Height int32
	flags  TexPref
	name   string
	Typ    ColorType
	Data   []byte
}

func NewTexture(w, h int32, flags TexPref, name string, typ ColorType, data []byte) *Texture {
	return &Texture{
		Width:  w,
		Height: h,
		flags:  flags,
		name:   name,
		Typ:    typ,
		Data:   data,
	}
}

func (t *Texture) Name() string {
	return t.name
}

func (t *Texture) Texels() int {
	if t.Flags(TexPrefMipMap) {
		return int(t.Width * t.Height * 4 / 3)
	}
	return int(t.Width * t.Height)
}

func (t *Texture) Flags(f TexPref) bool {
	return t.flags&f != 0
}

// BytesPerPixel returns the size of one pixel in Data.
func (t *Texture) BytesPerPixel() int {
	if t.Typ == ColorTypeLightmap {
		return 3
	}
	return 4
}
