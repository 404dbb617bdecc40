// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/tools/godoc/vfs"
)

// Load decodes a jpg, tga or png file from fs. The decoder is chosen by
// extension, tga files have no magic number to sniff.
func Load(fs vfs.Opener, name string) (*image.NRGBA, error) {
	b, err := vfs.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}
	img, err := decoderFor(name, b)(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	return ToNRGBA(img), nil
}

func decoderFor(name string, b []byte) func(io.Reader) (image.Image, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".tga":
		return tga.Decode
	case ".jpg", ".jpeg":
		return jpeg.Decode
	case ".png":
		return png.Decode
	}
	switch {
	case bytes.HasPrefix(b, []byte("\x89PNG")):
		return png.Decode
	case bytes.HasPrefix(b, []byte{0xff, 0xd8}):
		return jpeg.Decode
	}
	return tga.Decode
}

// ToNRGBA converts any image to NRGBA.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// FromRGB wraps packed 8bit RGB data, as stored in lightmaps, into an opaque image.
func FromRGB(rgb []byte, width, height int) (*image.NRGBA, error) {
	if len(rgb) < width*height*3 {
		return nil, errors.Errorf("need %d bytes of rgb data, got %d", width*height*3, len(rgb))
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i < width*height*3; i, j = i+3, j+4 {
		img.Pix[j] = rgb[i]
		img.Pix[j+1] = rgb[i+1]
		img.Pix[j+2] = rgb[i+2]
		img.Pix[j+3] = 0xff
	}
	return img, nil
}

// Scale resizes img by an integer factor.
func Scale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Write stores img as png or webp depending on the extension of name.
func Write(name string, img image.Image) error {
	ext := strings.ToLower(path.Ext(name))
	if ext != ".png" && ext != ".webp" {
		return errors.Errorf("unsupported image format %q", ext)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext {
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	return f.Close()
}
