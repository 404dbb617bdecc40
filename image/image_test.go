// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/godoc/vfs/mapfs"
)

func TestFromRGB(t *testing.T) {
	img, err := FromRGB([]byte{1, 2, 3, 4, 5, 6}, 2, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 255, 4, 5, 6, 255}, img.Pix)

	_, err = FromRGB([]byte{1, 2}, 2, 1)
	require.Error(t, err)
}

func TestLoadPNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(1, 1, color.RGBA{10, 20, 30, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	fs := mapfs.New(map[string]string{"textures/a.png": buf.String()})
	img, err := Load(fs, "/textures/a.png")
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{10, 20, 30, 255}, img.NRGBAAt(1, 1))

	_, err = Load(fs, "/textures/missing.png")
	require.Error(t, err)
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestLoadEveryFormat(t *testing.T) {
	c := color.NRGBA{200, 100, 50, 255}
	var jpg, tg, pn bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, solid(8, 8, c), &jpeg.Options{Quality: 100}))
	require.NoError(t, tga.Encode(&tg, solid(8, 8, c)))
	require.NoError(t, png.Encode(&pn, solid(8, 8, c)))
	fs := mapfs.New(map[string]string{
		"textures/a.jpg":  jpg.String(),
		"textures/b.JPEG": jpg.String(),
		"textures/c.tga":  tg.String(),
		"textures/d.png":  pn.String(),
		// no extension, sniffed
		"textures/e": jpg.String(),
		"textures/f": pn.String(),
		"textures/g": tg.String(),
	})
	for _, name := range []string{"a.jpg", "b.JPEG", "c.tga", "d.png", "e", "f", "g"} {
		img, err := Load(fs, "/textures/"+name)
		require.NoError(t, err, name)
		require.Equal(t, 8, img.Bounds().Dx(), name)
		got := img.NRGBAAt(4, 4)
		assert.InDelta(t, c.R, got.R, 4, name)
		assert.InDelta(t, c.G, got.G, 4, name)
		assert.InDelta(t, c.B, got.B, 4, name)
		assert.Equal(t, uint8(255), got.A, name)
	}
}

func TestLoadWrongExtension(t *testing.T) {
	var pn bytes.Buffer
	require.NoError(t, png.Encode(&pn, solid(2, 2, color.NRGBA{A: 255})))
	fs := mapfs.New(map[string]string{"textures/a.jpg": pn.String()})
	_, err := Load(fs, "/textures/a.jpg")
	require.Error(t, err)
}

func TestLoadGarbage(t *testing.T) {
	fs := mapfs.New(map[string]string{"textures/a.jpg": "not an image"})
	_, err := Load(fs, "/textures/a.jpg")
	require.Error(t, err)
}

func TestScale(t *testing.T) {
	img, err := FromRGB(bytes.Repeat([]byte{100}, 4*4*3), 4, 4)
	require.NoError(t, err)
	s := Scale(img, 2)
	require.Equal(t, 8, s.Bounds().Dx())
	require.Equal(t, 8, s.Bounds().Dy())
	require.Same(t, img, Scale(img, 1))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	img, err := FromRGB(bytes.Repeat([]byte{200, 100, 50}, 16), 4, 4)
	require.NoError(t, err)

	for _, n := range []string{"lm.png", "lm.webp"} {
		p := filepath.Join(dir, n)
		require.NoError(t, Write(p, img))
		st, err := os.Stat(p)
		require.NoError(t, err)
		require.NotZero(t, st.Size())
	}
	require.Error(t, Write(filepath.Join(dir, "lm.bmp"), img))
}
