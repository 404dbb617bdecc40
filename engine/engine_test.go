// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"bytes"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/godoc/vfs/mapfs"

	"goquake3/bsp"
	"goquake3/bsp/bsptest"
	"goquake3/config"
	"goquake3/math/vec"
	"goquake3/model"
	"goquake3/texture"
)

type countingBackend struct {
	faces int
}

func (b *countingBackend) SubmitFace(model.FaceDraw) {
	b.faces++
}

func newContext(t *testing.T) (*Context, *texture.MemoryUploader) {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewNRGBA(image.Rect(0, 0, 2, 2))))
	fs := mapfs.New(map[string]string{
		"maps/tworooms.bsp":      string(bsptest.TwoRoomsBytes()),
		"maps/broken.bsp":        "IBSP",
		"maps/wad.bsp":           "WAD2\x00\x00\x00\x00",
		"textures/base/wall.png": img.String(),
	})
	cfg, err := config.Process(nil)
	require.NoError(t, err)
	cfg.TextureExtensions = []string{".png"}
	up := texture.NewMemoryUploader()
	return New(cfg, fs, up, zerolog.Nop()), up
}

func TestLoadMap(t *testing.T) {
	c, up := newContext(t)
	require.Nil(t, c.Map())
	require.Equal(t, uuid.Nil, c.MapID())

	require.NoError(t, c.LoadMap("/maps/tworooms.bsp"))
	m := c.Map()
	require.NotNil(t, m)
	require.Equal(t, "/maps/tworooms.bsp", m.Name())
	require.Equal(t, 2, m.NumSpawnPoints())
	require.NotEqual(t, uuid.Nil, c.MapID())
	// wall.png and the lightmap
	require.Equal(t, 1, c.Textures().Loaded())
	require.Equal(t, 2, up.Len())

	first := c.MapID()
	require.NoError(t, c.LoadMap("/maps/tworooms.bsp"))
	require.NotEqual(t, first, c.MapID())
	// the old lightmap is gone, the texture is cached
	require.Equal(t, 2, up.Len())

	c.Close()
	require.Nil(t, c.Map())
	require.Zero(t, up.Len())
}

func TestLoadMapFailure(t *testing.T) {
	c, up := newContext(t)
	require.NoError(t, c.LoadMap("/maps/tworooms.bsp"))

	err := c.LoadMap("/maps/broken.bsp")
	require.True(t, errors.Is(err, bsp.ErrIO), "got %v", err)
	require.Nil(t, c.Map())
	require.Equal(t, 1, up.Len())

	err = c.LoadMap("/maps/missing.bsp")
	require.True(t, errors.Is(err, bsp.ErrIO), "got %v", err)

	err = c.LoadMap("maps/wad.bsp")
	require.True(t, errors.Is(err, bsp.ErrBadMagic), "got %v", err)
	require.Nil(t, c.Map())

	_, err = c.SpawnPoint(0)
	require.True(t, errors.Is(err, ErrNoMap))
	require.True(t, errors.Is(c.PlaceCamera(0), ErrNoMap))
	_, err = c.Render(&countingBackend{})
	require.True(t, errors.Is(err, ErrNoMap))
}

func TestSpawnPoint(t *testing.T) {
	c, _ := newContext(t)
	require.NoError(t, c.LoadMap("/maps/tworooms.bsp"))

	sp, err := c.SpawnPoint(0)
	require.NoError(t, err)
	assert.Equal(t, model.SpawnPoint{Angle: 90, Origin: vec.Vec3{50, 20, 10}}, sp)

	_, err = c.SpawnPoint(2)
	require.True(t, errors.Is(err, bsp.ErrIndex))
}

func TestPlaceCameraAndRender(t *testing.T) {
	c, _ := newContext(t)
	require.NoError(t, c.LoadMap("/maps/tworooms.bsp"))
	require.NoError(t, c.PlaceCamera(1))

	cam := c.Camera()
	assert.Equal(t, vec.Vec3{-50, 0, 0}, cam.Position())
	d := cam.Direction()
	assert.InDelta(t, -1, d.Z, 1e-5)
	assert.InDelta(t, 0, math32.Abs(d.X)+math32.Abs(d.Y), 1e-5)

	b := &countingBackend{}
	st, err := c.Render(b)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Leafs: 2, Faces: 3}, st)
	assert.Equal(t, 3, b.faces)

	// placing the camera again gives the same view
	cam.RotateHor(33)
	require.NoError(t, c.PlaceCamera(1))
	assert.InDelta(t, -1, cam.Direction().Z, 1e-5)

	// cluster 0 does not see cluster 1
	require.NoError(t, c.PlaceCamera(0))
	st, err = c.Render(&countingBackend{})
	require.NoError(t, err)
	assert.Equal(t, 1, st.PVSCulled)
}

func TestPlaceCameraWhileRendering(t *testing.T) {
	c, _ := newContext(t)
	require.NoError(t, c.LoadMap("/maps/tworooms.bsp"))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			assert.NoError(t, c.PlaceCamera(i%2))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_, err := c.Render(&countingBackend{})
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	require.NoError(t, c.PlaceCamera(1))
	assert.Equal(t, vec.Vec3{-50, 0, 0}, c.Camera().Position())
}

func TestFrame(t *testing.T) {
	c, _ := newContext(t)
	require.NoError(t, c.LoadMap("/maps/tworooms.bsp"))
	require.NoError(t, c.PlaceCamera(1))

	now := time.Now()
	b := &countingBackend{}
	_, drawn, err := c.Frame(now, b)
	require.NoError(t, err)
	require.True(t, drawn)
	_, drawn, err = c.Frame(now, b)
	require.NoError(t, err)
	require.False(t, drawn)
	require.Equal(t, 3, b.faces)

	_, drawn, err = c.Frame(now.Add(time.Second), b)
	require.NoError(t, err)
	require.True(t, drawn)
	require.InDelta(t, 2, c.FPS(), 0.01)
}
