// SPDX-License-Identifier: GPL-2.0-or-later

// Package engine ties a map, the camera and the texture registry together.
// It replaces process wide state with an explicit Context.
package engine

import (
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/tools/godoc/vfs"

	"goquake3/bsp"
	"goquake3/camera"
	"goquake3/config"
	"goquake3/frame"
	"goquake3/model"
	"goquake3/texture"
)

var ErrNoMap = errors.New("no map loaded")

type Context struct {
	log      zerolog.Logger
	fs       vfs.Opener
	formats  *model.Formats
	textures *texture.Registry
	camera   *camera.Camera
	limiter  *frame.Limiter
	counter  *frame.Counter

	// mu guards the map. Loading takes the write lock.
	mu    deadlock.RWMutex
	m     model.Map
	mapID uuid.UUID

	// renderMu serializes the renderer scratch state and camera updates
	// made through the context.
	renderMu deadlock.Mutex
	renderer model.Renderer
}

// New creates a context reading maps and textures from fs and handing
// textures to up.
func New(cfg *config.Config, fs vfs.Opener, up texture.Uploader, log zerolog.Logger) *Context {
	c := &Context{
		log:      log,
		fs:       fs,
		formats:  model.NewFormats(),
		textures: texture.NewRegistry(fs, up, log),
		camera:   camera.New(cfg.Camera.FOV, cfg.Camera.ZNear, cfg.Camera.ZFar),
		limiter:  frame.NewLimiter(cfg.MaxFPS),
		counter:  frame.NewCounter(log),
	}
	c.camera.SetViewport(cfg.Camera.Width, cfg.Camera.Height)

	l := bsp.NewLoader(c.textures, log)
	l.Extensions = cfg.TextureExtensions
	l.SpawnCapacity = cfg.SpawnCapacity
	l.LightmapGamma = cfg.LightmapGamma
	l.MaxLumpBytes = cfg.MaxLumpBytes
	l.Register(c.formats)
	return c
}

func (c *Context) Camera() *camera.Camera {
	return c.camera
}

func (c *Context) Textures() *texture.Registry {
	return c.textures
}

// LoadMap replaces the current map. The old map is torn down before the
// new one is read, so on error no map is loaded.
func (c *Context) LoadMap(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.unload()
	name = path.Join("/", name)
	m, err := c.formats.Load(c.fs, name)
	if err != nil {
		return errors.Wrapf(err, "load map %s", name)
	}
	c.m = m
	c.renderer = m.NewRenderer()
	c.mapID = uuid.Must(uuid.NewV7())
	c.log.Info().Str("map", name).Str("id", c.mapID.String()).
		Int("spawns", m.NumSpawnPoints()).
		Int("textures", c.textures.Loaded()).
		Msg("Map ready")
	return nil
}

func (c *Context) unload() {
	if c.m == nil {
		return
	}
	c.log.Info().Str("map", c.m.Name()).Str("id", c.mapID.String()).Msg("Unloading map")
	c.textures.ReleaseLightmaps()
	c.m = nil
	c.renderer = nil
	c.mapID = uuid.Nil
}

// Map returns the current map or nil.
func (c *Context) Map() model.Map {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.m
}

func (c *Context) MapID() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mapID
}

func (c *Context) SpawnPoint(i int) (model.SpawnPoint, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.m == nil {
		return model.SpawnPoint{}, ErrNoMap
	}
	return c.m.SpawnPoint(i)
}

// PlaceCamera moves the camera to spawn point i and turns it to the
// spawn angle.
func (c *Context) PlaceCamera(i int) error {
	sp, err := c.SpawnPoint(i)
	if err != nil {
		return err
	}
	c.renderMu.Lock()
	c.camera.SetPosition(sp.Origin)
	c.camera.RotateHorAbs(sp.Angle)
	c.renderMu.Unlock()
	c.log.Debug().Int("spawn", i).Float32("angle", sp.Angle).Msg("Placed camera")
	return nil
}

// Render draws the current map from the camera.
func (c *Context) Render(b model.Backend) (model.Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.m == nil {
		return model.Stats{}, ErrNoMap
	}
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	return c.renderer.Render(c.camera, b)
}

// Frame renders if the frame limit allows it at now. It reports whether a
// frame was drawn.
func (c *Context) Frame(now time.Time, b model.Backend) (model.Stats, bool, error) {
	if !c.limiter.Allow(now) {
		return model.Stats{}, false, nil
	}
	st, err := c.Render(b)
	if err != nil {
		return st, false, err
	}
	c.counter.Frame(now)
	return st, true, nil
}

func (c *Context) FPS() float64 {
	return c.counter.FPS()
}

// Close unloads the map and releases all textures.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unload()
	c.textures.Release()
}
