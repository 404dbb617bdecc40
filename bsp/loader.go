// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/tools/godoc/vfs"

	"goquake3/model"
	"goquake3/texture"
)

const (
	DefaultSpawnCapacity = 50
	DefaultLightmapGamma = 4.0
	DefaultMaxLumpBytes  = 512 << 20
)

// Textures turns texture names and lightmap data into backend handles.
type Textures interface {
	Resolve(name string, exts []string) texture.Handle
	Lightmap(name string, rgb []byte, w, h int) texture.Handle
}

// Loader decodes IBSP files.
type Loader struct {
	// Textures may be nil, all handles are 0 then.
	Textures      Textures
	Extensions    []string
	SpawnCapacity int
	LightmapGamma float32
	// MaxLumpBytes bounds the memory allocated for lump data.
	MaxLumpBytes int64
	Log          zerolog.Logger
}

func NewLoader(t Textures, log zerolog.Logger) *Loader {
	return &Loader{
		Textures:      t,
		Extensions:    texture.DefaultExtensions,
		SpawnCapacity: DefaultSpawnCapacity,
		LightmapGamma: DefaultLightmapGamma,
		MaxLumpBytes:  DefaultMaxLumpBytes,
		Log:           log,
	}
}

// Register makes the loader available for files starting with IBSP.
func (l *Loader) Register(f *model.Formats) {
	f.Register(Magic, func(name string, r io.ReaderAt, size int64) (model.Map, error) {
		m, err := l.Decode(name, r, size)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}

// Load reads name from fs.
func (l *Loader) Load(fs vfs.Opener, name string) (*Map, error) {
	b, err := vfs.ReadFile(fs, name)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "%s: %v", name, err)
	}
	return l.Decode(name, bytes.NewReader(b), int64(len(b)))
}

// LoadFile reads a map outside of any virtual file system.
func (l *Loader) LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "%s: %v", path, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "%s: %v", path, err)
	}
	return l.Decode(path, f, st.Size())
}

// Decode builds a map from r. On error no partial map is returned and
// the texture collaborator has not been called.
func (l *Loader) Decode(name string, r io.ReaderAt, size int64) (m *Map, err error) {
	start := time.Now()
	defer func() {
		instrumentLoad(start, err)
	}()
	log := l.Log.With().Str("map", name).Logger()
	log.Info().Msg("Loading map")

	m, err = l.decode(name, r, size, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load map")
		return nil, err
	}

	l.loadTextures(m)
	l.loadLightmaps(m)

	for i, s := range m.spawns {
		log.Debug().Int("spawn", i).Float32("angle", s.Angle).
			Floats32("origin", []float32{s.Origin.X, s.Origin.Y, s.Origin.Z}).Msg("Spawn point")
	}
	log.Info().
		Int32("version", m.Version).
		Int("faces", len(m.Faces)).
		Int("leafs", len(m.Leafs)).
		Int("clusters", int(m.Vis.NumVectors)).
		Int("spawns", len(m.spawns)).
		Dur("took", time.Since(start)).
		Msg("Loaded map")
	return m, nil
}

func (l *Loader) decode(name string, r io.ReaderAt, size int64, log zerolog.Logger) (*Map, error) {
	budget := l.MaxLumpBytes
	if budget <= 0 {
		budget = DefaultMaxLumpBytes
	}
	d := &decoder{r: r, size: size, budget: budget}
	if err := d.readHeader(); err != nil {
		return nil, err
	}
	log.Debug().Int32("version", d.h.Version).Msg("Read header")

	m := &Map{name: name, Version: d.h.Version}
	var err error
	if m.EntityData, err = readLump[byte](d, LumpEntities); err != nil {
		return nil, err
	}
	if m.Textures, err = readLump[Texture](d, LumpTextures); err != nil {
		return nil, err
	}
	if m.Planes, err = readLump[Plane](d, LumpPlanes); err != nil {
		return nil, err
	}
	if m.Nodes, err = readLump[Node](d, LumpNodes); err != nil {
		return nil, err
	}
	if m.Leafs, err = readLump[Leaf](d, LumpLeafs); err != nil {
		return nil, err
	}
	if m.LeafFaces, err = readLump[int32](d, LumpLeafFaces); err != nil {
		return nil, err
	}
	if m.LeafBrushes, err = readLump[int32](d, LumpLeafBrushes); err != nil {
		return nil, err
	}
	if m.Models, err = readLump[Model](d, LumpModels); err != nil {
		return nil, err
	}
	if m.Brushes, err = readLump[Brush](d, LumpBrushes); err != nil {
		return nil, err
	}
	if m.BrushSides, err = readLump[BrushSide](d, LumpBrushSides); err != nil {
		return nil, err
	}
	if m.Vertexes, err = readLump[Vertex](d, LumpVertexes); err != nil {
		return nil, err
	}
	if m.MeshVerts, err = readLump[int32](d, LumpMeshVerts); err != nil {
		return nil, err
	}
	if m.Effects, err = readLump[Effect](d, LumpEffects); err != nil {
		return nil, err
	}
	if m.Faces, err = readLump[Face](d, LumpFaces); err != nil {
		return nil, err
	}
	if m.Lightmaps, err = readLump[Lightmap](d, LumpLightmaps); err != nil {
		return nil, err
	}
	if m.LightVols, err = readLump[LightVol](d, LumpLightVols); err != nil {
		return nil, err
	}
	if m.Vis, err = d.readVisData(); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.swizzle()

	capacity := l.SpawnCapacity
	if capacity <= 0 {
		capacity = DefaultSpawnCapacity
	}
	m.Entities = ParseEntities(m.EntityData)
	sp := newSpawnParser(capacity)
	sp.parse(m.Entities)
	m.spawns = sp.points
	m.droppedSpawns = sp.dropped
	if sp.dropped > 0 {
		instrumentSpawnsDropped(sp.dropped)
		log.Warn().Int("dropped", sp.dropped).Int("capacity", capacity).Msg("Too many spawn points")
	}

	h := xxhash.New()
	if _, err := io.Copy(h, io.NewSectionReader(r, 0, size)); err != nil {
		return nil, errors.Wrapf(ErrIO, "checksum: %v", err)
	}
	m.Checksum = h.Sum64()
	return m, nil
}

func (l *Loader) loadTextures(m *Map) {
	m.textureHandles = make([]texture.Handle, len(m.Textures))
	if l.Textures == nil {
		return
	}
	exts := l.Extensions
	if len(exts) == 0 {
		exts = texture.DefaultExtensions
	}
	missing := 0
	for i := range m.Textures {
		h := l.Textures.Resolve(m.Textures[i].String(), exts)
		if h == 0 {
			missing++
		}
		m.textureHandles[i] = h
	}
	if missing > 0 {
		l.Log.Debug().Str("map", m.name).Int("missing", missing).Msg("Textures not found")
	}
}

func (l *Loader) loadLightmaps(m *Map) {
	m.lightmapHandles = make([]texture.Handle, len(m.Lightmaps))
	if l.Textures == nil {
		return
	}
	gamma := l.LightmapGamma
	if gamma <= 0 {
		gamma = DefaultLightmapGamma
	}
	for i := range m.Lightmaps {
		rgb := make([]byte, LightmapBytes)
		copy(rgb, m.Lightmaps[i][:])
		ModifyGamma(rgb, gamma)
		m.lightmapHandles[i] = l.Textures.Lightmap(fmt.Sprintf("%s#lightmap%d", m.name, i), rgb, LightmapSize, LightmapSize)
	}
}
