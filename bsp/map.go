// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"goquake3/model"
	"goquake3/texture"
)

// Map is a loaded IBSP level. All lump data is in renderer coordinates
// and must not be modified after loading.
type Map struct {
	name     string
	Version  int32
	Checksum uint64

	EntityData  []byte
	Entities    []*Entity
	Textures    []Texture
	Planes      []Plane
	Nodes       []Node
	Leafs       []Leaf
	LeafFaces   []int32
	LeafBrushes []int32
	Models      []Model
	Brushes     []Brush
	BrushSides  []BrushSide
	Vertexes    []Vertex
	MeshVerts   []int32
	Effects     []Effect
	Faces       []Face
	Lightmaps   []Lightmap
	LightVols   []LightVol
	Vis         VisData

	spawns          []model.SpawnPoint
	droppedSpawns   int
	textureHandles  []texture.Handle
	lightmapHandles []texture.Handle
}

var _ model.Map = (*Map)(nil)

func (m *Map) Name() string {
	return m.name
}

func (m *Map) NumSpawnPoints() int {
	return len(m.spawns)
}

// DroppedSpawnPoints returns how many spawn points exceeded the capacity.
func (m *Map) DroppedSpawnPoints() int {
	return m.droppedSpawns
}

// SpawnPoint returns the i-th spawn point in entity order.
func (m *Map) SpawnPoint(i int) (model.SpawnPoint, error) {
	if i < 0 || i >= len(m.spawns) {
		return model.SpawnPoint{}, ErrIndex
	}
	return m.spawns[i], nil
}

// SpawnPoints returns a copy of all spawn points.
func (m *Map) SpawnPoints() []model.SpawnPoint {
	r := make([]model.SpawnPoint, len(m.spawns))
	copy(r, m.spawns)
	return r
}

// TextureHandle returns the handle of texture i or 0.
func (m *Map) TextureHandle(i int) texture.Handle {
	if i < 0 || i >= len(m.textureHandles) {
		return 0
	}
	return m.textureHandles[i]
}

// LightmapHandle returns the handle of lightmap i or 0, also for the
// index -1 of faces without lightmap.
func (m *Map) LightmapHandle(i int) texture.Handle {
	if i < 0 || i >= len(m.lightmapHandles) {
		return 0
	}
	return m.lightmapHandles[i]
}

func (m *Map) NewRenderer() model.Renderer {
	return newRenderer(m)
}
