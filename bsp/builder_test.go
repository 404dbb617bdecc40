// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"goquake3/math/vec"
	"goquake3/model"
	"goquake3/texture"
)

// testMap assembles an IBSP file in memory. All coordinates are in file
// space (z up).
type testMap struct {
	version     int32
	entities    string
	textures    []Texture
	planes      []Plane
	nodes       []Node
	leafs       []Leaf
	leafFaces   []int32
	leafBrushes []int32
	models      []Model
	brushes     []Brush
	brushSides  []BrushSide
	vertexes    []Vertex
	meshVerts   []int32
	effects     []Effect
	faces       []Face
	lightmaps   []Lightmap
	lightVols   []LightVol
	vis         *VisData
	// raw replaces the encoded content of a lump.
	raw map[int][]byte
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	return buf.Bytes()
}

func (tm *testMap) bytes(t *testing.T) []byte {
	t.Helper()
	var lumps [NumLumps][]byte
	lumps[LumpEntities] = []byte(tm.entities)
	lumps[LumpTextures] = encode(t, tm.textures)
	lumps[LumpPlanes] = encode(t, tm.planes)
	lumps[LumpNodes] = encode(t, tm.nodes)
	lumps[LumpLeafs] = encode(t, tm.leafs)
	lumps[LumpLeafFaces] = encode(t, tm.leafFaces)
	lumps[LumpLeafBrushes] = encode(t, tm.leafBrushes)
	lumps[LumpModels] = encode(t, tm.models)
	lumps[LumpBrushes] = encode(t, tm.brushes)
	lumps[LumpBrushSides] = encode(t, tm.brushSides)
	lumps[LumpVertexes] = encode(t, tm.vertexes)
	lumps[LumpMeshVerts] = encode(t, tm.meshVerts)
	lumps[LumpEffects] = encode(t, tm.effects)
	lumps[LumpFaces] = encode(t, tm.faces)
	lumps[LumpLightmaps] = encode(t, tm.lightmaps)
	lumps[LumpLightVols] = encode(t, tm.lightVols)
	if tm.vis != nil {
		v := encode(t, visHeader{tm.vis.NumVectors, tm.vis.BytesPerVector})
		lumps[LumpVisData] = append(v, tm.vis.Vectors...)
	}
	for i, r := range tm.raw {
		lumps[i] = r
	}

	h := header{Magic: Magic, Version: tm.version}
	off := int32(binary.Size(h))
	for i, l := range lumps {
		h.Lumps[i] = directory{Offset: off, Length: int32(len(l))}
		off += int32(len(l))
	}
	var buf bytes.Buffer
	buf.Write(encode(t, &h))
	for _, l := range lumps {
		buf.Write(l)
	}
	return buf.Bytes()
}

func name64(s string) [64]byte {
	var n [64]byte
	copy(n[:], s)
	return n
}

func quad(x, y, z float32) []Vertex {
	return []Vertex{
		{Position: vec.Vec3{x, y, z}, Normal: vec.Vec3{0, 0, 1}},
		{Position: vec.Vec3{x + 1, y, z}, Normal: vec.Vec3{0, 0, 1}},
		{Position: vec.Vec3{x, y + 1, z}, Normal: vec.Vec3{0, 0, 1}},
	}
}

// simpleMap has a root splitting x >= 0 with leaf 0 (cluster 0) in front
// and leaf 1 (cluster 1) behind. Face 2 is shared by both leafs. Cluster 0
// only sees itself, cluster 1 sees both.
func simpleMap() *testMap {
	tm := &testMap{
		version: 46,
		entities: `{
"classname" "worldspawn"
"message" "test map"
}
{
"classname" "info_player_deathmatch"
"angle" "90"
"origin" "50 10 20"
}
{
"classname" "info_player_deathmatch"
"angle" "180"
"origin" "-50 0 0"
}
` + "\x00",
		textures: []Texture{
			{Name: name64("textures/base/wall")},
			{Name: name64("textures/base/floor")},
		},
		planes: []Plane{{Normal: vec.Vec3{1, 0, 0}, Dist: 0}},
		nodes: []Node{{
			Plane:    0,
			Children: [2]int32{^0, ^1},
			Mins:     [3]int32{-100, -100, -100},
			Maxs:     [3]int32{100, 100, 100},
		}},
		leafs: []Leaf{
			{Cluster: 0, Mins: [3]int32{0, -100, -50}, Maxs: [3]int32{100, 100, 50}, FirstLeafFace: 0, NumLeafFaces: 2},
			{Cluster: 1, Mins: [3]int32{-100, -100, -50}, Maxs: [3]int32{0, 100, 50}, FirstLeafFace: 2, NumLeafFaces: 2},
		},
		leafFaces: []int32{0, 2, 1, 2},
		models: []Model{{
			Mins:     vec.Vec3{-100, -100, -50},
			Maxs:     vec.Vec3{100, 100, 50},
			NumFaces: 3,
		}},
		meshVerts: []int32{0, 1, 2},
		effects:   []Effect{{Name: name64("fog"), Brush: -1}},
		lightmaps: make([]Lightmap, 1),
		lightVols: []LightVol{{Ambient: [3]uint8{1, 2, 3}}},
		vis: &VisData{
			NumVectors:     2,
			BytesPerVector: 1,
			Vectors:        []byte{0x01, 0x03},
		},
	}
	for i := 0; i < 3; i++ {
		tm.vertexes = append(tm.vertexes, quad(float32(i*10), 1, 2)...)
		tm.faces = append(tm.faces, Face{
			Texture:        int32(i % 2),
			Effect:         -1,
			Type:           model.FacePolygon,
			FirstVertex:    int32(i * 3),
			NumVertexes:    3,
			FirstMeshVert:  0,
			NumMeshVerts:   3,
			LightmapIndex:  int32(i%2) - 1,
			LightmapOrigin: vec.Vec3{1, 2, 3},
			LightmapVecs:   [2]vec.Vec3{{1, 0, 0}, {0, 1, 0}},
			Normal:         vec.Vec3{0, 0, 1},
		})
	}
	for i := range tm.lightmaps[0] {
		tm.lightmaps[0][i] = byte(i % 64)
	}
	return tm
}

// fakeTextures hands out handles and records what was asked for.
type fakeTextures struct {
	resolved  []string
	exts      []string
	lightmaps [][]byte
}

func (f *fakeTextures) Resolve(name string, exts []string) texture.Handle {
	f.resolved = append(f.resolved, name)
	f.exts = exts
	if name == "textures/base/floor" {
		return 0
	}
	return texture.Handle(len(f.resolved))
}

func (f *fakeTextures) Lightmap(name string, rgb []byte, w, h int) texture.Handle {
	if w*h*3 != len(rgb) {
		panic(fmt.Sprintf("lightmap %s: %dx%d with %d bytes", name, w, h, len(rgb)))
	}
	f.lightmaps = append(f.lightmaps, rgb)
	return texture.Handle(100 + len(f.lightmaps))
}
