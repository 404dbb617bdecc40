// SPDX-License-Identifier: GPL-2.0-or-later

// Package bsptest writes small IBSP files for tests.
package bsptest

import (
	"bytes"
	"encoding/binary"

	"goquake3/bsp"
	"goquake3/math/vec"
	"goquake3/model"
)

// Map holds the lumps of a file in file coordinates (z up).
type Map struct {
	Version   int32
	Entities  string
	Textures  []bsp.Texture
	Planes    []bsp.Plane
	Nodes     []bsp.Node
	Leafs     []bsp.Leaf
	LeafFaces []int32
	Models    []bsp.Model
	Vertexes  []bsp.Vertex
	MeshVerts []int32
	Faces     []bsp.Face
	Lightmaps []bsp.Lightmap
	Vis       *bsp.VisData
}

// Bytes encodes m. Lumps are stored in directory order right after the
// header.
func (m *Map) Bytes() ([]byte, error) {
	var lumps [bsp.NumLumps][]byte
	enc := func(i int, v any) error {
		var b bytes.Buffer
		if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
			return err
		}
		lumps[i] = b.Bytes()
		return nil
	}
	lumps[bsp.LumpEntities] = []byte(m.Entities)
	for i, v := range map[int]any{
		bsp.LumpTextures:  m.Textures,
		bsp.LumpPlanes:    m.Planes,
		bsp.LumpNodes:     m.Nodes,
		bsp.LumpLeafs:     m.Leafs,
		bsp.LumpLeafFaces: m.LeafFaces,
		bsp.LumpModels:    m.Models,
		bsp.LumpVertexes:  m.Vertexes,
		bsp.LumpMeshVerts: m.MeshVerts,
		bsp.LumpFaces:     m.Faces,
		bsp.LumpLightmaps: m.Lightmaps,
	} {
		if err := enc(i, v); err != nil {
			return nil, err
		}
	}
	if m.Vis != nil {
		if err := enc(bsp.LumpVisData, [2]int32{m.Vis.NumVectors, m.Vis.BytesPerVector}); err != nil {
			return nil, err
		}
		lumps[bsp.LumpVisData] = append(lumps[bsp.LumpVisData], m.Vis.Vectors...)
	}

	var dir [bsp.NumLumps][2]int32
	off := int32(8 + 8*bsp.NumLumps)
	for i, l := range lumps {
		dir[i] = [2]int32{off, int32(len(l))}
		off += int32(len(l))
	}
	var out bytes.Buffer
	h := struct {
		Magic   uint32
		Version int32
		Lumps   [bsp.NumLumps][2]int32
	}{bsp.Magic, m.Version, dir}
	if err := binary.Write(&out, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	for _, l := range lumps {
		out.Write(l)
	}
	return out.Bytes(), nil
}

func name64(s string) [64]byte {
	var n [64]byte
	copy(n[:], s)
	return n
}

// TwoRooms is split at x = 0. Leaf 0 (cluster 0, faces 0 and 2) is in
// front, leaf 1 (cluster 1, faces 1 and 2) behind. Cluster 0 sees only
// itself, cluster 1 sees both. Spawn 0 is at (50, 10, 20) with angle 90,
// spawn 1 at (-50, 0, 0) with angle 180, both in file coordinates.
func TwoRooms() *Map {
	m := &Map{
		Version: 46,
		Entities: `{
"classname" "worldspawn"
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
		Textures: []bsp.Texture{
			{Name: name64("textures/base/wall")},
			{Name: name64("textures/base/floor")},
		},
		Planes: []bsp.Plane{{Normal: vec.Vec3{1, 0, 0}}},
		Nodes: []bsp.Node{{
			Children: [2]int32{^0, ^1},
			Mins:     [3]int32{-100, -100, -50},
			Maxs:     [3]int32{100, 100, 50},
		}},
		Leafs: []bsp.Leaf{
			{Cluster: 0, Mins: [3]int32{0, -100, -50}, Maxs: [3]int32{100, 100, 50}, FirstLeafFace: 0, NumLeafFaces: 2},
			{Cluster: 1, Mins: [3]int32{-100, -100, -50}, Maxs: [3]int32{0, 100, 50}, FirstLeafFace: 2, NumLeafFaces: 2},
		},
		LeafFaces: []int32{0, 2, 1, 2},
		Models: []bsp.Model{{
			Mins:     vec.Vec3{-100, -100, -50},
			Maxs:     vec.Vec3{100, 100, 50},
			NumFaces: 3,
		}},
		MeshVerts: []int32{0, 1, 2},
		Lightmaps: make([]bsp.Lightmap, 1),
		Vis: &bsp.VisData{
			NumVectors:     2,
			BytesPerVector: 1,
			Vectors:        []byte{0x01, 0x03},
		},
	}
	for i := 0; i < 3; i++ {
		x := float32(i * 10)
		for _, p := range []vec.Vec3{{x, 0, 0}, {x + 1, 0, 0}, {x, 1, 0}} {
			m.Vertexes = append(m.Vertexes, bsp.Vertex{Position: p, Normal: vec.Vec3{0, 0, 1}})
		}
		m.Faces = append(m.Faces, bsp.Face{
			Texture:       int32(i % 2),
			Effect:        -1,
			Type:          model.FacePolygon,
			FirstVertex:   int32(i * 3),
			NumVertexes:   3,
			NumMeshVerts:  3,
			LightmapIndex: int32(i%2) - 1,
			Normal:        vec.Vec3{0, 0, 1},
		})
	}
	return m
}

// TwoRoomsBytes is TwoRooms encoded.
func TwoRoomsBytes() []byte {
	b, err := TwoRooms().Bytes()
	if err != nil {
		panic(err)
	}
	return b
}
