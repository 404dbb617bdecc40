// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"

	"goquake3/math/vec"
	"goquake3/model"
)

// Magic is "IBSP" read as little endian uint32.
const Magic = 0x50534249

// Lump indices in the directory.
const (
	LumpEntities = iota
	LumpTextures
	LumpPlanes
	LumpNodes
	LumpLeafs
	LumpLeafFaces
	LumpLeafBrushes
	LumpModels
	LumpBrushes
	LumpBrushSides
	LumpVertexes
	LumpMeshVerts
	LumpEffects
	LumpFaces
	LumpLightmaps
	LumpLightVols
	LumpVisData
	NumLumps
)

var lumpNames = [NumLumps]string{
	"entities", "textures", "planes", "nodes", "leafs", "leaffaces",
	"leafbrushes", "models", "brushes", "brushsides", "vertexes",
	"meshverts", "effects", "faces", "lightmaps", "lightvols", "visdata",
}

const (
	LightmapSize = 128
	// LightmapBytes is the size of one RGB lightmap.
	LightmapBytes = LightmapSize * LightmapSize * 3
)

// called direntry in the file format description
type directory struct {
	Offset int32
	Length int32
}

type header struct {
	Magic   uint32
	Version int32
	Lumps   [NumLumps]directory
}

// The following types are read verbatim from the file, so their binary
// size is the record size of the lump.

type Texture struct {
	Name     [64]byte
	Flags    int32
	Contents int32
}

func (t *Texture) String() string {
	return cString(t.Name[:])
}

type Plane struct {
	Normal vec.Vec3
	Dist   float32
}

type Node struct {
	Plane int32
	// Children >= 0 are nodes, < 0 are leafs encoded as ^leaf.
	Children [2]int32
	Mins     [3]int32
	Maxs     [3]int32
}

type Leaf struct {
	Cluster        int32
	Area           int32
	Mins           [3]int32
	Maxs           [3]int32
	FirstLeafFace  int32
	NumLeafFaces   int32
	FirstLeafBrush int32
	NumLeafBrushes int32
}

type Model struct {
	Mins       vec.Vec3
	Maxs       vec.Vec3
	FirstFace  int32
	NumFaces   int32
	FirstBrush int32
	NumBrushes int32
}

type Brush struct {
	FirstSide int32
	NumSides  int32
	Texture   int32
}

type BrushSide struct {
	Plane   int32
	Texture int32
}

type Vertex struct {
	Position      vec.Vec3
	TexCoord      [2]float32
	LightmapCoord [2]float32
	Normal        vec.Vec3
	Color         [4]uint8
}

type Effect struct {
	Name    [64]byte
	Brush   int32
	Unknown int32
}

func (e *Effect) String() string {
	return cString(e.Name[:])
}

type Face struct {
	Texture        int32
	Effect         int32
	Type           model.FaceType
	FirstVertex    int32
	NumVertexes    int32
	FirstMeshVert  int32
	NumMeshVerts   int32
	LightmapIndex  int32
	LightmapStart  [2]int32
	LightmapSize   [2]int32
	LightmapOrigin vec.Vec3
	LightmapVecs   [2]vec.Vec3
	Normal         vec.Vec3
	PatchSize      [2]int32
}

type Lightmap [LightmapBytes]byte

type LightVol struct {
	Ambient     [3]uint8
	Directional [3]uint8
	Dir         [2]uint8
}

type visHeader struct {
	NumVectors     int32
	BytesPerVector int32
}

// VisData is the cluster to cluster visibility bit matrix.
type VisData struct {
	NumVectors     int32
	BytesPerVector int32
	Vectors        []byte
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func swizzleInt(v [3]int32) [3]int32 {
	return [3]int32{v[0], v[2], v[1]}
}
