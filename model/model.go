// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"goquake3/math/mat"
	"goquake3/math/vec"
	"goquake3/texture"
)

// FaceType is the surface kind stored with every face.
type FaceType int32

const (
	FacePolygon FaceType = iota + 1
	FacePatch
	FaceMesh
	FaceBillboard
)

func (t FaceType) String() string {
	switch t {
	case FacePolygon:
		return "polygon"
	case FacePatch:
		return "patch"
	case FaceMesh:
		return "mesh"
	case FaceBillboard:
		return "billboard"
	}
	return "unknown"
}

// SpawnPoint is a player start position taken from the entity text.
// Origin is already in renderer coordinates.
type SpawnPoint struct {
	Angle  float32
	Origin vec.Vec3
}

// View supplies the camera state for one frame.
type View interface {
	Position() vec.Vec3
	// Combined returns projection * view.
	Combined() *mat.Matrix
}

// FaceDraw describes one surface handed to a Backend.
type FaceDraw struct {
	Face          int
	Type          FaceType
	FirstVertex   int
	NumVertexes   int
	FirstMeshVert int
	NumMeshVerts  int
	Texture       texture.Handle
	Lightmap      texture.Handle
}

// Backend receives the surfaces that survived culling.
type Backend interface {
	SubmitFace(f FaceDraw)
}

// Stats counts what happened during one Render call.
type Stats struct {
	Leafs         int
	PVSCulled     int
	FrustumCulled int
	Faces         int
}

// Renderer walks a map for one view per frame. A Renderer keeps per frame
// scratch state and must not be shared between goroutines.
type Renderer interface {
	Render(v View, b Backend) (Stats, error)
}

// Map is a loaded level.
type Map interface {
	Name() string
	NumSpawnPoints() int
	SpawnPoint(i int) (SpawnPoint, error)
	NewRenderer() Renderer
}
