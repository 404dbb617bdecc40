// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"time"

	"goquake3/frustum"
	"goquake3/model"
)

type renderer struct {
	m       *Map
	frustum frustum.Frustum
	// faceFrame marks faces already submitted in the current frame.
	faceFrame []uint32
	frame     uint32
}

func newRenderer(m *Map) *renderer {
	return &renderer{
		m:         m,
		faceFrame: make([]uint32, len(m.Faces)),
	}
}

func (r *renderer) nextFrame() {
	r.frame++
	if r.frame == 0 {
		clear(r.faceFrame)
		r.frame = 1
	}
}

// Render submits every face of every leaf that is in the PVS of the
// camera cluster and inside the view frustum. Faces shared by several
// leafs are submitted once.
func (r *renderer) Render(v model.View, b model.Backend) (model.Stats, error) {
	start := time.Now()
	var st model.Stats
	m := r.m
	leaf, err := m.FindLeaf(v.Position())
	if err != nil {
		return st, err
	}
	cluster := int(m.Leafs[leaf].Cluster)
	r.frustum.Update(v.Combined())
	r.nextFrame()

	for i := range m.Leafs {
		st.Leafs++
		if !m.IsClusterVisible(cluster, int(m.Leafs[i].Cluster)) {
			st.PVSCulled++
			continue
		}
		mins, maxs := m.LeafBounds(i)
		if !r.frustum.BoxVisible(mins, maxs) {
			st.FrustumCulled++
			continue
		}
		for _, fi := range m.LeafFaceIndices(i) {
			if r.faceFrame[fi] == r.frame {
				continue
			}
			r.faceFrame[fi] = r.frame
			f := &m.Faces[fi]
			b.SubmitFace(model.FaceDraw{
				Face:          int(fi),
				Type:          f.Type,
				FirstVertex:   int(f.FirstVertex),
				NumVertexes:   int(f.NumVertexes),
				FirstMeshVert: int(f.FirstMeshVert),
				NumMeshVerts:  int(f.NumMeshVerts),
				Texture:       m.TextureHandle(int(f.Texture)),
				Lightmap:      m.LightmapHandle(int(f.LightmapIndex)),
			})
			st.Faces++
		}
	}
	instrumentRender(start, st)
	return st, nil
}
