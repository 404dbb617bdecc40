// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"

	"goquake3/math/vec"
)

// FindLeaf returns the index of the leaf containing p. Points on a plane
// belong to its front side.
func (m *Map) FindLeaf(p vec.Vec3) (int, error) {
	if len(m.Nodes) == 0 {
		return 0, errors.Wrap(ErrCorruptTree, "map has no nodes")
	}
	i := int32(0)
	// every node can be visited at most once on the way down
	for steps := 0; i >= 0; steps++ {
		if steps >= len(m.Nodes) || int(i) >= len(m.Nodes) {
			return 0, errors.Wrapf(ErrCorruptTree, "descent did not reach a leaf at node %d", i)
		}
		n := &m.Nodes[i]
		if n.Plane < 0 || int(n.Plane) >= len(m.Planes) {
			return 0, errors.Wrapf(ErrCorruptTree, "node %d: plane %d", i, n.Plane)
		}
		plane := &m.Planes[n.Plane]
		d := vec.Dot(plane.Normal, p) - plane.Dist
		if d >= 0 {
			i = n.Children[0]
		} else {
			i = n.Children[1]
		}
	}
	leaf := int(^i)
	if leaf >= len(m.Leafs) {
		return 0, errors.Wrapf(ErrCorruptTree, "leaf %d of %d", leaf, len(m.Leafs))
	}
	return leaf, nil
}

// ClusterAt returns the cluster of the leaf containing p.
func (m *Map) ClusterAt(p vec.Vec3) (int, error) {
	l, err := m.FindLeaf(p)
	if err != nil {
		return -1, err
	}
	return int(m.Leafs[l].Cluster), nil
}

// IsClusterVisible reports whether test is potentially visible from
// current. A negative current cluster, missing visibility data and any
// cluster outside the bit matrix count as visible.
func (m *Map) IsClusterVisible(current, test int) bool {
	if current < 0 {
		return true
	}
	v := &m.Vis
	if v.NumVectors == 0 || len(v.Vectors) == 0 {
		return true
	}
	if test < 0 {
		// solid leafs have no cluster
		return true
	}
	if current >= int(v.NumVectors) || test >= int(v.NumVectors) {
		instrumentVisFailOpen()
		return true
	}
	i := current*int(v.BytesPerVector) + test/8
	if test/8 >= int(v.BytesPerVector) || i >= len(v.Vectors) {
		instrumentVisFailOpen()
		return true
	}
	return v.Vectors[i]&(1<<(test&7)) != 0
}

// LeafFaceIndices returns the face indices of leaf l.
func (m *Map) LeafFaceIndices(l int) []int32 {
	lf := &m.Leafs[l]
	return m.LeafFaces[lf.FirstLeafFace : lf.FirstLeafFace+lf.NumLeafFaces]
}

// LeafBounds returns the bounding box of leaf l.
func (m *Map) LeafBounds(l int) (vec.Vec3, vec.Vec3) {
	lf := &m.Leafs[l]
	return vec.VFromI(lf.Mins), vec.VFromI(lf.Maxs)
}
