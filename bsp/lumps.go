// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

type decoder struct {
	r      io.ReaderAt
	size   int64
	h      header
	budget int64
}

func (d *decoder) readHeader() error {
	var magic [4]byte
	if _, err := d.r.ReadAt(magic[:], 0); err != nil {
		return errors.Wrapf(ErrIO, "header: %v", err)
	}
	if m := binary.LittleEndian.Uint32(magic[:]); m != Magic {
		return errors.Wrapf(ErrBadMagic, "magic is %#x", m)
	}
	sr := io.NewSectionReader(d.r, 0, d.size)
	if err := binary.Read(sr, binary.LittleEndian, &d.h); err != nil {
		return errors.Wrapf(ErrIO, "header: %v", err)
	}
	for i, l := range d.h.Lumps {
		if l.Offset < 0 || l.Length < 0 {
			return errors.Wrapf(ErrBadLump, "%s: offset %d length %d", lumpNames[i], l.Offset, l.Length)
		}
		if int64(l.Offset)+int64(l.Length) > d.size {
			return errors.Wrapf(ErrBadLump, "%s: %d bytes at %d exceed file size %d", lumpNames[i], l.Length, l.Offset, d.size)
		}
	}
	return nil
}

// reserve takes n bytes from the allocation budget.
func (d *decoder) reserve(lump int, n int64) error {
	if n > d.budget {
		return errors.Wrapf(ErrOutOfMemory, "%s needs %d bytes, %d left", lumpNames[lump], n, d.budget)
	}
	d.budget -= n
	return nil
}

func (d *decoder) section(lump int) *io.SectionReader {
	l := d.h.Lumps[lump]
	return io.NewSectionReader(d.r, int64(l.Offset), int64(l.Length))
}

// readLump reads all records of a lump. The lump length must be a
// multiple of the record size.
func readLump[T any](d *decoder, lump int) ([]T, error) {
	var zero T
	es := int64(binary.Size(zero))
	l := int64(d.h.Lumps[lump].Length)
	if l%es != 0 {
		return nil, errors.Wrapf(ErrBadLump, "%s: length %d is not a multiple of %d", lumpNames[lump], l, es)
	}
	if l == 0 {
		return nil, nil
	}
	if err := d.reserve(lump, l); err != nil {
		return nil, err
	}
	out := make([]T, l/es)
	if err := binary.Read(d.section(lump), binary.LittleEndian, out); err != nil {
		return nil, errors.Wrapf(ErrIO, "%s: %v", lumpNames[lump], err)
	}
	return out, nil
}

func (d *decoder) readVisData() (VisData, error) {
	l := int64(d.h.Lumps[LumpVisData].Length)
	if l == 0 {
		return VisData{}, nil
	}
	var vh visHeader
	hs := int64(binary.Size(vh))
	if l < hs {
		return VisData{}, errors.Wrapf(ErrBadLump, "visdata: length %d is shorter than its header", l)
	}
	sr := d.section(LumpVisData)
	if err := binary.Read(sr, binary.LittleEndian, &vh); err != nil {
		return VisData{}, errors.Wrapf(ErrIO, "visdata: %v", err)
	}
	if vh.NumVectors < 0 || vh.BytesPerVector < 0 {
		return VisData{}, errors.Wrapf(ErrBadLump, "visdata: %d vectors of %d bytes", vh.NumVectors, vh.BytesPerVector)
	}
	n := int64(vh.NumVectors) * int64(vh.BytesPerVector)
	if n > l-hs {
		return VisData{}, errors.Wrapf(ErrBadLump, "visdata: %d vectors of %d bytes exceed the lump", vh.NumVectors, vh.BytesPerVector)
	}
	if err := d.reserve(LumpVisData, n); err != nil {
		return VisData{}, err
	}
	v := VisData{
		NumVectors:     vh.NumVectors,
		BytesPerVector: vh.BytesPerVector,
		Vectors:        make([]byte, n),
	}
	if _, err := io.ReadFull(sr, v.Vectors); err != nil {
		return VisData{}, errors.Wrapf(ErrIO, "visdata: %v", err)
	}
	return v, nil
}

// inRange reports whether [first, first+num) lies inside [0, n).
func inRange(first, num int32, n int) bool {
	return first >= 0 && num >= 0 && int64(first)+int64(num) <= int64(n)
}

func (m *Map) validate() error {
	for i, n := range m.Nodes {
		if n.Plane < 0 || int(n.Plane) >= len(m.Planes) {
			return errors.Wrapf(ErrCorruptTree, "node %d: plane %d of %d", i, n.Plane, len(m.Planes))
		}
		for _, c := range n.Children {
			if c >= 0 && int(c) >= len(m.Nodes) {
				return errors.Wrapf(ErrCorruptTree, "node %d: child node %d of %d", i, c, len(m.Nodes))
			}
			if c < 0 && int(^c) >= len(m.Leafs) {
				return errors.Wrapf(ErrCorruptTree, "node %d: child leaf %d of %d", i, ^c, len(m.Leafs))
			}
		}
	}
	for i, l := range m.Leafs {
		if !inRange(l.FirstLeafFace, l.NumLeafFaces, len(m.LeafFaces)) {
			return errors.Wrapf(ErrBadLump, "leaf %d: leaf faces %d+%d of %d", i, l.FirstLeafFace, l.NumLeafFaces, len(m.LeafFaces))
		}
		if !inRange(l.FirstLeafBrush, l.NumLeafBrushes, len(m.LeafBrushes)) {
			return errors.Wrapf(ErrBadLump, "leaf %d: leaf brushes %d+%d of %d", i, l.FirstLeafBrush, l.NumLeafBrushes, len(m.LeafBrushes))
		}
	}
	for i, f := range m.LeafFaces {
		if f < 0 || int(f) >= len(m.Faces) {
			return errors.Wrapf(ErrBadLump, "leaf face %d: face %d of %d", i, f, len(m.Faces))
		}
	}
	for i, b := range m.LeafBrushes {
		if b < 0 || int(b) >= len(m.Brushes) {
			return errors.Wrapf(ErrBadLump, "leaf brush %d: brush %d of %d", i, b, len(m.Brushes))
		}
	}
	for i, md := range m.Models {
		if !inRange(md.FirstFace, md.NumFaces, len(m.Faces)) {
			return errors.Wrapf(ErrBadLump, "model %d: faces %d+%d of %d", i, md.FirstFace, md.NumFaces, len(m.Faces))
		}
		if !inRange(md.FirstBrush, md.NumBrushes, len(m.Brushes)) {
			return errors.Wrapf(ErrBadLump, "model %d: brushes %d+%d of %d", i, md.FirstBrush, md.NumBrushes, len(m.Brushes))
		}
	}
	for i, b := range m.Brushes {
		if !inRange(b.FirstSide, b.NumSides, len(m.BrushSides)) {
			return errors.Wrapf(ErrBadLump, "brush %d: sides %d+%d of %d", i, b.FirstSide, b.NumSides, len(m.BrushSides))
		}
	}
	for i, f := range m.Faces {
		if f.Texture < 0 || int(f.Texture) >= len(m.Textures) {
			return errors.Wrapf(ErrBadLump, "face %d: texture %d of %d", i, f.Texture, len(m.Textures))
		}
		if int(f.LightmapIndex) >= len(m.Lightmaps) || f.LightmapIndex < -1 {
			return errors.Wrapf(ErrBadLump, "face %d: lightmap %d of %d", i, f.LightmapIndex, len(m.Lightmaps))
		}
		if !inRange(f.FirstVertex, f.NumVertexes, len(m.Vertexes)) {
			return errors.Wrapf(ErrBadLump, "face %d: vertexes %d+%d of %d", i, f.FirstVertex, f.NumVertexes, len(m.Vertexes))
		}
		if !inRange(f.FirstMeshVert, f.NumMeshVerts, len(m.MeshVerts)) {
			return errors.Wrapf(ErrBadLump, "face %d: mesh verts %d+%d of %d", i, f.FirstMeshVert, f.NumMeshVerts, len(m.MeshVerts))
		}
	}
	return nil
}

// swizzle converts all positions, normals and boxes from the z-up file
// coordinates into y-up coordinates. It must run exactly once.
func (m *Map) swizzle() {
	for i := range m.Planes {
		m.Planes[i].Normal = m.Planes[i].Normal.Swizzle()
	}
	for i := range m.Nodes {
		m.Nodes[i].Mins = swizzleInt(m.Nodes[i].Mins)
		m.Nodes[i].Maxs = swizzleInt(m.Nodes[i].Maxs)
	}
	for i := range m.Leafs {
		m.Leafs[i].Mins = swizzleInt(m.Leafs[i].Mins)
		m.Leafs[i].Maxs = swizzleInt(m.Leafs[i].Maxs)
	}
	for i := range m.Models {
		m.Models[i].Mins = m.Models[i].Mins.Swizzle()
		m.Models[i].Maxs = m.Models[i].Maxs.Swizzle()
	}
	for i := range m.Vertexes {
		m.Vertexes[i].Position = m.Vertexes[i].Position.Swizzle()
		m.Vertexes[i].Normal = m.Vertexes[i].Normal.Swizzle()
	}
	for i := range m.Faces {
		f := &m.Faces[i]
		f.LightmapOrigin = f.LightmapOrigin.Swizzle()
		f.LightmapVecs[0] = f.LightmapVecs[0].Swizzle()
		f.LightmapVecs[1] = f.LightmapVecs[1].Swizzle()
		f.Normal = f.Normal.Swizzle()
	}
}
