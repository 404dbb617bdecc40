// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"github.com/go-gl/gl/v4.6-core/gl"

	"goquake3/bsp"
	"goquake3/model"
	"goquake3/texture"
)

const (
	vertexSource = `
#version 410
layout (location = 0) in vec3 position;
layout (location = 1) in vec2 texcoord;
layout (location = 2) in vec2 lmcoord;
out vec2 Texcoord;
out vec2 LMcoord;
uniform mat4 combined;
void main() {
	Texcoord = texcoord;
	LMcoord = lmcoord;
	gl_Position = combined * vec4(position, 1.0);
}
`

	fragmentSource = `
#version 410
in vec2 Texcoord;
in vec2 LMcoord;
out vec4 frag_color;
uniform sampler2D tex;
uniform sampler2D lightmap;
uniform bool useTexture;
uniform bool useLightmap;
void main() {
	vec4 color = vec4(1.0);
	if (useTexture) {
		color = texture(tex, Texcoord);
	}
	if (useLightmap) {
		color.rgb *= texture(lightmap, LMcoord).rgb;
	}
	frag_color = color;
}
`
)

// floats per vertex: position, texture and lightmap coordinates
const vertexSize = 3 + 2 + 2

func vertexData(m *bsp.Map) []float32 {
	d := make([]float32, 0, len(m.Vertexes)*vertexSize)
	for i := range m.Vertexes {
		v := &m.Vertexes[i]
		d = append(d,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.TexCoord[0], v.TexCoord[1],
			v.LightmapCoord[0], v.LightmapCoord[1])
	}
	return d
}

type batchKey struct {
	tex texture.Handle
	lm  texture.Handle
}

// batches collects triangle indices per texture and lightmap pair in the
// order the pairs were first seen.
type batches struct {
	order   []batchKey
	indices map[batchKey][]uint32
	skipped int
}

func newBatches() *batches {
	return &batches{indices: make(map[batchKey][]uint32)}
}

// add appends the triangles of polygon and mesh faces. Patches and
// billboards need tessellation and are skipped.
func (b *batches) add(m *bsp.Map, f model.FaceDraw) {
	if f.Type != model.FacePolygon && f.Type != model.FaceMesh {
		b.skipped++
		return
	}
	k := batchKey{f.Texture, f.Lightmap}
	idx, ok := b.indices[k]
	if !ok {
		b.order = append(b.order, k)
	}
	for _, mv := range m.MeshVerts[f.FirstMeshVert : f.FirstMeshVert+f.NumMeshVerts] {
		idx = append(idx, uint32(f.FirstVertex+int(mv)))
	}
	b.indices[k] = idx
}

func (b *batches) reset() {
	for _, k := range b.order {
		b.indices[k] = b.indices[k][:0]
	}
	b.order = b.order[:0]
	b.skipped = 0
}

// Backend draws the faces of one map with OpenGL. It must be created and
// used on the thread owning the GL context.
type Backend struct {
	m       *bsp.Map
	prog    *Program
	vao     *VertexArray
	vbo     *Buffer
	ebo     *Buffer
	batches *batches

	combined    int32
	useTexture  int32
	useLightmap int32
}

var _ model.Backend = (*Backend)(nil)

func NewBackend(m *bsp.Map) (*Backend, error) {
	p, err := NewProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	b := &Backend{
		m:       m,
		prog:    p,
		vao:     NewVertexArray(),
		vbo:     NewBuffer(gl.ARRAY_BUFFER),
		ebo:     NewBuffer(gl.ELEMENT_ARRAY_BUFFER),
		batches: newBatches(),
	}
	b.combined = p.Uniform("combined")
	b.useTexture = p.Uniform("useTexture")
	b.useLightmap = p.Uniform("useLightmap")
	p.Use()
	gl.Uniform1i(p.Uniform("tex"), 0)
	gl.Uniform1i(p.Uniform("lightmap"), 1)

	b.vao.Bind()
	upload(b.vbo, vertexData(m), gl.STATIC_DRAW)
	b.vao.Float(0, 3, vertexSize, 0)
	b.vao.Float(1, 2, vertexSize, 3)
	b.vao.Float(2, 2, vertexSize, 5)
	b.ebo.Bind()
	return b, nil
}

func (b *Backend) SubmitFace(f model.FaceDraw) {
	b.batches.add(b.m, f)
}

// Flush draws everything submitted since the last Flush with the view of v.
// It returns the number of skipped faces.
func (b *Backend) Flush(v model.View) int {
	defer b.batches.reset()
	skipped := b.batches.skipped

	b.prog.Use()
	b.vao.Bind()
	cm := v.Combined().ColumnMajor()
	gl.UniformMatrix4fv(b.combined, 1, false, &cm[0])
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.FrontFace(gl.CW)

	for _, k := range b.batches.order {
		idx := b.batches.indices[k]
		if len(idx) == 0 {
			continue
		}
		bindUnit(gl.TEXTURE0, k.tex, b.useTexture)
		bindUnit(gl.TEXTURE1, k.lm, b.useLightmap)
		upload(b.ebo, idx, gl.STREAM_DRAW)
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(len(idx)), gl.UNSIGNED_INT, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	return skipped
}

func bindUnit(unit uint32, h texture.Handle, use int32) {
	gl.ActiveTexture(unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(h))
	if h == 0 {
		gl.Uniform1i(use, 0)
	} else {
		gl.Uniform1i(use, 1)
	}
}
