// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"
)

// Program is a linked vertex + fragment shader pair. The GL object is
// released on the main thread once the Program is unreachable.
type Program struct {
	prog uint32
}

func NewProgram(vertex, fragment string) (*Program, error) {
	vert, err := compile(vertex, gl.VERTEX_SHADER)
	if err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	}
	frag, err := compile(fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return nil, errors.Wrap(err, "fragment shader")
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(prog, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(prog)
		return nil, errors.Errorf("link program: %s", msg)
	}
	p := &Program{prog: prog}
	runtime.AddCleanup(p, func(id uint32) {
		mainthread.CallNonBlock(func() { gl.DeleteProgram(id) })
	}, prog)
	return p, nil
}

func (p *Program) Use() {
	gl.UseProgram(p.prog)
}

// Uniform returns the location of the named uniform, -1 if the linker
// dropped it.
func (p *Program) Uniform(name string) int32 {
	return gl.GetUniformLocation(p.prog, gl.Str(name+"\x00"))
}

// Buffer is a GL buffer object bound to a fixed target.
type Buffer struct {
	buf    uint32
	target uint32
}

func NewBuffer(target uint32) *Buffer {
	b := &Buffer{target: target}
	gl.GenBuffers(1, &b.buf)
	runtime.AddCleanup(b, func(id uint32) {
		mainthread.CallNonBlock(func() { gl.DeleteBuffers(1, &id) })
	}, b.buf)
	return b
}

func (b *Buffer) Bind() {
	gl.BindBuffer(b.target, b.buf)
}

// upload binds b and replaces its content with data. Empty data leaves the
// buffer untouched.
func upload[T float32 | uint32](b *Buffer, data []T, usage uint32) {
	b.Bind()
	if len(data) == 0 {
		return
	}
	gl.BufferData(b.target, 4*len(data), gl.Ptr(data), usage)
}

// VertexArray records the attribute layout of the bound array buffer.
type VertexArray struct {
	a uint32
}

func NewVertexArray() *VertexArray {
	va := &VertexArray{}
	gl.GenVertexArrays(1, &va.a)
	runtime.AddCleanup(va, func(id uint32) {
		mainthread.CallNonBlock(func() { gl.DeleteVertexArrays(1, &id) })
	}, va.a)
	return va
}

func (va *VertexArray) Bind() {
	gl.BindVertexArray(va.a)
}

// Float enables attribute index as size floats, with stride and offset
// counted in floats.
func (va *VertexArray) Float(index uint32, size, stride, offset int) {
	gl.EnableVertexAttribArray(index)
	gl.VertexAttribPointerWithOffset(index, int32(size), gl.FLOAT, false, int32(4*stride), uintptr(4*offset))
}

func compile(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csource, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, errors.Errorf("compile: %s", msg)
	}
	return shader, nil
}

func infoLog(id uint32, param func(uint32, uint32, *int32), read func(uint32, int32, *int32, *uint8)) string {
	var n int32
	param(id, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return "no info log"
	}
	buf := strings.Repeat("\x00", int(n+1))
	read(id, n, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00\n")
}
