// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/tools/godoc/vfs"
)

var (
	// ErrIO reports a file that could not be opened or read.
	ErrIO = errors.New("i/o error")
	// ErrBadMagic reports a file whose signature matches no registered format.
	ErrBadMagic = errors.New("unknown file signature")
)

// LoadFunc decodes a map whose first four bytes matched the registered magic.
type LoadFunc func(name string, r io.ReaderAt, size int64) (Map, error)

// Formats dispatches map files to decoders by their magic number.
type Formats struct {
	loaders map[uint32]LoadFunc
}

func NewFormats() *Formats {
	return &Formats{loaders: make(map[uint32]LoadFunc)}
}

func (f *Formats) Register(magic uint32, l LoadFunc) {
	f.loaders[magic] = l
}

// Load reads name from fs and decodes it with the loader matching its magic.
func (f *Formats) Load(fs vfs.Opener, name string) (Map, error) {
	b, err := vfs.ReadFile(fs, name)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "read %s: %v", name, err)
	}
	return f.Decode(name, b)
}

// Decode picks the loader by the magic at the start of b.
func (f *Formats) Decode(name string, b []byte) (Map, error) {
	if len(b) < 4 {
		return nil, errors.Wrapf(ErrBadMagic, "%s is too short", name)
	}
	magic := binary.LittleEndian.Uint32(b)
	l, ok := f.loaders[magic]
	if !ok {
		return nil, errors.Wrapf(ErrBadMagic, "%s has magic %#x", name, magic)
	}
	return l(name, bytes.NewReader(b), int64(len(b)))
}
