// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"

	"goquake3/model"
)

var (
	ErrIO          = model.ErrIO
	ErrBadMagic    = model.ErrBadMagic
	ErrOutOfMemory = errors.New("allocation limit exceeded")
	ErrBadLump     = errors.New("malformed lump")
	ErrCorruptTree = errors.New("corrupt bsp tree")
	ErrIndex       = errors.New("index out of range")
)

// errorType is used as metrics label.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrBadMagic):
		return "bad_magic"
	case errors.Is(err, ErrOutOfMemory):
		return "out_of_memory"
	case errors.Is(err, ErrBadLump):
		return "bad_lump"
	case errors.Is(err, ErrCorruptTree):
		return "corrupt_tree"
	case errors.Is(err, ErrIndex):
		return "index"
	}
	return "other"
}
