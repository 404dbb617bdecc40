// SPDX-License-Identifier: GPL-2.0-or-later

// Package pack reads pk3 archives, which are zip files holding maps and
// textures.
package pack

import (
	"archive/zip"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/godoc/vfs"
	"golang.org/x/tools/godoc/vfs/zipfs"
)

type Pack struct {
	rc    *zip.ReadCloser
	files map[string]*zip.File
	name  string
}

// Open returns the content of the entry with the provided name.
func (p *Pack) Open(name string) (io.ReadCloser, error) {
	f, ok := p.files[strings.TrimPrefix(name, "/")]
	if !ok {
		return nil, os.ErrNotExist
	}
	return f.Open()
}

// Files returns the names of all regular entries in sorted order.
func (p *Pack) Files() []string {
	n := make([]string, 0, len(p.files))
	for k := range p.files {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

// FileSystem exposes the archive for binding into a vfs.NameSpace.
func (p *Pack) FileSystem() vfs.FileSystem {
	return zipfs.New(p.rc, p.name)
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	return p.rc.Close()
}

func NewPackReader(name string) (*Pack, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open pack %s", name)
	}
	p := &Pack{rc: rc, name: name, files: make(map[string]*zip.File, len(rc.File))}
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if p.files[f.Name] != nil {
			rc.Close()
			return nil, errors.Errorf("files in pack %s are not unique: %s", name, f.Name)
		}
		p.files[f.Name] = f
	}
	return p, nil
}
