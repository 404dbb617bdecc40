// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/tools/godoc/vfs"

	"goquake3/pack"
)

// FS is the union of a base directory and the pk3 archives inside it.
// Archives take precedence over loose files, later archives (in name
// order) over earlier ones.
type FS struct {
	mu    deadlock.RWMutex
	ns    vfs.NameSpace
	packs []*pack.Pack
	base  string
}

// New binds dir and every *.pk3 file directly inside dir.
func New(dir string, log zerolog.Logger) (*FS, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(err, "base directory")
	}
	if !st.IsDir() {
		return nil, errors.Errorf("base directory %s is not a directory", dir)
	}
	f := &FS{ns: vfs.NewNameSpace(), base: dir}
	f.ns.Bind("/", vfs.OS(dir), "/", vfs.BindReplace)

	pk3s, err := filepath.Glob(filepath.Join(dir, "*.pk3"))
	if err != nil {
		return nil, err
	}
	sort.Strings(pk3s)
	for _, pfp := range pk3s {
		p, err := pack.NewPackReader(pfp)
		if err != nil {
			log.Warn().Err(err).Str("pack", pfp).Msg("Skipping pack")
			continue
		}
		f.packs = append(f.packs, p)
		f.ns.Bind("/", p.FileSystem(), "/", vfs.BindBefore)
		log.Debug().Str("pack", pfp).Int("files", len(p.Files())).Msg("Added pack")
	}
	return f, nil
}

// NewFromFS wraps an existing file system, mostly for tests.
func NewFromFS(fs vfs.FileSystem) *FS {
	f := &FS{ns: vfs.NewNameSpace()}
	f.ns.Bind("/", fs, "/", vfs.BindReplace)
	return f
}

// Bind puts fs in front of everything already bound.
func (f *FS) Bind(fs vfs.FileSystem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ns.Bind("/", fs, "/", vfs.BindBefore)
}

func (f *FS) BaseDir() string {
	return f.base
}

func (f *FS) Open(name string) (vfs.ReadSeekCloser, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ns.Open(path.Join("/", name))
}

func (f *FS) Stat(name string) (os.FileInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ns.Stat(path.Join("/", name))
}

func (f *FS) ReadFile(name string) ([]byte, error) {
	return vfs.ReadFile(f, name)
}

// Maps lists the .bsp files below /maps.
func (f *FS) Maps() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fis, err := f.ns.ReadDir("/maps")
	if err != nil {
		return nil, err
	}
	var r []string
	for _, fi := range fis {
		if !fi.IsDir() && strings.EqualFold(Ext(fi.Name()), ".bsp") {
			r = append(r, path.Join("maps", fi.Name()))
		}
	}
	sort.Strings(r)
	return r, nil
}

// Close releases all archives.
func (f *FS) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var first error
	for _, p := range f.packs {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	f.packs = nil
	return first
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
