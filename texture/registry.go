// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"io/fs"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/tools/godoc/vfs"

	"goquake3/image"
)

// DefaultExtensions are tried in order when a texture name has none.
var DefaultExtensions = []string{".jpg", ".tga"}

// Registry loads image files once per path and uploads them.
type Registry struct {
	fs  vfs.Opener
	up  Uploader
	log zerolog.Logger

	mu        deadlock.RWMutex
	byPath    map[string]*Texture
	lightmaps []*Texture
}

func NewRegistry(fs vfs.Opener, up Uploader, log zerolog.Logger) *Registry {
	return &Registry{
		fs:     fs,
		up:     up,
		log:    log,
		byPath: make(map[string]*Texture),
	}
}

// Load returns the handle of the image at p, decoding and uploading it on
// first use.
func (r *Registry) Load(p string) (Handle, error) {
	p = path.Join("/", p)

	r.mu.RLock()
	t, ok := r.byPath[p]
	r.mu.RUnlock()
	if ok {
		return t.Handle, nil
	}

	img, err := image.Load(r.fs, p)
	if err != nil {
		return 0, err
	}
	b := img.Bounds()
	t = NewTexture(int32(b.Dx()), int32(b.Dy()), TexPrefMipMap|TexPrefLinear|TexPrefRepeat, p, ColorTypeRGBA, img.Pix)

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byPath[p]; ok {
		return c.Handle, nil
	}
	h, err := r.up.Upload(t)
	if err != nil {
		return 0, errors.Wrapf(err, "upload %s", p)
	}
	t.Handle = h
	r.byPath[p] = t
	r.log.Debug().Str("texture", p).Uint32("handle", uint32(h)).Msg("Loaded texture")
	return h, nil
}

// Resolve tries name with every extension in order and loads the first file
// that exists. It returns 0 when none exists or the file cannot be loaded.
func (r *Registry) Resolve(name string, exts []string) Handle {
	for _, ext := range exts {
		h, err := r.Load(name + ext)
		if err == nil {
			return h
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		r.log.Warn().Err(err).Str("texture", name+ext).Msg("Failed to load texture")
		return 0
	}
	r.log.Debug().Str("texture", name).Msg("Texture not found")
	return 0
}

// Lightmap uploads packed RGB data. The data is not cached by name.
func (r *Registry) Lightmap(name string, rgb []byte, w, h int) Handle {
	t := NewTexture(int32(w), int32(h), TexPrefMipMap|TexPrefLinear, name, ColorTypeLightmap, rgb)
	hd, err := r.up.Upload(t)
	if err != nil {
		r.log.Warn().Err(err).Str("lightmap", name).Msg("Failed to upload lightmap")
		return 0
	}
	t.Handle = hd
	r.mu.Lock()
	r.lightmaps = append(r.lightmaps, t)
	r.mu.Unlock()
	return hd
}

// Loaded returns the number of cached image textures.
func (r *Registry) Loaded() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPath)
}

// ReleaseLightmaps deletes all lightmaps, which belong to the current map.
func (r *Registry) ReleaseLightmaps() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.lightmaps {
		r.up.Delete(t.Handle)
	}
	r.lightmaps = nil
}

// Release deletes every texture.
func (r *Registry) Release() {
	r.ReleaseLightmaps()
	r.mu.Lock()
	defer r.mu.Unlock()
	for p, t := range r.byPath {
		r.up.Delete(t.Handle)
		delete(r.byPath, p)
	}
}
