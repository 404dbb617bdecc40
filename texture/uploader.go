// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"github.com/sasha-s/go-deadlock"
)

// Uploader hands textures to a graphics backend.
type Uploader interface {
	Upload(t *Texture) (Handle, error)
	Delete(h Handle)
}

// MemoryUploader keeps textures in memory. It serves headless tools and tests.
type MemoryUploader struct {
	mu       deadlock.Mutex
	last     Handle
	textures map[Handle]*Texture
}

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{textures: make(map[Handle]*Texture)}
}

func (u *MemoryUploader) Upload(t *Texture) (Handle, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.last++
	u.textures[u.last] = t
	return u.last, nil
}

func (u *MemoryUploader) Delete(h Handle) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.textures, h)
}

// Get returns the texture stored under h.
func (u *MemoryUploader) Get(h Handle) (*Texture, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	t, ok := u.textures[h]
	return t, ok
}

func (u *MemoryUploader) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.textures)
}
