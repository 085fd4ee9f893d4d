package image

import (
	"fmt"
	"image"
	"io"
	"sync"
)

// FileFrames replays a list of image files as frames.
// Files are decoded once and cached. When Loop is set the sequence repeats
// forever, like a camera pointed at a still scene.
type FileFrames struct {
	Loop bool

	loader Loader
	paths  []string

	mu    sync.Mutex
	pos   int
	cache map[string]image.Image
}

// NewFileFrames creates a FileFrames over paths.
func NewFileFrames(loader Loader, paths []string) *FileFrames {
	if loader == nil {
		loader = NewFileLoader()
	}
	return &FileFrames{
		loader: loader,
		paths:  paths,
		cache:  make(map[string]image.Image),
	}
}

// Len returns the number of files in one pass.
func (f *FileFrames) Len() int {
	return len(f.paths)
}

// Next returns the next frame, or io.EOF once the sequence is exhausted.
func (f *FileFrames) Next() (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.paths) == 0 {
		return nil, io.EOF
	}
	if f.pos >= len(f.paths) {
		if !f.Loop {
			return nil, io.EOF
		}
		f.pos = 0
	}

	path := f.paths[f.pos]
	f.pos++

	if img, ok := f.cache[path]; ok {
		return img, nil
	}
	img, err := f.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("frame %s: %w", path, err)
	}
	f.cache[path] = img
	return img, nil
}
