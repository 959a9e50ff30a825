// Package imagedirsource provides a frame source reading an image sequence
// from a directory.
package imagedirsource

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Frame decoders for the formats the source accepts.
	_ "image/jpeg"
	_ "image/png"
)

// Source implements ports.Source over a directory of numbered images.
// Files are played back in lexical order.
type Source struct {
	files []string
	index int
}

// New creates a source for every .png, .jpg and .jpeg file in dir.
func New(dir string) (*Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no frames found in %s", dir)
	}
	sort.Strings(files)

	return &Source{files: files}, nil
}

// Len returns the number of frames in the sequence.
func (s *Source) Len() int {
	return len(s.files)
}

// Next decodes and returns the next frame, or io.EOF past the last one.
func (s *Source) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.index >= len(s.files) {
		return nil, io.EOF
	}

	path := s.files[s.index]
	s.index++

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}

// Close releases the source.
func (s *Source) Close() error {
	s.files = nil
	return nil
}
