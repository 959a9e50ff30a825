// Package pngsink provides a frame sink writing numbered PNG files.
package pngsink

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path/filepath"

	"github.com/user/livematte/pkg/ports"
)

// Sink implements ports.FrameSink by writing each frame as
// frame-NNNN.png under a base directory.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new Sink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// WriteFrame encodes the frame and writes it to the base directory.
func (s *Sink) WriteFrame(index int, img image.Image) error {
	if img == nil {
		return fmt.Errorf("frame %d: nil image", index)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}
	path := filepath.Join(s.baseDir, fmt.Sprintf("frame-%04d.png", index))
	return s.fs.WriteFile(path, buf.Bytes())
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
