// Package mocks provides hand-written mock implementations of the ports.
package mocks

import (
	"fmt"
	"image"

	"github.com/user/livematte/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateCanvasFunc func(width, height int) ports.Canvas
	ResizeImageFunc  func(img image.Image, width, height int) image.Image

	// Canvases collects every canvas handed out by the default
	// CreateCanvas implementation.
	Canvases []*Canvas
}

func (m *Renderer) CreateCanvas(width, height int) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height)
	}
	c := NewCanvas(width, height)
	m.Canvases = append(m.Canvases, c)
	return c
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas that records the sequence
// of operations applied to it, for asserting compositing pass order.
type Canvas struct {
	width  int
	height int

	// Ops holds one entry per canvas call, e.g. "clear", "mode=source-in",
	// "blur=8.0", "draw 640x480", "text 12.3 fps".
	Ops []string
}

// NewCanvas creates a recording canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

func (m *Canvas) Size() (int, int) {
	return m.width, m.height
}

func (m *Canvas) Clear() {
	m.Ops = append(m.Ops, "clear")
}

func (m *Canvas) SetCompositeMode(mode ports.CompositeMode) {
	name := "source-over"
	switch mode {
	case ports.CompositeSourceIn:
		name = "source-in"
	case ports.CompositeDestinationOver:
		name = "destination-over"
	}
	m.Ops = append(m.Ops, "mode="+name)
}

func (m *Canvas) SetBlur(radius float64) {
	m.Ops = append(m.Ops, fmt.Sprintf("blur=%.1f", radius))
}

func (m *Canvas) DrawImageScaled(img image.Image, width, height int) {
	m.Ops = append(m.Ops, fmt.Sprintf("draw %dx%d", width, height))
}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Ops = append(m.Ops, "text "+text)
}

func (m *Canvas) Image() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

var _ ports.Canvas = (*Canvas)(nil)
