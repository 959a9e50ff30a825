package ports

import (
	"image"
	"image/color"
)

// CompositeMode selects the pixel combination rule for draw operations.
type CompositeMode int

const (
	// CompositeSourceOver draws the source on top of the destination.
	CompositeSourceOver CompositeMode = iota

	// CompositeSourceIn keeps source pixels weighted by the destination's
	// alpha; pixels where the destination is transparent become transparent.
	CompositeSourceIn

	// CompositeDestinationOver draws the source underneath the destination,
	// filling only the pixels the destination leaves empty.
	CompositeDestinationOver
)

// Renderer abstracts pixel buffer allocation and resampling.
type Renderer interface {
	// CreateCanvas allocates a transparent drawing canvas.
	CreateCanvas(width, height int) Canvas

	// ResizeImage resamples an image to the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas is a drawing surface for frame composition.
// The composite mode and blur filter apply to subsequent draw calls.
type Canvas interface {
	// Size returns the canvas dimensions.
	Size() (width, height int)

	// Clear resets every pixel to transparent.
	Clear()

	// SetCompositeMode selects the blend rule for subsequent draws.
	SetCompositeMode(mode CompositeMode)

	// SetBlur sets the Gaussian blur radius, in pixels, applied to images
	// drawn afterwards. Radius 0 disables the filter.
	SetBlur(radius float64)

	// DrawImageScaled draws img at the origin, stretched to width x height.
	DrawImageScaled(img image.Image, width, height int)

	// DrawText draws overlay text at the specified position.
	DrawText(text string, x, y int, style TextStyle)

	// Image returns the canvas contents.
	Image() image.Image
}

// TextStyle defines overlay text rendering properties.
type TextStyle struct {
	Color color.Color
}
