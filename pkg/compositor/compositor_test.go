package compositor

import (
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/anthonynsimon/bild/blur"

	"github.com/user/livematte/pkg/adapters/imagerender"
	"github.com/user/livematte/pkg/mocks"
)

// gradientFrame builds a fully opaque test frame with distinct pixel values.
func gradientFrame(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: uint8((x + y) * 255 / (width + height)),
				A: 255,
			})
		}
	}
	return img
}

func TestCompose_PassOrder(t *testing.T) {
	canvas := mocks.NewCanvas(640, 480)
	comp := New(8, nil, mocks.NewLogger())

	comp.Compose(canvas, gradientFrame(4, 4), mocks.OpaqueMask(4, 4))

	want := []string{
		"mode=source-over",
		"blur=0.0",
		"clear",
		"draw 640x480",
		"mode=source-in",
		"draw 640x480",
		"mode=destination-over",
		"blur=8.0",
		"draw 640x480",
		"blur=0.0",
	}
	if !reflect.DeepEqual(canvas.Ops, want) {
		t.Errorf("unexpected pass order:\n got %v\nwant %v", canvas.Ops, want)
	}
}

func TestCompose_OverlayHook(t *testing.T) {
	canvas := mocks.NewCanvas(64, 48)
	comp := New(0, func() string { return "12.5 fps" }, mocks.NewLogger())

	comp.Compose(canvas, gradientFrame(4, 4), mocks.OpaqueMask(4, 4))

	last := canvas.Ops[len(canvas.Ops)-1]
	if last != "text 12.5 fps" {
		t.Errorf("expected overlay text as the final pass, got %q", last)
	}
}

func TestCompose_OpaqueMaskKeepsSourcePixels(t *testing.T) {
	// With a fully opaque matte and no blur, the output must equal the
	// source frame exactly; no background blending may bleed in.
	frame := gradientFrame(8, 8)
	canvas := imagerender.New().CreateCanvas(8, 8)
	comp := New(0, nil, mocks.NewLogger())

	comp.Compose(canvas, frame, mocks.OpaqueMask(8, 8))

	out, ok := canvas.Image().(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA output, got %T", canvas.Image())
	}
	if !reflect.DeepEqual(out.Pix, frame.Pix) {
		t.Error("output foreground differs from source pixels")
	}
}

func TestCompose_TransparentMaskBlursEverything(t *testing.T) {
	// With an empty matte the whole output is the blurred source frame.
	const radius = 3.0
	frame := gradientFrame(8, 8)
	canvas := imagerender.New().CreateCanvas(8, 8)
	comp := New(radius, nil, mocks.NewLogger())

	comp.Compose(canvas, frame, image.NewAlpha(image.Rect(0, 0, 8, 8)))

	want := blur.Gaussian(gradientFrame(8, 8), radius)
	out := canvas.Image().(*image.RGBA)
	if !reflect.DeepEqual(out.Pix, want.Pix) {
		t.Error("output does not match the blurred source frame")
	}
}

func TestCompose_MaskStretchedToTarget(t *testing.T) {
	// A low-resolution matte is stretched to the canvas, not cropped: an
	// opaque 4x4 matte must cover the whole 8x8 output.
	frame := gradientFrame(8, 8)
	canvas := imagerender.New().CreateCanvas(8, 8)
	comp := New(0, nil, mocks.NewLogger())

	comp.Compose(canvas, frame, mocks.OpaqueMask(4, 4))

	out := canvas.Image().(*image.RGBA)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			got := out.RGBAAt(x, y)
			if got.A < 250 {
				t.Fatalf("pixel (%d,%d): expected near-opaque alpha, got %d", x, y, got.A)
			}
			want := frame.RGBAAt(x, y)
			if delta(got.R, want.R) > 4 || delta(got.G, want.G) > 4 || delta(got.B, want.B) > 4 {
				t.Fatalf("pixel (%d,%d): foreground %v too far from source %v", x, y, got, want)
			}
		}
	}
}

func delta(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
