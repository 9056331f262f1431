package anim

import (
	"image"
	"image/color"
	"time"
)

// Disposal says how a sub-frame's region affects the canvas that the next
// sub-frame is drawn on.
type Disposal uint8

const (
	// DisposeAny leaves the base canvas as it was before the sub-frame.
	DisposeAny Disposal = iota
	// DisposeKeep makes the composited canvas the next base.
	DisposeKeep
	// DisposeBackground clears the sub-frame's rectangle in the next base.
	DisposeBackground
	// DisposePrevious is treated like DisposeAny.
	DisposePrevious
)

func (d Disposal) String() string {
	switch d {
	case DisposeAny:
		return "any"
	case DisposeKeep:
		return "keep"
	case DisposeBackground:
		return "background"
	case DisposePrevious:
		return "previous"
	}
	return "unknown"
}

// A SubFrame is one decoded block of a GIF placed somewhere on the canvas.
// Pix holds Width*Height RGBA pixels in row-major order.
type SubFrame struct {
	Left, Top     int
	Width, Height int
	Pix           []byte
	Disposal      Disposal
	// Delay in hundredths of a second.
	Delay uint16
}

// Rect returns the placement rectangle of the sub-frame on the canvas.
func (s *SubFrame) Rect() image.Rectangle {
	return image.Rect(s.Left, s.Top, s.Left+s.Width, s.Top+s.Height)
}

// A Frame is a fully composited canvas with its display delay. Frames are
// never modified after they are created.
type Frame struct {
	img   *image.RGBA
	delay uint16
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle { return f.img.Rect }

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color { return f.img.RGBAAt(x, y) }

// RGBAAt returns the pixel at (x, y).
func (f *Frame) RGBAAt(x, y int) color.RGBA { return f.img.RGBAAt(x, y) }

// Pix returns the frame's RGBA bytes. The slice is shared and must not be
// written to.
func (f *Frame) Pix() []byte { return f.img.Pix }

// Width of the canvas in pixels.
func (f *Frame) Width() int { return f.img.Rect.Dx() }

// Height of the canvas in pixels.
func (f *Frame) Height() int { return f.img.Rect.Dy() }

// Delay in hundredths of a second.
func (f *Frame) Delay() uint16 { return f.delay }

// Duration is the delay as a time.Duration.
func (f *Frame) Duration() time.Duration {
	return time.Duration(f.delay) * 10 * time.Millisecond
}

// A Sequence is the ordered, non-empty list of composited frames of one
// animation.
type Sequence struct {
	width, height int
	frames        []*Frame
}

// Len returns the number of frames, always at least one.
func (s *Sequence) Len() int { return len(s.frames) }

// Frame returns the frame at index i.
func (s *Sequence) Frame(i int) *Frame { return s.frames[i] }

// Width of the canvas in pixels.
func (s *Sequence) Width() int { return s.width }

// Height of the canvas in pixels.
func (s *Sequence) Height() int { return s.height }

// TotalDuration is the time one full loop of the animation takes.
func (s *Sequence) TotalDuration() time.Duration {
	var d time.Duration
	for _, f := range s.frames {
		d += f.Duration()
	}
	return d
}
