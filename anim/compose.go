package anim

import (
	"image"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// A SubFrameSource yields sub-frames in stream order. Next returns io.EOF
// once the stream is exhausted.
type SubFrameSource interface {
	Next() (*SubFrame, error)
}

type sliceSource struct {
	frames []SubFrame
	i      int
}

func (s *sliceSource) Next() (*SubFrame, error) {
	if s.i >= len(s.frames) {
		return nil, io.EOF
	}
	f := &s.frames[s.i]
	s.i++
	return f, nil
}

// ComposeFrames composites an in-memory list of sub-frames.
func ComposeFrames(frames []SubFrame, width, height int) (*Sequence, error) {
	return Compose(&sliceSource{frames: frames}, width, height)
}

// Compose reads every sub-frame from src and flattens each one onto a
// width x height canvas. Errors from src other than io.EOF abort the load;
// they are returned as is when they are already a *LoadError and tagged as
// a DecodeError otherwise.
func Compose(src SubFrameSource, width, height int) (*Sequence, error) {
	if width <= 0 || height <= 0 {
		return nil, compositionErrorf("invalid canvas size %dx%d", width, height)
	}

	seq := &Sequence{width: width, height: height}
	c := &compositor{bounds: image.Rect(0, 0, width, height)}
	for {
		sf, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				return nil, err
			}
			return nil, loadError(DecodeError, errors.Wrapf(err, "reading frame %d", len(seq.frames)))
		}

		f, err := c.add(sf)
		if err != nil {
			return nil, loadError(CompositionError, errors.Wrapf(err, "frame %d", len(seq.frames)))
		}
		seq.frames = append(seq.frames, f)
	}

	if len(seq.frames) == 0 {
		return nil, compositionErrorf("animation has no frames")
	}
	return seq, nil
}

// compositor carries the base canvas between sub-frames. base is nil when
// the next sub-frame starts from a transparent canvas. base is shared with
// emitted frames and is only ever replaced, never drawn on.
type compositor struct {
	bounds image.Rectangle
	base   *image.RGBA
}

func (c *compositor) canvas() *image.RGBA {
	m := image.NewRGBA(c.bounds)
	if c.base != nil {
		copy(m.Pix, c.base.Pix)
	}
	return m
}

func (c *compositor) add(sf *SubFrame) (*Frame, error) {
	if err := c.validate(sf); err != nil {
		return nil, err
	}

	m := c.canvas()
	r := sf.Rect()
	src := &image.RGBA{
		Pix:    sf.Pix,
		Stride: 4 * sf.Width,
		Rect:   image.Rect(0, 0, sf.Width, sf.Height),
	}
	draw.Copy(m, r.Min, src, src.Rect, draw.Src, nil)

	switch sf.Disposal {
	case DisposeKeep:
		c.base = m
	case DisposeBackground:
		if r == c.bounds {
			c.base = nil
		} else {
			next := image.NewRGBA(c.bounds)
			copy(next.Pix, m.Pix)
			draw.Draw(next, r, image.Transparent, image.Point{}, draw.Src)
			c.base = next
		}
	}

	return &Frame{img: m, delay: sf.Delay}, nil
}

func (c *compositor) validate(sf *SubFrame) error {
	if sf.Left < 0 || sf.Top < 0 || sf.Width < 0 || sf.Height < 0 {
		return errors.Errorf("malformed placement %d,%d %dx%d", sf.Left, sf.Top, sf.Width, sf.Height)
	}
	if r := sf.Rect(); r.Max.X > c.bounds.Max.X || r.Max.Y > c.bounds.Max.Y {
		return errors.Errorf("placement %v exceeds canvas %v", r, c.bounds)
	}
	if len(sf.Pix) != 4*sf.Width*sf.Height {
		return errors.Errorf("pixel buffer has %d bytes, expected %d", len(sf.Pix), 4*sf.Width*sf.Height)
	}
	return nil
}
