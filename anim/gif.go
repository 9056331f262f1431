package anim

import (
	"image"
	"image/gif"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Open loads and composites the GIF at path.
func Open(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, loadError(IoError, errors.Wrapf(err, "opening %s", path))
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a whole GIF from r and composites its frames.
func Decode(r io.Reader) (*Sequence, error) {
	er := &errReader{r: r}
	g, err := gif.DecodeAll(er)
	if err != nil {
		if er.err != nil {
			return nil, loadError(IoError, errors.Wrap(er.err, "reading gif"))
		}
		return nil, loadError(DecodeError, err)
	}

	return Compose(newGifSource(g), g.Config.Width, g.Config.Height)
}

// errReader remembers the first read failure of the underlying reader so
// that it can be told apart from a malformed bitstream.
type errReader struct {
	r   io.Reader
	err error
}

func (e *errReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF && e.err == nil {
		e.err = err
	}
	return n, err
}

type gifSource struct {
	g *gif.GIF
	i int
}

func newGifSource(g *gif.GIF) *gifSource {
	return &gifSource{g: g}
}

func (s *gifSource) Next() (*SubFrame, error) {
	if s.i >= len(s.g.Image) {
		return nil, io.EOF
	}
	i := s.i
	s.i++

	m := s.g.Image[i]
	b := m.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, m, b.Min, draw.Src)

	sf := &SubFrame{
		Left:   b.Min.X,
		Top:    b.Min.Y,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    rgba.Pix,
	}
	if i < len(s.g.Delay) {
		sf.Delay = clampDelay(s.g.Delay[i])
	}
	if i < len(s.g.Disposal) {
		sf.Disposal = disposalFromGif(s.g.Disposal[i])
	}
	return sf, nil
}

func disposalFromGif(d byte) Disposal {
	switch d {
	case gif.DisposalNone:
		return DisposeKeep
	case gif.DisposalBackground:
		return DisposeBackground
	case gif.DisposalPrevious:
		return DisposePrevious
	}
	return DisposeAny
}

func clampDelay(d int) uint16 {
	if d < 0 {
		return 0
	}
	if d > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(d)
}
