package stream

import (
	"encoding/binary"
	"image"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// Channel orders understood by Frame.MarshalBinary.
const (
	OrderRGB  = "rgb"
	OrderBGR  = "bgr"
	OrderRGBA = "rgba"
	OrderBGRA = "bgra"
)

type channelWriter func(data []byte, r, g, b uint8) []byte

var channelOrders = map[string]channelWriter{
	OrderRGB:  func(d []byte, r, g, b uint8) []byte { return append(d, r, g, b) },
	OrderBGR:  func(d []byte, r, g, b uint8) []byte { return append(d, b, g, r) },
	OrderRGBA: func(d []byte, r, g, b uint8) []byte { return append(d, r, g, b, 0xff) },
	OrderBGRA: func(d []byte, r, g, b uint8) []byte { return append(d, b, g, r, 0xff) },
}

var channelCounts = map[string]int{OrderRGB: 3, OrderBGR: 3, OrderRGBA: 4, OrderBGRA: 4}

// Frame represents a frame of pixels to display on an LED panel, in
// row-major order.
type Frame struct {
	width, height int
	order         string
	pixels        []colorful.Color
}

// NewFrame flattens img over black and scales it to the display.
func NewFrame(img image.Image, cfg DisplayConfig) *Frame {
	b := img.Bounds()
	if (cfg.Width != 0 || cfg.Height != 0) && (cfg.Width != b.Dx() || cfg.Height != b.Dy()) {
		img = resize.Resize(uint(cfg.Width), uint(cfg.Height), img, resize.NearestNeighbor)
		b = img.Bounds()
	}

	brightness := cfg.Brightness
	if brightness <= 0 {
		brightness = 1.0
	}

	f := newFrame(b.Dx(), b.Dy(), cfg.Order)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// Premultiplied channels are the colour composited over black.
			r, g, bl, _ := img.At(x, y).RGBA()
			f.pixels[i] = colorful.Color{
				R: float64(r) / 0xffff * brightness,
				G: float64(g) / 0xffff * brightness,
				B: float64(bl) / 0xffff * brightness,
			}
			i++
		}
	}
	return f
}

func newFrame(width, height int, order string) *Frame {
	if _, ok := channelOrders[order]; !ok {
		order = OrderRGB
	}
	f := new(Frame)
	f.width = width
	f.height = height
	f.order = order
	f.pixels = make([]colorful.Color, width*height)
	return f
}

// Width of the frame in pixels.
func (f *Frame) Width() int { return f.width }

// Height of the frame in pixels.
func (f *Frame) Height() int { return f.height }

// Pixel returns the colour at (x, y).
func (f *Frame) Pixel(x, y int) colorful.Color { return f.pixels[y*f.width+x] }

// InterpolateFrame blends f towards f2. Frames of different sizes are not
// blended and f2 is returned.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	if f.width != f2.width || f.height != f2.height {
		return f2
	}
	out := newFrame(f2.width, f2.height, f2.order)
	for i := 0; i < len(f.pixels); i++ {
		out.pixels[i] = f.pixels[i].BlendRgb(f2.pixels[i], transitionPoint)
	}

	return out
}

// MarshalBinary converts a Frame into binary data: little endian uint16
// width and height followed by the pixels in the configured channel order.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	write := channelOrders[f.order]
	data = make([]byte, 4, 4+len(f.pixels)*channelCounts[f.order])
	binary.LittleEndian.PutUint16(data, uint16(f.width))
	binary.LittleEndian.PutUint16(data[2:], uint16(f.height))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = write(data, r, g, b)
	}

	return data, nil
}
