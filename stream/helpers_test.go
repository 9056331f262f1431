package stream

import (
	"image/color"
	"testing"

	"github.com/matt-g-everett/ledgif/anim"
)

func solidFrame(w, h int, c color.RGBA, delay uint16) anim.SubFrame {
	pix := make([]byte, 0, 4*w*h)
	for i := 0; i < w*h; i++ {
		pix = append(pix, c.R, c.G, c.B, c.A)
	}
	return anim.SubFrame{Width: w, Height: h, Pix: pix, Disposal: anim.DisposeAny, Delay: delay}
}

// testSequence builds a 1x1 animation with one frame per delay.
func testSequence(t *testing.T, delays ...uint16) *anim.Sequence {
	t.Helper()
	frames := make([]anim.SubFrame, len(delays))
	for i, d := range delays {
		frames[i] = solidFrame(1, 1, color.RGBA{uint8(i * 40), 0, 0, 0xff}, d)
	}
	seq, err := anim.ComposeFrames(frames, 1, 1)
	if err != nil {
		t.Fatalf("anim.ComposeFrames()=%v", err)
	}
	return seq
}
