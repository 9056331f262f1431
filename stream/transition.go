package stream

import (
	"time"

	"github.com/fogleman/ease"
)

// A Fader crossfades the LED output from one frame to the next.
type Fader struct {
	duration time.Duration
	from, to *Frame
	start    time.Time
}

// NewFader creates a Fader. A zero duration switches frames immediately.
func NewFader(duration time.Duration) *Fader {
	f := new(Fader)
	f.duration = duration
	return f
}

// Start begins a fade from prev to next at now. A nil prev skips the fade.
func (f *Fader) Start(prev, next *Frame, now time.Time) {
	f.from = prev
	f.to = next
	f.start = now
	if f.duration <= 0 || prev == nil {
		f.from = nil
	}
}

// Fading reports whether a fade is still in progress at now.
func (f *Fader) Fading(now time.Time) bool {
	return f.from != nil && now.Sub(f.start) < f.duration
}

// Frame returns the output at now.
func (f *Fader) Frame(now time.Time) *Frame {
	if !f.Fading(now) {
		f.from = nil
		return f.to
	}
	t := float64(now.Sub(f.start)) / float64(f.duration)
	return f.from.InterpolateFrame(f.to, ease.InOutQuad(t))
}
