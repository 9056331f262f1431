package stream

import (
	"time"

	"github.com/matt-g-everett/ledgif/anim"
)

// A Player steps through a Sequence in a loop. It never reads the clock
// itself; every call is given the current time.
type Player struct {
	seq   *anim.Sequence
	index int
	shown time.Time
	// started is false until the first frame has been shown.
	started bool
}

// NewPlayer creates a Player positioned on the first frame.
func NewPlayer(seq *anim.Sequence) *Player {
	p := new(Player)
	p.seq = seq
	return p
}

// CurrentFrame returns the visible frame, marking it shown at now if
// nothing has been shown yet.
func (p *Player) CurrentFrame(now time.Time) *anim.Frame {
	p.stamp(now)
	return p.seq.Frame(p.index)
}

// Tick advances to the next frame, wrapping at the end, once the current
// frame has been visible for its delay. It returns the frame that is
// visible after the tick.
func (p *Player) Tick(now time.Time) *anim.Frame {
	p.stamp(now)
	if now.Sub(p.shown) >= p.seq.Frame(p.index).Duration() {
		p.index++
		if p.index == p.seq.Len() {
			p.index = 0
		}
		p.shown = now
	}
	return p.seq.Frame(p.index)
}

func (p *Player) stamp(now time.Time) {
	if !p.started {
		p.shown = now
		p.started = true
	}
}

// Index of the visible frame.
func (p *Player) Index() int { return p.index }

// Len is the number of frames in the loop.
func (p *Player) Len() int { return p.seq.Len() }

// Shown is when the visible frame was first shown.
func (p *Player) Shown() time.Time { return p.shown }
