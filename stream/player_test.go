package stream

import (
	"testing"
	"time"
)

var epoch = time.Date(2020, 12, 24, 18, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return epoch.Add(time.Duration(ms) * time.Millisecond) }

func TestPlayerTick(t *testing.T) {
	seq := testSequence(t, 5, 10, 2)
	p := NewPlayer(seq)

	if p.Len() != 3 {
		t.Fatalf("Len()=%d; expected 3", p.Len())
	}
	if f := p.CurrentFrame(at(0)); f != seq.Frame(0) || p.Index() != 0 {
		t.Fatalf("CurrentFrame() gave index %d; expected 0", p.Index())
	}

	tests := []struct {
		ms    int
		index int
	}{
		{10, 0},
		{49, 0},
		{50, 1},
		{50, 1},
		{149, 1},
		{150, 2},
		{169, 2},
		{170, 0},
		{219, 0},
		{230, 1},
	}
	for _, test := range tests {
		f := p.Tick(at(test.ms))
		if p.Index() != test.index {
			t.Errorf("Tick(%dms) index=%d; expected %d", test.ms, p.Index(), test.index)
		}
		if f != seq.Frame(test.index) {
			t.Errorf("Tick(%dms) returned a frame other than %d", test.ms, test.index)
		}
	}
	if !p.Shown().Equal(at(230)) {
		t.Errorf("Shown()=%v; expected %v", p.Shown(), at(230))
	}
}

func TestPlayerSameInstantAdvancesOnce(t *testing.T) {
	p := NewPlayer(testSequence(t, 1, 1, 1))
	p.CurrentFrame(at(0))
	for i := 0; i < 5; i++ {
		p.Tick(at(10))
	}
	if p.Index() != 1 {
		t.Errorf("repeated Tick(10ms) index=%d; expected 1", p.Index())
	}
}

func TestPlayerFirstTickStamps(t *testing.T) {
	p := NewPlayer(testSequence(t, 3, 3))
	p.Tick(at(1000))
	if p.Index() != 0 || !p.Shown().Equal(at(1000)) {
		t.Errorf("first Tick() index=%d shown=%v; expected 0 at %v", p.Index(), p.Shown(), at(1000))
	}
	p.Tick(at(1030))
	if p.Index() != 1 {
		t.Errorf("Tick(+30ms) index=%d; expected 1", p.Index())
	}
}

func TestPlayerCurrentFrameDoesNotRestamp(t *testing.T) {
	p := NewPlayer(testSequence(t, 3, 3))
	p.CurrentFrame(at(0))
	p.CurrentFrame(at(20))
	p.Tick(at(30))
	if p.Index() != 1 {
		t.Errorf("Tick(30ms) index=%d; expected 1", p.Index())
	}
}

func TestPlayerSingleFrameWraps(t *testing.T) {
	seq := testSequence(t, 0)
	p := NewPlayer(seq)
	for i := 0; i < 3; i++ {
		if f := p.Tick(at(i)); f != seq.Frame(0) || p.Index() != 0 {
			t.Errorf("Tick(%dms) index=%d; expected 0", i, p.Index())
		}
	}
}
