package stream

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type recordingPublisher struct {
	topics   []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(topic string, payload []byte) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return p.err
}

func testConfig(t *testing.T, yaml string) Config {
	t.Helper()
	c, err := DecodeConfig(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("DecodeConfig()=%v", err)
	}
	return c
}

func TestStreamerPublishesOnChange(t *testing.T) {
	seq := testSequence(t, 5, 5)
	pub := &recordingPublisher{}
	s := NewStreamer(testConfig(t, "mqtt:\n  topics:\n    stream: tree\n"), pub, seq)

	tests := []struct {
		ms        int
		published bool
		index     int
	}{
		{0, true, 0},
		{16, false, 0},
		{33, false, 0},
		{50, true, 1},
		{66, false, 1},
		{100, true, 0},
	}
	for _, test := range tests {
		published, err := s.Step(at(test.ms))
		if err != nil {
			t.Fatalf("Step(%dms)=%v", test.ms, err)
		}
		if published != test.published {
			t.Errorf("Step(%dms) published=%v; expected %v", test.ms, published, test.published)
		}
		if snap := s.Snapshot(); snap.Index != test.index || snap.Frame != seq.Frame(test.index) || snap.Count != 2 {
			t.Errorf("Step(%dms) snapshot=%+v; expected index %d of 2", test.ms, snap, test.index)
		}
	}

	if len(pub.payloads) != 3 {
		t.Fatalf("published %d frames; expected 3", len(pub.payloads))
	}
	for _, topic := range pub.topics {
		if topic != "tree" {
			t.Errorf("published to %q; expected tree", topic)
		}
	}
	// 1x1 frames: 4 byte header and one RGB pixel.
	if got := pub.payloads[1]; len(got) != 7 || got[4] != 40 {
		t.Errorf("payload=%v; expected frame 1 with red 40", got)
	}
}

func TestStreamerFades(t *testing.T) {
	seq := testSequence(t, 5, 5)
	pub := &recordingPublisher{}
	s := NewStreamer(testConfig(t, "playback:\n  transitionMs: 20\n"), pub, seq)

	steps := []struct {
		ms        int
		published bool
	}{
		{0, true},
		{40, false},
		{50, true},
		{60, true},
		{70, true},
		{80, false},
	}
	for _, step := range steps {
		published, err := s.Step(at(step.ms))
		if err != nil {
			t.Fatal(err)
		}
		if published != step.published {
			t.Errorf("Step(%dms) published=%v; expected %v", step.ms, published, step.published)
		}
	}
	last := pub.payloads[len(pub.payloads)-1]
	if last[4] != 40 {
		t.Errorf("last payload red=%d; expected 40 once the fade finished", last[4])
	}
	mid := pub.payloads[2]
	if mid[4] == 0 || mid[4] == 40 {
		t.Errorf("mid fade red=%d; expected a value between 0 and 40", mid[4])
	}
}

func TestStreamerPublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker gone")}
	s := NewStreamer(testConfig(t, ""), pub, testSequence(t, 5))
	if _, err := s.Step(at(0)); err == nil || !strings.Contains(err.Error(), "broker gone") {
		t.Errorf("Step()=%v; expected the publish error", err)
	}
}

func TestStreamerRunStops(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewStreamer(testConfig(t, "playback:\n  tickRate: 500\n"), pub, testSequence(t, 1, 1))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run()=%v; expected %v", err, context.DeadlineExceeded)
	}
	if len(pub.payloads) == 0 {
		t.Errorf("Run() published nothing")
	}
}
