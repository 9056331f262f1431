package stream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledgif/anim"
)

// A Publisher delivers binary frames to the LED device.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

type mqttPublisher struct {
	client mqtt.Client
	qos    byte
}

// NewMqttPublisher publishes frames with the given MQTT client.
func NewMqttPublisher(client mqtt.Client, qos byte) Publisher {
	return &mqttPublisher{client: client, qos: qos}
}

func (p *mqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, false, payload)
	token.Wait()
	return token.Error()
}

// Snapshot describes the frame that is currently visible.
type Snapshot struct {
	Index int
	Count int
	Frame *anim.Frame
	Shown time.Time
}

// Streamer plays a Sequence and streams the visible frame to an LED device.
type Streamer struct {
	config    Config
	publisher Publisher
	player    *Player
	fader     *Fader

	ledFrames []*Frame
	lastIndex int
	published bool
	wasFading bool

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, publisher Publisher, seq *anim.Sequence) *Streamer {
	s := new(Streamer)
	s.config = config
	s.publisher = publisher
	s.player = NewPlayer(seq)
	s.fader = NewFader(config.Transition())
	s.ledFrames = make([]*Frame, seq.Len())
	s.snapshot = Snapshot{Count: seq.Len(), Frame: seq.Frame(0)}
	return s
}

func (s *Streamer) ledFrame(i int, f *anim.Frame) *Frame {
	if s.ledFrames[i] == nil {
		s.ledFrames[i] = NewFrame(f, s.config.Display)
	}
	return s.ledFrames[i]
}

// Step ticks the player at now and publishes the LED output if it changed.
// It reports whether a frame was published.
func (s *Streamer) Step(now time.Time) (bool, error) {
	frame := s.player.Tick(now)
	index := s.player.Index()

	s.mu.Lock()
	s.snapshot = Snapshot{Index: index, Count: s.player.Len(), Frame: frame, Shown: s.player.Shown()}
	s.mu.Unlock()

	changed := !s.published || index != s.lastIndex
	if changed {
		var prev *Frame
		if s.published {
			prev = s.fader.Frame(now)
		}
		s.fader.Start(prev, s.ledFrame(index, frame), now)
	}

	fading := s.fader.Fading(now)
	if !changed && !fading && !s.wasFading {
		return false, nil
	}
	s.wasFading = fading
	s.lastIndex = index
	s.published = true

	data, err := s.fader.Frame(now).MarshalBinary()
	if err != nil {
		return false, errors.Wrap(err, "marshalling frame")
	}
	if err := s.publisher.Publish(s.config.Mqtt.Topics.Stream, data); err != nil {
		return false, errors.Wrapf(err, "publishing frame %d", index)
	}
	return true, nil
}

// Snapshot returns the visible frame. It is safe to call from any goroutine.
func (s *Streamer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Run causes the Streamer to play frames until ctx is done.
func (s *Streamer) Run(ctx context.Context) error {
	publishTimer := time.NewTicker(s.config.TickInterval())
	defer publishTimer.Stop()

	s.step(time.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-publishTimer.C:
			s.step(now)
		}
	}
}

func (s *Streamer) step(now time.Time) {
	if _, err := s.Step(now); err != nil {
		log.Printf("Stream: %v", err)
	}
}
