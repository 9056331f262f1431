package stream

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is the YAML configuration of ledgif.
type Config struct {
	Gif  string `yaml:"gif"`
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		Qos      byte   `yaml:"qos"`
		Topics   struct {
			Stream string `yaml:"stream"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Display  DisplayConfig `yaml:"display"`
	Playback struct {
		TickRate     float64 `yaml:"tickRate"`
		TransitionMs int     `yaml:"transitionMs"`
	} `yaml:"playback"`
	Http struct {
		Addr   string `yaml:"addr"`
		Static string `yaml:"static"`
	} `yaml:"http"`
}

// DisplayConfig describes the LED panel frames are streamed to. A zero
// Width or Height means the GIF's own canvas size.
type DisplayConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Order      string  `yaml:"order"`
	Brightness float64 `yaml:"brightness"`
}

const (
	defaultClientID = "ledgif"
	defaultTopic    = "home/ledgif/stream"
	defaultTickRate = 60.0
	defaultAddr     = ":3000"
	defaultStatic   = "client/dist"
)

// ReadConfig decodes the YAML file at path.
func ReadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "opening config")
	}
	defer f.Close()

	return DecodeConfig(f)
}

// DecodeConfig decodes YAML configuration from r and fills in defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	var c Config
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	c = c.withDefaults()

	if _, ok := channelOrders[c.Display.Order]; !ok {
		return Config{}, errors.Errorf("unknown display order %q", c.Display.Order)
	}
	if c.Display.Width < 0 || c.Display.Height < 0 {
		return Config{}, errors.Errorf("invalid display size %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Mqtt.Qos > 2 {
		return Config{}, errors.Errorf("invalid mqtt qos %d", c.Mqtt.Qos)
	}
	return c, nil
}

func (c Config) withDefaults() Config {
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = defaultClientID
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = defaultTopic
	}
	if c.Display.Order == "" {
		c.Display.Order = OrderRGB
	}
	if c.Display.Brightness <= 0 {
		c.Display.Brightness = 1.0
	}
	if c.Playback.TickRate <= 0 {
		c.Playback.TickRate = defaultTickRate
	}
	if c.Http.Addr == "" {
		c.Http.Addr = defaultAddr
	}
	if c.Http.Static == "" {
		c.Http.Static = defaultStatic
	}
	return c
}

// TickInterval is the period of the playback ticker.
func (c Config) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.Playback.TickRate)
}

// Transition is how long the LED output fades between frames.
func (c Config) Transition() time.Duration {
	return time.Duration(c.Playback.TransitionMs) * time.Millisecond
}
