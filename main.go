package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/ledgif/anim"
	"github.com/matt-g-everett/ledgif/api"
	"github.com/matt-g-everett/ledgif/stream"
)

type app struct {
	Config   stream.Config
	Client   mqtt.Client
	Streamer *stream.Streamer
	Api      *api.Api
}

func newApp(config stream.Config) *app {
	a := new(app)
	a.Config = config
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
}

func (a *app) handleConnectionLost(client mqtt.Client, err error) {
	log.Printf("Connection lost: %v", err)
}

func (a *app) load() {
	start := time.Now()
	seq, err := anim.Open(a.Config.Gif)
	if err != nil {
		log.Fatalf("Loading %s: %v", a.Config.Gif, err)
	}
	log.Printf("Loaded %s: %d frames of %dx%d in %v", a.Config.Gif, seq.Len(), seq.Width(), seq.Height(), time.Since(start))

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect).
		SetConnectionLostHandler(a.handleConnectionLost)
	a.Client = mqtt.NewClient(options)

	publisher := stream.NewMqttPublisher(a.Client, a.Config.Mqtt.Qos)
	a.Streamer = stream.NewStreamer(a.Config, publisher, seq)
	a.Api = api.NewApi(a.Streamer, seq, a.Config.Http.Static)
}

func (a *app) run(ctx context.Context) {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("Connecting to %s: %v", a.Config.Mqtt.URL, token.Error())
	}
	defer a.Client.Disconnect(250)

	go func() {
		if err := a.Api.Serve(ctx, a.Config.Http.Addr); err != nil {
			log.Printf("Http: %v", err)
		}
	}()

	a.Streamer.Run(ctx)
	log.Println("Stopped")
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	gifPath := flag.String("gif", "", "GIF to play, overrides the config.")
	flag.Parse()

	// Read the config
	config, err := stream.ReadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *gifPath != "" {
		config.Gif = *gifPath
	}
	if config.Gif == "" {
		log.Fatal("No GIF given, set gif in the config or pass -gif")
	}
	log.Printf("Config: broker=%s topic=%s display=%+v playback=%+v", config.Mqtt.URL, config.Mqtt.Topics.Stream, config.Display, config.Playback)

	a := newApp(config)
	a.load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.run(ctx)
}
