package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/rmcsoft/lottieview"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type options struct {
	Config      string  `short:"c" long:"config"       description:"YAML config file"`
	File        string  `short:"f" long:"file"         default:"demo" description:"Animation asset to play"`
	Width       int     `short:"w" long:"width"        default:"800" description:"Viewport width"`
	Height      int     `long:"height"       default:"480" description:"Viewport height"`
	Speed       float64 `short:"s" long:"speed"        default:"1.0" description:"Playback speed multiplier"`
	RepeatCount int     `short:"r" long:"repeat-count" default:"0" description:"Cycles to play, 0 means unlimited"`
	Reverse     bool    `long:"reverse"      description:"Ping-pong instead of restarting on each cycle"`
	NoLoop      bool    `long:"no-loop"      description:"Stop after the first cycle"`
	Sync        bool    `long:"sync"         description:"Render on the tick goroutine instead of a worker"`
	KMSDRM      bool    `long:"kmsdrm"       description:"Scan out through KMS/DRM instead of SDL"`
	Card        int     `long:"card"         default:"0" description:"DRM card number"`
	Verbose     bool    `short:"v" long:"verbose"      description:"Enable debug logging"`
}

type config struct {
	Playback struct {
		Speed       float64 `yaml:"speed"`
		RepeatCount int     `yaml:"repeatCount"`
		RepeatMode  string  `yaml:"repeatMode"`
		Loop        *bool   `yaml:"loop"`
	} `yaml:"playback"`
	Display struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"display"`
}

func parseCmd() options {
	var opts options
	var cmdParser = flags.NewParser(&opts, flags.Default)

	if _, err := cmdParser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		} else {
			os.Exit(1)
		}
	}
	return opts
}

func applyConfig(opts *options) {
	if opts.Config == "" {
		return
	}

	f, err := os.Open(opts.Config)
	if err != nil {
		log.Fatalf("Could not open config: %v", err)
	}
	defer f.Close()

	var cfg config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		log.Fatalf("Could not parse config: %v", err)
	}

	if cfg.Playback.Speed != 0 {
		opts.Speed = cfg.Playback.Speed
	}
	if cfg.Playback.RepeatCount != 0 {
		opts.RepeatCount = cfg.Playback.RepeatCount
	}
	if cfg.Playback.RepeatMode == "reverse" {
		opts.Reverse = true
	}
	if cfg.Playback.Loop != nil && !*cfg.Playback.Loop {
		opts.NoLoop = true
	}
	if cfg.Display.Width != 0 {
		opts.Width = cfg.Display.Width
	}
	if cfg.Display.Height != 0 {
		opts.Height = cfg.Display.Height
	}
}

func makeSurface(opts options) (lottieview.Surface, error) {
	if opts.KMSDRM {
		return lottieview.NewKMSDRMSurface(opts.Card, lottieview.RGB32)
	}
	return lottieview.NewSDLSurface(opts.Width, opts.Height)
}

func main() {
	opts := parseCmd()
	applyConfig(&opts)

	log.SetLevel(log.InfoLevel)
	if opts.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	surface, err := makeSurface(opts)
	if err != nil {
		log.Fatalf("Could not create surface: %v", err)
	}

	source := lottieview.NewDemoSource(opts.Width, opts.Height)
	view, err := lottieview.NewLottieView(source, surface, opts.Width, opts.Height, !opts.Sync)
	if err != nil {
		log.Fatalf("Could not create view: %v", err)
	}

	view.SetSpeed(opts.Speed)
	view.SetRepeatCount(opts.RepeatCount)
	view.Loop(!opts.NoLoop)
	if opts.Reverse {
		view.SetRepeatMode(lottieview.RepeatReverse)
	}

	if err := view.SetFilePath(opts.File); err != nil {
		log.Fatalf("Could not load '%s': %v", opts.File, err)
	}

	finished := make(chan struct{}, 1)
	view.SetOnFinished(func() {
		log.Info("Playback finished")
		select {
		case finished <- struct{}{}:
		default:
		}
	})

	animator, err := lottieview.NewAnimator(view, 0)
	if err != nil {
		log.Fatalf("Could not create animator: %v", err)
	}
	if err := animator.Start(); err != nil {
		log.Fatalf("Could not start animator: %v", err)
	}
	if err := view.Play(); err != nil {
		log.Fatalf("Could not start playback: %v", err)
	}
	log.Infof("Playing '%s' at %vx%v", opts.File, opts.Width, opts.Height)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	if opts.NoLoop || opts.RepeatCount > 0 {
		select {
		case <-finished:
		case <-signals:
		}
	} else {
		<-signals
	}

	animator.Stop()
	view.Close()
}
