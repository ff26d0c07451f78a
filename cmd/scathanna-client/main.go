// Command scathanna-client connects to a server and runs the client-side
// prediction loop. This binary is deliberately headless: no window, input
// device, or audio backend is opened here — wiring those up is the
// renderer's job, reached only through the client package's InputState and
// Sink interfaces (see spec.md §1's external-collaborator list).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/scathanna-go/scathanna/internal/client"
	"github.com/scathanna-go/scathanna/internal/config"
)

// maxTickDuration bounds one frame's dt so a stall (GC pause, debugger
// breakpoint, laptop lid closed) never integrates physics across a huge
// time jump once execution resumes.
const maxTickDuration = 100 * time.Millisecond

// logSink reports sounds as log lines; a real build wires a device-backed
// Sink instead (see client.Sink).
type logSink struct{}

func (logSink) Play(s client.Sound) {
	log.Printf("client: play %q azimuth=%.2f volume=%.2f", s.ClipName, s.Azimuth, s.Volume)
}

func main() {
	configPath := flag.String("config", "config.json", "path to the client's JSON config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("scathanna-client: %w", err)
	}

	nc, err := client.Connect(client.Options{
		Addr:       cfg.Server,
		AssetsRoot: ".",
		Name:       cfg.Name,
		Team:       cfg.TeamPreference(),
		Sink:       logSink{},
	})
	if err != nil {
		return fmt.Errorf("scathanna-client: %w", err)
	}

	fps := cfg.MaxFPS
	if fps <= 0 {
		fps = 60
	}
	frameInterval := time.Duration(float64(time.Second) / float64(fps))

	var in client.InputState
	last := time.Now()
	for {
		now := time.Now()
		dt := now.Sub(last)
		if dt > maxTickDuration {
			dt = maxTickDuration
		}
		last = now

		nc.Tick(&in, float32(dt.Seconds()))
		in.Clear()
		if nc.Err != nil {
			return fmt.Errorf("scathanna-client: %w", nc.Err)
		}

		time.Sleep(frameInterval)
	}
}
