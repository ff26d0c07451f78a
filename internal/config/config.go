// Package config reads the client's JSON configuration document: server
// address, player identity, display and input preferences. The server
// takes its settings from flags (see cmd/scathanna-server), not this file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scathanna-go/scathanna/internal/worldstate"
)

// Config is the on-disk shape of a client's settings file.
type Config struct {
	Server string `json:"server"`

	Avatar string `json:"avatar"`
	Name   string `json:"name"`
	Team   string `json:"team"`

	WindowWidth     uint32  `json:"window_width"`
	WindowHeight    uint32  `json:"window_height"`
	Fullscreen      bool    `json:"fullscreen"`
	WindowResizable bool    `json:"window_resizable"`
	Vsync           bool    `json:"vsync"`
	MaxFPS          float32 `json:"max_fps"`
	AlphaBlending   bool    `json:"alpha_blending"`
	MSAA            uint16  `json:"msaa"`

	MouseSensitivity float64 `json:"mouse_sensitivity"`

	// MovementKeys names four keys, forward/left/backward/right, e.g. "wasd".
	MovementKeys string `json:"movement_keys"`
}

// Load reads and parses a Config from path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &c, nil
}

// TeamPreference parses Team into a worldstate.Team, falling back to a
// random team when the field is empty (matching the config's optional,
// default-on-empty semantics for an unset preference).
func (c *Config) TeamPreference() worldstate.Team {
	if c.Team == "" {
		return worldstate.RandomTeam()
	}
	team, err := worldstate.ParseTeam(c.Team)
	if err != nil {
		return worldstate.RandomTeam()
	}
	return team
}

// MovementKey describes one of the four bindable movement keys, in the
// order MovementKeys is read: forward, left, backward, right.
type MovementKey int

const (
	MoveForward MovementKey = iota
	MoveLeft
	MoveBackward
	MoveRight

	numMovementKeys
)

// KeyRune returns the rune bound to the given movement key by
// MovementKeys. MovementKeys must name exactly numMovementKeys keys, in
// forward/left/backward/right order (e.g. "wasd").
func (c *Config) KeyRune(k MovementKey) (rune, error) {
	runes := []rune(c.MovementKeys)
	if len(runes) != int(numMovementKeys) {
		return 0, fmt.Errorf("config: movement_keys must name exactly %d keys, got %q", numMovementKeys, c.MovementKeys)
	}
	return runes[k], nil
}
