package worldstate

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Team identifies which of the three team-match sides a player belongs to.
// Unused in deathmatch but always present on the wire.
type Team uint8

const (
	TeamRed Team = iota
	TeamBlue
	TeamGreen
)

const NumTeams = 3

// RandomTeam picks one of the three teams uniformly.
func RandomTeam() Team {
	return Team(rand.Intn(NumTeams))
}

// ColorFilter is multiplied into an avatar's base color to tint it towards
// the team's hue.
func (t Team) ColorFilter() mgl32.Vec3 {
	switch t {
	case TeamRed:
		return mgl32.Vec3{1.0, 0.5, 0.5}
	case TeamBlue:
		return mgl32.Vec3{0.5, 0.5, 1.0}
	case TeamGreen:
		return mgl32.Vec3{0.5, 1.0, 0.3}
	default:
		return mgl32.Vec3{1, 1, 1}
	}
}

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "Red"
	case TeamBlue:
		return "Blue"
	case TeamGreen:
		return "Green"
	default:
		return "Unknown"
	}
}

// ParseTeam accepts the config/command-line spellings of each team name.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "red":
		return TeamRed, nil
	case "blu", "blue":
		return TeamBlue, nil
	case "green":
		return TeamGreen, nil
	default:
		return 0, fmt.Errorf("unknown team %q, options: `red`, `blue`, `green`", s)
	}
}
