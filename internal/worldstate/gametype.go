package worldstate

import "fmt"

// GameType distinguishes free-for-all deathmatch from team-scored matches.
type GameType interface {
	IsTeam() bool
}

type DeathMatch struct{}

func (DeathMatch) IsTeam() bool { return false }

// TeamMatch tracks a running score per team.
type TeamMatch struct {
	TeamScore [NumTeams]int32
}

func (*TeamMatch) IsTeam() bool { return true }

func ParseGameType(s string) (GameType, error) {
	switch s {
	case "dm", "deathmatch":
		return DeathMatch{}, nil
	case "tm", "team", "teammatch":
		return &TeamMatch{}, nil
	default:
		return nil, fmt.Errorf("unknown game type %q, options: `deathmatch`, `teammatch`", s)
	}
}
