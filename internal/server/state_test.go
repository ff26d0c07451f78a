package server

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scathanna-go/scathanna/internal/mapfile"
	"github.com/scathanna-go/scathanna/internal/physics"
	"github.com/scathanna-go/scathanna/internal/protocol"
	"github.com/scathanna-go/scathanna/internal/voxel"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

func testMap(name string) *mapfile.Map {
	vx := voxel.NewVoxels()
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{-8, -1, -8}, voxel.IVec3{8, 0, 8}), voxel.Voxel(1))
	return &mapfile.Map{
		Name:   name,
		Voxels: vx,
		Metadata: mapfile.Metadata{
			SpawnPoints: []mapfile.SpawnPoint{
				{Pos: voxel.IVec3{0, 1, 0}},
				{Pos: voxel.IVec3{4, 1, 4}},
			},
			PickupPoints: []mapfile.PickupPoint{
				{Pos: voxel.IVec3{2, 1, 2}},
			},
		},
	}
}

func newTestState() *ServerState {
	return &ServerState{
		nextPlayerID: 1,
		rng:          rand.New(rand.NewSource(1)),
		assetsRoot:   "",
		maplist:      []string{"test_map"},
		currMap:      0,
		world:        worldstate.NewWorld(testMap("test_map")),
		gameType:     worldstate.DeathMatch{},
		score:        make(map[worldstate.PlayerID]int32),
	}
}

func joinPlayer(t *testing.T, s *ServerState, name string) worldstate.PlayerID {
	t.Helper()
	id, _ := s.JoinNewPlayer(protocol.JoinMsg{Name: name, AvatarID: 1, Team: worldstate.TeamRed})
	return id
}

func TestJoinNewPlayerInsertsPlayerAndZerosScore(t *testing.T) {
	s := newTestState()
	id := joinPlayer(t, s, "alice")

	if _, ok := s.world.Players[id]; !ok {
		t.Fatalf("player %d not inserted", id)
	}
	if s.Score(id) != 0 {
		t.Errorf("Score() = %d, want 0", s.Score(id))
	}
}

func TestDropPlayerRemovesPlayerAndScore(t *testing.T) {
	s := newTestState()
	id := joinPlayer(t, s, "alice")

	resp := s.DropPlayer(id)
	if _, ok := s.world.Players[id]; ok {
		t.Errorf("player %d still present after drop", id)
	}
	if len(resp) != 1 || resp[0].Msg.Kind != protocol.SDropPlayer {
		t.Errorf("DropPlayer envelopes = %+v, want one SDropPlayer", resp)
	}

	// Dropping an already-gone player is a no-op, not a panic.
	if got := s.DropPlayer(id); got != nil {
		t.Errorf("DropPlayer on unknown id = %+v, want nil", got)
	}
}

func TestHandleHitPlayerIncrementsScoreAndRequestsRespawn(t *testing.T) {
	s := newTestState()
	aggressor := joinPlayer(t, s, "aggressor")
	victim := joinPlayer(t, s, "victim")
	s.player(victim).Spawned = true

	resp := s.HandleClientMsg(aggressor, protocol.HitPlayerMsg(victim))

	if s.Score(aggressor) != 1 {
		t.Errorf("aggressor score = %d, want 1", s.Score(aggressor))
	}
	if s.Score(victim) != 0 {
		t.Errorf("victim score = %d, want 0", s.Score(victim))
	}
	if s.player(victim).Spawned {
		t.Error("victim still spawned after a successful hit")
	}

	var sawRespawn bool
	for _, env := range resp {
		if env.Msg.Kind == protocol.SRequestRespawn && env.To.Kind == protocol.AddrJust && env.To.ID == victim {
			sawRespawn = true
		}
	}
	if !sawRespawn {
		t.Error("expected a RequestRespawn envelope addressed to the victim")
	}
}

func TestHandleHitPlayerIgnoresUnspawnedVictim(t *testing.T) {
	s := newTestState()
	aggressor := joinPlayer(t, s, "aggressor")
	victim := joinPlayer(t, s, "victim") // not yet spawned

	s.HandleClientMsg(aggressor, protocol.HitPlayerMsg(victim))

	if s.Score(aggressor) != 0 {
		t.Errorf("score changed for a hit on an unspawned victim: %d", s.Score(aggressor))
	}
}

func TestInvulnerablePlayerSurvivesHitWithNoScoreChange(t *testing.T) {
	s := newTestState()
	aggressor := joinPlayer(t, s, "aggressor")
	victim := joinPlayer(t, s, "victim")
	v := s.player(victim)
	v.Spawned = true
	ttl := float32(1.5)
	v.InvulnerabilityTTL = &ttl

	resp := s.HandleClientMsg(aggressor, protocol.HitPlayerMsg(victim))

	if s.Score(aggressor) != 0 {
		t.Errorf("score changed on an invulnerable hit: %d", s.Score(aggressor))
	}
	if !s.player(victim).Spawned {
		t.Error("invulnerable victim was killed")
	}
	var sawRicochet bool
	for _, env := range resp {
		if env.Msg.Kind == protocol.SAddEffect {
			sawRicochet = true
		}
	}
	if !sawRicochet {
		t.Error("expected a ricochet effect broadcast for an invulnerable hit")
	}
}

func TestPartyHatSavesOnceThenGrantsInvulnerability(t *testing.T) {
	s := newTestState()
	aggressor := joinPlayer(t, s, "aggressor")
	victim := joinPlayer(t, s, "victim")
	v := s.player(victim)
	v.Spawned = true
	hat := worldstate.PartyHat
	v.Powerup = &hat

	s.HandleClientMsg(aggressor, protocol.HitPlayerMsg(victim))

	if v.Powerup != nil {
		t.Error("party hat was not consumed on save")
	}
	if v.InvulnerabilityTTL == nil {
		t.Fatal("party hat save did not grant invulnerability")
	}
	if !v.Spawned {
		t.Error("victim died despite party hat save")
	}

	// A second hit, now that the hat is gone and invulnerability has been
	// granted, still doesn't kill: invulnerability is itself protective.
	s.HandleClientMsg(aggressor, protocol.HitPlayerMsg(victim))
	if !v.Spawned {
		t.Error("victim died while still invulnerable from the party hat save")
	}
}

func TestTeamMatchSameTeamHitIsRicochetOnly(t *testing.T) {
	s := newTestState()
	s.gameType = &worldstate.TeamMatch{}
	aggressor := joinPlayer(t, s, "aggressor")
	victim := joinPlayer(t, s, "victim")
	s.player(aggressor).Team = worldstate.TeamRed
	s.player(victim).Team = worldstate.TeamRed
	s.player(victim).Spawned = true

	s.HandleClientMsg(aggressor, protocol.HitPlayerMsg(victim))

	if s.Score(aggressor) != 0 {
		t.Errorf("score changed on a same-team hit: %d", s.Score(aggressor))
	}
	if !s.player(victim).Spawned {
		t.Error("same-team victim was killed")
	}
}

func TestHandleMovePlayerKillsOnLava(t *testing.T) {
	s := newTestState()
	id := joinPlayer(t, s, "alice")
	s.player(id).Spawned = true
	s.world.Map.Voxels.SetRange(voxel.NewCuboid(voxel.IVec3{-2, -2, -2}, voxel.IVec3{2, 0, 2}), voxel.Lava)

	frame := physics.Frame{Position: mgl32.Vec3{0, 0, 0}, Orientation: physics.Orientation{}}
	s.HandleClientMsg(id, protocol.MovePlayerMsg(frame))

	if s.player(id).Spawned {
		t.Error("player standing in lava was not killed")
	}
}

func TestHandleMovePlayerKillsOffWorld(t *testing.T) {
	s := newTestState()
	id := joinPlayer(t, s, "alice")
	s.player(id).Spawned = true

	frame := physics.Frame{Position: mgl32.Vec3{0, -2000, 0}}
	s.HandleClientMsg(id, protocol.MovePlayerMsg(frame))

	if s.player(id).Spawned {
		t.Error("player who fell off the world was not killed")
	}
}

func TestHandleClientMsgIgnoresUnknownPlayer(t *testing.T) {
	s := newTestState()
	if resp := s.HandleClientMsg(999, protocol.ReadyToSpawnMsg()); resp != nil {
		t.Errorf("HandleClientMsg for unknown player = %+v, want nil", resp)
	}
}

func TestHandleCommandFailedSwitchMapKeepsScore(t *testing.T) {
	s := newTestState()
	id := joinPlayer(t, s, "alice")
	s.score[id] = 5

	// switching to a map that is not on disk exercises the failure path
	// without needing a second on-disk map; loadMap will fail, which the
	// handler logs and otherwise no-ops, so assert the no-map-found case
	// leaves state untouched rather than asserting a successful switch.
	s.HandleClientMsg(id, protocol.CommandMsg("switch nonexistent_map"))

	if s.Score(id) != 5 {
		t.Errorf("score changed after a failed map switch: %d", s.Score(id))
	}
}

func TestHandleCommandSummonInsertsEntityInFrontOfPlayer(t *testing.T) {
	s := newTestState()
	id := joinPlayer(t, s, "alice")

	before := len(s.world.Entities)
	s.HandleClientMsg(id, protocol.CommandMsg("summon cowboy_hat"))

	if len(s.world.Entities) != before+1 {
		t.Fatalf("entities = %d, want %d", len(s.world.Entities), before+1)
	}
}

func TestHandleCommandUnknownReportsErrorToSender(t *testing.T) {
	s := newTestState()
	id := joinPlayer(t, s, "alice")

	resp := s.HandleClientMsg(id, protocol.CommandMsg("nonsense"))

	var sawError bool
	for _, env := range resp {
		if env.Msg.Kind == protocol.SUpdateHUD && env.To.Kind == protocol.AddrJust && env.To.ID == id {
			sawError = true
		}
	}
	if !sawError {
		t.Error("expected an error HUD update addressed only to the sender")
	}
}

func TestPlayerPanicsOnUnknownID(t *testing.T) {
	s := newTestState()
	require.PanicsWithValue(t, "server: BUG: player id not found", func() {
		s.player(999)
	})
}

func TestJoinMultiplePlayersEndToEndFlow(t *testing.T) {
	s := newTestState()
	alice := joinPlayer(t, s, "alice")
	bob := joinPlayer(t, s, "bob")

	assert.Contains(t, s.world.Players, alice, "alice should be in the world after joining")
	assert.Contains(t, s.world.Players, bob, "bob should be in the world after joining")
	assert.NotEqual(t, alice, bob, "distinct joins must get distinct player IDs")

	s.player(bob).Spawned = true
	s.HandleClientMsg(alice, protocol.HitPlayerMsg(bob))
	assert.EqualValues(t, 1, s.Score(alice), "aggressor should score a point for a spawned hit")
	assert.False(t, s.player(bob).Spawned, "victim should die from the hit")

	s.DropPlayer(bob)
	assert.NotContains(t, s.world.Players, bob, "dropped player should be removed from the world")
	require.PanicsWithValue(t, "server: BUG: player id not found", func() {
		s.player(bob)
	})
}

func TestTickAgesInvulnerabilityToZero(t *testing.T) {
	s := newTestState()
	id := joinPlayer(t, s, "alice")
	ttl := float32(0.05)
	s.player(id).InvulnerabilityTTL = &ttl

	s.Tick(TickDt)

	if s.player(id).InvulnerabilityTTL != nil {
		t.Error("invulnerability did not expire after ticking past its TTL")
	}
}
