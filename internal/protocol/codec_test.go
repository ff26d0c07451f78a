package protocol

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/physics"
	"github.com/scathanna-go/scathanna/internal/ui"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

func TestMagicRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMagic(&buf); err != nil {
		t.Fatalf("WriteMagic: %v", err)
	}
	if err := ReadMagic(&buf); err != nil {
		t.Fatalf("ReadMagic: %v", err)
	}
}

func TestReadMagicRejectsMismatch(t *testing.T) {
	var buf bytes.Buffer
	_ = writeU64(&buf, 0xdeadbeef)
	if err := ReadMagic(&buf); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestJoinMsgRoundTrips(t *testing.T) {
	j := JoinMsg{Name: "scathling", AvatarID: 3, Team: worldstate.TeamBlue}
	var buf bytes.Buffer
	if err := WriteJoin(&buf, j); err != nil {
		t.Fatalf("WriteJoin: %v", err)
	}
	got, err := ReadJoin(&buf)
	if err != nil {
		t.Fatalf("ReadJoin: %v", err)
	}
	if got != j {
		t.Errorf("ReadJoin() = %+v, want %+v", got, j)
	}
}

func TestClientMsgRoundTrips(t *testing.T) {
	cases := []ClientMsg{
		MovePlayerMsg(physics.Frame{
			Position:    mgl32.Vec3{1, 2, 3},
			Velocity:    mgl32.Vec3{0, -1, 0},
			Orientation: physics.Orientation{Yaw: 1.5, Pitch: -0.2},
		}),
		ReadyToSpawnMsg(),
		AddEffectMsg(worldstate.LaserBeamEffect(mgl32.Vec3{0, 0, 0}, physics.Orientation{Yaw: 0.3}, 10)),
		PlaySoundMsg(worldstate.SpatialSound("shot.wav", mgl32.Vec3{5, 5, 5}, 0.8)),
		HitPlayerMsg(worldstate.PlayerID(42)),
		CommandMsg("/say hi"),
	}
	for _, want := range cases {
		var buf bytes.Buffer
		if err := WriteClientMsg(&buf, want); err != nil {
			t.Fatalf("WriteClientMsg(%v): %v", want.Kind, err)
		}
		got, err := ReadClientMsg(&buf)
		if err != nil {
			t.Fatalf("ReadClientMsg(%v): %v", want.Kind, err)
		}
		if got.Kind != want.Kind {
			t.Errorf("Kind = %v, want %v", got.Kind, want.Kind)
		}
	}
}

func TestServerMsgSwitchMapRoundTrips(t *testing.T) {
	players := []*worldstate.Player{
		worldstate.NewPlayer(1, mgl32.Vec3{0, 0, 0}, physics.Orientation{}, "alice", 0, worldstate.TeamRed),
		worldstate.NewPlayer(2, mgl32.Vec3{5, 0, 5}, physics.Orientation{}, "bob", 1, worldstate.TeamBlue),
	}
	kind := worldstate.CowboyHat
	entities := []*worldstate.Entity{
		worldstate.NewEntity(mgl32.Vec3{1, 1, 1}, worldstate.GiftBox),
		worldstate.NewEntity(mgl32.Vec3{2, 2, 2}, kind),
	}
	want := SwitchMapMsg("arena1", players, entities, 1)

	var buf bytes.Buffer
	if err := WriteServerMsg(&buf, want); err != nil {
		t.Fatalf("WriteServerMsg: %v", err)
	}
	got, err := ReadServerMsg(&buf)
	if err != nil {
		t.Fatalf("ReadServerMsg: %v", err)
	}
	if got.MapName != want.MapName || got.SelfID != want.SelfID {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.Players) != len(want.Players) || len(got.Entities) != len(want.Entities) {
		t.Fatalf("player/entity count mismatch: got %d/%d, want %d/%d",
			len(got.Players), len(got.Entities), len(want.Players), len(want.Entities))
	}
	for i := range want.Players {
		if got.Players[i].ID != want.Players[i].ID || got.Players[i].Name != want.Players[i].Name {
			t.Errorf("player[%d] = %+v, want %+v", i, got.Players[i], want.Players[i])
		}
	}
}

func TestServerMsgUpdatePlayerPreservesOptionalFields(t *testing.T) {
	p := worldstate.NewPlayer(7, mgl32.Vec3{1, 2, 3}, physics.Orientation{Yaw: 0.5}, "carol", 2, worldstate.TeamGreen)
	powerup := worldstate.BerserkerHelmet
	p.Powerup = &powerup
	ttl := float32(3.5)
	p.InvulnerabilityTTL = &ttl

	var buf bytes.Buffer
	if err := WriteServerMsg(&buf, UpdatePlayerMsg(p)); err != nil {
		t.Fatalf("WriteServerMsg: %v", err)
	}
	got, err := ReadServerMsg(&buf)
	if err != nil {
		t.Fatalf("ReadServerMsg: %v", err)
	}
	if got.Player.Powerup == nil || *got.Player.Powerup != powerup {
		t.Errorf("Powerup = %v, want %v", got.Player.Powerup, powerup)
	}
	if got.Player.InvulnerabilityTTL == nil || *got.Player.InvulnerabilityTTL != ttl {
		t.Errorf("InvulnerabilityTTL = %v, want %v", got.Player.InvulnerabilityTTL, ttl)
	}
}

func TestServerMsgRemoveEntityRoundTrips(t *testing.T) {
	want := RemoveEntityMsg(worldstate.EID(99))
	var buf bytes.Buffer
	if err := WriteServerMsg(&buf, want); err != nil {
		t.Fatalf("WriteServerMsg: %v", err)
	}
	got, err := ReadServerMsg(&buf)
	if err != nil {
		t.Fatalf("ReadServerMsg: %v", err)
	}
	if got.EntityID != want.EntityID {
		t.Errorf("EntityID = %v, want %v", got.EntityID, want.EntityID)
	}
}

func TestUpdateHUDMsgAddressesOnlyOnePlayer(t *testing.T) {
	env := UpdateHUDMsg(worldstate.PlayerID(5), ui.HUDUpdate{Kind: ui.HUDMessage, Text: "hi"})
	if env.To.Kind != AddrJust || env.To.ID != 5 {
		t.Errorf("To = %+v, want AddrJust(5)", env.To)
	}
}
