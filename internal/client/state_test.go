package client

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/mapfile"
	"github.com/scathanna-go/scathanna/internal/physics"
	"github.com/scathanna-go/scathanna/internal/protocol"
	"github.com/scathanna-go/scathanna/internal/ui"
	"github.com/scathanna-go/scathanna/internal/voxel"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

func newTestWorld() *worldstate.World {
	vx := voxel.NewVoxels()
	return worldstate.NewWorld(&mapfile.Map{Name: "test", Voxels: vx})
}

func newTestState() *ClientState {
	w := newTestWorld()
	p := worldstate.NewPlayer(1, mgl32.Vec3{}, physics.Orientation{}, "me", 0, worldstate.TeamRed)
	p.Spawned = true
	w.Players[1] = p
	return NewClientState(1, w, nil)
}

func TestApplyServerMsgAddPlayerInsertsPlayer(t *testing.T) {
	c := newTestState()
	other := worldstate.NewPlayer(2, mgl32.Vec3{}, physics.Orientation{}, "other", 0, worldstate.TeamBlue)

	c.ApplyServerMsg(protocol.ServerMsg{Kind: protocol.SAddPlayer, Player: other})

	if _, ok := c.World().Players[2]; !ok {
		t.Error("expected AddPlayer to insert the new player")
	}
}

func TestApplyServerMsgDropPlayerRemovesPlayer(t *testing.T) {
	c := newTestState()
	c.World().Players[2] = worldstate.NewPlayer(2, mgl32.Vec3{}, physics.Orientation{}, "other", 0, worldstate.TeamBlue)

	c.ApplyServerMsg(protocol.ServerMsg{Kind: protocol.SDropPlayer, PlayerID: 2})

	if _, ok := c.World().Players[2]; ok {
		t.Error("expected DropPlayer to remove the player")
	}
}

func TestApplyServerMsgUpdatePlayerPreservesLocalFrame(t *testing.T) {
	c := newTestState()
	p := c.LocalPlayer()
	p.Skeleton.Position = mgl32.Vec3{1, 2, 3}
	p.Local.GunCooldown = 0.42

	incoming := worldstate.NewPlayer(1, mgl32.Vec3{}, physics.Orientation{}, "me", 0, worldstate.TeamRed)
	incoming.Health = 50
	c.ApplyServerMsg(protocol.ServerMsg{Kind: protocol.SUpdatePlayer, Player: incoming})

	got := c.LocalPlayer()
	if got.Health != 50 {
		t.Errorf("Health = %v, want 50 (server-owned field should update)", got.Health)
	}
	if got.Skeleton.Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Skeleton.Position = %v, want preserved local frame", got.Skeleton.Position)
	}
	if got.Local.GunCooldown != 0.42 {
		t.Errorf("Local.GunCooldown = %v, want preserved local state", got.Local.GunCooldown)
	}
}

func TestApplyServerMsgSwitchMapIsNoOp(t *testing.T) {
	c := newTestState()
	before := len(c.World().Players)

	c.ApplyServerMsg(protocol.ServerMsg{Kind: protocol.SSwitchMap})

	if len(c.World().Players) != before {
		t.Error("expected SwitchMap to be a no-op on ClientState (handled by the net layer instead)")
	}
}

func TestApplyServerMsgUpdateHUDSetsScoreLine(t *testing.T) {
	c := newTestState()
	c.ApplyServerMsg(protocol.ServerMsg{Kind: protocol.SUpdateHUD, HUD: ui.HUDUpdate{Kind: ui.HUDScore, Text: "1-0"}})

	if got := c.HUD().TopLeft; got != "1-0" {
		t.Errorf("HUD().TopLeft = %q, want %q", got, "1-0")
	}
}

func TestTickLocallyAppliesAddEffect(t *testing.T) {
	c := newTestState()
	before := len(c.World().Effects)

	c.applySelfMsgs([]protocol.ClientMsg{
		protocol.AddEffectMsg(worldstate.ParticleExplosionEffect(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})),
	})

	if len(c.World().Effects) != before+1 {
		t.Error("expected a locally-produced AddEffect message to apply immediately")
	}
}

func TestTickDoesNotLocallyApplyHitPlayer(t *testing.T) {
	c := newTestState()
	c.World().Players[2] = worldstate.NewPlayer(2, mgl32.Vec3{}, physics.Orientation{}, "victim", 0, worldstate.TeamBlue)

	c.applySelfMsgs([]protocol.ClientMsg{protocol.HitPlayerMsg(2)})

	if c.World().Players[2].Health != 100 {
		t.Error("expected HitPlayer to require server round-trip, not apply locally")
	}
}

func TestExtrapolateOthersAdvancesByVelocityNotLocalPlayer(t *testing.T) {
	c := newTestState()
	other := worldstate.NewPlayer(2, mgl32.Vec3{0, 0, 0}, physics.Orientation{}, "other", 0, worldstate.TeamBlue)
	other.Skeleton.Velocity = mgl32.Vec3{1, 0, 0}
	c.World().Players[2] = other

	local := c.LocalPlayer()
	local.Skeleton.Velocity = mgl32.Vec3{1, 0, 0}
	localStart := local.Skeleton.Position

	c.extrapolateOthers(1.0)

	if c.World().Players[2].Skeleton.Position != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("expected other player to extrapolate by velocity*dt, got %v", c.World().Players[2].Skeleton.Position)
	}
	if local.Skeleton.Position != localStart {
		t.Error("expected the local player to be excluded from extrapolation")
	}
}

func TestTickEffectsExpiresAndEvicts(t *testing.T) {
	c := newTestState()
	c.World().Effects = []worldstate.Effect{
		{TTL: 0.05},
		{TTL: 5.0},
	}

	c.tickEffects(0.1)

	if len(c.World().Effects) != 1 {
		t.Fatalf("len(Effects) = %v, want 1 after the short-lived effect expired", len(c.World().Effects))
	}
	if c.World().Effects[0].TTL <= 4.0 {
		t.Errorf("expected the surviving effect to still have most of its TTL, got %v", c.World().Effects[0].TTL)
	}
}
