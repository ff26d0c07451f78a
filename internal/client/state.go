// Package client implements the client-side authority split: a local
// replica of the World that applies server messages verbatim except for
// the handful predicted locally, plus the input-driven control loop, HUD
// tick, and spatial audio handoff. Rendering and raw input capture are
// someone else's problem, reached only through the Sink interface (audio)
// and the caller-supplied InputState (keys/mouse) — this package never
// opens a window or a device.
package client

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/mapfile"
	"github.com/scathanna-go/scathanna/internal/protocol"
	"github.com/scathanna-go/scathanna/internal/ui"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

// ClientState owns a client's local copy of the World and the methods
// allowed to mutate it without round-tripping to the server. Mutations the
// server alone may make come in only through ApplyServerMsg.
type ClientState struct {
	playerID worldstate.PlayerID
	world    *worldstate.World
	hud      ui.HUD
	sink     Sink
}

// NewClientState builds a ClientState for a just-joined player. sink may be
// nil (sounds are then silently dropped), which is convenient for tests and
// for a dedicated map-editor or bot client that never plays audio.
func NewClientState(playerID worldstate.PlayerID, world *worldstate.World, sink Sink) *ClientState {
	return &ClientState{playerID: playerID, world: world, sink: sink}
}

func (c *ClientState) World() *worldstate.World       { return c.world }
func (c *ClientState) PlayerID() worldstate.PlayerID  { return c.playerID }
func (c *ClientState) HUD() *ui.HUD                   { return &c.hud }
func (c *ClientState) LocalPlayer() *worldstate.Player { return c.world.Players[c.playerID] }

// ApplyServerMsg applies a diff sent by the server. SwitchMap is not a
// valid input here: it replaces the whole World and playerID, which is
// the net layer's job, not this one's (mirroring the original split
// between per-map state and the connection that owns it).
func (c *ClientState) ApplyServerMsg(msg protocol.ServerMsg) {
	switch msg.Kind {
	case protocol.SAddPlayer:
		c.world.Players[msg.Player.ID] = msg.Player
	case protocol.SMovePlayer:
		if p, ok := c.world.Players[msg.PlayerID]; ok {
			p.Skeleton.SetFrame(msg.Frame)
		} else {
			log.Printf("client: move player: unknown player %d", msg.PlayerID)
		}
	case protocol.SUpdatePlayer:
		c.handleUpdatePlayer(msg.Player)
	case protocol.SForceMovePlayer:
		if p := c.LocalPlayer(); p != nil {
			p.Skeleton.Position = msg.Position
		}
	case protocol.SUpdateEntity:
		c.world.Entities[msg.Entity.ID] = msg.Entity
	case protocol.SRemoveEntity:
		delete(c.world.Entities, msg.EntityID)
	case protocol.SDropPlayer:
		delete(c.world.Players, msg.PlayerID)
	case protocol.SAddEffect:
		c.world.Effects = append(c.world.Effects, msg.Effect)
	case protocol.SPlaySound:
		c.playSound(msg.Sound)
	case protocol.SRequestRespawn:
		c.handleRequestRespawn(msg.SpawnPoint)
	case protocol.SUpdateHUD:
		c.hud.Apply(msg.HUD)
	case protocol.SSwitchMap:
		log.Print("client: BUG: SwitchMap must be handled by the net layer, not ClientState")
	}
}

// handleUpdatePlayer replaces everything the server owns about a player
// while preserving the locally-owned frame and Local state, so an
// UpdatePlayer broadcast (e.g. after a hit) never undoes this tick's own
// unacknowledged movement.
func (c *ClientState) handleUpdatePlayer(incoming *worldstate.Player) {
	old, ok := c.world.Players[incoming.ID]
	if !ok {
		return
	}
	frame := old.Skeleton.Frame()
	local := old.Local
	updated := *incoming
	updated.Skeleton.SetFrame(frame)
	updated.Local = local
	c.world.Players[incoming.ID] = &updated
}

// handleRequestRespawn records where the local player will appear once they
// click to spawn, and clears the velocity/pitch left over from their death
// so they don't appear to stumble out of the ground looking sideways.
func (c *ClientState) handleRequestRespawn(sp mapfile.SpawnPoint) {
	p := c.LocalPlayer()
	if p == nil {
		return
	}
	p.NextSpawnPoint = spawnPosition(sp)
	p.Skeleton.Velocity = mgl32.Vec3{}
	p.Skeleton.Orientation.Pitch = 0
}

func spawnPosition(sp mapfile.SpawnPoint) mgl32.Vec3 {
	return mgl32.Vec3{float32(sp.Pos.X) + 0.5, float32(sp.Pos.Y), float32(sp.Pos.Z) + 0.5}
}

// __________________________________________________________ local control

// Tick advances local prediction by dt: controls the local player from
// input, extrapolates remote players by their last known velocity, steps
// feet animation, ages effects and the HUD, and returns every message this
// tick produced (both the ones already applied locally and the ones that
// must wait on the server).
func (c *ClientState) Tick(in *InputState, dt float32) []protocol.ClientMsg {
	msgs := c.controlPlayer(in, dt)
	c.extrapolateOthers(dt)
	c.animatePlayers(dt)
	c.tickEffects(dt)
	c.hud.Tick(dt)
	return msgs
}

func (c *ClientState) controlPlayer(in *InputState, dt float32) []protocol.ClientMsg {
	p := c.LocalPlayer()
	if p == nil {
		return nil
	}
	msgs := controlPlayer(p, in, c.world, dt)
	c.applySelfMsgs(msgs)
	return msgs
}

// applySelfMsgs applies the subset of this tick's own messages that must
// not wait for a server round-trip: the local player's own movement
// (already mutated in place by controlPlayer), visual effects and sounds,
// which never interact with authoritative state. Everything else — hits,
// ready-to-spawn, commands — is authoritative only once the server echoes
// it back.
func (c *ClientState) applySelfMsgs(msgs []protocol.ClientMsg) {
	for _, msg := range msgs {
		switch msg.Kind {
		case protocol.CAddEffect:
			c.world.Effects = append(c.world.Effects, msg.Effect)
		case protocol.CPlaySound:
			c.playSound(msg.Sound)
		}
	}
}

// playSound locates a sound relative to the local player and hands it to
// the audio sink, if any. A player who hasn't joined the world yet (or
// whose entry was already dropped) simply can't hear anything.
func (c *ClientState) playSound(s worldstate.SoundEffect) {
	if c.sink == nil {
		return
	}
	p := c.LocalPlayer()
	if p == nil {
		return
	}
	c.sink.Play(locate(s, c.world, p.CameraPosition(), p.Orientation()))
}

// extrapolateOthers advances every non-local player's predicted position
// by its last known velocity, smoothing over the gap between MovePlayer
// updates from the network.
func (c *ClientState) extrapolateOthers(dt float32) {
	for id, p := range c.world.Players {
		if id == c.playerID {
			continue
		}
		p.Skeleton.Position = p.Skeleton.Position.Add(p.Skeleton.Velocity.Mul(dt))
	}
}

func (c *ClientState) animatePlayers(dt float32) {
	for _, p := range c.world.Players {
		p.AnimateFeet(dt)
	}
}

// tickEffects ages every visual effect's TTL and discards expired ones.
func (c *ClientState) tickEffects(dt float32) {
	kept := c.world.Effects[:0]
	for _, e := range c.world.Effects {
		e.TTL -= dt
		if e.TTL > 0 {
			kept = append(kept, e)
		}
	}
	c.world.Effects = kept
}
