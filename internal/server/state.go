// Package server implements the authoritative game server: a single
// control goroutine owns the World and resolves every client message and
// periodic tick against it, emitting addressed envelopes for the net layer
// to deliver.
package server

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/scathanna-go/scathanna/internal/mapfile"
	"github.com/scathanna-go/scathanna/internal/physics"
	"github.com/scathanna-go/scathanna/internal/protocol"
	"github.com/scathanna-go/scathanna/internal/ui"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

// TickRate is the reference server tick frequency. Pickup-respawn and
// hat-roll probabilities below are calibrated against it; changing it
// requires rescaling them.
const TickRate = 10.0
const TickDt = float32(1.0 / TickRate)

// Probability per tick that a taken pickup point repopulates.
const pickupRespawnProb = 0.001

// Default invulnerability window granted on spawn, in seconds.
const defaultInvulnerabilityTTL float32 = 1.5

// offWorldY is the fall-out-of-the-map kill threshold.
const offWorldY float32 = -1024

// ServerState owns the authoritative World and every piece of server-side
// bookkeeping: score, the map rotation, and a seeded RNG so pickup/spawn
// rolls are reproducible across runs given the same event order.
type ServerState struct {
	nextPlayerID worldstate.PlayerID
	rng          *rand.Rand

	assetsRoot string
	maplist    []string
	currMap    int

	world    *worldstate.World
	gameType worldstate.GameType

	// score is keyed by player id, not name: spec's lifecycle model ties
	// score strictly to the connection, not the identity behind it, unlike
	// a name-keyed table that would survive a reconnect under a new id.
	score map[worldstate.PlayerID]int32
}

// New loads the first map in maplist and returns a fresh ServerState.
func New(assetsRoot string, maplist []string, gameType worldstate.GameType) (*ServerState, error) {
	if len(maplist) == 0 {
		return nil, fmt.Errorf("server: empty maplist")
	}
	m, err := loadMap(assetsRoot, maplist[0])
	if err != nil {
		return nil, err
	}
	return &ServerState{
		nextPlayerID: 1,
		rng:          rand.New(rand.NewSource(123)),
		assetsRoot:   assetsRoot,
		maplist:      maplist,
		currMap:      0,
		world:        worldstate.NewWorld(m),
		gameType:     gameType,
		score:        make(map[worldstate.PlayerID]int32),
	}, nil
}

func loadMap(assetsRoot, name string) (*mapfile.Map, error) {
	return mapfile.Load(name, mapfile.Dir(assetsRoot, name))
}

func (s *ServerState) MapName() string { return s.world.Map.Name }

// Score returns a player's current per-map score, 0 if unknown.
func (s *ServerState) Score(id worldstate.PlayerID) int32 { return s.score[id] }

func (s *ServerState) newPlayerID() worldstate.PlayerID {
	id := s.nextPlayerID
	s.nextPlayerID++
	return id
}

func (s *ServerState) pickSpawnPoint() mapfile.SpawnPoint {
	spawns := s.world.Map.Metadata.SpawnPoints
	if len(spawns) == 0 {
		panic("server: map has no spawn points")
	}
	return spawns[s.rng.Intn(len(spawns))]
}

func spawnPosition(sp mapfile.SpawnPoint) mgl32.Vec3 {
	return mgl32.Vec3{float32(sp.Pos.X) + 0.5, float32(sp.Pos.Y), float32(sp.Pos.Z) + 0.5}
}

// ____________________________________________________________________ connect/drop

// JoinNewPlayer admits a newly connected client: allocates an id, spawns
// them, and returns the envelopes a NetServer must deliver (a private
// SwitchMap first, since a new client expects it before anything else).
func (s *ServerState) JoinNewPlayer(join protocol.JoinMsg) (worldstate.PlayerID, []protocol.Envelope) {
	id := s.newPlayerID()
	sp := s.pickSpawnPoint()
	team := join.Team
	p := worldstate.NewPlayer(id, spawnPosition(sp), physics.Orientation{}, join.Name, join.AvatarID, team)

	if _, ok := s.score[id]; !ok {
		s.score[id] = 0
	}
	s.world.Players[id] = p

	resp := []protocol.Envelope{
		{To: protocol.Just(id), Msg: protocol.SwitchMapMsg(s.MapName(), snapshotPlayers(s.world), snapshotEntities(s.world), id)},
		logAll(fmt.Sprintf("%s joined", p.Name)),
		{To: protocol.All(), Msg: protocol.AddPlayerMsg(p)},
		{To: protocol.All(), Msg: protocol.ServerMsg{Kind: protocol.SUpdateHUD, HUD: ui.HUDUpdate{Kind: ui.HUDScore, Text: s.scoreSummary()}}},
	}
	return id, resp
}

// scoreSummary renders every connected player's name and score as a single
// multi-line string, in map iteration order (unspecified, but this is a
// display-only string with no wire semantics).
func (s *ServerState) scoreSummary() string {
	var b strings.Builder
	for id, p := range s.world.Players {
		fmt.Fprintf(&b, "%s: %d\n", p.Name, s.score[id])
	}
	return b.String()
}

// DropPlayer removes a disconnected player from the world.
func (s *ServerState) DropPlayer(id worldstate.PlayerID) []protocol.Envelope {
	if _, ok := s.world.Players[id]; !ok {
		return nil
	}
	delete(s.world.Players, id)
	delete(s.score, id)
	return []protocol.Envelope{{To: protocol.All(), Msg: protocol.DropPlayerMsg(id)}}
}

func snapshotPlayers(w *worldstate.World) []*worldstate.Player {
	out := make([]*worldstate.Player, 0, len(w.Players))
	for _, p := range w.Players {
		out = append(out, p)
	}
	return out
}

func snapshotEntities(w *worldstate.World) []*worldstate.Entity {
	out := make([]*worldstate.Entity, 0, len(w.Entities))
	for _, e := range w.Entities {
		out = append(out, e)
	}
	return out
}

// ____________________________________________________________________ client messages

// HandleClientMsg dispatches a decoded ClientMsg to the handler for its
// kind. A player id not present in the world (a race with a concurrent
// drop) is silently ignored: downstream handlers may safely assume the
// player exists.
func (s *ServerState) HandleClientMsg(id worldstate.PlayerID, msg protocol.ClientMsg) []protocol.Envelope {
	if _, ok := s.world.Players[id]; !ok {
		return nil
	}
	var resp []protocol.Envelope
	switch msg.Kind {
	case protocol.CMovePlayer:
		s.handleMovePlayer(&resp, id, msg.Frame)
	case protocol.CReadyToSpawn:
		s.handleReadyToSpawn(&resp, id)
	case protocol.CAddEffect:
		resp = append(resp, protocol.Envelope{To: protocol.Not(id), Msg: protocol.ServerAddEffectMsg(msg.Effect)})
	case protocol.CPlaySound:
		resp = append(resp, protocol.Envelope{To: protocol.Not(id), Msg: protocol.ServerPlaySoundMsg(msg.Sound)})
	case protocol.CHitPlayer:
		s.handleHitPlayer(&resp, id, msg.Victim)
	case protocol.CCommand:
		s.handleCommand(&resp, id, msg.Command)
	}
	return resp
}

func (s *ServerState) player(id worldstate.PlayerID) *worldstate.Player {
	p, ok := s.world.Players[id]
	if !ok {
		panic("server: BUG: player id not found")
	}
	return p
}

func (s *ServerState) setSpawned(resp *[]protocol.Envelope, id worldstate.PlayerID, spawned bool) {
	p := s.player(id)
	p.Spawned = spawned
	s.broadcastUpdatePlayer(resp, p)
}

func (s *ServerState) broadcastUpdatePlayer(resp *[]protocol.Envelope, p *worldstate.Player) {
	*resp = append(*resp, protocol.Envelope{To: protocol.All(), Msg: protocol.UpdatePlayerMsg(p)})
}

// handleMovePlayer overwrites the server's copy of a player's skeleton with
// the client-reported frame, rebroadcasts it, then runs every per-tick
// check a movement can trigger: lava, pickups, falling off the world.
func (s *ServerState) handleMovePlayer(resp *[]protocol.Envelope, id worldstate.PlayerID, frame physics.Frame) {
	p := s.player(id)
	p.Skeleton.SetFrame(frame)

	*resp = append(*resp, protocol.Envelope{
		To:  protocol.Not(id),
		Msg: protocol.ServerMovePlayerMsg(id, p.Skeleton.Frame()),
	})

	if !p.Spawned {
		return
	}
	s.checkLava(resp, id)
	if s.player(id).Spawned {
		s.checkPickups(resp, id)
		s.checkOffWorld(resp, id)
	}
}

func (s *ServerState) checkLava(resp *[]protocol.Envelope, id worldstate.PlayerID) {
	p := s.player(id)
	if !p.IsOnLava(s.world) {
		return
	}
	if p.Powerup != nil && *p.Powerup == worldstate.PartyHat {
		return
	}
	pushEffect(resp, worldstate.ParticleExplosionEffect(p.Position(), mgl32.Vec3{1, 0, 0}))
	*resp = append(*resp, protocol.UpdateHUDMsg(id, ui.HUDUpdate{Kind: ui.HUDMessage, Text: "You fell in lava"}))
	s.killPlayer(resp, id)
}

func (s *ServerState) checkOffWorld(resp *[]protocol.Envelope, id worldstate.PlayerID) {
	p := s.player(id)
	if p.Position().Y() >= offWorldY {
		return
	}
	*resp = append(*resp, protocol.UpdateHUDMsg(id, ui.HUDUpdate{Kind: ui.HUDMessage, Text: "You fell off the world"}))
	s.killPlayer(resp, id)
}

// checkPickups collides a player's center point against every live entity,
// converting a touched one into a powerup grant.
func (s *ServerState) checkPickups(resp *[]protocol.Envelope, id worldstate.PlayerID) {
	p := s.player(id)
	center := p.Center()
	for _, eid := range s.world.EntityIDs() {
		e, ok := s.world.Entities[eid]
		if !ok {
			continue
		}
		if !worldstate.Touches(e.Bounds(), center) {
			continue
		}
		s.collectEntity(resp, id, e)
	}
}

func (s *ServerState) collectEntity(resp *[]protocol.Envelope, id worldstate.PlayerID, e *worldstate.Entity) {
	delete(s.world.Entities, e.ID)
	*resp = append(*resp, protocol.Envelope{To: protocol.All(), Msg: protocol.RemoveEntityMsg(e.ID)})
	if e.PickupPointID != nil {
		idx := *e.PickupPointID
		if idx >= 0 && idx < len(s.world.Map.Metadata.PickupPoints) {
			s.world.Map.Metadata.PickupPoints[idx].Taken = true
		}
	}

	p := s.player(id)
	kind := e.Kind
	if kind == worldstate.GiftBox {
		kind = s.rollGiftBox(id)
	}
	p.Powerup = &kind
	s.broadcastUpdatePlayer(resp, p)
	*resp = append(*resp, protocol.UpdateHUDMsg(id, ui.HUDUpdate{Kind: ui.HUDMessage, Text: "You picked up a " + kind.String()}))
}

// rollGiftBox resolves a gift box into a concrete hat, tilted by levelling:
// a player already wearing a hat always gets a different one; the visible
// laggard is sometimes forced a berserker helmet; the visible leader is
// sometimes forced another gift box instead of a hat.
func (s *ServerState) rollGiftBox(id worldstate.PlayerID) worldstate.EKind {
	p := s.player(id)
	if s.isLeader(id) && s.rng.Float32() < 0.3 {
		return worldstate.GiftBox
	}
	if s.isLaggard(id) && s.rng.Float32() < 0.3 {
		return worldstate.BerserkerHelmet
	}
	return worldstate.RandomPowerupExcept(p.Powerup)
}

func (s *ServerState) isLeader(id worldstate.PlayerID) bool {
	best := s.score[id]
	for other, sc := range s.score {
		if other != id && sc > best {
			return false
		}
	}
	return len(s.score) > 1
}

func (s *ServerState) isLaggard(id worldstate.PlayerID) bool {
	worst := s.score[id]
	for other, sc := range s.score {
		if other != id && sc < worst {
			return false
		}
	}
	return len(s.score) > 1
}

// handleReadyToSpawn marks a player spawned and grants invulnerability,
// halved for the current score leader.
func (s *ServerState) handleReadyToSpawn(resp *[]protocol.Envelope, id worldstate.PlayerID) {
	p := s.player(id)
	p.Spawned = true
	ttl := defaultInvulnerabilityTTL
	if s.isLeader(id) {
		ttl *= 0.5
	}
	p.InvulnerabilityTTL = &ttl
	s.broadcastUpdatePlayer(resp, p)
	*resp = append(*resp, protocol.UpdateHUDMsg(id, ui.HUDUpdate{Kind: ui.HUDMessage, Text: fmt.Sprintf("Spawn protection: %.0fs", ttl)}))
}

// handleHitPlayer trusts the reporting client entirely: hit detection runs
// client-side so latency never puts a shooter at a disadvantage. The
// server only enforces who is allowed to die.
func (s *ServerState) handleHitPlayer(resp *[]protocol.Envelope, aggressorID, victimID worldstate.PlayerID) {
	victim, ok := s.world.Players[victimID]
	if !ok || !victim.Spawned {
		return
	}
	aggressor := s.player(aggressorID)

	if _, team := s.gameType.(*worldstate.TeamMatch); team && victim.Team == aggressor.Team {
		s.ricochet(resp, victim)
		return
	}
	if victim.InvulnerabilityTTL != nil {
		s.ricochet(resp, victim)
		return
	}
	if victim.Powerup != nil && *victim.Powerup == worldstate.PartyHat {
		victim.Powerup = nil
		ttl := defaultInvulnerabilityTTL
		victim.InvulnerabilityTTL = &ttl
		s.broadcastUpdatePlayer(resp, victim)
		*resp = append(*resp, protocol.UpdateHUDMsg(victimID, ui.HUDUpdate{Kind: ui.HUDMessage, Text: "Your party hat saved you"}))
		s.ricochet(resp, victim)
		return
	}

	s.score[aggressorID]++

	s.killPlayer(resp, victimID)

	*resp = append(*resp, protocol.Envelope{To: protocol.All(), Msg: protocol.ServerAddEffectMsg(worldstate.ParticleExplosionEffect(victim.CameraPosition(), mgl32.Vec3{1, 1, 1}))})
	*resp = append(*resp, protocol.UpdateHUDMsg(victimID, ui.HUDUpdate{Kind: ui.HUDMessage, Text: fmt.Sprintf("You got confettied by %s", aggressor.Name)}))
	*resp = append(*resp, protocol.UpdateHUDMsg(aggressorID, ui.HUDUpdate{Kind: ui.HUDMessage, Text: fmt.Sprintf("You confettied %s", victim.Name)}))

	*resp = append(*resp, logAll(fmt.Sprintf("%s (%d) confettied %s (%d)", aggressor.Name, s.score[aggressorID], victim.Name, s.score[victimID])))
}

// ricochet broadcasts a visual-only deflection: no state changes, no score.
func (s *ServerState) ricochet(resp *[]protocol.Envelope, victim *worldstate.Player) {
	*resp = append(*resp, protocol.Envelope{To: protocol.All(), Msg: protocol.ServerAddEffectMsg(worldstate.RicochetEffect(victim.CameraPosition(), victim.Team.ColorFilter()))})
}

// killPlayer runs the shared unspawn sequence: drop the held powerup as a
// pickup entity, clear it, unspawn, and request a respawn.
func (s *ServerState) killPlayer(resp *[]protocol.Envelope, id worldstate.PlayerID) {
	p := s.player(id)
	if p.Powerup != nil {
		s.dropPowerup(resp, id, *p.Powerup)
		p.Powerup = nil
	}
	p.InvulnerabilityTTL = nil
	s.setSpawned(resp, id, false)
	*resp = append(*resp, protocol.Envelope{To: protocol.Just(id), Msg: protocol.RequestRespawnMsg(s.pickSpawnPoint())})
}

// dropPowerup leaves the dead player's powerup behind as a pickup entity:
// unconditionally for a gift box, biased by leaderboard position for a hat
// (the leader is less likely to leave a usable prize behind).
func (s *ServerState) dropPowerup(resp *[]protocol.Envelope, id worldstate.PlayerID, kind worldstate.EKind) {
	p := s.player(id)
	dropProb := float32(0.6)
	if s.isLeader(id) {
		dropProb = 0.85
	}
	if kind != worldstate.GiftBox && s.rng.Float32() >= dropProb {
		return
	}
	e := worldstate.NewEntity(p.Position(), kind)
	s.world.Entities[e.ID] = e
	*resp = append(*resp, protocol.Envelope{To: protocol.All(), Msg: protocol.UpdateEntityMsg(e)})
}

// handleCommand parses a trusted admin/debug text command.
func (s *ServerState) handleCommand(resp *[]protocol.Envelope, id worldstate.PlayerID, cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "summon":
		if len(fields) != 2 {
			s.commandError(resp, id, "usage: summon <kind>")
			return
		}
		kind, err := worldstate.ParseEKind(fields[1])
		if err != nil {
			s.commandError(resp, id, err.Error())
			return
		}
		s.summon(resp, id, kind)
	case "switch":
		if len(fields) != 2 {
			s.commandError(resp, id, "usage: switch <map>")
			return
		}
		s.switchMap(resp, fields[1])
	case "help":
		*resp = append(*resp, protocol.UpdateHUDMsg(id, ui.HUDUpdate{Kind: ui.HUDLog, Text: "commands: summon <kind>, switch <map>"}))
	default:
		s.commandError(resp, id, fmt.Sprintf("unknown command %q", fields[0]))
	}
}

func (s *ServerState) commandError(resp *[]protocol.Envelope, id worldstate.PlayerID, text string) {
	*resp = append(*resp, protocol.UpdateHUDMsg(id, ui.HUDUpdate{Kind: ui.HUDLog, Text: text}))
}

// HandleAdminCommand runs a console command typed by the server operator
// rather than sent by a connected client. Only the commands that make
// sense with no issuing player are supported here; "summon" in particular
// needs a player's position and facing and is client-only.
func (s *ServerState) HandleAdminCommand(cmd string) []protocol.Envelope {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return nil
	}
	var resp []protocol.Envelope
	switch fields[0] {
	case "switch":
		if len(fields) != 2 {
			log.Print("usage: switch <map>")
			return nil
		}
		s.switchMap(&resp, fields[1])
	case "help":
		log.Print("admin commands: switch <map>")
	default:
		log.Printf("unknown admin command %q", fields[0])
	}
	return resp
}

// summon inserts an entity a few units in front of the issuing player.
func (s *ServerState) summon(resp *[]protocol.Envelope, id worldstate.PlayerID, kind worldstate.EKind) {
	p := s.player(id)
	pos := p.Position().Add(p.Orientation().LookDir().Mul(8))
	e := worldstate.NewEntity(pos, kind)
	s.world.Entities[e.ID] = e
	*resp = append(*resp, protocol.Envelope{To: protocol.All(), Msg: protocol.UpdateEntityMsg(e)})
}

// switchMap loads a new map, keeps every connected player, requests a
// respawn for each, and resets the per-map score and entity set.
func (s *ServerState) switchMap(resp *[]protocol.Envelope, name string) {
	m, err := loadMap(s.assetsRoot, name)
	if err != nil {
		log.Printf("server: switch to %q: %v", name, err)
		return
	}
	idx := -1
	for i, n := range s.maplist {
		if n == name {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.currMap = idx
	}

	old := s.world
	s.world = worldstate.NewWorld(m)
	for id, p := range old.Players {
		p.Spawned = false
		p.Powerup = nil
		p.InvulnerabilityTTL = nil
		s.world.Players[id] = p
		s.score[id] = 0
	}

	for id := range s.world.Players {
		*resp = append(*resp, protocol.Envelope{
			To:  protocol.Just(id),
			Msg: protocol.SwitchMapMsg(s.MapName(), snapshotPlayers(s.world), snapshotEntities(s.world), id),
		})
		*resp = append(*resp, protocol.Envelope{To: protocol.Just(id), Msg: protocol.RequestRespawnMsg(s.pickSpawnPoint())})
	}
	*resp = append(*resp, logAll(fmt.Sprintf("switched to map %q", name)))
}

// ____________________________________________________________________ tick

// Tick ages invulnerability and stochastically repopulates taken pickup
// points. Called at TickRate by the net layer's control loop.
func (s *ServerState) Tick(dt float32) []protocol.Envelope {
	var resp []protocol.Envelope
	for _, p := range s.world.Players {
		if p.InvulnerabilityTTL == nil {
			continue
		}
		ttl := *p.InvulnerabilityTTL - dt
		if ttl <= 0 {
			p.InvulnerabilityTTL = nil
		} else {
			p.InvulnerabilityTTL = &ttl
		}
		s.broadcastUpdatePlayer(&resp, p)
	}
	s.repopulatePickups(&resp)
	return resp
}

func (s *ServerState) repopulatePickups(resp *[]protocol.Envelope) {
	for i, pp := range s.world.Map.Metadata.PickupPoints {
		if !pp.Taken {
			continue
		}
		if s.rng.Float32() >= pickupRespawnProb {
			continue
		}
		idx := i
		pos := mgl32.Vec3{float32(pp.Pos.X) + 0.5, float32(pp.Pos.Y), float32(pp.Pos.Z) + 0.5}
		e := worldstate.NewEntity(pos, worldstate.GiftBox)
		e.PickupPointID = &idx
		s.world.Entities[e.ID] = e
		s.world.Map.Metadata.PickupPoints[i].Taken = false
		*resp = append(*resp, protocol.Envelope{To: protocol.All(), Msg: protocol.UpdateEntityMsg(e)})
	}
}

func pushEffect(resp *[]protocol.Envelope, e worldstate.Effect) {
	*resp = append(*resp, protocol.Envelope{To: protocol.All(), Msg: protocol.ServerAddEffectMsg(e)})
}

// logAll logs a message locally and returns a broadcast HUD log envelope so
// connected clients see it too, matching the reference's "console output
// doubles as a broadcast chat line" behavior.
func logAll(message string) protocol.Envelope {
	log.Println(message)
	return protocol.Envelope{To: protocol.All(), Msg: protocol.ServerMsg{Kind: protocol.SUpdateHUD, HUD: ui.HUDUpdate{Kind: ui.HUDLog, Text: message}}}
}
