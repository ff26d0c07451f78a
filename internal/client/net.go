package client

import (
	"fmt"
	"log"

	"github.com/scathanna-go/scathanna/internal/mapfile"
	"github.com/scathanna-go/scathanna/internal/netconduit"
	"github.com/scathanna-go/scathanna/internal/protocol"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

// Options configures a connecting client.
type Options struct {
	Addr       string
	AssetsRoot string
	Name       string
	AvatarID   uint8
	Team       worldstate.Team
	Sink       Sink
}

// NetClient drives one connection to a game server: it owns the pipe, the
// current ClientState (replaced wholesale on every SwitchMap), and a
// sticky Err once the connection has failed. The render/game loop calls
// Tick once per frame; this type never blocks on the network itself, so a
// stalled server degrades to stale state rather than a frozen frame.
type NetClient struct {
	opts  Options
	pipe  *netconduit.Pipe[protocol.ClientMsg, protocol.ServerMsg]
	state *ClientState

	Err error
}

// Connect dials addr, completes the join handshake, and blocks for the
// server's first message, which must be SwitchMap.
func Connect(opts Options) (*NetClient, error) {
	join := protocol.JoinMsg{Name: opts.Name, AvatarID: opts.AvatarID, Team: opts.Team}
	pipe, err := netconduit.Dial(opts.Addr, join)
	if err != nil {
		return nil, err
	}

	first, err := pipe.Recv()
	if err != nil {
		return nil, fmt.Errorf("client: connect: %w", err)
	}
	if first.Kind != protocol.SSwitchMap {
		return nil, fmt.Errorf("client: connect: expected SwitchMap as the first message, got kind %d", first.Kind)
	}

	nc := &NetClient{opts: opts, pipe: pipe}
	state, err := nc.joinMap(first)
	if err != nil {
		return nil, err
	}
	nc.state = state
	return nc, nil
}

// State is the current client-local game state. Valid until the next Tick
// that processes a SwitchMap, which replaces it wholesale.
func (nc *NetClient) State() *ClientState { return nc.state }

// Tick drains every message the server has sent since the last call,
// applying each to the current ClientState (or replacing it entirely on a
// SwitchMap), then advances local prediction by dt and sends whatever
// ClientState.Tick produced back to the server. A permanent connection
// error is recorded in Err and further Tick calls become no-ops.
func (nc *NetClient) Tick(in *InputState, dt float32) {
	if nc.Err != nil {
		return
	}
	if err := nc.applyMessages(); err != nil {
		nc.Err = err
		return
	}
	for _, msg := range nc.state.Tick(in, dt) {
		nc.pipe.Send(msg)
	}
}

func (nc *NetClient) applyMessages() error {
	for {
		msg, err, ok := nc.pipe.TryRecv()
		if !ok {
			return nil
		}
		if err != nil {
			return fmt.Errorf("client: connection lost: %w", err)
		}
		if msg.Kind == protocol.SSwitchMap {
			state, err := nc.joinMap(msg)
			if err != nil {
				return err
			}
			nc.state = state
			continue
		}
		nc.state.ApplyServerMsg(msg)
	}
}

// joinMap builds a fresh World and ClientState from a SwitchMap message:
// loads the named map from disk, then populates it with the player/entity
// snapshot the server included so the new client starts in sync rather
// than empty until the next round of broadcasts.
func (nc *NetClient) joinMap(msg protocol.ServerMsg) (*ClientState, error) {
	m, err := mapfile.Load(msg.MapName, mapfile.Dir(nc.opts.AssetsRoot, msg.MapName))
	if err != nil {
		return nil, fmt.Errorf("client: load map %q: %w", msg.MapName, err)
	}

	world := worldstate.NewWorld(m)
	for _, p := range msg.Players {
		world.Players[p.ID] = p
	}
	for _, e := range msg.Entities {
		world.Entities[e.ID] = e
	}

	log.Printf("client: joined map %q as player %d", msg.MapName, msg.SelfID)
	return NewClientState(msg.SelfID, world, nc.opts.Sink), nil
}
