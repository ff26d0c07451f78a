package server

import (
	"bufio"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/scathanna-go/scathanna/internal/netconduit"
	"github.com/scathanna-go/scathanna/internal/protocol"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

// Options configures a running server.
type Options struct {
	Addr         string
	AssetsRoot   string
	Maplist      []string
	GameType     worldstate.GameType
	AdminConsole bool
}

// NetServer layers connection bookkeeping and an RPC-like dispatch loop on
// top of a ServerState: the state never touches the network directly, and
// this type never mutates game state directly. Everything funnels through
// one goroutine via the events channel, so ServerState needs no locking.
type NetServer struct {
	clients map[worldstate.PlayerID]*netconduit.Pipe[protocol.ServerMsg, protocol.ClientMsg]
	logIDs  map[worldstate.PlayerID]uuid.UUID

	events chan serverEvent
	state  *ServerState

	start time.Time
}

type serverEvent interface{ isServerEvent() }

type connEvent struct {
	conn net.Conn
	join protocol.JoinMsg
}
type dropEvent struct{ id worldstate.PlayerID }
type msgEvent struct {
	id  worldstate.PlayerID
	msg protocol.ClientMsg
}
type tickEvent struct{ dt float32 }
type adminCmdEvent struct{ cmd string }

func (connEvent) isServerEvent()     {}
func (dropEvent) isServerEvent()     {}
func (msgEvent) isServerEvent()      {}
func (tickEvent) isServerEvent()     {}
func (adminCmdEvent) isServerEvent() {}

// ListenAndServe binds opts.Addr, starts the tick and (optional) admin
// console goroutines, and runs the control loop. Only returns on a fatal
// listen error.
func ListenAndServe(opts Options) error {
	state, err := New(opts.AssetsRoot, opts.Maplist, opts.GameType)
	if err != nil {
		return err
	}
	log.Printf("maplist: %s", strings.Join(opts.Maplist, ", "))

	ns := &NetServer{
		clients: make(map[worldstate.PlayerID]*netconduit.Pipe[protocol.ServerMsg, protocol.ClientMsg]),
		logIDs:  make(map[worldstate.PlayerID]uuid.UUID),
		events:  make(chan serverEvent, 256),
		state:   state,
		start:   time.Now(),
	}

	accepted := make(chan netconduit.Accepted, 16)
	addr, err := netconduit.Listen(opts.Addr, accepted, func(err error) {
		log.Printf("server: accept: %v", err)
	})
	if err != nil {
		return err
	}
	log.Printf("listening on %s", addr)

	go ns.forwardAccepted(accepted)
	go ns.tickLoop()
	if opts.AdminConsole {
		go ns.adminConsole()
	}

	ns.serveLoop()
	return nil
}

func (ns *NetServer) forwardAccepted(accepted <-chan netconduit.Accepted) {
	for a := range accepted {
		ns.events <- connEvent{conn: a.Conn, join: a.Join}
	}
}

func (ns *NetServer) tickLoop() {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / TickRate))
	defer ticker.Stop()
	for range ticker.C {
		ns.events <- tickEvent{dt: TickDt}
	}
}

// adminConsole reads operator commands from stdin and feeds them into the
// control loop as adminCmdEvents, kept distinct from client commands since
// the operator has no associated player. Uses raw line-buffered mode via
// golang.org/x/term where supported, falling back to a plain bufio.Scanner
// otherwise.
func (ns *NetServer) adminConsole() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		ns.scanAdminLines(bufio.NewScanner(os.Stdin))
		return
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		ns.scanAdminLines(bufio.NewScanner(os.Stdin))
		return
	}
	defer term.Restore(fd, oldState)
	t := term.NewTerminal(os.Stdin, "admin> ")
	for {
		line, err := t.ReadLine()
		if err != nil {
			return
		}
		ns.dispatchAdminLine(line)
	}
}

func (ns *NetServer) scanAdminLines(scanner *bufio.Scanner) {
	for scanner.Scan() {
		ns.dispatchAdminLine(scanner.Text())
	}
}

func (ns *NetServer) dispatchAdminLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	ns.events <- adminCmdEvent{cmd: line}
}

// serveLoop is the single control goroutine: every game-state mutation
// happens here, in strict channel arrival order.
func (ns *NetServer) serveLoop() {
	for ev := range ns.events {
		switch e := ev.(type) {
		case connEvent:
			ns.handleConn(e.conn, e.join)
		case dropEvent:
			ns.handleDrop(e.id)
		case msgEvent:
			ns.deliver(ns.state.HandleClientMsg(e.id, e.msg))
		case tickEvent:
			ns.deliver(ns.state.Tick(e.dt))
		case adminCmdEvent:
			ns.deliver(ns.state.HandleAdminCommand(e.cmd))
		}
	}
}

func (ns *NetServer) handleConn(conn net.Conn, join protocol.JoinMsg) {
	pipe, err := netconduit.ServerSide(conn)
	if err != nil {
		log.Printf("server: wrap connection: %v", err)
		conn.Close()
		return
	}
	id, resp := ns.state.JoinNewPlayer(join)
	ns.clients[id] = pipe
	sessionID := uuid.New()
	ns.logIDs[id] = sessionID
	log.Printf("player %d (%s) connected as %q [session %s]", id, conn.RemoteAddr(), join.Name, sessionID)
	go ns.recvLoop(id, pipe)
	ns.deliver(resp)
}

// recvLoop forwards every decoded client message into the control loop's
// event channel; a terminal error becomes a drop event.
func (ns *NetServer) recvLoop(id worldstate.PlayerID, pipe *netconduit.Pipe[protocol.ServerMsg, protocol.ClientMsg]) {
	for {
		msg, err := pipe.Recv()
		if err != nil {
			ns.events <- dropEvent{id: id}
			return
		}
		ns.events <- msgEvent{id: id, msg: msg}
	}
}

func (ns *NetServer) handleDrop(id worldstate.PlayerID) {
	if _, ok := ns.clients[id]; !ok {
		return
	}
	sessionID := ns.logIDs[id]
	delete(ns.clients, id)
	delete(ns.logIDs, id)
	ns.deliver(ns.state.DropPlayer(id))
	log.Printf("player %d dropped [session %s], %d clients left, uptime %s", id, sessionID, len(ns.clients), humanize.Time(ns.start))
}

// deliver expands and sends every envelope; a client whose send fails is
// treated as dropped.
func (ns *NetServer) deliver(envelopes []protocol.Envelope) {
	for _, env := range envelopes {
		for _, id := range ns.addressees(env.To) {
			pipe, ok := ns.clients[id]
			if !ok {
				continue
			}
			pipe.Send(env.Msg)
		}
	}
}

func (ns *NetServer) addressees(a protocol.Addressee) []worldstate.PlayerID {
	switch a.Kind {
	case protocol.AddrJust:
		return []worldstate.PlayerID{a.ID}
	case protocol.AddrNot:
		out := make([]worldstate.PlayerID, 0, len(ns.clients))
		for id := range ns.clients {
			if id != a.ID {
				out = append(out, id)
			}
		}
		return out
	default: // AddrAll
		out := make([]worldstate.PlayerID, 0, len(ns.clients))
		for id := range ns.clients {
			out = append(out, id)
		}
		return out
	}
}
