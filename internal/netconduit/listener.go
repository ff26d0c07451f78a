package netconduit

import (
	"fmt"
	"net"

	"github.com/scathanna-go/scathanna/internal/protocol"
)

// Accepted is a freshly connected, not-yet-joined client: the magic
// preamble has been exchanged and the JoinMsg decoded, but Conn is not yet
// wrapped in a Pipe; the caller (the server's single-threaded dispatch
// loop) does that with ServerSide.
type Accepted struct {
	Conn net.Conn
	Join protocol.JoinMsg
}

// Listen accepts connections on addr and sends each one, after completing
// the magic+join handshake, to accepted. The returned address is the
// listener's actual bound address, letting callers pass an ephemeral
// ":0" port and discover what it resolved to. Accepting runs in the
// background; Listen itself returns as soon as the listener is bound.
func Listen(addr string, accepted chan<- Accepted, onAcceptError func(error)) (net.Addr, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("netconduit: listen on %s: %w", addr, err)
	}
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				onAcceptError(err)
				return
			}
			go func() {
				join, err := handshakeServerSide(conn)
				if err != nil {
					onAcceptError(fmt.Errorf("netconduit: handshake from %s: %w", conn.RemoteAddr(), err))
					conn.Close()
					return
				}
				accepted <- Accepted{Conn: conn, Join: join}
			}()
		}
	}()
	return listener.Addr(), nil
}

// handshakeServerSide reads and writes directly on conn, not through a
// bufio.Reader: NewPipe wraps conn in its own fresh bufio.Reader right
// after, and any bytes buffered-but-unread here would be invisible to it.
func handshakeServerSide(conn net.Conn) (protocol.JoinMsg, error) {
	if err := protocol.ReadMagic(conn); err != nil {
		return protocol.JoinMsg{}, err
	}
	if err := protocol.WriteMagic(conn); err != nil {
		return protocol.JoinMsg{}, err
	}
	join, err := protocol.ReadJoin(conn)
	if err != nil {
		return protocol.JoinMsg{}, err
	}
	return join, nil
}

// ServerSide wraps an accepted connection into a Pipe that sends ServerMsg
// and receives ClientMsg, handing server-side message dispatch a plain,
// decoded channel of events instead of raw bytes.
func ServerSide(conn net.Conn) (*Pipe[protocol.ServerMsg, protocol.ClientMsg], error) {
	return NewPipe(conn, ServerMsgCodec, ClientMsgCodec)
}

// Dial connects to a server at addr, completes the magic handshake, sends
// join, and wraps the connection into a Pipe that sends ClientMsg and
// receives ServerMsg.
func Dial(addr string, join protocol.JoinMsg) (*Pipe[protocol.ClientMsg, protocol.ServerMsg], error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("netconduit: dial %s: %w", addr, err)
	}
	if err := handshakeClientSide(conn, join); err != nil {
		conn.Close()
		return nil, err
	}
	return NewPipe(conn, ClientMsgCodec, ServerMsgCodec)
}

func handshakeClientSide(conn net.Conn, join protocol.JoinMsg) error {
	if err := protocol.WriteMagic(conn); err != nil {
		return err
	}
	if err := protocol.ReadMagic(conn); err != nil {
		return err
	}
	return protocol.WriteJoin(conn, join)
}
