// Package netconduit drives the raw TCP byte stream: a magic-preamble
// handshake followed by one upload goroutine and one download goroutine per
// connection, decoupling socket I/O from whatever owns the decoded messages.
package netconduit

import (
	"bufio"
	"fmt"
	"net"

	"github.com/scathanna-go/scathanna/internal/protocol"
)

// Pipe is a typed, non-blocking, bidirectional network conduit: it sends
// values of type S and receives values of type R over one TCP connection.
// Encoding and framing are supplied by the caller so the same plumbing
// serves both client->server and server->client traffic.
type Pipe[S, R any] struct {
	send chan<- S
	recv <-chan recvResult[R]
}

type recvResult[R any] struct {
	msg R
	err error
}

// Codec describes how to put a value of type T on, or take it off, the wire.
type Codec[T any] struct {
	Write func(w *bufio.Writer, v T) error
	Read  func(r *bufio.Reader) (T, error)
}

// NewPipe wraps conn with an upload and a download goroutine. Send errors
// surface only on the next Recv call: a successful write never guarantees
// the peer actually processed the message, so errors are only meaningful
// on the receiving end.
func NewPipe[S, R any](conn net.Conn, sendCodec Codec[S], recvCodec Codec[R]) (*Pipe[S, R], error) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(true); err != nil {
			return nil, fmt.Errorf("netconduit: set TCP_NODELAY: %w", err)
		}
	}

	sendCh := make(chan S, 256)
	recvCh := make(chan recvResult[R], 256)

	startUpload(conn, sendCh, sendCodec)
	startDownload(conn, recvCh, recvCodec)

	return &Pipe[S, R]{send: sendCh, recv: recvCh}, nil
}

// Send enqueues msg for upload. Never blocks on the network; the upload
// goroutine batches and flushes asynchronously.
func (p *Pipe[S, R]) Send(msg S) {
	p.send <- msg
}

// TryRecv returns the next decoded message if one is waiting, ok=false if
// none is available yet, or an error if the connection failed.
func (p *Pipe[S, R]) TryRecv() (msg R, err error, ok bool) {
	select {
	case r, open := <-p.recv:
		if !open {
			var zero R
			return zero, fmt.Errorf("netconduit: connection closed"), true
		}
		return r.msg, r.err, true
	default:
		var zero R
		return zero, nil, false
	}
}

// Recv blocks until the next decoded message arrives or the connection
// fails; once it has returned an error the connection is dead, and every
// later call returns an error too.
func (p *Pipe[S, R]) Recv() (msg R, err error) {
	r, open := <-p.recv
	if !open {
		var zero R
		return zero, fmt.Errorf("netconduit: connection closed")
	}
	return r.msg, r.err
}

// startUpload drains sendCh and flushes pending writes each time the
// channel wakes it, so a burst of sends costs one syscall, not N.
func startUpload[S any](conn net.Conn, sendCh <-chan S, codec Codec[S]) {
	go func() {
		w := bufio.NewWriter(conn)
		for {
			msg, ok := <-sendCh
			if !ok {
				return
			}
			if err := codec.Write(w, msg); err != nil {
				conn.Close()
				return
			}
		drain:
			for {
				select {
				case msg, ok := <-sendCh:
					if !ok {
						w.Flush()
						return
					}
					if err := codec.Write(w, msg); err != nil {
						conn.Close()
						return
					}
				default:
					break drain
				}
			}
			if err := w.Flush(); err != nil {
				conn.Close()
				return
			}
		}
	}()
}

// startDownload decodes messages as they arrive and shuts the connection
// down on the first error, so a peer that sends garbage can't wedge the
// reader loop forever.
func startDownload[R any](conn net.Conn, recvCh chan<- recvResult[R], codec Codec[R]) {
	go func() {
		defer close(recvCh)
		r := bufio.NewReader(conn)
		for {
			msg, err := codec.Read(r)
			if err != nil {
				recvCh <- recvResult[R]{err: err}
				conn.Close()
				return
			}
			recvCh <- recvResult[R]{msg: msg}
		}
	}()
}

// ClientMsgCodec/ServerMsgCodec adapt internal/protocol's encode/decode
// functions to the bufio.Writer/Reader shape Codec expects.
var ClientMsgCodec = Codec[protocol.ClientMsg]{
	Write: func(w *bufio.Writer, m protocol.ClientMsg) error { return protocol.WriteClientMsg(w, m) },
	Read:  func(r *bufio.Reader) (protocol.ClientMsg, error) { return protocol.ReadClientMsg(r) },
}

var ServerMsgCodec = Codec[protocol.ServerMsg]{
	Write: func(w *bufio.Writer, m protocol.ServerMsg) error { return protocol.WriteServerMsg(w, m) },
	Read:  func(r *bufio.Reader) (protocol.ServerMsg, error) { return protocol.ReadServerMsg(r) },
}
