package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/pipeline-demo/internal/shared/id"
)

// State is the lifecycle state of a session.
type State int32

const (
	StateOpen State = iota
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is the view of a connection handed to a Listener.
type Session interface {
	ID() id.SessionID
	State() State
	SendText(text string) error
}

// connSession is a Session backed by a gorilla connection.
type connSession struct {
	id        id.SessionID
	conn      *websocket.Conn
	writeWait time.Duration
	state     atomic.Int32
	writeMu   sync.Mutex
}

func newConnSession(sid id.SessionID, conn *websocket.Conn, writeWait time.Duration) *connSession {
	return &connSession{
		id:        sid,
		conn:      conn,
		writeWait: writeWait,
	}
}

func (s *connSession) ID() id.SessionID { return s.id }

func (s *connSession) State() State { return State(s.state.Load()) }

// SendText writes one text frame. Writes are serialized since gorilla
// connections support a single concurrent writer.
func (s *connSession) SendText(text string) error {
	if s.State() != StateOpen {
		return ErrSessionClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.writeWait > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeWait)); err != nil {
			return err
		}
	}
	return s.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// close transitions to StateClosed and releases the connection. It
// reports false if the session was already closed.
func (s *connSession) close() bool {
	if !s.state.CompareAndSwap(int32(StateOpen), int32(StateClosed)) {
		return false
	}
	_ = s.conn.Close()
	return true
}
