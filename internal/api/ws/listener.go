package ws

import (
	"errors"

	"go.uber.org/zap"
)

// ErrSessionClosed is returned when writing to a session that has ended.
var ErrSessionClosed = errors.New("ws: session closed")

// Prefixes used by the two echo endpoints.
const (
	EchoPrefix       = "Echo: "
	LegacyEchoPrefix = "Echo (old): "
)

// Listener receives the lifecycle events of one session. For a given
// session OnOpen comes first, then OnMessage calls in arrival order, then at
// most one OnError, then exactly one OnClose.
type Listener interface {
	OnOpen(s Session)
	OnMessage(s Session, text string) error
	OnError(s Session, err error)
	OnClose(s Session)
}

// Echo replies to every text message with prefix + message.
type Echo struct {
	prefix string
	logger *zap.Logger
}

// NewEcho creates an echo listener.
func NewEcho(prefix string, logger *zap.Logger) *Echo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Echo{prefix: prefix, logger: logger}
}

func (e *Echo) OnOpen(s Session) {
	e.logger.Info("session opened", zap.String("session_id", s.ID().String()))
}

func (e *Echo) OnMessage(s Session, text string) error {
	e.logger.Info("message received",
		zap.String("session_id", s.ID().String()),
		zap.Int("bytes", len(text)),
	)
	return s.SendText(e.prefix + text)
}

// OnError only logs. Closing is left to the connection loop.
func (e *Echo) OnError(s Session, err error) {
	e.logger.Warn("session error",
		zap.String("session_id", s.ID().String()),
		zap.Error(err),
	)
}

func (e *Echo) OnClose(s Session) {
	e.logger.Info("session closed", zap.String("session_id", s.ID().String()))
}
