package connection

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/saeidalz13/battleship-solo/models/match"
)

const (
	maxWriteWsRetries uint8 = 2
	backOffFactor     uint8 = 2
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

type ConnectionHandler interface {
	reconnectionAfterAbnormalClosure(conn *websocket.Conn)
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session binds one websocket connection to at most one game. The
// connection can be swapped by a reconnect while the session loop waits.
type Session struct {
	id                     string
	conn                   *websocket.Conn
	reconnectionSignalChan chan bool
	createdAt              time.Time
	game                   *match.Game
	logger                 *log.Logger
	mu                     sync.RWMutex
}

func NewSession(id string, conn *websocket.Conn, logger *log.Logger) *Session {
	return &Session{
		id:                     id,
		conn:                   conn,
		reconnectionSignalChan: make(chan bool),
		createdAt:              time.Now(),
		logger:                 logger.With("session", id),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

func (s *Session) Game() *match.Game {
	return s.game
}

func (s *Session) SetGame(game *match.Game) {
	s.game = game
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) reconnectionChan() chan bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reconnectionSignalChan
}

// connState returns the current connection with the channel that gets
// closed once that connection is replaced.
func (s *Session) connState() (*websocket.Conn, <-chan bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn, s.reconnectionSignalChan
}

func isReplaced(reconnected <-chan bool) bool {
	select {
	case <-reconnected:
		return true
	default:
		return false
	}
}

func (s *Session) remoteAddr() string {
	conn := s.Conn()
	if conn == nil {
		return "<nil>"
	}
	return conn.RemoteAddr().String()
}

func (s *Session) onConnErr(err error) uint8 {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		s.logger.Warn("timeout error", "err", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		s.logger.Warn("high server load/traffic error", "err", err)
		return ConnLoopRetry
	}

	// mobile clients going to background end up here
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		s.logger.Warn("abnormal closure error", "err", err)
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		s.logger.Info("close error", "err", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		s.logger.Error("critical error", "err", err)
		return ConnLoopBreak
	}

	// Client is probably not ours (binary frames, bad utf-8). Break instead
	// of reading more invalid payloads.
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		s.logger.Warn("non-critical error", "err", err)
		return ConnLoopBreak
	}

	s.logger.Error("unexpected error", "err", err)
	return ConnLoopBreak
}

// Writes to the connection of that session. It also
// handles the abnormal or other types of errors of
// writing to a websocket connection.
func (s *Session) writeToConnWithRetry(msg interface{}, msgType uint8) error {
	var retries uint8

writeJsonLoop:
	for {
		var err error
		conn, reconnected := s.connState()

		switch msgType {
		case MessageTypeJSON:
			err = conn.WriteJSON(msg)

		case MessageTypeBytes:
			respBytes, ok := msg.([]byte)
			if !ok {
				return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
			}
			err = conn.WriteMessage(websocket.TextMessage, respBytes)

		default:
			return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write with retry")
		}

		if err != nil {
			if isReplaced(reconnected) {
				s.logger.Info("connection replaced while writing; resending", "err", err)
				continue writeJsonLoop
			}

			switch s.onConnErr(err) {
			case ConnLoopRetry:
				if retries < maxWriteWsRetries {
					retries++
					s.logger.Warn("writing to ws failed; retrying", "remote", s.remoteAddr(), "retry", retries)
					time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
					continue writeJsonLoop
				}
				s.logger.Error("max retries reached for writing to ws", "remote", s.remoteAddr(), "err", err)
				return NewConnErr(ConnLoopBreak)

			case ConnLoopAbnormalClosureRetry:
				return NewConnErr(ConnLoopAbnormalClosureRetry)

			default:
				return NewConnErr(ConnLoopBreak).AddDesc("breaking writeJsonLoop due to: " + err.Error())
			}
		}
		return nil
	}
}

// Handles the errors that occur when reading from the ws connection.
// Anything but ConnLoopContinue ends the session loop.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	case ConnLoopRetry:
		if retries < maxWriteWsRetries {
			s.logger.Warn("failed to read from ws conn; retrying", "remote", s.remoteAddr(), "retry", retries)
			time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	default:
		s.logger.Info("break ws conn loop", "remote", s.remoteAddr(), "err", err)
		return ConnLoopBreak
	}
}

// The previous connection is closed so a read still blocked on it returns
// and the session loop moves to the new one.
func (s *Session) reconnectionAfterAbnormalClosure(conn *websocket.Conn) {
	s.mu.Lock()
	prev := s.conn
	s.conn = conn

	// wakes up whoever waits in the grace period or reads the old conn
	close(s.reconnectionSignalChan)
	s.reconnectionSignalChan = make(chan bool)
	s.mu.Unlock()

	if prev != nil && prev != conn {
		_ = prev.Close()
	}
}

var _ ConnectionHandler = (*Session)(nil)
