package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(ctx context.Context) error

	FindSession(sessionId string) (*Session, error)
	TerminateSession(session *Session)
	ReconnectSession(session *Session, conn *websocket.Conn)
	HandleAbnormalClosureSession(session *Session) error
	Count() int

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
	logger          *log.Logger
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func NewBattleshipSessionManager(logger *log.Logger, cleanupInterval, gracePeriod time.Duration) *BattleshipSessionManager {
	initMapSize := 10

	return &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: cleanupInterval,
		gracePeriod:     gracePeriod,
		logger:          logger,
	}
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.NewString()))
	session := NewSession(sessionId, conn, bsm.logger)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotExist(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(session *Session) {
	bsm.mu.Lock()
	delete(bsm.sessions, session.id)
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) ReconnectSession(session *Session, conn *websocket.Conn) {
	session.reconnectionAfterAbnormalClosure(conn)
}

func (bsm *BattleshipSessionManager) Count() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// To ensure that there is no dangling connections, sessions living longer
// than the cleanup interval are considered stale and removed. Returns when
// ctx is done.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) error {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			bsm.cleanup()
		}
	}
}

func (bsm *BattleshipSessionManager) cleanup() {
	assumedClosedConns := 10
	toDelete := make([]string, 0, assumedClosedConns)

	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	for id, session := range bsm.sessions {
		if time.Since(session.createdAt) > bsm.cleanupInterval {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		delete(bsm.sessions, id)
	}
	bsm.logger.Info("cleaned up sessions", "removed", len(toDelete), "remaining", len(bsm.sessions))
}

// Waits out the grace period of a session whose connection closed
// abnormally. A session with no game has nothing to resume and ends now.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session) error {
	return bsm.awaitReconnect(s, s.reconnectionChan())
}

// awaitReconnect waits on the channel of the connection that failed. When a
// reconnect already replaced it, the channel is closed and this returns at once.
func (bsm *BattleshipSessionManager) awaitReconnect(s *Session, reconnected <-chan bool) error {
	if isReplaced(reconnected) {
		s.logger.Info("player already reconnected")
		return nil
	}
	if s.game == nil {
		return NewConnErr(ConnLoopBreak).AddDesc("no game in session")
	}
	if s.game.IsFinished() {
		return NewConnErr(ConnLoopBreak).AddDesc("game already finished")
	}

	timer := time.NewTimer(bsm.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		s.logger.Info("grace period is over; session terminated")
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-reconnected:
		s.logger.Info("player reconnected")
		return nil
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	reconnected := session.reconnectionChan()
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return err
	}

	switch connErr.Code() {
	case ConnLoopAbnormalClosureRetry:
		if err := bsm.awaitReconnect(session, reconnected); err != nil {
			return connErr
		}
		// the message is resent on the new connection
		return session.writeToConnWithRetry(msg, msgType)

	default:
		return connErr
	}
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		conn, reconnected := session.connState()
		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		// the conn was swapped (and closed) under the blocked read
		if isReplaced(reconnected) {
			session.logger.Info("reading from reconnected conn", "remote", session.remoteAddr())
			retries = 0
			continue
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.awaitReconnect(session, reconnected); err != nil {
				return -1, []byte{}, err
			}
			retries = 0

		default:
			return -1, []byte{}, err
		}
	}
}

// FetchCodeFromMsg reads only the "code" field. A message without it
// yields CodeSignalAbsent.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return CodeSignalAbsent, nil
	}

	return *signal.Code, nil
}
