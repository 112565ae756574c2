package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal/config"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
	"github.com/saeidalz13/battleship-solo/models/match"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

type Option func(*RequestProcessor)

func WithLogger(logger *log.Logger) Option {
	return func(rp *RequestProcessor) {
		if logger != nil {
			rp.logger = logger
		}
	}
}

// WithSeed fixes the seed of every game that does not bring its own.
func WithSeed(seed uint64) Option {
	return func(rp *RequestProcessor) {
		rp.seed = seed
	}
}

func WithWebsocketConfig(cfg config.WebsocketConfig) Option {
	return func(rp *RequestProcessor) {
		rp.upgrader.HandshakeTimeout = cfg.HandshakeTimeout
		rp.upgrader.ReadBufferSize = cfg.ReadBufferSize
		rp.upgrader.WriteBufferSize = cfg.WriteBufferSize
	}
}

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    match.GameManager
	analytics      *sqlc.AnalyticsManager
	ipnet          net.IPNet
	upgrader       websocket.Upgrader
	seed           uint64
	logger         *log.Logger
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager match.GameManager,
	analytics *sqlc.AnalyticsManager,
	opts ...Option,
) *RequestProcessor {
	wsCfg := config.DefaultServer().Websocket
	rp := &RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		analytics:      analytics,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: wsCfg.HandshakeTimeout,
			ReadBufferSize:   wsCfg.ReadBufferSize,
			WriteBufferSize:  wsCfg.WriteBufferSize,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(rp)
	}

	ipnet, err := findServerIpNet()
	if err != nil {
		rp.logger.Warn("falling back to loopback for analytics", "err", err)
		ipnet = net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(8, 32)}
	}
	rp.ipnet = ipnet
	return rp
}

// Analytics rows are keyed by the first non-loopback IPv4 of this host.
func findServerIpNet() (net.IPNet, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return net.IPNet{}, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			return net.IPNet{}, err
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipnet.IP; ip.To4() != nil && !ip.IsLoopback() {
				return *ipnet, nil
			}
		}
	}

	return net.IPNet{}, errors.New("ipnet could not be found")
}

// Expose this method to use it in testing
func (rp *RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := rp.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		rp.logger.Error("could not open websocket connection", "err", err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	if sessionIdQuery == "" {
		rp.logger.Info("a new connection established", "remote", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))
		return
	}

	rp.reconnect(sessionIdQuery, conn)
}

// The session loop of the old connection keeps running; it only gets the
// new connection handed over.
func (rp *RequestProcessor) reconnect(sessionId string, conn *websocket.Conn) {
	session, err := rp.sessionManager.FindSession(sessionId)
	if err != nil {
		msg := mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID)
		msg.AddError(err.Error(), "session cannot be resumed")
		_ = conn.WriteJSON(msg)
		_ = conn.Close()
		return
	}

	msg := mc.NewMessage[mc.RespSessionId](mc.CodeSessionReconnected)
	msg.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := conn.WriteJSON(msg); err != nil {
		_ = conn.Close()
		return
	}

	rp.sessionManager.ReconnectSession(session, conn)
	rp.logger.Info("session reconnected", "session", sessionId, "remote", conn.RemoteAddr().String())
}

func (rp *RequestProcessor) serverInet() pqtype.Inet {
	return pqtype.Inet{IPNet: rp.ipnet, Valid: true}
}

func (rp *RequestProcessor) recordGameCreated() {
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	// analytics never kills a game
	if err := rp.analytics.IncrementGamesCreatedCount(ctx, rp.serverInet()); err != nil {
		rp.logger.Error("analytics: games created", "err", err)
	}
}

func (rp *RequestProcessor) recordGameFinished(game *match.Game) {
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	winner, _ := game.Winner()
	if err := rp.analytics.IncrementGamesFinishedCount(ctx, rp.serverInet(), winner == mb.PlayerCpu); err != nil {
		rp.logger.Error("analytics: games finished", "err", err)
	}
}

// opponentTurn runs the engine's shot when it is due and closes the game
// if that shot ended it.
func (rp *RequestProcessor) opponentTurn(session *mc.Session, game *match.Game) error {
	respMsg, due := HandleOpponentAttack(game)
	if !due {
		return nil
	}
	if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
		return err
	}
	return rp.endGameIfFinished(session, game)
}

func (rp *RequestProcessor) endGameIfFinished(session *mc.Session, game *match.Game) error {
	if !game.IsFinished() {
		return nil
	}
	rp.recordGameFinished(game)
	return rp.sessionManager.WriteToSessionConn(session, NewEndGameMessage(game), mc.MessageTypeJSON)
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()
	logger := rp.logger.With("session", sessionId)

	defer func() {
		if game := session.Game(); game != nil {
			rp.gameManager.TerminateGame(game.Uuid())
		}
		if conn := session.Conn(); conn != nil {
			_ = conn.Close()
		}
		rp.sessionManager.TerminateSession(session)
		logger.Info("session terminated")
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// retries are already spent at this point
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil || code == mc.CodeSignalAbsent {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err := rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		game := session.Game()
		req := NewRequest(payload)

		switch code {
		// One game per session; creating again replaces the previous one.
		case mc.CodeCreateGame:
			newGame, respMsg := req.HandleCreateGame(rp.gameManager, rp.seed)
			if newGame != nil {
				if game != nil {
					rp.gameManager.TerminateGame(game.Uuid())
				}
				session.SetGame(newGame)
				rp.recordGameCreated()
				logger.Info("game created", "game", newGame.Uuid())
			}
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodePlaceShip:
			if err := rp.sessionManager.WriteToSessionConn(session, req.HandlePlaceShip(game), mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeAutoPlace:
			if err := rp.sessionManager.WriteToSessionConn(session, req.HandleAutoPlace(game), mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// The coin toss may hand the first shot to the opponent, which
		// then fires right away.
		case mc.CodeStartGame:
			respMsg := req.HandleStartGame(game)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}
			if err := rp.opponentTurn(session, game); err != nil {
				break sessionLoop
			}

		// After the player's shot the opponent answers within the same
		// request unless the player just won.
		case mc.CodeAttack:
			respMsg := req.HandleAttack(game)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}
			if err := rp.endGameIfFinished(session, game); err != nil {
				break sessionLoop
			}
			if err := rp.opponentTurn(session, game); err != nil {
				break sessionLoop
			}

		case mc.CodeFleetStatus:
			if err := rp.sessionManager.WriteToSessionConn(session, HandleFleetStatus(game), mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeBoard:
			if err := rp.sessionManager.WriteToSessionConn(session, req.HandleBoard(game), mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// Leaving the game ends the session.
		case mc.CodeEndGame:
			break sessionLoop

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}
