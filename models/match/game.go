package match

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	"github.com/saeidalz13/battleship-solo/models/search"
)

const CpuName = "Camden"

// NewRand returns a seeded generator; the same seed replays the same game.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type Option func(*Game)

func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithHumanName(name string) Option {
	return func(g *Game) {
		if name != "" {
			g.humanName = name
		}
	}
}

func WithPlacementAttempts(attempts int) Option {
	return func(g *Game) {
		g.placementAttempts = attempts
	}
}

// Game is one human against the scripted opponent. It is driven by a
// single goroutine and is not safe for concurrent use.
type Game struct {
	uuid      string
	createdAt time.Time
	humanName string

	human  *mb.Player
	cpu    *mb.Player
	engine *search.Engine

	rng               mb.Rand
	placementAttempts int
	logger            *log.Logger

	turn     mb.PlayerKind
	started  bool
	finished bool
}

// NewGame creates the game and places the CPU fleet right away. The human
// fleet is placed through PlaceHumanShip or AutoPlaceHuman.
func NewGame(gameUuid string, rng mb.Rand, opts ...Option) (*Game, error) {
	g := &Game{
		uuid:      gameUuid,
		createdAt: time.Now(),
		humanName: "Player",
		rng:       rng,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("game", gameUuid)

	// both sides are reported by name
	if g.humanName == CpuName {
		return nil, cerr.ErrReservedName(g.humanName)
	}

	g.human = mb.NewPlayer(mb.PlayerHuman, g.humanName)
	g.cpu = mb.NewPlayer(mb.PlayerCpu, CpuName)

	if err := g.cpu.AutoPlace(g.rng, g.placementAttempts); err != nil {
		return nil, err
	}
	g.logger.Debug("cpu fleet placed")
	return g, nil
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

func (g *Game) Human() *mb.Player {
	return g.human
}

func (g *Game) Cpu() *mb.Player {
	return g.cpu
}

// Engine is nil until the game starts.
func (g *Game) Engine() *search.Engine {
	return g.engine
}

func (g *Game) Turn() mb.PlayerKind {
	return g.turn
}

func (g *Game) IsStarted() bool {
	return g.started
}

func (g *Game) IsFinished() bool {
	return g.finished
}

func (g *Game) IsReadyToStart() bool {
	return !g.started && g.human.Fleet().AllPlaced()
}

func (g *Game) PlaceHumanShip(kind mb.ShipKind, start mb.Address, d mb.Direction) error {
	if g.started {
		return cerr.ErrGameAlreadyStarted
	}
	return g.human.PlaceShip(kind, start, d)
}

func (g *Game) AutoPlaceHuman() error {
	if g.started {
		return cerr.ErrGameAlreadyStarted
	}
	return g.human.AutoPlace(g.rng, g.placementAttempts)
}

// Start tosses the coin and returns who shoots first.
func (g *Game) Start() (mb.PlayerKind, error) {
	if g.started {
		return g.turn, cerr.ErrGameAlreadyStarted
	}
	if !g.human.Fleet().AllPlaced() {
		return g.turn, cerr.ErrFleetNotPlaced
	}

	g.turn = mb.PlayerHuman
	if g.rng.IntN(2) == 1 {
		g.turn = mb.PlayerCpu
	}
	g.engine = search.NewEngine(g.human, g.rng, search.WithLogger(g.logger.WithPrefix(CpuName)))
	g.started = true

	g.logger.Info("game started", "first", g.turn)
	return g.turn, nil
}

func (g *Game) checkTurn(kind mb.PlayerKind) error {
	switch {
	case !g.started:
		return cerr.ErrGameNotStarted
	case g.finished:
		return cerr.ErrGameFinished
	case g.turn != kind:
		return cerr.ErrNotYourTurn
	}
	return nil
}

// HumanAttack resolves the human's shot. An already targeted address
// returns an error and the turn does not pass.
func (g *Game) HumanAttack(addr mb.Address) (mb.Report, error) {
	if err := g.checkTurn(mb.PlayerHuman); err != nil {
		return mb.Report{}, err
	}

	report, err := g.cpu.ReceiveAttack(addr)
	if err != nil {
		return mb.Report{}, err
	}
	g.human.Record(report)
	g.logger.Debug("human attack", "address", addr, "result", report.Result, "sunk", report.Sunk)

	g.endTurn()
	return report, nil
}

// CpuTurn lets the engine take its single shot.
func (g *Game) CpuTurn() (search.Shot, error) {
	if err := g.checkTurn(mb.PlayerCpu); err != nil {
		return search.Shot{}, err
	}

	shot, err := g.engine.NextMove()
	if err != nil {
		g.logger.Error("engine failed", "err", err, "available", g.engine.Available())
		return search.Shot{}, err
	}
	g.cpu.Record(shot.Report)

	g.endTurn()
	return shot, nil
}

func (g *Game) endTurn() {
	switch {
	case g.cpu.AllShipsSunk():
		g.finish(g.human, g.cpu)
	case g.human.AllShipsSunk():
		g.finish(g.cpu, g.human)
	case g.turn == mb.PlayerHuman:
		g.turn = mb.PlayerCpu
	default:
		g.turn = mb.PlayerHuman
	}
}

func (g *Game) finish(winner, loser *mb.Player) {
	g.finished = true
	winner.SetMatchStatus(mb.PlayerMatchStatusWon)
	loser.SetMatchStatus(mb.PlayerMatchStatusLost)
	g.logger.Info("game finished", "winner", winner.Name(), "shots", len(winner.Targeted()))
}

// Winner is only meaningful once the game is finished.
func (g *Game) Winner() (mb.PlayerKind, bool) {
	if !g.finished {
		return 0, false
	}
	if g.cpu.AllShipsSunk() {
		return mb.PlayerHuman, true
	}
	return mb.PlayerCpu, true
}
