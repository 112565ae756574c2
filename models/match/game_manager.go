package match

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type GameManager interface {
	CreateGame(humanName string, seed uint64) (*Game, error)
	GetGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	Count() int
}

type BattleshipGameManager struct {
	games             map[string]*Game
	mu                sync.RWMutex
	placementAttempts int
	logger            *log.Logger
	newGameUuid       func() string
}

var _ GameManager = (*BattleshipGameManager)(nil)

func NewBattleshipGameManager(logger *log.Logger, placementAttempts int) *BattleshipGameManager {
	return &BattleshipGameManager{
		games:             make(map[string]*Game, 10),
		placementAttempts: placementAttempts,
		logger:            logger,
		newGameUuid:       func() string { return uuid.NewString()[:6] },
	}
}

// CreateGame registers a new game. A zero seed picks one from the clock.
func (bgm *BattleshipGameManager) CreateGame(humanName string, seed uint64) (*Game, error) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	// short ids can collide with a live game
	gameUuid := bgm.newGameUuid()
	for _, prs := bgm.games[gameUuid]; prs; _, prs = bgm.games[gameUuid] {
		bgm.logger.Warn("game uuid taken; regenerating", "game", gameUuid)
		gameUuid = bgm.newGameUuid()
	}

	game, err := NewGame(
		gameUuid,
		NewRand(seed),
		WithLogger(bgm.logger),
		WithHumanName(humanName),
		WithPlacementAttempts(bgm.placementAttempts),
	)
	if err != nil {
		return nil, err
	}

	bgm.games[gameUuid] = game
	return game, nil
}

func (bgm *BattleshipGameManager) GetGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExist(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) Count() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}
