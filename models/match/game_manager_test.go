package match

import (
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func TestGameManager(t *testing.T) {
	bgm := NewBattleshipGameManager(log.Default(), 0)

	game, err := bgm.CreateGame("Player", 99)
	require.NoError(t, err)
	assert.Len(t, game.Uuid(), 6)
	assert.Equal(t, 1, bgm.Count())

	found, err := bgm.GetGame(game.Uuid())
	require.NoError(t, err)
	assert.Same(t, game, found)

	bgm.TerminateGame(game.Uuid())
	assert.Zero(t, bgm.Count())

	_, err = bgm.GetGame(game.Uuid())
	require.ErrorIs(t, err, cerr.ErrGameNotExists)
}

func TestGameManagerConcurrentCreate(t *testing.T) {
	bgm := NewBattleshipGameManager(log.Default(), 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			game, err := bgm.CreateGame("", 0)
			if assert.NoError(t, err) {
				_, err = bgm.GetGame(game.Uuid())
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, bgm.Count())
}

func TestGameManagerUuidCollision(t *testing.T) {
	bgm := NewBattleshipGameManager(log.Default(), 0)
	ids := []string{"abc123", "abc123", "abc123", "def456"}
	bgm.newGameUuid = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := bgm.CreateGame("first", 1)
	require.NoError(t, err)
	second, err := bgm.CreateGame("second", 2)
	require.NoError(t, err)

	assert.Equal(t, "abc123", first.Uuid())
	assert.Equal(t, "def456", second.Uuid())
	assert.Equal(t, 2, bgm.Count())

	found, err := bgm.GetGame("abc123")
	require.NoError(t, err)
	assert.Same(t, first, found)
}
