package match

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// playOut alternates turns until the game ends. The human shoots the
// board in index order.
func playOut(t *testing.T, game *Game) {
	t.Helper()
	next := 0
	for !game.IsFinished() {
		if game.Turn() == mb.PlayerCpu {
			_, err := game.CpuTurn()
			require.NoError(t, err)
			continue
		}

		addr, err := mb.AddressFromIndex(next)
		require.NoError(t, err)
		next++

		_, err = game.HumanAttack(addr)
		require.NoError(t, err)
	}
}

func newStartedGame(t *testing.T, seed uint64) *Game {
	t.Helper()
	game, err := NewGame("test", NewRand(seed))
	require.NoError(t, err)
	require.NoError(t, game.AutoPlaceHuman())
	_, err = game.Start()
	require.NoError(t, err)
	return game
}

func TestNewGamePlacesCpuFleet(t *testing.T) {
	game, err := NewGame("abc123", NewRand(1), WithHumanName("Saeid"))
	require.NoError(t, err)

	assert.Equal(t, "abc123", game.Uuid())
	assert.Equal(t, "Saeid", game.Human().Name())
	assert.Equal(t, CpuName, game.Cpu().Name())
	assert.True(t, game.Cpu().Fleet().AllPlaced())
	assert.Len(t, game.Human().Fleet().Unplaced(), mb.FleetSize)
	assert.False(t, game.IsReadyToStart())
	assert.Nil(t, game.Engine())
}

func TestNewGameRejectsOpponentName(t *testing.T) {
	_, err := NewGame("abc123", NewRand(1), WithHumanName(CpuName))
	require.ErrorIs(t, err, cerr.ErrNameTaken)

	bgm := NewBattleshipGameManager(log.Default(), 0)
	_, err = bgm.CreateGame(CpuName, 1)
	require.ErrorIs(t, err, cerr.ErrNameTaken)
	assert.Zero(t, bgm.Count())
}

func TestGameTurnErrors(t *testing.T) {
	game, err := NewGame("turns", NewRand(7))
	require.NoError(t, err)

	_, err = game.HumanAttack(mb.MustParseAddress("A1"))
	require.ErrorIs(t, err, cerr.ErrGameNotStarted)
	_, err = game.CpuTurn()
	require.ErrorIs(t, err, cerr.ErrGameNotStarted)

	_, err = game.Start()
	require.ErrorIs(t, err, cerr.ErrFleetNotPlaced)

	require.NoError(t, game.PlaceHumanShip(mb.ShipCarrier, mb.MustParseAddress("A1"), mb.East))
	require.NoError(t, game.AutoPlaceHuman())
	assert.True(t, game.IsReadyToStart())

	first, err := game.Start()
	require.NoError(t, err)
	assert.Equal(t, first, game.Turn())
	assert.NotNil(t, game.Engine())

	_, err = game.Start()
	require.ErrorIs(t, err, cerr.ErrGameAlreadyStarted)
	err = game.PlaceHumanShip(mb.ShipCruiser, mb.MustParseAddress("J1"), mb.South)
	require.ErrorIs(t, err, cerr.ErrGameAlreadyStarted)

	if first == mb.PlayerCpu {
		_, err = game.HumanAttack(mb.MustParseAddress("A1"))
		require.ErrorIs(t, err, cerr.ErrNotYourTurn)

		_, err = game.CpuTurn()
		require.NoError(t, err)
	} else {
		_, err = game.CpuTurn()
		require.ErrorIs(t, err, cerr.ErrNotYourTurn)
	}

	// human turn now; a repeated address keeps the turn
	_, err = game.HumanAttack(mb.MustParseAddress("B2"))
	require.NoError(t, err)
	assert.Equal(t, mb.PlayerCpu, game.Turn())
	_, err = game.CpuTurn()
	require.NoError(t, err)

	_, err = game.HumanAttack(mb.MustParseAddress("B2"))
	require.ErrorIs(t, err, cerr.ErrAlreadyTargeted)
	assert.Equal(t, mb.PlayerHuman, game.Turn())
}

func TestGamePlaysToTheEnd(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		game := newStartedGame(t, seed)
		playOut(t, game)

		winner, ok := game.Winner()
		require.True(t, ok)

		human, cpu := game.Human(), game.Cpu()
		if winner == mb.PlayerHuman {
			assert.True(t, cpu.AllShipsSunk())
			assert.Equal(t, mb.PlayerMatchStatusWon, human.MatchStatus())
			assert.Equal(t, mb.PlayerMatchStatusLost, cpu.MatchStatus())
		} else {
			assert.True(t, human.AllShipsSunk())
			assert.Equal(t, mb.PlayerMatchStatusWon, cpu.MatchStatus())
			assert.Equal(t, mb.PlayerMatchStatusLost, human.MatchStatus())
		}

		// strict alternation: shot counts differ by at most one
		diff := len(human.Targeted()) - len(cpu.Targeted())
		assert.LessOrEqual(t, diff, 1)
		assert.GreaterOrEqual(t, diff, -1)

		_, err := game.HumanAttack(mb.MustParseAddress("J10"))
		require.ErrorIs(t, err, cerr.ErrGameFinished)
		_, err = game.CpuTurn()
		require.ErrorIs(t, err, cerr.ErrGameFinished)
	}
}

func TestSameSeedSameGame(t *testing.T) {
	a := newStartedGame(t, 2024)
	b := newStartedGame(t, 2024)
	playOut(t, a)
	playOut(t, b)

	assert.Equal(t, a.Cpu().Targeted(), b.Cpu().Targeted())
	assert.Equal(t, a.Cpu().History(), b.Cpu().History())
	assert.Equal(t, a.Human().History(), b.Human().History())

	for _, ship := range a.Cpu().Fleet().Ships() {
		assert.Equal(t, ship.Footprint(), b.Cpu().Fleet().Ship(ship.Kind()).Footprint())
	}
}
