package battleship

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always answers the same value, clamped to n.
type fixedRand int

func (f fixedRand) IntN(n int) int {
	return min(int(f), n-1)
}

func TestAutoPlace(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		fleet := NewFleet()
		board := NewBoard(fleet)

		require.NoError(t, AutoPlace(board, fleet, rand.New(rand.NewPCG(seed, seed)), 0))
		require.True(t, fleet.AllPlaced())

		occupied := 0
		for _, addr := range AllAddresses() {
			if _, ok := board.Cell(addr).Occupant(); ok {
				occupied++
			}
		}
		assert.Equal(t, 5+4+3+3+2, occupied)

		// no two ships touch orthogonally
		for _, ship := range fleet.Ships() {
			for _, n := range Neighbors(ship.Footprint()...) {
				ref, ok := board.Cell(n).Occupant()
				assert.False(t, ok, "seed %d: %s touches %s at %s", seed, ship.Kind(), ref.Ship, n)
			}
		}
	}
}

func TestAutoPlaceKeepsManualShips(t *testing.T) {
	fleet := NewFleet()
	board := NewBoard(fleet)
	require.NoError(t, PlaceShip(board, fleet, ShipCarrier, MustParseAddress("A1"), East))

	require.NoError(t, AutoPlace(board, fleet, rand.New(rand.NewPCG(3, 4)), 0))
	assert.Equal(t, addrs("A1", "B1", "C1", "D1", "E1"), fleet.Ship(ShipCarrier).Footprint())
	assert.Empty(t, fleet.Unplaced())
}

func TestAutoPlaceGivesUp(t *testing.T) {
	fleet := NewFleet()
	board := NewBoard(fleet)

	// always A1 heading North, which leaves the board
	err := AutoPlace(board, fleet, fixedRand(0), 5)
	require.Error(t, err)
	assert.ErrorContains(t, err, "after 5 attempts")
	assert.Equal(t, []ShipKind{ShipCarrier, ShipBattleship, ShipDestroyer, ShipSubmarine, ShipCruiser}, fleet.Unplaced())
}
