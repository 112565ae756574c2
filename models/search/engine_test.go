package search

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// scriptedRand answers from a fixed script and then 0, clamped to n.
type scriptedRand struct {
	script []int
}

func newScriptedRand(script ...int) *scriptedRand {
	return &scriptedRand{script: script}
}

func (s *scriptedRand) IntN(n int) int {
	if len(s.script) == 0 {
		return 0
	}
	v := s.script[0]
	s.script = s.script[1:]
	return min(v, n-1)
}

// stubFoe knows ship footprints only. With silent it never names the sunk
// ship, so the engine has to notice through SunkCount.
type stubFoe struct {
	ships    [][]mb.Address
	targeted map[mb.Address]bool
	sunk     int
	silent   bool
}

func newStubFoe(silent bool, ships ...[]mb.Address) *stubFoe {
	return &stubFoe{ships: ships, targeted: make(map[mb.Address]bool), silent: silent}
}

func (f *stubFoe) ReceiveAttack(addr mb.Address) (mb.Report, error) {
	if f.targeted[addr] {
		return mb.Report{}, cerr.ErrPositionAlreadyTargeted(addr.String())
	}
	f.targeted[addr] = true

	report := mb.Report{Address: addr, Result: mb.ResultMiss}
	for _, ship := range f.ships {
		if !contains(ship, addr) {
			continue
		}
		report.Result = mb.ResultHit
		for _, cell := range ship {
			if !f.targeted[cell] {
				return report, nil
			}
		}
		f.sunk++
		if !f.silent {
			report.Sunk = mb.ShipDestroyer
		}
	}
	return report, nil
}

func (f *stubFoe) SunkCount() int {
	return f.sunk
}

func contains(addrs []mb.Address, addr mb.Address) bool {
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}

func run(t *testing.T, start string, d mb.Direction, length int) []mb.Address {
	t.Helper()
	r, err := mb.Run(mb.MustParseAddress(start), d, length)
	require.NoError(t, err)
	return r
}

func allBut(keep ...mb.Address) []mb.Address {
	var rest []mb.Address
	for _, addr := range mb.AllAddresses() {
		if !contains(keep, addr) {
			rest = append(rest, addr)
		}
	}
	return rest
}

func TestExhaustedPool(t *testing.T) {
	last := mb.MustParseAddress("F6")
	engine := NewEngine(newStubFoe(false), newScriptedRand())

	shot, err := engine.NextMove(allBut(last)...)
	require.NoError(t, err)
	assert.Equal(t, last, shot.Address)
	assert.Equal(t, mb.ResultMiss, shot.Result)
	assert.Equal(t, ModeHunt, shot.Mode)
	assert.Zero(t, engine.Available())

	_, err = engine.NextMove()
	require.ErrorIs(t, err, cerr.ErrPoolExhausted)
}

func TestAnchorCommitReverse(t *testing.T) {
	destroyer := run(t, "D5", mb.East, 3)
	foe := newStubFoe(false, destroyer)

	// E5 is index 44 of the untouched pool; 2 picks East out of N, S, E, W
	engine := NewEngine(foe, newScriptedRand(44, 2))

	steps := []struct {
		addr      string
		result    mb.Result
		mode      Mode
		committed mb.Direction
	}{
		{"E5", mb.ResultHit, ModeTarget, 0},
		{"F5", mb.ResultHit, ModeTarget, mb.East},
		{"G5", mb.ResultMiss, ModeTarget, mb.West},
		{"D5", mb.ResultHit, ModeHunt, 0},
	}

	for i, step := range steps {
		shot, err := engine.NextMove()
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.addr, shot.Address.String(), "step %d", i)
		assert.Equal(t, step.result, shot.Result, "step %d", i)
		assert.Equal(t, step.mode, engine.Mode(), "step %d", i)

		d, _ := engine.Committed()
		assert.Equal(t, step.committed, d, "step %d", i)

		if engine.Mode() == ModeTarget {
			anchor, ok := engine.Anchor()
			require.True(t, ok)
			assert.Equal(t, "E5", anchor.String())
		}
	}

	assert.Equal(t, 1, foe.SunkCount())
	assert.Equal(t, []int{0, 0, 0, 0, 1}, engine.SunkHistory())

	// footprint plus its 8 neighbors left the pool
	assert.Equal(t, mb.BoardCells-11, engine.Available())
	for _, addr := range append(destroyer, mb.Neighbors(destroyer...)...) {
		assert.False(t, engine.IsAvailable(addr), addr.String())
	}
	assert.Empty(t, engine.Sequence())
}

func TestSinkDetectedThroughSunkCount(t *testing.T) {
	cruiser := run(t, "C1", mb.East, 2)
	foe := newStubFoe(true, cruiser)

	// C1 is index 2; 2 picks East
	engine := NewEngine(foe, newScriptedRand(2, 2))

	shot, err := engine.NextMove()
	require.NoError(t, err)
	assert.Equal(t, "C1", shot.Address.String())

	shot, err = engine.NextMove()
	require.NoError(t, err)
	assert.Equal(t, "D1", shot.Address.String())
	assert.False(t, shot.IsSinking())

	assert.Equal(t, ModeHunt, engine.Mode())
	assert.False(t, engine.IsAvailable(mb.MustParseAddress("E1")))
	assert.False(t, engine.IsAvailable(mb.MustParseAddress("C2")))
}

func TestHoleElimination(t *testing.T) {
	cruiser := run(t, "C1", mb.East, 2)
	foe := newStubFoe(false, cruiser)
	engine := NewEngine(foe, newScriptedRand(2, 2))

	// A1 keeps B1 as its only neighbor once A2 is gone
	a1, a2 := mb.MustParseAddress("A1"), mb.MustParseAddress("A2")

	_, err := engine.NextMove(a2)
	require.NoError(t, err)
	assert.True(t, engine.IsAvailable(a1))

	shot, err := engine.NextMove()
	require.NoError(t, err)
	require.True(t, shot.IsSinking())

	assert.False(t, engine.IsAvailable(a1))
	// A2, C1, D1, B1, E1, C2, D2 and the A1 hole
	assert.Equal(t, mb.BoardCells-8, engine.Available())

	for _, addr := range engine.AvailableAddresses() {
		neighbors := 0
		for _, n := range addr.Neighbors() {
			if engine.IsAvailable(n) {
				neighbors++
			}
		}
		assert.NotZero(t, neighbors, "%s is a hole", addr)
	}
}

func TestRejectedAlreadyTargeted(t *testing.T) {
	foe := newStubFoe(false)
	a1, b1 := mb.MustParseAddress("A1"), mb.MustParseAddress("B1")

	// A1 was resolved behind the engine's back
	_, err := foe.ReceiveAttack(a1)
	require.NoError(t, err)

	engine := NewEngine(foe, newScriptedRand())
	shot, err := engine.NextMove(allBut(a1, b1)...)
	require.NoError(t, err)
	assert.Equal(t, b1, shot.Address)
	assert.Zero(t, engine.Available())
}

func TestEngineSinksFleet(t *testing.T) {
	for seed := uint64(1); seed <= 100; seed++ {
		rng := rand.New(rand.NewPCG(seed, 42))
		defender := mb.NewPlayer(mb.PlayerHuman, "defender")
		require.NoError(t, defender.AutoPlace(rng, 0))

		engine := NewEngine(defender, rng)
		seen := make(map[mb.Address]bool, mb.BoardCells)
		available := engine.Available()

		for !defender.AllShipsSunk() {
			require.Less(t, len(seen), mb.BoardCells, "seed %d", seed)

			shot, err := engine.NextMove()
			require.NoError(t, err, "seed %d", seed)
			require.False(t, seen[shot.Address], "seed %d: %s attacked twice", seed, shot.Address)
			seen[shot.Address] = true

			// pool only shrinks
			require.Less(t, engine.Available(), available)
			available = engine.Available()
		}
		assert.Equal(t, mb.FleetSize, defender.SunkCount())
	}
}

func TestPool(t *testing.T) {
	p := newPool()
	require.Equal(t, mb.BoardCells, p.Len())

	e5 := mb.MustParseAddress("E5")
	assert.True(t, p.Remove(e5))
	assert.False(t, p.Remove(e5))
	assert.False(t, p.Has(e5))
	assert.Equal(t, mb.BoardCells-1, p.Len())

	for _, n := range e5.Neighbors() {
		assert.Equal(t, 3, p.AvailableNeighbors(n))
	}

	snapshot := p.Snapshot()
	assert.Len(t, snapshot, mb.BoardCells-1)
	for i := 1; i < len(snapshot); i++ {
		assert.Less(t, snapshot[i-1].Index(), snapshot[i].Index())
	}

	for p.Len() > 0 {
		addr := p.Pick(newScriptedRand(p.Len() - 1))
		require.True(t, p.Remove(addr))
	}
	assert.Empty(t, p.Snapshot())
}
