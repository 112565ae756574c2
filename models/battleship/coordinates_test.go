package battleship

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func TestParseAddressRoundTrip(t *testing.T) {
	seen := make(map[int]bool, BoardCells)
	for col := 'A'; col <= 'J'; col++ {
		for row := 1; row <= BoardSize; row++ {
			raw := fmt.Sprintf("%c%d", col, row)

			addr, err := ParseAddress(raw)
			require.NoError(t, err, raw)
			assert.Equal(t, raw, addr.String())

			fromIndex, err := AddressFromIndex(addr.Index())
			require.NoError(t, err)
			assert.Equal(t, addr, fromIndex)

			assert.False(t, seen[addr.Index()], "index %d used twice", addr.Index())
			seen[addr.Index()] = true
		}
	}
	assert.Len(t, seen, BoardCells)
}

func TestParseAddressInvalid(t *testing.T) {
	tests := []string{"", "A", "K1", "A0", "A11", "a1", "A01", "A1 ", " A1", "1A", "A-1", "A+1", "J100"}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseAddress(raw)
			require.ErrorIs(t, err, cerr.ErrInvalidFormat)
		})
	}
}

func TestIndexIsRowMajor(t *testing.T) {
	assert.Equal(t, 0, MustParseAddress("A1").Index())
	assert.Equal(t, 9, MustParseAddress("J1").Index())
	assert.Equal(t, 10, MustParseAddress("A2").Index())
	assert.Equal(t, 44, MustParseAddress("E5").Index())
	assert.Equal(t, 99, MustParseAddress("J10").Index())

	_, err := AddressFromIndex(BoardCells)
	require.ErrorIs(t, err, cerr.ErrInvalidFormat)
	_, err = AddressFromIndex(-1)
	require.ErrorIs(t, err, cerr.ErrInvalidFormat)
}

func TestStepBoundaries(t *testing.T) {
	failures := 0
	for _, addr := range AllAddresses() {
		for _, d := range Directions {
			next, err := addr.Step(d)

			edge := (d == North && addr.Row == 1) ||
				(d == South && addr.Row == BoardSize) ||
				(d == West && addr.Col == 1) ||
				(d == East && addr.Col == BoardSize)
			if edge {
				require.ErrorIs(t, err, cerr.ErrOutOfBounds, "%s %s", addr, d)
				failures++
				continue
			}

			require.NoError(t, err, "%s %s", addr, d)
			assert.True(t, next.IsValid())
			back, err := next.Step(d.Opposite())
			require.NoError(t, err)
			assert.Equal(t, addr, back)
		}
	}
	assert.Equal(t, 4*BoardSize, failures)
}

func TestStep(t *testing.T) {
	e5 := MustParseAddress("E5")

	tests := []struct {
		d        Direction
		expected string
	}{
		{North, "E4"},
		{South, "E6"},
		{East, "F5"},
		{West, "D5"},
	}

	for _, test := range tests {
		next, err := e5.Step(test.d)
		require.NoError(t, err)
		assert.Equal(t, test.expected, next.String())
	}

	_, err := e5.Step(Direction(0))
	require.ErrorIs(t, err, cerr.ErrInvalidDirection)
}

func TestNeighbors(t *testing.T) {
	tests := []struct {
		addr     string
		expected []string
	}{
		{"A1", []string{"A2", "B1"}},
		{"J10", []string{"J9", "I10"}},
		{"A5", []string{"A4", "A6", "B5"}},
		{"E5", []string{"E4", "E6", "F5", "D5"}},
	}

	for _, test := range tests {
		t.Run(test.addr, func(t *testing.T) {
			var got []string
			for _, n := range MustParseAddress(test.addr).Neighbors() {
				got = append(got, n.String())
			}
			assert.Equal(t, test.expected, got)
		})
	}

	total := 0
	for _, addr := range AllAddresses() {
		total += len(addr.Neighbors())
	}
	// 4 corners, 32 edge cells, 64 interior cells
	assert.Equal(t, 4*2+32*3+64*4, total)
}

func TestNeighborsOfRun(t *testing.T) {
	run, err := Run(MustParseAddress("B2"), East, 4)
	require.NoError(t, err)

	var got []string
	for _, n := range Neighbors(run...) {
		got = append(got, n.String())
	}
	assert.Equal(t, []string{"B1", "C1", "D1", "E1", "A2", "F2", "B3", "C3", "D3", "E3"}, got)
}

func TestRun(t *testing.T) {
	run, err := Run(MustParseAddress("J7"), South, 4)
	require.NoError(t, err)
	assert.Equal(t, []Address{
		MustParseAddress("J7"), MustParseAddress("J8"), MustParseAddress("J9"), MustParseAddress("J10"),
	}, run)

	_, err = Run(MustParseAddress("J8"), South, 4)
	require.ErrorIs(t, err, cerr.ErrOutOfBounds)
}

func TestParseDirection(t *testing.T) {
	for raw, expected := range map[string]Direction{
		"N": North, "north": North, "S": South, "South": South, "e": East, "EAST": East, "W": West, " west ": West,
	} {
		d, err := ParseDirection(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, expected, d)
	}

	_, err := ParseDirection("up")
	require.ErrorIs(t, err, cerr.ErrInvalidDirection)
}
