package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate(t *testing.T) {
	for seed := uint64(1); seed <= 300; seed++ {
		res, err := Simulate(seed, nil)
		require.NoError(t, err, "seed %d", seed)

		assert.LessOrEqual(t, res.Shots, 100, "seed %d", seed)
		assert.Equal(t, 5+4+3+3+2, res.Hits, "seed %d", seed)
		assert.Equal(t, res.Hits, strings.Count(res.History, "H"))
		assert.Len(t, res.History, res.Shots)
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	a, err := Simulate(12345, nil)
	require.NoError(t, err)
	b, err := Simulate(12345, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
