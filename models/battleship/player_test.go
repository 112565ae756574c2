package battleship

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func TestPlayerReceiveAttack(t *testing.T) {
	defender := NewPlayer(PlayerHuman, "defender")
	attacker := NewPlayer(PlayerCpu, "attacker")
	require.NoError(t, defender.PlaceShip(ShipCruiser, MustParseAddress("C3"), South))

	shots := []struct {
		addr   string
		result Result
		sunk   ShipKind
	}{
		{"C2", ResultMiss, ShipUnknown},
		{"C3", ResultHit, ShipUnknown},
		{"C4", ResultHit, ShipCruiser},
	}

	for _, shot := range shots {
		report, err := defender.ReceiveAttack(MustParseAddress(shot.addr))
		require.NoError(t, err)
		assert.Equal(t, shot.result, report.Result, shot.addr)
		assert.Equal(t, shot.sunk, report.Sunk, shot.addr)
		attacker.Record(report)
	}

	assert.Equal(t, 1, defender.SunkCount())
	assert.False(t, defender.AllShipsSunk())
	assert.Equal(t, "MHH", attacker.History())
	assert.Equal(t, addrs("C3", "C4"), attacker.Hits())
	assert.Equal(t, addrs("C2"), attacker.Misses())
	assert.Len(t, attacker.Targeted(), 3)

	_, err := defender.ReceiveAttack(MustParseAddress("C3"))
	require.ErrorIs(t, err, cerr.ErrAlreadyTargeted)
	assert.Equal(t, 1, defender.SunkCount())
}

func TestReportJSON(t *testing.T) {
	report := Report{Address: MustParseAddress("J10"), Result: ResultHit, Sunk: ShipSubmarine}
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":"J10","result":"hit","sunk":"Submarine"}`, string(data))

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report, decoded)
	assert.True(t, decoded.IsSinking())
}
