package match

import (
	"fmt"

	"github.com/charmbracelet/log"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	"github.com/saeidalz13/battleship-solo/models/search"
)

type SimulationResult struct {
	Seed    uint64 `json:"seed"`
	Shots   int    `json:"shots"`
	Hits    int    `json:"hits"`
	History string `json:"history"`
}

// Simulate lets the engine play against a randomly placed fleet until the
// whole fleet is sunk. Every shot removes a cell from the pool, so a game
// that needs more than one shot per cell means the engine is broken.
func Simulate(seed uint64, logger *log.Logger) (SimulationResult, error) {
	rng := NewRand(seed)

	defender := mb.NewPlayer(mb.PlayerHuman, "target")
	if err := defender.AutoPlace(rng, 0); err != nil {
		return SimulationResult{}, err
	}
	attacker := mb.NewPlayer(mb.PlayerCpu, CpuName)
	engine := search.NewEngine(defender, rng, search.WithLogger(logger))

	for !defender.AllShipsSunk() {
		if len(attacker.Targeted()) >= mb.BoardCells {
			return SimulationResult{}, fmt.Errorf("seed %d: fleet still afloat after %d shots", seed, mb.BoardCells)
		}
		shot, err := engine.NextMove()
		if err != nil {
			return SimulationResult{}, fmt.Errorf("seed %d: %w", seed, err)
		}
		attacker.Record(shot.Report)
	}

	return SimulationResult{
		Seed:    seed,
		Shots:   len(attacker.Targeted()),
		Hits:    len(attacker.Hits()),
		History: attacker.History(),
	}, nil
}
