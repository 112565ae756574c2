package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// DefaultAutoPlaceAttempts bounds the random tries per ship in AutoPlace.
const DefaultAutoPlaceAttempts = 1000

// Rand is the injected source of uniform randomness. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// PlaceShip places one ship of the fleet starting at start heading d.
func PlaceShip(board *Board, fleet *Fleet, kind ShipKind, start Address, d Direction) error {
	ship := fleet.Ship(kind)
	if ship == nil {
		return cerr.ErrShipKindFormat(kind.String())
	}
	if ship.placed {
		return cerr.ErrShipPlaced(kind.String())
	}
	if !d.IsValid() {
		return cerr.ErrDirectionFormat(d.String())
	}

	run, err := Run(start, d, kind.Length())
	if err != nil {
		return cerr.ErrPlacementOutOfBounds(kind.String(), start.String(), d.String())
	}
	if !board.IsLegalPlacement(run) {
		return cerr.ErrPlacementTouching(kind.String(), start.String(), d.String())
	}

	board.Place(ship, run)
	return nil
}

// AutoPlace places every ship that is not placed yet at a random legal
// position. maxAttempts <= 0 means DefaultAutoPlaceAttempts.
func AutoPlace(board *Board, fleet *Fleet, rng Rand, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultAutoPlaceAttempts
	}

	for _, kind := range fleet.Unplaced() {
		placed := false
		for attempt := 0; attempt < maxAttempts; attempt++ {
			start, _ := AddressFromIndex(rng.IntN(BoardCells))
			d := Directions[rng.IntN(len(Directions))]
			if err := PlaceShip(board, fleet, kind, start, d); err != nil {
				continue
			}
			placed = true
			break
		}
		if !placed {
			return cerr.ErrAutoPlacementFailed(kind.String(), maxAttempts)
		}
	}
	return nil
}
