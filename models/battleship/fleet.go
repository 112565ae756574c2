package battleship

// Fleet owns exactly five ships. Every ship is at all times either in the
// floating set or in the sunk set, never both and never neither.
type Fleet struct {
	ships    [FleetSize]*Ship
	floating []ShipKind
	sunk     []ShipKind
}

func NewFleet() *Fleet {
	f := &Fleet{
		floating: make([]ShipKind, 0, FleetSize),
		sunk:     make([]ShipKind, 0, FleetSize),
	}
	for i, kind := range ShipKinds {
		f.ships[i] = NewShip(kind)
		f.floating = append(f.floating, kind)
	}
	return f
}

// Ship returns nil for a kind the fleet does not own.
func (f *Fleet) Ship(kind ShipKind) *Ship {
	for _, ship := range f.ships {
		if ship.kind == kind {
			return ship
		}
	}
	return nil
}

func (f *Fleet) Ships() []*Ship {
	return f.ships[:]
}

func (f *Fleet) Floating() []ShipKind {
	floating := make([]ShipKind, len(f.floating))
	copy(floating, f.floating)
	return floating
}

func (f *Fleet) Sunk() []ShipKind {
	sunk := make([]ShipKind, len(f.sunk))
	copy(sunk, f.sunk)
	return sunk
}

func (f *Fleet) SunkCount() int {
	return len(f.sunk)
}

func (f *Fleet) IsFloating(kind ShipKind) bool {
	return indexOfKind(f.floating, kind) != -1
}

func (f *Fleet) IsSunk(kind ShipKind) bool {
	return indexOfKind(f.sunk, kind) != -1
}

// JustSunk returns the first ship still in the floating set whose segments
// are all hit, or nil.
func (f *Fleet) JustSunk() *Ship {
	for _, kind := range f.floating {
		if ship := f.Ship(kind); ship != nil && ship.WasSunk() {
			return ship
		}
	}
	return nil
}

// SinkShip moves the ship from floating to sunk. Already sunk or unowned
// kinds are ignored.
func (f *Fleet) SinkShip(kind ShipKind) {
	i := indexOfKind(f.floating, kind)
	if i == -1 {
		return
	}
	f.floating = append(f.floating[:i], f.floating[i+1:]...)
	f.sunk = append(f.sunk, kind)
}

// AllSunk checks both sets so that a ship missing from both is never
// reported as a win.
func (f *Fleet) AllSunk() bool {
	return len(f.floating) == 0 && len(f.sunk) == FleetSize
}

func (f *Fleet) AllPlaced() bool {
	for _, ship := range f.ships {
		if !ship.placed {
			return false
		}
	}
	return true
}

func (f *Fleet) Unplaced() []ShipKind {
	unplaced := make([]ShipKind, 0, FleetSize)
	for _, ship := range f.ships {
		if !ship.placed {
			unplaced = append(unplaced, ship.kind)
		}
	}
	return unplaced
}

func indexOfKind(kinds []ShipKind, kind ShipKind) int {
	for i, k := range kinds {
		if k == kind {
			return i
		}
	}
	return -1
}
