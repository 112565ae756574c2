package battleship

import (
	"github.com/dolthub/swiss"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Result uint8

const (
	ResultMiss Result = iota
	ResultHit
)

func (r Result) String() string {
	if r == ResultHit {
		return "hit"
	}
	return "miss"
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hit":
		*r = ResultHit
	default:
		*r = ResultMiss
	}
	return nil
}

// Cell labels as rendered by Board.Label.
const (
	LabelUnknown     rune = '.'
	LabelHiddenHit   rune = 'H'
	LabelHiddenMiss  rune = 'M'
	LabelRevealMiss  rune = '@'
	LabelRevealEmpty rune = '.'
)

// SegmentRef points at a segment by ship kind and segment index. Cells
// hold this instead of a pointer so ownership stays with the Ship.
type SegmentRef struct {
	Ship  ShipKind
	Index int
}

type Cell struct {
	occupant SegmentRef
	occupied bool
	targeted bool
}

func (c Cell) Occupant() (SegmentRef, bool) {
	return c.occupant, c.occupied
}

func (c Cell) IsTargeted() bool {
	return c.targeted
}

// Board owns the 100 cells of one player and the exclusion set used while
// the fleet is being placed.
type Board struct {
	cells     [BoardCells]Cell
	exclusion *swiss.Map[Address, struct{}]
	fleet     *Fleet
}

func NewBoard(fleet *Fleet) *Board {
	return &Board{
		exclusion: swiss.NewMap[Address, struct{}](BoardCells),
		fleet:     fleet,
	}
}

func (b *Board) Cell(addr Address) Cell {
	return b.cells[addr.Index()]
}

func (b *Board) IsTargeted(addr Address) bool {
	return b.cells[addr.Index()].targeted
}

func (b *Board) IsExcluded(addr Address) bool {
	return b.exclusion.Has(addr)
}

// Excluded returns the exclusion set sorted by index.
func (b *Board) Excluded() []Address {
	excluded := make([]Address, 0, b.exclusion.Count())
	b.exclusion.Iter(func(addr Address, _ struct{}) bool {
		excluded = append(excluded, addr)
		return false
	})
	SortAddresses(excluded)
	return excluded
}

func (b *Board) ExcludedCount() int {
	return b.exclusion.Count()
}

func (b *Board) IsLegalPlacement(addrs []Address) bool {
	for _, addr := range addrs {
		if b.exclusion.Has(addr) {
			return false
		}
	}
	return true
}

// Place puts the ship's segments on addrs one to one, in order. The caller
// checks IsLegalPlacement first. Every placed address and every neighbor of
// the run joins the exclusion set.
func (b *Board) Place(ship *Ship, addrs []Address) {
	for i, addr := range addrs {
		b.cells[addr.Index()].occupant = SegmentRef{Ship: ship.kind, Index: i}
		b.cells[addr.Index()].occupied = true
	}
	ship.markPlaced(addrs)

	for _, addr := range addrs {
		b.exclusion.Put(addr, struct{}{})
	}
	for _, addr := range Neighbors(addrs...) {
		b.exclusion.Put(addr, struct{}{})
	}
}

// Attack resolves a shot. A cell can be resolved only once.
func (b *Board) Attack(addr Address) (Result, error) {
	if !addr.IsValid() {
		return ResultMiss, cerr.ErrAddressFormat(addr.String())
	}

	cell := &b.cells[addr.Index()]
	if cell.targeted {
		return ResultMiss, cerr.ErrPositionAlreadyTargeted(addr.String())
	}
	cell.targeted = true

	if !cell.occupied {
		return ResultMiss, nil
	}

	if ship := b.fleet.Ship(cell.occupant.Ship); ship != nil {
		ship.hitSegment(cell.occupant.Index)
	}
	return ResultHit, nil
}

// Label derives the display label of a cell. With reveal the owner's view
// is produced, otherwise what the attacker is allowed to see.
func (b *Board) Label(addr Address, reveal bool) rune {
	cell := b.cells[addr.Index()]

	if !reveal {
		switch {
		case !cell.targeted:
			return LabelUnknown
		case cell.occupied:
			return LabelHiddenHit
		default:
			return LabelHiddenMiss
		}
	}

	if !cell.occupied {
		if cell.targeted {
			return LabelRevealMiss
		}
		return LabelRevealEmpty
	}

	ship := b.fleet.Ship(cell.occupant.Ship)
	if ship == nil {
		return '?'
	}
	return ship.SegmentLabel(cell.occupant.Index)
}
