package battleship

import (
	"strings"
	"unicode"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type ShipKind uint8

const (
	ShipUnknown ShipKind = iota
	ShipCarrier
	ShipBattleship
	ShipDestroyer
	ShipSubmarine
	ShipCruiser
)

const FleetSize = 5

// ShipKinds is the fleet in placement order.
var ShipKinds = [FleetSize]ShipKind{ShipCarrier, ShipBattleship, ShipDestroyer, ShipSubmarine, ShipCruiser}

type shipSpec struct {
	name   string
	length int
	label  rune
}

// Single source of truth for every per-kind constant.
var shipSpecs = map[ShipKind]shipSpec{
	ShipCarrier:    {name: "Carrier", length: 5, label: 'A'},
	ShipBattleship: {name: "Battleship", length: 4, label: 'B'},
	ShipDestroyer:  {name: "Destroyer", length: 3, label: 'D'},
	ShipSubmarine:  {name: "Submarine", length: 3, label: 'S'},
	ShipCruiser:    {name: "Cruiser", length: 2, label: 'C'},
}

func ParseShipKind(raw string) (ShipKind, error) {
	for _, kind := range ShipKinds {
		if strings.EqualFold(shipSpecs[kind].name, strings.TrimSpace(raw)) {
			return kind, nil
		}
	}
	return ShipUnknown, cerr.ErrShipKindFormat(raw)
}

func (k ShipKind) IsValid() bool {
	_, prs := shipSpecs[k]
	return prs
}

func (k ShipKind) Length() int {
	return shipSpecs[k].length
}

// Label is the upper case board label of an intact segment.
func (k ShipKind) Label() rune {
	if !k.IsValid() {
		return '?'
	}
	return shipSpecs[k].label
}

func (k ShipKind) String() string {
	if !k.IsValid() {
		return "Unknown"
	}
	return shipSpecs[k].name
}

func (k ShipKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ShipKind) UnmarshalText(text []byte) error {
	if len(text) == 0 || string(text) == "Unknown" {
		*k = ShipUnknown
		return nil
	}
	parsed, err := ParseShipKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type Segment struct {
	hit bool
}

func (s Segment) IsHit() bool {
	return s.hit
}

type Ship struct {
	kind      ShipKind
	segments  []Segment
	footprint []Address
	placed    bool
}

// NewShip allocates fresh segments for the kind. The ship is not placed yet.
func NewShip(kind ShipKind) *Ship {
	return &Ship{
		kind:     kind,
		segments: make([]Segment, kind.Length()),
	}
}

func (sh *Ship) Kind() ShipKind {
	return sh.kind
}

func (sh *Ship) Length() int {
	return len(sh.segments)
}

func (sh *Ship) IsPlaced() bool {
	return sh.placed
}

func (sh *Ship) Footprint() []Address {
	footprint := make([]Address, len(sh.footprint))
	copy(footprint, sh.footprint)
	return footprint
}

func (sh *Ship) Segment(index int) Segment {
	return sh.segments[index]
}

func (sh *Ship) Intact() int {
	intact := 0
	for _, seg := range sh.segments {
		if !seg.hit {
			intact++
		}
	}
	return intact
}

// WasSunk is computed from the segments and is never true for a ship that
// has not been placed.
func (sh *Ship) WasSunk() bool {
	return sh.placed && sh.Intact() == 0
}

// SegmentLabel is the label of one segment: upper case while intact,
// lower case once hit.
func (sh *Ship) SegmentLabel(index int) rune {
	if sh.segments[index].hit {
		return unicode.ToLower(sh.kind.Label())
	}
	return sh.kind.Label()
}

func (sh *Ship) hitSegment(index int) {
	sh.segments[index].hit = true
}

func (sh *Ship) markPlaced(footprint []Address) {
	sh.footprint = make([]Address, len(footprint))
	copy(sh.footprint, footprint)
	sh.placed = true
}
