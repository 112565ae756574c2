package battleship

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

type PlayerKind uint8

const (
	PlayerHuman PlayerKind = iota
	PlayerCpu
)

func (k PlayerKind) String() string {
	if k == PlayerCpu {
		return "cpu"
	}
	return "human"
}

func (k PlayerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PlayerKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "cpu":
		*k = PlayerCpu
	case "human":
		*k = PlayerHuman
	default:
		return fmt.Errorf("invalid player kind: %q", text)
	}
	return nil
}

// Report is the outcome of one attack as seen by both sides. Sunk is
// ShipUnknown unless this attack sank a ship.
type Report struct {
	Address Address  `json:"address"`
	Result  Result   `json:"result"`
	Sunk    ShipKind `json:"sunk,omitempty"`
}

func (r Report) IsSinking() bool {
	return r.Sunk.IsValid()
}

type Player struct {
	uuid        string
	name        string
	kind        PlayerKind
	matchStatus int
	board       *Board
	fleet       *Fleet

	// attacker side bookkeeping
	targeted []Address
	hits     []Address
	misses   []Address
	history  []Result
}

func NewPlayer(kind PlayerKind, name string) *Player {
	fleet := NewFleet()
	return &Player{
		uuid:        uuid.NewString()[:10],
		name:        name,
		kind:        kind,
		matchStatus: PlayerMatchStatusUndefined,
		fleet:       fleet,
		board:       NewBoard(fleet),
	}
}

func (p *Player) Uuid() string {
	return p.uuid
}

func (p *Player) Name() string {
	return p.name
}

func (p *Player) Kind() PlayerKind {
	return p.kind
}

func (p *Player) Board() *Board {
	return p.board
}

func (p *Player) Fleet() *Fleet {
	return p.fleet
}

func (p *Player) MatchStatus() int {
	return p.matchStatus
}

func (p *Player) SetMatchStatus(status int) {
	p.matchStatus = status
}

func (p *Player) IsMatchOver() bool {
	return p.matchStatus != PlayerMatchStatusUndefined
}

func (p *Player) PlaceShip(kind ShipKind, start Address, d Direction) error {
	return PlaceShip(p.board, p.fleet, kind, start, d)
}

func (p *Player) AutoPlace(rng Rand, maxAttempts int) error {
	return AutoPlace(p.board, p.fleet, rng, maxAttempts)
}

// ReceiveAttack resolves an attack against this player's board and moves a
// freshly sunk ship to the sunk set.
func (p *Player) ReceiveAttack(addr Address) (Report, error) {
	result, err := p.board.Attack(addr)
	if err != nil {
		return Report{}, err
	}

	report := Report{Address: addr, Result: result}
	if result == ResultHit {
		if ship := p.fleet.JustSunk(); ship != nil {
			p.fleet.SinkShip(ship.kind)
			report.Sunk = ship.kind
		}
	}
	return report, nil
}

func (p *Player) SunkCount() int {
	return p.fleet.SunkCount()
}

func (p *Player) AllShipsSunk() bool {
	return p.fleet.AllSunk()
}

// Record keeps the attacker side history of a resolved shot.
func (p *Player) Record(report Report) {
	p.targeted = append(p.targeted, report.Address)
	p.history = append(p.history, report.Result)
	if report.Result == ResultHit {
		p.hits = append(p.hits, report.Address)
	} else {
		p.misses = append(p.misses, report.Address)
	}
}

func (p *Player) Targeted() []Address {
	return append([]Address(nil), p.targeted...)
}

func (p *Player) Hits() []Address {
	return append([]Address(nil), p.hits...)
}

func (p *Player) Misses() []Address {
	return append([]Address(nil), p.misses...)
}

// History is the hit/miss sequence of this player's shots, e.g. "MMHHM".
func (p *Player) History() string {
	var sb strings.Builder
	for _, r := range p.history {
		if r == ResultHit {
			sb.WriteByte('H')
		} else {
			sb.WriteByte('M')
		}
	}
	return sb.String()
}
