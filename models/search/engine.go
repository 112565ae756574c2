package search

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type Mode uint8

const (
	ModeHunt Mode = iota
	ModeTarget
)

func (m Mode) String() string {
	if m == ModeTarget {
		return "target"
	}
	return "hunt"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	if string(text) == "target" {
		*m = ModeTarget
	} else {
		*m = ModeHunt
	}
	return nil
}

// Foe is everything the engine may know about the other side: the result
// of an attack and how many of its ships are sunk.
type Foe interface {
	ReceiveAttack(addr mb.Address) (mb.Report, error)
	SunkCount() int
}

// Shot is one resolved attack chosen by the engine.
type Shot struct {
	mb.Report
	Mode Mode `json:"mode"`
}

type Option func(*Engine)

func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine is the hunt/target search used by the scripted opponent. It
// attacks through Foe and never looks at the foe's board.
//
// One shot per NextMove: a shot that sinks a ship ends the turn and the
// following NextMove starts in hunt mode.
type Engine struct {
	foe    Foe
	rng    mb.Rand
	logger *log.Logger

	available *pool

	// target mode state; sequence is empty in hunt mode
	sequence  []mb.Address
	untried   []mb.Direction
	anchor    mb.Address
	last      mb.Address
	committed mb.Direction
	reversed  bool

	sunkHistory []int
}

func NewEngine(foe Foe, rng mb.Rand, opts ...Option) *Engine {
	e := &Engine{
		foe:         foe,
		rng:         rng,
		logger:      log.New(io.Discard),
		available:   newPool(),
		sunkHistory: []int{foe.SunkCount()},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Mode() Mode {
	if len(e.sequence) == 0 {
		return ModeHunt
	}
	return ModeTarget
}

func (e *Engine) Available() int {
	return e.available.Len()
}

func (e *Engine) IsAvailable(addr mb.Address) bool {
	return e.available.Has(addr)
}

// AvailableAddresses returns the pool sorted by index.
func (e *Engine) AvailableAddresses() []mb.Address {
	return e.available.Snapshot()
}

func (e *Engine) Sequence() []mb.Address {
	return append([]mb.Address(nil), e.sequence...)
}

// Anchor is the first hit of the ship being chased. ok is false in hunt mode.
func (e *Engine) Anchor() (addr mb.Address, ok bool) {
	return e.anchor, e.Mode() == ModeTarget
}

// Committed is the direction the current chase extends in, if any.
func (e *Engine) Committed() (d mb.Direction, ok bool) {
	return e.committed, e.committed.IsValid()
}

func (e *Engine) SunkHistory() []int {
	return append([]int(nil), e.sunkHistory...)
}

// NextMove picks an address, attacks it and returns the shot. Addresses in
// rejected were refused by the caller and are dropped from the pool before
// choosing, exactly like a miss.
func (e *Engine) NextMove(rejected ...mb.Address) (Shot, error) {
	for _, addr := range rejected {
		if e.available.Remove(addr) {
			e.logger.Debug("rejected address dropped", "address", addr)
		}
	}

	for {
		var (
			shot Shot
			err  error
		)
		if e.Mode() == ModeHunt {
			shot, err = e.hunt()
		} else {
			shot, err = e.target()
		}

		// The address already left the pool, so a retry cannot pick it again.
		if errors.Is(err, cerr.ErrAlreadyTargeted) {
			e.logger.Warn("engine picked a targeted address", "err", err)
			continue
		}
		return shot, err
	}
}

func (e *Engine) hunt() (Shot, error) {
	if e.available.Len() == 0 {
		return Shot{}, cerr.ErrPoolExhausted
	}

	addr := e.available.Pick(e.rng)
	report, sank, err := e.attack(addr)
	if err != nil {
		return Shot{}, err
	}
	shot := Shot{Report: report, Mode: ModeHunt}

	if report.Result == mb.ResultHit {
		e.beginTarget(addr)
		if sank {
			e.finishShip()
		}
	}
	return shot, nil
}

func (e *Engine) target() (Shot, error) {
	if len(e.sequence) == 1 {
		return e.probe()
	}
	return e.extend()
}

// probe looks for the second hit around the anchor.
func (e *Engine) probe() (Shot, error) {
	for len(e.untried) > 0 {
		i := e.rng.IntN(len(e.untried))
		d := e.untried[i]

		next, err := e.anchor.Step(d)
		if err != nil || !e.available.Has(next) {
			e.dropDirection(i)
			continue
		}

		report, sank, err := e.attack(next)
		if err != nil {
			return Shot{}, err
		}

		if report.Result == mb.ResultHit {
			e.committed = d
			e.sequence = append(e.sequence, next)
			e.last = next
		} else {
			e.dropDirection(i)
		}
		if sank {
			e.finishShip()
		}
		return Shot{Report: report, Mode: ModeTarget}, nil
	}

	return Shot{}, cerr.ErrDirectionsExhausted(e.anchor.String())
}

// extend walks along the committed direction, turning around at the anchor
// once the line ends.
func (e *Engine) extend() (Shot, error) {
	next, ok := e.advance()
	if !ok {
		return Shot{}, cerr.ErrDirectionsExhausted(e.anchor.String())
	}

	report, sank, err := e.attack(next)
	if err != nil {
		return Shot{}, err
	}

	if report.Result == mb.ResultHit {
		e.sequence = append(e.sequence, next)
		e.last = next
	} else if !e.reversed {
		e.reverse()
	}
	if sank {
		e.finishShip()
	}
	return Shot{Report: report, Mode: ModeTarget}, nil
}

func (e *Engine) advance() (mb.Address, bool) {
	next, err := e.last.Step(e.committed)
	if err == nil && e.available.Has(next) {
		return next, true
	}
	if e.reversed {
		return mb.Address{}, false
	}

	e.reverse()
	next, err = e.last.Step(e.committed)
	if err == nil && e.available.Has(next) {
		return next, true
	}
	return mb.Address{}, false
}

func (e *Engine) reverse() {
	e.committed = e.committed.Opposite()
	e.last = e.anchor
	e.reversed = true
	e.logger.Debug("reversing", "anchor", e.anchor, "direction", e.committed)
}

// attack removes addr from the pool before firing, hit or miss, so the
// same cell is never chosen twice.
func (e *Engine) attack(addr mb.Address) (mb.Report, bool, error) {
	e.available.Remove(addr)

	report, err := e.foe.ReceiveAttack(addr)
	if err != nil {
		return mb.Report{}, false, err
	}

	sunk := e.foe.SunkCount()
	before := e.sunkHistory[len(e.sunkHistory)-1]
	e.sunkHistory = append(e.sunkHistory, sunk)

	sank := report.IsSinking() || sunk > before
	e.logger.Debug("attack", "address", addr, "result", report.Result, "sank", sank, "mode", e.Mode())
	return report, sank, nil
}

func (e *Engine) beginTarget(anchor mb.Address) {
	e.sequence = []mb.Address{anchor}
	e.anchor = anchor
	e.last = anchor
	e.committed = 0
	e.reversed = false
	e.untried = append(e.untried[:0], mb.Directions[:]...)
}

func (e *Engine) dropDirection(i int) {
	e.untried = append(e.untried[:i], e.untried[i+1:]...)
}

// finishShip clears the sunk ship's footprint and surroundings from the
// pool. No other ship can sit next to it, mirroring the placement rule.
func (e *Engine) finishShip() {
	removed := 0
	for _, addr := range e.sequence {
		if e.available.Remove(addr) {
			removed++
		}
	}
	for _, addr := range mb.Neighbors(e.sequence...) {
		if e.available.Remove(addr) {
			removed++
		}
	}
	holes := e.eliminateHoles()

	e.logger.Debug("ship sunk", "footprint", len(e.sequence), "removed", removed, "holes", holes, "available", e.available.Len())
	e.resetTarget()
}

// eliminateHoles drops every available address without an available
// neighbor; the smallest ship needs two adjacent cells. Removing such an
// address cannot create a new hole, so one pass is enough.
func (e *Engine) eliminateHoles() int {
	var holes []mb.Address
	for _, addr := range e.available.Snapshot() {
		if e.available.AvailableNeighbors(addr) == 0 {
			holes = append(holes, addr)
		}
	}
	for _, addr := range holes {
		e.available.Remove(addr)
	}
	return len(holes)
}

func (e *Engine) resetTarget() {
	e.sequence = e.sequence[:0]
	e.untried = e.untried[:0]
	e.anchor = mb.Address{}
	e.last = mb.Address{}
	e.committed = 0
	e.reversed = false
}
