package battleship

import (
	"strings"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type Direction uint8

const (
	North Direction = iota + 1
	South
	East
	West
)

// Directions lists the four directions in the order neighbors are produced.
var Directions = [...]Direction{North, South, East, West}

func ParseDirection(raw string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "N", "NORTH":
		return North, nil
	case "S", "SOUTH":
		return South, nil
	case "E", "EAST":
		return East, nil
	case "W", "WEST":
		return West, nil
	default:
		return 0, cerr.ErrDirectionFormat(raw)
	}
}

func (d Direction) IsValid() bool {
	return d >= North && d <= West
}

func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return d
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	default:
		return "?"
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, cerr.ErrDirectionFormat(d.String())
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
