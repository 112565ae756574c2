package battleship

import (
	"fmt"
	"sort"
	"strconv"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	BoardSize  = 10
	BoardCells = BoardSize * BoardSize

	firstColumn = 'A'
	lastColumn  = 'A' + BoardSize - 1
)

// Address is a single board coordinate. Col and Row are both 1-based,
// so "A1" is {Col: 1, Row: 1} and "J10" is {Col: 10, Row: 10}.
type Address struct {
	Col uint8
	Row uint8
}

func NewAddress(col, row uint8) (Address, error) {
	a := Address{Col: col, Row: row}
	if !a.IsValid() {
		return Address{}, cerr.ErrAddressFormat(fmt.Sprintf("col=%d row=%d", col, row))
	}
	return a, nil
}

// AddressFromIndex is the inverse of Address.Index.
func AddressFromIndex(index int) (Address, error) {
	if index < 0 || index >= BoardCells {
		return Address{}, cerr.ErrAddressFormat(strconv.Itoa(index))
	}
	return Address{Col: uint8(index%BoardSize) + 1, Row: uint8(index/BoardSize) + 1}, nil
}

// ParseAddress accepts only the 100 canonical forms "A1".."J10".
func ParseAddress(raw string) (Address, error) {
	if len(raw) < 2 || len(raw) > 3 {
		return Address{}, cerr.ErrAddressFormat(raw)
	}

	letter := raw[0]
	if letter < firstColumn || letter > lastColumn {
		return Address{}, cerr.ErrAddressFormat(raw)
	}

	digits := raw[1:]
	// no leading zeros, no signs
	if digits[0] < '1' || digits[0] > '9' {
		return Address{}, cerr.ErrAddressFormat(raw)
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 || row > BoardSize {
		return Address{}, cerr.ErrAddressFormat(raw)
	}

	return Address{Col: letter - firstColumn + 1, Row: uint8(row)}, nil
}

// MustParseAddress panics on malformed input. Meant for tests and constants.
func MustParseAddress(raw string) Address {
	a, err := ParseAddress(raw)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) IsValid() bool {
	return a.Col >= 1 && a.Col <= BoardSize && a.Row >= 1 && a.Row <= BoardSize
}

// Index maps the address to 0..99 in row-major order: A1..J1 are 0..9.
func (a Address) Index() int {
	return int(a.Row-1)*BoardSize + int(a.Col-1)
}

func (a Address) Letter() byte {
	return firstColumn + a.Col - 1
}

func (a Address) String() string {
	if !a.IsValid() {
		return "??"
	}
	return string(a.Letter()) + strconv.Itoa(int(a.Row))
}

func (a Address) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, cerr.ErrAddressFormat(fmt.Sprintf("col=%d row=%d", a.Col, a.Row))
	}
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Step moves one cell in the given direction. Leaving the board is an
// error, there is no wraparound.
func (a Address) Step(d Direction) (Address, error) {
	next := a
	switch d {
	case North:
		if a.Row == 1 {
			return Address{}, cerr.ErrStepOutOfBounds(a.String(), d.String())
		}
		next.Row--
	case South:
		if a.Row == BoardSize {
			return Address{}, cerr.ErrStepOutOfBounds(a.String(), d.String())
		}
		next.Row++
	case East:
		if a.Col == BoardSize {
			return Address{}, cerr.ErrStepOutOfBounds(a.String(), d.String())
		}
		next.Col++
	case West:
		if a.Col == 1 {
			return Address{}, cerr.ErrStepOutOfBounds(a.String(), d.String())
		}
		next.Col--
	default:
		return Address{}, cerr.ErrDirectionFormat(d.String())
	}
	return next, nil
}

// Neighbors returns the in-bounds orthogonal neighbors in N, S, E, W order.
// Corners have 2, edges 3, everything else 4.
func (a Address) Neighbors() []Address {
	neighbors := make([]Address, 0, len(Directions))
	for _, d := range Directions {
		next, err := a.Step(d)
		if err != nil {
			continue
		}
		neighbors = append(neighbors, next)
	}
	return neighbors
}

// Neighbors returns the union of the neighbors of every address in addrs,
// without the addresses themselves. The result is sorted by index.
func Neighbors(addrs ...Address) []Address {
	var members [BoardCells]bool
	for _, a := range addrs {
		members[a.Index()] = true
	}

	var seen [BoardCells]bool
	neighbors := make([]Address, 0, 2*len(addrs)+2)
	for _, a := range addrs {
		for _, n := range a.Neighbors() {
			i := n.Index()
			if members[i] || seen[i] {
				continue
			}
			seen[i] = true
			neighbors = append(neighbors, n)
		}
	}

	SortAddresses(neighbors)
	return neighbors
}

// Run returns the straight line of length cells starting at start and
// heading d. start is always the first element.
func Run(start Address, d Direction, length int) ([]Address, error) {
	if !start.IsValid() {
		return nil, cerr.ErrAddressFormat(start.String())
	}

	run := make([]Address, 0, length)
	cur := start
	for i := 0; i < length; i++ {
		if i > 0 {
			next, err := cur.Step(d)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		run = append(run, cur)
	}
	return run, nil
}

// AllAddresses returns the 100 board addresses in index order.
func AllAddresses() []Address {
	all := make([]Address, BoardCells)
	for i := range all {
		all[i] = Address{Col: uint8(i%BoardSize) + 1, Row: uint8(i/BoardSize) + 1}
	}
	return all
}

func SortAddresses(addrs []Address) {
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Index() < addrs[j].Index() })
}
