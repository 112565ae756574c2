package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrAttackFailed = "attack operation failed"
)

var (
	ErrInvalidFormat      = errors.New("invalid address format")
	ErrInvalidDirection   = errors.New("invalid direction")
	ErrInvalidShipKind    = errors.New("invalid ship kind")
	ErrOutOfBounds        = errors.New("position is out of board bounds")
	ErrAlreadyTargeted    = errors.New("position already targeted")
	ErrIllegalPlacement   = errors.New("ships cannot be touching")
	ErrShipAlreadyPlaced  = errors.New("ship is already placed")
	ErrFleetNotPlaced     = errors.New("fleet is not fully placed")
	ErrSearchExhausted    = errors.New("no attack direction left for the current target")
	ErrPoolExhausted      = errors.New("no available positions left to attack")
	ErrGameNotExists      = errors.New("game does not exist")
	ErrGameNotStarted     = errors.New("game has not started yet")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameFinished       = errors.New("game is finished")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNameTaken          = errors.New("name belongs to the opponent")
)

func ErrAddressFormat(raw string) error {
	return fmt.Errorf("%w: %q", ErrInvalidFormat, raw)
}

func ErrDirectionFormat(raw string) error {
	return fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
}

func ErrShipKindFormat(raw string) error {
	return fmt.Errorf("%w: %q", ErrInvalidShipKind, raw)
}

func ErrStepOutOfBounds(from, direction string) error {
	return fmt.Errorf("%w\tfrom: %s\tdirection: %s", ErrOutOfBounds, from, direction)
}

func ErrPositionAlreadyTargeted(position string) error {
	return fmt.Errorf("%w\tposition: %s", ErrAlreadyTargeted, position)
}

func ErrPlacementTouching(ship, start, direction string) error {
	return fmt.Errorf("%w\tship: %s\tstart: %s\tdirection: %s", ErrIllegalPlacement, ship, start, direction)
}

func ErrPlacementOutOfBounds(ship, start, direction string) error {
	return fmt.Errorf("%w\tship: %s\tstart: %s\tdirection: %s", ErrOutOfBounds, ship, start, direction)
}

func ErrShipPlaced(ship string) error {
	return fmt.Errorf("%w\tship: %s", ErrShipAlreadyPlaced, ship)
}

func ErrDirectionsExhausted(anchor string) error {
	return fmt.Errorf("%w\tanchor: %s", ErrSearchExhausted, anchor)
}

func ErrGameNotExist(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameNotExists, gameUuid)
}

func ErrSessionNotExist(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}

func ErrAutoPlacementFailed(ship string, attempts int) error {
	return fmt.Errorf("could not place %s after %d attempts", ship, attempts)
}

func ErrReservedName(name string) error {
	return fmt.Errorf("%w, name: %s", ErrNameTaken, name)
}
