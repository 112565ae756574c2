package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateGame
	CodePlaceShip
	CodeAutoPlace
	CodeStartGame
	CodeAttack

	// the scripted opponent's shot, pushed right after the player's attack
	CodeOpponentAttack
	CodeEndGame
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	// ships still afloat on both sides
	CodeFleetStatus

	// text snapshot of either board
	CodeBoard

	CodeSessionReconnected
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
