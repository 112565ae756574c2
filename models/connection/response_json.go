package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	"github.com/saeidalz13/battleship-solo/models/search"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespShip struct {
	Ship      mb.ShipKind  `json:"ship"`
	Length    int          `json:"length"`
	Footprint []mb.Address `json:"footprint,omitempty"`
}

type RespCreateGame struct {
	GameUuid string     `json:"game_uuid"`
	Ships    []RespShip `json:"ships"`
}

type RespPlaceShip struct {
	Placed   RespShip      `json:"placed"`
	Unplaced []mb.ShipKind `json:"unplaced"`
}

type RespAutoPlace struct {
	Ships []RespShip `json:"ships"`
}

type RespStartGame struct {
	FirstTurn mb.PlayerKind `json:"first_turn"`
	IsTurn    bool          `json:"is_turn"`
}

type RespAttack struct {
	mb.Report
	IsTurn           bool `json:"is_turn"`
	SunkenShipsHuman int  `json:"sunken_ships_human"`
	SunkenShipsCpu   int  `json:"sunken_ships_cpu"`
}

type RespOpponentAttack struct {
	RespAttack
	Mode search.Mode `json:"mode"`
}

type RespEndGame struct {
	PlayerMatchStatus int        `json:"player_match_status"`
	History           string     `json:"history"`
	CpuFleet          []RespShip `json:"cpu_fleet"`
}

type RespFleetStatus struct {
	Afloat []mb.ShipKind `json:"afloat"`
	Unsunk []mb.ShipKind `json:"unsunk"`
}

type RespBoard struct {
	Own  bool     `json:"own"`
	Rows []string `json:"rows"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}

func NewRespShip(ship *mb.Ship) RespShip {
	return RespShip{
		Ship:      ship.Kind(),
		Length:    ship.Length(),
		Footprint: ship.Footprint(),
	}
}
