package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type ReqCreateGame struct {
	PlayerName string `json:"player_name"`

	// zero lets the server pick one
	Seed uint64 `json:"seed,omitempty"`
}

type ReqPlaceShip struct {
	Ship      mb.ShipKind  `json:"ship"`
	Start     mb.Address   `json:"start"`
	Direction mb.Direction `json:"direction"`
}

type ReqAttack struct {
	Address mb.Address `json:"address"`
}

type ReqBoard struct {
	// own board with ships revealed, otherwise the opponent as seen by the player
	Own bool `json:"own"`
}
