package api

import (
	"bytes"
	"encoding/json"
	"strings"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
	"github.com/saeidalz13/battleship-solo/models/match"
)

type RequestHandler interface {
	HandleCreateGame(gm match.GameManager, defaultSeed uint64) (*match.Game, mc.Message[mc.RespCreateGame])
	HandlePlaceShip(game *match.Game) mc.Message[mc.RespPlaceShip]
	HandleAutoPlace(game *match.Game) mc.Message[mc.RespAutoPlace]
	HandleStartGame(game *match.Game) mc.Message[mc.RespStartGame]
	HandleAttack(game *match.Game) mc.Message[mc.RespAttack]
	HandleBoard(game *match.Game) mc.Message[mc.RespBoard]
}

// Every incoming valid request carries its raw payload. It is decoded
// into the typed message by the handler that owns the code.
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	var r Request
	if len(payload) != 0 {
		r.payload = payload[0]
	}
	return r
}

func (r Request) HandleCreateGame(gm match.GameManager, defaultSeed uint64) (*match.Game, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	var req mc.Message[mc.ReqCreateGame]
	if len(r.payload) != 0 {
		if err := json.Unmarshal(r.payload, &req); err != nil {
			resp.AddError(err.Error(), "invalid create game payload")
			return nil, resp
		}
	}

	seed := req.Payload.Seed
	if seed == 0 {
		seed = defaultSeed
	}

	game, err := gm.CreateGame(req.Payload.PlayerName, seed)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, resp
	}

	ships := make([]mc.RespShip, 0, mb.FleetSize)
	for _, kind := range mb.ShipKinds {
		ships = append(ships, mc.RespShip{Ship: kind, Length: kind.Length()})
	}
	resp.AddPayload(mc.RespCreateGame{GameUuid: game.Uuid(), Ships: ships})
	return game, resp
}

func (r Request) HandlePlaceShip(game *match.Game) mc.Message[mc.RespPlaceShip] {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)
	if game == nil {
		resp.AddError(cerr.ErrGameNotExists.Error(), "create a game first")
		return resp
	}

	var req mc.Message[mc.ReqPlaceShip]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid place ship payload")
		return resp
	}

	kind := req.Payload.Ship
	if err := game.PlaceHumanShip(kind, req.Payload.Start, req.Payload.Direction); err != nil {
		resp.AddError(err.Error(), "ship placement rejected")
		return resp
	}

	fleet := game.Human().Fleet()
	resp.AddPayload(mc.RespPlaceShip{
		Placed:   mc.NewRespShip(fleet.Ship(kind)),
		Unplaced: fleet.Unplaced(),
	})
	return resp
}

// HandleAutoPlace places whatever ships the player has not placed yet.
func (r Request) HandleAutoPlace(game *match.Game) mc.Message[mc.RespAutoPlace] {
	resp := mc.NewMessage[mc.RespAutoPlace](mc.CodeAutoPlace)
	if game == nil {
		resp.AddError(cerr.ErrGameNotExists.Error(), "create a game first")
		return resp
	}

	if err := game.AutoPlaceHuman(); err != nil {
		resp.AddError(err.Error(), "auto placement failed")
		return resp
	}

	resp.AddPayload(mc.RespAutoPlace{Ships: respShips(game.Human().Fleet())})
	return resp
}

func (r Request) HandleStartGame(game *match.Game) mc.Message[mc.RespStartGame] {
	resp := mc.NewMessage[mc.RespStartGame](mc.CodeStartGame)
	if game == nil {
		resp.AddError(cerr.ErrGameNotExists.Error(), "create a game first")
		return resp
	}

	first, err := game.Start()
	if err != nil {
		resp.AddError(err.Error(), "game could not start")
		return resp
	}

	resp.AddPayload(mc.RespStartGame{FirstTurn: first, IsTurn: first == mb.PlayerHuman})
	return resp
}

func (r Request) HandleAttack(game *match.Game) mc.Message[mc.RespAttack] {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)
	if game == nil {
		resp.AddError(cerr.ErrGameNotExists.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	var req mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	report, err := game.HumanAttack(req.Payload.Address)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	resp.AddPayload(mc.RespAttack{
		Report:           report,
		IsTurn:           !game.IsFinished() && game.Turn() == mb.PlayerHuman,
		SunkenShipsHuman: game.Human().SunkCount(),
		SunkenShipsCpu:   game.Cpu().SunkCount(),
	})
	return resp
}

func (r Request) HandleBoard(game *match.Game) mc.Message[mc.RespBoard] {
	resp := mc.NewMessage[mc.RespBoard](mc.CodeBoard)
	if game == nil {
		resp.AddError(cerr.ErrGameNotExists.Error(), "create a game first")
		return resp
	}

	var req mc.Message[mc.ReqBoard]
	if len(r.payload) != 0 {
		if err := json.Unmarshal(r.payload, &req); err != nil {
			resp.AddError(err.Error(), "invalid board payload")
			return resp
		}
	}

	// the opponent board is never revealed while the game is running
	board, reveal := game.Cpu().Board(), game.IsFinished()
	if req.Payload.Own {
		board, reveal = game.Human().Board(), true
	}

	var buf bytes.Buffer
	if err := mb.Render(&buf, board, reveal); err != nil {
		resp.AddError(err.Error(), "failed to render board")
		return resp
	}

	resp.AddPayload(mc.RespBoard{
		Own:  req.Payload.Own,
		Rows: strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"),
	})
	return resp
}

// HandleOpponentAttack lets the engine shoot if it is its turn. The second
// return value is false when there was nothing to do.
func HandleOpponentAttack(game *match.Game) (mc.Message[mc.RespOpponentAttack], bool) {
	resp := mc.NewMessage[mc.RespOpponentAttack](mc.CodeOpponentAttack)
	if game == nil || !game.IsStarted() || game.IsFinished() || game.Turn() != mb.PlayerCpu {
		return resp, false
	}

	shot, err := game.CpuTurn()
	if err != nil {
		resp.AddError(err.Error(), "opponent failed to attack")
		return resp, true
	}

	resp.AddPayload(mc.RespOpponentAttack{
		RespAttack: mc.RespAttack{
			Report:           shot.Report,
			IsTurn:           !game.IsFinished(),
			SunkenShipsHuman: game.Human().SunkCount(),
			SunkenShipsCpu:   game.Cpu().SunkCount(),
		},
		Mode: shot.Mode,
	})
	return resp, true
}

func HandleFleetStatus(game *match.Game) mc.Message[mc.RespFleetStatus] {
	resp := mc.NewMessage[mc.RespFleetStatus](mc.CodeFleetStatus)
	if game == nil {
		resp.AddError(cerr.ErrGameNotExists.Error(), "create a game first")
		return resp
	}

	resp.AddPayload(mc.RespFleetStatus{
		Afloat: game.Human().Fleet().Floating(),
		Unsunk: game.Cpu().Fleet().Floating(),
	})
	return resp
}

// NewEndGameMessage reveals the opponent fleet once the game is over.
func NewEndGameMessage(game *match.Game) mc.Message[mc.RespEndGame] {
	resp := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	resp.AddPayload(mc.RespEndGame{
		PlayerMatchStatus: game.Human().MatchStatus(),
		History:           game.Human().History(),
		CpuFleet:          respShips(game.Cpu().Fleet()),
	})
	return resp
}

func respShips(fleet *mb.Fleet) []mc.RespShip {
	ships := make([]mc.RespShip, 0, mb.FleetSize)
	for _, ship := range fleet.Ships() {
		ships = append(ships, mc.NewRespShip(ship))
	}
	return ships
}
