package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

const incrementGamesCreatedCount = `INSERT INTO game_server_analytics (server_ip, games_created)
VALUES ($1, 1)
ON CONFLICT (server_ip) DO UPDATE
SET games_created = game_server_analytics.games_created + 1, updated_at = now()`

func (q *Queries) IncrementGamesCreatedCount(ctx context.Context, serverIp pqtype.Inet) error {
	_, err := q.db.ExecContext(ctx, incrementGamesCreatedCount, serverIp)
	return err
}

const incrementGamesFinishedCount = `INSERT INTO game_server_analytics (server_ip, games_finished, cpu_wins)
VALUES ($1, 1, CASE WHEN $2::boolean THEN 1 ELSE 0 END)
ON CONFLICT (server_ip) DO UPDATE
SET games_finished = game_server_analytics.games_finished + 1,
    cpu_wins = game_server_analytics.cpu_wins + CASE WHEN $2::boolean THEN 1 ELSE 0 END,
    updated_at = now()`

type IncrementGamesFinishedCountParams struct {
	ServerIp pqtype.Inet
	CpuWon   bool
}

func (q *Queries) IncrementGamesFinishedCount(ctx context.Context, arg IncrementGamesFinishedCountParams) error {
	_, err := q.db.ExecContext(ctx, incrementGamesFinishedCount, arg.ServerIp, arg.CpuWon)
	return err
}

const getGamesCreatedCount = `SELECT games_created FROM game_server_analytics WHERE server_ip = $1`

func (q *Queries) GetGamesCreatedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error) {
	row := q.db.QueryRowContext(ctx, getGamesCreatedCount, serverIp)
	var gamesCreated int64
	err := row.Scan(&gamesCreated)
	return gamesCreated, err
}

const getCpuWinsCount = `SELECT cpu_wins FROM game_server_analytics WHERE server_ip = $1`

func (q *Queries) GetCpuWinsCount(ctx context.Context, serverIp pqtype.Inet) (int64, error) {
	row := q.db.QueryRowContext(ctx, getCpuWinsCount, serverIp)
	var cpuWins int64
	err := row.Scan(&cpuWins)
	return cpuWins, err
}
