package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

type Querier interface {
	IncrementGamesCreatedCount(ctx context.Context, serverIp pqtype.Inet) error
	IncrementGamesFinishedCount(ctx context.Context, arg IncrementGamesFinishedCountParams) error
	GetGamesCreatedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error)
	GetCpuWinsCount(ctx context.Context, serverIp pqtype.Inet) (int64, error)
}

var _ Querier = (*Queries)(nil)
