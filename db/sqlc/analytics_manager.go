package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager counts games per server. A nil Querier turns every call
// into a no-op so the server runs without a database.
type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func (a *AnalyticsManager) Enabled() bool {
	return a != nil && a.queries != nil
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	if !a.Enabled() {
		return nil
	}
	return a.queries.IncrementGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementGamesFinishedCount(ctx context.Context, serverIpNet pqtype.Inet, cpuWon bool) error {
	if !a.Enabled() {
		return nil
	}
	return a.queries.IncrementGamesFinishedCount(ctx, IncrementGamesFinishedCountParams{ServerIp: serverIpNet, CpuWon: cpuWon})
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	if !a.Enabled() {
		return 0, nil
	}
	return a.queries.GetGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetCpuWinsCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	if !a.Enabled() {
		return 0, nil
	}
	return a.queries.GetCpuWinsCount(ctx, serverIpNet)
}
