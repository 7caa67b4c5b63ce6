package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/pipeline"

	"github.com/shopspring/decimal"
)

// ErrSignedOut is reported by polls made while nobody is signed in.
var ErrSignedOut = errors.New("not signed in; run `advisor login`")

// IdentitySource yields a fresh identity for each poll.
type IdentitySource interface {
	EnsureFresh(ctx context.Context) (pipeline.Identity, error)
}

// MetricsSource reads the month-to-date transaction amounts and the profile score.
type MetricsSource struct {
	Identity IdentitySource
	Rows     backend.Rows
	// Budget is the monthly budget; zero disables budget tracking.
	Budget decimal.Decimal
	Now    func() time.Time
}

// Poll implements Source.
func (m *MetricsSource) Poll(ctx context.Context) (Snapshot, error) {
	id, err := m.Identity.EnsureFresh(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if !id.Valid() {
		return Snapshot{}, ErrSignedOut
	}
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}

	var txs []model.Transaction
	if err := m.Rows.Select(ctx, id.Token, pipeline.MonthQuery(id.UserID, now), &txs); err != nil {
		return Snapshot{}, err
	}
	var profiles []model.UserProfile
	if err := m.Rows.Select(ctx, id.Token, pipeline.ProfileQuery(id.UserID), &profiles); err != nil {
		return Snapshot{}, err
	}

	var profile *model.UserProfile
	if len(profiles) > 0 {
		profile = &profiles[0]
	}
	return buildSnapshot(id.UserID, txs, profile, m.Budget, now), nil
}

func buildSnapshot(user string, txs []model.Transaction, profile *model.UserProfile, budget decimal.Decimal, now time.Time) Snapshot {
	stats := pipeline.Aggregate(txs)
	score := pipeline.HeadlineScore(profile)
	b := pipeline.Budget(stats, budget, now)

	snap := Snapshot{
		At:            now,
		User:          user,
		TotalExpense:  stats.TotalExpense,
		TotalIncome:   stats.TotalIncome,
		NetSavings:    stats.NetSavings,
		Transactions:  stats.Count,
		HealthScore:   score,
		HealthBand:    pipeline.BandFor(score),
		DailyBurnRate: b.DailyBurnRate,
	}
	if budget.IsPositive() {
		snap.BudgetUsedPercent = b.BudgetUsedPercent
	}
	return snap
}
