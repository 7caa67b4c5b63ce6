package pipeline

import (
	"context"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/model"

	"go.uber.org/zap"
)

// Read bounds.
const (
	TransactionsLimit = 50
	InsightsLimit     = 10
)

// TransactionsQuery reads the most recent transactions.
func TransactionsQuery(userID string) backend.Query {
	return backend.From(backend.TableTransactions).
		Eq("user_id", userID).
		OrderBy("transaction_date", true).
		WithLimit(TransactionsLimit)
}

// monthToDate bounds q to the first of now's month through today.
func monthToDate(q backend.Query, now time.Time) backend.Query {
	return q.
		Gte("transaction_date", model.NewDate(StartOfMonth(now)).String()).
		Lte("transaction_date", model.NewDate(now).String())
}

// MonthQuery reads the amounts needed for month-to-date totals.
func MonthQuery(userID string, now time.Time) backend.Query {
	return monthToDate(backend.From(backend.TableTransactions).
		Select("amount", "transaction_type").
		Eq("user_id", userID), now)
}

// MonthTransactionsQuery reads every month-to-date transaction, newest first.
func MonthTransactionsQuery(userID string, now time.Time) backend.Query {
	return monthToDate(backend.From(backend.TableTransactions).
		Eq("user_id", userID), now).
		OrderBy("transaction_date", true)
}

// GoalsQuery reads active goals.
func GoalsQuery(userID string) backend.Query {
	return backend.From(backend.TableGoals).
		Eq("user_id", userID).
		Eq("is_active", true).
		OrderBy("created_at", true)
}

// ChallengesQuery reads every challenge.
func ChallengesQuery(userID string) backend.Query {
	return backend.From(backend.TableChallenges).
		Eq("user_id", userID).
		OrderBy("created_at", true)
}

// BadgesQuery reads earned badges.
func BadgesQuery(userID string) backend.Query {
	return backend.From(backend.TableBadges).
		Eq("user_id", userID).
		OrderBy("earned_at", true)
}

// InsightsQuery reads the latest insights.
func InsightsQuery(userID string) backend.Query {
	return backend.From(backend.TableInsights).
		Eq("user_id", userID).
		OrderBy("created_at", true).
		WithLimit(InsightsLimit)
}

// ProfileQuery reads the identity's profile row.
func ProfileQuery(userID string) backend.Query {
	return backend.From(backend.TableProfiles).Eq("id", userID)
}

// Select returns a FetchFunc that decodes build's query into []T.
func Select[T any](rows backend.Rows, build func(userID string) backend.Query) FetchFunc[T] {
	return func(ctx context.Context, id Identity) ([]T, error) {
		var out []T
		if err := rows.Select(ctx, id.Token, build(id.UserID), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// Loaders bundles one loader per entity set.
type Loaders struct {
	Transactions *Loader[model.Transaction]
	Month        *Loader[model.Transaction]
	Goals        *Loader[model.FinancialGoal]
	Challenges   *Loader[model.Challenge]
	Badges       *Loader[model.Badge]
	Insights     *Loader[model.Insight]
}

// NewLoaders wires every loader to rows. now anchors the month-to-date read.
func NewLoaders(rows backend.Rows, log *zap.Logger, now func() time.Time) *Loaders {
	if now == nil {
		now = time.Now
	}
	month := func(userID string) backend.Query { return MonthQuery(userID, now()) }
	return &Loaders{
		Transactions: NewLoader("transactions", Select[model.Transaction](rows, TransactionsQuery), log),
		Month:        NewLoader("month", Select[model.Transaction](rows, month), log),
		Goals:        NewLoader("goals", Select[model.FinancialGoal](rows, GoalsQuery), log),
		Challenges:   NewLoader("challenges", Select[model.Challenge](rows, ChallengesQuery), log),
		Badges:       NewLoader("badges", Select[model.Badge](rows, BadgesQuery), log),
		Insights:     NewLoader("insights", Select[model.Insight](rows, InsightsQuery), log),
	}
}

// InvalidateAll empties every set, orphaning reads in flight.
func (l *Loaders) InvalidateAll() {
	l.Transactions.Invalidate()
	l.Month.Invalidate()
	l.Goals.Invalidate()
	l.Challenges.Invalidate()
	l.Badges.Invalidate()
	l.Insights.Invalidate()
}
