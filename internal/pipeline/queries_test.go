package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/store"

	"github.com/shopspring/decimal"
)

func TestMonthReadsStopAtToday(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "advisor.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	sess, err := db.SignUp(ctx, "month@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	id := Identity{UserID: sess.User.ID, Token: sess.AccessToken}
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)

	for _, day := range []time.Time{
		now,                  // counted
		now.AddDate(0, 0, 5), // later this month
		now.AddDate(0, 2, 0), // two months ahead
		now.AddDate(0, -1, 0),
	} {
		in := model.TransactionInput{
			Amount:          decimal.NewFromInt(100),
			Category:        "Food",
			Description:     day.Format(model.DateLayout),
			TransactionDate: model.NewDate(day),
			TransactionType: model.TransactionExpense,
			DayOfWeek:       day.Weekday().String(),
		}
		if err := db.Insert(ctx, id.Token, backend.TableTransactions, in); err != nil {
			t.Fatalf("Insert %s: %v", in.Description, err)
		}
	}

	l := NewLoaders(db, nil, func() time.Time { return now })
	if err := l.Month.Load(ctx, id); err != nil {
		t.Fatalf("Month.Load: %v", err)
	}
	if got := Aggregate(l.Month.Items()).TotalExpense; !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("month expense = %s, want 100", got)
	}

	txs, err := Select[model.Transaction](db, func(userID string) backend.Query {
		return MonthTransactionsQuery(userID, now)
	})(ctx, id)
	if err != nil {
		t.Fatalf("month transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Description != now.Format(model.DateLayout) {
		t.Fatalf("month transactions = %+v, want only today's row", txs)
	}
}
