package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/advisor/internal/model"

	"github.com/shopspring/decimal"
)

func tx(amount string, typ model.TransactionType, day time.Time) model.Transaction {
	return model.Transaction{
		Amount:          decimal.RequireFromString(amount),
		TransactionType: typ,
		TransactionDate: model.NewDate(day),
		Category:        "Food",
	}
}

func TestAggregateMonth(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.Local)
	txs := []model.Transaction{
		tx("100", model.TransactionExpense, now),
		tx("500", model.TransactionIncome, now.AddDate(0, 0, -3)),
		tx("50", model.TransactionExpense, now.AddDate(0, 0, -18)),
		tx("999", model.TransactionExpense, now.AddDate(0, -1, 0)),
	}

	got := AggregateMonth(txs, now)
	want := map[string]decimal.Decimal{
		"expense": decimal.NewFromInt(150),
		"income":  decimal.NewFromInt(500),
		"net":     decimal.NewFromInt(350),
	}
	if !got.TotalExpense.Equal(want["expense"]) {
		t.Fatalf("TotalExpense = %s, want %s", got.TotalExpense, want["expense"])
	}
	if !got.TotalIncome.Equal(want["income"]) {
		t.Fatalf("TotalIncome = %s, want %s", got.TotalIncome, want["income"])
	}
	if !got.NetSavings.Equal(want["net"]) {
		t.Fatalf("NetSavings = %s, want %s", got.NetSavings, want["net"])
	}
	if got.Count != 3 {
		t.Fatalf("Count = %d, want 3", got.Count)
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	if !got.TotalExpense.IsZero() || !got.TotalIncome.IsZero() || !got.NetSavings.IsZero() || got.Count != 0 {
		t.Fatalf("Aggregate(nil) = %+v, want all zero", got)
	}
}

func TestNetSavingsIsExact(t *testing.T) {
	now := time.Now()
	txs := []model.Transaction{
		tx("0.10", model.TransactionExpense, now),
		tx("0.20", model.TransactionExpense, now),
		tx("0.30", model.TransactionIncome, now),
		tx("1200.75", model.TransactionExpense, now),
	}
	got := Aggregate(txs)
	if !got.NetSavings.Equal(got.TotalIncome.Sub(got.TotalExpense)) {
		t.Fatalf("net %s != income %s - expense %s", got.NetSavings, got.TotalIncome, got.TotalExpense)
	}
	if !got.NetSavings.Equal(decimal.RequireFromString("-1200.75")) {
		t.Fatalf("NetSavings = %s, want -1200.75", got.NetSavings)
	}
}

func TestStartOfMonth(t *testing.T) {
	now := time.Date(2026, 3, 31, 23, 59, 0, 0, time.Local)
	got := StartOfMonth(now)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("StartOfMonth = %v, want %v", got, want)
	}
}

func TestAggregateCategories(t *testing.T) {
	now := time.Now()
	a := tx("30", model.TransactionExpense, now)
	b := tx("70", model.TransactionExpense, now)
	b.Category = "Bills"
	c := tx("500", model.TransactionIncome, now)

	got := AggregateCategories([]model.Transaction{a, b, c})
	if len(got) != 2 {
		t.Fatalf("got %d categories, want 2", len(got))
	}
	if got[0].Category != "Bills" || got[0].SharePercent != 70 {
		t.Fatalf("first = %+v, want Bills at 70%%", got[0])
	}
}

func TestAggregateTriggers(t *testing.T) {
	now := time.Now()
	stress := "Stress"
	a := tx("40", model.TransactionExpense, now)
	a.EmotionalTrigger = &stress
	b := tx("60", model.TransactionExpense, now)
	b.EmotionalTrigger = &stress
	plain := tx("10", model.TransactionExpense, now)

	got := AggregateTriggers([]model.Transaction{a, b, plain})
	if len(got) != 1 || got[0].Count != 2 || !got[0].Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("AggregateTriggers = %+v", got)
	}
}

func TestDailySpend(t *testing.T) {
	now := time.Date(2026, 10, 3, 12, 0, 0, 0, time.Local)
	txs := []model.Transaction{
		tx("10", model.TransactionExpense, time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)),
		tx("5", model.TransactionExpense, time.Date(2026, 10, 3, 0, 0, 0, 0, time.Local)),
		tx("100", model.TransactionIncome, time.Date(2026, 10, 2, 0, 0, 0, 0, time.Local)),
	}
	got := DailySpend(txs, now)
	want := []float64{10, 0, 5}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("day %d = %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestChallengeProgress(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		target  *float64
		current float64
		want    float64
	}{
		{nil, 5, 0},
		{f(0), 5, 0},
		{f(10), 5, 50},
		{f(10), 25, 100},
	}
	for _, tt := range tests {
		got := ChallengeProgress(model.Challenge{TargetValue: tt.target, CurrentValue: tt.current})
		if got != tt.want {
			t.Errorf("ChallengeProgress(%v, %v) = %v, want %v", tt.target, tt.current, got, tt.want)
		}
	}
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.Local)
	tests := []struct {
		date string
		want int
	}{
		{"2026-10-20", 1},
		{"2026-10-29", 10},
		{"2026-10-19", 0},
		{"2026-10-10", -9},
	}
	for _, tt := range tests {
		d, err := model.ParseDate(tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := DaysLeft(d, now); got != tt.want {
			t.Errorf("DaysLeft(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestPartitionChallenges(t *testing.T) {
	cs := []model.Challenge{
		{ID: "1", Status: model.ChallengeActive},
		{ID: "2", Status: model.ChallengeCompleted},
		{ID: "3", Status: model.ChallengeFailed},
		{ID: "4", Status: model.ChallengeActive},
	}
	active, completed := PartitionChallenges(cs)
	if len(active) != 2 || active[0].ID != "1" || active[1].ID != "4" {
		t.Fatalf("active = %+v", active)
	}
	if len(completed) != 1 || completed[0].ID != "2" {
		t.Fatalf("completed = %+v", completed)
	}
}

func TestBudget(t *testing.T) {
	now := time.Date(2026, 10, 10, 12, 0, 0, 0, time.Local)
	stats := model.MonthlyStats{TotalExpense: decimal.NewFromInt(5000)}
	got := Budget(stats, decimal.NewFromInt(20000), now)

	if got.BudgetUsedPercent != 25 {
		t.Fatalf("BudgetUsedPercent = %v, want 25", got.BudgetUsedPercent)
	}
	if !got.DailyBurnRate.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("DailyBurnRate = %s, want 500", got.DailyBurnRate)
	}
	if !got.ProjectedMonthly.Equal(decimal.NewFromInt(15500)) {
		t.Fatalf("ProjectedMonthly = %s, want 15500", got.ProjectedMonthly)
	}
	if got.DaysRemaining != 21 {
		t.Fatalf("DaysRemaining = %d, want 21", got.DaysRemaining)
	}
	if !got.Remaining.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("Remaining = %s, want 15000", got.Remaining)
	}
}
