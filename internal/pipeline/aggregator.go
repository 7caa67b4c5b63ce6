// Package pipeline loads user-scoped entity sets and derives the dashboard metrics.
package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/theirongolddev/advisor/internal/model"

	"github.com/shopspring/decimal"
)

// StartOfMonth returns local midnight on the first day of now's month.
func StartOfMonth(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
}

// FilterMonth keeps transactions dated between the start of now's month and now.
func FilterMonth(txs []model.Transaction, now time.Time) []model.Transaction {
	start := StartOfMonth(now)
	var out []model.Transaction
	for _, tx := range txs {
		d := tx.TransactionDate.Time
		if d.IsZero() || d.Before(start) || d.After(now) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Aggregate sums expenses and income. Net savings is income minus expense and may be negative.
func Aggregate(txs []model.Transaction) model.MonthlyStats {
	stats := model.MonthlyStats{
		TotalExpense: decimal.Zero,
		TotalIncome:  decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.TransactionType {
		case model.TransactionExpense:
			stats.TotalExpense = stats.TotalExpense.Add(tx.Amount)
		case model.TransactionIncome:
			stats.TotalIncome = stats.TotalIncome.Add(tx.Amount)
		default:
			continue
		}
		stats.Count++
	}
	stats.NetSavings = stats.TotalIncome.Sub(stats.TotalExpense)
	return stats
}

// AggregateMonth aggregates the month-to-date slice of txs.
func AggregateMonth(txs []model.Transaction, now time.Time) model.MonthlyStats {
	return Aggregate(FilterMonth(txs, now))
}

// AggregateCategories totals expenses per category, largest first.
func AggregateCategories(txs []model.Transaction) []model.CategoryStats {
	byCat := make(map[string]*model.CategoryStats)
	total := decimal.Zero
	for _, tx := range txs {
		if tx.TransactionType != model.TransactionExpense {
			continue
		}
		cs, ok := byCat[tx.Category]
		if !ok {
			cs = &model.CategoryStats{Category: tx.Category, Total: decimal.Zero}
			byCat[tx.Category] = cs
		}
		cs.Total = cs.Total.Add(tx.Amount)
		cs.Count++
		total = total.Add(tx.Amount)
	}

	out := make([]model.CategoryStats, 0, len(byCat))
	for _, cs := range byCat {
		if total.IsPositive() {
			cs.SharePercent = cs.Total.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// AggregateTriggers totals expenses per emotional trigger. Untagged expenses are skipped.
func AggregateTriggers(txs []model.Transaction) []model.TriggerStats {
	byTrigger := make(map[string]*model.TriggerStats)
	for _, tx := range txs {
		if tx.TransactionType != model.TransactionExpense || tx.EmotionalTrigger == nil || *tx.EmotionalTrigger == "" {
			continue
		}
		ts, ok := byTrigger[*tx.EmotionalTrigger]
		if !ok {
			ts = &model.TriggerStats{Trigger: *tx.EmotionalTrigger, Total: decimal.Zero}
			byTrigger[*tx.EmotionalTrigger] = ts
		}
		ts.Total = ts.Total.Add(tx.Amount)
		ts.Count++
	}

	out := make([]model.TriggerStats, 0, len(byTrigger))
	for _, ts := range byTrigger {
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Trigger < out[j].Trigger
	})
	return out
}

// DailySpend returns one expense total per day of now's month up to today.
func DailySpend(txs []model.Transaction, now time.Time) []float64 {
	days := now.Day()
	out := make([]float64, days)
	for _, tx := range FilterMonth(txs, now) {
		if tx.TransactionType != model.TransactionExpense {
			continue
		}
		idx := tx.TransactionDate.Day() - 1
		if idx >= 0 && idx < days {
			out[idx] += tx.Amount.InexactFloat64()
		}
	}
	return out
}

// ChallengeProgress returns completion in [0,100]. A challenge without a
// positive target reports zero.
func ChallengeProgress(c model.Challenge) float64 {
	if c.TargetValue == nil || *c.TargetValue <= 0 {
		return 0
	}
	pct := c.CurrentValue / *c.TargetValue * 100
	return math.Max(0, math.Min(pct, 100))
}

// DaysLeft returns whole days until d, rounded up. Negative once d has passed.
func DaysLeft(d model.Date, now time.Time) int {
	return int(math.Ceil(d.Sub(now).Hours() / 24))
}

// PartitionChallenges splits challenges into active and completed, keeping order.
// Failed challenges appear in neither list.
func PartitionChallenges(cs []model.Challenge) (active, completed []model.Challenge) {
	for _, c := range cs {
		switch c.Status {
		case model.ChallengeActive:
			active = append(active, c)
		case model.ChallengeCompleted:
			completed = append(completed, c)
		}
	}
	return active, completed
}

// Budget projects month-end spending against a monthly budget.
func Budget(stats model.MonthlyStats, monthly decimal.Decimal, now time.Time) model.BudgetStats {
	b := model.BudgetStats{
		MonthlyBudget: monthly,
		CurrentSpend:  stats.TotalExpense,
		Remaining:     monthly.Sub(stats.TotalExpense),
	}

	daysInMonth := StartOfMonth(now).AddDate(0, 1, -1).Day()
	elapsed := now.Day()
	b.DaysRemaining = daysInMonth - elapsed

	if elapsed > 0 {
		b.DailyBurnRate = stats.TotalExpense.Div(decimal.NewFromInt(int64(elapsed))).Round(2)
		b.ProjectedMonthly = b.DailyBurnRate.Mul(decimal.NewFromInt(int64(daysInMonth))).Round(2)
	}
	if monthly.IsPositive() {
		b.BudgetUsedPercent = stats.TotalExpense.Div(monthly).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return b
}
