package model

import "github.com/shopspring/decimal"

// BudgetStats holds monthly budget tracking and forecast data.
type BudgetStats struct {
	MonthlyBudget     decimal.Decimal
	CurrentSpend      decimal.Decimal
	DailyBurnRate     decimal.Decimal
	ProjectedMonthly  decimal.Decimal
	Remaining         decimal.Decimal
	DaysRemaining     int
	BudgetUsedPercent float64
}
