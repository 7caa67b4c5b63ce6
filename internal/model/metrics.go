package model

import "github.com/shopspring/decimal"

// MonthlyStats holds the month-to-date totals shown on the dashboard.
type MonthlyStats struct {
	TotalExpense decimal.Decimal
	TotalIncome  decimal.Decimal
	NetSavings   decimal.Decimal
	Count        int
}

// CategoryStats holds expense totals for one category.
type CategoryStats struct {
	Category     string
	Total        decimal.Decimal
	Count        int
	SharePercent float64
}

// TriggerStats holds expense totals attributed to one emotional trigger.
type TriggerStats struct {
	Trigger string
	Total   decimal.Decimal
	Count   int
}

// HealthBand is the qualitative band of a health score.
type HealthBand string

const (
	BandExcellent      HealthBand = "excellent"
	BandGood           HealthBand = "good"
	BandFair           HealthBand = "fair"
	BandNeedsAttention HealthBand = "needs_attention"
)

// ScoreBreakdown holds the four sub-scores of the health gauge, each in [0,100].
type ScoreBreakdown struct {
	SpendingDiscipline int
	SavingsRate        int
	DebtManagement     int
	GoalProgress       int
}

// SubScore is one labelled component of a breakdown.
type SubScore struct {
	Key   string
	Label string
	Score int
	Band  HealthBand
	Fill  float64
}

// HealthGauge is the rendered state of the health-score gauge.
type HealthGauge struct {
	Score int
	Band  HealthBand
	Fill  float64
	Parts []SubScore
}
