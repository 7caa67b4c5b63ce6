package pipeline

import "github.com/theirongolddev/advisor/internal/model"

// DefaultHealthScore is shown when no profile is loaded.
const DefaultHealthScore = 50

// Band thresholds.
const (
	excellentFrom = 80
	goodFrom      = 60
	fairFrom      = 40
)

// BandFor maps a score onto its band. Defined for every integer.
func BandFor(score int) model.HealthBand {
	switch {
	case score >= excellentFrom:
		return model.BandExcellent
	case score >= goodFrom:
		return model.BandGood
	case score >= fairFrom:
		return model.BandFair
	default:
		return model.BandNeedsAttention
	}
}

// HeadlineScore returns the profile's score, or DefaultHealthScore without a profile.
func HeadlineScore(p *model.UserProfile) int {
	if p == nil {
		return DefaultHealthScore
	}
	return p.FinancialHealthScore
}

// DefaultBreakdown is the fixed sub-score breakdown shown on the dashboard.
func DefaultBreakdown() model.ScoreBreakdown {
	return model.ScoreBreakdown{
		SpendingDiscipline: 75,
		SavingsRate:        65,
		DebtManagement:     80,
		GoalProgress:       70,
	}
}

// Fill returns the gauge fill fraction for score, clamped to [0,1].
func Fill(score int) float64 {
	f := float64(score) / 100
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Gauge builds the health gauge for a headline score and its breakdown.
func Gauge(score int, b model.ScoreBreakdown) model.HealthGauge {
	parts := []model.SubScore{
		{Key: "spending_discipline", Label: "Spending Discipline", Score: b.SpendingDiscipline},
		{Key: "savings_rate", Label: "Savings Rate", Score: b.SavingsRate},
		{Key: "debt_management", Label: "Debt Management", Score: b.DebtManagement},
		{Key: "goal_progress", Label: "Goal Progress", Score: b.GoalProgress},
	}
	for i := range parts {
		parts[i].Band = BandFor(parts[i].Score)
		parts[i].Fill = Fill(parts[i].Score)
	}
	return model.HealthGauge{
		Score: score,
		Band:  BandFor(score),
		Fill:  Fill(score),
		Parts: parts,
	}
}
