package model

// CoachPersona selects the tone of coaching messages.
type CoachPersona string

const (
	PersonaToughAccountant CoachPersona = "tough_accountant"
	PersonaChillFriend     CoachPersona = "chill_friend"
	PersonaDataNerd        CoachPersona = "data_nerd"
)

// Personas lists every persona in onboarding order.
var Personas = []CoachPersona{PersonaToughAccountant, PersonaChillFriend, PersonaDataNerd}

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionExpense TransactionType = "expense"
	TransactionIncome  TransactionType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionExpense || t == TransactionIncome
}

// GoalCategory classifies a financial goal.
type GoalCategory string

const (
	GoalSavings       GoalCategory = "savings"
	GoalDebtPayoff    GoalCategory = "debt_payoff"
	GoalInvestment    GoalCategory = "investment"
	GoalEmergencyFund GoalCategory = "emergency_fund"
)

// ChallengeType classifies a challenge.
type ChallengeType string

const (
	ChallengeNoSpend       ChallengeType = "no_spend"
	ChallengeSavingsStreak ChallengeType = "savings_streak"
	ChallengeBudgetLimit   ChallengeType = "budget_limit"
	ChallengeCustom        ChallengeType = "custom"
)

// ChallengeStatus is maintained by the service.
type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"
	ChallengeFailed    ChallengeStatus = "failed"
)

// InsightType classifies an insight.
type InsightType string

const (
	InsightSpendingPattern    InsightType = "spending_pattern"
	InsightTriggerDetected    InsightType = "trigger_detected"
	InsightSavingsOpportunity InsightType = "savings_opportunity"
	InsightGoalProgress       InsightType = "goal_progress"
	InsightBudgetAlert        InsightType = "budget_alert"
)

// InsightPriority orders insights by urgency.
type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

// Transaction form choices.
var (
	Categories        = []string{"Food", "Transport", "Entertainment", "Bills", "Shopping", "Health", "Education", "Other"}
	PaymentMethods    = []string{"Card", "Cash", "UPI", "Bank Transfer"}
	EmotionalTriggers = []string{"None", "Stress", "Boredom", "Celebration", "Social Pressure", "Tired", "Angry"}
)
