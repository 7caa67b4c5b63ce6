// Package model defines domain types for advisor profiles, transactions, and coaching data.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserProfile is the per-identity profile row. One exists for every signed-up user.
type UserProfile struct {
	ID                   string       `json:"id"`
	Email                string       `json:"email"`
	FullName             *string      `json:"full_name"`
	CoachPersona         CoachPersona `json:"coach_persona"`
	StressSpender        bool         `json:"stress_spender"`
	PrimaryGoal          *string      `json:"primary_goal"`
	OnboardingCompleted  bool         `json:"onboarding_completed"`
	FinancialHealthScore int          `json:"financial_health_score"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// DisplayName returns the full name, or empty when unset.
func (p *UserProfile) DisplayName() string {
	if p == nil || p.FullName == nil {
		return ""
	}
	return *p.FullName
}

// Transaction is a single income or expense entry.
type Transaction struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Amount           decimal.Decimal `json:"amount"`
	Category         string          `json:"category"`
	Subcategory      *string         `json:"subcategory"`
	Description      string          `json:"description"`
	TransactionDate  Date            `json:"transaction_date"`
	TransactionType  TransactionType `json:"transaction_type"`
	PaymentMethod    *string         `json:"payment_method"`
	Merchant         *string         `json:"merchant"`
	IsRecurring      bool            `json:"is_recurring"`
	Tags             []string        `json:"tags"`
	EmotionalTrigger *string         `json:"emotional_trigger"`
	WeatherCondition *string         `json:"weather_condition"`
	DayOfWeek        *string         `json:"day_of_week"`
	CreatedAt        time.Time       `json:"created_at"`
}

// FinancialGoal is a savings or payoff target. ProgressPercentage is maintained server-side.
type FinancialGoal struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"user_id"`
	Title              string           `json:"title"`
	TargetAmount       decimal.Decimal  `json:"target_amount"`
	CurrentAmount      decimal.Decimal  `json:"current_amount"`
	TargetDate         Date             `json:"target_date"`
	Category           GoalCategory     `json:"category"`
	WeeklyPlanAmount   *decimal.Decimal `json:"weekly_plan_amount"`
	IsActive           bool             `json:"is_active"`
	ProgressPercentage float64          `json:"progress_percentage"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Challenge is a time-boxed habit challenge.
type Challenge struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Title         string          `json:"title"`
	Description   *string         `json:"description"`
	ChallengeType ChallengeType   `json:"challenge_type"`
	TargetValue   *float64        `json:"target_value"`
	CurrentValue  float64         `json:"current_value"`
	StartDate     Date            `json:"start_date"`
	EndDate       Date            `json:"end_date"`
	Status        ChallengeStatus `json:"status"`
	RewardPoints  int             `json:"reward_points"`
	IsCommunity   bool            `json:"is_community"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Badge is an earned achievement. Badges are append-only.
type Badge struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	BadgeType   string    `json:"badge_type"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	EarnedAt    time.Time `json:"earned_at"`
}

// Insight is a coaching message produced by the service.
type Insight struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	InsightType       InsightType     `json:"insight_type"`
	Title             string          `json:"title"`
	Message           string          `json:"message"`
	Explanation       *string         `json:"explanation"`
	ActionRecommended *string         `json:"action_recommended"`
	Priority          InsightPriority `json:"priority"`
	IsRead            bool            `json:"is_read"`
	CreatedAt         time.Time       `json:"created_at"`
}
