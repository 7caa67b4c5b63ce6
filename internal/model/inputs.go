package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionInput is the row written when the user records a transaction.
type TransactionInput struct {
	UserID           string          `json:"user_id"`
	Amount           decimal.Decimal `json:"amount"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
	TransactionDate  Date            `json:"transaction_date"`
	TransactionType  TransactionType `json:"transaction_type"`
	PaymentMethod    *string         `json:"payment_method,omitempty"`
	Merchant         *string         `json:"merchant,omitempty"`
	EmotionalTrigger *string         `json:"emotional_trigger,omitempty"`
	DayOfWeek        string          `json:"day_of_week"`
}

// NewProfile is the row inserted at sign-up.
type NewProfile struct {
	ID                   string       `json:"id"`
	Email                string       `json:"email"`
	CoachPersona         CoachPersona `json:"coach_persona"`
	StressSpender        bool         `json:"stress_spender"`
	OnboardingCompleted  bool         `json:"onboarding_completed"`
	FinancialHealthScore int          `json:"financial_health_score"`
}

// DefaultProfile returns the profile every new identity starts with.
func DefaultProfile(id, email string) NewProfile {
	return NewProfile{
		ID:                   id,
		Email:                email,
		CoachPersona:         PersonaChillFriend,
		StressSpender:        false,
		OnboardingCompleted:  false,
		FinancialHealthScore: 50,
	}
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	FullName            *string
	CoachPersona        *CoachPersona
	StressSpender       *bool
	PrimaryGoal         *string
	OnboardingCompleted *bool
}

// Values returns the column map for the update, stamped with updatedAt.
func (u ProfileUpdate) Values(updatedAt time.Time) map[string]any {
	v := map[string]any{"updated_at": updatedAt.UTC().Format(time.RFC3339)}
	if u.FullName != nil {
		v["full_name"] = *u.FullName
	}
	if u.CoachPersona != nil {
		v["coach_persona"] = string(*u.CoachPersona)
	}
	if u.StressSpender != nil {
		v["stress_spender"] = *u.StressSpender
	}
	if u.PrimaryGoal != nil {
		v["primary_goal"] = *u.PrimaryGoal
	}
	if u.OnboardingCompleted != nil {
		v["onboarding_completed"] = *u.OnboardingCompleted
	}
	return v
}
