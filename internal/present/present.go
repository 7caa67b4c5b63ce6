// Package present maps every domain enum onto its display label, glyph,
// and color role. Views and commands render enums only through here.
package present

import (
	"strings"

	"github.com/theirongolddev/advisor/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is a semantic color, resolved to a concrete color by the active theme.
type Role int

const (
	RoleMuted Role = iota
	RoleAccent
	RoleGreen
	RoleBlue
	RoleCyan
	RoleYellow
	RoleOrange
	RoleRed
	RoleMagenta
)

// Style is the presentation of one enum value.
type Style struct {
	Label string
	Glyph string
	Role  Role
}

var titleCaser = cases.Title(language.English)

// Humanize turns a snake_case value into a title-cased label.
func Humanize(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

func fallback(value string) Style {
	return Style{Label: Humanize(value), Glyph: "•", Role: RoleMuted}
}

var personas = map[model.CoachPersona]Style{
	model.PersonaToughAccountant: {Label: "Tough Accountant", Glyph: "▤", Role: RoleMuted},
	model.PersonaChillFriend:     {Label: "Chill Friend", Glyph: "♥", Role: RoleCyan},
	model.PersonaDataNerd:        {Label: "Data Nerd", Glyph: "◆", Role: RoleBlue},
}

var personaBlurbs = map[model.CoachPersona]string{
	model.PersonaToughAccountant: "Direct, no-nonsense financial guidance. Keeps you accountable.",
	model.PersonaChillFriend:     "Supportive and understanding. Encourages positive habits gently.",
	model.PersonaDataNerd:        "Analytics-driven insights. Shows you the numbers behind every decision.",
}

// Persona styles a coach persona.
func Persona(p model.CoachPersona) Style {
	if s, ok := personas[p]; ok {
		return s
	}
	return fallback(string(p))
}

// PersonaDescription returns the one-line pitch shown during onboarding.
func PersonaDescription(p model.CoachPersona) string {
	return personaBlurbs[p]
}

var goalCategories = map[model.GoalCategory]Style{
	model.GoalSavings:       {Label: "Savings", Glyph: "◎", Role: RoleBlue},
	model.GoalDebtPayoff:    {Label: "Debt Payoff", Glyph: "↗", Role: RoleRed},
	model.GoalInvestment:    {Label: "Investment", Glyph: "⚡", Role: RoleGreen},
	model.GoalEmergencyFund: {Label: "Emergency Fund", Glyph: "◎", Role: RoleMagenta},
}

// GoalCategory styles a goal category.
func GoalCategory(c model.GoalCategory) Style {
	if s, ok := goalCategories[c]; ok {
		return s
	}
	return fallback(string(c))
}

var challengeTypes = map[model.ChallengeType]Style{
	model.ChallengeNoSpend:       {Label: "No Spend", Glyph: "◎", Role: RoleAccent},
	model.ChallengeSavingsStreak: {Label: "Savings Streak", Glyph: "✱", Role: RoleOrange},
	model.ChallengeBudgetLimit:   {Label: "Budget Limit", Glyph: "♛", Role: RoleYellow},
	model.ChallengeCustom:        {Label: "Custom", Glyph: "◎", Role: RoleAccent},
}

// ChallengeType styles a challenge type.
func ChallengeType(t model.ChallengeType) Style {
	if s, ok := challengeTypes[t]; ok {
		return s
	}
	return fallback(string(t))
}

var challengeStatuses = map[model.ChallengeStatus]Style{
	model.ChallengeActive:    {Label: "Active", Glyph: "●", Role: RoleBlue},
	model.ChallengeCompleted: {Label: "Completed", Glyph: "✓", Role: RoleGreen},
	model.ChallengeFailed:    {Label: "Failed", Glyph: "✗", Role: RoleRed},
}

// ChallengeStatus styles a challenge status. Unknown statuses render as active.
func ChallengeStatus(s model.ChallengeStatus) Style {
	if st, ok := challengeStatuses[s]; ok {
		return st
	}
	return challengeStatuses[model.ChallengeActive]
}

var insightTypes = map[model.InsightType]Style{
	model.InsightSpendingPattern:    {Label: "Spending Pattern", Glyph: "↗", Role: RoleBlue},
	model.InsightTriggerDetected:    {Label: "Trigger Detected", Glyph: "!", Role: RoleOrange},
	model.InsightSavingsOpportunity: {Label: "Savings Opportunity", Glyph: "✦", Role: RoleGreen},
	model.InsightGoalProgress:       {Label: "Goal Progress", Glyph: "◎", Role: RoleAccent},
	model.InsightBudgetAlert:        {Label: "Budget Alert", Glyph: "♪", Role: RoleRed},
}

// InsightType styles an insight type.
func InsightType(t model.InsightType) Style {
	if s, ok := insightTypes[t]; ok {
		return s
	}
	return Style{Label: Humanize(string(t)), Glyph: "✦", Role: RoleMuted}
}

var priorities = map[model.InsightPriority]Style{
	model.PriorityHigh:   {Label: "High", Glyph: "▲", Role: RoleRed},
	model.PriorityMedium: {Label: "Medium", Glyph: "■", Role: RoleYellow},
	model.PriorityLow:    {Label: "Low", Glyph: "▼", Role: RoleBlue},
}

// Priority styles an insight priority. Unknown priorities render as medium.
func Priority(p model.InsightPriority) Style {
	if s, ok := priorities[p]; ok {
		return s
	}
	return priorities[model.PriorityMedium]
}

var transactionTypes = map[model.TransactionType]Style{
	model.TransactionExpense: {Label: "Expense", Glyph: "↓", Role: RoleRed},
	model.TransactionIncome:  {Label: "Income", Glyph: "↑", Role: RoleGreen},
}

// TransactionType styles a transaction type.
func TransactionType(t model.TransactionType) Style {
	if s, ok := transactionTypes[t]; ok {
		return s
	}
	return fallback(string(t))
}

// Sign returns the prefix shown before a transaction amount.
func Sign(t model.TransactionType) string {
	if t == model.TransactionIncome {
		return "+"
	}
	return "-"
}

var categories = map[string]Style{
	"Food":          {Label: "Food", Glyph: "♨", Role: RoleOrange},
	"Transport":     {Label: "Transport", Glyph: "⇄", Role: RoleBlue},
	"Entertainment": {Label: "Entertainment", Glyph: "♫", Role: RoleMagenta},
	"Bills":         {Label: "Bills", Glyph: "≡", Role: RoleRed},
	"Shopping":      {Label: "Shopping", Glyph: "◈", Role: RoleYellow},
	"Health":        {Label: "Health", Glyph: "✚", Role: RoleGreen},
	"Education":     {Label: "Education", Glyph: "✎", Role: RoleCyan},
	"Other":         {Label: "Other", Glyph: "•", Role: RoleMuted},
}

// Category styles a transaction category.
func Category(name string) Style {
	if s, ok := categories[name]; ok {
		return s
	}
	return Style{Label: name, Glyph: "•", Role: RoleMuted}
}

var bands = map[model.HealthBand]Style{
	model.BandExcellent:      {Label: "Excellent", Glyph: "★", Role: RoleGreen},
	model.BandGood:           {Label: "Good", Glyph: "▲", Role: RoleBlue},
	model.BandFair:           {Label: "Fair", Glyph: "■", Role: RoleYellow},
	model.BandNeedsAttention: {Label: "Needs Attention", Glyph: "!", Role: RoleRed},
}

// Band styles a health band.
func Band(b model.HealthBand) Style {
	if s, ok := bands[b]; ok {
		return s
	}
	return fallback(string(b))
}

// FirstName returns the first word of the profile's full name, or "there".
func FirstName(p *model.UserProfile) string {
	if fields := strings.Fields(p.DisplayName()); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}

// CoachGreeting returns the persona's dashboard greeting.
func CoachGreeting(p *model.UserProfile) string {
	name := FirstName(p)
	persona := model.PersonaChillFriend
	if p != nil {
		persona = p.CoachPersona
	}
	switch persona {
	case model.PersonaToughAccountant:
		return name + ", let's get your finances in order. No excuses!"
	case model.PersonaDataNerd:
		return name + ", here's your data-driven financial snapshot."
	default:
		return "Hey " + name + "! Ready to crush some financial goals today?"
	}
}

// EmptyState is the placeholder shown for an empty entity set.
type EmptyState struct {
	Title string
	Hint  string
}

// Empty placeholders per entity set.
var (
	EmptyTransactions = EmptyState{"No transactions yet", "Add your first transaction to get started"}
	EmptyGoals        = EmptyState{"No active goals yet", "Create your first goal to start tracking progress"}
	EmptyChallenges   = EmptyState{"No challenges yet", "Start a challenge to earn rewards and build better habits"}
	EmptyBadges       = EmptyState{"No badges earned yet", "Complete challenges and goals to earn badges"}
	EmptyInsights     = EmptyState{"No insights yet", "Add transactions to get personalized insights"}
)
