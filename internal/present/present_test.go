package present

import (
	"testing"

	"github.com/theirongolddev/advisor/internal/model"
)

func strp(s string) *string { return &s }

func TestCoachGreeting(t *testing.T) {
	tests := []struct {
		name    string
		profile *model.UserProfile
		want    string
	}{
		{"nil profile", nil, "Hey there! Ready to crush some financial goals today?"},
		{"chill", &model.UserProfile{FullName: strp("Priya Sharma"), CoachPersona: model.PersonaChillFriend},
			"Hey Priya! Ready to crush some financial goals today?"},
		{"tough", &model.UserProfile{FullName: strp("Ravi"), CoachPersona: model.PersonaToughAccountant},
			"Ravi, let's get your finances in order. No excuses!"},
		{"nerd without name", &model.UserProfile{FullName: strp("  "), CoachPersona: model.PersonaDataNerd},
			"there, here's your data-driven financial snapshot."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoachGreeting(tt.profile); got != tt.want {
				t.Fatalf("CoachGreeting = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHumanize(t *testing.T) {
	if got := Humanize("savings_opportunity"); got != "Savings Opportunity" {
		t.Fatalf("Humanize = %q", got)
	}
}

func TestUnknownValuesFallBack(t *testing.T) {
	if got := GoalCategory("retirement"); got.Label != "Retirement" || got.Role != RoleMuted {
		t.Fatalf("GoalCategory(retirement) = %+v", got)
	}
	if got := Priority("urgent"); got != Priority(model.PriorityMedium) {
		t.Fatalf("unknown priority = %+v, want medium", got)
	}
	if got := ChallengeStatus("paused"); got != ChallengeStatus(model.ChallengeActive) {
		t.Fatalf("unknown status = %+v, want active", got)
	}
	if got := Category("Pets"); got.Label != "Pets" {
		t.Fatalf("Category(Pets) = %+v", got)
	}
}

func TestEveryEnumHasStyle(t *testing.T) {
	for _, p := range model.Personas {
		if Persona(p).Label == "" || PersonaDescription(p) == "" {
			t.Errorf("persona %s missing presentation", p)
		}
	}
	for _, c := range []model.GoalCategory{model.GoalSavings, model.GoalDebtPayoff, model.GoalInvestment, model.GoalEmergencyFund} {
		if _, ok := goalCategories[c]; !ok {
			t.Errorf("goal category %s missing", c)
		}
	}
	for _, it := range []model.InsightType{
		model.InsightSpendingPattern, model.InsightTriggerDetected, model.InsightSavingsOpportunity,
		model.InsightGoalProgress, model.InsightBudgetAlert,
	} {
		if _, ok := insightTypes[it]; !ok {
			t.Errorf("insight type %s missing", it)
		}
	}
	for _, c := range model.Categories {
		if _, ok := categories[c]; !ok {
			t.Errorf("category %s missing", c)
		}
	}
	for _, b := range []model.HealthBand{model.BandExcellent, model.BandGood, model.BandFair, model.BandNeedsAttention} {
		if _, ok := bands[b]; !ok {
			t.Errorf("band %s missing", b)
		}
	}
}
