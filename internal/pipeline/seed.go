package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/model"
)

// SeedRow is one sample row destined for table.
type SeedRow struct {
	Table string
	Row   map[string]any
}

// SeedRows returns sample goals, challenges, badges and insights anchored
// at now. The data service normally produces these; seeding lets a local
// database show every view.
func SeedRows(now time.Time) []SeedRow {
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format(model.DateLayout) }

	return []SeedRow{
		{backend.TableGoals, map[string]any{
			"title": "Emergency fund", "category": string(model.GoalEmergencyFund),
			"target_amount": "100000", "current_amount": "35000",
			"target_date": day(180), "weekly_plan_amount": "2500",
			"is_active": true, "progress_percentage": 35.0,
		}},
		{backend.TableGoals, map[string]any{
			"title": "Clear credit card", "category": string(model.GoalDebtPayoff),
			"target_amount": "40000", "current_amount": "28000",
			"target_date": day(60), "weekly_plan_amount": "1500",
			"is_active": true, "progress_percentage": 70.0,
		}},
		{backend.TableChallenges, map[string]any{
			"title": "No-spend weekend", "description": "Skip every non-essential purchase this weekend.",
			"challenge_type": string(model.ChallengeNoSpend), "target_value": 2.0, "current_value": 1.0,
			"start_date": day(-1), "end_date": day(6), "status": string(model.ChallengeActive),
			"reward_points": 50,
		}},
		{backend.TableChallenges, map[string]any{
			"title": "Save daily for a week", "description": "Move a little into savings every day.",
			"challenge_type": string(model.ChallengeSavingsStreak), "target_value": 7.0, "current_value": 7.0,
			"start_date": day(-14), "end_date": day(-7), "status": string(model.ChallengeCompleted),
			"reward_points": 100, "is_community": true,
		}},
		{backend.TableBadges, map[string]any{
			"badge_type": "first_transaction", "title": "First Step",
			"description": "Logged your first transaction.", "icon": "🌱",
		}},
		{backend.TableBadges, map[string]any{
			"badge_type": "streak_7", "title": "Week Warrior",
			"description": "Completed a seven day savings streak.", "icon": "🔥",
		}},
		{backend.TableInsights, map[string]any{
			"insight_type": string(model.InsightSpendingPattern), "priority": string(model.PriorityMedium),
			"title":              "Weekend spending spike",
			"message":            "Most of your food spending lands on Saturdays and Sundays.",
			"explanation":        "Weekend meals out cost roughly twice your weekday average.",
			"action_recommended": "Plan two home-cooked weekend meals.",
		}},
		{backend.TableInsights, map[string]any{
			"insight_type": string(model.InsightGoalProgress), "priority": string(model.PriorityLow),
			"title":   "Credit card payoff on track",
			"message": "You are 70% of the way to clearing your card.",
		}},
		{backend.TableInsights, map[string]any{
			"insight_type": string(model.InsightTriggerDetected), "priority": string(model.PriorityHigh),
			"title":              "Stress purchases detected",
			"message":            "Three purchases this week were tagged as stress spending.",
			"action_recommended": "Try a 24-hour pause before non-essential buys.",
		}},
	}
}

// Seed inserts SeedRows for id, stopping at the first failure.
func Seed(ctx context.Context, rows backend.Rows, id Identity, now time.Time) (int, error) {
	if !id.Valid() {
		return 0, backend.ErrUnauthorized
	}
	n := 0
	for _, r := range SeedRows(now) {
		if err := rows.Insert(ctx, id.Token, r.Table, r.Row); err != nil {
			return n, fmt.Errorf("seeding %s: %w", r.Table, err)
		}
		n++
	}
	return n, nil
}
