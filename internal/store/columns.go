package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/theirongolddev/advisor/internal/backend"
)

// kind is the storage class of a column and how it maps to JSON.
type kind int

const (
	kText    kind = iota
	kInt          // INTEGER, JSON number
	kBool         // INTEGER 0/1, JSON bool
	kFloat        // REAL, JSON number
	kNumeric      // exact decimal kept as TEXT, JSON number
	kJSON         // TEXT holding a JSON document
)

// tableDef describes one row table.
type tableDef struct {
	owner      string
	columns    map[string]kind
	timestamps []string
}

var tables = map[string]tableDef{
	backend.TableProfiles: {
		owner: "id",
		columns: map[string]kind{
			"id": kText, "email": kText, "full_name": kText,
			"coach_persona": kText, "stress_spender": kBool, "primary_goal": kText,
			"onboarding_completed": kBool, "financial_health_score": kInt,
			"created_at": kText, "updated_at": kText,
		},
		timestamps: []string{"created_at", "updated_at"},
	},
	backend.TableTransactions: {
		owner: "user_id",
		columns: map[string]kind{
			"id": kText, "user_id": kText, "amount": kNumeric, "category": kText,
			"subcategory": kText, "description": kText, "transaction_date": kText,
			"transaction_type": kText, "payment_method": kText, "merchant": kText,
			"is_recurring": kBool, "tags": kJSON, "emotional_trigger": kText,
			"weather_condition": kText, "day_of_week": kText, "created_at": kText,
		},
		timestamps: []string{"created_at"},
	},
	backend.TableGoals: {
		owner: "user_id",
		columns: map[string]kind{
			"id": kText, "user_id": kText, "title": kText,
			"target_amount": kNumeric, "current_amount": kNumeric, "target_date": kText,
			"category": kText, "weekly_plan_amount": kNumeric, "is_active": kBool,
			"progress_percentage": kFloat, "created_at": kText, "updated_at": kText,
		},
		timestamps: []string{"created_at", "updated_at"},
	},
	backend.TableChallenges: {
		owner: "user_id",
		columns: map[string]kind{
			"id": kText, "user_id": kText, "title": kText, "description": kText,
			"challenge_type": kText, "target_value": kFloat, "current_value": kFloat,
			"start_date": kText, "end_date": kText, "status": kText,
			"reward_points": kInt, "is_community": kBool, "created_at": kText,
		},
		timestamps: []string{"created_at"},
	},
	backend.TableBadges: {
		owner: "user_id",
		columns: map[string]kind{
			"id": kText, "user_id": kText, "badge_type": kText, "title": kText,
			"description": kText, "icon": kText, "earned_at": kText,
		},
		timestamps: []string{"earned_at"},
	},
	backend.TableInsights: {
		owner: "user_id",
		columns: map[string]kind{
			"id": kText, "user_id": kText, "insight_type": kText, "title": kText,
			"message": kText, "explanation": kText, "action_recommended": kText,
			"priority": kText, "is_read": kBool, "created_at": kText,
		},
		timestamps: []string{"created_at"},
	},
}

func lookupTable(name string) (tableDef, error) {
	def, ok := tables[name]
	if !ok {
		return tableDef{}, &backend.APIError{
			Status:  404,
			Code:    "42P01",
			Message: fmt.Sprintf("relation %q does not exist", name),
			Err:     backend.ErrNotFound,
		}
	}
	return def, nil
}

func (d tableDef) column(table, col string) (kind, error) {
	k, ok := d.columns[col]
	if !ok {
		return 0, &backend.APIError{
			Status:  400,
			Code:    "42703",
			Message: fmt.Sprintf("column %s.%s does not exist", table, col),
			Err:     fmt.Errorf("store: unknown column %s.%s", table, col),
		}
	}
	return k, nil
}

// toSQL converts a decoded JSON value into a value for binding to a column.
func toSQL(k kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch k {
	case kBool:
		switch b := v.(type) {
		case bool:
			if b {
				return 1, nil
			}
			return 0, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, err
			}
			return toSQL(k, parsed)
		}
	case kInt:
		switch n := v.(type) {
		case json.Number:
			return n.Int64()
		case string:
			return strconv.ParseInt(n, 10, 64)
		}
	case kFloat:
		switch n := v.(type) {
		case json.Number:
			return n.Float64()
		case string:
			return strconv.ParseFloat(n, 64)
		}
	case kNumeric:
		switch n := v.(type) {
		case json.Number:
			return n.String(), nil
		case string:
			if _, err := strconv.ParseFloat(n, 64); err != nil {
				return nil, fmt.Errorf("invalid numeric %q", n)
			}
			return n, nil
		}
	case kJSON:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	case kText:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return backend.FormatValue(v), nil
	}
	return nil, fmt.Errorf("unexpected %T value", v)
}

// fromSQL converts a scanned column into a JSON-ready value.
func fromSQL(k kind, v any) any {
	if v == nil {
		return nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch k {
	case kBool:
		switch n := v.(type) {
		case int64:
			return n != 0
		case string:
			return n == "1" || n == "true"
		}
	case kNumeric:
		switch n := v.(type) {
		case string:
			return json.Number(n)
		case int64:
			return json.Number(strconv.FormatInt(n, 10))
		case float64:
			return json.Number(strconv.FormatFloat(n, 'f', -1, 64))
		}
	case kJSON:
		if s, ok := v.(string); ok {
			return json.RawMessage(s)
		}
	}
	return v
}
