package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/present"
	"github.com/theirongolddev/advisor/internal/source"

	"github.com/charmbracelet/huh"
)

// Auth modes.
const (
	AuthSignIn = "signin"
	AuthSignUp = "signup"
)

// AuthValues backs the sign-in form. Forms keep pointers into it, so it must
// live on the heap and outlive the form.
type AuthValues struct {
	Mode     string
	Email    string
	Password string
}

// NewAuthForm builds the sign-in / create-account form. notice is shown
// above the fields, e.g. the result of the previous attempt.
func NewAuthForm(v *AuthValues, notice string) *huh.Form {
	if v.Mode == "" {
		v.Mode = AuthSignIn
	}
	desc := "Sign in to continue, or create an account."
	if notice != "" {
		desc = notice
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("AI Financial Coach").
				Description(desc),
			huh.NewSelect[string]().
				Title("Account").
				Options(
					huh.NewOption("Sign in", AuthSignIn),
					huh.NewOption("Create account", AuthSignUp),
				).
				Value(&v.Mode),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&v.Email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("enter a valid email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.Password).
				Validate(func(s string) error {
					if len(s) < 6 {
						return errors.New("password must be at least 6 characters")
					}
					return nil
				}),
		),
	).WithShowHelp(false)
}

// OnboardingValues backs the onboarding form.
type OnboardingValues struct {
	FullName      string
	Persona       model.CoachPersona
	StressSpender bool
	PrimaryGoal   string
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

// NewOnboardingForm builds the four-step onboarding form.
func NewOnboardingForm(v *OnboardingValues) *huh.Form {
	if v.Persona == "" {
		v.Persona = model.PersonaChillFriend
	}

	personaOpts := make([]huh.Option[model.CoachPersona], 0, len(model.Personas))
	for _, p := range model.Personas {
		s := present.Persona(p)
		personaOpts = append(personaOpts, huh.NewOption(s.Glyph+" "+s.Label+"  "+present.PersonaDescription(p), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What's your name?").
				Description("Step 1 of 4").
				Placeholder("Full name").
				Value(&v.FullName).
				Validate(required("name")),
		),
		huh.NewGroup(
			huh.NewSelect[model.CoachPersona]().
				Title("Choose your coach").
				Description("Step 2 of 4").
				Options(personaOpts...).
				Value(&v.Persona),
		),
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title("Do you stress-spend?").
				Description("Step 3 of 4").
				Options(
					huh.NewOption("Yes, I do stress-spend  I often make purchases when feeling stressed, bored, or emotional.", true),
					huh.NewOption("No, I'm usually mindful  I make planned purchases and rarely buy things impulsively.", false),
				).
				Value(&v.StressSpender),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("What's your main financial goal?").
				Description("Step 4 of 4").
				Placeholder("e.g. Build an emergency fund").
				Value(&v.PrimaryGoal).
				Validate(required("goal")),
		),
	).WithShowHelp(false)
}

// Update returns the profile change that completes onboarding.
func (v *OnboardingValues) Update() model.ProfileUpdate {
	name := strings.TrimSpace(v.FullName)
	goal := strings.TrimSpace(v.PrimaryGoal)
	persona := v.Persona
	stress := v.StressSpender
	done := true
	return model.ProfileUpdate{
		FullName:            &name,
		CoachPersona:        &persona,
		StressSpender:       &stress,
		PrimaryGoal:         &goal,
		OnboardingCompleted: &done,
	}
}

// TransactionValues backs the add-transaction form.
type TransactionValues struct {
	Type          model.TransactionType
	Amount        string
	Category      string
	PaymentMethod string
	Description   string
	Merchant      string
	Trigger       string
}

func stringOptions(values []string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(v, v)
	}
	return opts
}

func validAmount(s string) error {
	d, err := source.ParseAmount(s)
	if err != nil {
		return err
	}
	if !d.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

// NewTransactionForm builds the add-transaction form.
func NewTransactionForm(v *TransactionValues) *huh.Form {
	if v.Type == "" {
		v.Type = model.TransactionExpense
	}
	if v.Category == "" {
		v.Category = model.Categories[0]
	}
	if v.PaymentMethod == "" {
		v.PaymentMethod = model.PaymentMethods[0]
	}
	if v.Trigger == "" {
		v.Trigger = model.EmotionalTriggers[0]
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.TransactionType]().
				Title("Type").
				Options(
					huh.NewOption("Expense", model.TransactionExpense),
					huh.NewOption("Income", model.TransactionIncome),
				).
				Value(&v.Type),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&v.Amount).
				Validate(validAmount),
			huh.NewSelect[string]().
				Title("Category").
				Options(stringOptions(model.Categories)...).
				Value(&v.Category),
			huh.NewSelect[string]().
				Title("Payment method").
				Options(stringOptions(model.PaymentMethods)...).
				Value(&v.PaymentMethod),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Placeholder("What was this for?").
				Value(&v.Description).
				Validate(required("description")),
			huh.NewInput().
				Title("Merchant").
				Placeholder("Optional").
				Value(&v.Merchant),
			huh.NewSelect[string]().
				Title("How were you feeling?").
				Options(stringOptions(model.EmotionalTriggers)...).
				Value(&v.Trigger),
		),
	).WithShowHelp(false)
}

// Input converts the form values into a row dated today.
func (v *TransactionValues) Input(userID string, now time.Time) (model.TransactionInput, error) {
	amount, err := source.ParseAmount(v.Amount)
	if err != nil {
		return model.TransactionInput{}, err
	}
	if !amount.IsPositive() {
		return model.TransactionInput{}, errors.New("amount must be greater than zero")
	}
	if !v.Type.Valid() {
		return model.TransactionInput{}, errors.New("type must be expense or income")
	}
	desc := strings.TrimSpace(v.Description)
	if desc == "" {
		return model.TransactionInput{}, errors.New("description is required")
	}

	today := model.NewDate(now)
	in := model.TransactionInput{
		UserID:          userID,
		Amount:          amount,
		Category:        v.Category,
		Description:     desc,
		TransactionDate: today,
		TransactionType: v.Type,
		DayOfWeek:       today.Weekday().String(),
	}
	if v.PaymentMethod != "" {
		pm := v.PaymentMethod
		in.PaymentMethod = &pm
	}
	if m := strings.TrimSpace(v.Merchant); m != "" {
		in.Merchant = &m
	}
	if v.Trigger != "" && v.Trigger != "None" {
		tr := v.Trigger
		in.EmotionalTrigger = &tr
	}
	return in, nil
}
