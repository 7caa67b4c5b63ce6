package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/present"
	"github.com/theirongolddev/advisor/internal/session"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE:  runSignUp,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and profile",
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().StringVar(&flagEmail, "email", "", "Account email")
		c.Flags().StringVar(&flagPassword, "password", "", "Account password (prompted when omitted; ADVISOR_PASSWORD also works)")
	}
	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
}

// credentials fills in email and password from flags, env, or a prompt.
func credentials(title string) (string, string, error) {
	email := strings.TrimSpace(flagEmail)
	password := flagPassword
	if password == "" {
		password = os.Getenv("ADVISOR_PASSWORD")
	}
	if email != "" && password != "" {
		return email, password, nil
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewNote().Title(title),
		huh.NewInput().Title("Email").Value(&email).
			Validate(func(s string) error {
				if !strings.Contains(s, "@") {
					return errors.New("enter a valid email address")
				}
				return nil
			}),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
	))
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(email), password, nil
}

func authenticate(cmd *cobra.Command, title string, op func(*session.Store, context.Context, string, string) session.Result) error {
	email, password, err := credentials(title)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	res := op(a.session, ctx, email, password)
	if !res.Success {
		return errors.New(res.Message)
	}

	snap := a.session.Snapshot()
	if snap.Status != session.Authenticated {
		// Email confirmation pending.
		fmt.Printf("  %s\n", res.Message)
		return nil
	}
	fmt.Printf("  %s Signed in as %s (%s)\n", cli.Colored(present.RoleGreen, "✓"), snap.User.Email, a.svc.Name())
	if snap.NeedsOnboarding() {
		fmt.Println("  Finish setting up your coach with `advisor onboard`.")
	}
	return nil
}

func runSignUp(cmd *cobra.Command, _ []string) error {
	return authenticate(cmd, "Create your advisor account", (*session.Store).SignUp)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	return authenticate(cmd, "Sign in to advisor", (*session.Store).SignIn)
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	res := a.session.SignOut(ctx)
	if !res.Success {
		fmt.Fprintf(os.Stderr, "  %s\n", res.Message)
	}
	fmt.Println("  Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	snap := a.session.Snapshot()
	if snap.Status != session.Authenticated {
		return errNotSignedIn
	}

	p := snap.Profile
	score := pipeline.HeadlineScore(p)
	rows := [][]string{
		{"Email", snap.User.Email},
		{"Name", cli.Deref(p.FullName, "-")},
		{"Coach", cli.Styled(present.Persona(p.CoachPersona))},
		{"Stress spender", yesNo(p.StressSpender)},
		{"Primary goal", cli.Deref(p.PrimaryGoal, "-")},
		{"Health score", fmt.Sprintf("%d  %s", score, cli.Styled(present.Band(pipeline.BandFor(score))))},
		{"Onboarded", yesNo(p.OnboardingCompleted)},
		{"Backend", a.svc.Name()},
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      "Account",
		Rows:       rows,
		RightAlign: []bool{false, false},
	}))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
