package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/advisor/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0"},
		{"500", "₹500"},
		{"1234.5", "₹1,234.5"},
		{"1234567.891", "₹1,234,567.89"},
		{"-350", "-₹350"},
	}
	for _, tt := range tests {
		if got := FormatMoney(decimal.RequireFromString(tt.in), "₹"); got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	amt := decimal.RequireFromString("120.5")
	if got := FormatSigned(amt, model.TransactionExpense, "₹"); got != "-₹120.50" {
		t.Fatalf("expense = %q", got)
	}
	if got := FormatSigned(amt, model.TransactionIncome, "$"); got != "+$120.50" {
		t.Fatalf("income = %q", got)
	}
}

func TestFormatDaysLeft(t *testing.T) {
	if got := FormatDaysLeft(0, "Ended"); got != "Ended" {
		t.Fatalf("0 days = %q", got)
	}
	if got := FormatDaysLeft(1, "Ended"); got != "1 day left" {
		t.Fatalf("1 day = %q", got)
	}
	if got := FormatDaysLeft(12, "Goal date passed"); got != "12 days left" {
		t.Fatalf("12 days = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Fatalf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-1000); got != "-1,000" {
		t.Fatalf("FormatNumber(-1000) = %q", got)
	}
}

func TestRenderTableAlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Item", "Amount"},
		Rows: [][]string{
			{"Coffee", "₹120.00"},
			{"---"},
			{"Rent", "₹15,000.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Fatalf("line %d width %d, want %d:\n%s", i, lipgloss.Width(l), w, out)
		}
	}
}
