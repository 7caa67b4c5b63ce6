package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, total := range []int{80, 81, 119, 180} {
		for n := 1; n <= 5; n++ {
			sum := 0
			for _, w := range LayoutRow(total, n) {
				sum += w
			}
			if sum != total {
				t.Fatalf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
	if LayoutRow(80, 0) != nil {
		t.Fatal("LayoutRow(80, 0) should be nil")
	}
}

func TestCardRowPadsShorterCards(t *testing.T) {
	theme.SetActive("indigo")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI styling in the padded area", i)
		}
	}

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestCardRowSkipsEmpty(t *testing.T) {
	card := ContentCard("Only", "x", 20)
	if got := CardRow([]string{"", card, ""}); lipgloss.Width(got) != lipgloss.Width(card) {
		t.Errorf("CardRow with empties width = %d, want %d", lipgloss.Width(got), lipgloss.Width(card))
	}
	if CardRow(nil) != "" {
		t.Error("CardRow(nil) should be empty")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Monthly Expenses", Value: "₹150"},
		{Label: "Monthly Income", Value: "₹500"},
		{Label: "Net Savings", Value: "₹350", Delta: "70% of income"},
	}, 90)
	if w := lipgloss.Width(row); w != 90 {
		t.Errorf("row width = %d, want 90", w)
	}
	if !strings.Contains(row, "Net Savings") {
		t.Error("row missing card label")
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		bar := RenderTabBar(active, 0)
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1 // separators

		if got := lipgloss.Width(bar); got != want {
			t.Errorf("active=%d: rendered width = %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	cases := map[rune]int{'d': 0, 't': 1, 'g': 2, 'c': 3, 'b': 4, 'z': -1}
	for key, want := range cases {
		if got := TabIdxByKey(key); got != want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestHealthGaugeShowsScoreAndParts(t *testing.T) {
	g := model.HealthGauge{
		Score: 72,
		Band:  model.BandGood,
		Fill:  0.72,
		Parts: []model.SubScore{
			{Label: "Spending Discipline", Score: 75, Band: model.BandGood, Fill: 0.75},
			{Label: "Savings Rate", Score: 65, Band: model.BandGood, Fill: 0.65},
		},
	}
	out := stripANSI(HealthGauge(g, 50))
	for _, want := range []string{"72", "/ 100", "Good", "Spending Discipline", "Savings Rate"} {
		if !strings.Contains(out, want) {
			t.Errorf("gauge missing %q:\n%s", want, out)
		}
	}
	if h := lipgloss.Height(out); h != 4 {
		t.Errorf("gauge height = %d, want 4", h)
	}
}

func TestHorizontalBarsScale(t *testing.T) {
	out := stripANSI(HorizontalBars([]Bar{
		{Label: "Food", Value: 300, Text: "₹300"},
		{Label: "Transport", Value: 150, Text: "₹150"},
	}, 40))
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	food := strings.Count(lines[0], "█")
	transport := strings.Count(lines[1], "█")
	if food != 2*transport {
		t.Errorf("bar lengths = %d / %d, want 2:1", food, transport)
	}
	if HorizontalBars(nil, 40) != "" {
		t.Error("no bars should render empty")
	}
}

func TestDayColumns(t *testing.T) {
	values := make([]float64, 19)
	values[0] = 400
	values[9] = 1200
	out := stripANSI(DayColumns(values, "₹", 80, 6))
	lines := strings.Split(out, "\n")
	if len(lines) != 8 {
		t.Fatalf("lines = %d, want 6 rows + axis + labels", len(lines))
	}
	if !strings.Contains(lines[0], "₹1.2k") {
		t.Errorf("top axis label missing: %q", lines[0])
	}
	if !strings.Contains(lines[0], "█") {
		t.Error("peak column should reach the top row")
	}
	for _, day := range []string{"1", "5", "10", "19"} {
		if !strings.Contains(lines[7], day) {
			t.Errorf("day %s missing from labels %q", day, lines[7])
		}
	}
	if DayColumns(nil, "₹", 80, 6) != "" {
		t.Error("no values should render empty")
	}
}

func TestCompactAmount(t *testing.T) {
	cases := map[float64]string{0: "0", 950: "950", 1200: "1.2k", 15000: "15k", 2500000: "2.5M"}
	for v, want := range cases {
		if got := compactAmount(v); got != want {
			t.Errorf("compactAmount(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestColorForPct(t *testing.T) {
	th := theme.Active
	cases := []struct {
		pct  float64
		want lipgloss.Color
	}{
		{0.1, th.Green},
		{0.6, th.Yellow},
		{0.85, th.Orange},
		{1.2, th.Red},
	}
	for _, c := range cases {
		if got := ColorForPct(c.pct); got != c.want {
			t.Errorf("ColorForPct(%v) = %v, want %v", c.pct, got, c.want)
		}
	}
}

// stripANSI removes CSI escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
