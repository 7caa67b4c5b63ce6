package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/advisor/internal/model"
)

// writeCSV creates a temp CSV file and returns its path.
func writeCSV(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_ValidRows(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "oct.csv",
		"date,type,amount,category,description,merchant,payment_method,emotional_trigger",
		"2026-10-03,expense,250.50,Food,Lunch,Cafe Blue,UPI,Stressed",
		"2026-10-05,income,\"₹1,20,000\",Income,Salary,,Bank Transfer,None",
	)

	res := ParseFile(path)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Inputs) != 2 || res.ParseErrors != 0 {
		t.Fatalf("inputs = %d, errors = %d, want 2, 0", len(res.Inputs), res.ParseErrors)
	}

	lunch := res.Inputs[0]
	if lunch.TransactionType != model.TransactionExpense {
		t.Errorf("type = %q, want expense", lunch.TransactionType)
	}
	if lunch.Amount.String() != "250.5" {
		t.Errorf("amount = %s, want 250.5", lunch.Amount)
	}
	if lunch.Merchant == nil || *lunch.Merchant != "Cafe Blue" {
		t.Errorf("merchant = %v", lunch.Merchant)
	}
	if lunch.EmotionalTrigger == nil || *lunch.EmotionalTrigger != "Stressed" {
		t.Errorf("trigger = %v", lunch.EmotionalTrigger)
	}
	if lunch.DayOfWeek != "Saturday" {
		t.Errorf("day = %q, want Saturday", lunch.DayOfWeek)
	}

	salary := res.Inputs[1]
	if salary.Amount.String() != "120000" {
		t.Errorf("amount = %s, want 120000", salary.Amount)
	}
	if salary.Merchant != nil {
		t.Errorf("empty merchant should be nil, got %q", *salary.Merchant)
	}
	if salary.EmotionalTrigger != nil {
		t.Errorf("None trigger should be nil, got %q", *salary.EmotionalTrigger)
	}
}

func TestParse_SkipsBadRows(t *testing.T) {
	res := Parse(strings.NewReader(strings.Join([]string{
		"date,type,amount",
		"2026-10-01,expense,10",
		"yesterday,expense,10",
		"2026-10-02,transfer,10",
		"2026-10-03,expense,ten",
		"2026-10-04,expense,-5",
		"",
		"2026-10-05,INCOME,99",
	}, "\n")))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Inputs) != 2 {
		t.Errorf("inputs = %d, want 2", len(res.Inputs))
	}
	if res.ParseErrors != 4 {
		t.Errorf("ParseErrors = %d, want 4", res.ParseErrors)
	}
	if len(res.Errors) == 0 || res.Errors[0].Line != 3 {
		t.Errorf("first error = %+v, want line 3", res.Errors)
	}
	if res.Inputs[0].Category != "Other" {
		t.Errorf("default category = %q, want Other", res.Inputs[0].Category)
	}
}

func TestParse_HeaderVariants(t *testing.T) {
	res := Parse(strings.NewReader("\ufeffAmount, Type ,Date,Emotional Trigger\n12,expense,2026-10-01,Bored\n"))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Inputs) != 1 {
		t.Fatalf("inputs = %d, want 1", len(res.Inputs))
	}
	if tr := res.Inputs[0].EmotionalTrigger; tr == nil || *tr != "Bored" {
		t.Errorf("trigger = %v, want Bored", tr)
	}
}

func TestParse_MissingHeader(t *testing.T) {
	res := Parse(strings.NewReader("date,category\n2026-10-01,Food\n"))
	if res.Err == nil || !strings.Contains(res.Err.Error(), "type") {
		t.Errorf("err = %v, want missing type column", res.Err)
	}

	res = Parse(strings.NewReader(""))
	if res.Err == nil {
		t.Error("empty input should fail")
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"100", "100", true},
		{"₹1,234.56", "1234.56", true},
		{"0", "0", true},
		{"", "", false},
		{"abc", "", false},
		{"-1", "", false},
		{" $ 2,500 ", "2500", true},
		{"12abc34", "", false},
		{"1e3", "", false},
		{"(50.00)", "", false},
		{"1-2", "", false},
		{"1.2.3", "", false},
		{"₹", "", false},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if (err == nil) != c.ok {
			t.Errorf("ParseAmount(%q) err = %v, want ok=%v", c.in, err, c.ok)
			continue
		}
		if c.ok && got.String() != c.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "b.csv", "date,type,amount")
	writeCSV(t, dir, "a.CSV", "date,type,amount")
	writeCSV(t, dir, "notes.txt", "ignore me")
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o700); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 2 || files[0].Name != "a.CSV" || files[1].Name != "b.csv" {
		t.Errorf("files = %+v", files)
	}

	single, err := ScanDir(files[1].Path)
	if err != nil || len(single) != 1 {
		t.Errorf("ScanDir(file) = %+v, %v", single, err)
	}

	if _, err := ScanDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing path should fail")
	}
}

func TestTemplateRoundTrips(t *testing.T) {
	res := Parse(strings.NewReader(Template(time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local))))
	if res.Err != nil || len(res.Inputs) != 1 {
		t.Fatalf("template parse = %d inputs, err %v", len(res.Inputs), res.Err)
	}
	if res.Inputs[0].EmotionalTrigger != nil {
		t.Error("template trigger None should be nil")
	}
}
