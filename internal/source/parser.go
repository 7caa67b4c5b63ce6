// Package source reads transaction import files.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/theirongolddev/advisor/internal/model"

	"github.com/shopspring/decimal"
)

const maxLineErrors = 20

// ParseFile reads a CSV import file.
func ParseFile(path string) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	res := Parse(f)
	res.Path = path
	return res
}

// Parse reads CSV transactions from r. Rows that cannot be parsed are counted
// and skipped; a missing or malformed header fails the whole file.
func Parse(r io.Reader) ParseResult {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ParseResult{Err: errors.New("empty file: expected a header row")}
		}
		return ParseResult{Err: fmt.Errorf("reading header: %w", err)}
	}
	cols, err := indexHeader(head)
	if err != nil {
		return ParseResult{Err: err}
	}

	var res ParseResult
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.skip(perr.Line, perr.Err.Error())
				continue
			}
			res.Err = err
			return res
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)

		in, err := parseRecord(rec, cols)
		if err != nil {
			res.skip(line, err.Error())
			continue
		}
		res.Inputs = append(res.Inputs, in)
	}
	return res
}

func (r *ParseResult) skip(line int, msg string) {
	r.ParseErrors++
	if len(r.Errors) < maxLineErrors {
		r.Errors = append(r.Errors, LineError{Line: line, Msg: msg})
	}
}

// indexHeader maps column names to positions.
func indexHeader(head []string) (map[string]int, error) {
	cols := make(map[string]int, len(head))
	for i, h := range head {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		name = strings.ReplaceAll(name, " ", "_")
		if slices.Contains(Header, name) {
			cols[name] = i
		}
	}
	var missing []string
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header missing column(s): %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func optional(rec []string, cols map[string]int, name string) *string {
	v := field(rec, cols, name)
	if v == "" {
		return nil
	}
	return &v
}

func parseRecord(rec []string, cols map[string]int) (model.TransactionInput, error) {
	var in model.TransactionInput

	d, err := model.ParseDate(field(rec, cols, ColDate))
	if err != nil {
		return in, fmt.Errorf("date: %w", err)
	}

	tt := model.TransactionType(strings.ToLower(field(rec, cols, ColType)))
	if !tt.Valid() {
		return in, fmt.Errorf("type %q: want expense or income", field(rec, cols, ColType))
	}

	amount, err := ParseAmount(field(rec, cols, ColAmount))
	if err != nil {
		return in, err
	}

	category := field(rec, cols, ColCategory)
	if category == "" {
		category = "Other"
	}

	in = model.TransactionInput{
		Amount:          amount,
		Category:        category,
		Description:     field(rec, cols, ColDescription),
		TransactionDate: d,
		TransactionType: tt,
		Merchant:        optional(rec, cols, ColMerchant),
		PaymentMethod:   optional(rec, cols, ColPaymentMethod),
		DayOfWeek:       d.Weekday().String(),
	}
	// "None" means no trigger was felt.
	if t := optional(rec, cols, ColEmotionalTrigger); t != nil && !strings.EqualFold(*t, "none") {
		in.EmotionalTrigger = t
	}
	return in, nil
}

// ParseAmount parses a non-negative money amount. A leading currency symbol
// and thousands separators are tolerated; anything else that is not a digit,
// a decimal point or a leading minus sign is rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimLeftFunc(clean, func(r rune) bool { return unicode.Is(unicode.Sc, r) })
	clean = strings.ReplaceAll(strings.TrimSpace(clean), ",", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("amount %q: not a number", s)
	}
	for i, r := range clean {
		if (r < '0' || r > '9') && r != '.' && (r != '-' || i != 0) {
			return decimal.Zero, fmt.Errorf("amount %q: not a number", s)
		}
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q: must not be negative", s)
	}
	return d, nil
}

// ScanDir lists the CSV files directly under dir, sorted by name. A path to
// a single file is returned as-is.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []DiscoveredFile{{Path: dir, Name: filepath.Base(dir)}}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, DiscoveredFile{Path: filepath.Join(dir, e.Name()), Name: e.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Template returns a CSV header line and one example row.
func Template(now time.Time) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(Header)
	_ = w.Write([]string{now.Format(model.DateLayout), "expense", "250.00", "Food", "Lunch", "Cafe", "UPI", "None"})
	w.Flush()
	return b.String()
}
