package backend

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Op is a comparison operator in a row filter.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// Filter restricts rows by comparing a column to a value.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq returns an equality filter.
func Eq(col string, v any) Filter { return Filter{Column: col, Op: OpEq, Value: v} }

// Order sorts rows by one column.
type Order struct {
	Column string
	Desc   bool
}

// Query describes a single bounded read against one table.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Orders  []Order
	Limit   int
}

// From starts a query on table selecting every column.
func From(table string) Query {
	return Query{Table: table}
}

// Select restricts the returned columns.
func (q Query) Select(cols ...string) Query {
	q.Columns = append([]string(nil), cols...)
	return q
}

func (q Query) where(col string, op Op, v any) Query {
	fs := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(fs, q.Filters)
	q.Filters = append(fs, Filter{Column: col, Op: op, Value: v})
	return q
}

// Eq adds col = v.
func (q Query) Eq(col string, v any) Query { return q.where(col, OpEq, v) }

// Gte adds col >= v.
func (q Query) Gte(col string, v any) Query { return q.where(col, OpGte, v) }

// Lte adds col <= v.
func (q Query) Lte(col string, v any) Query { return q.where(col, OpLte, v) }

// OrderBy appends a sort key.
func (q Query) OrderBy(col string, desc bool) Query {
	os := make([]Order, len(q.Orders), len(q.Orders)+1)
	copy(os, q.Orders)
	q.Orders = append(os, Order{Column: col, Desc: desc})
	return q
}

// WithLimit bounds the number of rows. Zero means unbounded.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// Owner returns the value of the equality filter on col, if any.
func (q Query) Owner(col string) (string, bool) {
	for _, f := range q.Filters {
		if f.Column == col && f.Op == OpEq {
			return FormatValue(f.Value), true
		}
	}
	return "", false
}

// FormatValue renders a filter value the way the row API expects it in a URL.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
