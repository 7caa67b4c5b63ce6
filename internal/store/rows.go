package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/advisor/internal/backend"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var sqlOps = map[backend.Op]string{
	backend.OpEq:  "=",
	backend.OpGt:  ">",
	backend.OpGte: ">=",
	backend.OpLt:  "<",
	backend.OpLte: "<=",
}

func zapUser(id string) zap.Field { return zap.String("user_id", id) }

// Select implements backend.Rows. Rows are always restricted to the
// token's identity, whatever filters the query carries.
func (s *DB) Select(ctx context.Context, token string, q backend.Query, dest any) error {
	uid, err := s.authorize(token)
	if err != nil {
		return err
	}
	def, err := lookupTable(q.Table)
	if err != nil {
		return err
	}

	cols := q.Columns
	if len(cols) == 0 {
		cols = sortedColumns(def)
	}
	kinds := make([]kind, len(cols))
	for i, col := range cols {
		k, err := def.column(q.Table, col)
		if err != nil {
			return err
		}
		kinds[i] = k
	}

	where, args, err := s.whereClause(q.Table, def, uid, q.Filters)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE %s", strings.Join(cols, ", "), q.Table, where)
	if len(q.Orders) > 0 {
		parts := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			if _, err := def.column(q.Table, o.Column); err != nil {
				return err
			}
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts[i] = o.Column + " " + dir
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return fmt.Errorf("querying %s: %w", q.Table, err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]map[string]any, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scanning %s: %w", q.Table, err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = fromSQL(kinds[i], vals[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding %s rows: %w", q.Table, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decoding %s rows: %w", q.Table, err)
	}
	return nil
}

// Insert implements backend.Rows. The owner column defaults to the token's
// identity and may not name anyone else.
func (s *DB) Insert(ctx context.Context, token, table string, row any) error {
	uid, err := s.authorize(token)
	if err != nil {
		return err
	}
	def, err := lookupTable(table)
	if err != nil {
		return err
	}
	values, err := decodeRow(row)
	if err != nil {
		return err
	}

	if owner, ok := values[def.owner]; ok && owner != nil && owner != "" && fmt.Sprint(owner) != uid {
		return rlsViolation(table)
	}
	values[def.owner] = uid
	if _, ok := values["id"]; !ok {
		values["id"] = uuid.NewString()
	}
	now := s.timestamp()
	for _, col := range def.timestamps {
		if v, ok := values[col]; !ok || v == nil {
			values[col] = now
		}
	}

	cols := make([]string, 0, len(values))
	for col := range values {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, col := range cols {
		k, err := def.column(table, col)
		if err != nil {
			return err
		}
		if args[i], err = toSQL(k, values[col]); err != nil {
			return badValue(table, col, err)
		}
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(len(cols)))
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return constraintError(table, err)
	}
	s.log.Debug("row inserted", zap.String("table", table), zapUser(uid))
	return nil
}

// Update implements backend.Rows. Only rows owned by the token's identity change.
func (s *DB) Update(ctx context.Context, token, table string, values map[string]any, filters ...backend.Filter) error {
	if len(filters) == 0 {
		return fmt.Errorf("store: refusing unfiltered update of %s", table)
	}
	uid, err := s.authorize(token)
	if err != nil {
		return err
	}
	def, err := lookupTable(table)
	if err != nil {
		return err
	}
	decoded, err := decodeRow(values)
	if err != nil {
		return err
	}
	if _, ok := decoded[def.owner]; ok {
		return rlsViolation(table)
	}
	if len(decoded) == 0 {
		return nil
	}

	cols := make([]string, 0, len(decoded))
	for col := range decoded {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filters)+1)
	for i, col := range cols {
		k, err := def.column(table, col)
		if err != nil {
			return err
		}
		v, err := toSQL(k, decoded[col])
		if err != nil {
			return badValue(table, col, err)
		}
		sets[i] = col + " = ?"
		args = append(args, v)
	}

	where, whereArgs, err := s.whereClause(table, def, uid, filters)
	if err != nil {
		return err
	}
	args = append(args, whereArgs...)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), where)
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return constraintError(table, err)
	}
	n, _ := res.RowsAffected()
	s.log.Debug("rows updated", zap.String("table", table), zapUser(uid), zap.Int64("rows", n))
	return nil
}

// whereClause builds the owner predicate plus the caller's filters.
func (s *DB) whereClause(table string, def tableDef, uid string, filters []backend.Filter) (string, []any, error) {
	conds := []string{def.owner + " = ?"}
	args := []any{uid}
	for _, f := range filters {
		k, err := def.column(table, f.Column)
		if err != nil {
			return "", nil, err
		}
		op, ok := sqlOps[f.Op]
		if !ok {
			return "", nil, fmt.Errorf("store: unsupported operator %q", f.Op)
		}
		if f.Value == nil {
			if f.Op != backend.OpEq {
				return "", nil, fmt.Errorf("store: %s on null", f.Op)
			}
			conds = append(conds, f.Column+" IS NULL")
			continue
		}
		v, err := filterValue(k, f.Value)
		if err != nil {
			return "", nil, badValue(table, f.Column, err)
		}
		conds = append(conds, f.Column+" "+op+" ?")
		args = append(args, v)
	}
	return strings.Join(conds, " AND "), args, nil
}

func filterValue(k kind, v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return toSQL(kBool, x)
	case int, int64, float64:
		if k == kNumeric {
			return backend.FormatValue(x), nil
		}
		return x, nil
	}
	return backend.FormatValue(v), nil
}

// decodeRow turns any JSON-encodable row into a column map.
func decodeRow(row any) (map[string]any, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encoding row: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("row must be a JSON object: %w", err)
	}
	return values, nil
}

func sortedColumns(def tableDef) []string {
	cols := make([]string, 0, len(def.columns))
	for col := range def.columns {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func rlsViolation(table string) error {
	return &backend.APIError{
		Status:  http.StatusForbidden,
		Code:    "42501",
		Message: fmt.Sprintf("new row violates row-level security policy for table %q", table),
		Err:     backend.ErrForbidden,
	}
}

func badValue(table, col string, err error) error {
	return &backend.APIError{
		Status:  http.StatusBadRequest,
		Code:    "22P02",
		Message: fmt.Sprintf("invalid value for %s.%s: %v", table, col, err),
		Err:     err,
	}
}

func constraintError(table string, err error) error {
	switch {
	case isUniqueViolation(err):
		return &backend.APIError{
			Status:  http.StatusConflict,
			Code:    "23505",
			Message: fmt.Sprintf("duplicate key value violates unique constraint on %q", table),
			Err:     err,
		}
	case isCheckViolation(err):
		return &backend.APIError{
			Status:  http.StatusBadRequest,
			Code:    "23514",
			Message: fmt.Sprintf("new row for relation %q violates a constraint", table),
			Err:     err,
		}
	}
	return fmt.Errorf("writing %s: %w", table, err)
}
