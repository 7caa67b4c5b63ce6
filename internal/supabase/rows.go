package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/theirongolddev/advisor/internal/backend"
)

// Select implements backend.Rows with a PostgREST GET.
func (c *Client) Select(ctx context.Context, token string, q backend.Query, dest any) error {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/" + q.Table,
		query:  encodeQuery(q),
		token:  token,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("supabase: parsing %s: %w", q.Table, err)
	}
	return nil
}

// Insert implements backend.Rows with a PostgREST POST.
func (c *Client) Insert(ctx context.Context, token, table string, row any) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/" + table,
		token:  token,
		body:   row,
		prefer: "return=minimal",
	})
	return err
}

// Update implements backend.Rows with a PostgREST PATCH.
func (c *Client) Update(ctx context.Context, token, table string, values map[string]any, filters ...backend.Filter) error {
	if len(filters) == 0 {
		return fmt.Errorf("supabase: refusing unfiltered update of %s", table)
	}
	_, err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/rest/v1/" + table,
		query:  encodeFilters(url.Values{}, filters),
		token:  token,
		body:   values,
		prefer: "return=minimal",
	})
	return err
}

// encodeQuery renders q as PostgREST query parameters.
func encodeQuery(q backend.Query) url.Values {
	v := url.Values{}
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ",")
	}
	v.Set("select", cols)
	encodeFilters(v, q.Filters)

	if len(q.Orders) > 0 {
		parts := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts[i] = o.Column + "." + dir
		}
		v.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func encodeFilters(v url.Values, filters []backend.Filter) url.Values {
	for _, f := range filters {
		op := string(f.Op)
		if f.Value == nil && f.Op == backend.OpEq {
			op = "is"
		}
		v.Add(f.Column, op+"."+backend.FormatValue(f.Value))
	}
	return v
}
