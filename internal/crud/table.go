package crud

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gymdesk/internal/db"

	"github.com/shopspring/decimal"
)

// Sum is a header aggregate over a numeric column.
type Sum struct {
	Name string
	Expr string
}

// Table describes how the generic layer reads one entity.
type Table struct {
	Name    string // physical table, used for deletes
	Select  string
	From    string
	ID      string
	OrderBy string
	Created string
	Active  string
	Sums    []Sum
}

func (t Table) List(ctx context.Context, q db.Querier, dest interface{}, f *Filter, limit, offset int) error {
	where, args := f.SQL()
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT ? OFFSET ?", t.Select, t.From, where, t.OrderBy)
	args = append(args, limit, offset)
	return q.SelectContext(ctx, dest, Rebind(query), args...)
}

func (t Table) Get(ctx context.Context, q db.Querier, dest interface{}, id int) error {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", t.Select, t.From, t.ID)
	err := q.GetContext(ctx, dest, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Header computes the list header over the filtered set.
func (t Table) Header(ctx context.Context, q db.Querier, f *Filter) (map[string]interface{}, error) {
	cols := []string{
		"COUNT(*) AS total_count",
		fmt.Sprintf("COUNT(*) FILTER (WHERE %s >= date_trunc('month', CURRENT_DATE)) AS this_month_count", t.Created),
	}
	if t.Active != "" {
		cols = append(cols,
			fmt.Sprintf("COUNT(*) FILTER (WHERE %s) AS active_count", t.Active),
			fmt.Sprintf("COUNT(*) FILTER (WHERE NOT %s) AS inactive_count", t.Active),
		)
	}
	for _, s := range t.Sums {
		cols = append(cols, fmt.Sprintf("COALESCE(SUM(%s), 0) AS sum_%s", s.Expr, s.Name))
	}

	where, args := f.SQL()
	query := fmt.Sprintf("SELECT %s FROM %s%s", strings.Join(cols, ", "), t.From, where)

	raw := map[string]interface{}{}
	if err := q.QueryRowxContext(ctx, Rebind(query), args...).MapScan(raw); err != nil {
		return nil, err
	}

	header := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if strings.HasPrefix(k, "sum_") {
			header[k] = toDecimal(v)
			continue
		}
		header[k] = toInt(v)
	}
	return header, nil
}

func (t Table) Delete(ctx context.Context, q db.Querier, id int) error {
	res, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.Name), id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Conflict{Message: "This record is referenced by other records and cannot be deleted."}
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case []byte:
		d, _ := decimal.NewFromString(string(n))
		return int(d.IntPart())
	case string:
		d, _ := decimal.NewFromString(n)
		return int(d.IntPart())
	}
	return 0
}

func toDecimal(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case []byte:
		d, _ := decimal.NewFromString(string(n))
		return d
	case string:
		d, _ := decimal.NewFromString(n)
		return d
	case float64:
		return decimal.NewFromFloat(n)
	case int64:
		return decimal.NewFromInt(n)
	}
	return decimal.Zero
}
