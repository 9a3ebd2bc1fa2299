package crud

import (
	"net/url"
	"strconv"
	"strings"

	"gymdesk/internal/dates"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Filter accumulates WHERE clauses from query-string parameters. Conditions use
// "?" placeholders and are rebound for Postgres when the query is built.
type Filter struct {
	values  url.Values
	clauses []string
	args    []interface{}
	errs    ValidationErrors
}

func NewFilter(values url.Values) *Filter {
	return &Filter{values: values, errs: ValidationErrors{}}
}

func (f *Filter) Get(param string) string {
	return strings.TrimSpace(f.values.Get(param))
}

func (f *Filter) Where(cond string, args ...interface{}) {
	f.clauses = append(f.clauses, cond)
	f.args = append(f.args, args...)
}

// Search matches any of the columns case-insensitively.
func (f *Filter) Search(param string, columns ...string) {
	term := f.Get(param)
	if term == "" || len(columns) == 0 {
		return
	}
	like := "%" + term + "%"
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE ?"
		args[i] = like
	}
	f.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func (f *Filter) Choice(param, column string, allowed []string) {
	v := f.Get(param)
	if v == "" {
		return
	}
	for _, a := range allowed {
		if a == v {
			f.Where(column+" = ?", v)
			return
		}
	}
	f.errs.Add(param, "invalid_choice", "Select a valid choice. "+v+" is not one of the available choices.")
}

func (f *Filter) Int(param, column string) {
	v := f.Get(param)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.errs.Add(param, "invalid", "Enter a whole number.")
		return
	}
	f.Where(column+" = ?", n)
}

func (f *Filter) Bool(param, column string) {
	switch strings.ToLower(f.Get(param)) {
	case "":
	case "true", "1", "yes", "on":
		f.Where(column + " = TRUE")
	case "false", "0", "no", "off":
		f.Where(column + " = FALSE")
	default:
		f.errs.Add(param, "invalid", "Enter true or false.")
	}
}

func (f *Filter) date(param string) (string, bool) {
	v := f.Get(param)
	if v == "" {
		return "", false
	}
	if _, err := dates.Parse(&v); err != nil {
		f.errs.Add(param, "invalid", "Enter a valid date.")
		return "", false
	}
	return v, true
}

func (f *Filter) DateFrom(param, column string) {
	if v, ok := f.date(param); ok {
		f.Where(column+" >= ?", v)
	}
}

func (f *Filter) DateTo(param, column string) {
	if v, ok := f.date(param); ok {
		f.Where(column+" <= ?", v)
	}
}

func (f *Filter) decimal(param string) (decimal.Decimal, bool) {
	v := f.Get(param)
	if v == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		f.errs.Add(param, "invalid", "Enter a number.")
		return decimal.Zero, false
	}
	return d, true
}

func (f *Filter) Min(param, column string) {
	if d, ok := f.decimal(param); ok {
		f.Where(column+" >= ?", d)
	}
}

func (f *Filter) Max(param, column string) {
	if d, ok := f.decimal(param); ok {
		f.Where(column+" <= ?", d)
	}
}

func (f *Filter) Errors() ValidationErrors {
	if len(f.errs) == 0 {
		return nil
	}
	return f.errs
}

// SQL renders the WHERE clause (with leading space) and its arguments.
func (f *Filter) SQL() (string, []interface{}) {
	if len(f.clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(f.clauses, " AND "), f.args
}

// Rebind converts "?" placeholders to Postgres "$n".
func Rebind(query string) string {
	return sqlx.Rebind(sqlx.DOLLAR, query)
}
