package crud

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFilter_SQL(t *testing.T) {
	f := NewFilter(url.Values{
		"q":         {"ann"},
		"status":    {"active"},
		"plan":      {"3"},
		"date_from": {"2024-01-01"},
		"min":       {"10.5"},
		"is_active": {"yes"},
	})
	f.Search("q", "m.name", "m.email")
	f.Choice("status", "m.status", []string{"active", "expired"})
	f.Int("plan", "m.subscription_plan_id")
	f.DateFrom("date_from", "m.subscription_start")
	f.Min("min", "p.amount")
	f.Bool("is_active", "sp.is_active")

	assert.Nil(t, f.Errors())

	where, args := f.SQL()
	assert.Equal(t,
		" WHERE (m.name ILIKE ? OR m.email ILIKE ?) AND m.status = ? AND m.subscription_plan_id = ?"+
			" AND m.subscription_start >= ? AND p.amount >= ? AND sp.is_active = TRUE",
		where)
	assert.Equal(t, []interface{}{"%ann%", "%ann%", "active", 3, "2024-01-01", decimal.RequireFromString("10.5")}, args)
}

func TestFilter_Empty(t *testing.T) {
	f := NewFilter(url.Values{})
	f.Search("q", "name")
	f.Int("plan", "plan_id")

	where, args := f.SQL()
	assert.Empty(t, where)
	assert.Nil(t, args)
}

func TestFilter_Errors(t *testing.T) {
	f := NewFilter(url.Values{
		"status":    {"frozen"},
		"plan":      {"x"},
		"date_to":   {"31/12/2024"},
		"max":       {"lots"},
		"is_active": {"maybe"},
	})
	f.Choice("status", "status", []string{"active", "expired"})
	f.Int("plan", "plan_id")
	f.DateTo("date_to", "end")
	f.Max("max", "amount")
	f.Bool("is_active", "is_active")

	errs := f.Errors()
	assert.Len(t, errs, 5)
	assert.Equal(t, "invalid_choice", errs["status"][0].Code)

	where, _ := f.SQL()
	assert.Empty(t, where)
}

func TestRebind(t *testing.T) {
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2", Rebind("SELECT 1 WHERE a = ? AND b = ?"))
}
