package expense

import (
	"context"
	"testing"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, Repository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dbx := sqlx.NewDb(db, "sqlmock")
	return dbx, mock, NewRepository(dbx)
}

func rent() *Input {
	amount := decimal.NewFromInt(50000)
	return &Input{Category: "rent", Amount: &amount, Description: "May rent"}
}

func TestWriterCreate_RecordsActorAndToday(t *testing.T) {
	dbx, mock, repo := newMockRepo(t)
	noon := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	w := &writer{repo: repo, now: func() time.Time { return noon }}

	mock.ExpectQuery(`INSERT INTO expenses`).
		WithArgs("rent", sqlmock.AnyArg(), "May rent", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), "cash", "", 7, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	actor := auth.NewActor(7, "owner@gym.local", "administration", true, false, true, nil)
	id, err := w.Create(context.Background(), dbx, actor, rent())
	require.NoError(t, err)
	assert.Equal(t, 4, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	dbx, mock, repo := newMockRepo(t)

	mock.ExpectExec(`UPDATE expenses`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), dbx, 9, rent())
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestInput_Validation(t *testing.T) {
	v := crud.NewValidator()
	negative := decimal.NewFromInt(-5)

	errs := v.Validate(&Input{Category: "snacks", Amount: &negative, PaymentMethod: "cheque"})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "category")
	assert.Contains(t, errs, "amount")
	assert.Contains(t, errs, "payment_method")

	assert.Nil(t, v.Validate(rent()))
}

func TestFilters(t *testing.T) {
	f := crud.NewFilter(map[string][]string{"category": {"rent"}, "min_amount": {"100"}, "is_recurring": {"true"}})
	Filters(f)
	require.Empty(t, f.Errors())

	where, args := f.SQL()
	assert.Contains(t, where, "e.category = ?")
	assert.Len(t, args, 2)
}
