package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gymdesk/internal/auth"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{
	"id", "email", "first_name", "last_name", "phone_number", "user_type", "is_staff", "is_superuser",
	"is_active", "password_hash", "last_login", "created_on", "updated_on",
}

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock, *sqlx.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return NewRepository(sqlxDB), mock, sqlxDB
}

func TestCreateAndFindUser(t *testing.T) {
	repo, mock, _ := setupUserMock(t)
	ctx := context.Background()
	now := time.Now()

	// Create: staff всегда administration
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (email, first_name, last_name, phone_number, password_hash, user_type, is_staff, is_superuser)")).
		WithArgs("alice@example.com", "Alice", "", "", "hash", TypeAdministration, true, false).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "alice@example.com", "Alice", "", "", TypeAdministration, true, false, true, "hash", nil, now, now))

	u, err := repo.Create(ctx, NewAccount{Email: " Alice@Example.com", FirstName: "Alice", PasswordHash: "hash", UserType: TypeClient, IsStaff: true})
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	assert.Equal(t, "Alice", u.FullName())

	// FindByEmail
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE LOWER(email) = LOWER($1)")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "alice@example.com", "Alice", "", "", TypeAdministration, true, false, true, "hash", nil, now, now))

	fu, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice", fu.FirstName)

	// EmailExists true
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, _ := setupUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := repo.Create(context.Background(), NewAccount{Email: "a@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, _ := setupUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCapabilities(t *testing.T) {
	repo, mock, _ := setupUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT module, action, entity FROM user_permissions WHERE user_id = $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"module", "action", "entity"}).
			AddRow("finance", "add", "payment").
			AddRow("finance", "view", "payment"))

	caps, err := repo.Capabilities(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []auth.Capability{
		auth.Cap("finance", auth.ActionAdd, "payment"),
		auth.Cap("finance", auth.ActionView, "payment"),
	}, caps)
}

func TestGrant(t *testing.T) {
	repo, mock, _ := setupUserMock(t)
	c := auth.Cap("finance", auth.ActionAdd, "payment")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_permissions (user_id, module, action, entity)")).
		WithArgs(5, "finance", "add", "payment").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Grant(context.Background(), 5, c))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_permissions")).
		WithArgs(404, "finance", "add", "payment").
		WillReturnError(&pq.Error{Code: "23503"})
	assert.ErrorIs(t, repo.Grant(context.Background(), 404, c), ErrUserNotFound)
}

func TestRevoke(t *testing.T) {
	repo, mock, _ := setupUserMock(t)
	c := auth.Cap("finance", auth.ActionAdd, "payment")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_permissions")).
		WithArgs(5, "finance", "add", "payment").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Revoke(context.Background(), 5, c))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_permissions")).
		WithArgs(5, "finance", "add", "payment").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Revoke(context.Background(), 5, c), ErrPermissionNotFound)
}

func TestAccountOf(t *testing.T) {
	repo, mock, sqlxDB := setupUserMock(t)
	now := time.Now()

	cols := []string{"id", "email", "first_name", "last_name", "phone_number", "user_type", "is_staff",
		"is_superuser", "is_active", "last_login", "created_on", "updated_on"}

	mock.ExpectQuery(regexp.QuoteMeta("JOIN members m ON m.user_id = u.id")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, "m@example.com", "Sara", "Ali", "0300", TypeClient, false, false, true, nil, now, now))

	u, err := repo.AccountOf(context.Background(), sqlxDB, 9)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Sara Ali", u.FullName())
	assert.Empty(t, u.PasswordHash)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN members m ON m.user_id = u.id")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(cols))

	u, err = repo.AccountOf(context.Background(), sqlxDB, 10)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestInsertAndUpdateAccount(t *testing.T) {
	repo, mock, sqlxDB := setupUserMock(t)
	ctx := context.Background()
	acc := NewAccount{Email: "desk@example.com", FirstName: "Desk", PasswordHash: "hash", UserType: TypeAdministration, IsStaff: true}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (email, first_name, last_name, phone_number, password_hash, user_type, is_staff, is_superuser, is_active)")).
		WithArgs("desk@example.com", "Desk", "", "", "hash", TypeAdministration, true, false, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	id, err := repo.Insert(ctx, sqlxDB, acc, false)
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	_, err = repo.Insert(ctx, sqlxDB, acc, true)
	assert.ErrorIs(t, err, ErrEmailExists)

	// пустой хеш оставляет пароль как есть
	mock.ExpectExec(regexp.QuoteMeta("password_hash = COALESCE(NULLIF($9, ''), password_hash)")).
		WithArgs("desk@example.com", "Desk", "", "", TypeAdministration, true, false, true, "", 12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	acc.PasswordHash = ""
	require.NoError(t, repo.UpdateAccount(ctx, sqlxDB, 12, acc, true))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateAccount(ctx, sqlxDB, 404, acc, true), ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileAndSetPassword(t *testing.T) {
	repo, mock, _ := setupUserMock(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SET first_name = $1, last_name = $2, phone_number = $3, updated_on = NOW()")).
		WithArgs("Sara", "Ali", "0300", 3).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(3, "m@example.com", "Sara", "Ali", "0300", TypeClient, false, false, true, "hash", nil, now, now))

	u, err := repo.UpdateProfile(ctx, 3, ProfileRequest{FirstName: "Sara", LastName: "Ali", PhoneNumber: "0300"})
	require.NoError(t, err)
	assert.Equal(t, "Sara Ali", u.FullName())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash = $1, updated_on = NOW() WHERE id = $2")).
		WithArgs("new-hash", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetPassword(ctx, 3, "new-hash"))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash")).
		WithArgs("new-hash", 404).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.SetPassword(ctx, 404, "new-hash"), ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
