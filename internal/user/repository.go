package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", crud.ErrNotFound)
	ErrPermissionNotFound = errors.New("permission not granted")
)

const userColumns = `id, email, first_name, last_name, phone_number, user_type, is_staff, is_superuser,
	is_active, password_hash, last_login, created_on, updated_on`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, acc NewAccount) (*User, error) {
	acc.normalize()

	query := `
		INSERT INTO users (email, first_name, last_name, phone_number, password_hash, user_type, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query,
		acc.Email, acc.FirstName, acc.LastName, acc.PhoneNumber, acc.PasswordHash,
		acc.UserType, acc.IsStaff, acc.IsSuperuser)
	if err != nil {
		if _, ok := db.IsUniqueViolation(err); ok {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return &user, nil
}

// Insert stores a staff-created account inside the caller's transaction.
func (r *repository) Insert(ctx context.Context, q db.Querier, acc NewAccount, active bool) (int, error) {
	query := `
		INSERT INTO users (email, first_name, last_name, phone_number, password_hash, user_type, is_staff, is_superuser, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id int
	err := q.GetContext(ctx, &id, query,
		acc.Email, acc.FirstName, acc.LastName, acc.PhoneNumber, acc.PasswordHash,
		acc.UserType, acc.IsStaff, acc.IsSuperuser, active)
	if _, ok := db.IsUniqueViolation(err); ok {
		return 0, ErrEmailExists
	}
	return id, err
}

// UpdateAccount rewrites the staff-editable columns. An empty hash keeps the password.
func (r *repository) UpdateAccount(ctx context.Context, q db.Querier, id int, acc NewAccount, active bool) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, phone_number = $4, user_type = $5,
		    is_staff = $6, is_superuser = $7, is_active = $8,
		    password_hash = COALESCE(NULLIF($9, ''), password_hash), updated_on = NOW()
		WHERE id = $10`

	res, err := q.ExecContext(ctx, query,
		acc.Email, acc.FirstName, acc.LastName, acc.PhoneNumber, acc.UserType,
		acc.IsStaff, acc.IsSuperuser, active, acc.PasswordHash, id)
	if _, ok := db.IsUniqueViolation(err); ok {
		return ErrEmailExists
	}
	return affectedOne(res, err)
}

func (r *repository) UpdateProfile(ctx context.Context, id int, p ProfileRequest) (*User, error) {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, phone_number = $3, updated_on = NOW()
		WHERE id = $4
		RETURNING ` + userColumns

	var user User
	if err := r.db.GetContext(ctx, &user, query, p.FirstName, p.LastName, p.PhoneNumber, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) SetPassword(ctx context.Context, id int, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_on = NOW() WHERE id = $2`, passwordHash, id)
	return affectedOne(res, err)
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	var user User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	return err
}

func (r *repository) Capabilities(ctx context.Context, userID int) ([]auth.Capability, error) {
	query := `
		SELECT module, action, entity
		FROM user_permissions
		WHERE user_id = $1
		ORDER BY module, entity, action
	`

	caps := []auth.Capability{}
	if err := r.db.SelectContext(ctx, &caps, query, userID); err != nil {
		return nil, err
	}
	return caps, nil
}

func (r *repository) Grant(ctx context.Context, userID int, c auth.Capability) error {
	query := `
		INSERT INTO user_permissions (user_id, module, action, entity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, userID, c.Module, string(c.Action), c.Entity)
	if db.IsForeignKeyViolation(err) {
		return ErrUserNotFound
	}
	return err
}

func (r *repository) Revoke(ctx context.Context, userID int, c auth.Capability) error {
	query := `DELETE FROM user_permissions WHERE user_id = $1 AND module = $2 AND action = $3 AND entity = $4`

	res, err := r.db.ExecContext(ctx, query, userID, c.Module, string(c.Action), c.Entity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

func (r *repository) AccountOf(ctx context.Context, q db.Querier, memberID int) (*User, error) {
	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.phone_number, u.user_type, u.is_staff,
		       u.is_superuser, u.is_active, u.last_login, u.created_on, u.updated_on
		FROM users u
		JOIN members m ON m.user_id = u.id
		WHERE m.id = $1
	`

	var user User
	if err := q.GetContext(ctx, &user, query, memberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
