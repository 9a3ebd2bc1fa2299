package user

import (
	"context"
	"errors"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/db"
)

const (
	Module = "accounts"
	Entity = "user"
)

const (
	msgPasswordRequired = "A password is required for new accounts."
	msgPasswordMismatch = "The two password fields didn't match."
	msgEmailTaken       = "A user with that email already exists."
)

var UserTypes = []string{TypeAdministration, TypeClient}

var Fields = []crud.Field{
	{Name: "email", Label: "Email", Kind: crud.KindEmail, Required: true},
	{Name: "first_name", Label: "First Name", Kind: crud.KindText},
	{Name: "last_name", Label: "Last Name", Kind: crud.KindText},
	{Name: "phone_number", Label: "Phone Number", Kind: crud.KindText},
	{Name: "user_type", Label: "User Type", Kind: crud.KindChoice, Default: TypeClient, Choices: crud.Choices(UserTypes, map[string]string{
		TypeAdministration: "Administration",
		TypeClient:         "Client",
	})},
	{Name: "is_staff", Label: "Staff", Kind: crud.KindBool},
	{Name: "is_superuser", Label: "Superuser", Kind: crud.KindBool},
	{Name: "is_active", Label: "Active", Kind: crud.KindBool, Default: true},
	{Name: "password", Label: "Password", Kind: crud.KindPassword},
	{Name: "password_confirm", Label: "Password Confirmation", Kind: crud.KindPassword},
}

var passwordFields = []string{"password", "password_confirm"}

const listColumns = `u.id, u.email, u.first_name, u.last_name, u.phone_number, u.user_type, u.is_staff,
	u.is_superuser, u.is_active, u.last_login, u.created_on, u.updated_on`

// NewResource exposes accounts to staff. Self-service changes go through
// the /me endpoints instead.
func NewResource(repo Repository) *crud.Resource[User, Input] {
	return &crud.Resource[User, Input]{
		Module: Module,
		Entity: Entity,
		Label:  "User",
		Path:   "/users",
		Table: crud.Table{
			Name:    "users",
			Select:  listColumns,
			From:    "users u",
			ID:      "u.id",
			OrderBy: "u.created_on DESC, u.id DESC",
			Created: "u.created_on",
			Active:  "u.is_active",
		},
		Fields: Fields,
		Filters: func(f *crud.Filter) {
			f.Search("search", "u.first_name", "u.last_name", "u.email", "u.phone_number")
			f.Choice("user_type", "u.user_type", UserTypes)
			f.Bool("is_staff", "u.is_staff")
			f.Bool("is_active", "u.is_active")
		},
		Writer:       &writer{repo: repo},
		SuccessRoute: "accounts:user_detail",
		DeleteRoute:  "accounts:user_list",
	}
}

type writer struct {
	repo Repository
}

func (w *writer) Create(ctx context.Context, q db.Querier, _ *auth.Actor, in *Input) (int, error) {
	if in.Password == "" {
		return 0, crud.FieldError("password", "required", msgPasswordRequired)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return 0, err
	}
	id, err := w.repo.Insert(ctx, q, in.account(hash), in.active())
	return id, emailTaken(err)
}

func (w *writer) Update(ctx context.Context, q db.Querier, _ *auth.Actor, id int, in *Input) error {
	var hash string
	if in.Password != "" {
		h, err := auth.HashPassword(in.Password)
		if err != nil {
			return err
		}
		hash = h
	}
	return emailTaken(w.repo.UpdateAccount(ctx, q, id, in.account(hash), in.active()))
}

func emailTaken(err error) error {
	if errors.Is(err, ErrEmailExists) {
		return crud.FieldError("email", "unique", msgEmailTaken)
	}
	return err
}

// AccountRelation attaches the login account to a member detail.
func AccountRelation(repo Repository) crud.Relation {
	return crud.Relation{
		Name:  "account",
		Label: "Account",
		Kind:  crud.RelationOneToOne,
		Form:  crud.DeriveForm("User", Fields, passwordFields),
		Load: func(ctx context.Context, q db.Querier, memberID, _, _ int) (interface{}, error) {
			return repo.AccountOf(ctx, q, memberID)
		},
	}
}
