package user

import (
	"strings"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
)

const (
	TypeAdministration = "administration"
	TypeClient         = "client"
)

type User struct {
	ID           int        `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	PhoneNumber  string     `json:"phone_number" db:"phone_number"`
	UserType     string     `json:"user_type" db:"user_type"`
	IsStaff      bool       `json:"is_staff" db:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser" db:"is_superuser"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	PasswordHash string     `json:"-" db:"password_hash"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
	CreatedOn    time.Time  `json:"created_on" db:"created_on"`
	UpdatedOn    time.Time  `json:"updated_on" db:"updated_on"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) subject() auth.Subject {
	return auth.Subject{UserID: u.ID, Email: u.Email, UserType: u.UserType}
}

// NewAccount is what gets inserted into users.
type NewAccount struct {
	Email        string
	FirstName    string
	LastName     string
	PhoneNumber  string
	PasswordHash string
	UserType     string
	IsStaff      bool
	IsSuperuser  bool
}

// normalize applies the save rule: staff and superusers are always administration.
func (a *NewAccount) normalize() {
	switch {
	case a.IsStaff || a.IsSuperuser:
		a.UserType = TypeAdministration
	case a.UserType == "":
		a.UserType = TypeClient
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
}

// Input is the staff form behind account create and update. The password is
// required on create and, when given on update, replaces the stored one.
type Input struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
	PhoneNumber     string `json:"phone_number" validate:"max=20"`
	UserType        string `json:"user_type" validate:"omitempty,oneof=administration client"`
	IsStaff         bool   `json:"is_staff"`
	IsSuperuser     bool   `json:"is_superuser"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password" validate:"omitempty,min=8"`
	PasswordConfirm string `json:"password_confirm"`
}

func (in *Input) Clean() crud.ValidationErrors {
	if in.Password != in.PasswordConfirm {
		return crud.FieldError("password_confirm", "mismatch", msgPasswordMismatch)
	}
	return nil
}

func (in *Input) account(passwordHash string) NewAccount {
	acc := NewAccount{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: passwordHash,
		UserType:     in.UserType,
		IsStaff:      in.IsStaff,
		IsSuperuser:  in.IsSuperuser,
	}
	acc.normalize()
	return acc
}

func (in *Input) active() bool {
	if in.IsActive == nil {
		return true
	}
	return *in.IsActive
}

// ProfileRequest is what a signed-in user may change about themselves.
type ProfileRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=150" example:"Ali"`
	LastName    string `json:"last_name" binding:"required,max=150" example:"Khan"`
	PhoneNumber string `json:"phone_number" binding:"max=20" example:"03001234567"`
}

type PasswordChangeRequest struct {
	OldPassword        string `json:"old_password" binding:"required" example:"s3cret-pass"`
	NewPassword        string `json:"new_password" binding:"required,min=8" example:"n3w-s3cret"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required,eqfield=NewPassword" example:"n3w-s3cret"`
}

// PasswordResetRequest is the staff override; the old password is not asked for.
type PasswordResetRequest struct {
	NewPassword        string `json:"new_password" binding:"required,min=8" example:"n3w-s3cret"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required,eqfield=NewPassword" example:"n3w-s3cret"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=254" example:"ali@example.com"`
	Password    string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	FirstName   string `json:"first_name" binding:"required,max=150" example:"Ali"`
	LastName    string `json:"last_name" binding:"max=150" example:"Khan"`
	PhoneNumber string `json:"phone_number" binding:"max=20" example:"03001234567"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ali@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// PermissionRequest names one capability to grant or revoke.
type PermissionRequest struct {
	Module string      `json:"module" binding:"required" example:"finance"`
	Action auth.Action `json:"action" binding:"required,oneof=view add change delete" example:"add"`
	Entity string      `json:"entity" binding:"required" example:"payment"`
}

func (p PermissionRequest) Capability() auth.Capability {
	return auth.Cap(p.Module, p.Action, p.Entity)
}
