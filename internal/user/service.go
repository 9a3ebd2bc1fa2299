package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/logger"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("old password is incorrect")
)

type Service interface {
	auth.ActorLoader

	Register(ctx context.Context, req RegisterRequest) (*User, auth.TokenPair, error)
	Login(ctx context.Context, req LoginRequest) (*User, auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, *User, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req ProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, userID int, req PasswordChangeRequest) error
	ResetPassword(ctx context.Context, userID int, newPassword string) error

	CreateAdmin(ctx context.Context, email, password string) (*User, error)
	Permissions(ctx context.Context, userID int) ([]auth.Capability, error)
	Grant(ctx context.Context, userID int, c auth.Capability) error
	Revoke(ctx context.Context, userID int, c auth.Capability) error
}

type service struct {
	repo   Repository
	tokens *auth.Tokens
	policy *auth.Policy
	now    func() time.Time
}

func NewService(repo Repository, tokens *auth.Tokens, policy *auth.Policy) Service {
	return &service{
		repo:   repo,
		tokens: tokens,
		policy: policy,
		now:    time.Now,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, auth.TokenPair, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if exists {
		return nil, auth.TokenPair{}, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	user, err := s.repo.Create(ctx, NewAccount{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: passwordHash,
		UserType:     TypeClient,
	})
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	pair, err := s.tokens.Issue(user.subject())
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	logger.Info("user registered", "user_id", user.ID)
	return user, pair, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, auth.TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, auth.TokenPair{}, ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, err
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(user.subject())
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	at := s.now()
	if err := s.repo.TouchLastLogin(ctx, user.ID, at); err != nil {
		logger.Warn("failed to record last login", "user_id", user.ID, "error", err.Error())
	} else {
		user.LastLogin = &at
	}

	return user, pair, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, *User, error) {
	access, claims, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, ErrUserNotFound
	}

	return access, user, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req ProfileRequest) (*User, error) {
	return s.repo.UpdateProfile(ctx, userID, req)
}

// ChangePassword replaces the caller's own password once the old one checks out.
func (s *service) ChangePassword(ctx context.Context, userID int, req PasswordChangeRequest) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, req.OldPassword) {
		return ErrWrongPassword
	}
	if err := s.setPassword(ctx, userID, req.NewPassword); err != nil {
		return err
	}
	logger.Info("password changed", "user_id", userID)
	return nil
}

// ResetPassword is the staff path and skips the old password.
func (s *service) ResetPassword(ctx context.Context, userID int, newPassword string) error {
	if err := s.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}
	logger.Info("password reset", "user_id", userID)
	return nil
}

func (s *service) setPassword(ctx context.Context, userID int, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.SetPassword(ctx, userID, hash)
}

// LoadActor resolves a token subject into the actor the request runs as.
func (s *service) LoadActor(ctx context.Context, userID int) (*auth.Actor, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	caps, err := s.repo.Capabilities(ctx, userID)
	if err != nil {
		return nil, err
	}

	return auth.NewActor(user.ID, user.Email, user.UserType, user.IsStaff, user.IsSuperuser, user.IsActive, caps), nil
}

// CreateAdmin bootstraps a superuser from the command line.
func (s *service) CreateAdmin(ctx context.Context, email, password string) (*User, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, NewAccount{
		Email:        email,
		PasswordHash: passwordHash,
		IsStaff:      true,
		IsSuperuser:  true,
	})
}

func (s *service) Permissions(ctx context.Context, userID int) ([]auth.Capability, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Capabilities(ctx, userID)
}

func (s *service) Grant(ctx context.Context, userID int, c auth.Capability) error {
	if !s.policy.Known(c) {
		return fmt.Errorf("%w: %s", auth.ErrUnknownCapability, c)
	}
	if err := s.repo.Grant(ctx, userID, c); err != nil {
		return err
	}
	logger.Info("capability granted", "user_id", userID, "capability", c.String())
	return nil
}

func (s *service) Revoke(ctx context.Context, userID int, c auth.Capability) error {
	if !s.policy.Known(c) {
		return fmt.Errorf("%w: %s", auth.ErrUnknownCapability, c)
	}
	if err := s.repo.Revoke(ctx, userID, c); err != nil {
		return err
	}
	logger.Info("capability revoked", "user_id", userID, "capability", c.String())
	return nil
}
