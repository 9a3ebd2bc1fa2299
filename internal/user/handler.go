package user

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gymdesk/internal/api"
	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register godoc
// @Summary      Register new user
// @Description  Creates a client account and returns access & refresh tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "User registration data"
// @Success      201      {object}  LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	user, pair, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Email already registered"})
			return
		}
		logger.Error("failed to register user", "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         *user,
	})
}

// Login godoc
// @Summary      Login user
// @Description  Authenticates user by email and password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "User credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	user, pair, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid email or password"})
			return
		}
		logger.Error("login failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to generate tokens"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         *user,
	})
}

// GetMe godoc
// @Summary      Get current user
// @Description  Returns profile of the authenticated user.
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  User
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	user, err := h.svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary      Update own profile
// @Description  Changes the name and phone number of the authenticated user.
// @Tags         user
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ProfileRequest  true  "Profile fields"
// @Success      200      {object}  User
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.accountError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangeMyPassword godoc
// @Summary      Change own password
// @Tags         user
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      PasswordChangeRequest  true  "Old and new password"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /me/password [post]
func (h *Handler) ChangeMyPassword(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.accountError(c, err, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password changed"})
}

// ResetPassword godoc
// @Summary      Set a user's password
// @Description  Staff override that does not ask for the old password.
// @Tags         accounts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        pk       path      int                   true  "User ID"
// @Param        request  body      PasswordResetRequest  true  "New password"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /accounts/users/{pk}/password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	userID, ok := crud.PK(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		return
	}

	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), userID, req.NewPassword); err != nil {
		h.accountError(c, err, "Failed to reset password")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password updated"})
}

func (h *Handler) accountError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrWrongPassword):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Old password is incorrect"})
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
	default:
		logger.Error(strings.ToLower(message), "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: message})
	}
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Description  Returns new access token using a valid refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token payload"
// @Success      200      {object}  RefreshResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "refresh_token is required"})
		return
	}

	access, user, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or expired refresh token"})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: access, User: *user})
}

// Permissions godoc
// @Summary      List granted capabilities
// @Tags         accounts
// @Security     BearerAuth
// @Produce      json
// @Param        pk   path      int  true  "User ID"
// @Success      200  {array}   auth.Capability
// @Failure      404  {object}  api.ErrorResponse
// @Router       /accounts/users/{pk}/permissions [get]
func (h *Handler) Permissions(c *gin.Context) {
	userID, ok := crud.PK(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		return
	}

	caps, err := h.svc.Permissions(c.Request.Context(), userID)
	if err != nil {
		h.permissionError(c, err)
		return
	}
	c.JSON(http.StatusOK, caps)
}

// Grant godoc
// @Summary      Grant a capability
// @Tags         accounts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        pk       path      int                true  "User ID"
// @Param        request  body      PermissionRequest  true  "Capability"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /accounts/users/{pk}/permissions [post]
func (h *Handler) Grant(c *gin.Context) {
	h.changePermission(c, h.svc.Grant, "Permission granted")
}

// Revoke godoc
// @Summary      Revoke a capability
// @Tags         accounts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        pk       path      int                true  "User ID"
// @Param        request  body      PermissionRequest  true  "Capability"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /accounts/users/{pk}/permissions [delete]
func (h *Handler) Revoke(c *gin.Context) {
	h.changePermission(c, h.svc.Revoke, "Permission revoked")
}

type permissionChange func(ctx context.Context, userID int, c auth.Capability) error

func (h *Handler) changePermission(c *gin.Context, apply permissionChange, message string) {
	userID, ok := crud.PK(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		return
	}

	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := apply(c.Request.Context(), userID, req.Capability()); err != nil {
		h.permissionError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: message})
}

func (h *Handler) permissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUnknownCapability):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
	case errors.Is(err, ErrPermissionNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Permission not granted"})
	default:
		logger.Error("permission change failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update permissions"})
	}
}
