package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avoropaev/accounts-server/internal/logger"
	"github.com/avoropaev/accounts-server/internal/model"
	"github.com/avoropaev/accounts-server/internal/service"
)

// UserService defines profile and account-lifecycle operations.
type UserService interface {
	GetProfileByUsername(ctx context.Context, username string) (model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params service.UpdateProfileParams) (model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error
}

// SessionRevoker invalidates refresh tokens after account-level changes.
type SessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

// User handles the profile endpoints.
type User struct {
	userService    UserService
	sessions       SessionRevoker
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, sessions SessionRevoker, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		userService:    userService,
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

type profileResponse struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Bio         *string `json:"bio,omitempty"`
}

func toProfile(u model.User) profileResponse {
	return profileResponse{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
	}
}

// GetProfile returns the public profile of the named user.
func (h *User) GetProfile(c echo.Context) error {
	username := c.Param("username")

	user, err := h.userService.GetProfileByUsername(c.Request().Context(), username)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, toProfile(user))
}

// UpdateProfile applies partial profile changes to the authenticated user.
func (h *User) UpdateProfile(c echo.Context) error {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.DisplayName != nil {
		if err := validateDisplayName(*req.DisplayName); err != nil {
			return handleError(c, err)
		}
	}
	if req.Bio != nil {
		if err := validateBio(*req.Bio); err != nil {
			return handleError(c, err)
		}
	}

	updated, err := h.userService.UpdateProfile(c.Request().Context(), userID, service.UpdateProfileParams{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
	})
	if err != nil {
		h.logger.Error("User handler: profile update failed",
			"user_id", userID,
			"error", err.Error())
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, toOwnUser(updated))
}

// ChangePassword verifies the current password and replaces it.
func (h *User) ChangePassword(c echo.Context) error {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.CurrentPassword == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "current_password is required"})
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return handleError(c, err)
	}

	if err := h.userService.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.logger.Info("User handler: password change failed",
			"user_id", userID,
			"error", err.Error())
		return handleError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteAccount verifies the password, deletes the user and revokes every
// outstanding refresh token.
func (h *User) DeleteAccount(c echo.Context) error {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	}

	var req deleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "password is required"})
	}

	if err := h.userService.DeleteAccount(c.Request().Context(), userID, req.Password); err != nil {
		h.logger.Info("User handler: account deletion failed",
			"user_id", userID,
			"error", err.Error())
		return handleError(c, err)
	}

	if err := h.sessions.RevokeAllForUser(c.Request().Context(), userID); err != nil {
		h.logger.Error("User handler: failed to revoke sessions after deletion",
			"user_id", userID,
			"error", err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
