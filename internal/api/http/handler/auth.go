// Package handler implements the HTTP endpoints.
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avoropaev/accounts-server/internal/logger"
	"github.com/avoropaev/accounts-server/internal/model"
	"github.com/avoropaev/accounts-server/internal/service"
)

// AuthService defines registration and login operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (model.User, service.TokenPair, error)
	Login(ctx context.Context, email, password string) (model.User, service.TokenPair, error)
}

// TokenService defines token refresh and revoke operations.
type TokenService interface {
	Refresh(ctx context.Context, accessToken, refreshValue string) (service.TokenPair, error)
	RevokeByValue(ctx context.Context, refreshValue string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	GetUserID(ctx context.Context, accessToken string) (uuid.UUID, error)
}

// UsernameChecker reports whether a username is free to register.
type UsernameChecker interface {
	UsernameAvailable(ctx context.Context, username string) (bool, error)
}

// Auth handles the authentication endpoints.
type Auth struct {
	authService  AuthService
	tokenService TokenService
	usernames    UsernameChecker
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, usernames UsernameChecker, logger *logger.Logger) *Auth {
	return &Auth{
		authService:  authService,
		tokenService: tokenService,
		usernames:    usernames,
		logger:       logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email,omitempty"`
	DisplayName   string    `json:"display_name"`
	Bio           *string   `json:"bio,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type authResponse struct {
	User userResponse `json:"user"`
	tokenResponse
}

type availabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

func toOwnUser(u model.User) userResponse {
	return userResponse{
		ID:            u.ID.String(),
		Username:      u.Username,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Bio:           u.Bio,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

func toTokens(pair service.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}
}

// Register creates an account and returns the user with its first token pair.
func (h *Auth) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := validateUsername(req.Username); err != nil {
		return handleError(c, err)
	}
	if err := validateEmail(req.Email); err != nil {
		return handleError(c, err)
	}
	if err := validatePassword(req.Password); err != nil {
		return handleError(c, err)
	}

	user, pair, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"username", req.Username,
			"error", err.Error())
		return handleError(c, err)
	}

	h.logger.Info("Auth handler: user registered", "user_id", user.ID)

	return c.JSON(http.StatusCreated, authResponse{
		User:          toOwnUser(user),
		tokenResponse: toTokens(pair),
	})
}

// Login verifies credentials and returns a fresh token pair.
func (h *Auth) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return handleError(c, model.ErrInvalidCredentials)
	}

	user, pair, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: login failed", "error", err.Error())
		return handleError(c, err)
	}

	h.logger.Info("Auth handler: user logged in", "user_id", user.ID)

	return c.JSON(http.StatusOK, authResponse{
		User:          toOwnUser(user),
		tokenResponse: toTokens(pair),
	})
}

// Refresh rotates a refresh token and returns the new pair.
func (h *Auth) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.AccessToken == "" || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "access_token and refresh_token are required"})
	}

	pair, err := h.tokenService.Refresh(c.Request().Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		h.logger.Info("Auth handler: token refresh failed", "error", err.Error())
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, toTokens(pair))
}

// Logout revokes refresh tokens. With a refresh_token in the body it revokes
// that chain; with only a bearer token it revokes every active token of the
// user. Revoking an already revoked or unknown token succeeds; logout is
// idempotent.
func (h *Auth) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.RefreshToken != "" {
		if err := h.tokenService.RevokeByValue(c.Request().Context(), req.RefreshToken); err != nil {
			h.logger.Error("Auth handler: logout failed", "error", err.Error())
			return handleError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	accessToken, found := strings.CutPrefix(header, "Bearer ")
	if !found || accessToken == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "refresh_token or bearer token is required"})
	}

	userID, err := h.tokenService.GetUserID(c.Request().Context(), accessToken)
	if err != nil {
		return handleError(c, err)
	}

	if err := h.tokenService.RevokeAllForUser(c.Request().Context(), userID); err != nil {
		h.logger.Error("Auth handler: logout failed", "user_id", userID, "error", err.Error())
		return handleError(c, err)
	}

	h.logger.Info("Auth handler: all sessions revoked", "user_id", userID)

	return c.NoContent(http.StatusNoContent)
}

// CheckUsername reports whether the username is free to register.
func (h *Auth) CheckUsername(c echo.Context) error {
	username := c.QueryParam("username")
	if err := validateUsername(username); err != nil {
		return handleError(c, err)
	}

	available, err := h.usernames.UsernameAvailable(c.Request().Context(), username)
	if err != nil {
		h.logger.Error("Auth handler: username check failed", "error", err.Error())
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, availabilityResponse{
		Username:  username,
		Available: available,
	})
}
