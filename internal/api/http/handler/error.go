package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avoropaev/accounts-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps service errors to HTTP responses. Credential and token
// failures collapse to generic messages so callers cannot probe which check
// rejected them.
func handleError(c echo.Context, err error) error {
	var conflict *model.ConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, errorResponse{Error: conflict.Error()})
	case errors.Is(err, model.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
	case errors.Is(err, model.ErrInvalidToken),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenRevoked):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
	case errors.Is(err, model.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
