package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avoropaev/accounts-server/internal/logger"
)

// Logging logs each HTTP request with its result.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, status and duration for each request.
func (l *Logging) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		duration := time.Since(start)

		l.logger.Info("HTTP request completed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", c.Response().Status,
			"duration_ms", duration.Milliseconds())

		if err != nil {
			l.logger.Error("HTTP request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err.Error())
		}

		return err
	}
}
