package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avoropaev/accounts-server/internal/model"
)

// HTTPServer wraps an Echo instance with address and lifecycle methods.
type HTTPServer struct {
	echo *echo.Echo
	addr string
}

// NewHTTPServer creates an HTTPServer with the given Echo instance and address.
func NewHTTPServer(
	e *echo.Echo,
	addr string,
) *HTTPServer {
	return &HTTPServer{echo: e, addr: addr}
}

// Start serves on the configured address using the provided security layer.
// It blocks until the server stops and returns nil on graceful shutdown.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.echo.Listener = listener

	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *HTTPServer) Address() string {
	return s.addr
}
