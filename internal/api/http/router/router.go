// Package router wires the HTTP handlers and middleware into an Echo
// instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avoropaev/accounts-server/internal/api/http/handler"
	"github.com/avoropaev/accounts-server/internal/api/http/middleware"
	"github.com/avoropaev/accounts-server/internal/logger"
	"github.com/avoropaev/accounts-server/internal/model"
	"github.com/avoropaev/accounts-server/internal/service"
)

// Router builds the HTTP routing tree for the account endpoints.
type Router struct {
	authService    *service.Auth
	userService    *service.User
	tokenService   *service.TokenService
	contextManager model.ContextManager
	db             handler.Pinger
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	userService *service.User,
	tokenService *service.TokenService,
	contextManager model.ContextManager,
	db handler.Pinger,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		userService:    userService,
		tokenService:   tokenService,
		contextManager: contextManager,
		db:             db,
		logger:         logger,
	}
}

// Register builds the Echo instance with all routes and middleware.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	e.Use(logging.Handle)

	authHandler := handler.NewAuth(r.authService, r.tokenService, r.userService, r.logger)
	userHandler := handler.NewUser(r.userService, r.tokenService, r.contextManager, r.logger)
	healthHandler := handler.NewHealth(r.db)

	e.GET("/api/health", healthHandler.Check)

	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/check-username", authHandler.CheckUsername)

	users := e.Group("/api/users")
	users.GET("/:username", userHandler.GetProfile)

	me := users.Group("/me", authenticate.Handle)
	me.PATCH("", userHandler.UpdateProfile)
	me.PATCH("/password", userHandler.ChangePassword)
	me.DELETE("", userHandler.DeleteAccount)

	return e
}
