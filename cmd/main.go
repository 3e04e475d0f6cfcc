package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avoropaev/accounts-server/internal/api/http/httpcontext"
	"github.com/avoropaev/accounts-server/internal/api/http/router"
	"github.com/avoropaev/accounts-server/internal/config"
	"github.com/avoropaev/accounts-server/internal/hasher"
	"github.com/avoropaev/accounts-server/internal/logger"
	"github.com/avoropaev/accounts-server/internal/model"
	"github.com/avoropaev/accounts-server/internal/repository/postgres"
	"github.com/avoropaev/accounts-server/internal/server"
	"github.com/avoropaev/accounts-server/internal/service"
	"github.com/avoropaev/accounts-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	tokenManager := token.NewJWT(token.Config{
		Secret:    cfg.JWT.Secret,
		Issuer:    cfg.JWT.Issuer,
		Audience:  cfg.JWT.Audience,
		AccessTTL: cfg.JWT.AccessTTL,
	})
	passwordHasher := hasher.NewBcrypt(cfg.Bcrypt.Cost)

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, userRepo, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, logger)
	authService := service.NewAuth(userRepo, passwordHasher, tokenService, logger)
	userService := service.NewUser(userRepo, passwordHasher, logger)
	ctxMgr := httpcontext.NewManager()

	r := router.New(authService, userService, tokenService, ctxMgr, db, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
