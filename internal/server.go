package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/RoyalOrangefire/GopherMatch/internal/config"
	"github.com/RoyalOrangefire/GopherMatch/internal/datastore/blob"
	"github.com/RoyalOrangefire/GopherMatch/internal/datastore/mysql"
	redisClient "github.com/RoyalOrangefire/GopherMatch/internal/datastore/redis"
	"github.com/RoyalOrangefire/GopherMatch/internal/logger"
	decisionRepo "github.com/RoyalOrangefire/GopherMatch/internal/repository/decision"
	profileRepo "github.com/RoyalOrangefire/GopherMatch/internal/repository/profile"
	userRepo "github.com/RoyalOrangefire/GopherMatch/internal/repository/user"
	routesV1 "github.com/RoyalOrangefire/GopherMatch/internal/routes/v1"
	authUseCase "github.com/RoyalOrangefire/GopherMatch/internal/usecase/auth"
	matchUseCase "github.com/RoyalOrangefire/GopherMatch/internal/usecase/match"
	profileUseCase "github.com/RoyalOrangefire/GopherMatch/internal/usecase/profile"
	"github.com/RoyalOrangefire/GopherMatch/pkg/jwt"
	"github.com/labstack/echo"
	"gorm.io/gorm"
)

type Server struct {
	writer     io.Writer
	httpServer *http.Server
	database   *gorm.DB
}

// NewServer wires config, datastores, repositories, usecases, and routes
// into a ready-to-start HTTP server.
func NewServer(ctx context.Context, w io.Writer) (*Server, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "DEV"
	}

	cfg, err := config.NewConfig(env)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger.Init(cfg.Get("LOG_LEVEL"), cfg.Get("LOG_FORMAT"))

	if secret := cfg.Get("JWT_SECRET"); secret != "" {
		jwt.SetSecret(secret)
	}

	database, err := mysql.InitializeDB(
		cfg.Get("MYSQL_USER"),
		cfg.Get("MYSQL_PASSWORD"),
		cfg.Get("MYSQL_DB_NAME"),
		cfg.Get("MYSQL_HOST"),
		cfg.Get("MYSQL_PORT"),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	rdb := redisClient.NewRedis(cfg.Get("REDIS_HOST"), cfg.Get("REDIS_PORT"))

	blobStore, err := blob.NewS3Store(ctx, cfg.Get("S3_BUCKET"), cfg.Get("AWS_REGION"))
	if err != nil {
		return nil, fmt.Errorf("initializing blob store: %w", err)
	}

	users := userRepo.New(database)
	decisions := decisionRepo.New(database, rdb.Client)
	profiles := profileRepo.New(database)

	authCase := authUseCase.New(users)
	matchCase := matchUseCase.New(decisions, profiles)
	profileCase := profileUseCase.New(profiles, blobStore)

	e := echo.New()

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	server := &Server{
		writer: w,
		httpServer: &http.Server{
			Addr:    ":" + cfg.Get("PORT"),
			Handler: e,
		},
		database: database,
	}

	e.GET("/healthz", server.handleHealthCheck)
	routesV1.InitV1Routes(e, authCase, matchCase, profileCase)

	return server, nil
}

// Run starts the server and blocks until the context is cancelled or an
// interrupt arrives, then shuts down gracefully.
func Run(ctx context.Context, w io.Writer, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := NewServer(ctx, w)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.StartServer(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return server.Shutdown(context.Background())
}

func (s *Server) StartServer() error {
	fmt.Fprintf(s.writer, "Server starting on %s\n", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
