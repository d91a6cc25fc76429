package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"sosmed/internal/config"
	"sosmed/internal/database"
	"sosmed/internal/handlers"
	"sosmed/internal/logger"
	"sosmed/internal/media"
	"sosmed/internal/middleware"
	"sosmed/internal/notify"
	"sosmed/internal/repositories"
	"sosmed/internal/services"
	"sosmed/pkg/rabbitmq"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		logger.Error.Println(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sosmed",
		Short:         "Social content backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), true)
		},
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply schema migrations before serving")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, closeDB, err := database.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeDB()
			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Info.Println("migrations applied")
			return nil
		},
	}
}

// dependencies are the collaborators the HTTP app is built from.
type dependencies struct {
	cfg      *config.Config
	db       *gorm.DB
	revoked  repositories.RevocationStore
	files    *media.FileStore
	notifier services.Notifier
}

// newApp wires services and handlers into a Fiber app.
func newApp(deps dependencies) *fiber.App {
	store := repositories.NewStore(deps.db)
	coordinator := services.NewCoordinator(store)
	tokens := services.NewTokenEngine(deps.cfg, deps.revoked)

	authService := services.NewAuthService(store, coordinator, tokens, deps.files, deps.notifier, deps.cfg.BcryptCost)
	contentService := services.NewContentService(store, coordinator, deps.files)

	app := fiber.New(fiber.Config{
		AppName:   "sosmed",
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     deps.cfg.CORSOrigins,
		AllowCredentials: deps.cfg.CORSOrigins != "*",
		ExposeHeaders:    middleware.AccessTokenHeader,
	}))

	authRequired := middleware.AuthRequired(tokens)
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1, authRequired)
	handlers.NewPostHandler(contentService).RegisterRoutes(apiV1, authRequired)
	handlers.NewMediaHandler(deps.files).RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		if sqlDB, err := deps.db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status = "unhealthy"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

func serve(ctx context.Context, migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, closeDB, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()
	if migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	revoked, closeRevoked, err := newRevocationStore(cfg)
	if err != nil {
		return err
	}
	defer closeRevoked()

	files, err := media.NewOSFileStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return err
	}

	notifier, closeNotifier := newNotifier(cfg)
	defer closeNotifier()

	app := newApp(dependencies{
		cfg:      cfg,
		db:       db,
		revoked:  revoked,
		files:    files,
		notifier: notifier,
	})

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info.Printf("Starting server on port %s (%s)", cfg.AppPort, cfg.Environment)
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error.Printf("Error during Fiber shutdown: %v", err)
	}
	logger.Info.Println("Server gracefully stopped")
	return nil
}

func newRevocationStore(cfg *config.Config) (repositories.RevocationStore, func(), error) {
	if cfg.RedisURL == "" {
		logger.Warn.Println("REDIS_URL not set, revoked sessions are kept in memory")
		return repositories.NewMemoryRevocationStore(), func() {}, nil
	}
	store, err := repositories.NewRedisRevocationStore(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Error.Printf("failed to close redis: %v", err)
		}
	}, nil
}

// newNotifier publishes welcome messages through RabbitMQ when it is
// configured and reachable, and falls back to logging otherwise.
func newNotifier(cfg *config.Config) (services.Notifier, func()) {
	if cfg.RabbitMQURL == "" {
		return notify.LogNotifier{}, func() {}
	}
	client, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:    cfg.RabbitMQURL,
		Queues: []string{notify.WelcomeQueue},
	})
	if err != nil {
		logger.Warn.Printf("RabbitMQ unavailable, welcome messages will only be logged: %v", err)
		return notify.LogNotifier{}, func() {}
	}
	if err := client.Consume(notify.WelcomeQueue, notify.HandleWelcome); err != nil {
		logger.Error.Printf("Failed to start welcome consumer: %v", err)
	}
	return notify.NewQueueNotifier(client), func() {
		if err := client.Close(); err != nil {
			logger.Error.Printf("failed to close RabbitMQ client: %v", err)
		}
	}
}
