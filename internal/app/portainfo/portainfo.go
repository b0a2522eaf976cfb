// Package portainfo собирает основное HTTP-приложение социальной сети.
package portainfo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/portainfo/internal/cache"
	"github.com/magabrotheeeer/portainfo/internal/config"
	"github.com/magabrotheeeer/portainfo/internal/gemini"
	"github.com/magabrotheeeer/portainfo/internal/lib/jwt"
	"github.com/magabrotheeeer/portainfo/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/portainfo/internal/migrations"
	authservice "github.com/magabrotheeeer/portainfo/internal/services/auth"
	messageservice "github.com/magabrotheeeer/portainfo/internal/services/message"
	moderationservice "github.com/magabrotheeeer/portainfo/internal/services/moderation"
	notificationservice "github.com/magabrotheeeer/portainfo/internal/services/notification"
	postservice "github.com/magabrotheeeer/portainfo/internal/services/post"
	userservice "github.com/magabrotheeeer/portainfo/internal/services/user"
	"github.com/magabrotheeeer/portainfo/internal/storage/repository"
)

// App представляет основное приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает новый экземпляр приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetModerationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewEventPublisher(ch)

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, cacheRedis, jwtMaker, cfg.TokenTTL, logger)
	if err := authService.EnsureCreator(ctx, cfg.CreatorPassword); err != nil {
		return nil, err
	}

	notificationService := notificationservice.New(db, logger)
	postService := postservice.New(db, cacheRedis, notificationService, logger)
	userService := userservice.New(db, cacheRedis, notificationService, logger)
	messageService := messageservice.New(db, notificationService, logger)
	moderationService := moderationservice.New(db, publisher, logger)
	geminiClient := gemini.NewClient(cfg.GeminiAPIKey)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Posts:        postService,
		Users:        userService,
		Messages:     messageService,
		Moderation:   moderationService,
		Notification: notificationService,
		Gemini:       geminiClient,
		JWTMaker:     jwtMaker,
		Storage:      db,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его по сигналу.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
