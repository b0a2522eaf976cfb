// Package worker содержит логику приложения доставки уведомлений модерации.
package worker

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/portainfo/internal/config"
	"github.com/magabrotheeeer/portainfo/internal/lib/rabbitmq"
	notificationservice "github.com/magabrotheeeer/portainfo/internal/services/notification"
	notifierservice "github.com/magabrotheeeer/portainfo/internal/services/notifier"
	"github.com/magabrotheeeer/portainfo/internal/storage/repository"
)

// App представляет приложение обработки событий модерации.
type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	notifierService *notifierservice.Service
	logger          *slog.Logger
}

// New создает новый экземпляр приложения.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
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

	notificationService := notificationservice.New(db, logger)
	notifierService := notifierservice.New(notificationService, logger)

	return &App{
		conn:            conn,
		ch:              ch,
		notifierService: notifierService,
		logger:          logger,
	}, nil
}

// Run запускает потребителя очереди событий модерации.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "moderation.events", a.notifierService.HandleModerationEvent)
	if err != nil {
		a.logger.Error("failed to start moderation.events consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notification worker shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
