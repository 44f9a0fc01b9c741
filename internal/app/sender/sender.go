// Package sender собирает приложение отправки писем: потребители
// очередей RabbitMQ и доставка через SendGrid.
package sender

import (
	"context"
	"log/slog"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/streadway/amqp"

	"github.com/eazeeinvoice/eazee-invoice/internal/config"
	"github.com/eazeeinvoice/eazee-invoice/internal/rabbitmq"
	senderservice "github.com/eazeeinvoice/eazee-invoice/internal/services/sender"
)

// App агрегирует соединения и сервис отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New инициализирует зависимости сервиса отправки писем.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	mailer := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	senderService := senderservice.NewSenderService(cfg, mailer, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителей очередей и ждёт отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueDocumentEmail, a.senderService.SendDocumentEmail)
	if err != nil {
		a.logger.Error("failed to start document email consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueTrialReminder, a.senderService.SendTrialReminder)
	if err != nil {
		a.logger.Error("failed to start trial reminder consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
