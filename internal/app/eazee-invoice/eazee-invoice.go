// Package eazeeinvoice собирает основное HTTP-приложение: хранилище,
// кэш, брокер очередей, платёжного провайдера и все сервисы.
package eazeeinvoice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/eazeeinvoice/eazee-invoice/internal/cache"
	"github.com/eazeeinvoice/eazee-invoice/internal/config"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/jwt"
	"github.com/eazeeinvoice/eazee-invoice/internal/migrations"
	"github.com/eazeeinvoice/eazee-invoice/internal/paymentprovider"
	"github.com/eazeeinvoice/eazee-invoice/internal/rabbitmq"
	authservice "github.com/eazeeinvoice/eazee-invoice/internal/services/auth"
	billingservice "github.com/eazeeinvoice/eazee-invoice/internal/services/billing"
	customerservice "github.com/eazeeinvoice/eazee-invoice/internal/services/customer"
	invoiceservice "github.com/eazeeinvoice/eazee-invoice/internal/services/invoice"
	productservice "github.com/eazeeinvoice/eazee-invoice/internal/services/product"
	quoteservice "github.com/eazeeinvoice/eazee-invoice/internal/services/quote"
	recyclebinservice "github.com/eazeeinvoice/eazee-invoice/internal/services/recyclebin"
	statementservice "github.com/eazeeinvoice/eazee-invoice/internal/services/statement"
	"github.com/eazeeinvoice/eazee-invoice/internal/storage/repository"
)

// App агрегирует сервер и соединения основного приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// Services собирает все сервисы приложения для регистрации маршрутов.
type Services struct {
	Auth       *authservice.AuthService
	Customer   *customerservice.CustomerService
	Product    *productservice.ProductService
	Invoice    *invoiceservice.InvoiceService
	Quote      *quoteservice.QuoteService
	Statement  *statementservice.StatementService
	RecycleBin *recyclebinservice.RecycleBinService
	Billing    *billingservice.BillingService
}

// New инициализирует все зависимости приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.ProviderAccountID, cfg.ProviderSecretKey)

	services := &Services{
		Auth:       authservice.NewAuthService(db, jwtMaker),
		Customer:   customerservice.NewCustomerService(db, cacheRedis, logger),
		Product:    productservice.NewProductService(db, cacheRedis, logger),
		Invoice:    invoiceservice.NewInvoiceService(db, publisher, logger),
		Quote:      quoteservice.NewQuoteService(db, publisher, logger),
		Statement:  statementservice.NewStatementService(db, logger),
		RecycleBin: recyclebinservice.NewRecycleBinService(db, logger),
		Billing:    billingservice.NewBillingService(db, providerClient, cfg.ReturnURL, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, db, cfg.WebhookSecret)

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
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
		_ = a.ch.Close()
		_ = a.conn.Close()
		_ = a.db.DB.Close()
		return err
	}
}
