// Package eazeeinvoice предоставляет маршруты для основного приложения.
package eazeeinvoice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	admingrant "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/admin/grant"
	adminsuspend "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/admin/suspend"
	"github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/auth/login"
	"github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/auth/register"
	billingcheckout "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/billing/checkout"
	billingwebhook "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/billing/webhook"
	customercreate "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/customer/create"
	customerlist "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/customer/list"
	customerread "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/customer/read"
	customerremove "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/customer/remove"
	customerupdate "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/customer/update"
	"github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/health"
	invoicecreate "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/invoice/create"
	invoicelist "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/invoice/list"
	invoicemarkpaid "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/invoice/markpaid"
	invoiceread "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/invoice/read"
	invoiceremove "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/invoice/remove"
	invoicesend "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/invoice/send"
	invoiceupdate "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/invoice/update"
	productcreate "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/product/create"
	productlist "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/product/list"
	productread "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/product/read"
	productremove "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/product/remove"
	productupdate "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/product/update"
	quotecreate "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/quote/create"
	quotedecide "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/quote/decide"
	quotelist "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/quote/list"
	quoteread "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/quote/read"
	quoteremove "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/quote/remove"
	quotesend "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/quote/send"
	quoteupdate "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/quote/update"
	binlist "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/recyclebin/list"
	binpurge "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/recyclebin/purge"
	binrestore "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/recyclebin/restore"
	statementgenerate "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/statement/generate"
	statementlist "github.com/eazeeinvoice/eazee-invoice/internal/http/handlers/statement/list"
	"github.com/eazeeinvoice/eazee-invoice/internal/http/middlewarectx"
	"github.com/eazeeinvoice/eazee-invoice/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svcs *Services, db *repository.Storage, webhookSecret string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware(),
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svcs.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svcs.Auth).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Webhook провайдера, аутентификация по подписи тела запроса
		r.Post("/billing/webhook", billingwebhook.New(logger, svcs.Billing, webhookSecret).ServeHTTP)

		// Группа с JWT аутентификацией, без проверки доступа: оплата
		// подписки должна быть доступна и с истёкшим пробным периодом.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svcs.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/billing/checkout", billingcheckout.New(logger, svcs.Billing).ServeHTTP)
		})

		// Группа рабочих данных: JWT плюс проверка уровня доступа
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svcs.Auth, logger))
			r.Use(middlewarectx.AccessMiddleware(logger, db))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/customers", customercreate.New(logger, svcs.Customer).ServeHTTP)
			r.Get("/customers", customerlist.New(logger, svcs.Customer).ServeHTTP)
			r.Get("/customers/{id}", customerread.New(logger, svcs.Customer).ServeHTTP)
			r.Put("/customers/{id}", customerupdate.New(logger, svcs.Customer).ServeHTTP)
			r.Delete("/customers/{id}", customerremove.New(logger, svcs.Customer).ServeHTTP)

			r.Post("/products", productcreate.New(logger, svcs.Product).ServeHTTP)
			r.Get("/products", productlist.New(logger, svcs.Product).ServeHTTP)
			r.Get("/products/{id}", productread.New(logger, svcs.Product).ServeHTTP)
			r.Put("/products/{id}", productupdate.New(logger, svcs.Product).ServeHTTP)
			r.Delete("/products/{id}", productremove.New(logger, svcs.Product).ServeHTTP)

			r.Post("/invoices", invoicecreate.New(logger, svcs.Invoice).ServeHTTP)
			r.Get("/invoices", invoicelist.New(logger, svcs.Invoice).ServeHTTP)
			r.Get("/invoices/{id}", invoiceread.New(logger, svcs.Invoice).ServeHTTP)
			r.Put("/invoices/{id}", invoiceupdate.New(logger, svcs.Invoice).ServeHTTP)
			r.Delete("/invoices/{id}", invoiceremove.New(logger, svcs.Invoice).ServeHTTP)
			r.Post("/invoices/{id}/send", invoicesend.New(logger, svcs.Invoice).ServeHTTP)
			r.Post("/invoices/{id}/pay", invoicemarkpaid.New(logger, svcs.Invoice).ServeHTTP)

			r.Post("/quotes", quotecreate.New(logger, svcs.Quote).ServeHTTP)
			r.Get("/quotes", quotelist.New(logger, svcs.Quote).ServeHTTP)
			r.Get("/quotes/{id}", quoteread.New(logger, svcs.Quote).ServeHTTP)
			r.Put("/quotes/{id}", quoteupdate.New(logger, svcs.Quote).ServeHTTP)
			r.Delete("/quotes/{id}", quoteremove.New(logger, svcs.Quote).ServeHTTP)
			r.Post("/quotes/{id}/send", quotesend.New(logger, svcs.Quote).ServeHTTP)
			r.Post("/quotes/{id}/decision", quotedecide.New(logger, svcs.Quote).ServeHTTP)

			r.Post("/statements", statementgenerate.New(logger, svcs.Statement).ServeHTTP)
			r.Get("/statements", statementlist.New(logger, svcs.Statement).ServeHTTP)

			r.Get("/recycle-bin", binlist.New(logger, svcs.RecycleBin).ServeHTTP)
			r.Post("/recycle-bin/{id}/restore", binrestore.New(logger, svcs.RecycleBin).ServeHTTP)
			r.Delete("/recycle-bin/{id}", binpurge.New(logger, svcs.RecycleBin).ServeHTTP)
		})

		// Административная группа
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svcs.Auth, logger))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger))
			r.Post("/admin/users/{uid}/grant", admingrant.New(logger, svcs.Billing).ServeHTTP)
			r.Post("/admin/users/{uid}/suspend", adminsuspend.New(logger, svcs.Billing).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
