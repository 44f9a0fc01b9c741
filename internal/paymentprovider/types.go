// Package paymentprovider реализует REST-клиент платёжного провайдера:
// создание сессии оплаты подписки и типы webhook-событий. Суммы ходят
// строками, как их отдаёт API провайдера.
package paymentprovider

import "time"

// Amount представляет денежную сумму.
type Amount struct {
	Value    string `json:"value"`    // сумма, например "200.00"
	Currency string `json:"currency"` // валюта, например "EUR"
}

// CreateCheckoutRequest представляет запрос на создание сессии оплаты подписки.
type CreateCheckoutRequest struct {
	Amount    Amount            `json:"amount"`
	ReturnURL string            `json:"return_url"`         // куда вернуть пользователя после оплаты
	Metadata  map[string]string `json:"metadata,omitempty"` // дополнительная инфа: user_uid
}

// CreateCheckoutResponse представляет ответ на создание сессии оплаты.
type CreateCheckoutResponse struct {
	ID              string    `json:"id"`               // ID сессии у провайдера
	Status          string    `json:"status"`           // статус, например "pending"
	ConfirmationURL string    `json:"confirmation_url"` // страница оплаты провайдера
	Amount          Amount    `json:"amount"`
	CreatedAt       time.Time `json:"created_at"`
}

// WebhookPayload представляет событие провайдера о платеже или подписке.
type WebhookPayload struct {
	Event  string `json:"event"` // например "payment.succeeded", "subscription.cancelled"
	Object struct {
		ID               string            `json:"id"`     // ID платежа
		Status           string            `json:"status"` // статус платежа
		Amount           Amount            `json:"amount"`
		CurrentPeriodEnd time.Time         `json:"current_period_end"` // конец оплаченного периода
		Metadata         map[string]string `json:"metadata"`           // user_uid и др.
	} `json:"object"`
}

// Webhook-события, которые обрабатывает приложение.
const (
	EventPaymentSucceeded      = "payment.succeeded"
	EventSubscriptionCancelled = "subscription.cancelled"
)
