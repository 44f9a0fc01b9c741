package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eazeeinvoice/eazee-invoice/internal/document"
)

// Quote представляет коммерческое предложение. Агрегаты — кэш расчёта
// по строкам, как у счёта.
type Quote struct {
	ID         int                  // Уникальный идентификатор предложения
	Username   string               // Владелец записи
	CustomerID string               // Клиент
	Number     string               // Номер предложения для отображения
	Date       time.Time            // Дата составления
	ValidUntil time.Time            // Срок действия предложения
	Status     document.QuoteStatus // Статус предложения
	Items      []document.LineItem  // Строки предложения
	Subtotal   decimal.Decimal      // Производный агрегат
	TaxAmount  decimal.Decimal      // Производный агрегат
	Total      decimal.Decimal      // Производный агрегат
	IsDeleted  bool                 // Признак мягкого удаления
}

// DummyQuote используется для приёма данных предложения из JSON-запроса.
// Даты приходят строками в формате 02-01-2006.
type DummyQuote struct {
	CustomerID string          `json:"customer_id" validate:"required,uuid"` // Клиент
	Number     string          `json:"number" validate:"required"`           // Номер предложения
	Date       string          `json:"date" validate:"required"`             // Дата составления
	ValidUntil string          `json:"valid_until" validate:"required"`      // Срок действия
	Items      []DummyLineItem `json:"items" validate:"required,dive"`       // Строки предложения
}

// DummyQuoteDecision используется для приёма решения клиента по предложению.
type DummyQuoteDecision struct {
	Decision string `json:"decision" validate:"required,oneof=accepted rejected"` // Решение клиента
}
