package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eazeeinvoice/eazee-invoice/internal/document"
)

// Invoice представляет счёт пользователя. Поля Subtotal, TaxAmount и
// Total — кэш чистого расчёта по строкам: при каждой записи они
// пересчитываются из Items и никогда не правятся отдельно.
type Invoice struct {
	ID         int                    // Уникальный идентификатор счёта
	Username   string                 // Владелец записи
	CustomerID string                 // Клиент, которому выставлен счёт
	Number     string                 // Номер счёта для отображения
	Date       time.Time              // Дата выставления
	DueDate    time.Time              // Срок оплаты
	Status     document.InvoiceStatus // Статус счёта
	Items      []document.LineItem    // Строки счёта, порядок значим для отображения
	Subtotal   decimal.Decimal        // Производный агрегат
	TaxAmount  decimal.Decimal        // Производный агрегат
	Total      decimal.Decimal        // Производный агрегат
	IsDeleted  bool                   // Признак мягкого удаления
}

// StatementView отображает счёт в срез полей для формирования выписки.
func (i *Invoice) StatementView() document.StatementInvoice {
	return document.StatementInvoice{
		ID:         i.ID,
		CustomerID: i.CustomerID,
		Status:     i.Status,
		Date:       i.Date,
		Total:      i.Total,
	}
}

// DummyLineItem используется для приёма строки документа из JSON-запроса.
// Числовые значения приходят строками и парсятся в decimal вручную.
type DummyLineItem struct {
	Description    string `json:"description" validate:"required"`      // Описание строки
	Quantity       string `json:"quantity" validate:"required"`         // Количество, строка "2"
	UnitPrice      string `json:"unit_price" validate:"required"`       // Цена за единицу
	TaxRatePercent string `json:"tax_rate_percent" validate:"required"` // Ставка налога
}

// DummyInvoice используется для приёма данных счёта из JSON-запроса.
// Даты приходят строками в формате 02-01-2006.
type DummyInvoice struct {
	CustomerID string          `json:"customer_id" validate:"required,uuid"` // Клиент
	Number     string          `json:"number" validate:"required"`           // Номер счёта
	Date       string          `json:"date" validate:"required"`             // Дата выставления
	DueDate    string          `json:"due_date" validate:"required"`         // Срок оплаты
	Items      []DummyLineItem `json:"items" validate:"required,dive"`       // Строки счёта
}
