package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement представляет сформированную выписку: сводку неоплаченных
// и просроченных счетов клиента за период. Выписка — снимок на момент
// формирования, при изменении счетов она не пересчитывается.
type Statement struct {
	ID               int             // Уникальный идентификатор выписки
	Username         string          // Владелец записи
	CustomerID       string          // Клиент
	PeriodStart      time.Time       // Начало периода
	PeriodEnd        time.Time       // Конец периода, граница включающая
	InvoiceIDs       []int           // Отобранные счета в порядке выписки
	TotalOutstanding decimal.Decimal // Сумма задолженности
	InvoiceCount     int             // Количество счетов
	CreatedAt        time.Time       // Момент формирования
}

// DummyStatement используется для приёма параметров выписки из JSON-запроса.
// Даты приходят строками в формате 02-01-2006.
type DummyStatement struct {
	CustomerID  string `json:"customer_id" validate:"required,uuid"` // Клиент
	PeriodStart string `json:"period_start" validate:"required"`     // Начало периода
	PeriodEnd   string `json:"period_end" validate:"required"`       // Конец периода
}
