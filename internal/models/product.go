package models

import "github.com/shopspring/decimal"

// Product представляет товар или услугу из каталога пользователя.
// Цена и ставка налога подставляются в строки документов при выборе
// товара в форме, дальше строка живёт своей жизнью.
type Product struct {
	ID             string          // Уникальный идентификатор товара
	Username       string          // Владелец записи
	Name           string          // Название товара или услуги
	Description    string          // Описание
	UnitPrice      decimal.Decimal // Цена за единицу
	TaxRatePercent decimal.Decimal // Ставка налога в процентах, 0..100
	IsDeleted      bool            // Признак мягкого удаления
}

// DummyProduct используется для приёма данных товара из JSON-запроса.
// Денежные значения приходят строками и парсятся в decimal вручную.
type DummyProduct struct {
	Name           string `json:"name" validate:"required"`             // Название
	Description    string `json:"description,omitempty"`                // Описание (опционально)
	UnitPrice      string `json:"unit_price" validate:"required"`       // Цена за единицу, строка "99.90"
	TaxRatePercent string `json:"tax_rate_percent" validate:"required"` // Ставка налога, строка "20"
}
