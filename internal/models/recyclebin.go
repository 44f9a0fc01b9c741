package models

import (
	"encoding/json"
	"time"
)

// EntityType тип записи, помещённой в корзину.
type EntityType string

const (
	// EntityCustomer запись клиента.
	EntityCustomer EntityType = "customer"
	// EntityProduct запись товара.
	EntityProduct EntityType = "product"
	// EntityInvoice запись счёта.
	EntityInvoice EntityType = "invoice"
	// EntityQuote запись предложения.
	EntityQuote EntityType = "quote"
)

// RecycleBinEntry запись корзины: снимок мягко удалённой записи любого
// типа. Data хранит JSON исходной записи и используется при восстановлении.
type RecycleBinEntry struct {
	ID         int             // Уникальный идентификатор записи корзины
	Username   string          // Владелец записи
	EntityType EntityType      // Тип исходной записи
	EntityID   string          // Идентификатор исходной записи
	Data       json.RawMessage // Снимок исходной записи
	DeletedAt  time.Time       // Момент мягкого удаления
}
