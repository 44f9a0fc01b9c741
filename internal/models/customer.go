package models

// Customer представляет клиента пользователя, которому выставляются
// счета и предложения. Все записи принадлежат одному пользователю,
// чужие клиенты недоступны.
type Customer struct {
	ID        string // Уникальный идентификатор клиента
	Username  string // Владелец записи
	Name      string // Название компании или имя клиента
	Email     string // Электронная почта для отправки документов
	Phone     string // Телефон
	Address   string // Почтовый адрес
	IsDeleted bool   // Признак мягкого удаления
}

// DummyCustomer используется для приёма данных клиента из JSON-запроса.
type DummyCustomer struct {
	Name    string `json:"name" validate:"required"`        // Название или имя
	Email   string `json:"email" validate:"required,email"` // Электронная почта
	Phone   string `json:"phone,omitempty"`                 // Телефон (опционально)
	Address string `json:"address,omitempty"`               // Адрес (опционально)
}
