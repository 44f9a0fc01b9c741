// Package models содержит доменные структуры приложения: пользователи,
// клиенты, товары, счета, коммерческие предложения, выписки и записи
// корзины, а также Dummy-типы для приёма данных из JSON-запросов,
// прежде чем конвертировать их во внутренние модели.
package models

import (
	"time"

	"github.com/eazeeinvoice/eazee-invoice/internal/access"
)

// User представляет зарегистрированного пользователя системы.
// Поля подписки и пробного периода образуют снимок, по которому
// вычисляется уровень доступа.
type User struct {
	UID                          string     // Уникальный идентификатор пользователя
	Email                        string     // Электронная почта
	Username                     string     // Имя пользователя (уникальное)
	PasswordHash                 string     // Хэш пароля пользователя
	Role                         string     // Роль пользователя, admin или user
	IsSuspended                  bool       // Блокировка аккаунта администратором
	TrialStartDate               *time.Time // Дата начала пробного периода, ставится один раз при регистрации
	IsSubscriber                 bool       // Оформлялась ли когда-либо подписка
	IsAdminGrantedSubscription   bool       // Подписка выдана администратором, без биллинга
	SubscriptionStatus           string     // Статус подписки: active, cancelled, none
	SubscriptionCurrentPeriodEnd *time.Time // Конец оплаченного периода, nil для выданной подписки
}

// AccessAccount собирает снимок учётной записи для вычисления доступа.
func (u *User) AccessAccount() access.Account {
	return access.Account{
		IsAdmin:                      u.Role == "admin",
		IsSuspended:                  u.IsSuspended,
		TrialStartDate:               u.TrialStartDate,
		IsSubscriber:                 u.IsSubscriber,
		IsAdminGrantedSubscription:   u.IsAdminGrantedSubscription,
		SubscriptionStatus:           access.SubscriptionStatus(u.SubscriptionStatus),
		SubscriptionCurrentPeriodEnd: u.SubscriptionCurrentPeriodEnd,
	}
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`       // Электронная почта
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`    // Пароль
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required"` // Имя пользователя
	Password string `json:"password" validate:"required"` // Пароль
}

// DummySuspend используется для приёма флага блокировки из JSON-запроса.
type DummySuspend struct {
	Suspended *bool `json:"suspended" validate:"required"` // Ставим или снимаем блокировку
}
