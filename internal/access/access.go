// Package access реализует вычисление уровня доступа пользователя:
// пробный период, оплаченная или выданная администратором подписка,
// блокировка аккаунта. Все функции чистые — текущее время передаётся
// параметром, побочных эффектов и обращений к хранилищу нет.
package access

import "time"

// TrialDays длительность пробного периода в днях.
const TrialDays = 7

// SubscriptionStatus статус оплаченной подписки аккаунта.
type SubscriptionStatus string

const (
	// SubscriptionActive подписка действует.
	SubscriptionActive SubscriptionStatus = "active"
	// SubscriptionCancelled подписка отменена пользователем.
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	// SubscriptionNone подписка никогда не оформлялась.
	SubscriptionNone SubscriptionStatus = "none"
)

// Reason причина решения о доступе, ровно одна на вызов.
type Reason string

const (
	// ReasonSuspended аккаунт заблокирован администратором.
	ReasonSuspended Reason = "suspended"
	// ReasonAdmin администратор, доступ без ограничений.
	ReasonAdmin Reason = "admin"
	// ReasonSubscriber действующая подписка, оплаченная или выданная.
	ReasonSubscriber Reason = "subscriber"
	// ReasonTrial идёт пробный период.
	ReasonTrial Reason = "trial"
	// ReasonTrialExpired пробный период закончился, подписки нет.
	ReasonTrialExpired Reason = "trial_expired"
)

// Account срез полей учётной записи, достаточный для решения о доступе.
// TrialStartDate равный nil означает, что пробный период не начинался —
// для не-администратора это закрывает доступ.
type Account struct {
	IsAdmin                      bool
	IsSuspended                  bool
	TrialStartDate               *time.Time
	IsSubscriber                 bool
	IsAdminGrantedSubscription   bool
	SubscriptionStatus           SubscriptionStatus
	SubscriptionCurrentPeriodEnd *time.Time
}

// Result итог вычисления доступа. TrialDaysLeft заполняется только
// при Reason == ReasonTrial.
type Result struct {
	Allowed       bool
	Reason        Reason
	TrialDaysLeft int
}

// Evaluate вычисляет уровень доступа аккаунта на момент now.
// Проверки выполняются строго по порядку, срабатывает первая:
// блокировка, администратор, подписка, пробный период, отказ.
// Блокировка перекрывает в том числе права администратора.
func Evaluate(acc Account, now time.Time) Result {
	if acc.IsSuspended {
		return Result{Allowed: false, Reason: ReasonSuspended}
	}
	if acc.IsAdmin {
		return Result{Allowed: true, Reason: ReasonAdmin}
	}
	if hasActiveSubscription(acc, now) {
		return Result{Allowed: true, Reason: ReasonSubscriber}
	}
	if daysPassed, started := trialDaysPassed(acc, now); started && daysPassed < TrialDays {
		return Result{Allowed: true, Reason: ReasonTrial, TrialDaysLeft: TrialDays - daysPassed}
	}
	return Result{Allowed: false, Reason: ReasonTrialExpired}
}

// TrialDaysLeft возвращает остаток пробного периода в днях, не меньше нуля.
// Считается независимо от подписки: баннер с остатком триала показывается
// и подписчикам, это отдельная от Evaluate забота отображения.
func TrialDaysLeft(acc Account, now time.Time) int {
	daysPassed, started := trialDaysPassed(acc, now)
	if !started {
		return 0
	}
	if left := TrialDays - daysPassed; left > 0 {
		return left
	}
	return 0
}

// hasActiveSubscription проверяет наличие действующей подписки.
// Выданная администратором подписка бессрочная и не зависит от
// даты окончания оплаченного периода.
func hasActiveSubscription(acc Account, now time.Time) bool {
	if acc.IsAdminGrantedSubscription {
		return true
	}
	if !acc.IsSubscriber || acc.SubscriptionStatus == SubscriptionCancelled {
		return false
	}
	return acc.SubscriptionCurrentPeriodEnd != nil && acc.SubscriptionCurrentPeriodEnd.After(now)
}

// trialDaysPassed возвращает число полных суток с начала пробного периода.
// Второй результат false, если пробный период не начинался.
func trialDaysPassed(acc Account, now time.Time) (int, bool) {
	if acc.TrialStartDate == nil {
		return 0, false
	}
	passed := now.Sub(*acc.TrialStartDate)
	if passed < 0 {
		return 0, true
	}
	return int(passed / (24 * time.Hour)), true
}
