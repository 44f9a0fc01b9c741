// Package recyclebin задаёт правила жизненного цикла корзины: запись
// доступна для восстановления семь дней после мягкого удаления, после
// этого подлежит окончательной очистке. Функции чистые, время передаётся
// параметром.
package recyclebin

import "time"

// RetentionDays срок хранения записи в корзине.
const RetentionDays = 7

// Retention срок хранения как Duration.
const Retention = RetentionDays * 24 * time.Hour

// EligibleForRestore сообщает, можно ли ещё восстановить запись,
// удалённую в deletedAt. Граница включающая: ровно через семь суток
// восстановление ещё возможно.
func EligibleForRestore(deletedAt, now time.Time) bool {
	return now.Sub(deletedAt) <= Retention
}

// EligibleForPurge сообщает, подлежит ли запись окончательному удалению.
// Строгое дополнение EligibleForRestore.
func EligibleForPurge(deletedAt, now time.Time) bool {
	return now.Sub(deletedAt) > Retention
}
