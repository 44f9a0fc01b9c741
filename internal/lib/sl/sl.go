// Package sl содержит небольшие помощники для структурированного логирования
// через slog. Сервисы и обработчики используют их, чтобы поля лога
// (в первую очередь ошибки) выглядели одинаково по всему приложению.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error".
//
//	log.Error("failed to create invoice", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
