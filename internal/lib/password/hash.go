// Package password хеширует пароли пользователей через bcrypt.
// В базе хранится только хеш, исходный пароль нигде не сохраняется.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash возвращает bcrypt-хеш пароля со стандартной стоимостью.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hash), nil
}

// CompareHash проверяет, соответствует ли пароль сохраненному хешу.
// Возвращает nil при совпадении.
func CompareHash(storedHash, candidate string) error {
	const op = "password.CompareHash"

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
