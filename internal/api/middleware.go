package api

import (
	"crypto/subtle"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AuthMiddleware проверяет заголовок X-Admin-Password. Если задан
// ADMIN_PASSWORD_HASH, пароль сверяется с bcrypt-хешем; иначе сравнивается
// с ADMIN_PASSWORD. Когда не задано ни то ни другое, административные
// маршруты закрыты полностью.
func AuthMiddleware(passwordHash, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" && password == "" {
				writeJSONError(w, http.StatusForbidden, "Административный доступ не настроен")
				return
			}

			provided := r.Header.Get("X-Admin-Password")
			if provided == "" {
				writeJSONError(w, http.StatusUnauthorized, "Требуется заголовок X-Admin-Password")
				return
			}

			if !adminPasswordMatches(passwordHash, password, provided) {
				log.Printf("AuthMiddleware: неверный административный пароль, %s %s.", r.Method, r.URL.Path)
				writeJSONError(w, http.StatusUnauthorized, "Неверный административный пароль")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func adminPasswordMatches(passwordHash, password, provided string) bool {
	if passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(provided)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(provided)) == 1
}
