package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/EVC-BookingService/internal/api/handlers"
	"github.com/m04kA/EVC-BookingService/internal/domain"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
	msgInvalidRole   = "некорректный заголовок X-User-Role"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity личность вызывающего из заголовков аутентификации.
// Заголовки проставляет внешний gateway, сервис доверяет им как есть
type Identity struct {
	UserID int64
	Role   domain.Role
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает Identity из X-User-ID / X-User-Role и кладет её в контекст.
// Запросы без валидного X-User-ID отклоняются с 401.
// X-User-Role по умолчанию user
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDStr := r.Header.Get(headerUserID)
			if userIDStr == "" {
				logger.Warn("auth: missing %s header: %s %s", headerUserID, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			userID, err := strconv.ParseInt(userIDStr, 10, 64)
			if err != nil {
				logger.Warn("auth: invalid %s header %q: %s %s", headerUserID, userIDStr, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgInvalidUserID)
				return
			}

			role := domain.Role(r.Header.Get(headerUserRole))
			if role == "" {
				role = domain.RoleUser
			}
			if !role.IsValid() {
				logger.Warn("auth: invalid %s header %q: %s %s", headerUserRole, role, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgInvalidRole)
				return
			}

			identity := Identity{UserID: userID, Role: role}
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext возвращает Identity, положенную Auth middleware
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}
