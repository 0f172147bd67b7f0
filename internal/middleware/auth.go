package middleware

import (
	"context"
	"net/http"

	"nexboard/internal/logger"
	"nexboard/internal/models"
	"nexboard/internal/reqctx"

	"go.uber.org/zap"
)

// Session — ровно то, что нужно гейту от SessionService.
type Session interface {
	HasValidToken() bool
	CurrentUser(ctx context.Context) (*models.User, error)
}

// SessionGate закрывает HTML-страницы: без токена сразу редирект на /login,
// никакой авторизованный запрос к бэкенду при этом не выполняется.
func SessionGate(session Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.HasValidToken() {
				logger.WithCtx(r.Context()).Debug("SessionGate: токен отсутствует, редирект на /login",
					zap.String("path", r.URL.Path))
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			user, err := session.CurrentUser(r.Context())
			if err != nil {
				logger.WithCtx(r.Context()).Warn("SessionGate: сессия не подтверждена", zap.Error(err))
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := WithUser(r.Context(), user)
			ctx = reqctx.WithUserEmail(ctx, user.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionGateAPI — то же самое для JSON-эндпоинтов, но 401 вместо редиректа.
func SessionGateAPI(session Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if !session.HasValidToken() {
				logger.WithCtx(r.Context()).Warn("SessionGateAPI: отсутствует токен")
				http.Error(w, "Требуется аутентификация", http.StatusUnauthorized)
				return
			}

			user, err := session.CurrentUser(r.Context())
			if err != nil {
				logger.WithCtx(r.Context()).Warn("SessionGateAPI: сессия не подтверждена", zap.Error(err))
				http.Error(w, "Требуется аутентификация", http.StatusUnauthorized)
				return
			}

			ctx := WithUser(r.Context(), user)
			ctx = reqctx.WithUserEmail(ctx, user.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OnlyRole пускает дальше только пользователей с указанной ролью.
// Должен стоять ПОСЛЕ SessionGate, чтобы пользователь уже был в контексте.
func OnlyRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok || user.Role != role {
				http.Error(w, "Доступ запрещён", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
