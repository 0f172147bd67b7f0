package middleware

import (
	"context"

	"nexboard/internal/models"
)

type ctxKey string

const contextUser ctxKey = "current_user"

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextUser, user)
}

// UserFrom — текущий пользователь, положенный SessionGate.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(contextUser).(*models.User)
	return u, ok
}
