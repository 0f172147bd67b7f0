package gateway

import (
	"context"
	"net/http"

	"nexboard/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login обменивает учётные данные на токен. Пароль не хранится и не хешируется
// на этой стороне — уходит в бэкенд как есть.
func (c *Client) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	var resp models.TokenResponse
	err := c.doAnonymous(ctx, http.MethodPost, "/api/v1/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me возвращает текущего пользователя по сохранённому токену.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
