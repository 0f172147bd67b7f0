package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nexboard/internal/logger"
	"nexboard/internal/tokenstore"

	"go.uber.org/zap"
)

// TokenSource отдаёт bearer-токен из локального хранилища.
type TokenSource interface {
	Token() (string, error)
}

// ErrNoToken — токен отсутствует; запрос к бэкенду не выполняется вовсе.
var ErrNoToken = tokenstore.ErrNoToken

var ErrUnauthorized = errors.New("бэкенд отклонил токен")

// APIError — не-2xx ответ бэкенда. Detail берётся из тела FastAPI {"detail": ...}.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("бэкенд вернул статус %d: %s", e.Status, e.Detail)
}

// Client ходит в удалённый аналитический бэкенд с bearer-авторизацией.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
	}
}

// do выполняет авторизованный запрос. Без токена запрос не отправляется.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return ErrNoToken
	}
	return c.request(ctx, method, path, query, body, out, token)
}

// doAnonymous — для /auth/login, единственного вызова без токена.
func (c *Client) doAnonymous(ctx context.Context, method, path string, body any, out any) error {
	return c.request(ctx, method, path, nil, body, out, "")
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any, out any, token string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithCtx(ctx).Warn("Запрос к бэкенду не выполнен",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil {
			apiErr.Detail = detail.Detail
		}
		logger.WithCtx(ctx).Warn("Бэкенд вернул ошибку",
			zap.String("method", method), zap.String("path", path),
			zap.Int("status", resp.StatusCode), zap.String("detail", apiErr.Detail))
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
