package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"nexboard/internal/gateway"
	"nexboard/internal/logger"
	"nexboard/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type mockTokens struct {
	token string
}

func (m *mockTokens) Token() (string, error) {
	if m.token == "" {
		return "", gateway.ErrNoToken
	}
	return m.token, nil
}

func (m *mockTokens) SetToken(token string) error {
	m.token = token
	return nil
}

func (m *mockTokens) ClearToken() error {
	m.token = ""
	return nil
}

type mockAuthGateway struct {
	loginResp *models.TokenResponse
	loginErr  error
	meResp    *models.User
	meErr     error
	meCalls   int
}

func (m *mockAuthGateway) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	return m.loginResp, m.loginErr
}

func (m *mockAuthGateway) Me(ctx context.Context) (*models.User, error) {
	m.meCalls++
	return m.meResp, m.meErr
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("тестовый-секрет"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestSession_RefreshWithoutToken(t *testing.T) {
	gw := &mockAuthGateway{}
	s := NewSessionService(gw, &mockTokens{})

	if _, err := s.Refresh(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("без токена ожидался ErrNotAuthenticated, получено: %v", err)
	}
	if gw.meCalls != 0 {
		t.Errorf("без токена запрос /auth/me не должен выполняться, выполнено %d", gw.meCalls)
	}

	state := s.State()
	if state.IsAuthenticated || state.User != nil {
		t.Errorf("состояние должно быть анонимным: %+v", state)
	}
}

func TestSession_HasValidToken(t *testing.T) {
	tokens := &mockTokens{}
	s := NewSessionService(&mockAuthGateway{}, tokens)

	if s.HasValidToken() {
		t.Error("пустое хранилище не должно давать валидный токен")
	}

	tokens.token = signedToken(t, time.Now().Add(time.Hour))
	if !s.HasValidToken() {
		t.Error("токен с exp в будущем должен считаться валидным")
	}

	tokens.token = signedToken(t, time.Now().Add(-time.Hour))
	if s.HasValidToken() {
		t.Error("протухший токен не должен считаться валидным")
	}
}

func TestSession_LoginStoresToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	gw := &mockAuthGateway{
		loginResp: &models.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			User:        models.User{ID: "user-1", Email: "admin@nexopeak.ru", Role: "admin"},
		},
	}
	tokens := &mockTokens{}
	s := NewSessionService(gw, tokens)

	user, err := s.Login(context.Background(), "admin@nexopeak.ru", "pass")
	if err != nil {
		t.Fatalf("неожиданная ошибка входа: %v", err)
	}
	if user.Email != "admin@nexopeak.ru" {
		t.Errorf("пользователь не закэширован: %+v", user)
	}
	if tokens.token != token {
		t.Error("токен не сохранён в хранилище")
	}

	state := s.State()
	if !state.IsAuthenticated {
		t.Error("после входа сессия должна быть аутентифицирована")
	}
}

func TestSession_LoginFailure(t *testing.T) {
	gw := &mockAuthGateway{loginErr: errors.New("401")}
	tokens := &mockTokens{}
	s := NewSessionService(gw, tokens)

	if _, err := s.Login(context.Background(), "a@b.ru", "неверный"); err == nil {
		t.Fatal("ошибка входа должна всплывать")
	}
	if tokens.token != "" {
		t.Error("при неудачном входе токен не должен сохраняться")
	}
}

func TestSession_UnauthorizedClearsToken(t *testing.T) {
	gw := &mockAuthGateway{meErr: gateway.ErrUnauthorized}
	tokens := &mockTokens{token: signedToken(t, time.Now().Add(time.Hour))}
	s := NewSessionService(gw, tokens)

	if _, err := s.Refresh(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("ожидался ErrNotAuthenticated, получено: %v", err)
	}
	if tokens.token != "" {
		t.Error("после 401 от бэкенда мёртвый токен должен удаляться из хранилища")
	}
}

func TestSession_CurrentUserUsesCache(t *testing.T) {
	gw := &mockAuthGateway{meResp: &models.User{ID: "user-1", Email: "a@b.ru"}}
	tokens := &mockTokens{token: signedToken(t, time.Now().Add(time.Hour))}
	s := NewSessionService(gw, tokens)

	if _, err := s.CurrentUser(context.Background()); err != nil {
		t.Fatalf("первый вызов должен сходить в бэкенд: %v", err)
	}
	if _, err := s.CurrentUser(context.Background()); err != nil {
		t.Fatalf("второй вызов должен отдать кэш: %v", err)
	}
	if gw.meCalls != 1 {
		t.Errorf("ожидался один запрос /auth/me, выполнено %d", gw.meCalls)
	}
}

func TestSession_Logout(t *testing.T) {
	gw := &mockAuthGateway{meResp: &models.User{ID: "user-1"}}
	tokens := &mockTokens{token: signedToken(t, time.Now().Add(time.Hour))}
	s := NewSessionService(gw, tokens)

	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("неожиданная ошибка выхода: %v", err)
	}
	if tokens.token != "" {
		t.Error("после выхода токена в хранилище быть не должно")
	}
	if s.State().IsAuthenticated {
		t.Error("после выхода сессия должна быть анонимной")
	}
}
