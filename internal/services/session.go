package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"nexboard/internal/gateway"
	"nexboard/internal/logger"
	"nexboard/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrNotAuthenticated = errors.New("пользователь не аутентифицирован")

type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// SessionService — Session Gate: текущий пользователь, статус аутентификации,
// логин и логаут. Токен хранится в локальном хранилище под фиксированным ключом.
type SessionService struct {
	gw     AuthGateway
	tokens TokenStore

	mu      sync.RWMutex
	user    *models.User
	loading bool
}

func NewSessionService(gw AuthGateway, tokens TokenStore) *SessionService {
	return &SessionService{gw: gw, tokens: tokens}
}

// State — снимок {user, isAuthenticated, isLoading} для защищённых вью.
func (s *SessionService) State() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SessionState{
		User:            s.user,
		IsAuthenticated: s.user != nil,
		IsLoading:       s.loading,
	}
}

// HasValidToken — токен присутствует и его exp ещё не прошёл.
// Подпись здесь не проверяется: секрет знает только бэкенд,
// локально токен либо есть, либо нет (плюс проверка срока).
func (s *SessionService) HasValidToken() bool {
	token, err := s.tokens.Token()
	if err != nil {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		logger.Log.Warn("Сохранённый токен не разбирается, считаем его отсутствующим", zap.Error(err))
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true // без exp полагаемся на бэкенд
	}
	return exp.After(time.Now())
}

// CurrentUser возвращает пользователя из кэша или запрашивает /auth/me.
// Без валидного токена запрос к бэкенду не выполняется.
func (s *SessionService) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.RLock()
	cached := s.user
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh перечитывает текущего пользователя с бэкенда.
func (s *SessionService) Refresh(ctx context.Context) (*models.User, error) {
	if !s.HasValidToken() {
		s.mu.Lock()
		s.user = nil
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	user, err := s.gw.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		logger.WithCtx(ctx).Warn("Не удалось получить текущего пользователя", zap.Error(err))
		// 401 означает, что сохранённый токен мёртв — чистим хранилище
		if errors.Is(err, gateway.ErrUnauthorized) {
			_ = s.tokens.ClearToken()
		}
		s.user = nil
		return nil, ErrNotAuthenticated
	}

	s.user = user
	return user, nil
}

// Login обменивает учётные данные на токен, сохраняет его и кэширует пользователя.
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.User, error) {
	logger.WithCtx(ctx).Info("Попытка входа", zap.String("email", email))

	resp, err := s.gw.Login(ctx, email, password)
	if err != nil {
		logger.WithCtx(ctx).Warn("Вход не выполнен", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	if err := s.tokens.SetToken(resp.AccessToken); err != nil {
		logger.WithCtx(ctx).Error("Не удалось сохранить токен", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.user = &resp.User
	s.mu.Unlock()

	logger.WithCtx(ctx).Info("Вход выполнен", zap.String("email", resp.User.Email), zap.String("role", resp.User.Role))
	return &resp.User, nil
}

// Logout удаляет токен из хранилища и сбрасывает кэш пользователя.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.ClearToken(); err != nil {
		logger.WithCtx(ctx).Error("Не удалось очистить токен", zap.Error(err))
		return err
	}
	logger.WithCtx(ctx).Info("Пользователь вышел")
	return nil
}
