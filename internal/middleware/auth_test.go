package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"nexboard/internal/logger"
	"nexboard/internal/models"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type stubSession struct {
	hasToken bool
	user     *models.User
	err      error
	calls    int
}

func (s *stubSession) HasValidToken() bool {
	return s.hasToken
}

func (s *stubSession) CurrentUser(ctx context.Context) (*models.User, error) {
	s.calls++
	return s.user, s.err
}

func okHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionGate_NoTokenRedirects(t *testing.T) {
	session := &stubSession{hasToken: false}
	called := false

	rec := httptest.NewRecorder()
	SessionGate(session)(okHandler(t, &called)).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("без токена ожидался редирект 303, получен %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("редирект должен вести на /login, получен %q", loc)
	}
	if session.calls != 0 {
		t.Errorf("без токена запрос текущего пользователя не должен выполняться, выполнено %d", session.calls)
	}
	if called {
		t.Error("защищённый хендлер не должен вызываться")
	}
}

func TestSessionGate_PutsUserInContext(t *testing.T) {
	session := &stubSession{
		hasToken: true,
		user:     &models.User{ID: "user-1", Email: "a@b.ru", Role: "admin"},
	}

	var gotUser *models.User
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFrom(r.Context())
	})

	rec := httptest.NewRecorder()
	SessionGate(session)(handler).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if gotUser == nil || gotUser.ID != "user-1" {
		t.Errorf("пользователь должен попадать в контекст запроса: %+v", gotUser)
	}
}

func TestSessionGateAPI_Returns401(t *testing.T) {
	called := false
	rec := httptest.NewRecorder()
	SessionGateAPI(&stubSession{hasToken: false})(okHandler(t, &called)).
		ServeHTTP(rec, httptest.NewRequest("GET", "/api/dashboard/stats", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("JSON API без токена должен отвечать 401, получен %d", rec.Code)
	}
	if called {
		t.Error("защищённый хендлер не должен вызываться")
	}
}

func TestSessionGateAPI_DeadSessionReturns401(t *testing.T) {
	session := &stubSession{hasToken: true, err: errors.New("бэкенд отклонил токен")}
	called := false

	rec := httptest.NewRecorder()
	SessionGateAPI(session)(okHandler(t, &called)).
		ServeHTTP(rec, httptest.NewRequest("GET", "/api/dashboard/stats", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("при мёртвой сессии ожидался 401, получен %d", rec.Code)
	}
}

func TestOnlyRole(t *testing.T) {
	called := false
	handler := OnlyRole("admin")(okHandler(t, &called))

	// Без пользователя в контексте
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/users", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("без пользователя ожидался 403, получен %d", rec.Code)
	}

	// Не та роль
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/users", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{Role: "viewer"}))
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("для viewer ожидался 403, получен %d", rec.Code)
	}
	if called {
		t.Error("хендлер не должен вызываться для чужой роли")
	}

	// Админ проходит
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/admin/users", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{Role: "admin"}))
	handler.ServeHTTP(rec, req)
	if !called {
		t.Error("админ должен проходить через OnlyRole")
	}
}
