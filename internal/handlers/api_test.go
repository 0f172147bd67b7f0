package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"nexboard/internal/logger"
	"nexboard/internal/middleware"
	"nexboard/internal/models"
	"nexboard/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type stubAuthGateway struct{}

func (stubAuthGateway) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	return &models.TokenResponse{AccessToken: "t", User: models.User{Email: email}}, nil
}

func (stubAuthGateway) Me(ctx context.Context) (*models.User, error) {
	return nil, services.ErrNotAuthenticated
}

type stubTokens struct{ token string }

func (s *stubTokens) Token() (string, error)      { return s.token, nil }
func (s *stubTokens) SetToken(token string) error { s.token = token; return nil }
func (s *stubTokens) ClearToken() error           { s.token = ""; return nil }

type countingGateway struct {
	deactivateCalls int
	updateCalls     int
	maintCalls      int
	healthCalls     int
	usersCalls      int
}

func (g *countingGateway) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	return &models.AdminStats{TotalUsers: 42}, nil
}

func (g *countingGateway) Users(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	g.usersCalls++
	return []models.User{}, nil
}

func (g *countingGateway) UpdateUser(ctx context.Context, userID string, input *models.UpdateUserRequest) error {
	g.updateCalls++
	return nil
}

func (g *countingGateway) DeactivateUser(ctx context.Context, userID string) error {
	g.deactivateCalls++
	return nil
}

func (g *countingGateway) Organizations(ctx context.Context) ([]models.OrganizationStats, error) {
	return []models.OrganizationStats{}, nil
}

func (g *countingGateway) SystemHealth(ctx context.Context) (*models.SystemHealth, error) {
	g.healthCalls++
	return &models.SystemHealth{}, nil
}

func (g *countingGateway) Maintenance(ctx context.Context, action string) (*models.MaintenanceResult, error) {
	g.maintCalls++
	return &models.MaintenanceResult{Action: action, Status: "completed"}, nil
}

func (g *countingGateway) AuditLog(ctx context.Context, filter models.AuditFilter) (*models.AuditLog, error) {
	return &models.AuditLog{}, nil
}

func (g *countingGateway) Campaigns(ctx context.Context) ([]models.Campaign, error) {
	return []models.Campaign{}, nil
}

func newAPIHandler(gw *countingGateway) *APIHandler {
	session := services.NewSessionService(stubAuthGateway{}, &stubTokens{})
	dashboard := services.NewDashboardService(gw)
	return NewAPIHandler(session, dashboard)
}

func adminRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	admin := &models.User{ID: "admin-1", Email: "admin@nexopeak.ru", Role: "admin"}
	return req.WithContext(middleware.WithUser(req.Context(), admin))
}

func TestAPI_GetStats(t *testing.T) {
	h := newAPIHandler(&countingGateway{})

	rec := httptest.NewRecorder()
	h.GetStats(rec, adminRequest("GET", "/api/dashboard/stats", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}

	var resp struct {
		Data models.AdminStats `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("ответ не разбирается: %v", err)
	}
	if resp.Data.TotalUsers != 42 {
		t.Errorf("ожидалось total_users=42, получено %d", resp.Data.TotalUsers)
	}
}

func TestAPI_DeactivateWithoutConfirm(t *testing.T) {
	gw := &countingGateway{}
	h := newAPIHandler(gw)

	req := adminRequest("DELETE", "/api/admin/users/user-2", `{"confirm": false}`)
	req = mux.SetURLVars(req, map[string]string{"id": "user-2"})

	rec := httptest.NewRecorder()
	h.DeactivateUser(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("без подтверждения ожидался 400, получен %d", rec.Code)
	}
	if gw.deactivateCalls != 0 {
		t.Errorf("без подтверждения запрос к бэкенду не должен отправляться, отправлено %d", gw.deactivateCalls)
	}
}

func TestAPI_DeactivateSelf(t *testing.T) {
	gw := &countingGateway{}
	h := newAPIHandler(gw)

	req := adminRequest("DELETE", "/api/admin/users/admin-1", `{"confirm": true}`)
	req = mux.SetURLVars(req, map[string]string{"id": "admin-1"})

	rec := httptest.NewRecorder()
	h.DeactivateUser(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("самодеактивация должна отклоняться с 400, получен %d", rec.Code)
	}
	if gw.deactivateCalls != 0 {
		t.Errorf("самодеактивация не должна доходить до бэкенда, отправлено %d", gw.deactivateCalls)
	}
}

func TestAPI_DeactivateConfirmed(t *testing.T) {
	gw := &countingGateway{}
	h := newAPIHandler(gw)

	req := adminRequest("DELETE", "/api/admin/users/user-2", `{"confirm": true}`)
	req = mux.SetURLVars(req, map[string]string{"id": "user-2"})

	rec := httptest.NewRecorder()
	h.DeactivateUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("подтверждённая деактивация должна проходить, получен %d", rec.Code)
	}
	if gw.deactivateCalls != 1 {
		t.Errorf("ожидался один запрос деактивации, отправлено %d", gw.deactivateCalls)
	}
}

func TestAPI_ChangeRoleValidation(t *testing.T) {
	gw := &countingGateway{}
	h := newAPIHandler(gw)

	req := adminRequest("PATCH", "/api/admin/users/user-2", `{"role": "root"}`)
	req = mux.SetURLVars(req, map[string]string{"id": "user-2"})

	rec := httptest.NewRecorder()
	h.ChangeUserRole(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("недопустимая роль должна отклоняться с 400, получен %d", rec.Code)
	}
	if gw.updateCalls != 0 {
		t.Errorf("недопустимая роль не должна доходить до бэкенда, отправлено %d", gw.updateCalls)
	}
}

func TestAPI_MaintenanceValidation(t *testing.T) {
	gw := &countingGateway{}
	h := newAPIHandler(gw)

	rec := httptest.NewRecorder()
	h.RunMaintenance(rec, adminRequest("POST", "/api/admin/system/maintenance", `{"action": "rm_rf"}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("неизвестное действие должно отклоняться с 400, получен %d", rec.Code)
	}
	if gw.maintCalls != 0 {
		t.Errorf("неизвестное действие не должно доходить до бэкенда, отправлено %d", gw.maintCalls)
	}

	rec = httptest.NewRecorder()
	h.RunMaintenance(rec, adminRequest("POST", "/api/admin/system/maintenance", `{"action": "cleanup_logs"}`))

	if rec.Code != http.StatusOK {
		t.Errorf("допустимое действие должно выполняться, получен %d", rec.Code)
	}
	if gw.maintCalls != 1 {
		t.Errorf("ожидался один запрос сервисного действия, отправлено %d", gw.maintCalls)
	}
	if gw.healthCalls != 1 {
		t.Errorf("после действия health должен перезапрашиваться, запрошено %d", gw.healthCalls)
	}
}
