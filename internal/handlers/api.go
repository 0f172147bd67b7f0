package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"nexboard/internal/logger"
	"nexboard/internal/middleware"
	"nexboard/internal/models"
	"nexboard/internal/services"
	helpers "nexboard/internal/utils/helpres"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// APIHandler — JSON-эндпоинты для страниц консоли.
// Ошибки чтения не всплывают: срез просто пустой (логика в services).
type APIHandler struct {
	session   *services.SessionService
	dashboard *services.DashboardService
}

func NewAPIHandler(session *services.SessionService, dashboard *services.DashboardService) *APIHandler {
	return &APIHandler{session: session, dashboard: dashboard}
}

type createSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type deactivateRequest struct {
	Confirm bool `json:"confirm"`
}

type maintenanceRequest struct {
	Action string `json:"action"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// GetSession godoc
// @Summary Состояние сессии {user, isAuthenticated, isLoading}
// @Tags session
// @Produce json
// @Success 200 {object} models.SessionState
// @Router /api/session [get]
func (h *APIHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	// Обновляем пользователя, если токен есть; без токена запрос не уйдёт
	_, _ = h.session.Refresh(r.Context())
	helpers.JSON(w, http.StatusOK, h.session.State())
}

// CreateSession godoc
// @Summary Вход: обмен учётных данных на токен бэкенда
// @Tags session
// @Accept json
// @Produce json
// @Param input body createSessionRequest true "Учётные данные"
// @Success 200 {object} models.SessionState
// @Failure 401 {string} string "Неверный email или пароль"
// @Router /api/session [post]
func (h *APIHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при входе", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if _, err := h.session.Login(r.Context(), req.Email, req.Password); err != nil {
		helpers.Error(w, http.StatusUnauthorized, "Неверный email или пароль")
		return
	}

	helpers.JSON(w, http.StatusOK, h.session.State())
}

// DeleteSession godoc
// @Summary Выход: удаление токена из хранилища
// @Tags session
// @Produce json
// @Success 200 {string} string "Выход выполнен"
// @Router /api/session [delete]
func (h *APIHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		helpers.Error(w, http.StatusInternalServerError, "Не удалось завершить сессию")
		return
	}
	helpers.JSON(w, http.StatusOK, "Выход выполнен")
}

// GetStats godoc
// @Summary Статистика дашборда (свежий снимок)
// @Tags dashboard
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.AdminStats
// @Router /api/dashboard/stats [get]
func (h *APIHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, h.dashboard.RefreshStats(r.Context()))
}

// GetCampaigns godoc
// @Summary Кампании для селектора
// @Tags dashboard
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Campaign
// @Router /api/dashboard/campaigns [get]
func (h *APIHandler) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, h.dashboard.RefreshCampaigns(r.Context()))
}

// GetUsers godoc
// @Summary Пользователи с фильтрами
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param role   query string false "Роль (admin|analyst|viewer|user)"
// @Param search query string false "Поиск по имени или email"
// @Param active query bool   false "Фильтр по активности"
// @Success 200 {array} models.User
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/admin/users [get]
func (h *APIHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	filter, _ := userFilterFromQuery(r)
	helpers.JSON(w, http.StatusOK, h.dashboard.SetUserFilter(r.Context(), filter))
}

// ChangeUserRole godoc
// @Summary Смена роли пользователя
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "ID пользователя"
// @Param input body changeRoleRequest true "Новая роль"
// @Success 200 {string} string "Роль обновлена"
// @Failure 400 {string} string "Недопустимая роль"
// @Router /api/admin/users/{id} [patch]
func (h *APIHandler) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if err := h.dashboard.ChangeUserRole(r.Context(), userID, req.Role); err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			helpers.Error(w, http.StatusBadRequest, "Недопустимая роль")
			return
		}
		helpers.Error(w, http.StatusBadGateway, "Не удалось сменить роль")
		return
	}

	helpers.JSON(w, http.StatusOK, "Роль обновлена")
}

// DeactivateUser godoc
// @Summary Деактивация пользователя (требует confirm=true)
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "ID пользователя"
// @Param input body deactivateRequest true "Подтверждение"
// @Success 200 {string} string "Пользователь деактивирован"
// @Failure 400 {string} string "Действие не подтверждено"
// @Router /api/admin/users/{id} [delete]
func (h *APIHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	actor, _ := middleware.UserFrom(r.Context())

	var req deactivateRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // пустое тело = не подтверждено
	}

	err := h.dashboard.DeactivateUser(r.Context(), userID, actor.ID, req.Confirm)
	switch {
	case errors.Is(err, services.ErrNotConfirmed):
		helpers.Error(w, http.StatusBadRequest, "Действие не подтверждено")
		return
	case errors.Is(err, services.ErrSelfDeactivation):
		helpers.Error(w, http.StatusBadRequest, "Нельзя деактивировать собственную учётную запись")
		return
	case err != nil:
		helpers.Error(w, http.StatusBadGateway, "Не удалось деактивировать пользователя")
		return
	}

	helpers.JSON(w, http.StatusOK, "Пользователь деактивирован")
}

// GetOrganizations godoc
// @Summary Сводка по организациям
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.OrganizationStats
// @Router /api/admin/organizations [get]
func (h *APIHandler) GetOrganizations(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, h.dashboard.RefreshOrganizations(r.Context()))
}

// GetSystemHealth godoc
// @Summary Состояние подсистем бэкенда
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.SystemHealth
// @Router /api/admin/system/health [get]
func (h *APIHandler) GetSystemHealth(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, h.dashboard.RefreshHealth(r.Context()))
}

// RunMaintenance godoc
// @Summary Запуск сервисного действия
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body maintenanceRequest true "Действие (cleanup_logs|cleanup_inactive_users|generate_report)"
// @Success 200 {object} models.MaintenanceResult
// @Failure 400 {string} string "Неизвестное сервисное действие"
// @Router /api/admin/system/maintenance [post]
func (h *APIHandler) RunMaintenance(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	result, err := h.dashboard.RunMaintenance(r.Context(), req.Action)
	switch {
	case errors.Is(err, services.ErrUnknownAction):
		helpers.Error(w, http.StatusBadRequest, "Неизвестное сервисное действие")
		return
	case err != nil:
		helpers.Error(w, http.StatusBadGateway, "Сервисное действие не выполнено")
		return
	}

	helpers.JSON(w, http.StatusOK, result)
}

// GetAudit godoc
// @Summary Audit-лог бэкенда
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param limit       query int    false "Количество записей"
// @Param user_id     query string false "Фильтр по пользователю"
// @Param action_type query string false "Фильтр по типу действия"
// @Success 200 {array} models.AuditEntry
// @Router /api/admin/audit [get]
func (h *APIHandler) GetAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries := h.dashboard.SetAuditFilter(r.Context(), models.AuditFilter{
		Limit:      limit,
		UserID:     r.URL.Query().Get("user_id"),
		ActionType: r.URL.Query().Get("action_type"),
	})
	helpers.JSON(w, http.StatusOK, entries)
}
