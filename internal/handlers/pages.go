package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"nexboard/internal/logger"
	"nexboard/internal/middleware"
	"nexboard/internal/models"
	"nexboard/internal/services"
	"nexboard/internal/views"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var roleOptions = []string{"admin", "analyst", "viewer", "user"}

// PageHandler — HTML-страницы консоли. Чистый рендеринг текущего состояния:
// страница сначала перезапрашивает свой срез, потом рисует его.
type PageHandler struct {
	session   *services.SessionService
	dashboard *services.DashboardService
}

func NewPageHandler(session *services.SessionService, dashboard *services.DashboardService) *PageHandler {
	return &PageHandler{session: session, dashboard: dashboard}
}

func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.session.HasValidToken() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, "")
}

func (h *PageHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, "Невалидная форма")
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if _, err := h.session.Login(r.Context(), email, password); err != nil {
		h.renderLogin(w, r, "Неверный email или пароль")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) renderLogin(w http.ResponseWriter, r *http.Request, errMsg string) {
	if err := views.RenderLogin(w, views.LoginData{Error: errMsg}); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка рендеринга страницы входа", zap.Error(err))
	}
}

func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	_ = h.session.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Dashboard — первичная загрузка: все независимые срезы тянутся параллельно.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	h.dashboard.RefreshAll(r.Context())

	data := views.DashboardData{
		User:             user,
		Stats:            h.dashboard.Stats(),
		Campaigns:        h.dashboard.Campaigns(),
		SelectedCampaign: r.URL.Query().Get("campaign"),
	}
	if err := views.RenderDashboard(w, data); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка рендеринга дашборда", zap.Error(err))
	}
}

// UsersPage — смена фильтра перезапрашивает только срез пользователей.
func (h *PageHandler) UsersPage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	filter, activeValue := userFilterFromQuery(r)
	users := h.dashboard.SetUserFilter(r.Context(), filter)

	data := views.UsersData{
		User:        user,
		Users:       users,
		Filter:      filter,
		ActiveValue: activeValue,
		Roles:       roleOptions,
	}
	if err := views.RenderUsers(w, data); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка рендеринга таблицы пользователей", zap.Error(err))
	}
}

func (h *PageHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	role := r.PostFormValue("role")

	if err := h.dashboard.ChangeUserRole(r.Context(), userID, role); err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			http.Error(w, "Недопустимая роль", http.StatusBadRequest)
			return
		}
		http.Error(w, "Не удалось сменить роль", http.StatusBadGateway)
		return
	}

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// DeactivatePage — страница подтверждения. Деструктивное действие
// не отправляется без явного подтверждения.
func (h *PageHandler) DeactivatePage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	targetID := mux.Vars(r)["id"]

	label := targetID
	for _, u := range h.dashboard.Users() {
		if u.ID == targetID {
			label = u.Email
			break
		}
	}

	data := views.ConfirmDeactivateData{
		User:        user,
		TargetID:    targetID,
		TargetLabel: label,
	}
	if err := views.RenderConfirmDeactivate(w, data); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка рендеринга подтверждения", zap.Error(err))
	}
}

func (h *PageHandler) DeactivateSubmit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	targetID := mux.Vars(r)["id"]
	confirmed := r.PostFormValue("confirm") == "yes"

	err := h.dashboard.DeactivateUser(r.Context(), targetID, user.ID, confirmed)
	switch {
	case errors.Is(err, services.ErrNotConfirmed):
		http.Redirect(w, r, "/admin/users/"+targetID+"/deactivate", http.StatusSeeOther)
		return
	case errors.Is(err, services.ErrSelfDeactivation):
		http.Error(w, "Нельзя деактивировать собственную учётную запись", http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "Не удалось деактивировать пользователя", http.StatusBadGateway)
		return
	}

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (h *PageHandler) OrganizationsPage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	orgs := h.dashboard.RefreshOrganizations(r.Context())

	data := views.OrganizationsData{
		User:          user,
		Organizations: orgs,
	}
	if err := views.RenderOrganizations(w, data); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка рендеринга организаций", zap.Error(err))
	}
}

func (h *PageHandler) SystemPage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	health := h.dashboard.RefreshHealth(r.Context())

	var message string
	if done := r.URL.Query().Get("done"); done != "" {
		message = "Действие «" + done + "» выполнено"
	}

	data := views.SystemData{
		User:    user,
		Health:  health,
		Message: message,
	}
	if err := views.RenderSystem(w, data); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка рендеринга системной страницы", zap.Error(err))
	}
}

func (h *PageHandler) MaintenanceSubmit(w http.ResponseWriter, r *http.Request) {
	action := r.PostFormValue("action")

	result, err := h.dashboard.RunMaintenance(r.Context(), action)
	switch {
	case errors.Is(err, services.ErrUnknownAction):
		http.Error(w, "Неизвестное сервисное действие", http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "Сервисное действие не выполнено", http.StatusBadGateway)
		return
	}

	http.Redirect(w, r, "/admin/system?done="+result.Action, http.StatusSeeOther)
}

func (h *PageHandler) AuditPage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries := h.dashboard.SetAuditFilter(r.Context(), models.AuditFilter{
		Limit:      limit,
		UserID:     r.URL.Query().Get("user_id"),
		ActionType: r.URL.Query().Get("action_type"),
	})

	data := views.AuditData{
		User:    user,
		Entries: entries,
	}
	if err := views.RenderAudit(w, data); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка рендеринга audit-лога", zap.Error(err))
	}
}

// userFilterFromQuery разбирает query-параметры фильтра таблицы пользователей.
func userFilterFromQuery(r *http.Request) (models.UserFilter, string) {
	filter := models.UserFilter{
		Role:   r.URL.Query().Get("role"),
		Search: r.URL.Query().Get("search"),
	}

	activeValue := r.URL.Query().Get("active")
	if activeValue != "" {
		if active, err := strconv.ParseBool(activeValue); err == nil {
			filter.IsActive = &active
		} else {
			activeValue = ""
		}
	}

	return filter, activeValue
}
