package views

import (
	"strings"
	"testing"

	"nexboard/internal/models"
)

func admin() *models.User {
	return &models.User{ID: "admin-1", Email: "admin@nexopeak.ru", Role: "admin"}
}

func TestRenderDashboard_Stats(t *testing.T) {
	var buf strings.Builder
	err := RenderDashboard(&buf, DashboardData{
		User: admin(),
		Stats: &models.AdminStats{
			TotalUsers:  42,
			UsersByRole: map[string]int{"admin": 3},
		},
		Campaigns:        []models.Campaign{{ID: "c-1", Name: "Весенняя распродажа"}},
		SelectedCampaign: "c-1",
	})
	if err != nil {
		t.Fatalf("ошибка рендеринга: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, ">42<") {
		t.Error("значение статистики должно попадать в разметку")
	}
	if !strings.Contains(html, "Весенняя распродажа") {
		t.Error("кампания должна попадать в селектор")
	}
	if !strings.Contains(html, `value="c-1" selected`) {
		t.Error("выбранная кампания должна быть отмечена")
	}
	if !strings.Contains(html, "admin@nexopeak.ru") {
		t.Error("email пользователя должен отображаться в шапке")
	}
}

func TestRenderDashboard_NoStats(t *testing.T) {
	var buf strings.Builder
	if err := RenderDashboard(&buf, DashboardData{User: admin()}); err != nil {
		t.Fatalf("ошибка рендеринга: %v", err)
	}
	if !strings.Contains(buf.String(), "Статистика недоступна") {
		t.Error("при пустом снимке должна показываться заглушка")
	}
}

func TestRenderUsers_EscapesBackendStrings(t *testing.T) {
	var buf strings.Builder
	err := RenderUsers(&buf, UsersData{
		User: admin(),
		Users: []models.User{
			{ID: "u-1", Email: "x@y.ru", Name: "<script>alert(1)</script>", Role: "viewer", IsActive: true},
		},
		Roles: []string{"admin", "viewer"},
	})
	if err != nil {
		t.Fatalf("ошибка рендеринга: %v", err)
	}

	html := buf.String()
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("строки бэкенда должны экранироваться")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("имя пользователя должно присутствовать в экранированном виде")
	}
}

func TestRenderUsers_EmptyList(t *testing.T) {
	var buf strings.Builder
	if err := RenderUsers(&buf, UsersData{User: admin(), Roles: []string{"admin"}}); err != nil {
		t.Fatalf("ошибка рендеринга: %v", err)
	}
	if !strings.Contains(buf.String(), "Пользователи не найдены") {
		t.Error("пустой срез должен рендериться заглушкой, а не ошибкой")
	}
}

func TestRenderConfirmDeactivate(t *testing.T) {
	var buf strings.Builder
	err := RenderConfirmDeactivate(&buf, ConfirmDeactivateData{
		User:        admin(),
		TargetID:    "u-2",
		TargetLabel: "viewer@nexopeak.ru",
	})
	if err != nil {
		t.Fatalf("ошибка рендеринга: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "viewer@nexopeak.ru") {
		t.Error("страница подтверждения должна называть пользователя")
	}
	if !strings.Contains(html, `action="/admin/users/u-2/deactivate"`) {
		t.Error("форма должна отправляться на маршрут деактивации")
	}
	if !strings.Contains(html, `name="confirm" value="yes"`) {
		t.Error("форма должна нести явное подтверждение")
	}
}

func TestRenderAudit_RawEntries(t *testing.T) {
	var buf strings.Builder
	err := RenderAudit(&buf, AuditData{
		User:    admin(),
		Entries: []models.AuditEntry{models.AuditEntry(`{"action": "login", "user": "a@b.ru"}`)},
	})
	if err != nil {
		t.Fatalf("ошибка рендеринга: %v", err)
	}
	if !strings.Contains(buf.String(), "login") {
		t.Error("запись audit-лога должна попадать на страницу")
	}
}
