package views

import (
	"html/template"
	"io"

	"nexboard/internal/models"
)

// Страницы собираются из общего каркаса (шапка, навигация) и контента.
// html/template вместо ручной конкатенации: все строки приходят из
// бэкенда и должны экранироваться.

const layoutTpl = `{{define "layout"}}<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>{{template "title" .}} — Nexboard</title>
</head>
<body style="font-family:Arial,sans-serif;background:#f7f7f7;margin:0;">
<div style="background:#2d74da;color:#fff;padding:12px 24px;">
  <span style="font-weight:bold;font-size:18px;">Nexboard</span>
  <span style="margin-left:24px;">
    <a href="/" style="color:#fff;margin-right:16px;">Дашборд</a>
    <a href="/admin/users" style="color:#fff;margin-right:16px;">Пользователи</a>
    <a href="/admin/organizations" style="color:#fff;margin-right:16px;">Организации</a>
    <a href="/admin/system" style="color:#fff;margin-right:16px;">Система</a>
    <a href="/admin/audit" style="color:#fff;">Аудит</a>
  </span>
  {{if .User}}
  <span style="float:right;">
    {{.User.Email}} ({{.User.Role}})
    <form method="post" action="/logout" style="display:inline;margin-left:12px;">
      <button type="submit" style="background:none;border:1px solid #fff;color:#fff;border-radius:4px;padding:2px 10px;cursor:pointer;">Выйти</button>
    </form>
  </span>
  {{end}}
</div>
<div style="max-width:960px;margin:24px auto;background:#fff;border-radius:10px;box-shadow:0 2px 8px #eee;padding:24px;">
{{template "content" .}}
</div>
</body>
</html>{{end}}`

const loginTpl = `<!DOCTYPE html>
<html lang="ru">
<head><meta charset="utf-8"><title>Вход — Nexboard</title></head>
<body style="font-family:Arial,sans-serif;background:#f7f7f7;">
<div style="max-width:400px;margin:80px auto;background:#fff;border-radius:10px;box-shadow:0 2px 8px #eee;padding:32px;">
  <h2 style="color:#2d74da;margin-top:0;">Вход в консоль</h2>
  {{if .Error}}<p style="color:#c0392b;">{{.Error}}</p>{{end}}
  <form method="post" action="/login">
    <p><input name="email" type="email" placeholder="Email" required style="width:100%;padding:10px;box-sizing:border-box;"></p>
    <p><input name="password" type="password" placeholder="Пароль" required style="width:100%;padding:10px;box-sizing:border-box;"></p>
    <p><button type="submit" style="width:100%;padding:12px;background:#2d74da;color:#fff;border:none;border-radius:5px;font-weight:bold;cursor:pointer;">Войти</button></p>
  </form>
</div>
</body>
</html>`

const dashboardTpl = `{{define "title"}}Дашборд{{end}}
{{define "content"}}
<h2 style="color:#2d74da;margin-top:0;">Дашборд</h2>
<form method="get" action="/">
  <label>Кампания:
    <select name="campaign" onchange="this.form.submit()">
      <option value="">— все кампании —</option>
      {{$selected := .SelectedCampaign}}
      {{range .Campaigns}}
      <option value="{{.ID}}" {{if eq .ID $selected}}selected{{end}}>{{.Name}}</option>
      {{end}}
    </select>
  </label>
</form>
{{if .Stats}}
<table cellpadding="12" cellspacing="8" style="margin-top:16px;">
  <tr>
    <td style="background:#f0f5ff;border-radius:8px;text-align:center;"><b style="font-size:24px;">{{.Stats.TotalUsers}}</b><br>пользователей</td>
    <td style="background:#f0f5ff;border-radius:8px;text-align:center;"><b style="font-size:24px;">{{.Stats.TotalOrganizations}}</b><br>организаций</td>
    <td style="background:#f0f5ff;border-radius:8px;text-align:center;"><b style="font-size:24px;">{{.Stats.TotalConnections}}</b><br>подключений</td>
    <td style="background:#f0f5ff;border-radius:8px;text-align:center;"><b style="font-size:24px;">{{.Stats.TotalCampaigns}}</b><br>кампаний</td>
    <td style="background:#f0f5ff;border-radius:8px;text-align:center;"><b style="font-size:24px;">{{.Stats.ActiveUsersToday}}</b><br>активны сегодня</td>
    <td style="background:#f0f5ff;border-radius:8px;text-align:center;"><b style="font-size:24px;">{{.Stats.NewUsersThisWeek}}</b><br>новых за неделю</td>
  </tr>
</table>
<h3>Пользователи по ролям</h3>
<table cellpadding="6" cellspacing="0" border="0">
  {{range $role, $count := .Stats.UsersByRole}}
  <tr><td>{{$role}}</td><td style="text-align:right;"><b>{{$count}}</b></td></tr>
  {{end}}
</table>
{{else}}
<p style="color:#999;">Статистика недоступна.</p>
{{end}}
{{end}}`

const usersTpl = `{{define "title"}}Пользователи{{end}}
{{define "content"}}
<h2 style="color:#2d74da;margin-top:0;">Пользователи</h2>
<form method="get" action="/admin/users" style="margin-bottom:16px;">
  <select name="role">
    <option value="">— любая роль —</option>
    {{$role := .Filter.Role}}
    {{range .Roles}}<option value="{{.}}" {{if eq . $role}}selected{{end}}>{{.}}</option>{{end}}
  </select>
  <select name="active">
    <option value="">— любой статус —</option>
    <option value="true" {{if eq .ActiveValue "true"}}selected{{end}}>активные</option>
    <option value="false" {{if eq .ActiveValue "false"}}selected{{end}}>неактивные</option>
  </select>
  <input name="search" type="text" placeholder="Имя или email" value="{{.Filter.Search}}">
  <button type="submit" style="background:#2d74da;color:#fff;border:none;border-radius:4px;padding:6px 16px;cursor:pointer;">Фильтровать</button>
</form>
{{if .Users}}
<table width="100%" cellpadding="8" cellspacing="0" style="border-collapse:collapse;">
  <tr style="background:#f0f5ff;text-align:left;">
    <th>Email</th><th>Имя</th><th>Роль</th><th>Статус</th><th></th>
  </tr>
  {{range .Users}}
  <tr style="border-bottom:1px solid #eee;">
    <td>{{.Email}}</td>
    <td>{{.Name}}</td>
    <td>
      <form method="post" action="/admin/users/{{.ID}}/role" style="display:inline;">
        {{$current := .Role}}
        <select name="role">
          {{range $.Roles}}<option value="{{.}}" {{if eq . $current}}selected{{end}}>{{.}}</option>{{end}}
        </select>
        <button type="submit">OK</button>
      </form>
    </td>
    <td>{{if .IsActive}}активен{{else}}<span style="color:#999;">неактивен</span>{{end}}</td>
    <td><a href="/admin/users/{{.ID}}/deactivate" style="color:#c0392b;">деактивировать</a></td>
  </tr>
  {{end}}
</table>
{{else}}
<p style="color:#999;">Пользователи не найдены.</p>
{{end}}
{{end}}`

const confirmTpl = `{{define "title"}}Подтверждение{{end}}
{{define "content"}}
<h2 style="color:#c0392b;margin-top:0;">Деактивация пользователя</h2>
<p>Деактивировать пользователя <b>{{.TargetLabel}}</b>? Он потеряет доступ к системе.</p>
<form method="post" action="/admin/users/{{.TargetID}}/deactivate">
  <input type="hidden" name="confirm" value="yes">
  <button type="submit" style="background:#c0392b;color:#fff;border:none;border-radius:5px;padding:10px 24px;cursor:pointer;">Да, деактивировать</button>
  <a href="/admin/users" style="margin-left:16px;">Отмена</a>
</form>
{{end}}`

const organizationsTpl = `{{define "title"}}Организации{{end}}
{{define "content"}}
<h2 style="color:#2d74da;margin-top:0;">Организации</h2>
{{if .Organizations}}
<table width="100%" cellpadding="8" cellspacing="0" style="border-collapse:collapse;">
  <tr style="background:#f0f5ff;text-align:left;">
    <th>Название</th><th>Домен</th><th>Пользователи</th><th>Подключения</th><th>Кампании</th>
  </tr>
  {{range .Organizations}}
  <tr style="border-bottom:1px solid #eee;">
    <td>{{.Name}}</td>
    <td>{{.Domain}}</td>
    <td>{{.UserCount}}</td>
    <td>{{.ConnectionCount}}</td>
    <td>{{.CampaignCount}}</td>
  </tr>
  {{end}}
</table>
{{else}}
<p style="color:#999;">Организации не найдены.</p>
{{end}}
{{end}}`

const systemTpl = `{{define "title"}}Система{{end}}
{{define "content"}}
<h2 style="color:#2d74da;margin-top:0;">Состояние системы</h2>
{{if .Message}}<p style="color:#2d74da;">{{.Message}}</p>{{end}}
{{if .Health}}
<table cellpadding="8" cellspacing="0">
  <tr><td>База данных</td><td><b>{{.Health.DatabaseStatus}}</b></td></tr>
  <tr><td>Redis</td><td><b>{{.Health.RedisStatus}}</b></td></tr>
  <tr><td>Логи</td><td><b>{{.Health.LoggingStatus}}</b></td></tr>
  {{range $name, $status := .Health.ExternalAPIsStatus}}
  <tr><td>{{$name}}</td><td><b>{{$status}}</b></td></tr>
  {{end}}
</table>
{{else}}
<p style="color:#999;">Состояние недоступно.</p>
{{end}}
<h3>Сервисные действия</h3>
<form method="post" action="/admin/system/maintenance">
  <select name="action">
    <option value="cleanup_logs">очистить старые логи</option>
    <option value="cleanup_inactive_users">деактивировать неактивных пользователей</option>
    <option value="generate_report">сформировать отчёт</option>
  </select>
  <button type="submit" style="background:#2d74da;color:#fff;border:none;border-radius:4px;padding:6px 16px;cursor:pointer;">Выполнить</button>
</form>
{{end}}`

const auditTpl = `{{define "title"}}Аудит{{end}}
{{define "content"}}
<h2 style="color:#2d74da;margin-top:0;">Audit-лог</h2>
{{if .Entries}}
{{range .Entries}}<pre style="background:#f7f7f7;border-radius:6px;padding:8px;overflow-x:auto;">{{printf "%s" .}}</pre>
{{end}}
{{else}}
<p style="color:#999;">Записей нет.</p>
{{end}}
{{end}}`

var (
	loginPage         = template.Must(template.New("login").Parse(loginTpl))
	dashboardPage     = newPage(dashboardTpl)
	usersPage         = newPage(usersTpl)
	confirmPage       = newPage(confirmTpl)
	organizationsPage = newPage(organizationsTpl)
	systemPage        = newPage(systemTpl)
	auditPage         = newPage(auditTpl)
)

func newPage(content string) *template.Template {
	t := template.Must(template.New("page").Parse(layoutTpl))
	return template.Must(t.Parse(content))
}

type LoginData struct {
	Error string
}

type DashboardData struct {
	User             *models.User
	Stats            *models.AdminStats
	Campaigns        []models.Campaign
	SelectedCampaign string
}

type UsersData struct {
	User        *models.User
	Users       []models.User
	Filter      models.UserFilter
	ActiveValue string // "", "true", "false" — для формы фильтра
	Roles       []string
}

type ConfirmDeactivateData struct {
	User        *models.User
	TargetID    string
	TargetLabel string
}

type OrganizationsData struct {
	User          *models.User
	Organizations []models.OrganizationStats
}

type SystemData struct {
	User    *models.User
	Health  *models.SystemHealth
	Message string
}

type AuditData struct {
	User    *models.User
	Entries []models.AuditEntry
}

func RenderLogin(w io.Writer, data LoginData) error {
	return loginPage.Execute(w, data)
}

func RenderDashboard(w io.Writer, data DashboardData) error {
	return dashboardPage.ExecuteTemplate(w, "layout", data)
}

func RenderUsers(w io.Writer, data UsersData) error {
	return usersPage.ExecuteTemplate(w, "layout", data)
}

func RenderConfirmDeactivate(w io.Writer, data ConfirmDeactivateData) error {
	return confirmPage.ExecuteTemplate(w, "layout", data)
}

func RenderOrganizations(w io.Writer, data OrganizationsData) error {
	return organizationsPage.ExecuteTemplate(w, "layout", data)
}

func RenderSystem(w io.Writer, data SystemData) error {
	return systemPage.ExecuteTemplate(w, "layout", data)
}

func RenderAudit(w io.Writer, data AuditData) error {
	return auditPage.ExecuteTemplate(w, "layout", data)
}
