package services

import (
	"context"
	"errors"
	"sync"

	"nexboard/internal/logger"
	"nexboard/internal/models"

	"go.uber.org/zap"
)

var (
	ErrNotConfirmed     = errors.New("действие не подтверждено")
	ErrSelfDeactivation = errors.New("нельзя деактивировать собственную учётную запись")
	ErrUnknownAction    = errors.New("неизвестное сервисное действие")
	ErrInvalidRole      = errors.New("недопустимая роль")
)

type AdminGateway interface {
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	Users(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	UpdateUser(ctx context.Context, userID string, input *models.UpdateUserRequest) error
	DeactivateUser(ctx context.Context, userID string) error
	Organizations(ctx context.Context) ([]models.OrganizationStats, error)
	SystemHealth(ctx context.Context) (*models.SystemHealth, error)
	Maintenance(ctx context.Context, action string) (*models.MaintenanceResult, error)
	AuditLog(ctx context.Context, filter models.AuditFilter) (*models.AuditLog, error)
	Campaigns(ctx context.Context) ([]models.Campaign, error)
}

var validRoles = map[string]struct{}{
	"admin":   {},
	"analyst": {},
	"viewer":  {},
	"user":    {},
}

// DashboardService держит независимые срезы состояния (stats, users,
// organizations, health, campaigns, audit). Каждый срез перезапрашивается
// отдельно; ответ целиком заменяет прежнее значение.
//
// Поколения (gen) защищают срез от гонки «быстрая смена фильтра»:
// ответ применяется только если срез не был перезапрошен позже.
type DashboardService struct {
	gw AdminGateway

	mu sync.Mutex

	statsGen uint64
	stats    *models.AdminStats

	usersGen   uint64
	users      []models.User
	userFilter models.UserFilter

	orgsGen uint64
	orgs    []models.OrganizationStats

	healthGen uint64
	health    *models.SystemHealth

	campaignsGen uint64
	campaigns    []models.Campaign

	auditGen    uint64
	audit       []models.AuditEntry
	auditFilter models.AuditFilter
}

func NewDashboardService(gw AdminGateway) *DashboardService {
	return &DashboardService{gw: gw}
}

// RefreshAll — первичная загрузка: независимые срезы тянутся параллельно,
// каждый пишет только в свой срез, порядок завершения не важен.
func (s *DashboardService) RefreshAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, refresh := range []func(context.Context){
		func(ctx context.Context) { s.RefreshStats(ctx) },
		func(ctx context.Context) { s.RefreshUsers(ctx) },
		func(ctx context.Context) { s.RefreshOrganizations(ctx) },
		func(ctx context.Context) { s.RefreshHealth(ctx) },
		func(ctx context.Context) { s.RefreshCampaigns(ctx) },
	} {
		wg.Add(1)
		go func(f func(context.Context)) {
			defer wg.Done()
			f(ctx)
		}(refresh)
	}
	wg.Wait()
}

// ---- stats ----

func (s *DashboardService) RefreshStats(ctx context.Context) *models.AdminStats {
	s.mu.Lock()
	s.statsGen++
	gen := s.statsGen
	s.mu.Unlock()

	stats, err := s.gw.AdminStats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.statsGen {
		return s.stats // устаревший ответ, срез уже перезапрошен
	}
	if err != nil {
		logger.WithCtx(ctx).Warn("Не удалось получить статистику, срез сброшен", zap.Error(err))
		s.stats = nil
		return nil
	}
	s.stats = stats
	return stats
}

func (s *DashboardService) Stats() *models.AdminStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ---- users ----

// SetUserFilter меняет фильтр и перезапрашивает только срез пользователей.
func (s *DashboardService) SetUserFilter(ctx context.Context, filter models.UserFilter) []models.User {
	s.mu.Lock()
	s.userFilter = filter
	s.mu.Unlock()
	return s.RefreshUsers(ctx)
}

func (s *DashboardService) RefreshUsers(ctx context.Context) []models.User {
	s.mu.Lock()
	s.usersGen++
	gen := s.usersGen
	filter := s.userFilter
	s.mu.Unlock()

	users, err := s.gw.Users(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.usersGen {
		return s.users
	}
	if err != nil {
		logger.WithCtx(ctx).Warn("Не удалось получить пользователей, таблица будет пустой", zap.Error(err))
		s.users = []models.User{}
		return s.users
	}
	if users == nil {
		users = []models.User{}
	}
	s.users = users
	return users
}

func (s *DashboardService) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users
}

func (s *DashboardService) UserFilter() models.UserFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userFilter
}

// ChangeUserRole — мутация по схеме «запрос, затем перезапрос зависимого среза».
func (s *DashboardService) ChangeUserRole(ctx context.Context, userID, role string) error {
	if _, ok := validRoles[role]; !ok {
		return ErrInvalidRole
	}

	logger.WithCtx(ctx).Info("Смена роли пользователя", zap.String("user_id", userID), zap.String("role", role))
	if err := s.gw.UpdateUser(ctx, userID, &models.UpdateUserRequest{Role: &role}); err != nil {
		logger.WithCtx(ctx).Error("Ошибка смены роли", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.RefreshUsers(ctx)
	return nil
}

// DeactivateUser требует явного подтверждения: без confirmed запрос
// к бэкенду не отправляется вовсе.
func (s *DashboardService) DeactivateUser(ctx context.Context, userID, actorID string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if userID == actorID {
		return ErrSelfDeactivation
	}

	logger.WithCtx(ctx).Info("Деактивация пользователя", zap.String("user_id", userID))
	if err := s.gw.DeactivateUser(ctx, userID); err != nil {
		logger.WithCtx(ctx).Error("Ошибка деактивации", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.RefreshUsers(ctx)
	return nil
}

// ---- organizations ----

func (s *DashboardService) RefreshOrganizations(ctx context.Context) []models.OrganizationStats {
	s.mu.Lock()
	s.orgsGen++
	gen := s.orgsGen
	s.mu.Unlock()

	orgs, err := s.gw.Organizations(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.orgsGen {
		return s.orgs
	}
	if err != nil {
		logger.WithCtx(ctx).Warn("Не удалось получить организации, срез сброшен", zap.Error(err))
		s.orgs = []models.OrganizationStats{}
		return s.orgs
	}
	if orgs == nil {
		orgs = []models.OrganizationStats{}
	}
	s.orgs = orgs
	return orgs
}

func (s *DashboardService) Organizations() []models.OrganizationStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orgs
}

// ---- system health / maintenance ----

func (s *DashboardService) RefreshHealth(ctx context.Context) *models.SystemHealth {
	s.mu.Lock()
	s.healthGen++
	gen := s.healthGen
	s.mu.Unlock()

	health, err := s.gw.SystemHealth(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.healthGen {
		return s.health
	}
	if err != nil {
		logger.WithCtx(ctx).Warn("Не удалось получить system health, срез сброшен", zap.Error(err))
		s.health = nil
		return nil
	}
	s.health = health
	return health
}

func (s *DashboardService) Health() *models.SystemHealth {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.health
}

// RunMaintenance запускает сервисное действие; неизвестное действие
// отклоняется локально. Успех инвалидирует срез health.
func (s *DashboardService) RunMaintenance(ctx context.Context, action string) (*models.MaintenanceResult, error) {
	if !models.IsValidMaintenanceAction(action) {
		return nil, ErrUnknownAction
	}

	logger.WithCtx(ctx).Info("Сервисное действие", zap.String("action", action))
	result, err := s.gw.Maintenance(ctx, action)
	if err != nil {
		logger.WithCtx(ctx).Error("Сервисное действие не выполнено", zap.String("action", action), zap.Error(err))
		return nil, err
	}

	s.RefreshHealth(ctx)
	return result, nil
}

// ---- campaigns ----

func (s *DashboardService) RefreshCampaigns(ctx context.Context) []models.Campaign {
	s.mu.Lock()
	s.campaignsGen++
	gen := s.campaignsGen
	s.mu.Unlock()

	campaigns, err := s.gw.Campaigns(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.campaignsGen {
		return s.campaigns
	}
	if err != nil {
		logger.WithCtx(ctx).Warn("Не удалось получить кампании, селектор будет пустым", zap.Error(err))
		s.campaigns = []models.Campaign{}
		return s.campaigns
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	s.campaigns = campaigns
	return campaigns
}

func (s *DashboardService) Campaigns() []models.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.campaigns
}

// ---- audit ----

func (s *DashboardService) SetAuditFilter(ctx context.Context, filter models.AuditFilter) []models.AuditEntry {
	s.mu.Lock()
	s.auditFilter = filter
	s.mu.Unlock()
	return s.RefreshAudit(ctx)
}

func (s *DashboardService) RefreshAudit(ctx context.Context) []models.AuditEntry {
	s.mu.Lock()
	s.auditGen++
	gen := s.auditGen
	filter := s.auditFilter
	s.mu.Unlock()

	log, err := s.gw.AuditLog(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.auditGen {
		return s.audit
	}
	if err != nil {
		logger.WithCtx(ctx).Warn("Не удалось получить audit-лог, срез сброшен", zap.Error(err))
		s.audit = []models.AuditEntry{}
		return s.audit
	}
	s.audit = log.Entries
	if s.audit == nil {
		s.audit = []models.AuditEntry{}
	}
	return s.audit
}

func (s *DashboardService) Audit() []models.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audit
}
