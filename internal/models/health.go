package models

// SystemHealth — состояние подсистем бэкенда. Перезапрашивается по требованию.
type SystemHealth struct {
	DatabaseStatus     string            `json:"database_status"`
	RedisStatus        string            `json:"redis_status"`
	LoggingStatus      string            `json:"logging_status"`
	ExternalAPIsStatus map[string]string `json:"external_apis_status"`
	DiskUsage          map[string]any    `json:"disk_usage"`
	MemoryUsage        map[string]any    `json:"memory_usage"`
}

// MaintenanceResult — ответ бэкенда на сервисное действие.
type MaintenanceResult struct {
	Action  string         `json:"action"`
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// Допустимые сервисные действия (enum бэкенда).
const (
	MaintenanceCleanupLogs          = "cleanup_logs"
	MaintenanceCleanupInactiveUsers = "cleanup_inactive_users"
	MaintenanceGenerateReport       = "generate_report"
)

func IsValidMaintenanceAction(action string) bool {
	switch action {
	case MaintenanceCleanupLogs, MaintenanceCleanupInactiveUsers, MaintenanceGenerateReport:
		return true
	}
	return false
}
