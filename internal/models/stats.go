package models

// AdminStats — агрегированная статистика для дашборда. Эфемерный снимок.
type AdminStats struct {
	TotalUsers         int `json:"total_users"`
	TotalOrganizations int `json:"total_organizations"`
	TotalConnections   int `json:"total_connections"`
	TotalCampaigns     int `json:"total_campaigns"`
	ActiveUsersToday   int `json:"active_users_today"`
	NewUsersThisWeek   int `json:"new_users_this_week"`

	UsersByRole           map[string]int `json:"users_by_role"`
	OrganizationsByStatus map[string]int `json:"organizations_by_status"`

	SystemHealth map[string]any `json:"system_health"`
}
