package models

import "time"

// OrganizationStats — сводка по организации. Только чтение.
type OrganizationStats struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Domain          string     `json:"domain"`
	UserCount       int        `json:"user_count"`
	ConnectionCount int        `json:"connection_count"`
	CampaignCount   int        `json:"campaign_count"`
	CreatedAt       time.Time  `json:"created_at"`
	LastActivity    *time.Time `json:"last_activity,omitempty"`
}
