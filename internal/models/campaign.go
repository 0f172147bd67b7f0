package models

// Campaign — используется только для селектора кампаний в шапке дашборда.
type Campaign struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status,omitempty"`
	Platform string `json:"platform,omitempty"`
}
