package models

import "encoding/json"

// SessionState — контракт Session Gate: {user, isAuthenticated, isLoading}.
type SessionState struct {
	User            *User `json:"user,omitempty"`
	IsAuthenticated bool  `json:"is_authenticated"`
	IsLoading       bool  `json:"is_loading"`
}

// TokenResponse — ответ бэкенда на логин.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// AuditEntry — запись audit-лога, структура свободная (строки security.log).
type AuditEntry = json.RawMessage

type AuditLog struct {
	Entries    []AuditEntry `json:"audit_entries"`
	TotalCount int          `json:"total_count"`
}

type AuditFilter struct {
	Limit      int
	UserID     string
	ActionType string
}
