package models

import "time"

// User — зеркало пользователя из бэкенда. Клиент только читает
// и запрашивает изменения; никаких собственных инвариантов.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"` // admin | analyst | viewer | user
	OrgID       string     `json:"org_id"`
	IsActive    bool       `json:"is_active"`
	IsVerified  bool       `json:"is_verified"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Role       *string `json:"role,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	IsVerified *bool   `json:"is_verified,omitempty"`
}

// UserFilter — параметры фильтрации списка пользователей (query-параметры бэкенда).
type UserFilter struct {
	Role     string
	Search   string
	IsActive *bool
	Skip     int
	Limit    int
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
