package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"nexboard/internal/models"
)

func (c *Client) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Users(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	query := url.Values{}
	if filter.Role != "" {
		query.Set("role", filter.Role)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.IsActive != nil {
		query.Set("is_active", strconv.FormatBool(*filter.IsActive))
	}
	if filter.Skip > 0 {
		query.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/users", query, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID string, input *models.UpdateUserRequest) error {
	return c.do(ctx, http.MethodPut, "/api/v1/admin/users/"+url.PathEscape(userID), nil, input, nil)
}

// DeactivateUser — DELETE на бэкенде выполняет мягкое удаление (деактивацию).
func (c *Client) DeactivateUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/users/"+url.PathEscape(userID), nil, nil, nil)
}

func (c *Client) Organizations(ctx context.Context) ([]models.OrganizationStats, error) {
	var orgs []models.OrganizationStats
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/organizations", nil, nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (c *Client) SystemHealth(ctx context.Context) (*models.SystemHealth, error) {
	var health models.SystemHealth
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/system/health", nil, nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Maintenance запускает сервисное действие. Действие передаётся query-параметром —
// так устроен эндпоинт бэкенда.
func (c *Client) Maintenance(ctx context.Context, action string) (*models.MaintenanceResult, error) {
	query := url.Values{}
	query.Set("action", action)

	var result models.MaintenanceResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/system/maintenance", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) AuditLog(ctx context.Context, filter models.AuditFilter) (*models.AuditLog, error) {
	query := url.Values{}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.UserID != "" {
		query.Set("user_id", filter.UserID)
	}
	if filter.ActionType != "" {
		query.Set("action_type", filter.ActionType)
	}

	var log models.AuditLog
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/audit-log", query, nil, &log); err != nil {
		return nil, err
	}
	return &log, nil
}
