package gateway

import (
	"context"
	"net/http"

	"nexboard/internal/models"
)

type campaignListResponse struct {
	Campaigns []models.Campaign `json:"campaigns"`
	Total     int               `json:"total"`
}

// Campaigns — список кампаний для селектора в шапке.
func (c *Client) Campaigns(ctx context.Context) ([]models.Campaign, error) {
	var resp campaignListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/campaigns/", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Campaigns, nil
}
