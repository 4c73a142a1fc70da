package api

import (
	"context"
	"net/http"

	"gymtag/client/internal/domain"
)

// StatisticsSummary fetches the headline totals for the stats screen.
func (c *Client) StatisticsSummary(ctx context.Context) (*domain.StatisticsSummary, error) {
	var summary domain.StatisticsSummary
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/statistics/summary",
		out:    &summary,
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// StatisticsDetailed fetches the per-muscle and per-month breakdowns.
func (c *Client) StatisticsDetailed(ctx context.Context) (*domain.StatisticsDetailed, error) {
	var detailed domain.StatisticsDetailed
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/statistics/detailed",
		out:    &detailed,
	})
	if err != nil {
		return nil, err
	}
	return &detailed, nil
}
