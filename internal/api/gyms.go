package api

import (
	"context"
	"net/http"

	"gymtag/client/internal/domain"
)

// Gyms lists all gyms available for selection.
func (c *Client) Gyms(ctx context.Context) ([]domain.Gym, error) {
	var gyms []domain.Gym
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/gyms",
		out:    &gyms,
	})
	if err != nil {
		return nil, err
	}
	return gyms, nil
}

// CreateGym registers a new gym (admin).
func (c *Client) CreateGym(ctx context.Context, gym domain.Gym) (*domain.Gym, error) {
	var created domain.Gym
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/gyms",
		body:   gym,
		out:    &created,
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}
