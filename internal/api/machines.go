package api

import (
	"context"
	"net/http"
	"net/url"

	"gymtag/client/internal/domain"
)

// MachineByTag resolves a scanned tag or QR identifier to a registered
// machine. ErrNotFound means no machine is linked to the identifier,
// which callers must treat as a normal negative outcome.
func (c *Client) MachineByTag(ctx context.Context, tagID string) (*domain.Machine, error) {
	var machine domain.Machine
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/machines/byTag/" + url.PathEscape(tagID),
		out:    &machine,
	})
	if err != nil {
		return nil, err
	}
	return &machine, nil
}

// Machines lists the machines registered at a gym.
func (c *Client) Machines(ctx context.Context, gymID string) ([]domain.Machine, error) {
	var machines []domain.Machine
	query := url.Values{}
	if gymID != "" {
		query.Set("gymId", gymID)
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/machines",
		query:  query,
		out:    &machines,
	})
	if err != nil {
		return nil, err
	}
	return machines, nil
}

// RegisterMachine links a physical tag to a machine definition (admin).
func (c *Client) RegisterMachine(ctx context.Context, reg domain.MachineRegistration) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/machines/register",
		body:   reg,
	})
}
