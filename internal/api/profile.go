package api

import (
	"context"
	"net/http"

	"gymtag/client/internal/domain"
)

// ProfileUpdate is a partial update for PUT /api/profile/me. Nil fields
// are left untouched server-side.
type ProfileUpdate struct {
	Name            *string             `json:"name,omitempty"`
	GymID           *string             `json:"gymId,omitempty"`
	ReminderMinutes *int                `json:"remindertime,omitempty"`
	Preferences     *domain.Preferences `json:"preferences,omitempty"`
}

// Me fetches the current user's profile.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/profile/me",
		out:    &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe applies a partial profile update and returns the new profile.
func (c *Client) UpdateMe(ctx context.Context, update ProfileUpdate) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/profile/me",
		body:   update,
		out:    &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
