package domain

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Preferences holds the workout-generation preferences a user can tune
// from the settings screen. All fields are optional on the wire.
type Preferences struct {
	WorkoutType  string `json:"workoutType,omitempty"`  // e.g., "Strength", "Cardio", "Any"
	MuscleFocus  string `json:"muscleFocus,omitempty"`  // e.g., "Chest", "Auto"
	NumExercises int    `json:"numExercises,omitempty"` // exercises per generated plan
	RepRange     string `json:"repRange,omitempty"`     // e.g., "8-12"
}

// User is the profile snapshot returned by GET /api/profile/me.
// It is always refetched from the backend after a token change; the
// client never trusts a locally mutated copy except for optimistic UI.
type User struct {
	ID              string       `json:"_id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Role            Role         `json:"role"`
	GymID           string       `json:"gymId,omitempty"`        // active gym reference
	ReminderMinutes int          `json:"remindertime,omitempty"` // inactivity reminder, 0 = disabled
	Preferences     *Preferences `json:"preferences,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
