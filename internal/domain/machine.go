package domain

// Machine represents a piece of gym equipment registered against a
// physical NFC tag or QR code. Returned by GET /api/machines/byTag/:id.
type Machine struct {
	ID               string `json:"_id"`
	TagID            string `json:"tagId"`
	ExerciseName     string `json:"exerciseName"`
	ExerciseType     string `json:"exerciseType"` // e.g., "Strength", "Cardio"
	TrainedMuscle    string `json:"trainedMuscle"`
	InstructionsLink string `json:"instructionsLink,omitempty"`
	GymID            string `json:"gymId,omitempty"`
}

// MachineRegistration is the payload for POST /api/machines/register.
// AllowRewrite lets an admin re-link a tag that is already registered.
type MachineRegistration struct {
	TagID            string `json:"tagId"`
	ExerciseName     string `json:"exerciseName"`
	ExerciseType     string `json:"exerciseType"`
	TrainedMuscle    string `json:"trainedMuscle"`
	InstructionsLink string `json:"instructionsLink,omitempty"`
	GymID            string `json:"gymId"`
	AllowRewrite     bool   `json:"allowRewrite"`
}
