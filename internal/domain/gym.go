package domain

// Address is the optional street address of a gym.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Gym represents a gym a user can select as their active location.
type Gym struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Address *Address `json:"address,omitempty"`
}
