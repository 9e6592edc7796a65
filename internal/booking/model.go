package booking

import "time"

// PreBooking represents a vehicle pre-booking placed by a user.
type PreBooking struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	Battery      string    `json:"battery"`
	CreatedAt    time.Time `json:"createdAt"`
}

// WithUser is a pre-booking joined with the owning user, for reporting.
type WithUser struct {
	PreBooking
	UserFirstName string `json:"userFirstName"`
	UserLastName  string `json:"userLastName"`
	UserEmail     string `json:"userEmail"`
}
