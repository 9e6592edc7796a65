package identity

import "time"

// User represents one registrant. Email and phone are optional
// individually; an empty string means absent. At least one of the two
// is present on every stored record, and each is globally unique when
// present. PasswordHash is empty for OAuth-only accounts.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	State        string    `json:"state"`
	City         string    `json:"city"`
	Pincode      string    `json:"pincode"`
	RefID        string    `json:"refId"`
	Coins        int       `json:"coins"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasLocalCredentials reports whether the account can log in with a
// password. OAuth-only accounts have no hash stored.
func (u User) HasLocalCredentials() bool {
	return u.PasswordHash != ""
}
