package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// PasswordHash holds a bcrypt digest and never leaves the service layer.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the redacted view of a User that is safe to return to clients
// and to attach to a request as its authenticated identity.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Public copies the allowed fields into a PublicUser.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}
