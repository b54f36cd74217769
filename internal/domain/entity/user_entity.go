package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// PasswordHash holds the bcrypt verifier and must never leave
// the persistence boundary.
type User struct {
	ID              string
	Username        string
	Email           string
	NormalizedEmail string
	Name            string
	PasswordHash    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PublicUser is the projection of User that is safe to return to
// callers. It carries no credential material.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Public returns the caller-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Name: u.Name}
}
