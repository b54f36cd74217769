package entity

import "time"

// Role names provisioned lazily on first registration.
const (
	RoleAdmin      = "Admin"
	RoleRegistered = "Registered"
)

// Role represents an authorization role.
// Many-to-many with User via user_roles.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
