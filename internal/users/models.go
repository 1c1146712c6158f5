package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient    Role = "CLIENT"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// User is the login account. Its ID is shared with the client or organizer
// profile it owns.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name         string    `json:"name" gorm:"not null"`
	Organization string    `json:"organization,omitempty"`
	Password     string    `json:"-" gorm:"not null"` // hide in json
	Role         Role      `json:"role" gorm:"not null;default:'CLIENT'"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleClient, RoleOrganizer, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsSelfService reports whether a role may be chosen at registration.
func IsSelfService(role Role) bool {
	return role == RoleClient || role == RoleOrganizer
}
