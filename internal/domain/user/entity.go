package user

import (
	"time"
)

// MaxUserIDLength bounds the email-shaped identifier.
const MaxUserIDLength = 128

type (
	User struct {
		UserID             string
		Username           string
		PasswordHash       string
		LegacyPasswordHash *string
		PasswordMigrated   bool
		Role               Role
		IsActive           bool

		IsDeleted bool
		DeletedAt *time.Time

		CreatedAt   time.Time
		UpdatedAt   time.Time
		LastLoginAt *time.Time
	}
	Users []*User

	// Principal is the authenticated identity handed to the session layer.
	Principal struct {
		UserID   string
		Username string
		Role     Role
	}
)

func (u *User) Principal() Principal {
	return Principal{
		UserID:   u.UserID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// CanAuthenticate reports whether the account may log in at all.
func (u *User) CanAuthenticate() bool {
	return u != nil && u.IsActive && !u.IsDeleted
}
