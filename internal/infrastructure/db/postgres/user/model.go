package user

import (
	"time"
)

type (
	User struct {
		UserID             string
		Username           string
		PasswordHash       string
		LegacyPasswordHash *string
		PasswordMigrated   bool
		Role               string
		IsActive           bool

		IsDeleted bool
		DeletedAt *time.Time

		CreatedAt   time.Time
		UpdatedAt   time.Time
		LastLoginAt *time.Time
	}
	Users []*User
)

func (u *User) scanTargets() []any {
	return []any{
		&u.UserID,
		&u.Username,
		&u.PasswordHash,
		&u.LegacyPasswordHash,
		&u.PasswordMigrated,
		&u.Role,
		&u.IsActive,

		&u.IsDeleted,
		&u.DeletedAt,

		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLoginAt,
	}
}
