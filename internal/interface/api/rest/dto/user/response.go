package user

import (
	"time"
)

type (
	User struct {
		UserID           string     `json:"user_id"`
		Username         string     `json:"username"`
		Role             string     `json:"role"`
		IsActive         bool       `json:"is_active"`
		PasswordMigrated bool       `json:"password_migrated"`
		IsDeleted        bool       `json:"is_deleted"`
		DeletedAt        *time.Time `json:"deleted_at,omitempty"`
		CreatedAt        time.Time  `json:"created_at"`
		UpdatedAt        time.Time  `json:"updated_at"`
		LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	}
	Users        []User
	ResponseData struct {
		Data Users `json:"data"`
	}
	PageResponse struct {
		Data        Users `json:"data"`
		TotalCount  int   `json:"total_count"`
		CurrentPage int   `json:"current_page"`
		PageSize    int   `json:"page_size"`
		TotalPages  int   `json:"total_pages"`
	}
	StatsResponse struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	}

	// UpdateRequest leaves absent fields untouched.
	UpdateRequest struct {
		Username *string `json:"username"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
	}
)
