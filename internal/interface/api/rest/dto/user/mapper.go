package user

import (
	"user-account-api/internal/domain/user"
)

// ToResponseUser never exposes password material.
func ToResponseUser(uDomain user.User) User {
	var u = User{
		UserID:           uDomain.UserID,
		Username:         uDomain.Username,
		Role:             uDomain.Role.String(),
		IsActive:         uDomain.IsActive,
		PasswordMigrated: uDomain.PasswordMigrated,
		IsDeleted:        uDomain.IsDeleted,
		DeletedAt:        uDomain.DeletedAt,
		CreatedAt:        uDomain.CreatedAt,
		UpdatedAt:        uDomain.UpdatedAt,
		LastLoginAt:      uDomain.LastLoginAt,
	}

	return u
}

func ToResponseUsers(usDomain user.Users) Users {
	us := make(Users, len(usDomain))
	for idx, u := range usDomain {
		us[idx] = ToResponseUser(*u)
	}

	return us
}

func ToResponsePage(p *user.Page) PageResponse {
	return PageResponse{
		Data:        ToResponseUsers(p.Items),
		TotalCount:  p.TotalCount,
		CurrentPage: p.CurrentPage,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages(),
	}
}

func ToResponseStats(s user.Stats) StatsResponse {
	return StatsResponse{Total: s.Total, Active: s.Active}
}
