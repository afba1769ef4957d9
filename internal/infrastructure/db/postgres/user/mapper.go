package user

import (
	domain "user-account-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		UserID:             model.UserID,
		Username:           model.Username,
		PasswordHash:       model.PasswordHash,
		LegacyPasswordHash: model.LegacyPasswordHash,
		PasswordMigrated:   model.PasswordMigrated,
		Role:               domain.Role(model.Role),
		IsActive:           model.IsActive,

		IsDeleted: model.IsDeleted,
		DeletedAt: model.DeletedAt,

		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		LastLoginAt: model.LastLoginAt,
	}

	return u
}

func fromDBModels(models Users) domain.Users {
	us := make(domain.Users, len(models))
	for idx, u := range models {
		us[idx] = fromDBModel(u)
	}

	return us
}
