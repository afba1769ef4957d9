package auth

import "user-account-api/internal/domain/user"

type (
	RegisterRequest struct {
		UserID          string `json:"user_id"`
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	LoginRequest struct {
		UserID   string `json:"user_id"`
		Password string `json:"password"`
	}

	Principal struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	TokenResponse struct {
		AccessToken string    `json:"access_token"`
		TokenType   string    `json:"token_type"`
		ExpiresIn   int64     `json:"expires_in"`
		Principal   Principal `json:"principal"`
	}
)

func ToResponsePrincipal(p user.Principal) Principal {
	return Principal{
		UserID:   p.UserID,
		Username: p.Username,
		Role:     p.Role.String(),
	}
}
