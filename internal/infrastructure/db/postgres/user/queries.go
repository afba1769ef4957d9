package user

const (
	tableUsers = "users"

	userColumns = `user_id, username, password_hash, legacy_password_hash, password_migrated, role, is_active, is_deleted, deleted_at, created_at, updated_at, last_login_at`

	// user_id matches case-insensitively; users_user_id_lower_key keeps it unique.
	SelectUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(user_id) = lower($1) AND is_deleted = FALSE
	`
	SelectUserByIDIncludingDeleted = `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(user_id) = lower($1)
	`
	ExistsUser                 = `SELECT EXISTS(SELECT 1 FROM users WHERE lower(user_id) = lower($1) AND is_deleted = FALSE)`
	ExistsUserIncludingDeleted = `SELECT EXISTS(SELECT 1 FROM users WHERE lower(user_id) = lower($1))`
	InsertUser                 = `
		INSERT INTO users (user_id, username, password_hash, legacy_password_hash, password_migrated, role, is_active, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, FALSE, now(), now())
		RETURNING ` + userColumns
	UpdateUserByID = `
		UPDATE users
		SET username = $1,
		    role = $2,
		    is_active = $3,
		    updated_at = now()
		WHERE lower(user_id) = lower($4) AND is_deleted = FALSE
		RETURNING ` + userColumns
	UpdatePasswordByID = `
		UPDATE users
		SET password_hash = $1,
		    password_migrated = $2,
		    legacy_password_hash = CASE WHEN $2 THEN NULL ELSE legacy_password_hash END,
		    updated_at = now()
		WHERE lower(user_id) = lower($3) AND is_deleted = FALSE
	`
	SoftDeleteUserByID = `
		UPDATE users
		SET is_deleted = TRUE, deleted_at = now(), updated_at = now()
		WHERE lower(user_id) = lower($1) AND is_deleted = FALSE
	`
	RestoreUserByID = `
		UPDATE users
		SET is_deleted = FALSE, deleted_at = NULL, updated_at = now()
		WHERE lower(user_id) = lower($1) AND is_deleted = TRUE
	`
	HardDeleteUserByID = `DELETE FROM users WHERE lower(user_id) = lower($1)`
	AuthenticateUser   = `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(user_id) = lower($1) AND password_hash = $2 AND is_active = TRUE AND is_deleted = FALSE
	`
	UpdateLastLoginByID = `
		UPDATE users
		SET last_login_at = now(), updated_at = now()
		WHERE lower(user_id) = lower($1) AND is_deleted = FALSE
	`
	CountUsers       = `SELECT COUNT(*) FROM users WHERE is_deleted = FALSE`
	CountActiveUsers = `SELECT COUNT(*) FROM users WHERE is_deleted = FALSE AND is_active = TRUE`
)

// sortColumns whitelists ORDER BY targets.
var sortColumns = map[string]string{
	"user_id":       "user_id",
	"username":      "lower(username)",
	"role":          "role",
	"is_active":     "is_active",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"last_login_at": "last_login_at",
}
