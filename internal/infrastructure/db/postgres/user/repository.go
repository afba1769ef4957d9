package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"user-account-api/internal/domain/user"
	"user-account-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db      postgres.DB
	builder sq.StatementBuilderType
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *Repository) WithinTx(ctx context.Context, fn func(user.Repository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeError(err)
	}

	if err = fn(&Repository{db: tx, builder: r.builder}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return storeError(err)
	}

	return nil
}

func (r *Repository) Create(ctx context.Context, req user.User) (*user.User, error) {
	u := new(User)

	err := r.db.QueryRow(
		ctx,
		InsertUser,
		req.UserID, req.Username, req.PasswordHash, req.LegacyPasswordHash, req.PasswordMigrated, string(req.Role),
	).Scan(u.scanTargets()...)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, fmt.Errorf("create user %s: %w", req.UserID, user.ErrConflict)
		}
		return nil, storeError(err)
	}

	return fromDBModel(u), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByID, id)
}

func (r *Repository) GetByIDIncludingDeleted(ctx context.Context, id string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByIDIncludingDeleted, id)
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	u := new(User)
	if err := r.db.QueryRow(ctx, query, args...).Scan(u.scanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, storeError(err)
	}

	return fromDBModel(u), nil
}

func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, ExistsUser, id)
}

func (r *Repository) ExistsIncludingDeleted(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, ExistsUserIncludingDeleted, id)
}

func (r *Repository) exists(ctx context.Context, query, id string) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, storeError(err)
	}

	return ok, nil
}

// Update writes profile fields only; credentials change through UpdatePassword.
func (r *Repository) Update(ctx context.Context, req user.User) (*user.User, error) {
	u := new(User)

	err := r.db.QueryRow(ctx, UpdateUserByID,
		req.Username, string(req.Role), req.IsActive, req.UserID,
	).Scan(u.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, storeError(err)
	}

	return fromDBModel(u), nil
}

func (r *Repository) UpdatePassword(ctx context.Context, id, passwordHash string, migrated bool) error {
	tag, err := r.db.Exec(ctx, UpdatePasswordByID, passwordHash, migrated, id)
	if err != nil {
		return storeError(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (r *Repository) SoftDelete(ctx context.Context, id string) (bool, error) {
	return r.execAffected(ctx, SoftDeleteUserByID, id)
}

func (r *Repository) Restore(ctx context.Context, id string) (bool, error) {
	return r.execAffected(ctx, RestoreUserByID, id)
}

func (r *Repository) HardDelete(ctx context.Context, id string) (bool, error) {
	return r.execAffected(ctx, HardDeleteUserByID, id)
}

func (r *Repository) execAffected(ctx context.Context, query, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, storeError(err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Authenticate(ctx context.Context, id, candidateHash string) (*user.User, error) {
	u, err := r.fetchOne(ctx, AuthenticateUser, id, candidateHash)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return u, nil
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, UpdateLastLoginByID, id)
	if err != nil {
		return storeError(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, CountUsers)
}

func (r *Repository) CountActive(ctx context.Context) (int, error) {
	return r.count(ctx, CountActiveUsers)
}

func (r *Repository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, storeError(err)
	}

	return n, nil
}

func (r *Repository) Search(ctx context.Context, term string) (user.Users, error) {
	qb := r.builder.
		Select(userColumns).
		From(tableUsers).
		Where(sq.Eq{"is_deleted": false}).
		OrderBy("user_id ASC")
	if term = strings.TrimSpace(term); term != "" {
		qb = qb.Where(matchTerm(term))
	}

	stmt, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search users sql: %w", err)
	}

	return r.fetchMany(ctx, stmt, args...)
}

func (r *Repository) ListFiltered(ctx context.Context, f user.ListFilter) (user.Users, int, error) {
	f = f.Normalized()

	pred := sq.And{}
	if !f.IncludeDeleted {
		pred = append(pred, sq.Eq{"is_deleted": false})
	}
	if f.SearchTerm != "" {
		pred = append(pred, matchTerm(f.SearchTerm))
	}
	if f.IsActive != nil {
		pred = append(pred, sq.Eq{"is_active": *f.IsActive})
	}
	if f.Role != nil {
		pred = append(pred, sq.Eq{"role": string(*f.Role)})
	}

	countQ := r.builder.Select("COUNT(*)").From(tableUsers)
	listQ := r.builder.Select(userColumns).From(tableUsers)
	if len(pred) > 0 {
		countQ = countQ.Where(pred)
		listQ = listQ.Where(pred)
	}

	stmt, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count users sql: %w", err)
	}
	total, err := r.count(ctx, stmt, args...)
	if err != nil {
		return nil, 0, err
	}

	listQ = listQ.
		OrderBy(orderBy(f)...).
		Limit(uint64(f.PageSize)).
		Offset(uint64(f.Offset()))
	stmt, args, err = listQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users sql: %w", err)
	}

	us, err := r.fetchMany(ctx, stmt, args...)
	if err != nil {
		return nil, 0, err
	}

	return us, total, nil
}

func (r *Repository) fetchMany(ctx context.Context, query string, args ...any) (user.Users, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	us := make(Users, 0)
	for rows.Next() {
		u := new(User)
		if err = rows.Scan(u.scanTargets()...); err != nil {
			return nil, storeError(err)
		}
		us = append(us, u)
	}
	if err = rows.Err(); err != nil {
		return nil, storeError(err)
	}

	return fromDBModels(us), nil
}

// matchTerm is a case-insensitive substring match on username or user_id.
func matchTerm(term string) sq.Sqlizer {
	pattern := "%" + escapeLike(term) + "%"
	return sq.Or{
		sq.ILike{"username": pattern},
		sq.ILike{"user_id": pattern},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// orderBy sorts by the requested column and breaks ties on user_id ascending.
func orderBy(f user.ListFilter) []string {
	col, ok := sortColumns[string(f.SortBy)]
	if !ok {
		col = "user_id"
	}
	dir := "ASC"
	if f.Order == user.SortDesc {
		dir = "DESC"
	}

	clauses := []string{col + " " + dir}
	if col != "user_id" {
		clauses = append(clauses, "user_id ASC")
	}

	return clauses
}

func storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrConflict) ||
		errors.Is(err, user.ErrStoreUnavailable) {
		return err
	}
	if postgres.IsPgUniqueViolation(err) {
		return fmt.Errorf("%w: %w", user.ErrConflict, err)
	}

	return fmt.Errorf("%w: %w", user.ErrStoreUnavailable, err)
}
