package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"campusnews/internal/models"
)

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, f models.UserFilter, limit, offset int) ([]*models.User, error)
	Count(ctx context.Context, f models.UserFilter) (int64, error)
	Counters(ctx context.Context) (models.UserCounters, error)
	ToggleStaff(ctx context.Context, id int64) (*models.User, error)
	ToggleActive(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) error
	// Delete каскадно удаляет статьи, комментарии и лайки пользователя.
	Delete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int64, error)
	ContentStats(ctx context.Context, id int64) (models.ContentStats, error)

	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeRevokedTokens(ctx context.Context, now time.Time) (int64, error)
}

type userRepo struct{ db DB }

func NewUserRepo(db DB) UserRepo { return &userRepo{db: db} }

const userColumns = `id, username, email, first_name, last_name, password_hash, is_staff, is_superuser, is_active, date_joined`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.IsStaff, &u.IsSuperuser, &u.IsActive, &u.DateJoined,
	); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	const q = `
		INSERT INTO users (username, email, first_name, last_name, password_hash, is_staff, is_superuser, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, date_joined
	`
	err := r.db.QueryRow(ctx, q,
		u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash,
		u.IsStaff, u.IsSuperuser, u.IsActive,
	).Scan(&u.ID, &u.DateJoined)
	return mapErr(err)
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username))
}

func (r *userRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`, username).Scan(&taken)
	return taken, mapErr(err)
}

func userWhere(f models.UserFilter) (string, []interface{}) {
	where := []string{}
	args := []interface{}{}

	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(username ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n, n))
	}
	if f.Staff != nil {
		if *f.Staff {
			where = append(where, "is_staff")
		} else {
			where = append(where, "NOT is_staff AND NOT is_superuser")
		}
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func (r *userRepo) List(ctx context.Context, f models.UserFilter, limit, offset int) ([]*models.User, error) {
	where, args := userWhere(f)
	sql := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY date_joined DESC, id DESC`
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepo) Count(ctx context.Context, f models.UserFilter) (int64, error) {
	where, args := userWhere(f)
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&n)
	return n, mapErr(err)
}

func (r *userRepo) Counters(ctx context.Context) (models.UserCounters, error) {
	var c models.UserCounters
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_staff),
		       COUNT(*) FILTER (WHERE is_active)
		FROM users
	`).Scan(&c.Total, &c.Staff, &c.Active)
	return c, mapErr(err)
}

func (r *userRepo) ToggleStaff(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET is_staff = NOT is_staff WHERE id=$1 RETURNING `+userColumns, id))
}

func (r *userRepo) ToggleActive(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET is_active = NOT is_active WHERE id=$1 RETURNING `+userColumns, id))
}

func (r *userRepo) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET first_name=$2, last_name=$3, email=$4 WHERE id=$1`,
		id, firstName, lastName, email,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, mapErr(err)
}

// ContentStats: статьи и комментарии самого пользователя, лайки — полученные его статьями.
func (r *userRepo) ContentStats(ctx context.Context, id int64) (models.ContentStats, error) {
	var s models.ContentStats
	err := r.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM articles WHERE author_id=$1),
		       (SELECT COUNT(*) FROM comments WHERE author_id=$1),
		       (SELECT COUNT(*) FROM article_likes l JOIN articles a ON a.id = l.article_id WHERE a.author_id=$1)
	`, id).Scan(&s.Articles, &s.Comments, &s.Likes)
	return s, mapErr(err)
}

func (r *userRepo) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO revoked_tokens (token_id, expires_at) VALUES ($1,$2) ON CONFLICT (token_id) DO NOTHING`,
		tokenID, expiresAt,
	)
	return mapErr(err)
}

func (r *userRepo) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_id=$1)`, tokenID).Scan(&revoked)
	return revoked, mapErr(err)
}

func (r *userRepo) PurgeRevokedTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}
