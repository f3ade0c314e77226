package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"campusnews/internal/models"
)

type CommentRepo interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	// ListByArticle — в порядке добавления.
	ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error)
	// RecentOnAuthorArticles — последние комментарии (любых авторов) к статьям автора.
	// Для обоих Recent* limit <= 0 — все.
	RecentOnAuthorArticles(ctx context.Context, authorID int64, limit int) ([]*models.Comment, error)
	RecentByAuthor(ctx context.Context, authorID int64, limit int) ([]*models.Comment, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	CountAll(ctx context.Context) (int64, error)
}

type commentRepo struct{ db DB }

func NewCommentRepo(db DB) CommentRepo { return &commentRepo{db: db} }

const commentSelect = `
	SELECT cm.id, cm.article_id, a.slug, a.title, cm.author_id, u.username, cm.content, cm.created_at, cm.is_approved
	FROM comments cm
	JOIN articles a ON a.id = cm.article_id
	JOIN users u ON u.id = cm.author_id
`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(
		&c.ID, &c.ArticleID, &c.ArticleSlug, &c.ArticleTitle,
		&c.AuthorID, &c.AuthorUsername, &c.Content, &c.CreatedAt, &c.IsApproved,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) query(ctx context.Context, sql string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	list := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *commentRepo) Create(ctx context.Context, c *models.Comment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO comments (article_id, author_id, content, is_approved) VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at`,
		c.ArticleID, c.AuthorID, c.Content, c.IsApproved,
	).Scan(&c.ID, &c.CreatedAt)
	return mapErr(err)
}

func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx, commentSelect+` WHERE cm.id=$1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (r *commentRepo) exec(ctx context.Context, sql string, args ...interface{}) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	return r.exec(ctx, `UPDATE comments SET content=$2 WHERE id=$1`, id, content)
}

func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
}

func (r *commentRepo) SetApproved(ctx context.Context, id int64, approved bool) error {
	return r.exec(ctx, `UPDATE comments SET is_approved=$2 WHERE id=$1`, id, approved)
}

func (r *commentRepo) ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	return r.query(ctx, commentSelect+` WHERE cm.article_id=$1 ORDER BY cm.id ASC`, articleID)
}

func (r *commentRepo) RecentOnAuthorArticles(ctx context.Context, authorID int64, limit int) ([]*models.Comment, error) {
	return r.recent(ctx, `a.author_id=$1`, authorID, limit)
}

func (r *commentRepo) RecentByAuthor(ctx context.Context, authorID int64, limit int) ([]*models.Comment, error) {
	return r.recent(ctx, `cm.author_id=$1`, authorID, limit)
}

// recent — новые сначала; limit <= 0 — без LIMIT (в PostgreSQL LIMIT 0 — пустая выборка).
func (r *commentRepo) recent(ctx context.Context, cond string, authorID int64, limit int) ([]*models.Comment, error) {
	sql := commentSelect + ` WHERE ` + cond + ` ORDER BY cm.created_at DESC, cm.id DESC`
	args := []interface{}{authorID}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}
	return r.query(ctx, sql, args...)
}

func (r *commentRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments`).Scan(&n)
	return n, mapErr(err)
}
