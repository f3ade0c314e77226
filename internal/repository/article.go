package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"campusnews/internal/models"
)

type ArticleRepo interface {
	Create(ctx context.Context, a *models.Article) error
	Update(ctx context.Context, a *models.Article) error
	Delete(ctx context.Context, id int64) error
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetBySlugAndAuthor(ctx context.Context, slug string, authorID int64) (*models.Article, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	// List с limit <= 0 возвращает всю выборку.
	List(ctx context.Context, f models.ArticleFilter, limit, offset int) ([]*models.Article, error)
	Count(ctx context.Context, f models.ArticleFilter) (int64, error)
	// Adjacent — ближайшая опубликованная статья до (before) или после момента t; nil, если нет.
	Adjacent(ctx context.Context, t time.Time, before bool) (*models.Article, error)
	IncrementViews(ctx context.Context, id int64) (int64, error)
	ToggleLike(ctx context.Context, articleID, userID int64) (liked bool, err error)
	IsLikedBy(ctx context.Context, articleID, userID int64) (bool, error)
	PublishedTotals(ctx context.Context) (models.SiteTotals, error)
	AuthorTotals(ctx context.Context, authorID int64) (models.AuthorTotals, error)
	CountAll(ctx context.Context) (int64, error)
}

type articleRepo struct{ db DB }

func NewArticleRepo(db DB) ArticleRepo { return &articleRepo{db: db} }

const articleSelect = `
	SELECT a.id, a.title, a.slug, a.content, a.excerpt, a.featured_image, a.status, a.views,
	       a.category_id, c.name, a.author_id, u.username,
	       (SELECT COUNT(*) FROM article_likes l WHERE l.article_id = a.id),
	       a.created_at, a.updated_at, a.published_at
	FROM articles a
	JOIN categories c ON c.id = a.category_id
	JOIN users u ON u.id = a.author_id
`

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	var status string
	if err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.FeaturedImage, &status, &a.Views,
		&a.CategoryID, &a.CategoryName, &a.AuthorID, &a.AuthorUsername,
		&a.LikesCount,
		&a.CreatedAt, &a.UpdatedAt, &a.PublishedAt,
	); err != nil {
		return nil, err
	}
	a.Status = models.ArticleStatus(status)
	return &a, nil
}

func collectArticles(rows pgx.Rows) ([]*models.Article, error) {
	defer rows.Close()
	list := []*models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *articleRepo) Create(ctx context.Context, a *models.Article) error {
	const q = `
		INSERT INTO articles (title, slug, content, excerpt, featured_image, status, category_id, author_id, published_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, q,
		a.Title, a.Slug, a.Content, a.Excerpt, a.FeaturedImage, string(a.Status),
		a.CategoryID, a.AuthorID, a.PublishedAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapErr(err)
}

func (r *articleRepo) Update(ctx context.Context, a *models.Article) error {
	const q = `
		UPDATE articles
		SET title=$2, slug=$3, content=$4, excerpt=$5, featured_image=$6, status=$7,
		    category_id=$8, published_at=$9, updated_at=NOW()
		WHERE id=$1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, q,
		a.ID, a.Title, a.Slug, a.Content, a.Excerpt, a.FeaturedImage, string(a.Status),
		a.CategoryID, a.PublishedAt,
	).Scan(&a.UpdatedAt)
	return mapErr(err)
}

func (r *articleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *articleRepo) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	a, err := scanArticle(r.db.QueryRow(ctx, articleSelect+` WHERE a.slug=$1 AND a.status='published'`, slug))
	return a, mapErr(err)
}

func (r *articleRepo) GetBySlugAndAuthor(ctx context.Context, slug string, authorID int64) (*models.Article, error) {
	a, err := scanArticle(r.db.QueryRow(ctx, articleSelect+` WHERE a.slug=$1 AND a.author_id=$2`, slug, authorID))
	return a, mapErr(err)
}

func (r *articleRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM articles WHERE slug=$1 AND id<>$2)`, slug, excludeID,
	).Scan(&exists)
	return exists, mapErr(err)
}

// articleWhere собирает WHERE по фильтру; плейсхолдеры нумеруются с 1.
func articleWhere(f models.ArticleFilter) (string, []interface{}) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, fmt.Sprintf("(a.title ILIKE $%d OR a.content ILIKE $%d OR a.excerpt ILIKE $%d)", i, i, i))
		args = append(args, "%"+escapeLike(q)+"%")
		i++
	}
	if f.CategoryID != nil {
		where = append(where, fmt.Sprintf("a.category_id = $%d", i))
		args = append(args, *f.CategoryID)
		i++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("a.status = $%d", i))
		args = append(args, string(*f.Status))
		i++
	}
	if f.AuthorID != nil {
		where = append(where, fmt.Sprintf("a.author_id = $%d", i))
		args = append(args, *f.AuthorID)
		i++
	}
	if f.ExcludeID != 0 {
		where = append(where, fmt.Sprintf("a.id <> $%d", i))
		args = append(args, f.ExcludeID)
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func articleOrder(o models.ArticleOrder) string {
	switch o {
	case models.OrderPublishedDesc:
		return " ORDER BY a.published_at DESC NULLS LAST, a.id DESC"
	case models.OrderViewsDesc:
		return " ORDER BY a.views DESC, a.id DESC"
	default:
		return " ORDER BY a.created_at DESC, a.id DESC"
	}
}

// escapeLike экранирует метасимволы LIKE, чтобы поиск был подстрочным.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *articleRepo) List(ctx context.Context, f models.ArticleFilter, limit, offset int) ([]*models.Article, error) {
	where, args := articleWhere(f)
	sql := articleSelect + where + articleOrder(f.Order)
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectArticles(rows)
}

func (r *articleRepo) Count(ctx context.Context, f models.ArticleFilter) (int64, error) {
	where, args := articleWhere(f)
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles a`+where, args...).Scan(&n)
	return n, mapErr(err)
}

func (r *articleRepo) Adjacent(ctx context.Context, t time.Time, before bool) (*models.Article, error) {
	sql := articleSelect + ` WHERE a.status='published' AND a.published_at > $1 ORDER BY a.published_at ASC, a.id ASC LIMIT 1`
	if before {
		sql = articleSelect + ` WHERE a.status='published' AND a.published_at < $1 ORDER BY a.published_at DESC, a.id DESC LIMIT 1`
	}
	a, err := scanArticle(r.db.QueryRow(ctx, sql, t))
	if err != nil {
		if err = mapErr(err); errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *articleRepo) IncrementViews(ctx context.Context, id int64) (int64, error) {
	var views int64
	err := r.db.QueryRow(ctx, `UPDATE articles SET views = views + 1 WHERE id=$1 RETURNING views`, id).Scan(&views)
	return views, mapErr(err)
}

// ToggleLike снимает лайк, если он был, иначе ставит. Одна транзакция,
// пара (article_id, user_id) — первичный ключ.
func (r *articleRepo) ToggleLike(ctx context.Context, articleID, userID int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM article_likes WHERE article_id=$1 AND user_id=$2`, articleID, userID)
	if err != nil {
		return false, mapErr(err)
	}
	liked := tag.RowsAffected() == 0
	if liked {
		if _, err := tx.Exec(ctx,
			`INSERT INTO article_likes (article_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			articleID, userID,
		); err != nil {
			return false, mapErr(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return liked, nil
}

func (r *articleRepo) IsLikedBy(ctx context.Context, articleID, userID int64) (bool, error) {
	var liked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM article_likes WHERE article_id=$1 AND user_id=$2)`, articleID, userID,
	).Scan(&liked)
	return liked, mapErr(err)
}

// PublishedTotals не заполняет Categories, это счётчик другого репозитория.
func (r *articleRepo) PublishedTotals(ctx context.Context) (models.SiteTotals, error) {
	const q = `
		SELECT COUNT(*),
		       COALESCE(SUM(a.views), 0)::bigint,
		       (SELECT COUNT(*) FROM article_likes l JOIN articles p ON p.id = l.article_id WHERE p.status='published')
		FROM articles a
		WHERE a.status='published'
	`
	var t models.SiteTotals
	err := r.db.QueryRow(ctx, q).Scan(&t.Articles, &t.Views, &t.Likes)
	return t, mapErr(err)
}

func (r *articleRepo) AuthorTotals(ctx context.Context, authorID int64) (models.AuthorTotals, error) {
	const q = `
		SELECT COUNT(*),
		       COALESCE(SUM(a.views), 0)::bigint,
		       (SELECT COUNT(*) FROM article_likes l JOIN articles p ON p.id = l.article_id WHERE p.author_id=$1),
		       (SELECT COUNT(*) FROM comments c JOIN articles p ON p.id = c.article_id WHERE p.author_id=$1)
		FROM articles a
		WHERE a.author_id=$1
	`
	var t models.AuthorTotals
	err := r.db.QueryRow(ctx, q, authorID).Scan(&t.Articles, &t.Views, &t.Likes, &t.Comments)
	return t, mapErr(err)
}

func (r *articleRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, mapErr(err)
}
