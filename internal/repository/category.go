package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"campusnews/internal/models"
)

type CategoryRepo interface {
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	// Delete возвращает ErrReferenced, если на категорию ссылаются статьи.
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	ListWithCounts(ctx context.Context) ([]*models.CategoryWithCount, error)
	// ListPublishedCounts — то же, но считаются только опубликованные статьи (для ленты).
	ListPublishedCounts(ctx context.Context) ([]*models.CategoryWithCount, error)
	// Top — по числу статей; n <= 0 — все.
	Top(ctx context.Context, n int) ([]*models.CategoryWithCount, error)
	Count(ctx context.Context) (int64, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	ArticleCount(ctx context.Context, id int64) (int64, error)
}

type categoryRepo struct{ db DB }

func NewCategoryRepo(db DB) CategoryRepo { return &categoryRepo{db: db} }

const categoryWithCountSelect = `
	SELECT c.id, c.name, c.description, c.created_at,
	       (SELECT COUNT(*) FROM articles a WHERE a.category_id = c.id) AS article_count
	FROM categories c
`

const categoryPublishedCountSelect = `
	SELECT c.id, c.name, c.description, c.created_at,
	       (SELECT COUNT(*) FROM articles a WHERE a.category_id = c.id AND a.status = 'published') AS article_count
	FROM categories c
`

func collectCategories(rows pgx.Rows) ([]*models.CategoryWithCount, error) {
	defer rows.Close()
	list := []*models.CategoryWithCount{}
	for rows.Next() {
		var c models.CategoryWithCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.ArticleCount); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (name, description) VALUES ($1,$2) RETURNING id, created_at`,
		c.Name, c.Description,
	).Scan(&c.ID, &c.CreatedAt)
	return mapErr(err)
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name=$2, description=$3 WHERE id=$1`,
		c.ID, c.Name, c.Description,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *categoryRepo) ListWithCounts(ctx context.Context) ([]*models.CategoryWithCount, error) {
	rows, err := r.db.Query(ctx, categoryWithCountSelect+` ORDER BY c.name ASC`)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectCategories(rows)
}

func (r *categoryRepo) ListPublishedCounts(ctx context.Context) ([]*models.CategoryWithCount, error) {
	rows, err := r.db.Query(ctx, categoryPublishedCountSelect+` ORDER BY c.name ASC`)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectCategories(rows)
}

func (r *categoryRepo) Top(ctx context.Context, n int) ([]*models.CategoryWithCount, error) {
	sql := categoryWithCountSelect + ` ORDER BY article_count DESC, c.name ASC`
	args := []interface{}{}
	if n > 0 {
		sql += ` LIMIT $1`
		args = append(args, n)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectCategories(rows)
}

func (r *categoryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, mapErr(err)
}

func (r *categoryRepo) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE name=$1 AND id<>$2)`, name, excludeID,
	).Scan(&taken)
	return taken, mapErr(err)
}

func (r *categoryRepo) ArticleCount(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles WHERE category_id=$1`, id).Scan(&n)
	return n, mapErr(err)
}
