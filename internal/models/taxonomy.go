package models

import "time"

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryWithCount struct {
	Category
	ArticleCount int64 `json:"article_count"`
}

type Comment struct {
	ID             int64     `json:"id"`
	ArticleID      int64     `json:"article_id"`
	ArticleSlug    string    `json:"article_slug"`
	ArticleTitle   string    `json:"article_title"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	IsApproved     bool      `json:"is_approved"`
}

// CanBeChangedBy — правка и удаление комментария: автор или staff.
func (c *Comment) CanBeChangedBy(u *User) bool {
	return u != nil && (u.ID == c.AuthorID || u.IsStaff)
}
