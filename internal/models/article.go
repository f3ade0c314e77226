package models

import "time"

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

func (s ArticleStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ArticleStatuses — варианты для формы статьи.
var ArticleStatuses = []ArticleStatus{StatusDraft, StatusPublished}

type Article struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Slug           string        `json:"slug"`
	Content        string        `json:"content"`
	Excerpt        string        `json:"excerpt"`
	FeaturedImage  *string       `json:"featured_image,omitempty"`
	Status         ArticleStatus `json:"status"`
	Views          int64         `json:"views"`
	CategoryID     int64         `json:"category_id"`
	CategoryName   string        `json:"category_name"`
	AuthorID       int64         `json:"author_id"`
	AuthorUsername string        `json:"author"`
	LikesCount     int64         `json:"likes_count"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	PublishedAt    *time.Time    `json:"published_at,omitempty"`
}

func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// ApplyStatus поддерживает инвариант status=published <=> published_at задан.
// Повторная публикация сохраняет исходную дату.
func (a *Article) ApplyStatus(now time.Time) {
	if a.Status == StatusPublished {
		if a.PublishedAt == nil {
			t := now
			a.PublishedAt = &t
		}
		return
	}
	a.PublishedAt = nil
}

type ArticleOrder int

const (
	OrderCreatedDesc ArticleOrder = iota
	OrderPublishedDesc
	OrderViewsDesc
)

// ArticleFilter описывает выборку статей; нулевые поля не фильтруют.
type ArticleFilter struct {
	Query      string
	CategoryID *int64
	Status     *ArticleStatus
	AuthorID   *int64
	ExcludeID  int64
	Order      ArticleOrder
}

// PublishedFilter — опубликованные статьи в заданном порядке.
func PublishedFilter(order ArticleOrder) ArticleFilter {
	st := StatusPublished
	return ArticleFilter{Status: &st, Order: order}
}

// SiteTotals — счётчики по опубликованным статьям для главной.
type SiteTotals struct {
	Articles   int64 `json:"total_articles"`
	Categories int64 `json:"total_categories"`
	Views      int64 `json:"total_views"`
	Likes      int64 `json:"total_likes"`
}

// AuthorTotals — агрегаты по всем статьям одного автора (включая черновики).
type AuthorTotals struct {
	Articles int64
	Views    int64
	Likes    int64
	Comments int64
}
