// Package memstore — реализация репозиториев в памяти процесса для DB_DRIVER=memory и тестов.
// Повторяет семантику SQL-схемы: уникальность, каскады и RESTRICT, порядок выдачи.
package memstore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"campusnews/internal/models"
	"campusnews/internal/repository"
)

type likeKey struct{ articleID, userID int64 }

type Store struct {
	mu sync.RWMutex

	users      map[int64]*models.User
	categories map[int64]*models.Category
	articles   map[int64]*models.Article
	comments   map[int64]*models.Comment
	likes      map[likeKey]time.Time
	revoked    map[string]time.Time

	seq int64
	now func() time.Time
}

func New() *Store {
	return &Store{
		users:      map[int64]*models.User{},
		categories: map[int64]*models.Category{},
		articles:   map[int64]*models.Article{},
		comments:   map[int64]*models.Comment{},
		likes:      map[likeKey]time.Time{},
		revoked:    map[string]time.Time{},
		now:        time.Now,
	}
}

// WithClock подменяет источник времени для created_at/date_joined.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Articles() repository.ArticleRepo     { return &articleStore{s} }
func (s *Store) Categories() repository.CategoryRepo { return &categoryStore{s} }
func (s *Store) Comments() repository.CommentRepo     { return &commentStore{s} }
func (s *Store) Users() repository.UserRepo           { return &userStore{s} }

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// articleView — копия статьи с полями из связанных таблиц, как после JOIN.
func (s *Store) articleView(a *models.Article) *models.Article {
	out := *a
	if c, ok := s.categories[a.CategoryID]; ok {
		out.CategoryName = c.Name
	}
	if u, ok := s.users[a.AuthorID]; ok {
		out.AuthorUsername = u.Username
	}
	out.LikesCount = 0
	for k := range s.likes {
		if k.articleID == a.ID {
			out.LikesCount++
		}
	}
	return &out
}

func (s *Store) commentView(c *models.Comment) *models.Comment {
	out := *c
	if a, ok := s.articles[c.ArticleID]; ok {
		out.ArticleSlug = a.Slug
		out.ArticleTitle = a.Title
	}
	if u, ok := s.users[c.AuthorID]; ok {
		out.AuthorUsername = u.Username
	}
	return &out
}

// deleteArticleLocked удаляет статью с комментариями и лайками (ON DELETE CASCADE).
func (s *Store) deleteArticleLocked(id int64) {
	delete(s.articles, id)
	for cid, c := range s.comments {
		if c.ArticleID == id {
			delete(s.comments, cid)
		}
	}
	for k := range s.likes {
		if k.articleID == id {
			delete(s.likes, k)
		}
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		return items
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// newerFirst — порядок "created DESC, id DESC".
func newerFirst(ti, tj time.Time, idi, idj int64) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return idi > idj
}

func sortArticles(list []*models.Article, order models.ArticleOrder) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch order {
		case models.OrderPublishedDesc:
			switch {
			case a.PublishedAt == nil && b.PublishedAt == nil:
				return a.ID > b.ID
			case a.PublishedAt == nil:
				return false
			case b.PublishedAt == nil:
				return true
			}
			return newerFirst(*a.PublishedAt, *b.PublishedAt, a.ID, b.ID)
		case models.OrderViewsDesc:
			if a.Views != b.Views {
				return a.Views > b.Views
			}
			return a.ID > b.ID
		default:
			return newerFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
		}
	})
}
