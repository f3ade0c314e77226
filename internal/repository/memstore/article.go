package memstore

import (
	"context"
	"strings"
	"time"

	"campusnews/internal/models"
	"campusnews/internal/repository"
)

type articleStore struct{ *Store }

func (s *articleStore) Create(_ context.Context, a *models.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkArticleLocked(a); err != nil {
		return err
	}
	a.ID = s.nextID()
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	stored := *a
	s.articles[a.ID] = &stored
	return nil
}

// checkArticleLocked повторяет ограничения таблицы articles.
func (s *articleStore) checkArticleLocked(a *models.Article) error {
	for _, other := range s.articles {
		if other.Slug == a.Slug && other.ID != a.ID {
			return repository.ErrConflict
		}
	}
	if _, ok := s.categories[a.CategoryID]; !ok {
		return repository.ErrReferenced
	}
	if _, ok := s.users[a.AuthorID]; !ok {
		return repository.ErrReferenced
	}
	return nil
}

func (s *articleStore) Update(_ context.Context, a *models.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.articles[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := s.checkArticleLocked(a); err != nil {
		return err
	}
	cur.Title = a.Title
	cur.Slug = a.Slug
	cur.Content = a.Content
	cur.Excerpt = a.Excerpt
	cur.FeaturedImage = a.FeaturedImage
	cur.Status = a.Status
	cur.CategoryID = a.CategoryID
	cur.PublishedAt = a.PublishedAt
	cur.UpdatedAt = s.now()
	a.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *articleStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return repository.ErrNotFound
	}
	s.deleteArticleLocked(id)
	return nil
}

func (s *articleStore) GetPublishedBySlug(_ context.Context, slug string) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.Slug == slug && a.Status == models.StatusPublished {
			return s.articleView(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *articleStore) GetBySlugAndAuthor(_ context.Context, slug string, authorID int64) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.Slug == slug && a.AuthorID == authorID {
			return s.articleView(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *articleStore) SlugExists(_ context.Context, slug string, excludeID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.Slug == slug && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func matchArticle(a *models.Article, f models.ArticleFilter) bool {
	if q := strings.TrimSpace(f.Query); q != "" &&
		!containsFold(a.Title, q) && !containsFold(a.Content, q) && !containsFold(a.Excerpt, q) {
		return false
	}
	if f.CategoryID != nil && a.CategoryID != *f.CategoryID {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.AuthorID != nil && a.AuthorID != *f.AuthorID {
		return false
	}
	if f.ExcludeID != 0 && a.ID == f.ExcludeID {
		return false
	}
	return true
}

func (s *articleStore) filtered(f models.ArticleFilter) []*models.Article {
	list := []*models.Article{}
	for _, a := range s.articles {
		if matchArticle(a, f) {
			list = append(list, s.articleView(a))
		}
	}
	sortArticles(list, f.Order)
	return list
}

func (s *articleStore) List(_ context.Context, f models.ArticleFilter, limit, offset int) ([]*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(s.filtered(f), limit, offset), nil
}

func (s *articleStore) Count(_ context.Context, f models.ArticleFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, a := range s.articles {
		if matchArticle(a, f) {
			n++
		}
	}
	return n, nil
}

func (s *articleStore) Adjacent(_ context.Context, t time.Time, before bool) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *models.Article
	for _, a := range s.articles {
		if a.Status != models.StatusPublished || a.PublishedAt == nil {
			continue
		}
		p := *a.PublishedAt
		if before {
			if p.Before(t) && (best == nil || p.After(*best.PublishedAt) || (p.Equal(*best.PublishedAt) && a.ID > best.ID)) {
				best = a
			}
			continue
		}
		if p.After(t) && (best == nil || p.Before(*best.PublishedAt) || (p.Equal(*best.PublishedAt) && a.ID < best.ID)) {
			best = a
		}
	}
	if best == nil {
		return nil, nil
	}
	return s.articleView(best), nil
}

func (s *articleStore) IncrementViews(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	a.Views++
	return a.Views, nil
}

func (s *articleStore) ToggleLike(_ context.Context, articleID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[articleID]; !ok {
		return false, repository.ErrReferenced
	}
	if _, ok := s.users[userID]; !ok {
		return false, repository.ErrReferenced
	}
	k := likeKey{articleID, userID}
	if _, ok := s.likes[k]; ok {
		delete(s.likes, k)
		return false, nil
	}
	s.likes[k] = s.now()
	return true, nil
}

func (s *articleStore) IsLikedBy(_ context.Context, articleID, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.likes[likeKey{articleID, userID}]
	return ok, nil
}

func (s *articleStore) PublishedTotals(_ context.Context) (models.SiteTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t models.SiteTotals
	for _, a := range s.articles {
		if a.Status == models.StatusPublished {
			t.Articles++
			t.Views += a.Views
		}
	}
	for k := range s.likes {
		if a, ok := s.articles[k.articleID]; ok && a.Status == models.StatusPublished {
			t.Likes++
		}
	}
	return t, nil
}

func (s *articleStore) AuthorTotals(_ context.Context, authorID int64) (models.AuthorTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t models.AuthorTotals
	for _, a := range s.articles {
		if a.AuthorID == authorID {
			t.Articles++
			t.Views += a.Views
		}
	}
	for k := range s.likes {
		if a, ok := s.articles[k.articleID]; ok && a.AuthorID == authorID {
			t.Likes++
		}
	}
	for _, c := range s.comments {
		if a, ok := s.articles[c.ArticleID]; ok && a.AuthorID == authorID {
			t.Comments++
		}
	}
	return t, nil
}

func (s *articleStore) CountAll(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.articles)), nil
}
