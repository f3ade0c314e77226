package memstore

import (
	"context"
	"sort"

	"campusnews/internal/models"
	"campusnews/internal/repository"
)

type commentStore struct{ *Store }

func (s *commentStore) Create(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[c.ArticleID]; !ok {
		return repository.ErrReferenced
	}
	if _, ok := s.users[c.AuthorID]; !ok {
		return repository.ErrReferenced
	}
	c.ID = s.nextID()
	c.CreatedAt = s.now()
	stored := *c
	s.comments[c.ID] = &stored
	return nil
}

func (s *commentStore) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.commentView(c), nil
}

func (s *commentStore) UpdateContent(_ context.Context, id int64, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Content = content
	return nil
}

func (s *commentStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *commentStore) SetApproved(_ context.Context, id int64, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.IsApproved = approved
	return nil
}

func (s *commentStore) collect(match func(*models.Comment) bool) []*models.Comment {
	list := []*models.Comment{}
	for _, c := range s.comments {
		if match(c) {
			list = append(list, s.commentView(c))
		}
	}
	return list
}

func (s *commentStore) ListByArticle(_ context.Context, articleID int64) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.collect(func(c *models.Comment) bool { return c.ArticleID == articleID })
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *commentStore) recent(list []*models.Comment, limit int) []*models.Comment {
	sort.Slice(list, func(i, j int) bool {
		return newerFirst(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID)
	})
	return page(list, limit, 0)
}

func (s *commentStore) RecentOnAuthorArticles(_ context.Context, authorID int64, limit int) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.collect(func(c *models.Comment) bool {
		a, ok := s.articles[c.ArticleID]
		return ok && a.AuthorID == authorID
	})
	return s.recent(list, limit), nil
}

func (s *commentStore) RecentByAuthor(_ context.Context, authorID int64, limit int) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.collect(func(c *models.Comment) bool { return c.AuthorID == authorID })
	return s.recent(list, limit), nil
}

func (s *commentStore) CountAll(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.comments)), nil
}
