package memstore

import (
	"context"
	"sort"

	"campusnews/internal/models"
	"campusnews/internal/repository"
)

type categoryStore struct{ *Store }

func (s *categoryStore) nameTakenLocked(name string, excludeID int64) bool {
	for _, c := range s.categories {
		if c.Name == name && c.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *categoryStore) Create(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTakenLocked(c.Name, 0) {
		return repository.ErrConflict
	}
	c.ID = s.nextID()
	c.CreatedAt = s.now()
	stored := *c
	s.categories[c.ID] = &stored
	return nil
}

func (s *categoryStore) Update(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.categories[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.nameTakenLocked(c.Name, c.ID) {
		return repository.ErrConflict
	}
	cur.Name = c.Name
	cur.Description = c.Description
	return nil
}

func (s *categoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	for _, a := range s.articles {
		if a.CategoryID == id {
			return repository.ErrReferenced
		}
	}
	delete(s.categories, id)
	return nil
}

func (s *categoryStore) GetByID(_ context.Context, id int64) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *categoryStore) withCounts() []*models.CategoryWithCount {
	return s.countBy(func(*models.Article) bool { return true })
}

func (s *categoryStore) countBy(keep func(*models.Article) bool) []*models.CategoryWithCount {
	counts := map[int64]int64{}
	for _, a := range s.articles {
		if keep(a) {
			counts[a.CategoryID]++
		}
	}
	list := make([]*models.CategoryWithCount, 0, len(s.categories))
	for _, c := range s.categories {
		list = append(list, &models.CategoryWithCount{Category: *c, ArticleCount: counts[c.ID]})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (s *categoryStore) ListWithCounts(_ context.Context) ([]*models.CategoryWithCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.withCounts(), nil
}

func (s *categoryStore) ListPublishedCounts(_ context.Context) ([]*models.CategoryWithCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countBy(func(a *models.Article) bool { return a.Status == models.StatusPublished }), nil
}

func (s *categoryStore) Top(_ context.Context, n int) ([]*models.CategoryWithCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.withCounts()
	sort.SliceStable(list, func(i, j int) bool { return list[i].ArticleCount > list[j].ArticleCount })
	return page(list, n, 0), nil
}

func (s *categoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.categories)), nil
}

func (s *categoryStore) NameTaken(_ context.Context, name string, excludeID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nameTakenLocked(name, excludeID), nil
}

func (s *categoryStore) ArticleCount(_ context.Context, id int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, a := range s.articles {
		if a.CategoryID == id {
			n++
		}
	}
	return n, nil
}
