package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"campusnews/internal/models"
	"campusnews/internal/repository"
)

type userStore struct{ *Store }

func (s *userStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.users {
		if other.Username == u.Username {
			return repository.ErrConflict
		}
	}
	u.ID = s.nextID()
	u.DateJoined = s.now()
	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func (s *userStore) get(id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *userStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

func (s *userStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *userStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.GetByUsername(ctx, username)
	return err == nil, nil
}

func matchUser(u *models.User, f models.UserFilter) bool {
	if q := strings.TrimSpace(f.Query); q != "" &&
		!containsFold(u.Username, q) && !containsFold(u.FirstName, q) &&
		!containsFold(u.LastName, q) && !containsFold(u.Email, q) {
		return false
	}
	if f.Staff != nil {
		if *f.Staff && !u.IsStaff {
			return false
		}
		if !*f.Staff && (u.IsStaff || u.IsSuperuser) {
			return false
		}
	}
	return true
}

func (s *userStore) List(_ context.Context, f models.UserFilter, limit, offset int) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []*models.User{}
	for _, u := range s.users {
		if matchUser(u, f) {
			out := *u
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return newerFirst(list[i].DateJoined, list[j].DateJoined, list[i].ID, list[j].ID)
	})
	return page(list, limit, offset), nil
}

func (s *userStore) Count(_ context.Context, f models.UserFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, u := range s.users {
		if matchUser(u, f) {
			n++
		}
	}
	return n, nil
}

func (s *userStore) Counters(_ context.Context) (models.UserCounters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := models.UserCounters{Total: int64(len(s.users))}
	for _, u := range s.users {
		if u.IsStaff {
			c.Staff++
		}
		if u.IsActive {
			c.Active++
		}
	}
	return c, nil
}

func (s *userStore) ToggleStaff(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.IsStaff = !u.IsStaff
	return s.get(id)
}

func (s *userStore) ToggleActive(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.IsActive = !u.IsActive
	return s.get(id)
}

func (s *userStore) UpdateProfile(_ context.Context, id int64, firstName, lastName, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FirstName, u.LastName, u.Email = firstName, lastName, email
	return nil
}

// Delete — каскад: статьи пользователя (с их комментариями и лайками),
// его комментарии и лайки.
func (s *userStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	for aid, a := range s.articles {
		if a.AuthorID == id {
			s.deleteArticleLocked(aid)
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
		}
	}
	for k := range s.likes {
		if k.userID == id {
			delete(s.likes, k)
		}
	}
	delete(s.users, id)
	return nil
}

func (s *userStore) CountAll(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *userStore) ContentStats(_ context.Context, id int64) (models.ContentStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st models.ContentStats
	for _, a := range s.articles {
		if a.AuthorID == id {
			st.Articles++
		}
	}
	for _, c := range s.comments {
		if c.AuthorID == id {
			st.Comments++
		}
	}
	for k := range s.likes {
		if a, ok := s.articles[k.articleID]; ok && a.AuthorID == id {
			st.Likes++
		}
	}
	return st, nil
}

func (s *userStore) RevokeToken(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.revoked[tokenID]; !ok {
		s.revoked[tokenID] = expiresAt
	}
	return nil
}

func (s *userStore) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

func (s *userStore) PurgeRevokedTokens(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
			n++
		}
	}
	return n, nil
}
