package models

import (
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsActive     bool      `json:"is_active"`
	DateJoined   time.Time `json:"date_joined"`
}

// IsAdmin — единственный предикат доступа к управлению сайтом.
func (u *User) IsAdmin() bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

// Role — значение claim "role" в access-токене. Права всегда берутся из БД,
// claim нужен только для логов.
func (u *User) Role() string {
	if u.IsAdmin() {
		return "admin"
	}
	return "user"
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserFilter — фильтр списка пользователей в админке.
type UserFilter struct {
	Query string
	Staff *bool // true: is_staff; false: ни staff, ни superuser
}

type UserCounters struct {
	Total  int64 `json:"total_users"`
	Staff  int64 `json:"staff_users"`
	Active int64 `json:"active_users"`
}

// ContentStats — агрегаты по контенту одного пользователя.
type ContentStats struct {
	Articles int64 `json:"total_articles"`
	Comments int64 `json:"total_comments"`
	Likes    int64 `json:"total_likes"`
}

type TokenClaims struct {
	UserID    int64
	Role      string
	TokenID   string
	ExpiresAt time.Time
}
