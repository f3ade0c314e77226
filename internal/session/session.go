// Package session хранит flash-сообщения между redirect-after-post запросами
// в подписанной cookie.
package session

import (
	"encoding/gob"
	"net/http"

	"campusnews/internal/logger"
	"campusnews/internal/utils/helpers"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	cookieName = "campusnews_session"

	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

func init() {
	gob.Register(helpers.Message{})
}

type Store struct {
	cookies *sessions.CookieStore
}

func NewStore(key []byte, secure bool) *Store {
	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 8,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs}
}

// AddFlash должен вызываться до записи заголовков ответа.
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, level, text string) {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		// испорченная cookie: Get всё равно отдаёт новую сессию
		logger.WithCtx(r.Context()).Warn("session: не удалось прочитать cookie", zap.Error(err))
	}
	sess.AddFlash(helpers.Message{Level: level, Text: text})
	if err := sess.Save(r, w); err != nil {
		logger.WithCtx(r.Context()).Error("session: не удалось сохранить flash", zap.Error(err))
	}
}

// Flashes забирает накопленные сообщения; повторный вызов вернёт пустой список.
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []helpers.Message {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil || sess.IsNew {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]helpers.Message, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(helpers.Message); ok {
			out = append(out, m)
		}
	}
	if err := sess.Save(r, w); err != nil {
		logger.WithCtx(r.Context()).Error("session: не удалось очистить flash", zap.Error(err))
	}
	return out
}
