package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusnews/internal/models"
	"campusnews/internal/reqctx"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	tokens map[string]*models.User
}

func (f fakeAuth) Authenticate(_ context.Context, raw string) (*models.User, *models.TokenClaims, error) {
	u, ok := f.tokens[raw]
	if !ok {
		return nil, nil, errors.New("bad token")
	}
	return u, &models.TokenClaims{UserID: u.ID, TokenID: "jti-" + raw}, nil
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func whoAmI(w http.ResponseWriter, r *http.Request) {
	if u := reqctx.User(r.Context()); u != nil {
		_, _ = w.Write([]byte(u.Username))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
}

func TestAuthenticate_HeaderAndCookie(t *testing.T) {
	auth := fakeAuth{tokens: map[string]*models.User{
		"t1": {ID: 1, Username: "alice"},
		"t2": {ID: 2, Username: "bob"},
	}}
	h := Authenticate(auth)(http.HandlerFunc(whoAmI))

	cases := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer t1") }, "alice"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessCookie, Value: "t2"}) }, "bob"},
		{"invalid token stays anonymous", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, "anonymous"},
		{"no token", func(r *http.Request) {}, "anonymous"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, rec.Body.String())
		})
	}
}

func TestRequireLogin(t *testing.T) {
	h := RequireLogin(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/?x=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login/?next=%2Fdashboard%2F%3Fx%3D1", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "/comment/1/delete-ajax/", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Authentication required"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	req = req.WithContext(reqctx.WithUser(req.Context(), &models.User{ID: 1}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(okHandler)

	cases := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", nil, http.StatusFound},
		{"reader", &models.User{ID: 1}, http.StatusForbidden},
		{"staff", &models.User{ID: 2, IsStaff: true}, http.StatusOK},
		{"superuser", &models.User{ID: 3, IsSuperuser: true}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/articles/", nil)
			if tc.user != nil {
				req = req.WithContext(reqctx.WithUser(req.Context(), tc.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = reqctx.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Limit(okHandler)

	post := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, post("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, post("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, post("10.0.0.2:1111"), "other clients have their own bucket")

	get := httptest.NewRequest(http.MethodGet, "/login/", nil)
	get.RemoteAddr = "10.0.0.1:4444"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, get)
	assert.Equal(t, http.StatusOK, rec.Code, "GET is not limited")

	rl.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 2, rl.Cleanup(time.Minute))
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	assert.False(t, rl.Enabled())
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		rl.Limit(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contact/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging_RouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Logging)
	var tpl string
	r.HandleFunc("/article/{slug}/", func(w http.ResponseWriter, req *http.Request) {
		tpl = routeTemplate(req)
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/article/hello-world/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "/article/{slug}/", tpl)
}

func TestRequireLoginJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireLoginJSON(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/comments/delete/1/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
