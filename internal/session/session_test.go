package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campusnews/internal/utils/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	store := NewStore([]byte("0123456789abcdef0123456789abcdef"), false)

	rec := httptest.NewRecorder()
	store.AddFlash(rec, httptest.NewRequest(http.MethodPost, "/categories/create/", nil), LevelSuccess, "Category created successfully!")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/categories/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	got := store.Flashes(rec2, req)
	assert.Equal(t, []helpers.Message{{Level: LevelSuccess, Text: "Category created successfully!"}}, got)
}

func TestFlashes_EmptyWithoutCookie(t *testing.T) {
	store := NewStore([]byte("0123456789abcdef0123456789abcdef"), false)
	got := store.Flashes(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, got)
}
