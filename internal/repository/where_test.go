package repository

import (
	"testing"

	"campusnews/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestArticleWhere(t *testing.T) {
	cat := int64(3)
	st := models.StatusPublished
	where, args := articleWhere(models.ArticleFilter{
		Query:      "  50%_off ",
		CategoryID: &cat,
		Status:     &st,
		ExcludeID:  9,
	})

	assert.Equal(t,
		" WHERE (a.title ILIKE $1 OR a.content ILIKE $1 OR a.excerpt ILIKE $1) AND a.category_id = $2 AND a.status = $3 AND a.id <> $4",
		where)
	want := []interface{}{`%50\%\_off%`, int64(3), "published", int64(9)}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestArticleWhere_BlankQueryIgnored(t *testing.T) {
	where, args := articleWhere(models.ArticleFilter{Query: "   "})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestUserWhere(t *testing.T) {
	staff := false
	where, args := userWhere(models.UserFilter{Query: "ann", Staff: &staff})
	assert.Equal(t,
		" WHERE (username ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1) AND NOT is_staff AND NOT is_superuser",
		where)
	assert.Equal(t, []interface{}{"%ann%"}, args)
}
