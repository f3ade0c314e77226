package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	FormErrors(rec, map[string]string{"title": "x"}, map[string]string{"title": "This field is required."})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	assert.Equal(t, "This field is required.", resp.Fields["title"])
}

func TestBuildContactHTML_EscapesInput(t *testing.T) {
	out := BuildContactHTML("<b>Eve</b>", "eve@example.com", "hi", "<script>x</script>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;b&gt;Eve&lt;/b&gt;")
}
