package pagination

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 6, 1},
		{5, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{100, 15, 7},
	}
	for _, tt := range tests {
		if got := CalculateTotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	tests := map[string]int{
		"":    1,
		"abc": 1,
		"0":   1,
		"-3":  1,
		" 2 ": 2,
		"10":  10,
	}
	for raw, want := range tests {
		if got := ParsePage(raw); got != want {
			t.Errorf("ParsePage(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestResolve_ClampsOutOfRange(t *testing.T) {
	got := Resolve("99", 13, FeedPageSize)
	want := Metadata{
		Page:        3,
		PageSize:    6,
		Total:       13,
		TotalPages:  3,
		HasNext:     false,
		HasPrevious: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
	if got.Offset() != 12 {
		t.Errorf("Offset() = %d, want 12", got.Offset())
	}
}

func TestResolve_EmptyResultIsValidPage(t *testing.T) {
	got := Resolve("5", 0, ArticlePageSize)
	if got.Page != 1 || got.TotalPages != 1 || got.Offset() != 0 {
		t.Errorf("empty result resolved to %+v", got)
	}
	if got.HasNext || got.HasPrevious {
		t.Errorf("empty result must not have neighbours: %+v", got)
	}
}
