package cats

import "testing"

func TestTotalPages(t *testing.T) {
	testCases := []struct {
		name     string
		count    int64
		pageSize int
		want     int
	}{
		{name: "empty", count: 0, pageSize: 8, want: 0},
		{name: "exact-single-page", count: 8, pageSize: 8, want: 1},
		{name: "one-over", count: 9, pageSize: 8, want: 2},
		{name: "partial-page", count: 3, pageSize: 8, want: 1},
		{name: "many-pages", count: 25, pageSize: 8, want: 4},
		{name: "page-size-one", count: 5, pageSize: 1, want: 5},
		{name: "zero-page-size", count: 5, pageSize: 0, want: 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := totalPages(testCase.count, testCase.pageSize)
			if got != testCase.want {
				t.Fatalf("totalPages(%d, %d) = %d, want %d",
					testCase.count, testCase.pageSize, got, testCase.want)
			}
		})
	}
}

func TestListQueryNormalizedDefaults(t *testing.T) {
	query := ListQuery{SearchText: "  fluffy  ", TagFilter: " Tabby "}.normalized()

	if query.Page != DefaultPage {
		t.Fatalf("expected default page %d, got %d", DefaultPage, query.Page)
	}
	if query.PageSize != DefaultPageSize {
		t.Fatalf("expected default page size %d, got %d", DefaultPageSize, query.PageSize)
	}
	if query.SearchText != "fluffy" {
		t.Fatalf("expected trimmed search text, got %q", query.SearchText)
	}
	if query.TagFilter != "Tabby" {
		t.Fatalf("expected trimmed tag filter, got %q", query.TagFilter)
	}
}

func TestListQueryNormalizedKeepsExplicitValues(t *testing.T) {
	query := ListQuery{Page: 3, PageSize: 20}.normalized()

	if query.Page != 3 || query.PageSize != 20 {
		t.Fatalf("expected explicit pagination preserved, got page=%d size=%d",
			query.Page, query.PageSize)
	}
}
