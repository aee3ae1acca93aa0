package pagination

import (
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func numbered(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestPaginateLastPartialPage(t *testing.T) {
	result := Paginate(numbered(25), 3, 10)

	if len(result.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(result.Items))
	}
	if result.Items[0] != 21 || result.Items[4] != 25 {
		t.Fatalf("expected items 21..25, got %v", result.Items)
	}

	p := result.Pagination
	if p.CurrentPage != 3 || p.TotalPages != 3 || p.TotalItems != 25 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if p.HasNextPage || !p.HasPrevPage {
		t.Fatalf("expected last page flags, got next=%v prev=%v", p.HasNextPage, p.HasPrevPage)
	}
}

func TestPaginateClampsOutOfRangeInput(t *testing.T) {
	cases := []struct {
		name        string
		page        int
		perPage     int
		wantCurrent int
		wantFirst   int
	}{
		{"negative page", -5, 10, 1, 1},
		{"zero page", 0, 10, 1, 1},
		{"past the end", 99, 10, 3, 21},
		{"zero per page", 1, 0, 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Paginate(numbered(25), tc.page, tc.perPage)
			p := result.Pagination
			if p.CurrentPage != tc.wantCurrent {
				t.Fatalf("expected current page %d, got %d", tc.wantCurrent, p.CurrentPage)
			}
			if len(result.Items) == 0 || result.Items[0] != tc.wantFirst {
				t.Fatalf("expected first item %d, got %v", tc.wantFirst, result.Items)
			}
			if p.CurrentPage < 1 || p.CurrentPage > max(p.TotalPages, 1) {
				t.Fatalf("current page invariant broken: %+v", p)
			}
			if len(result.Items) > p.ItemsPerPage {
				t.Fatalf("page overflow: %d items for size %d", len(result.Items), p.ItemsPerPage)
			}
		})
	}
}

func TestPaginateEmptyInput(t *testing.T) {
	result := Paginate([]int{}, 5, 10)

	if len(result.Items) != 0 {
		t.Fatalf("expected no items, got %v", result.Items)
	}
	p := result.Pagination
	if p.CurrentPage != 1 || p.TotalPages != 0 || p.TotalItems != 0 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if p.HasNextPage || p.HasPrevPage {
		t.Fatalf("expected no navigation flags: %+v", p)
	}
}

func taggedPost(slug string, tagNames ...string) interfaces.Post {
	return interfaces.Post{
		PostMeta: interfaces.PostMeta{
			Title: slug,
			Slug:  slug,
			Tags:  tagNames,
		},
		Content: "body of " + slug,
	}
}

func TestPaginatePostsTagFilter(t *testing.T) {
	posts := []interfaces.Post{
		taggedPost("a", "go"),
		taggedPost("b", "rust"),
		taggedPost("c", "go", "rust"),
	}

	result := PaginatePosts(posts, FilterOptions{Page: 1, PerPage: 10, Tag: "go"})
	if len(result.Items) != 2 || result.Items[0].Slug != "a" || result.Items[1].Slug != "c" {
		t.Fatalf("unexpected tag filter result: %#v", result.Items)
	}
}

func TestPaginatePostsSearchAnyTermMatches(t *testing.T) {
	posts := []interfaces.Post{
		taggedPost("generics-deep-dive", "go"),
		{PostMeta: interfaces.PostMeta{Title: "Unrelated", Slug: "unrelated"}, Content: "nothing here"},
	}

	result := PaginatePosts(posts, FilterOptions{Page: 1, PerPage: 10, Search: "GENERICS missingterm"})
	if len(result.Items) != 1 || result.Items[0].Slug != "generics-deep-dive" {
		t.Fatalf("unexpected search result: %#v", result.Items)
	}
}

func TestPaginatePostsComposesFilters(t *testing.T) {
	posts := []interfaces.Post{
		taggedPost("go-generics", "go"),
		taggedPost("rust-generics", "rust"),
	}

	result := PaginatePosts(posts, FilterOptions{Page: 1, PerPage: 10, Tag: "go", Search: "generics"})
	if len(result.Items) != 1 || result.Items[0].Slug != "go-generics" {
		t.Fatalf("expected tag and search to compose: %#v", result.Items)
	}

	result = PaginatePosts(posts, FilterOptions{Page: 1, PerPage: 10, Tag: "go", Search: "rust-generics"})
	if len(result.Items) != 0 {
		t.Fatalf("expected empty intersection, got %#v", result.Items)
	}
}
