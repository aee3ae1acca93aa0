package tags

import (
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func post(slug, date string, tagNames ...string) interfaces.Post {
	return interfaces.Post{
		PostMeta: interfaces.PostMeta{
			Title: slug,
			Slug:  slug,
			Date:  date,
			Tags:  tagNames,
		},
	}
}

func TestBuildIndexFirstSeenOrder(t *testing.T) {
	posts := []interfaces.Post{
		post("newest", "2025-01-03", "go", "testing"),
		post("middle", "2025-01-02", "testing"),
		post("oldest", "2025-01-01", "go", "tooling"),
	}

	groups := BuildIndex(posts)

	wantOrder := []string{"go", "testing", "tooling"}
	if len(groups) != len(wantOrder) {
		t.Fatalf("expected %d groups, got %d", len(wantOrder), len(groups))
	}
	for i, name := range wantOrder {
		if groups[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, groups[i].Name)
		}
	}
}

func TestBuildIndexCountsAndMembership(t *testing.T) {
	posts := []interfaces.Post{
		post("newest", "2025-01-03", "go"),
		post("middle", "2025-01-02", "go", "testing"),
		post("oldest", "2025-01-01", "testing"),
	}

	groups := BuildIndex(posts)

	goGroup, ok := Lookup(groups, "go")
	if !ok {
		t.Fatal("expected go group")
	}
	if goGroup.Count != 2 || len(goGroup.Posts) != 2 {
		t.Fatalf("expected count 2 with 2 posts, got count %d with %d posts", goGroup.Count, len(goGroup.Posts))
	}
	if goGroup.Posts[0].Slug != "newest" || goGroup.Posts[1].Slug != "middle" {
		t.Fatalf("expected input order preserved, got %q then %q", goGroup.Posts[0].Slug, goGroup.Posts[1].Slug)
	}
}

func TestBuildIndexTagsAreCaseSensitive(t *testing.T) {
	posts := []interfaces.Post{
		post("upper", "2025-01-02", "JS"),
		post("lower", "2025-01-01", "js"),
	}

	groups := BuildIndex(posts)
	if len(groups) != 2 {
		t.Fatalf("expected JS and js to be distinct groups, got %d", len(groups))
	}
	if groups[0].Name != "JS" || groups[1].Name != "js" {
		t.Fatalf("unexpected groups: %q, %q", groups[0].Name, groups[1].Name)
	}
}

func TestBuildIndexEmptyInput(t *testing.T) {
	if groups := BuildIndex(nil); len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}

func TestSortByCountStable(t *testing.T) {
	posts := []interfaces.Post{
		post("a", "2025-01-04", "rare", "common"),
		post("b", "2025-01-03", "common", "also-rare"),
		post("c", "2025-01-02", "common"),
	}

	sorted := SortByCount(BuildIndex(posts))

	if sorted[0].Name != "common" || sorted[0].Count != 3 {
		t.Fatalf("expected common first, got %q (%d)", sorted[0].Name, sorted[0].Count)
	}
	// rare and also-rare tie at 1; first-seen order breaks the tie.
	if sorted[1].Name != "rare" || sorted[2].Name != "also-rare" {
		t.Fatalf("expected stable tie break, got %q then %q", sorted[1].Name, sorted[2].Name)
	}
}

func TestFilterExactMatch(t *testing.T) {
	posts := []interfaces.Post{
		post("a", "2025-01-02", "go"),
		post("b", "2025-01-01", "Go"),
	}

	matched := Filter(posts, "go")
	if len(matched) != 1 || matched[0].Slug != "a" {
		t.Fatalf("expected exact-match filtering, got %#v", matched)
	}
}
