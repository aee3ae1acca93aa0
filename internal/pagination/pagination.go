package pagination

import (
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Paginate slices items into a single page. Out-of-range input is clamped
// rather than rejected: page and perPage floor at 1, and requests past the
// last page return the last page. An empty input yields an empty page with
// currentPage 1.
func Paginate[T any](items []T, page, perPage int) interfaces.PaginatedResult[T] {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage

	current := page
	if maxPage := max(totalPages, 1); current > maxPage {
		current = maxPage
	}

	start := (current - 1) * perPage
	end := min(start+perPage, total)
	if start > total {
		start = total
	}

	return interfaces.PaginatedResult[T]{
		Items: items[start:end],
		Pagination: interfaces.Pagination{
			CurrentPage:  current,
			TotalPages:   totalPages,
			ItemsPerPage: perPage,
			TotalItems:   total,
			HasNextPage:  current < totalPages,
			HasPrevPage:  current > 1,
		},
	}
}

// FilterOptions narrows and pages a post collection.
type FilterOptions struct {
	Page    int
	PerPage int
	// Tag keeps only posts carrying this exact tag.
	Tag string
	// Search keeps posts where any whitespace-split lowercase term appears
	// as a substring of the title, content, excerpt, or joined tags.
	Search string
}

// PaginatePosts filters by tag, then by search terms, then paginates what
// remains. Filters that match nothing degrade to an empty page.
func PaginatePosts(posts []interfaces.Post, opts FilterOptions) interfaces.PaginatedResult[interfaces.Post] {
	filtered := posts

	if opts.Tag != "" {
		filtered = filterByTag(filtered, opts.Tag)
	}
	if terms := strings.Fields(strings.ToLower(opts.Search)); len(terms) > 0 {
		filtered = filterByTerms(filtered, terms)
	}

	return Paginate(filtered, opts.Page, opts.PerPage)
}

func filterByTag(posts []interfaces.Post, tag string) []interfaces.Post {
	matched := make([]interfaces.Post, 0, len(posts))
	for _, post := range posts {
		for _, candidate := range post.Tags {
			if candidate == tag {
				matched = append(matched, post)
				break
			}
		}
	}
	return matched
}

func filterByTerms(posts []interfaces.Post, terms []string) []interfaces.Post {
	matched := make([]interfaces.Post, 0, len(posts))
	for _, post := range posts {
		haystack := strings.ToLower(strings.Join([]string{
			post.Title,
			post.Content,
			post.Excerpt,
			strings.Join(post.Tags, " "),
		}, " "))
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				matched = append(matched, post)
				break
			}
		}
	}
	return matched
}
