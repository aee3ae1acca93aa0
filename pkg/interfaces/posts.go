package interfaces

import "context"

// PostMeta models the YAML frontmatter of a single markdown post. Validation
// happens before a PostMeta is constructed, so consumers can rely on the
// field contracts documented here.
type PostMeta struct {
	// Title is required and non-empty.
	Title string `yaml:"title" json:"title"`
	// Date is the publication date in YYYY-MM-DD form. Future dates are only
	// valid for drafts.
	Date string `yaml:"date" json:"date"`
	// Slug is a kebab-case identifier, derived from the filename when the
	// frontmatter omits it.
	Slug    string `yaml:"slug" json:"slug"`
	Excerpt string `yaml:"excerpt,omitempty" json:"excerpt,omitempty"`
	// Tags holds at most ten unique, non-empty entries. Comparison is
	// case-sensitive throughout the engine.
	Tags     []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Modified string   `yaml:"modified,omitempty" json:"modified,omitempty"`
	Draft    bool     `yaml:"draft,omitempty" json:"draft,omitempty"`
}

// Post is a fully assembled blog post: validated metadata plus the rendered
// HTML body. A Post is immutable once constructed; reloading a source file
// produces a new value, never a mutation.
type Post struct {
	PostMeta
	// Content is the rendered HTML body.
	Content string `json:"content"`
	// FormattedDate is the display form of Date (e.g. "January 2, 2006").
	FormattedDate string `json:"formatted_date"`
}

// TagInfo aggregates the posts carrying a given tag. Count always equals
// len(Posts) and Posts preserve the collection ordering (newest first).
type TagInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Posts []Post `json:"posts"`
}

// Pagination carries navigation metadata for a paginated slice.
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	ItemsPerPage int  `json:"items_per_page"`
	TotalItems   int  `json:"total_items"`
	HasNextPage  bool `json:"has_next_page"`
	HasPrevPage  bool `json:"has_prev_page"`
}

// PaginatedResult bundles one page of items with its navigation metadata.
type PaginatedResult[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// CreatePostInput describes a programmatic post creation request. The slug is
// derived from the title when absent.
type CreatePostInput struct {
	Title   string
	Date    string
	Slug    string
	Excerpt string
	Tags    []string
	Draft   bool
	// Body is the raw markdown content, without frontmatter.
	Body string
}

// PostService exposes the content pipeline: loading the cached post
// collection, slug lookup, programmatic creation, and cache invalidation.
type PostService interface {
	Load(ctx context.Context) ([]Post, error)
	GetBySlug(ctx context.Context, slug string) (Post, error)
	Create(ctx context.Context, input CreatePostInput) (Post, error)
	Invalidate()
}

// SearchService ranks posts against a free-text query.
type SearchService interface {
	Search(ctx context.Context, query string) ([]Post, error)
}
