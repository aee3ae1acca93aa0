package blog

import (
	"io/fs"
	"time"

	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// PostService exports the post service contract for consumers of the blog
// package.
type PostService = interfaces.PostService

// SearchService exports the search service contract.
type SearchService = interfaces.SearchService

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// GeneratorStorage exports the artifact storage contract.
type GeneratorStorage = generator.Storage

// Post is a fully assembled blog post.
type Post = interfaces.Post

// PostMeta is the validated frontmatter of a post.
type PostMeta = interfaces.PostMeta

// CreatePostInput carries the fields accepted when writing a new post.
type CreatePostInput = interfaces.CreatePostInput

// TagInfo groups the posts carrying one tag.
type TagInfo = interfaces.TagInfo

// Pagination describes the window of a paginated result.
type Pagination = interfaces.Pagination

// PaginatedResult is a page of items plus its pagination window.
type PaginatedResult[T any] = interfaces.PaginatedResult[T]

// Option overrides a default service binding.
type Option = di.Option

// WithLogger overrides the logger provider binding.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithCacheProvider overrides the cache backing the search query cache.
func WithCacheProvider(provider interfaces.CacheProvider) Option {
	return di.WithCacheProvider(provider)
}

// WithRenderer overrides the template renderer used by the generator.
func WithRenderer(renderer interfaces.TemplateRenderer) Option {
	return di.WithTemplate(renderer)
}

// WithClock overrides the time source used for cache expiry and the
// future-date validation rule. Test seam.
func WithClock(clock func() time.Time) Option {
	return di.WithClock(clock)
}

// WithPostsFS overrides the posts filesystem. Test seam.
func WithPostsFS(filesystem fs.FS) Option {
	return di.WithPostsFS(filesystem)
}

// WithGeneratorStorage overrides where build artifacts land.
func WithGeneratorStorage(storage GeneratorStorage) Option {
	return di.WithGeneratorStorage(storage)
}

// Module is the top level blog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and
// optional bindings.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Posts returns the configured post service.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Search returns the configured search service.
func (m *Module) Search() SearchService {
	return m.container.SearchService()
}

// Generator returns the configured generator service.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Invalidate clears the post snapshot and cached search results, forcing
// the next read to reload from disk. Call after writing posts outside the
// module.
func (m *Module) Invalidate() {
	m.container.Invalidate()
}
