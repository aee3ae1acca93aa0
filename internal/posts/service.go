package posts

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/cache"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const displayDateLayout = "January 2, 2006"

// Config controls how the post service discovers, caches, and renders posts.
type Config struct {
	// PostsDir is the directory holding markdown posts.
	PostsDir string
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
	// IncludeDrafts keeps draft posts in the loaded collection.
	IncludeDrafts bool
	// RetryDelay is the pause before the single retry taken when every file
	// in a non-empty directory failed to load. Defaults to one second.
	RetryDelay time.Duration
	// CacheEnabled toggles the snapshot cache over the loaded collection.
	CacheEnabled bool
	// CacheTTL bounds snapshot freshness. Defaults to one minute.
	CacheTTL time.Duration
	// Parser carries goldmark defaults.
	Parser interfaces.ParseOptions
}

// Service implements interfaces.PostService over a directory of markdown
// files. Loads are idempotent and pure given the same on-disk state; two
// concurrent cache misses may both hit the disk, which is accepted.
type Service struct {
	cfg      Config
	fsys     fs.FS
	parser   interfaces.MarkdownParser
	loader   *markdown.Loader
	snapshot *cache.Snapshot[[]interfaces.Post]
	logger   interfaces.Logger
	now      func() time.Time

	onInvalidate func()
}

var _ interfaces.PostService = (*Service)(nil)

// Option customises service construction.
type Option func(*Service)

// WithLogger attaches a logger; the default drops everything.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithParser overrides the markdown parser, e.g. to share a memoization
// cache across services.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithFS overrides the posts filesystem. Mainly a test seam; production
// callers rely on the directory configured in Config.
func WithFS(filesystem fs.FS) Option {
	return func(s *Service) {
		if filesystem != nil {
			s.fsys = filesystem
		}
	}
}

// WithInvalidateHook registers a callback fired whenever the snapshot is
// invalidated, so dependent caches (cached search results, say) drop at the
// same moment the post collection does.
func WithInvalidateHook(hook func()) Option {
	return func(s *Service) {
		if hook != nil {
			s.onInvalidate = hook
		}
	}
}

// WithClock overrides the time source used for TTL expiry and the
// future-date validation rule.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a post service rooted at cfg.PostsDir.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}

	s := &Service{
		cfg:    cfg,
		logger: logging.NoOp(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.fsys == nil {
		filesystem, err := prepareFilesystem(cfg.PostsDir)
		if err != nil {
			return nil, err
		}
		s.fsys = filesystem
	}
	if s.parser == nil {
		s.parser = markdown.NewGoldmarkParser(cfg.Parser)
	}
	s.loader = markdown.NewLoader(s.fsys, cfg.Pattern)
	s.snapshot = cache.NewSnapshot[[]interfaces.Post](cfg.CacheTTL, s.now)

	return s, nil
}

// Load returns the post collection, newest first. The snapshot cache serves
// repeat calls until the TTL elapses or Invalidate runs; failed loads are
// never cached.
func (s *Service) Load(ctx context.Context) ([]interfaces.Post, error) {
	if s.cfg.CacheEnabled {
		if cached, ok := s.snapshot.Get(); ok {
			return cached, nil
		}
	}

	loaded, err := s.loadFromDisk(ctx)
	if err != nil {
		return nil, err
	}

	if s.cfg.CacheEnabled {
		s.snapshot.Set(loaded)
	}
	return loaded, nil
}

// GetBySlug returns the post with the given slug from the loaded collection.
func (s *Service) GetBySlug(ctx context.Context, slug string) (interfaces.Post, error) {
	loaded, err := s.Load(ctx)
	if err != nil {
		return interfaces.Post{}, err
	}
	for _, post := range loaded {
		if post.Slug == slug {
			return post, nil
		}
	}
	return interfaces.Post{}, wrapNotFound(slug)
}

// Invalidate clears the snapshot so the next Load reflects on-disk changes
// instead of serving stale data for up to the full TTL window. The registered
// invalidation hook, if any, fires after the snapshot is cleared.
func (s *Service) Invalidate() {
	s.snapshot.Invalidate()
	if s.onInvalidate != nil {
		s.onInvalidate()
	}
}

// loadFromDisk runs the full pipeline. When a non-empty directory yields zero
// posts because every file failed, one retry runs after a fixed delay; the
// bounded loop guards against a transient read race without masking repeated
// failure.
func (s *Service) loadFromDisk(ctx context.Context) ([]interfaces.Post, error) {
	const maxAttempts = 2

	var firstFailure error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		files, err := s.loader.Files(ctx)
		if err != nil {
			return nil, wrapReadError(err)
		}
		if len(files) == 0 {
			return []interfaces.Post{}, nil
		}

		loaded, built, failures := s.buildPosts(files)
		for _, failure := range failures {
			logging.WithPostContext(s.logger, failure.name, "").Error("post load failed",
				"error", failure.err,
			)
		}

		if len(failures) > 0 && firstFailure == nil {
			firstFailure = failures[0].err
		}

		// Drafts filtered from the result still count as successes, so a
		// drafts-only directory with one broken file is a partial failure,
		// not a reason to retry.
		if built > 0 || len(failures) == 0 {
			return s.sortPosts(loaded), nil
		}

		if attempt < maxAttempts {
			// A whole directory failing at once usually means a transient
			// race with a writer, but it can also hide a misconfigured
			// posts directory; the warning keeps that visible.
			s.logger.Warn("all posts failed to load, retrying once",
				"posts_dir", s.cfg.PostsDir,
				"delay", s.cfg.RetryDelay.String(),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.cfg.RetryDelay):
			}
		}
	}

	return nil, wrapLoadError(firstFailure)
}

type fileFailure struct {
	name string
	err  error
}

// buildPosts partitions files into assembled posts and per-file failures.
// Failures are recoverable here: they are logged by the caller and excluded
// from the result set. The built count includes drafts, which assemble
// successfully even when the configuration drops them from the result.
func (s *Service) buildPosts(files []markdown.FileResult) ([]interfaces.Post, int, []fileFailure) {
	loaded := make([]interfaces.Post, 0, len(files))
	built := 0
	var failures []fileFailure

	for _, file := range files {
		if file.Err != nil {
			failures = append(failures, fileFailure{name: file.Name, err: wrapReadError(file.Err)})
			continue
		}

		post, err := s.buildPost(file.Name, file.Source)
		if err != nil {
			failures = append(failures, fileFailure{name: file.Name, err: err})
			continue
		}

		built++
		if post.Draft && !s.cfg.IncludeDrafts {
			continue
		}
		loaded = append(loaded, post)
	}

	return loaded, built, failures
}

// buildPost runs a single file through parse, validation, and assembly. The
// resulting Post is immutable; reloading the file produces a new value.
func (s *Service) buildPost(name string, source []byte) (interfaces.Post, error) {
	raw, body, err := markdown.SplitFrontMatter(source)
	if err != nil {
		return interfaces.Post{}, wrapParseError(err)
	}

	fallback, err := markdown.FallbackSlug(name)
	if err != nil {
		return interfaces.Post{}, wrapParseError(fmt.Errorf("derive slug from %s: %w", name, err))
	}

	meta, err := markdown.ValidateFrontMatter(raw, fallback, s.now())
	if err != nil {
		return interfaces.Post{}, wrapValidationError(err)
	}
	if err := markdown.ValidateBody(body); err != nil {
		return interfaces.Post{}, wrapValidationError(err)
	}
	if _, err := markdown.ValidateImageRefs(body); err != nil {
		return interfaces.Post{}, wrapValidationError(err)
	}

	html, err := s.parser.Parse(body)
	if err != nil {
		return interfaces.Post{}, wrapRenderError(err)
	}

	return interfaces.Post{
		PostMeta:      meta,
		Content:       string(html),
		FormattedDate: formatDisplayDate(meta.Date),
	}, nil
}

// sortPosts orders by date descending. The sort is stable so equal dates
// keep the loader's enumeration order.
func (s *Service) sortPosts(loaded []interfaces.Post) []interfaces.Post {
	sort.SliceStable(loaded, func(i, j int) bool {
		// ISO dates compare correctly as strings.
		return loaded[i].Date > loaded[j].Date
	})
	return loaded
}

func formatDisplayDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format(displayDateLayout)
}

func prepareFilesystem(dir string) (fs.FS, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, wrapReadError(fmt.Errorf("stat posts dir %s: %w", dir, err))
	}
	return os.DirFS(dir), nil
}
