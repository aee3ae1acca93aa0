package search

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/cache"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Field weights. Title hits dominate, body mentions barely register.
const (
	titleWeight   = 3.0
	tagsWeight    = 2.0
	excerptWeight = 1.0
	contentWeight = 0.5
)

const defaultCacheTTL = time.Minute

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Ranker scores posts against free-text queries. Scoring is additive: each
// query term contributes its field weight for every field that contains the
// term as a substring. Results keep only matching posts, sorted by
// descending score; equal scores keep the input order.
type Ranker struct {
	cache    interfaces.CacheProvider
	cacheTTL time.Duration
	logger   interfaces.Logger
}

// Option customises ranker construction.
type Option func(*Ranker)

// WithCacheProvider replaces the default in-process query cache.
func WithCacheProvider(provider interfaces.CacheProvider) Option {
	return func(r *Ranker) {
		if provider != nil {
			r.cache = provider
		}
	}
}

// WithCacheTTL bounds how long a query's results are served from cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Ranker) {
		if ttl > 0 {
			r.cacheTTL = ttl
		}
	}
}

// WithLogger attaches a logger; the default drops everything.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Ranker) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRanker constructs a ranker with an in-process query cache.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		cacheTTL: defaultCacheTTL,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = cache.NewMemory(nil)
	}
	return r
}

// Search ranks posts against query. An empty or whitespace-only query
// returns an empty slice, not the full collection. Results for a normalized
// query are cached; the cache key ignores the post collection, so callers
// must invalidate through InvalidateCache when posts change.
func (r *Ranker) Search(ctx context.Context, posts []interfaces.Post, query string) []interfaces.Post {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []interfaces.Post{}
	}

	key := strings.Join(terms, " ")
	if cached, err := r.cache.Get(ctx, key); err == nil && cached != nil {
		if results, ok := cached.([]interfaces.Post); ok {
			return results
		}
	}

	results := rank(posts, terms)

	if err := r.cache.Set(ctx, key, results, r.cacheTTL); err != nil {
		r.logger.Warn("search cache write failed", "query", key, "error", err)
	}
	return results
}

// InvalidateCache drops all cached query results. Call after the post
// collection changes.
func (r *Ranker) InvalidateCache(ctx context.Context) {
	if err := r.cache.Clear(ctx); err != nil {
		r.logger.Warn("search cache clear failed", "error", err)
	}
}

type scoredPost struct {
	post  interfaces.Post
	score float64
}

func rank(posts []interfaces.Post, terms []string) []interfaces.Post {
	scored := make([]scoredPost, 0, len(posts))

	for _, post := range posts {
		fields := []struct {
			text   string
			weight float64
		}{
			{normalize(post.Title), titleWeight},
			{normalize(strings.Join(post.Tags, " ")), tagsWeight},
			{normalize(post.Excerpt), excerptWeight},
			{normalize(stripHTML(post.Content)), contentWeight},
		}

		var score float64
		for _, term := range terms {
			for _, field := range fields {
				if strings.Contains(field.text, term) {
					score += field.weight
				}
			}
		}

		if score > 0 {
			scored = append(scored, scoredPost{post: post, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	results := make([]interfaces.Post, len(scored))
	for i, s := range scored {
		results[i] = s.post
	}
	return results
}

// stripHTML reduces rendered content to its text for substring matching, so
// queries never match tag names or attribute values.
func stripHTML(html string) string {
	return htmlTagPattern.ReplaceAllString(html, " ")
}

func normalize(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(strings.ToLower(text), " "))
}
