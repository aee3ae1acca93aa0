package di

import (
	"context"
	"io/fs"
	"time"

	"github.com/goliatone/go-blog/internal/adapters/noop"
	"github.com/goliatone/go-blog/internal/cache"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/search"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Container wires the blog services from configuration plus optional
// overrides. Services are constructed eagerly so configuration problems
// surface at startup, not on first request.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	cacheProvider  interfaces.CacheProvider
	template       interfaces.TemplateRenderer
	parser         interfaces.MarkdownParser
	postsFS        fs.FS
	clock          func() time.Time

	postsSvc     interfaces.PostService
	searchSvc    *search.Service
	generatorSvc generator.Service
	storage      generator.Storage
}

// Option overrides a default binding.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider binding.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithCacheProvider overrides the cache backing the search query cache.
func WithCacheProvider(provider interfaces.CacheProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.cacheProvider = provider
		}
	}
}

// WithTemplate overrides the template renderer used by the generator.
func WithTemplate(renderer interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		if renderer != nil {
			c.template = renderer
		}
	}
}

// WithMarkdownParser overrides the markdown parser binding.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithPostsFS overrides the posts filesystem. Test seam.
func WithPostsFS(filesystem fs.FS) Option {
	return func(c *Container) {
		if filesystem != nil {
			c.postsFS = filesystem
		}
	}
}

// WithClock overrides the time source used for cache expiry and the
// future-date validation rule. Test seam.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithPostService overrides the default post service binding.
func WithPostService(svc interfaces.PostService) Option {
	return func(c *Container) {
		if svc != nil {
			c.postsSvc = svc
		}
	}
}

// WithGeneratorService overrides the default generator binding.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		if svc != nil {
			c.generatorSvc = svc
		}
	}
}

// WithGeneratorStorage overrides where build artifacts land.
func WithGeneratorStorage(storage generator.Storage) Option {
	return func(c *Container) {
		if storage != nil {
			c.storage = storage
		}
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		template: noop.Template(),
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.loggerProvider == nil {
		provider, err := c.buildLoggerProvider()
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}
	if c.cacheProvider == nil {
		if cfg.Cache.Enabled {
			c.cacheProvider = cache.NewMemory(c.clock)
		} else {
			c.cacheProvider = noop.Cache()
		}
	}
	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{
			Extensions: cfg.Markdown.Extensions,
			Sanitize:   cfg.Markdown.Sanitize,
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
		}, markdown.WithParserLogger(logging.MarkdownLogger(c.loggerProvider)))
	}

	if c.postsSvc == nil {
		postOpts := []posts.Option{
			posts.WithLogger(logging.PostsLogger(c.loggerProvider)),
			posts.WithParser(c.parser),
			posts.WithClock(c.clock),
			// Cached search results are keyed by query alone, so they go
			// stale the moment the post snapshot does.
			posts.WithInvalidateHook(func() {
				if c.searchSvc != nil {
					c.searchSvc.Invalidate(context.Background())
				}
			}),
		}
		if c.postsFS != nil {
			postOpts = append(postOpts, posts.WithFS(c.postsFS))
		}
		svc, err := posts.NewService(posts.Config{
			PostsDir:      cfg.Content.PostsDir,
			Pattern:       cfg.Content.Pattern,
			IncludeDrafts: cfg.Content.IncludeDrafts,
			RetryDelay:    cfg.Content.RetryDelay,
			CacheEnabled:  cfg.Cache.Enabled,
			CacheTTL:      cfg.Cache.DefaultTTL,
		}, postOpts...)
		if err != nil {
			return nil, err
		}
		c.postsSvc = svc
	}

	if c.searchSvc == nil {
		ranker := search.NewRanker(
			search.WithCacheProvider(c.cacheProvider),
			search.WithCacheTTL(cfg.Search.CacheTTL),
			search.WithLogger(logging.SearchLogger(c.loggerProvider)),
		)
		c.searchSvc = search.NewService(c.postsSvc, ranker)
	}

	if c.generatorSvc == nil {
		svc, err := c.buildGenerator()
		if err != nil {
			return nil, err
		}
		c.generatorSvc = svc
	}

	return c, nil
}

func (c *Container) buildLoggerProvider() (interfaces.LoggerProvider, error) {
	if !c.Config.Features.Logger {
		return noopProvider{}, nil
	}
	switch c.Config.Logging.Provider {
	case "noop":
		return noopProvider{}, nil
	default:
		return gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
	}
}

func (c *Container) buildGenerator() (generator.Service, error) {
	cfg := c.Config.Generator
	if !cfg.Enabled && !c.Config.Features.Generator {
		return generator.NewDisabledService(), nil
	}

	storage := c.storage
	if storage == nil {
		fsStorage, err := generator.NewFilesystemStorage(cfg.OutputDir)
		if err != nil {
			return nil, err
		}
		storage = fsStorage
	}

	return generator.NewService(generator.Config{
		OutputDir:       cfg.OutputDir,
		BaseURL:         cfg.BaseURL,
		SiteTitle:       cfg.SiteTitle,
		SiteDescription: cfg.SiteDescription,
		PerPage:         c.Config.Pagination.ItemsPerPage,
		CleanBuild:      cfg.CleanBuild,
		GenerateSitemap: cfg.GenerateSitemap,
		GenerateRobots:  cfg.GenerateRobots,
		GenerateFeed:    cfg.GenerateFeed,
	}, generator.Dependencies{
		Posts:    c.postsSvc,
		Renderer: c.template,
		Storage:  storage,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
	})
}

// PostService returns the configured post service.
func (c *Container) PostService() interfaces.PostService {
	return c.postsSvc
}

// SearchService returns the configured search service.
func (c *Container) SearchService() interfaces.SearchService {
	return c.searchSvc
}

// GeneratorService returns the configured generator service.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// LoggerProvider returns the active logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Invalidate clears the post snapshot and cached search results, forcing
// the next read to reload from disk.
func (c *Container) Invalidate() {
	c.postsSvc.Invalidate()
	if c.searchSvc != nil {
		c.searchSvc.Invalidate(context.Background())
	}
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }
