package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrPostsDirRequired indicates the content section is missing its source directory.
var ErrPostsDirRequired = errors.New("blog config: posts directory is required")

// ErrCacheTTLInvalid rejects negative cache TTLs.
var ErrCacheTTLInvalid = errors.New("blog config: cache ttl must be zero or positive")

// ErrItemsPerPageInvalid rejects non-positive page sizes.
var ErrItemsPerPageInvalid = errors.New("blog config: items per page must be positive")

// ErrGeneratorOutputDirRequired is returned when the generator is enabled without an output directory.
var ErrGeneratorOutputDirRequired = errors.New("blog config: generator output directory is required when generator is enabled")

// ErrGeneratorBaseURLRequired is returned when the generator is enabled without a site base URL.
var ErrGeneratorBaseURLRequired = errors.New("blog config: generator base url is required when generator is enabled")

var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the blog module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Content    ContentConfig
	Cache      CacheConfig
	Pagination PaginationConfig
	Search     SearchConfig
	Markdown   MarkdownConfig
	Generator  GeneratorConfig
	Logging    LoggingConfig
	Features   Features
}

// ContentConfig captures configuration for the post loading pipeline.
type ContentConfig struct {
	// PostsDir is the directory holding markdown posts. Enumeration is
	// non-recursive.
	PostsDir string
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
	// IncludeDrafts exposes draft posts through the loader.
	IncludeDrafts bool
	// RetryDelay is the pause before the single retry taken when every file
	// in a non-empty directory failed to load.
	RetryDelay time.Duration
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// PaginationConfig controls default page slicing.
type PaginationConfig struct {
	ItemsPerPage int
}

// SearchConfig controls the search result cache.
type SearchConfig struct {
	CacheTTL time.Duration
}

// MarkdownConfig carries parser defaults passed to the goldmark engine.
type MarkdownConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// GeneratorConfig controls static site exports.
type GeneratorConfig struct {
	Enabled         bool
	OutputDir       string
	BaseURL         string
	SiteTitle       string
	SiteDescription string
	CleanBuild      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeed    bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Generator bool
	Logger    bool
}

// DefaultConfig returns the baseline configuration used by the module façade
// and the CLI when no overrides are supplied.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			PostsDir:   "posts",
			Pattern:    "*.md",
			RetryDelay: time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Pagination: PaginationConfig{
			ItemsPerPage: 10,
		},
		Search: SearchConfig{
			CacheTTL: time.Minute,
		},
		Markdown: MarkdownConfig{},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			BaseURL:         "http://localhost",
			CleanBuild:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeed:    true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.PostsDir) == "" {
		return ErrPostsDirRequired
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Search.CacheTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Pagination.ItemsPerPage < 1 {
		return ErrItemsPerPageInvalid
	}
	if cfg.Generator.Enabled || cfg.Features.Generator {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
		if strings.TrimSpace(cfg.Generator.BaseURL) == "" {
			return ErrGeneratorBaseURLRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
