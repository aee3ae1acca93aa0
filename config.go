package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

// Config aggregates feature flags and adapter bindings for the blog module.
type Config = runtimeconfig.Config

// ContentConfig captures configuration for the post loading pipeline.
type ContentConfig = runtimeconfig.ContentConfig

// CacheConfig captures cache behaviour toggles.
type CacheConfig = runtimeconfig.CacheConfig

// PaginationConfig controls default page slicing.
type PaginationConfig = runtimeconfig.PaginationConfig

// SearchConfig controls the search result cache.
type SearchConfig = runtimeconfig.SearchConfig

// MarkdownConfig carries parser defaults.
type MarkdownConfig = runtimeconfig.MarkdownConfig

// GeneratorConfig controls static site exports.
type GeneratorConfig = runtimeconfig.GeneratorConfig

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig = runtimeconfig.LoggingConfig

// Features toggles module functionality.
type Features = runtimeconfig.Features

// DefaultConfig returns the baseline configuration used by the module and
// the CLI when no overrides are supplied.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// Configuration sentinels, re-exported so hosts can branch on them with
// errors.Is without importing internal packages.
var (
	ErrPostsDirRequired           = runtimeconfig.ErrPostsDirRequired
	ErrCacheTTLInvalid            = runtimeconfig.ErrCacheTTLInvalid
	ErrItemsPerPageInvalid        = runtimeconfig.ErrItemsPerPageInvalid
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorBaseURLRequired   = runtimeconfig.ErrGeneratorBaseURLRequired
)
