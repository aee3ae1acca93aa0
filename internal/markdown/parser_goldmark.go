package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// GoldmarkParser implements interfaces.MarkdownParser using the goldmark
// engine. Parse results for the default options are memoized for the lifetime
// of the parser, keyed by the raw markdown source, so repeated loads of an
// unchanged post skip re-rendering.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
	logger         interfaces.Logger

	mu   sync.RWMutex
	memo map[string][]byte
}

// ParserOption customises parser construction.
type ParserOption func(*GoldmarkParser)

// WithParserLogger attaches a logger. Unrecognised extension names are
// reported through it instead of failing the parse.
func WithParserLogger(logger interfaces.Logger) ParserOption {
	return func(p *GoldmarkParser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewGoldmarkParser constructs a parser with sensible defaults (GFM
// extensions, hard wraps disabled, unsafe HTML allowed). Callers can override
// behaviour per invocation through ParseWithOptions; overridden calls bypass
// the memoization cache.
func NewGoldmarkParser(defaults interfaces.ParseOptions, opts ...ParserOption) *GoldmarkParser {
	p := &GoldmarkParser{
		defaultOptions: defaults,
		logger:         logging.NoOp(),
		memo:           map[string][]byte{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse satisfies interfaces.MarkdownParser by rendering Markdown into HTML
// using the parser's default configuration. Identical input returns the
// previously rendered HTML without recomputation.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	key := string(markdown)

	p.mu.RLock()
	cached, ok := p.memo[key]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	rendered, err := p.ParseWithOptions(markdown, p.defaultOptions)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.memo[key] = rendered
	p.mu.Unlock()

	return rendered, nil
}

// ParseWithOptions renders Markdown into HTML using the provided options. A
// fresh goldmark engine is built per call; option overrides are rare enough
// that pooling has not been worth the complexity.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	engine := newGoldmarkEngine(opts, p.logger)
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}

// newGoldmarkEngine builds a goldmark.Markdown configured based on the
// supplied parse options. The mapping is intentionally conservative;
// unsupported extension names are skipped with a warning.
func newGoldmarkEngine(opts interfaces.ParseOptions, logger interfaces.Logger) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions, logger)

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}

	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	// Treat both SafeMode and Sanitize as signals to avoid emitting raw HTML.
	if !opts.SafeMode && !opts.Sanitize {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}

	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string, logger interfaces.Logger) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			logger.Warn("unknown markdown extension skipped", "extension", key)
			continue
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}
