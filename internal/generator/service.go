package generator

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/pagination"
	"github.com/goliatone/go-blog/internal/tags"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled  = errors.New("generator: service disabled")
	errPostsRequired    = errors.New("generator: post service is required")
	errRendererRequired = errors.New("generator: template renderer is required")
	errStorageRequired  = errors.New("generator: storage is required")
)

// Template names the renderer must resolve.
const (
	templateIndex = "index"
	templatePost  = "post"
	templateTag   = "tag"
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	SiteTitle       string
	SiteDescription string
	PerPage         int
	CleanBuild      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeed    bool
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Posts    interfaces.PostService
	Renderer interfaces.TemplateRenderer
	Storage  Storage
	Logger   interfaces.Logger
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID     uuid.UUID
	GeneratedAt time.Time
	PagesBuilt  int
	Artifacts   []string
	Duration    time.Duration
}

// NewService wires a generator with the provided configuration and
// dependencies.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	if deps.Posts == nil {
		return nil, errPostsRequired
	}
	if deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if deps.Storage == nil {
		return nil, errStorageRequired
	}
	if cfg.PerPage < 1 {
		cfg.PerPage = 10
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		now:    time.Now,
	}, nil
}

// NewDisabledService returns a Service failing all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type disabledService struct{}

func (disabledService) Build(context.Context) (*BuildResult, error) { return nil, ErrServiceDisabled }
func (disabledService) Clean(context.Context) error                 { return ErrServiceDisabled }

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
}

// renderedPage is a route plus the markup destined for its output file.
type renderedPage struct {
	Route   string
	Output  string
	Content string
}

// Build renders the whole site: paginated index pages, one page per post,
// one page per tag, then the auxiliary artifacts (feed, sitemap, robots)
// and the build manifest. Stale artifacts recorded by the previous manifest
// are removed when CleanBuild is set.
func (s *service) Build(ctx context.Context) (*BuildResult, error) {
	started := s.now()

	posts, err := s.deps.Posts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: load posts: %w", err)
	}

	pages, err := s.renderPages(posts)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC()
	manifest := newBuildManifest(generatedAt)

	ctx = logging.ContextWithFields(ctx, map[string]any{
		"build_id": manifest.BuildID.String(),
	})
	logger := s.logger.WithContext(ctx)

	previous, err := s.loadPreviousManifest(ctx)
	if err != nil {
		logger.Warn("previous manifest unreadable, treating build as clean slate", "error", err)
		previous = newBuildManifest(time.Time{})
	}

	writer := newArtifactWriter(s.deps.Storage, manifest)
	for _, page := range pages {
		if err := writer.Write(ctx, page.Output, []byte(page.Content)); err != nil {
			return nil, fmt.Errorf("generator: write %s: %w", page.Output, err)
		}
	}

	if s.cfg.GenerateFeed {
		feed := buildRSSFeed(s.cfg, posts, generatedAt)
		if err := writer.Write(ctx, "feed.xml", []byte(feed)); err != nil {
			return nil, fmt.Errorf("generator: write feed: %w", err)
		}
	}
	if s.cfg.GenerateSitemap {
		sitemap := buildSitemap(s.cfg.BaseURL, pages, generatedAt)
		if err := writer.Write(ctx, "sitemap.xml", []byte(sitemap)); err != nil {
			return nil, fmt.Errorf("generator: write sitemap: %w", err)
		}
	}
	if s.cfg.GenerateRobots {
		robots := buildRobots(s.cfg.BaseURL, s.cfg.GenerateSitemap)
		if err := writer.Write(ctx, "robots.txt", []byte(robots)); err != nil {
			return nil, fmt.Errorf("generator: write robots: %w", err)
		}
	}

	if s.cfg.CleanBuild {
		s.removeStale(ctx, previous, manifest)
	}

	if err := s.writeManifest(ctx, manifest); err != nil {
		return nil, err
	}

	result := &BuildResult{
		BuildID:     manifest.BuildID,
		GeneratedAt: generatedAt,
		PagesBuilt:  len(pages),
		Artifacts:   manifest.artifactPaths(),
		Duration:    s.now().Sub(started),
	}
	logger.Info("site build complete",
		"pages", result.PagesBuilt,
		"artifacts", len(result.Artifacts),
		"duration", result.Duration.String(),
	)
	return result, nil
}

// Clean removes every artifact listed in the current manifest, then the
// manifest itself.
func (s *service) Clean(ctx context.Context) error {
	manifest, err := s.loadPreviousManifest(ctx)
	if err != nil {
		return fmt.Errorf("generator: read manifest: %w", err)
	}
	for _, artifactPath := range manifest.artifactPaths() {
		if err := s.deps.Storage.Remove(ctx, artifactPath); err != nil {
			s.logger.Warn("stale artifact removal failed", "path", artifactPath, "error", err)
		}
	}
	if err := s.deps.Storage.Remove(ctx, manifestFileName); err != nil {
		s.logger.Warn("manifest removal failed", "error", err)
	}
	return nil
}

func (s *service) renderPages(posts []interfaces.Post) ([]renderedPage, error) {
	var pages []renderedPage

	// Index pages. Page 1 is the site root; later pages live under /page/N.
	first := pagination.Paginate(posts, 1, s.cfg.PerPage)
	totalPages := max(first.Pagination.TotalPages, 1)
	for page := 1; page <= totalPages; page++ {
		result := pagination.Paginate(posts, page, s.cfg.PerPage)
		route := "/"
		if page > 1 {
			route = fmt.Sprintf("/page/%d", page)
		}
		rendered, err := s.render(templateIndex, map[string]any{
			"site":       s.siteData(),
			"posts":      result.Items,
			"pagination": result.Pagination,
		})
		if err != nil {
			return nil, fmt.Errorf("generator: render index page %d: %w", page, err)
		}
		pages = append(pages, renderedPage{Route: route, Output: outputPath(route), Content: rendered})
	}

	for _, post := range posts {
		route := "/posts/" + post.Slug
		rendered, err := s.render(templatePost, map[string]any{
			"site": s.siteData(),
			"post": post,
		})
		if err != nil {
			return nil, fmt.Errorf("generator: render post %s: %w", post.Slug, err)
		}
		pages = append(pages, renderedPage{Route: route, Output: outputPath(route), Content: rendered})
	}

	for _, group := range tags.BuildIndex(posts) {
		route := "/tags/" + group.Name
		rendered, err := s.render(templateTag, map[string]any{
			"site":  s.siteData(),
			"tag":   group.Name,
			"posts": group.Posts,
			"count": group.Count,
		})
		if err != nil {
			return nil, fmt.Errorf("generator: render tag %s: %w", group.Name, err)
		}
		pages = append(pages, renderedPage{Route: route, Output: outputPath(route), Content: rendered})
	}

	return pages, nil
}

func (s *service) render(name string, data map[string]any) (string, error) {
	return s.deps.Renderer.Render(name, data)
}

func (s *service) siteData() map[string]any {
	return map[string]any{
		"title":       s.cfg.SiteTitle,
		"description": s.cfg.SiteDescription,
		"baseURL":     baseURLWithFallback(s.cfg.BaseURL),
	}
}

func (s *service) loadPreviousManifest(ctx context.Context) (*buildManifest, error) {
	data, err := s.deps.Storage.Read(ctx, manifestFileName)
	if err != nil {
		if errors.Is(err, ErrArtifactNotFound) {
			return newBuildManifest(time.Time{}), nil
		}
		return nil, err
	}
	return parseManifest(data)
}

func (s *service) writeManifest(ctx context.Context, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil {
		return fmt.Errorf("generator: marshal manifest: %w", err)
	}
	if err := s.deps.Storage.Write(ctx, manifestFileName, data); err != nil {
		return fmt.Errorf("generator: write manifest: %w", err)
	}
	return nil
}

// removeStale drops artifacts that the previous build produced and the
// current one did not. Failures are logged and skipped so a locked file
// cannot fail an otherwise complete build.
func (s *service) removeStale(ctx context.Context, previous, current *buildManifest) {
	for _, artifactPath := range previous.artifactPaths() {
		if _, ok := current.Artifacts[artifactPath]; ok {
			continue
		}
		if err := s.deps.Storage.Remove(ctx, artifactPath); err != nil {
			s.logger.WithContext(ctx).Warn("stale artifact removal failed", "path", artifactPath, "error", err)
		}
	}
}

// outputPath maps a route to its on-disk file, directory-index style.
func outputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), "/")
	if clean == "" {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}
