package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

type stubPosts struct {
	posts []interfaces.Post
	err   error
}

func (s *stubPosts) Load(context.Context) ([]interfaces.Post, error) {
	return s.posts, s.err
}

func (s *stubPosts) GetBySlug(context.Context, string) (interfaces.Post, error) {
	return interfaces.Post{}, nil
}

func (s *stubPosts) Create(context.Context, interfaces.CreatePostInput) (interfaces.Post, error) {
	return interfaces.Post{}, nil
}

func (s *stubPosts) Invalidate() {}

// echoRenderer emits one line naming the template so tests can assert on
// routing without a template engine.
type echoRenderer struct{}

func (echoRenderer) Render(name string, data any, _ ...io.Writer) (string, error) {
	return fmt.Sprintf("template=%s", name), nil
}

func (echoRenderer) RenderString(templateContent string, data any, _ ...io.Writer) (string, error) {
	return templateContent, nil
}

type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (m *memoryStorage) Write(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *memoryStorage) Read(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	return data, nil
}

func (m *memoryStorage) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *memoryStorage) has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

func samplePosts() []interfaces.Post {
	return []interfaces.Post{
		{
			PostMeta: interfaces.PostMeta{
				Title:   "Newer & Better",
				Slug:    "newer-better",
				Date:    "2025-02-01",
				Excerpt: "The   second post.",
				Tags:    []string{"go"},
			},
			Content: "<p>second</p>",
		},
		{
			PostMeta: interfaces.PostMeta{
				Title: "First Post",
				Slug:  "first-post",
				Date:  "2025-01-01",
				Tags:  []string{"go", "notes"},
			},
			Content: "<p>first</p>",
		},
	}
}

func newTestGenerator(t *testing.T, cfg Config, posts []interfaces.Post, storage Storage) Service {
	t.Helper()
	svc, err := NewService(cfg, Dependencies{
		Posts:    &stubPosts{posts: posts},
		Renderer: echoRenderer{},
		Storage:  storage,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestBuildWritesPagesAndArtifacts(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestGenerator(t, Config{
		BaseURL:         "https://blog.example.com",
		SiteTitle:       "Example Blog",
		GenerateFeed:    true,
		GenerateSitemap: true,
		GenerateRobots:  true,
	}, samplePosts(), storage)

	result, err := svc.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// 1 index + 2 posts + 2 tags.
	if result.PagesBuilt != 5 {
		t.Fatalf("expected 5 pages, got %d", result.PagesBuilt)
	}

	for _, path := range []string{
		"index.html",
		"posts/newer-better/index.html",
		"posts/first-post/index.html",
		"tags/go/index.html",
		"tags/notes/index.html",
		"feed.xml",
		"sitemap.xml",
		"robots.txt",
		manifestFileName,
	} {
		if !storage.has(path) {
			t.Fatalf("expected artifact %s", path)
		}
	}
}

func TestBuildSpillsIndexOntoExtraPages(t *testing.T) {
	posts := make([]interfaces.Post, 0, 12)
	for i := range 12 {
		posts = append(posts, interfaces.Post{
			PostMeta: interfaces.PostMeta{
				Title: fmt.Sprintf("Post %02d", i),
				Slug:  fmt.Sprintf("post-%02d", i),
				Date:  "2025-01-01",
			},
		})
	}

	storage := newMemoryStorage()
	svc := newTestGenerator(t, Config{PerPage: 5}, posts, storage)

	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, path := range []string{"index.html", "page/2/index.html", "page/3/index.html"} {
		if !storage.has(path) {
			t.Fatalf("expected paginated index %s", path)
		}
	}
	if storage.has("page/1/index.html") {
		t.Fatal("page 1 must be the site root, not /page/1")
	}
}

func TestBuildFeedContent(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestGenerator(t, Config{
		BaseURL:      "https://blog.example.com/",
		SiteTitle:    "Example <Blog>",
		GenerateFeed: true,
	}, samplePosts(), storage)

	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	feed, err := storage.Read(context.Background(), "feed.xml")
	if err != nil {
		t.Fatalf("read feed: %v", err)
	}
	content := string(feed)

	if !strings.Contains(content, "<title>Example &lt;Blog&gt;</title>") {
		t.Fatalf("expected escaped channel title, got:\n%s", content)
	}
	if !strings.Contains(content, "<title>Newer &amp; Better</title>") {
		t.Fatalf("expected escaped item title, got:\n%s", content)
	}
	if !strings.Contains(content, "<link>https://blog.example.com/posts/newer-better</link>") {
		t.Fatalf("expected absolute item link, got:\n%s", content)
	}
	if !strings.Contains(content, "<description>The second post.</description>") {
		t.Fatalf("expected collapsed excerpt, got:\n%s", content)
	}

	first := strings.Index(content, "newer-better")
	second := strings.Index(content, "first-post")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected newest-first item order, got:\n%s", content)
	}
}

func TestBuildFeedCapsItems(t *testing.T) {
	posts := make([]interfaces.Post, 0, maxFeedItems+20)
	for i := range maxFeedItems + 20 {
		posts = append(posts, interfaces.Post{
			PostMeta: interfaces.PostMeta{
				Title: fmt.Sprintf("Post %03d", i),
				Slug:  fmt.Sprintf("post-%03d", i),
				Date:  "2025-01-01",
			},
		})
	}

	feed := buildRSSFeed(Config{SiteTitle: "T"}, posts, time.Now())
	if got := strings.Count(feed, "<item>"); got != maxFeedItems {
		t.Fatalf("expected %d items, got %d", maxFeedItems, got)
	}
}

func TestBuildSitemapSortedAndDeduped(t *testing.T) {
	pages := []renderedPage{
		{Route: "/posts/zeta"},
		{Route: "/posts/alpha"},
		{Route: "/posts/alpha"},
		{Route: ""},
	}

	sitemap := buildSitemap("https://blog.example.com", pages, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	if got := strings.Count(sitemap, "<loc>https://blog.example.com/posts/alpha</loc>"); got != 1 {
		t.Fatalf("expected deduped entry, got %d occurrences", got)
	}
	root := strings.Index(sitemap, "<loc>https://blog.example.com/</loc>")
	alpha := strings.Index(sitemap, "<loc>https://blog.example.com/posts/alpha</loc>")
	zeta := strings.Index(sitemap, "<loc>https://blog.example.com/posts/zeta</loc>")
	if root < 0 || alpha < 0 || zeta < 0 || root > alpha || alpha > zeta {
		t.Fatalf("expected sorted locations, got:\n%s", sitemap)
	}
	if !strings.Contains(sitemap, "<lastmod>2025-03-01T00:00:00Z</lastmod>") {
		t.Fatalf("expected RFC3339 lastmod, got:\n%s", sitemap)
	}
}

func TestBuildRobots(t *testing.T) {
	robots := buildRobots("https://blog.example.com", true)
	if !strings.Contains(robots, "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Fatalf("expected sitemap reference, got:\n%s", robots)
	}

	robots = buildRobots("https://blog.example.com", false)
	if strings.Contains(robots, "Sitemap:") {
		t.Fatalf("expected no sitemap reference, got:\n%s", robots)
	}
}

func TestCleanBuildRemovesStaleArtifacts(t *testing.T) {
	storage := newMemoryStorage()
	posts := samplePosts()
	svc := newTestGenerator(t, Config{CleanBuild: true}, posts, storage)

	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if !storage.has("posts/first-post/index.html") {
		t.Fatal("expected first build to write the post page")
	}

	// Drop one post and rebuild; its page is now stale.
	trimmed := newTestGenerator(t, Config{CleanBuild: true}, posts[:1], storage)
	if _, err := trimmed.Build(context.Background()); err != nil {
		t.Fatalf("second Build: %v", err)
	}

	if storage.has("posts/first-post/index.html") {
		t.Fatal("expected stale post page to be removed")
	}
	if storage.has("tags/notes/index.html") {
		t.Fatal("expected stale tag page to be removed")
	}
	if !storage.has("posts/newer-better/index.html") {
		t.Fatal("expected surviving post page to remain")
	}
}

func TestCleanRemovesManifestArtifacts(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestGenerator(t, Config{GenerateRobots: true}, samplePosts(), storage)

	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := svc.Clean(context.Background()); err != nil {
		t.Fatalf("Clean: %v", err)
	}

	for _, path := range []string{"index.html", "robots.txt", manifestFileName} {
		if storage.has(path) {
			t.Fatalf("expected %s to be removed", path)
		}
	}
}

func TestManifestRoundTrip(t *testing.T) {
	manifest := newBuildManifest(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	manifest.record("index.html", "abc", 10)
	manifest.record("feed.xml", "def", 20)

	data, err := manifest.marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("expected valid JSON manifest")
	}

	parsed, err := parseManifest(data)
	if err != nil {
		t.Fatalf("parseManifest: %v", err)
	}
	if parsed.BuildID != manifest.BuildID {
		t.Fatalf("expected build id %s, got %s", manifest.BuildID, parsed.BuildID)
	}
	if len(parsed.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(parsed.Artifacts))
	}
	if parsed.Artifacts["feed.xml"].Checksum != "def" {
		t.Fatalf("unexpected artifact entry: %+v", parsed.Artifacts["feed.xml"])
	}
}

func TestDisabledService(t *testing.T) {
	svc := NewDisabledService()
	if _, err := svc.Build(context.Background()); err != ErrServiceDisabled {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

type contextFieldLogger struct {
	mu     sync.Mutex
	fields []map[string]any
}

func (l *contextFieldLogger) Trace(string, ...any) {}
func (l *contextFieldLogger) Debug(string, ...any) {}
func (l *contextFieldLogger) Info(string, ...any)  {}
func (l *contextFieldLogger) Warn(string, ...any)  {}
func (l *contextFieldLogger) Error(string, ...any) {}
func (l *contextFieldLogger) Fatal(string, ...any) {}

func (l *contextFieldLogger) WithContext(ctx context.Context) interfaces.Logger {
	if fields := logging.ContextFields(ctx); len(fields) > 0 {
		l.mu.Lock()
		l.fields = append(l.fields, fields)
		l.mu.Unlock()
	}
	return l
}

func TestBuildScopesLogContextToBuildID(t *testing.T) {
	logger := &contextFieldLogger{}
	svc, err := NewService(Config{
		BaseURL: "https://blog.example.com",
	}, Dependencies{
		Posts:    &stubPosts{posts: samplePosts()},
		Renderer: echoRenderer{},
		Storage:  newMemoryStorage(),
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(logger.fields) == 0 {
		t.Fatal("expected the build to annotate its log context")
	}
	if logger.fields[0]["build_id"] != result.BuildID.String() {
		t.Fatalf("expected build_id %s in log context, got %v", result.BuildID, logger.fields[0])
	}
}
