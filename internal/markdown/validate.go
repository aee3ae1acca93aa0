package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	slugpkg "github.com/goliatone/go-slug"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	dateLayout    = "2006-01-02"
	maxTags       = 10
	minBodyLength = 20
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// imagePattern captures the URL of every markdown image reference, including
// those carrying an optional title segment.
var imagePattern = regexp.MustCompile(`!\[[^\]]*\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)

// schemePattern recognises absolute URL schemes (http:, https:, data:, ...).
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

var acceptedImageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".svg":  {},
	".avif": {},
}

// ValidateFrontMatter coerces and validates a raw frontmatter mapping into a
// PostMeta. fallbackSlug is used when the frontmatter omits one (typically the
// filename without extension). now anchors the future-date rule. Unknown keys
// are ignored for forward compatibility. Every rule failure carries a distinct
// validation code.
func ValidateFrontMatter(raw map[string]any, fallbackSlug string, now time.Time) (interfaces.PostMeta, error) {
	var meta interfaces.PostMeta
	errs := validation.Errors{}

	if draft, ok := asBool(raw["draft"]); ok {
		meta.Draft = draft
	}

	title, ok := asString(raw["title"])
	if !ok || strings.TrimSpace(title) == "" {
		errs["title"] = validation.NewError("blog.frontmatter.title_required", "title is required and must be non-empty")
	} else {
		meta.Title = strings.TrimSpace(title)
	}

	meta.Date = validateDate(raw["date"], meta.Draft, now, errs)
	meta.Slug = validateSlug(raw["slug"], fallbackSlug, errs)
	meta.Tags = validateTags(raw["tags"], errs)

	if excerpt, ok := asString(raw["excerpt"]); ok {
		meta.Excerpt = excerpt
	}
	if modified, ok := asString(raw["modified"]); ok {
		meta.Modified = modified
	}

	if len(errs) > 0 {
		return interfaces.PostMeta{}, errs
	}
	return meta, nil
}

func validateDate(value any, draft bool, now time.Time, errs validation.Errors) string {
	date, ok := asString(value)
	if !ok || strings.TrimSpace(date) == "" {
		errs["date"] = validation.NewError("blog.frontmatter.date_required", "date is required")
		return ""
	}
	if !datePattern.MatchString(date) {
		errs["date"] = validation.NewError("blog.frontmatter.date_format", "date must match YYYY-MM-DD")
		return ""
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		errs["date"] = validation.NewError("blog.frontmatter.date_invalid", "date is not a valid calendar date")
		return ""
	}
	if parsed.After(now) && !draft {
		errs["date"] = validation.NewError("blog.frontmatter.date_future", "future dates are only allowed for drafts")
		return ""
	}
	return date
}

func validateSlug(value any, fallback string, errs validation.Errors) string {
	slug, ok := asString(value)
	if !ok || strings.TrimSpace(slug) == "" {
		return fallback
	}
	if !slugpkg.IsValid(slug) {
		errs["slug"] = validation.NewError("blog.frontmatter.slug_invalid", "slug must be kebab-case")
		return ""
	}
	return slug
}

func validateTags(value any, errs validation.Errors) []string {
	if value == nil {
		return nil
	}
	tags, ok := asStringSlice(value)
	if !ok {
		errs["tags"] = validation.NewError("blog.frontmatter.tags_invalid", "tags must be a list of strings")
		return nil
	}
	if len(tags) > maxTags {
		errs["tags"] = validation.NewError("blog.frontmatter.tags_too_many", fmt.Sprintf("at most %d tags are allowed", maxTags))
		return nil
	}
	seen := map[string]struct{}{}
	for _, tag := range tags {
		if tag == "" {
			errs["tags"] = validation.NewError("blog.frontmatter.tags_empty_entry", "tags must not contain empty entries")
			return nil
		}
		if _, duplicate := seen[tag]; duplicate {
			errs["tags"] = validation.NewError("blog.frontmatter.tags_duplicate", "tags must not contain duplicates")
			return nil
		}
		seen[tag] = struct{}{}
	}
	return tags
}

// FallbackSlug derives a slug from a markdown filename by stripping the
// extension and normalising the remainder.
func FallbackSlug(filename string) (string, error) {
	base := strings.TrimSuffix(filename, ".md")
	base = strings.TrimSuffix(base, ".markdown")
	return slugpkg.Normalize(base)
}

// ValidateBody applies the markdown content rules: a minimum body length, a
// balanced number of triple-backtick fences, and balanced inline backticks
// outside fenced blocks.
func ValidateBody(body []byte) error {
	errs := validation.Errors{}
	text := string(body)

	if len(strings.TrimSpace(text)) < minBodyLength {
		errs["content"] = validation.NewError("blog.content.too_short", fmt.Sprintf("content must be at least %d characters", minBodyLength))
	}

	fences := strings.Count(text, "```")
	if fences%2 != 0 {
		errs["content"] = validation.NewError("blog.content.unclosed_code_block", "unclosed code block: odd number of ``` fences")
	} else if countInlineBackticks(text)%2 != 0 {
		errs["content"] = validation.NewError("blog.content.unclosed_inline_code", "unclosed inline code: odd number of ` backticks")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// countInlineBackticks counts single backticks outside fenced blocks. The
// text splits into segments on ``` markers; odd-indexed segments live inside
// fences and are skipped.
func countInlineBackticks(text string) int {
	segments := strings.Split(text, "```")
	count := 0
	for i, segment := range segments {
		if i%2 == 1 {
			continue
		}
		count += strings.Count(segment, "`")
	}
	return count
}

// ValidateImageRefs extracts every markdown image URL in document order.
// Relative paths (no leading slash and no URL scheme) and unsupported file
// extensions fail validation.
func ValidateImageRefs(body []byte) ([]string, error) {
	matches := imagePattern.FindAllStringSubmatch(string(body), -1)
	if len(matches) == 0 {
		return []string{}, nil
	}

	errs := validation.Errors{}
	urls := make([]string, 0, len(matches))
	for _, match := range matches {
		url := match[1]
		urls = append(urls, url)

		if !strings.HasPrefix(url, "/") && !schemePattern.MatchString(url) {
			errs["images"] = validation.NewError("blog.content.image_relative_path", fmt.Sprintf("image %q uses a relative path; use an absolute path or full URL", url))
			continue
		}
		if !hasAcceptedImageExtension(url) {
			errs["images"] = validation.NewError("blog.content.image_extension", fmt.Sprintf("image %q does not use an accepted image extension", url))
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return urls, nil
}

func hasAcceptedImageExtension(url string) bool {
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	dot := strings.LastIndex(trimmed, ".")
	if dot < 0 {
		return false
	}
	_, ok := acceptedImageExtensions[strings.ToLower(trimmed[dot:])]
	return ok
}
