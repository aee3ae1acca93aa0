package generator

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const maxFeedItems = 100

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	PublishedAt time.Time
}

// buildRSSFeed renders an RSS 2.0 document for the post collection. Input
// is assumed newest-first; the feed keeps that order and caps at
// maxFeedItems entries.
func buildRSSFeed(cfg Config, posts []interfaces.Post, generatedAt time.Time) string {
	items := make([]feedItem, 0, min(len(posts), maxFeedItems))
	for _, post := range posts {
		if len(items) == maxFeedItems {
			break
		}
		link := absoluteURL(cfg.BaseURL, "/posts/"+post.Slug)
		items = append(items, feedItem{
			Title:       post.Title,
			Summary:     normalizeWhitespace(post.Excerpt),
			Link:        link,
			GUID:        link,
			PublishedAt: publishedAt(post, generatedAt),
		})
	}

	baseLink := baseURLWithFallback(cfg.BaseURL)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(cfg.SiteTitle)))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(baseLink)))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(cfg.SiteDescription)))
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))
	for _, item := range items {
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf("      <guid>%s</guid>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", item.PublishedAt.UTC().Format(time.RFC1123Z)))
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

// publishedAt resolves a post's feed timestamp from its ISO date, falling
// back to the build time when the date fails to parse.
func publishedAt(post interfaces.Post, fallback time.Time) time.Time {
	if parsed, err := time.Parse("2006-01-02", post.Date); err == nil {
		return parsed
	}
	return fallback
}

func normalizeWhitespace(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	return strings.Join(strings.Fields(input), " ")
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}
