// Package markdown implements the parsing half of the content pipeline:
// strict frontmatter splitting, frontmatter and body validation, image
// reference checks, and goldmark-based HTML rendering with memoization.
package markdown
