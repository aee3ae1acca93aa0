package markdown

import "errors"

// ErrInvalidFrontMatter is returned when the frontmatter delimiter contract
// is broken: the file must open with a line exactly `---`, carry YAML, and
// close with a `---` line before the markdown body.
var ErrInvalidFrontMatter = errors.New("markdown: invalid frontmatter delimiters")

// ErrFrontMatterYAML wraps YAML syntax failures inside the delimited block.
var ErrFrontMatterYAML = errors.New("markdown: malformed frontmatter yaml")
