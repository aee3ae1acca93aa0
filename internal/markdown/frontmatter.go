package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

const frontMatterDelimiter = "---"

// SplitFrontMatter extracts the raw frontmatter mapping and the markdown body
// from the provided source bytes. The delimiter contract is strict: the first
// line must be exactly `---` and a closing `---` line must follow the YAML
// block. Any deviation fails with ErrInvalidFrontMatter; YAML syntax errors
// inside the block fail with ErrFrontMatterYAML.
func SplitFrontMatter(source []byte) (map[string]any, []byte, error) {
	source = bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))
	if err := checkDelimiters(source); err != nil {
		return nil, nil, err
	}

	raw := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFrontMatterYAML, err)
	}

	return raw, body, nil
}

// checkDelimiters enforces the open/close `---` contract before the lenient
// library parse runs.
func checkDelimiters(source []byte) error {
	lines := strings.Split(string(source), "\n")
	if len(lines) == 0 || lines[0] != frontMatterDelimiter {
		return fmt.Errorf("%w: missing opening delimiter", ErrInvalidFrontMatter)
	}
	for _, line := range lines[1:] {
		if line == frontMatterDelimiter {
			return nil
		}
	}
	return fmt.Errorf("%w: missing closing delimiter", ErrInvalidFrontMatter)
}

// asString coerces a YAML scalar into a string. Dates may arrive as time.Time
// depending on the YAML decoder, so those are normalised to YYYY-MM-DD.
func asString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case time.Time:
		return v.Format("2006-01-02"), true
	default:
		return "", false
	}
}

// asStringSlice coerces a YAML sequence into a string slice. Entries that are
// not scalars fail the coercion.
func asStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := asString(item)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func asBool(value any) (bool, bool) {
	b, ok := value.(bool)
	return b, ok
}
