package main

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Built-in layouts used when the templates directory has no override. They
// keep `blog build` useful out of the box; real sites bring their own
// index.html, post.html, and tag.html.
var builtinTemplates = map[string]string{
	"index": `<!DOCTYPE html>
<html>
<head><title>{{ .site.title }}</title></head>
<body>
<h1>{{ .site.title }}</h1>
{{ range .posts }}<article><h2><a href="/posts/{{ .Slug }}">{{ .Title }}</a></h2><time>{{ .FormattedDate }}</time></article>
{{ end }}
</body>
</html>
`,
	"post": `<!DOCTYPE html>
<html>
<head><title>{{ .post.Title }} - {{ .site.title }}</title></head>
<body>
<article>
<h1>{{ .post.Title }}</h1>
<time>{{ .post.FormattedDate }}</time>
{{ .post.Content | raw }}
</article>
</body>
</html>
`,
	"tag": `<!DOCTYPE html>
<html>
<head><title>{{ .tag }} - {{ .site.title }}</title></head>
<body>
<h1>{{ .tag }} ({{ .count }})</h1>
{{ range .posts }}<article><h2><a href="/posts/{{ .Slug }}">{{ .Title }}</a></h2></article>
{{ end }}
</body>
</html>
`,
}

// siteRenderer satisfies interfaces.TemplateRenderer over html/template.
// Templates load lazily: a <name>.html file under the templates directory
// wins over the built-in layout of the same name.
type siteRenderer struct {
	dir string

	mu        sync.Mutex
	templates map[string]*template.Template
}

var _ interfaces.TemplateRenderer = (*siteRenderer)(nil)

func newSiteRenderer(dir string) (*siteRenderer, error) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			return nil, fmt.Errorf("templates path %s is not a directory", dir)
		}
	}
	return &siteRenderer{
		dir:       dir,
		templates: map[string]*template.Template{},
	}, nil
}

func (r *siteRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	tpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	if err := tpl.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	rendered := builder.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return rendered, err
		}
	}
	return rendered, nil
}

func (r *siteRenderer) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	tpl, err := template.New("inline").Funcs(templateFuncs()).Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("parse inline template: %w", err)
	}
	var builder strings.Builder
	if err := tpl.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("render inline template: %w", err)
	}
	rendered := builder.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return rendered, err
		}
	}
	return rendered, nil
}

func (r *siteRenderer) lookup(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tpl, ok := r.templates[name]; ok {
		return tpl, nil
	}

	source := builtinTemplates[name]
	if r.dir != "" {
		candidate := filepath.Join(r.dir, name+".html")
		if data, err := os.ReadFile(candidate); err == nil {
			source = string(data)
		}
	}
	if source == "" {
		return nil, fmt.Errorf("no template named %q", name)
	}

	tpl, err := template.New(name).Funcs(templateFuncs()).Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	r.templates[name] = tpl
	return tpl, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// Post content is sanitized upstream; render it as markup.
		"raw": func(value string) template.HTML {
			return template.HTML(value)
		},
	}
}
