package posts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	slugpkg "github.com/goliatone/go-slug"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Create writes a new markdown post to the posts directory and invalidates
// the snapshot cache so the next read reflects the change. The slug derives
// from the title when absent; an existing file under the same slug is a
// conflict, never an overwrite.
func (s *Service) Create(ctx context.Context, input interfaces.CreatePostInput) (interfaces.Post, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.Post{}, err
	}

	meta, err := s.resolveCreateInput(input)
	if err != nil {
		return interfaces.Post{}, err
	}

	body := strings.TrimSpace(input.Body)
	source, err := serializePost(meta, body)
	if err != nil {
		return interfaces.Post{}, goerrors.Wrap(err, goerrors.CategoryInternal, "serialize post frontmatter").
			WithTextCode(writeFailedCode)
	}

	filename := meta.Slug + ".md"

	// Validate the assembled document through the same pipeline a reload
	// would use, so a created post can never fail the next Load.
	post, err := s.buildPost(filename, source)
	if err != nil {
		return interfaces.Post{}, err
	}

	path := filepath.Join(s.cfg.PostsDir, filename)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return interfaces.Post{}, goerrors.Wrap(ErrSlugExists, goerrors.CategoryConflict, "post already exists: "+meta.Slug).
				WithTextCode(slugConflictCode)
		}
		return interfaces.Post{}, goerrors.Wrap(err, goerrors.CategoryExternal, "write post file").
			WithTextCode(writeFailedCode)
	}

	_, writeErr := file.Write(source)
	closeErr := file.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return interfaces.Post{}, goerrors.Wrap(writeErr, goerrors.CategoryExternal, "write post file").
			WithTextCode(writeFailedCode)
	}

	s.Invalidate()
	logging.WithPostContext(s.logger, path, meta.Slug).Info("post created")

	return post, nil
}

// resolveCreateInput validates the request and fills defaults: today's date
// and a title-derived slug.
func (s *Service) resolveCreateInput(input interfaces.CreatePostInput) (interfaces.PostMeta, error) {
	errs := validation.Errors{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		errs["title"] = validation.NewError("blog.create.title_required", "title is required")
	}

	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = s.now().Format("2006-01-02")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" && title != "" {
		normalized, err := slugpkg.Normalize(title)
		if err != nil {
			errs["slug"] = validation.NewError("blog.create.slug_derivation", fmt.Sprintf("could not derive slug from title: %v", err))
		} else {
			slug = normalized
		}
	} else if slug != "" && !slugpkg.IsValid(slug) {
		errs["slug"] = validation.NewError("blog.create.slug_invalid", "slug must be kebab-case")
	}

	if len(errs) > 0 {
		return interfaces.PostMeta{}, goerrors.Wrap(errs, goerrors.CategoryValidation, "create post input invalid").
			WithTextCode(inputInvalidCode)
	}

	return interfaces.PostMeta{
		Title:   title,
		Date:    date,
		Slug:    slug,
		Excerpt: strings.TrimSpace(input.Excerpt),
		Tags:    append([]string(nil), input.Tags...),
		Draft:   input.Draft,
	}, nil
}

// serializePost renders the canonical on-disk form: a strict frontmatter
// block followed by the markdown body.
func serializePost(meta interfaces.PostMeta, body string) ([]byte, error) {
	encoded, err := yaml.Marshal(meta)
	if err != nil {
		return nil, err
	}

	var builder strings.Builder
	builder.WriteString("---\n")
	builder.Write(encoded)
	builder.WriteString("---\n\n")
	builder.WriteString(body)
	builder.WriteString("\n")
	return []byte(builder.String()), nil
}
