package posts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrPostNotFound  = errors.New("posts: post not found")
	ErrSlugExists    = errors.New("posts: slug already exists")
	ErrTitleRequired = errors.New("posts: title is required")
)

const (
	parseFailedCode  = "POST_PARSE_FAILED"
	invalidCode      = "POST_VALIDATION_FAILED"
	renderFailedCode = "POST_RENDER_FAILED"
	readFailedCode   = "POSTS_READ_FAILED"
	loadFailedCode   = "POSTS_LOAD_FAILED"
	notFoundCode     = "POST_NOT_FOUND"
	slugConflictCode = "POST_SLUG_CONFLICT"
	writeFailedCode  = "POST_WRITE_FAILED"
	inputInvalidCode = "POST_INPUT_INVALID"
)

func wrapParseError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "post parse failed").
		WithTextCode(parseFailedCode)
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "post validation failed").
		WithTextCode(invalidCode)
}

func wrapRenderError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "post render failed").
		WithTextCode(renderFailedCode)
}

func wrapReadError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "posts directory read failed").
		WithTextCode(readFailedCode)
}

// wrapLoadError marks the aggregate failure surfaced when every file in a
// non-empty posts directory failed to load. It wraps the first underlying
// file error.
func wrapLoadError(err error) error {
	if err == nil {
		return nil
	}
	wrapped := goerrors.Wrap(err, goerrors.CategoryInternal, "all posts failed to load")
	// Wrap keeps the category of an already wrapped source; the aggregate
	// always surfaces as internal no matter what the first file failed with.
	wrapped.Category = goerrors.CategoryInternal
	return wrapped.WithTextCode(loadFailedCode)
}

func wrapNotFound(slug string) error {
	return goerrors.Wrap(ErrPostNotFound, goerrors.CategoryNotFound, "post lookup failed: "+slug).
		WithTextCode(notFoundCode)
}
