package noop_test

import (
	"testing"

	"github.com/goliatone/go-blog/internal/adapters/noop"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestAdaptersImplementInterfaces(t *testing.T) {
	var (
		_ interfaces.CacheProvider    = noop.Cache()
		_ interfaces.TemplateRenderer = noop.Template()
	)
}
