package runtimeconfig

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidatePostsDirRequired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.PostsDir = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrPostsDirRequired) {
		t.Fatalf("expected ErrPostsDirRequired, got %v", err)
	}
}

func TestValidateRejectsNegativeTTL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.DefaultTTL = -time.Second
	if err := cfg.Validate(); !errors.Is(err, ErrCacheTTLInvalid) {
		t.Fatalf("expected ErrCacheTTLInvalid, got %v", err)
	}
}

func TestValidateRejectsNonPositivePageSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pagination.ItemsPerPage = 0
	if err := cfg.Validate(); !errors.Is(err, ErrItemsPerPageInvalid) {
		t.Fatalf("expected ErrItemsPerPageInvalid, got %v", err)
	}
}

func TestValidateGeneratorRequiresOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = ""
	if err := cfg.Validate(); !errors.Is(err, ErrGeneratorOutputDirRequired) {
		t.Fatalf("expected ErrGeneratorOutputDirRequired, got %v", err)
	}
}

func TestValidateGeneratorRequiresBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Generator = true
	cfg.Generator.BaseURL = ""
	if err := cfg.Validate(); !errors.Is(err, ErrGeneratorBaseURLRequired) {
		t.Fatalf("expected ErrGeneratorBaseURLRequired, got %v", err)
	}
}

func TestValidateLoggingProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}
