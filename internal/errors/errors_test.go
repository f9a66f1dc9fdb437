package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSiteError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SiteError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestSiteError_WithContext(t *testing.T) {
	err := New(CategoryPlugin, SeverityFatal, "plugin failed").
		WithContext("plugin", "feed").
		WithContext("index", 5)

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["plugin"] != "feed" {
		t.Errorf("Context[plugin] = %v, want feed", err.Context["plugin"])
	}

	if err.Context["index"] != 5 {
		t.Errorf("Context[index] = %v, want 5", err.Context["index"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	ioErr := New(CategoryIO, SeverityFatal, "io error")
	wrapped := fmt.Errorf("outer: %w", ioErr)
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match io category", configErr, CategoryIO, false},
		{"wrapped io error matches io category", wrapped, CategoryIO, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory(plain) = %v, want %v", got, CategoryInternal)
	}
	if got := GetCategory(PluginFailed("posts", fmt.Errorf("boom"))); got != CategoryPlugin {
		t.Errorf("GetCategory(plugin) = %v, want %v", got, CategoryPlugin)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/path/to/sitegen.yaml")
		if err.Category != CategoryConfig {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfig)
		}
		if err.Severity != SeverityFatal {
			t.Errorf("Severity = %v, want %v", err.Severity, SeverityFatal)
		}
		if err.Context["path"] != "/path/to/sitegen.yaml" {
			t.Errorf("Context[path] = %v, want /path/to/sitegen.yaml", err.Context["path"])
		}
	})

	t.Run("PluginFailed", func(t *testing.T) {
		cause := fmt.Errorf("template missing")
		err := PluginFailed("homepage", cause)
		if err.Category != CategoryPlugin {
			t.Errorf("Category = %v, want %v", err.Category, CategoryPlugin)
		}
		if !stdErrors.Is(err, cause) {
			t.Errorf("Cause should match wrapped cause: %v", cause)
		}
		if err.Context["plugin"] != "homepage" {
			t.Errorf("Context[plugin] = %v, want homepage", err.Context["plugin"])
		}
	})

	t.Run("ContentRejected", func(t *testing.T) {
		err := ContentRejected("posts/a.md", fmt.Errorf("bad permalink"))
		if err.Category != CategoryContent {
			t.Errorf("Category = %v, want %v", err.Category, CategoryContent)
		}
		if err.Context["path"] != "posts/a.md" {
			t.Errorf("Context[path] = %v, want posts/a.md", err.Context["path"])
		}
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed("host", "must be an absolute URL")
		if err.Category != CategoryValidation {
			t.Errorf("Category = %v, want %v", err.Category, CategoryValidation)
		}
		if err.Context["field"] != "host" {
			t.Errorf("Context[field] = %v, want host", err.Context["field"])
		}
	})
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", fmt.Errorf("x"), 1},
		{"validation", ValidationFailed("host", "empty"), 2},
		{"config", ConfigNotFound("x.yaml"), 7},
		{"plugin", PluginFailed("feed", fmt.Errorf("x")), 11},
		{"io", DirectoryUnreadable("posts", fmt.Errorf("x")), 11},
		{"internal", InternalError("oops", nil), 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.ExitCodeFor(tc.err); got != tc.want {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)

	err := PluginFailed("feed", fmt.Errorf("template missing"))
	if got := quiet.FormatError(err); got != "plugin feed: template missing" {
		t.Errorf("FormatError() = %q", got)
	}
	if got := verbose.FormatError(err); got != err.Error() {
		t.Errorf("verbose FormatError() = %q, want %q", got, err.Error())
	}
	if got := quiet.FormatError(ConfigNotFound("x")); got != "configuration file not found" {
		t.Errorf("FormatError(config) = %q", got)
	}
	if got := quiet.FormatError(ConfigInvalid("x", fmt.Errorf("bad yaml"))); got != "configuration invalid: bad yaml" {
		t.Errorf("FormatError(config cause) = %q", got)
	}
	if got := quiet.FormatError(fmt.Errorf("plain")); got != "Error: plain" {
		t.Errorf("FormatError(plain) = %q", got)
	}
}
