package config

import (
	"net/url"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Validate checks the settings a build cannot run without. The returned
// error is a validation-category SiteError wrapping validation.Errors.
func (c *Config) Validate() error {
	errs := validation.Errors{}

	if err := validation.ValidateStruct(&c.Site,
		validation.Field(&c.Site.Host, validation.Required, validation.By(absoluteHTTPURL)),
		validation.Field(&c.Site.Name, validation.Required),
	); err != nil {
		errs["site"] = err
	}

	if err := validation.ValidateStruct(&c.Paths,
		validation.Field(&c.Paths.Posts, validation.Required),
		validation.Field(&c.Paths.Output, validation.Required, validation.By(notRoot)),
	); err != nil {
		errs["paths"] = err
	}

	if c.Build.PluginTimeout < 0 {
		errs["build"] = validation.Errors{
			"plugin_timeout": validation.NewError("sitegen.config.plugin_timeout_negative", "must not be negative"),
		}
	}

	if len(errs) > 0 {
		return serrors.Wrap(errs, serrors.CategoryValidation, serrors.SeverityFatal, "configuration invalid")
	}
	return nil
}

func absoluteHTTPURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("sitegen.config.host_invalid", "must be an absolute http(s) URL")
	}
	return nil
}

// notRoot rejects output directories that the build plugin must never erase.
func notRoot(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	switch filepath.Clean(s) {
	case ".", "..", string(filepath.Separator), "~":
		return validation.NewError("sitegen.config.output_unsafe", "must name a dedicated directory")
	}
	return nil
}
