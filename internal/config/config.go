// Package config loads sitegen settings from an optional YAML file, .env
// files and the process environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "sitegen.yaml"

// Config represents the application configuration
type Config struct {
	Site  SiteConfig  `yaml:"site" json:"site"`
	Paths PathsConfig `yaml:"paths" json:"paths"`
	Build BuildConfig `yaml:"build" json:"build"`
}

// SiteConfig holds the values substituted into every page.
type SiteConfig struct {
	Host          string `yaml:"host" json:"host"`
	Name          string `yaml:"name" json:"name"`
	Description   string `yaml:"description,omitempty" json:"description"`
	LogoURL       string `yaml:"logo_url,omitempty" json:"logo_url"`
	AuthorName    string `yaml:"author_name,omitempty" json:"author_name"`
	TwitterHandle string `yaml:"twitter_handle,omitempty" json:"twitter_handle"`
}

// PathsConfig locates inputs and the output directory.
type PathsConfig struct {
	Posts     string `yaml:"posts" json:"posts"`
	Pages     string `yaml:"pages" json:"pages"`
	Assets    string `yaml:"assets" json:"assets"`
	Templates string `yaml:"templates" json:"templates"`
	Output    string `yaml:"output" json:"output"`
}

// BuildConfig tunes a build run.
type BuildConfig struct {
	IncludeDrafts bool          `yaml:"include_drafts" json:"include_drafts"`
	Parallelism   int           `yaml:"parallelism" json:"parallelism"`
	PluginTimeout time.Duration `yaml:"plugin_timeout,omitempty" json:"plugin_timeout"`
	Journal       string        `yaml:"journal,omitempty" json:"journal"`
	MetricsFile   string        `yaml:"metrics_file,omitempty" json:"metrics_file"`
}

// Environment variables that override the site section.
const (
	EnvHost               = "HOST"
	EnvWebsiteName        = "WEBSITE_NAME"
	EnvWebsiteDescription = "WEBSITE_DESCRIPTION"
	EnvWebsiteLogoURL     = "WEBSITE_LOGO_URL"
	EnvAuthorName         = "AUTHOR_NAME"
	EnvTwitterHandle      = "TWITTER_HANDLE"
)

// Load builds the configuration.
//
// Order of precedence, lowest first: defaults, the YAML file, then the
// environment (including .env and .env.local, which never override variables
// already set). ${VAR} references in the file are expanded. An empty
// configPath reads DefaultFile when present; an explicit path must exist.
// Load does not validate; call Validate.
func Load(configPath string) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, serrors.ConfigInvalid(".env", err)
	}

	cfg := &Config{}
	path := configPath
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied config path
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, serrors.ConfigInvalid(path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && configPath == "":
		// No file; defaults and environment only.
	case errors.Is(err, fs.ErrNotExist):
		return nil, serrors.ConfigNotFound(path)
	default:
		return nil, serrors.ConfigInvalid(path, err)
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.applyDefaults()
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Site.Host, EnvHost)
	set(&c.Site.Name, EnvWebsiteName)
	set(&c.Site.Description, EnvWebsiteDescription)
	set(&c.Site.LogoURL, EnvWebsiteLogoURL)
	set(&c.Site.AuthorName, EnvAuthorName)
	set(&c.Site.TwitterHandle, EnvTwitterHandle)
}

func (c *Config) applyDefaults() {
	def := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	def(&c.Paths.Posts, "posts")
	def(&c.Paths.Pages, "pages")
	def(&c.Paths.Assets, "public")
	def(&c.Paths.Templates, "templates")
	def(&c.Paths.Output, "build")
	c.Site.Host = strings.TrimRight(c.Site.Host, "/")
	if c.Site.LogoURL == "" && c.Site.Host != "" {
		c.Site.LogoURL = c.Site.Host + "/img/logo.png"
	}
	if c.Build.Parallelism < 1 {
		c.Build.Parallelism = 1
	}
}
