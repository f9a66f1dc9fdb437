// Package scaffold writes starter files: a new post and an example
// configuration.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
)

// ErrExists is returned when the target file is already present.
var ErrExists = errors.New("file already exists")

const postTemplate = `---
title: "New post title"
description: The description
keywords: keyword
# permalink: if-needed
date: {date}
# publish: draft
---

<section>

## First subtitle

Paragraph contents

</section>
`

// PostFileName is the name of the post created on date.
func PostFileName(date time.Time) string {
	return date.Format(content.DateLayout) + "-post-title.md"
}

// PostSource is the starter post dated date.
func PostSource(date time.Time) string {
	return strings.ReplaceAll(postTemplate, "{date}", date.Format(content.DateLayout))
}

// NewPost writes a starter post dated now into dir, creating dir when
// needed, and returns its path. An existing file is never overwritten.
func NewPost(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create posts directory: %w", err)
	}
	path := filepath.Join(dir, PostFileName(now))
	if err := writeExclusive(path, []byte(PostSource(now))); err != nil {
		return "", err
	}
	return path, nil
}

// Config writes an example configuration to path. An existing file is only
// replaced when force is set.
func Config(path string, force bool) error {
	example := config.Config{
		Site: config.SiteConfig{
			Host:        "http://localhost:8000",
			Name:        "My Blog",
			Description: "Notes and essays",
			AuthorName:  "Jane Doe",
		},
		Paths: config.PathsConfig{
			Posts:     "posts",
			Pages:     "pages",
			Assets:    "public",
			Templates: "templates",
			Output:    "build",
		},
		Build: config.BuildConfig{Parallelism: 4},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if force {
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		return nil
	}
	return writeExclusive(path, data)
}

func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) // #nosec G304 -- caller chooses the target
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
