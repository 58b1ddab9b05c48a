// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// frontMatterDelimiter opens and closes the YAML block at the top of a post.
const frontMatterDelimiter = "---"

// Metadata is the validated front matter of a post.
type Metadata struct {
	Title   string   `yaml:"title"`
	Draft   bool     `yaml:"draft"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
}

// Validate checks the metadata against the post schema. Only the title is
// mandatory; tags are taken as written, draft defaults to false and summary to the empty string.
func (m Metadata) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required.Error("title is required")),
	)
}

// ParseFrontMatter splits raw post content into validated metadata and the
// markdown body. Content without a front-matter block has no title and
// therefore fails validation.
func ParseFrontMatter(file string, raw []byte) (Metadata, string, error) {
	block, body, err := splitFrontMatter(string(raw))
	if err != nil {
		return Metadata{}, "", &ValidationError{File: file, Err: err}
	}

	var meta Metadata
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return Metadata{}, "", &ValidationError{File: file, Err: err}
	}

	if err := meta.Validate(); err != nil {
		return Metadata{}, "", &ValidationError{File: file, Err: err}
	}
	return meta, body, nil
}

// splitFrontMatter separates the YAML block from the body. The block must
// start on the first line; a missing closing delimiter is an error.
func splitFrontMatter(raw string) (string, string, error) {
	raw = strings.TrimPrefix(raw, "\ufeff")
	lines := strings.Split(raw, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterDelimiter {
		return "", raw, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return "", "", errors.New("missing closing ---")
	}

	block := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimPrefix(body, "\r")
	body = strings.TrimPrefix(body, "\n")
	return block, body, nil
}
