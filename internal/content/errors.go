// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import "fmt"

// ValidationError reports a post whose front matter is missing, malformed,
// or does not match the metadata schema.
type ValidationError struct {
	File string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid front matter in %s: %v", e.File, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// InvalidSlugError reports a slug from which no publication date can be
// derived.
type InvalidSlugError struct {
	Slug   string
	Reason string
}

func (e *InvalidSlugError) Error() string {
	return fmt.Sprintf("invalid slug %q: %s", e.Slug, e.Reason)
}

// DuplicateSlugError reports two post files that map to the same slug,
// such as name.md next to name.markdown.
type DuplicateSlugError struct {
	Slug  string
	Files []string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("duplicate slug %q: %v", e.Slug, e.Files)
}

// NotFoundError reports that no post file matches a slug.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post %q not found", e.Slug)
}
