// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content reads blog posts from markdown files with YAML front
// matter. Posts are derived on every request from the underlying Source;
// nothing is cached or written back.
package content

import (
	"path"
	"strconv"
	"strings"
	"time"
)

// markdownExtensions lists the file extensions recognized as posts, in the
// order they are tried when reading a single slug.
var markdownExtensions = []string{".md", ".markdown"}

// Post is a single blog post. Date is always derived from Slug.
type Post struct {
	Slug    string
	Title   string
	Date    time.Time
	Draft   bool
	Summary string
	Tags    []string
	Content string
}

// PostComplete is a post together with its neighbours in slug order.
// Previous and Next are nil at the boundaries.
type PostComplete struct {
	Post
	Previous *Post
	Next     *Post
}

// DateFromSlug parses the first three hyphen-separated segments of a slug
// as year, month and day. Zero padding is optional ("2024-1-5" is valid).
// The result is midnight UTC.
func DateFromSlug(slug string) (time.Time, error) {
	parts := strings.Split(slug, "-")
	if len(parts) < 3 {
		return time.Time{}, &InvalidSlugError{Slug: slug, Reason: "expected at least three hyphen-separated segments"}
	}

	nums := make([]int, 3)
	for i, p := range parts[:3] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return time.Time{}, &InvalidSlugError{Slug: slug, Reason: "date segments must be numeric"}
		}
		nums[i] = n
	}

	year, month, day := nums[0], time.Month(nums[1]), nums[2]
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (2024-02-30 → March 1), which would hide a typo.
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, &InvalidSlugError{Slug: slug, Reason: "not a calendar date"}
	}
	return t, nil
}

// slugFromName returns the slug for a post file name and whether the name
// carries a recognized markdown extension.
func slugFromName(name string) (string, bool) {
	ext := path.Ext(name)
	for _, e := range markdownExtensions {
		if ext == e {
			return strings.TrimSuffix(name, ext), true
		}
	}
	return "", false
}

// newPost assembles a Post from its parts, deriving the date from the slug.
func newPost(slug string, meta Metadata, body string) (Post, error) {
	date, err := DateFromSlug(slug)
	if err != nil {
		return Post{}, err
	}
	return Post{
		Slug:    slug,
		Title:   meta.Title,
		Date:    date,
		Draft:   meta.Draft,
		Summary: meta.Summary,
		Tags:    meta.Tags,
		Content: body,
	}, nil
}
