// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"blogdans/internal/slug"
)

// Repository lists and reads posts from a Source.
type Repository struct {
	source Source
}

// NewRepository creates a Repository backed by the given source.
func NewRepository(source Source) *Repository {
	return &Repository{source: source}
}

// ListPosts returns every non-draft post, newest first. Posts sharing a
// date keep the order of the source listing. Any malformed file, bad slug
// or two files sharing a slug fail the whole listing.
func (r *Repository) ListPosts(ctx context.Context) ([]Post, error) {
	names, err := r.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	slices.Sort(names)

	posts := make([]Post, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		slug, ok := slugFromName(name)
		if !ok {
			continue
		}
		if first, dup := seen[slug]; dup {
			return nil, &DuplicateSlugError{Slug: slug, Files: []string{first, name}}
		}
		seen[slug] = name

		post, err := r.load(ctx, name, slug)
		if err != nil {
			return nil, err
		}
		if post.Draft {
			continue
		}
		posts = append(posts, post)
	}

	slices.SortStableFunc(posts, func(a, b Post) int {
		return b.Date.Compare(a.Date)
	})
	return posts, nil
}

// Latest returns at most n posts from the head of ListPosts.
func (r *Repository) Latest(ctx context.Context, n int) ([]Post, error) {
	posts, err := r.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	if len(posts) > n {
		posts = posts[:n]
	}
	return posts, nil
}

// ListByTag returns the non-draft posts carrying a tag whose URL segment
// (see slug.Tag) equals tagSlug, newest first, together with the tag as
// written in the first matching post. The name is empty when nothing
// matches.
func (r *Repository) ListByTag(ctx context.Context, tagSlug string) ([]Post, string, error) {
	posts, err := r.ListPosts(ctx)
	if err != nil {
		return nil, "", err
	}

	var (
		tagged []Post
		name   string
	)
	for _, p := range posts {
		for _, tag := range p.Tags {
			if slug.Tag(tag) != tagSlug {
				continue
			}
			if name == "" {
				name = tag
			}
			tagged = append(tagged, p)
			break
		}
	}
	return tagged, name, nil
}

// GetPost reads a single post and links it to its neighbours. Neighbours
// come from the non-draft posts sorted lexicographically by slug, not by
// date; with zero-padded YYYY-MM-DD slugs the two orders agree.
func (r *Repository) GetPost(ctx context.Context, slug string) (*PostComplete, error) {
	if !validSlug(slug) {
		return nil, &NotFoundError{Slug: slug}
	}

	var (
		raw  []byte
		name string
	)
	for _, ext := range markdownExtensions {
		data, err := r.source.Read(ctx, slug+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get post: %w", err)
		}
		raw, name = data, slug+ext
		break
	}
	if name == "" {
		return nil, &NotFoundError{Slug: slug}
	}

	post, err := parse(name, slug, raw)
	if err != nil {
		return nil, err
	}
	current := &PostComplete{Post: post}

	all, err := r.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(all, func(a, b Post) int {
		return strings.Compare(a.Slug, b.Slug)
	})

	idx := slices.IndexFunc(all, func(p Post) bool { return p.Slug == slug })
	if idx == -1 {
		// Drafts are readable by direct link but have no neighbours.
		return current, nil
	}
	if idx > 0 {
		prev := all[idx-1]
		current.Previous = &prev
	}
	if idx < len(all)-1 {
		next := all[idx+1]
		current.Next = &next
	}
	return current, nil
}

// load reads and parses a single file from the source.
func (r *Repository) load(ctx context.Context, name, slug string) (Post, error) {
	raw, err := r.source.Read(ctx, name)
	if err != nil {
		return Post{}, fmt.Errorf("load post: %w", err)
	}
	return parse(name, slug, raw)
}

func parse(name, slug string, raw []byte) (Post, error) {
	meta, body, err := ParseFrontMatter(name, raw)
	if err != nil {
		return Post{}, err
	}
	return newPost(slug, meta, body)
}

// validSlug rejects slugs that could escape the posts directory.
func validSlug(slug string) bool {
	if slug == "" || strings.Contains(slug, "..") {
		return false
	}
	return !strings.ContainsAny(slug, `/\`)
}
