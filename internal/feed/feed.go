// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package feed builds the RSS 2.0 document for the blog.
package feed

import (
	"fmt"
	"strings"

	"github.com/gorilla/feeds"

	"blogdans/internal/content"
)

// MaxItems caps the number of posts published in the feed.
const MaxItems = 10

// ContentType is the media type served with the feed.
const ContentType = "application/rss+xml; charset=utf-8"

// Site describes the RSS channel.
type Site struct {
	Name        string
	URL         string
	Description string
}

// PostURL returns the canonical URL of a post, which also serves as its guid.
func (s Site) PostURL(slug string) string {
	return strings.TrimRight(s.URL, "/") + "/posts/" + slug + "/"
}

// Build renders posts as an RSS 2.0 document. Posts are expected newest
// first; only the first MaxItems are included. All text is XML-escaped.
func Build(site Site, posts []content.Post) (string, error) {
	if len(posts) > MaxItems {
		posts = posts[:MaxItems]
	}

	f := &feeds.Feed{
		Title:       site.Name,
		Link:        &feeds.Link{Href: strings.TrimRight(site.URL, "/") + "/"},
		Description: site.Description,
	}
	if len(posts) > 0 {
		f.Created = posts[0].Date
	}

	f.Items = make([]*feeds.Item, 0, len(posts))
	for _, p := range posts {
		link := site.PostURL(p.Slug)
		f.Items = append(f.Items, &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Description: p.Summary,
			Id:          link,
			Created:     p.Date,
		})
	}

	rss, err := f.ToRss()
	if err != nil {
		return "", fmt.Errorf("build rss: %w", err)
	}
	return rss, nil
}
