// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"blogdans/internal/feed"
	"blogdans/internal/identity"
	"blogdans/internal/models"
)

func newTestPublic(t *testing.T, fsys fstest.MapFS, comments *fakeComments) *Public {
	t.Helper()
	return NewPublic(testRenderer(t), testRepository(fsys), comments, testSite)
}

func TestPublicIndex(t *testing.T) {
	p := newTestPublic(t, testPosts(), &fakeComments{})

	rr := httptest.NewRecorder()
	p.Index(rr, withReader(httptest.NewRequest(http.MethodGet, "/", nil), identity.Anonymous{}))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Hello World") || !strings.Contains(body, "Second &amp; Last") {
		t.Error("index should list both published posts")
	}
	if strings.Contains(body, "Work in progress") {
		t.Error("index should not list drafts")
	}
	if strings.Index(body, "Second &amp; Last") > strings.Index(body, "Hello World") {
		t.Error("newest post should come first")
	}
	if !strings.Contains(body, "First post") {
		t.Error("index should show summaries")
	}
}

func TestPublicIndexInvalidSlug(t *testing.T) {
	fsys := testPosts()
	fsys["2024-01.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Broken\n---\n")}
	p := newTestPublic(t, fsys, &fakeComments{})

	rr := httptest.NewRecorder()
	p.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}

func TestPublicOverview(t *testing.T) {
	p := newTestPublic(t, testPosts(), &fakeComments{})

	rr := httptest.NewRecorder()
	p.Overview(rr, httptest.NewRequest(http.MethodGet, "/posts/overview", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "2024-02-01") || !strings.Contains(body, `href="/posts/2024-01-15-hello-world/"`) {
		t.Error("overview should list dates and links")
	}
}

func TestPublicTag(t *testing.T) {
	p := newTestPublic(t, testPosts(), &fakeComments{})

	t.Run("known tag", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/tags/intro/", nil), "tag", "intro")
		rr := httptest.NewRecorder()
		p.Tag(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		body := rr.Body.String()
		if !strings.Contains(body, "Hello World") {
			t.Error("tag page should list the tagged post")
		}
		if strings.Contains(body, "Second &amp; Last") {
			t.Error("tag page should not list untagged posts")
		}
	})

	t.Run("unknown tag", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/tags/nope/", nil), "tag", "nope")
		rr := httptest.NewRecorder()
		p.Tag(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rr.Code)
		}
	})
}

func TestPublicPost(t *testing.T) {
	comments := &fakeComments{approved: []models.CommentView{
		{Content: "Great read", AuthorName: "Grace", CreatedAt: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)},
	}}
	p := newTestPublic(t, testPosts(), comments)

	tests := []struct {
		name     string
		user     identity.User
		wantForm bool
	}{
		{"anonymous sees login prompt", identity.Anonymous{}, false},
		{"reader sees comment form", testReader, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/posts/2024-01-15-hello-world/", nil)
			req = withURLParam(withReader(req, tt.user), "slug", "2024-01-15-hello-world")
			rr := httptest.NewRecorder()

			p.Post(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rr.Code)
			}
			body := rr.Body.String()
			if !strings.Contains(body, `<h1 id="hello">Hello</h1>`) {
				t.Error("markdown body should be rendered")
			}
			if !strings.Contains(body, "<em>markdown</em>") {
				t.Error("emphasis should be rendered")
			}
			if !strings.Contains(body, "Great read") {
				t.Error("approved comments should be shown")
			}
			if !strings.Contains(body, `class="next" href="/posts/2024-02-01-second/"`) {
				t.Error("next link should point at the following post")
			}
			if got := strings.Contains(body, `id="comment-form"`); got != tt.wantForm {
				t.Errorf("comment form shown: got %v, want %v", got, tt.wantForm)
			}
			if !tt.wantForm && !strings.Contains(body, "next=%2Fposts%2F2024-01-15-hello-world%2F") {
				t.Error("login prompt should return to the post")
			}
		})
	}
}

func TestPublicPostDraft(t *testing.T) {
	p := newTestPublic(t, testPosts(), &fakeComments{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/posts/2024-03-01-wip/", nil), "slug", "2024-03-01-wip")
	rr := httptest.NewRecorder()
	p.Post(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "draft-notice") {
		t.Error("draft should carry a notice")
	}
}

func TestPublicPostNotFound(t *testing.T) {
	p := newTestPublic(t, testPosts(), &fakeComments{})

	for _, slug := range []string{"2099-01-01-nope", "../secret"} {
		t.Run(slug, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/posts/x/", nil), "slug", slug)
			rr := httptest.NewRecorder()
			p.Post(rr, req)

			if rr.Code != http.StatusNotFound {
				t.Errorf("status: got %d, want 404", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), "Not found") {
				t.Error("should render the not found page")
			}
		})
	}
}

func TestPublicPostCommentsUnavailable(t *testing.T) {
	p := newTestPublic(t, testPosts(), &fakeComments{listErr: errBoom})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/posts/2024-02-01-second/", nil), "slug", "2024-02-01-second")
	rr := httptest.NewRecorder()
	p.Post(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No comments yet.") {
		t.Error("post should render without comments")
	}
}

func TestPublicAbout(t *testing.T) {
	p := newTestPublic(t, testPosts(), &fakeComments{})

	rr := httptest.NewRecorder()
	p.About(rr, httptest.NewRequest(http.MethodGet, "/about", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "<title>About | Test Blog</title>") {
		t.Error("about page should carry its title")
	}
}

func TestPublicFeed(t *testing.T) {
	p := newTestPublic(t, testPosts(), &fakeComments{})

	rr := httptest.NewRecorder()
	p.Feed(rr, httptest.NewRequest(http.MethodGet, "/feed.xml", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != feed.ContentType {
		t.Errorf("Content-Type: got %q, want %q", ct, feed.ContentType)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"<title>Second &amp; Last</title>",
		"<link>https://blog.example.com/posts/2024-01-15-hello-world/</link>",
		"<description>First post</description>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("feed missing %q", want)
		}
	}
	if strings.Contains(body, "Work in progress") {
		t.Error("feed should not include drafts")
	}
}

func TestPublicFeedInvalidSlug(t *testing.T) {
	fsys := testPosts()
	fsys["2024-13-01-bad-month.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Bad\n---\n")}
	p := newTestPublic(t, fsys, &fakeComments{})

	rr := httptest.NewRecorder()
	p.Feed(rr, httptest.NewRequest(http.MethodGet, "/feed.xml", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}

func TestPublicNotFound(t *testing.T) {
	p := newTestPublic(t, testPosts(), &fakeComments{})

	rr := httptest.NewRecorder()
	p.NotFound(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}
