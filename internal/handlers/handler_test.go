// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared fakes for handler tests. Posts come from
// an in-memory file system through the real repository; the database,
// Valkey and Google are replaced by the fakes below.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogdans/internal/content"
	"blogdans/internal/feed"
	"blogdans/internal/identity"
	"blogdans/internal/middleware"
	"blogdans/internal/models"
	"blogdans/internal/render"
	"blogdans/internal/session"
)

var testSite = feed.Site{Name: "Test Blog", URL: "https://blog.example.com", Description: "A test blog."}

var errBoom = errors.New("boom")

// testPosts is a small blog: two published posts and a draft.
func testPosts() fstest.MapFS {
	return fstest.MapFS{
		"2024-01-15-hello-world.md": {Data: []byte("---\ntitle: Hello World\nsummary: First post\ntags: [intro]\n---\n# Hello\n\nSome *markdown*.\n")},
		"2024-02-01-second.md":      {Data: []byte("---\ntitle: Second & Last\n---\nBody two.\n")},
		"2024-03-01-wip.md":         {Data: []byte("---\ntitle: Work in progress\ndraft: true\n---\nNot yet.\n")},
	}
}

func testRepository(fsys fstest.MapFS) *content.Repository {
	return content.NewRepository(content.FSSource(fsys))
}

func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	rn, err := render.New(render.Site{Name: testSite.Name, Description: testSite.Description})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return rn
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withReader puts the given reader into the request context, as
// middleware.LoadUser would.
func withReader(r *http.Request, user identity.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

var testReaderID = uuid.MustParse("6f1c0c9e-2b7a-4d1e-8a57-3c2b9d0e4f11")

var testReader = identity.Authenticated{
	Email: "reader@example.com",
	Name:  "Test Reader",
	ID:    testReaderID.String(),
}

// fakeComments records created comments and returns a fixed approved list.
type fakeComments struct {
	mu        sync.Mutex
	created   []models.Comment
	approved  []models.CommentView
	createErr error
	listErr   error
}

func (f *fakeComments) Create(_ context.Context, postID string, authorID uuid.UUID, text string) (*models.Comment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := models.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   text,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.created = append(f.created, c)
	return &c, nil
}

func (f *fakeComments) ListApproved(context.Context, string) ([]models.CommentView, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.approved, nil
}

// fakeUsers validates profiles like the real store and keeps users in
// memory keyed by Google subject.
type fakeUsers struct {
	mu      sync.Mutex
	bySub   map[string]models.BlogUser
	err     error
	listErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{bySub: make(map[string]models.BlogUser)}
}

func (f *fakeUsers) CreateUserIfAbsent(_ context.Context, profile models.GoogleProfile) (*models.BlogUser, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.bySub[profile.Sub]; ok {
		return &u, nil
	}
	u := models.BlogUser{
		ID:        uuid.New(),
		Name:      profile.Name,
		Email:     profile.Email,
		Photo:     profile.Picture,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.bySub[profile.Sub] = u
	return &u, nil
}

func (f *fakeUsers) List(context.Context) ([]models.BlogUser, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.BlogUser, 0, len(f.bySub))
	for _, u := range f.bySub {
		users = append(users, u)
	}
	return users, nil
}

// fakeSessions records the last created session and sets a cookie like the
// real store.
type fakeSessions struct {
	created   *session.Data
	destroyed bool
	err       error
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = data
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "sid", Path: "/"})
	return "sid", nil
}

func (f *fakeSessions) Destroy(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	f.destroyed = true
	return f.err
}

// fakeOAuth returns a fixed profile when the code and nonce match.
type fakeOAuth struct {
	profile models.GoogleProfile
	code    string
	nonce   string
	err     error
}

func (f *fakeOAuth) AuthCodeURL(state, nonce string) string {
	f.nonce = nonce
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeOAuth) Exchange(_ context.Context, code, nonce string) (*models.GoogleProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if code != f.code || nonce != f.nonce {
		return nil, errors.New("bad code or nonce")
	}
	p := f.profile
	return &p, nil
}

func validProfile() models.GoogleProfile {
	verified := true
	return models.GoogleProfile{
		Sub:           "google-123",
		Email:         "ada@example.com",
		EmailVerified: &verified,
		FamilyName:    "Lovelace",
		GivenName:     "Ada",
		Name:          "Ada Lovelace",
		Picture:       "https://example.com/ada.png",
	}
}
