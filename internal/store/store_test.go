// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"blogdans/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogdans")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogdans")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if _, err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanGoogleUsers removes test users and everything hanging off them by
// Google subject. Call in t.Cleanup().
func cleanGoogleUsers(t *testing.T, db *sql.DB, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		var id string
		if err := db.QueryRow(`SELECT blog_user_id FROM google_user WHERE id = $1`, sub).Scan(&id); err != nil {
			continue
		}
		db.Exec("DELETE FROM comment WHERE author_id = $1", id)
		db.Exec("DELETE FROM google_user WHERE id = $1", sub)
		db.Exec("DELETE FROM blogdans_user WHERE id = $1", id)
	}
}

// cleanPosts removes test post rows and their comments. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM comment WHERE post_id = $1", slug)
		db.Exec("DELETE FROM post WHERE id = $1", slug)
	}
}
