// Package store provides SQLite persistence for photoshare-cli's client
// state: the bearer token that survives restarts, and an offline cache of
// the last materialized feed.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/photoshare/photoshare-cli/model"
	_ "modernc.org/sqlite"
)

// tokenKey is the single storage key the bearer token lives under.
const tokenKey = "token"

// Store manages the SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path.
// Use ":memory:" for an in-memory database (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	// Initialize schema
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createSchema creates the database tables and indexes.
func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cached_posts (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL,
		media_url TEXT NOT NULL,
		description TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cached_post_tags (
		post_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (post_id, tag_id),
		FOREIGN KEY (post_id) REFERENCES cached_posts(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_cached_posts_position ON cached_posts(position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveToken persists the bearer token under the single token key.
func (s *Store) SaveToken(token string) error {
	_, err := s.db.Exec(
		"INSERT INTO state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		tokenKey, token,
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken returns the persisted bearer token, or "" when none is stored.
func (s *Store) LoadToken() (string, error) {
	var token string
	err := s.db.QueryRow("SELECT value FROM state WHERE key = ?", tokenKey).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// ClearToken removes the persisted bearer token.
func (s *Store) ClearToken() error {
	_, err := s.db.Exec("DELETE FROM state WHERE key = ?", tokenKey)
	if err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// CachePosts replaces the offline snapshot with the given posts, preserving
// their feed order.
func (s *Store) CachePosts(posts []model.Post) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cached_post_tags"); err != nil {
		return fmt.Errorf("failed to clear cached tags: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM cached_posts"); err != nil {
		return fmt.Errorf("failed to clear cached posts: %w", err)
	}

	for i, p := range posts {
		_, err := tx.Exec(
			"INSERT INTO cached_posts (id, user_id, media_url, description, created_at, updated_at, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
			p.ID, p.UserID, p.MediaURL, p.Description, p.CreatedAt.Unix(), p.UpdatedAt.Unix(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to cache post %d: %w", p.ID, err)
		}
		for _, t := range p.Tags {
			_, err := tx.Exec(
				"INSERT OR IGNORE INTO cached_post_tags (post_id, tag_id, name) VALUES (?, ?, ?)",
				p.ID, t.ID, t.Name,
			)
			if err != nil {
				return fmt.Errorf("failed to cache tag %d: %w", t.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache: %w", err)
	}
	return nil
}

// CachedPosts returns the offline snapshot in its original feed order.
func (s *Store) CachedPosts() ([]model.Post, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, media_url, description, created_at, updated_at FROM cached_posts ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		var createdUnix, updatedUnix int64
		if err := rows.Scan(&p.ID, &p.UserID, &p.MediaURL, &p.Description, &createdUnix, &updatedUnix); err != nil {
			return nil, fmt.Errorf("failed to scan cached post: %w", err)
		}
		p.CreatedAt = time.Unix(createdUnix, 0)
		p.UpdatedAt = time.Unix(updatedUnix, 0)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range posts {
		tags, err := s.cachedTags(posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].Tags = tags
	}

	return posts, nil
}

// cachedTags loads the cached tags for one post.
func (s *Store) cachedTags(postID int64) ([]model.Tag, error) {
	rows, err := s.db.Query(
		"SELECT tag_id, name FROM cached_post_tags WHERE post_id = ? ORDER BY tag_id",
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan cached tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ClearCache drops the offline snapshot.
func (s *Store) ClearCache() error {
	if _, err := s.db.Exec("DELETE FROM cached_post_tags"); err != nil {
		return fmt.Errorf("failed to clear cached tags: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM cached_posts"); err != nil {
		return fmt.Errorf("failed to clear cached posts: %w", err)
	}
	return nil
}
