// Package model defines the core data structures for photoshare-cli.
package model

import (
	"errors"
	"time"
)

// Role is the capability level attached to a user profile.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// CanModerate reports whether the role may edit or remove other users' content.
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleModerator
}

// UserProfile is the authenticated user's identity as returned by /auth/me.
type UserProfile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Avatar    string `json:"avatar"`
	Role      Role   `json:"role"`
}

// Owns reports whether this user created the resource with the given owner id.
func (u *UserProfile) Owns(ownerID int64) bool {
	return u != nil && u.ID == ownerID
}

// Tag is a label attached to posts.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Validate checks if the tag has required fields.
func (t *Tag) Validate() error {
	if t.Name == "" {
		return errors.New("tag name is required")
	}
	return nil
}

// Post is a single photo post with its tags. Comments are loaded lazily
// (see interact.Thread) and are not part of the post payload.
type Post struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	MediaURL    string    `json:"cloudinary_url"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Tags        []Tag     `json:"tags"`
}

// HasTag checks if the post carries a tag with the given name.
func (p *Post) HasTag(name string) bool {
	for _, t := range p.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Age returns how long ago the post was created.
func (p *Post) Age() time.Duration {
	return time.Since(p.CreatedAt)
}

// Comment belongs to exactly one post. User is populated by the comments
// endpoints; UserID is kept for ownership checks when the snapshot is absent.
type Comment struct {
	ID        int64        `json:"id"`
	Content   string       `json:"content"`
	PostID    int64        `json:"post_id"`
	UserID    int64        `json:"user_id,omitempty"`
	User      *CommentUser `json:"user,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at,omitempty"`
}

// CommentUser is the embedded author snapshot on a comment.
type CommentUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// AuthorID returns the comment author's id, preferring the embedded snapshot.
func (c *Comment) AuthorID() int64 {
	if c.User != nil {
		return c.User.ID
	}
	return c.UserID
}

// ListedUser is a public user entry from /auth/users, used to resolve post
// authors in feed output.
type ListedUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
