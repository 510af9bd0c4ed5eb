package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/photoshare/photoshare-cli/model"
)

// TokenResponse is the payload of a successful POST /auth/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ImageResult is the payload of POST /transform/{postID}: the transformed
// image URL plus a QR code pointing at it.
type ImageResult struct {
	ImageURL  string `json:"image_url"`
	QRCodeURL string `json:"qr_code_url"`
}

// ProfileUpdate is the request body for PUT /auth/update-profile.
type ProfileUpdate struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Bio       string `json:"bio" validate:"max=500"`
}

// Login exchanges credentials for a bearer token. Failures, including a 2xx
// response missing the token, surface as AuthError with the server's message.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	opts := requestOptions{
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}

	var token TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/token", opts, &token); err != nil {
		return nil, asAuthError(err)
	}
	if token.AccessToken == "" {
		return nil, &AuthError{Message: "login response did not include a token"}
	}
	return &token, nil
}

// Register creates an account. It does not log in; see session.Store.Register
// for the chained flow.
func (c *Client) Register(ctx context.Context, username, email, password string) (*model.UserProfile, error) {
	payload := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	var profile model.UserProfile
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/register/", payload, false, &profile); err != nil {
		return nil, asAuthError(err)
	}
	if profile.ID == 0 {
		return nil, &AuthError{Message: "registration response did not include a user"}
	}
	return &profile, nil
}

// Me fetches the profile for the current token.
func (c *Client) Me(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := c.getJSON(ctx, "/auth/me", true, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile updates the current user's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := c.sendJSON(ctx, http.MethodPut, "/auth/update-profile", update, true, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateAvatar uploads a new avatar image for the current user.
func (c *Client) UpdateAvatar(ctx context.Context, filename string, file io.Reader) (*model.UserProfile, error) {
	var profile model.UserProfile
	part := &filePart{field: "avatar", filename: filename, reader: file}
	if err := c.sendMultipart(ctx, "/auth/update-avatar", nil, part, true, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListUsers fetches the public user directory used to resolve post authors.
func (c *Client) ListUsers(ctx context.Context) ([]model.ListedUser, error) {
	var users []model.ListedUser
	if err := c.getJSON(ctx, "/auth/users", false, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AllTags lists every tag known to the server.
func (c *Client) AllTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := c.getJSON(ctx, "/tags/all", true, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a standalone tag. Name uniqueness is enforced server-side.
func (c *Client) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Message: "tag name must not be empty"}
	}
	var tag model.Tag
	payload := map[string]string{"name": name}
	if err := c.sendJSON(ctx, http.MethodPost, "/tags/create", payload, true, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// AllPosts fetches one page of the unfiltered feed.
func (c *Client) AllPosts(ctx context.Context, page int) ([]model.Post, error) {
	path := "/posts/all_posts"
	if page > 0 {
		path += "?page=" + strconv.Itoa(page)
	}
	var posts []model.Post
	if err := c.getJSON(ctx, path, true, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// MyPosts fetches the current user's own posts.
func (c *Client) MyPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := c.getJSON(ctx, "/posts/", true, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostsBySelector fetches posts filtered by a selector: comma-joined tag ids,
// or URL-encoded free text matched against tag names.
func (c *Client) PostsBySelector(ctx context.Context, selector string) ([]model.Post, error) {
	if selector == "" {
		return nil, &ValidationError{Message: "selector must not be empty"}
	}
	var posts []model.Post
	if err := c.getJSON(ctx, "/posts/by-tags/"+selector, true, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post with its tags.
func (c *Client) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if err := c.getJSON(ctx, fmt.Sprintf("/posts/%d", id), false, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost uploads an image and creates a post from it.
func (c *Client) CreatePost(ctx context.Context, filename string, file io.Reader, description string) (*model.Post, error) {
	if file == nil {
		return nil, &ValidationError{Message: "an image file is required"}
	}
	fields := map[string]string{}
	if description != "" {
		fields["description"] = description
	}
	part := &filePart{field: "file", filename: filename, reader: file}

	var post model.Post
	if err := c.sendMultipart(ctx, "/posts/create", fields, part, true, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost changes a post's description. Owner-only, enforced server-side.
func (c *Client) UpdatePost(ctx context.Context, id int64, description string) (*model.Post, error) {
	var post model.Post
	payload := map[string]string{"description": description}
	if err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), payload, true, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post. Owner-only, enforced server-side.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), requestOptions{auth: true}, nil)
}

// AddTagToPost attaches a tag (by name) to a post and returns the updated post.
func (c *Client) AddTagToPost(ctx context.Context, postID int64, name string) (*model.Post, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Message: "tag name must not be empty"}
	}
	var post model.Post
	payload := map[string]string{"name": name}
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/tags", postID), payload, true, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// TransformImage applies a named effect to a post's image via the media
// service and returns the transformed URL plus a QR code for it.
func (c *Client) TransformImage(ctx context.Context, postID int64, effect string) (*ImageResult, error) {
	if strings.TrimSpace(effect) == "" {
		return nil, &ValidationError{Message: "an effect is required"}
	}
	fields := map[string]string{"effect": effect}
	var result ImageResult
	if err := c.sendMultipart(ctx, fmt.Sprintf("/transform/%d", postID), fields, nil, false, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListComments fetches the comment list for one post. No credential needed.
func (c *Client) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	var comments []model.Comment
	if err := c.getJSON(ctx, fmt.Sprintf("/comments/%d/comments", postID), false, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts a comment and returns the server's representation.
func (c *Client) CreateComment(ctx context.Context, postID int64, content string) (*model.Comment, error) {
	fields := map[string]string{"content": content}
	var comment model.Comment
	if err := c.sendMultipart(ctx, fmt.Sprintf("/comments/%d", postID), fields, nil, true, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment edits a comment's content. Owner-only, enforced server-side.
func (c *Client) UpdateComment(ctx context.Context, id int64, content string) (*model.Comment, error) {
	var comment model.Comment
	payload := map[string]string{"content": content}
	if err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/comments/%d", id), payload, true, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment. Owner or moderator, enforced server-side.
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", id), requestOptions{auth: true}, nil)
}

// asAuthError converts a gateway failure on an auth endpoint into an
// AuthError carrying the server-supplied detail message.
func asAuthError(err error) error {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	// FastAPI-style error bodies carry the message under "detail".
	var body struct {
		Detail string `json:"detail"`
	}
	message := httpErr.Body
	if jsonErr := json.Unmarshal([]byte(httpErr.Body), &body); jsonErr == nil && body.Detail != "" {
		message = body.Detail
	}
	return &AuthError{Message: message}
}
