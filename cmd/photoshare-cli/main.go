package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/photoshare/photoshare-cli/api"
	"github.com/photoshare/photoshare-cli/config"
	"github.com/photoshare/photoshare-cli/feed"
	"github.com/photoshare/photoshare-cli/interact"
	"github.com/photoshare/photoshare-cli/logger"
	"github.com/photoshare/photoshare-cli/model"
	"github.com/photoshare/photoshare-cli/session"
	"github.com/photoshare/photoshare-cli/store"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}

	app := &cli.App{
		Name:    "photoshare-cli",
		Usage:   "A scriptable client for the Photoshare API",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Aliases: []string{"u"},
				Value:   cfg.BaseURL,
				Usage:   "Photoshare API base URL (including /api)",
				EnvVars: []string{"PHOTOSHARE_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Value:   cfg.DBPath,
				Usage:   "Client state database file path",
				EnvVars: []string{"PHOTOSHARE_DB"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   cfg.LogLevel,
				Usage:   "Log level: trace, debug, info, warn, error",
				EnvVars: []string{"PHOTOSHARE_LOG_LEVEL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   cfg.Timeout,
				Usage:   "Per-request deadline (0 = none)",
				EnvVars: []string{"PHOTOSHARE_TIMEOUT"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "login",
				Usage:     "Log in and persist the session token",
				ArgsUsage: "<email> <password>",
				Action:    loginAction,
			},
			{
				Name:      "register",
				Usage:     "Create an account and log in",
				ArgsUsage: "<username> <email> <password>",
				Action:    registerAction,
			},
			{
				Name:   "logout",
				Usage:  "Clear the persisted session",
				Action: logoutAction,
			},
			{
				Name:   "whoami",
				Usage:  "Show the current user's profile",
				Action: whoamiAction,
			},
			{
				Name:  "feed",
				Usage: "Page through the public feed",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "pages",
						Aliases: []string{"p"},
						Value:   1,
						Usage:   "Number of pages to load",
					},
					&cli.BoolFlag{
						Name:    "all",
						Aliases: []string{"a"},
						Usage:   "Load pages until the feed is exhausted",
					},
					&cli.BoolFlag{
						Name:  "authors",
						Usage: "Resolve post authors via the user directory",
					},
				},
				Action: feedAction,
			},
			{
				Name:  "explore",
				Usage: "Browse the feed filtered by tags or text",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{
						Name:    "tag",
						Aliases: []string{"t"},
						Usage:   "Tag id to select (repeatable; OR semantics)",
					},
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Free-text query matched against tag names",
					},
				},
				Action: exploreAction,
			},
			{
				Name:   "mine",
				Usage:  "List the current user's own posts",
				Action: mineAction,
			},
			{
				Name:      "upload",
				Usage:     "Create a post from an image file",
				ArgsUsage: "<image-file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"m"},
						Usage:   "Post description",
					},
				},
				Action: uploadAction,
			},
			{
				Name:      "edit-post",
				Usage:     "Update a post's description",
				ArgsUsage: "<post-id> <description>",
				Action:    editPostAction,
			},
			{
				Name:      "delete-post",
				Usage:     "Delete a post and refresh the feed",
				ArgsUsage: "<post-id>",
				Action:    deletePostAction,
			},
			{
				Name:      "add-tag",
				Usage:     "Attach a tag to a post",
				ArgsUsage: "<post-id> <tag-name>",
				Action:    addTagAction,
			},
			{
				Name:   "tags",
				Usage:  "List all tags",
				Action: tagsAction,
			},
			{
				Name:      "create-tag",
				Usage:     "Create a standalone tag",
				ArgsUsage: "<name>",
				Action:    createTagAction,
			},
			{
				Name:      "comments",
				Usage:     "List a post's comments",
				ArgsUsage: "<post-id>",
				Action:    commentsAction,
			},
			{
				Name:      "comment",
				Usage:     "Add a comment to a post",
				ArgsUsage: "<post-id> <content>",
				Action:    commentAction,
			},
			{
				Name:      "edit-comment",
				Usage:     "Edit a comment",
				ArgsUsage: "<post-id> <comment-id> <content>",
				Action:    editCommentAction,
			},
			{
				Name:      "delete-comment",
				Usage:     "Delete a comment",
				ArgsUsage: "<post-id> <comment-id>",
				Action:    deleteCommentAction,
			},
			{
				Name:      "transform",
				Usage:     "Apply an effect to a post's image",
				ArgsUsage: "<post-id> <effect>",
				Action:    transformAction,
			},
			{
				Name:  "profile-update",
				Usage: "Update the current user's profile",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username"},
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
					&cli.StringFlag{Name: "bio"},
				},
				Action: profileUpdateAction,
			},
			{
				Name:      "avatar",
				Usage:     "Upload a new avatar image",
				ArgsUsage: "<image-file>",
				Action:    avatarAction,
			},
			{
				Name:   "users",
				Usage:  "List the public user directory",
				Action: usersAction,
			},
			{
				Name:   "cached",
				Usage:  "Show the offline feed snapshot",
				Action: cachedAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

// env wires together the client, session and state store for one command.
type env struct {
	client  *api.Client
	sess    *session.Store
	st      *store.Store
	log     zerolog.Logger
	timeout time.Duration
}

func newEnv(c *cli.Context) (*env, error) {
	log := logger.New(logger.Options{
		Level:  c.String("log-level"),
		Pretty: true,
	})

	dbPath := c.String("db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	st, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	// The session reads the token through the client and the client reads
	// the token through the session; the function indirection breaks the
	// construction cycle.
	var sess *session.Store
	client := api.New(c.String("base-url"),
		api.WithLogger(log),
		api.WithTokenSource(api.TokenSourceFunc(func() string {
			if sess == nil {
				return ""
			}
			return sess.Token()
		})),
	)
	sess = session.New(client, st, log)

	if err := sess.Restore(); err != nil {
		log.Warn().Err(err).Msg("failed to restore session")
	}

	return &env{
		client:  client,
		sess:    sess,
		st:      st,
		log:     log,
		timeout: c.Duration("timeout"),
	}, nil
}

func (e *env) Close() {
	e.st.Close()
}

// ctx returns the request context, bounded by the configured deadline.
func (e *env) ctx(c *cli.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(c.Context, e.timeout)
	}
	return context.WithCancel(c.Context)
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// exit converts a gateway or validation failure into a CLI error with the
// right exit code. An expired session is reported after clearing it.
func (e *env) exit(err error) error {
	if e.sess.Expire(err) {
		return cli.Exit("session expired – please log in again", ExitDataError)
	}
	var validationErr *api.ValidationError
	if errors.As(err, &validationErr) {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	return cli.Exit(err.Error(), ExitDataError)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", arg)
	}
	return id, nil
}

func loginAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("Usage: photoshare-cli login <email> <password>", ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	profile, err := e.sess.Login(ctx, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"user":    profile,
	})
}

func registerAction(c *cli.Context) error {
	if c.NArg() < 3 {
		return cli.Exit("Usage: photoshare-cli register <username> <email> <password>", ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	profile, err := e.sess.Register(ctx, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"user":    profile,
	})
}

func logoutAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	e.sess.Logout()
	return outputJSON(map[string]interface{}{"success": true})
}

func whoamiAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	profile, err := e.sess.Refresh(ctx)
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(profile)
}

func feedAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	f := feed.New(func(ctx context.Context, page int) ([]model.Post, error) {
		return e.client.AllPosts(ctx, page)
	}, feed.WithFeedLogger(e.log))
	sentinel := feed.NewSentinel(f)

	pages := c.Int("pages")
	for i := 0; c.Bool("all") || i < pages; i++ {
		if sentinel.Exhausted() {
			break
		}
		if _, err := sentinel.Visible(ctx); err != nil {
			return e.exit(err)
		}
	}

	posts := f.Store().Posts()
	if err := e.st.CachePosts(posts); err != nil {
		e.log.Warn().Err(err).Msg("failed to update offline cache")
	}

	out := map[string]interface{}{
		"count": len(posts),
		"posts": posts,
	}
	if c.Bool("authors") {
		users, err := e.client.ListUsers(ctx)
		if err != nil {
			return e.exit(err)
		}
		authors := make(map[string]string, len(posts))
		byID := make(map[int64]model.ListedUser, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		for _, p := range posts {
			if u, ok := byID[p.UserID]; ok {
				authors[strconv.FormatInt(p.ID, 10)] = u.Username
			}
		}
		out["authors"] = authors
	}
	return outputJSON(out)
}

func exploreAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	filter := feed.NewFilter()
	f := feed.New(func(ctx context.Context, page int) ([]model.Post, error) {
		selector := filter.Selector()
		if selector == "" {
			return e.client.AllPosts(ctx, page)
		}
		return e.client.PostsBySelector(ctx, selector)
	}, feed.WithFeedLogger(e.log))
	controller := feed.NewController(filter, f)

	for _, id := range c.Int64Slice("tag") {
		filter.ToggleTag(id)
	}
	filter.SetQuery(c.String("search"))

	if _, err := f.Refresh(ctx); err != nil {
		return e.exit(err)
	}

	posts := controller.Feed().Store().Posts()
	return outputJSON(map[string]interface{}{
		"selector": filter.Selector(),
		"count":    len(posts),
		"posts":    posts,
	})
}

func mineAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	posts, err := e.client.MyPosts(ctx)
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"count": len(posts),
		"posts": posts,
	})
}

func uploadAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: photoshare-cli upload <image-file>", ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	file, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open image: %v", err), ExitUsageError)
	}
	defer file.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	post, err := e.client.CreatePost(ctx, filepath.Base(c.Args().Get(0)), file, c.String("description"))
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"post":    post,
	})
}

func editPostAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("Usage: photoshare-cli edit-post <post-id> <description>", ExitUsageError)
	}
	id, err := parseID(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	mutator := interact.NewMutator(e.client, feed.NewStore(), e.log)
	post, err := mutator.EditPost(ctx, id, c.Args().Get(1))
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"post":    post,
	})
}

func deletePostAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: photoshare-cli delete-post <post-id>", ExitUsageError)
	}
	id, err := parseID(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	// After a delete the view refetches from the server instead of splicing
	// its local copy.
	f := feed.New(func(ctx context.Context, page int) ([]model.Post, error) {
		return e.client.AllPosts(ctx, page)
	}, feed.WithFeedLogger(e.log))

	mutator := interact.NewMutator(e.client, f.Store(), e.log)
	if err := mutator.DeletePost(ctx, id, f); err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"post_id": id,
		"posts":   f.Store().Posts(),
	})
}

func addTagAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("Usage: photoshare-cli add-tag <post-id> <tag-name>", ExitUsageError)
	}
	id, err := parseID(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	mutator := interact.NewMutator(e.client, feed.NewStore(), e.log)
	post, err := mutator.AddTag(ctx, id, c.Args().Get(1))
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"post":    post,
	})
}

func tagsAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	tags, err := e.client.AllTags(ctx)
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(tags)
}

func createTagAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: photoshare-cli create-tag <name>", ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	tag, err := e.client.CreateTag(ctx, c.Args().Get(0))
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"tag":     tag,
	})
}

func commentsAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: photoshare-cli comments <post-id>", ExitUsageError)
	}
	id, err := parseID(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	thread := interact.NewThread(id)
	if err := thread.Load(ctx, e.client); err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"post_id":  id,
		"count":    thread.Len(),
		"comments": thread.Comments(),
	})
}

func commentAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("Usage: photoshare-cli comment <post-id> <content>", ExitUsageError)
	}
	id, err := parseID(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	thread := interact.NewThread(id)
	mutator := interact.NewMutator(e.client, feed.NewStore(), e.log)
	comment, err := mutator.AddComment(ctx, thread, c.Args().Get(1))
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"comment": comment,
	})
}

func editCommentAction(c *cli.Context) error {
	if c.NArg() < 3 {
		return cli.Exit("Usage: photoshare-cli edit-comment <post-id> <comment-id> <content>", ExitUsageError)
	}
	postID, err := parseID(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	commentID, err := parseID(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	thread := interact.NewThread(postID)
	if err := thread.Load(ctx, e.client); err != nil {
		return e.exit(err)
	}

	mutator := interact.NewMutator(e.client, feed.NewStore(), e.log)
	comment, err := mutator.EditComment(ctx, thread, commentID, c.Args().Get(2))
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"comment": comment,
	})
}

func deleteCommentAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("Usage: photoshare-cli delete-comment <post-id> <comment-id>", ExitUsageError)
	}
	postID, err := parseID(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	commentID, err := parseID(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	thread := interact.NewThread(postID)
	if err := thread.Load(ctx, e.client); err != nil {
		return e.exit(err)
	}

	mutator := interact.NewMutator(e.client, feed.NewStore(), e.log)
	if err := mutator.DeleteComment(ctx, thread, commentID); err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success":    true,
		"comment_id": commentID,
		"remaining":  thread.Len(),
	})
}

func transformAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("Usage: photoshare-cli transform <post-id> <effect>", ExitUsageError)
	}
	id, err := parseID(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	result, err := e.client.TransformImage(ctx, id, c.Args().Get(1))
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(result)
}

func profileUpdateAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	// Start from the current profile so unset flags keep their values.
	current, err := e.sess.Refresh(ctx)
	if err != nil {
		return e.exit(err)
	}

	update := api.ProfileUpdate{
		Username:  current.Username,
		FirstName: current.FirstName,
		LastName:  current.LastName,
		Bio:       current.Bio,
	}
	if c.IsSet("username") {
		update.Username = c.String("username")
	}
	if c.IsSet("first-name") {
		update.FirstName = c.String("first-name")
	}
	if c.IsSet("last-name") {
		update.LastName = c.String("last-name")
	}
	if c.IsSet("bio") {
		update.Bio = c.String("bio")
	}

	if err := validateProfileUpdate(update); err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	if _, err := e.client.UpdateProfile(ctx, update); err != nil {
		return e.exit(err)
	}

	// The profile is refreshed from the server after the mutation.
	profile, err := e.sess.Refresh(ctx)
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"user":    profile,
	})
}

func avatarAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: photoshare-cli avatar <image-file>", ExitUsageError)
	}

	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	file, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open image: %v", err), ExitUsageError)
	}
	defer file.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	if _, err := e.client.UpdateAvatar(ctx, filepath.Base(c.Args().Get(0)), file); err != nil {
		return e.exit(err)
	}

	profile, err := e.sess.Refresh(ctx)
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(map[string]interface{}{
		"success": true,
		"user":    profile,
	})
}

func usersAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	ctx, cancel := e.ctx(c)
	defer cancel()

	users, err := e.client.ListUsers(ctx)
	if err != nil {
		return e.exit(err)
	}
	return outputJSON(users)
}

func cachedAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer e.Close()

	posts, err := e.st.CachedPosts()
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	return outputJSON(map[string]interface{}{
		"count": len(posts),
		"posts": posts,
	})
}
