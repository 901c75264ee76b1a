package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Foco22/chameleon-frontend/app/api"
	"github.com/Foco22/chameleon-frontend/app/models"
)

// Local validation failures, surfaced to the user before any request is
// issued.
var (
	ErrEmptyComment = errors.New("please enter a comment")
	ErrNoTopics     = errors.New("please select at least one topic")
)

// Snapshot is the full replacement unit of the rendered feed: a complete
// list of posts, or the failure that prevented loading it. Nothing is
// patched incrementally; every load overwrites the previous snapshot.
type Snapshot struct {
	Posts    []models.Post
	Err      error
	Seq      uint64
	LoadedAt time.Time
}

// Empty reports whether a successful load came back with no posts, which
// renders as the empty-state placeholder rather than the error one.
func (s Snapshot) Empty() bool {
	return s.Err == nil && len(s.Posts) == 0
}

// Controller mediates every feed-affecting action through a mutate-then-
// full-reload protocol: the action request resolves, then the whole feed
// is re-fetched with the current filter state. No optimistic update is
// ever applied, so the rendered view cannot diverge from server truth.
//
// One controller exists per authenticated session; its state is the
// filter pair and the latest snapshot, both guarded by a mutex because
// the poller and request handlers load concurrently.
type Controller struct {
	client *api.Client
	token  string
	user   models.User

	mu       sync.Mutex
	filter   models.FilterState
	issued   uint64
	snapshot Snapshot
}

// NewController builds the feed controller for one session.
func NewController(client *api.Client, token string, user models.User, filter models.FilterState) *Controller {
	if filter.Topic == "" {
		filter.Topic = models.TopicAll
	}
	return &Controller{client: client, token: token, user: user, filter: filter}
}

// User returns the session identity the controller acts as.
func (c *Controller) User() models.User {
	return c.user
}

// Filter returns the current filter state.
func (c *Controller) Filter() models.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Snapshot returns the currently installed feed snapshot.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// SetTopicFilter replaces the topic filter and reloads.
func (c *Controller) SetTopicFilter(ctx context.Context, topic string) Snapshot {
	c.mu.Lock()
	c.filter.Topic = topic
	c.mu.Unlock()
	return c.Load(ctx)
}

// SetLiveOnly replaces the live-only toggle and reloads.
func (c *Controller) SetLiveOnly(ctx context.Context, on bool) Snapshot {
	c.mu.Lock()
	c.filter.LiveOnly = on
	c.mu.Unlock()
	return c.Load(ctx)
}

// Load fetches the post collection for the current filter state and
// installs the result as the new snapshot. Loads may overlap (a poll tick
// against a user-triggered reload); only the most recently issued load is
// allowed to install its result, so a stale response that resolves late
// is discarded instead of overwriting newer data. The returned snapshot
// is whatever is installed once this load has settled.
func (c *Controller) Load(ctx context.Context) Snapshot {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	filter := c.filter
	c.mu.Unlock()

	topic, status := filter.Params()
	posts, err := c.client.ListPosts(ctx, topic, status)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.issued {
		c.snapshot = Snapshot{Posts: posts, Err: err, Seq: seq, LoadedAt: time.Now()}
	}
	return c.snapshot
}

// Like toggles a like on the post and reloads the feed on success. The
// server decides whether the caller may react; ownership and expiry are
// only reflected in the rendered affordances, never re-checked here.
func (c *Controller) Like(ctx context.Context, postID string) error {
	if err := c.client.Like(ctx, c.token, postID); err != nil {
		return err
	}
	c.Load(ctx)
	return nil
}

// Dislike toggles a dislike on the post and reloads the feed on success.
func (c *Controller) Dislike(ctx context.Context, postID string) error {
	if err := c.client.Dislike(ctx, c.token, postID); err != nil {
		return err
	}
	c.Load(ctx)
	return nil
}

// AddComment posts a comment and reloads the feed on success. Empty or
// whitespace-only text is rejected locally; no request is issued.
func (c *Controller) AddComment(ctx context.Context, postID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyComment
	}
	if err := c.client.AddComment(ctx, c.token, postID, text); err != nil {
		return err
	}
	c.Load(ctx)
	return nil
}

// CreatePost publishes a post and reloads the feed, still scoped by the
// current filters. At least one topic must be selected; the rest of the
// fields are validated before any request is issued.
func (c *Controller) CreatePost(ctx context.Context, post models.NewPost) error {
	if len(post.Topics) == 0 {
		return ErrNoTopics
	}
	if err := post.Validate(); err != nil {
		return err
	}
	if err := c.client.CreatePost(ctx, c.token, post); err != nil {
		return err
	}
	c.Load(ctx)
	return nil
}

// Expired lists expired posts, optionally scoped to a topic. This is a
// standalone view; it does not replace the feed snapshot.
func (c *Controller) Expired(ctx context.Context, topic string) ([]models.Post, error) {
	if topic == "" || topic == models.TopicAll {
		return c.client.ListPosts(ctx, "", string(models.StatusExpired))
	}
	return c.client.ExpiredPosts(ctx, topic)
}

// MostActive fetches the post with the most interactions for a topic.
func (c *Controller) MostActive(ctx context.Context, topic string) (*models.Post, error) {
	return c.client.MostActive(ctx, topic)
}

// History lists the posts the session user has interacted with.
func (c *Controller) History(ctx context.Context) ([]models.Post, error) {
	return c.client.MyHistory(ctx, c.token)
}
