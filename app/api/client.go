package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Foco22/chameleon-frontend/app/models"
)

// Error is a server-reported application failure. The message is the
// server-supplied failure description, surfaced to the user verbatim.
// Authentication failures are not special-cased; a 401 reads like any
// other server error here.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// envelope is the response wrapper used by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client issues requests against the remote posting service. A bearer
// token is attached when the call requires authentication.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL, e.g.
// "http://localhost:5000/api".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// do performs one request/response round trip. Non-2xx responses are
// returned as *Error carrying the server's message; transport failures
// are returned as wrapped errors. No retries at this layer.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = "something went wrong"
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response from %s: %w", path, decodeErr)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data from %s: %w", path, err)
		}
	}
	return nil
}

// LoginResult carries the token and identity issued on a successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates a new account. The user still has to log in afterwards.
func (c *Client) Register(ctx context.Context, reg models.Registration) error {
	return c.do(ctx, http.MethodPost, "/auth/register", "", reg, nil)
}

// Login exchanges credentials for a bearer token and the user identity.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*LoginResult, error) {
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile fetches the identity behind the token.
func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	var data struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/profile", token, nil, &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// CreatePost publishes a new time-limited post.
func (c *Client) CreatePost(ctx context.Context, token string, post models.NewPost) error {
	return c.do(ctx, http.MethodPost, "/posts", token, post, nil)
}

// ListPosts fetches the post collection. Empty topic or status omits the
// corresponding query parameter.
func (c *Client) ListPosts(ctx context.Context, topic, status string) ([]models.Post, error) {
	query := url.Values{}
	if topic != "" {
		query.Set("topic", topic)
	}
	if status != "" {
		query.Set("status", status)
	}
	path := "/posts"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var data struct {
		Posts []models.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, path, "", nil, &data); err != nil {
		return nil, err
	}
	return data.Posts, nil
}

// GetPost fetches a single post document.
func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var data struct {
		Post models.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), "", nil, &data); err != nil {
		return nil, err
	}
	return &data.Post, nil
}

// Like toggles the caller's like on a post.
func (c *Client) Like(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(id)+"/like", token, nil, nil)
}

// Dislike toggles the caller's dislike on a post.
func (c *Client) Dislike(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(id)+"/dislike", token, nil, nil)
}

// AddComment appends a comment to a post.
func (c *Client) AddComment(ctx context.Context, token, id, text string) error {
	return c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(id)+"/comment", token, models.NewComment{Text: text}, nil)
}

// MostActive fetches the post with the most interactions for a topic.
func (c *Client) MostActive(ctx context.Context, topic string) (*models.Post, error) {
	var data struct {
		Post models.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodGet, "/posts/most-active/"+url.PathEscape(topic), "", nil, &data); err != nil {
		return nil, err
	}
	return &data.Post, nil
}

// ExpiredPosts fetches the expired posts for a topic.
func (c *Client) ExpiredPosts(ctx context.Context, topic string) ([]models.Post, error) {
	var data struct {
		Posts []models.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/posts/expired/"+url.PathEscape(topic), "", nil, &data); err != nil {
		return nil, err
	}
	return data.Posts, nil
}

// MyHistory fetches the posts the caller has interacted with.
func (c *Client) MyHistory(ctx context.Context, token string) ([]models.Post, error) {
	var data struct {
		Posts []models.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/posts/interactions/my-history", token, nil, &data); err != nil {
		return nil, err
	}
	return data.Posts, nil
}

// Interactions lists who reacted to a post, by kind.
type Interactions struct {
	Likes    []models.UserRef `json:"likes"`
	Dislikes []models.UserRef `json:"dislikes"`
}

// PostInteractions fetches the reaction sets of a single post.
func (c *Client) PostInteractions(ctx context.Context, id string) (*Interactions, error) {
	var data Interactions
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id)+"/interactions", "", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
