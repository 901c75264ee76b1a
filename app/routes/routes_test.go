package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Foco22/chameleon-frontend/app/api"
	"github.com/Foco22/chameleon-frontend/app/controllers"
	"github.com/Foco22/chameleon-frontend/app/feed"
	"github.com/Foco22/chameleon-frontend/app/session"
	"github.com/Foco22/chameleon-frontend/app/views"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a stateful stub of the remote posting service: one post
// whose reaction and comment state mutates the way the real service
// would, so reload-after-mutation is observable end to end.
type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	status   string
	expires  time.Time
	likes    []string
	comments []map[string]any
	server   *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		status:  "Live",
		expires: time.Now().Add(2 * time.Hour),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		fmt.Fprint(w, `{"success":true,"data":{"token":"tok-1","user":{"id":"u1","username":"alice","email":"a@b.com"}}}`)
	case r.Method == http.MethodPost && r.URL.Path == "/posts/p1/like":
		f.mu.Lock()
		f.likes = append(f.likes, "u1")
		f.mu.Unlock()
		fmt.Fprint(w, `{"success":true}`)
	case r.Method == http.MethodPost && r.URL.Path == "/posts/p1/comment":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.comments = append(f.comments, map[string]any{
			"user":      map[string]any{"_id": "u1", "username": "alice"},
			"text":      body["text"],
			"createdAt": time.Now().Format(time.RFC3339),
		})
		f.mu.Unlock()
		fmt.Fprint(w, `{"success":true}`)
	case r.Method == http.MethodGet && r.URL.Path == "/posts/p1/interactions":
		f.mu.Lock()
		likes := append([]string(nil), f.likes...)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"likes": likes, "dislikes": []string{}},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/posts/p1":
		f.mu.Lock()
		post := map[string]any{"_id": "p1", "title": "Morning thoughts", "status": f.status}
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"post": post},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/posts":
		f.mu.Lock()
		post := map[string]any{
			"_id":            "p1",
			"title":          "Morning thoughts",
			"message":        "hello world",
			"topics":         []string{"Tech"},
			"owner":          map[string]any{"_id": "u9", "username": "carol"},
			"status":         f.status,
			"expirationTime": f.expires.Format(time.RFC3339),
			"likesCount":     len(f.likes),
			"likes":          f.likes,
			"commentsCount":  len(f.comments),
			"comments":       f.comments,
		}
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"posts": []any{post}},
		})
	default:
		fmt.Fprint(w, `{"success":true}`)
	}
}

func (f *fakeAPI) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type testApp struct {
	handler  http.Handler
	remote   *fakeAPI
	registry *feed.Registry
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	remote := newFakeAPI(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sessions := session.NewManager(db, time.Hour)
	client := api.NewClient(remote.server.URL)
	// polling disabled so every request in the log is test-driven
	registry := feed.NewRegistry(client, 0, time.Hour)
	t.Cleanup(registry.Close)

	renderer, err := views.NewRenderer("../..")
	require.NoError(t, err)

	auth := controllers.NewAuthController(client, sessions, registry, "../..")
	feedC := controllers.NewFeedController(client, sessions, registry, renderer, "../..")

	return &testApp{
		handler:  sessions.LoadAndSave(Setup(auth, feedC, sessions)),
		remote:   remote,
		registry: registry,
	}
}

func (a *testApp) do(t *testing.T, method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T) []*http.Cookie {
	t.Helper()
	w := a.do(t, http.MethodPost, "/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"secret"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/feed", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestAuthGuard(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/feed", "/history", "/expired", "/most-active"} {
		w := app.do(t, http.MethodGet, target, nil, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code, target)
		assert.Equal(t, "/", w.Header().Get("Location"), target)
	}
	// the guard runs before any network activity
	assert.Empty(t, app.remote.recorded())
}

func TestLoginAndFeed(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t)

	w := app.do(t, http.MethodGet, "/feed", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "Morning thoughts")
	assert.Contains(t, body, "Like (0)")
}

func TestLikeEndToEnd(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t)

	w := app.do(t, http.MethodPost, "/posts/p1/like", nil, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)

	// the action resolved, then the feed re-fetched
	calls := app.remote.recorded()
	require.GreaterOrEqual(t, len(calls), 2)
	assert.Equal(t, "POST /posts/p1/like", calls[len(calls)-2])
	assert.Equal(t, "GET /posts", calls[len(calls)-1])

	// a subsequent reload reflects the incremented count and the acting
	// user in the like reference set
	page := app.do(t, http.MethodGet, "/feed", nil, cookies)
	body := page.Body.String()
	assert.Contains(t, body, "Like (1)")
	assert.Contains(t, body, "like active")
}

func TestCommentEndToEnd(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t)

	w := app.do(t, http.MethodPost, "/posts/p1/comment", url.Values{"text": {"nice one"}}, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)

	page := app.do(t, http.MethodGet, "/feed", nil, cookies)
	assert.Contains(t, page.Body.String(), "nice one")
}

func TestReactionsPage(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t)

	w := app.do(t, http.MethodPost, "/posts/p1/like", nil, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)

	page := app.do(t, http.MethodGet, "/posts/p1/reactions", nil, cookies)
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, "Morning thoughts")
	assert.Contains(t, body, "Liked by (1)")
	assert.Contains(t, body, "No dislikes yet")
	// bare identifier references render as the unknown placeholder
	assert.Contains(t, body, "Unknown")
}

func TestEmptyCommentIsRejectedLocally(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t)
	before := len(app.remote.recorded())

	w := app.do(t, http.MethodPost, "/posts/p1/comment", url.Values{"text": {"   "}}, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)

	// no request of any kind was issued for the rejected comment
	assert.Equal(t, before, len(app.remote.recorded()))

	page := app.do(t, http.MethodGet, "/feed", nil, cookies)
	assert.Contains(t, page.Body.String(), "please enter a comment")
}

func TestZeroTopicsIsRejectedLocally(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t)
	before := len(app.remote.recorded())

	w := app.do(t, http.MethodPost, "/posts", url.Values{
		"title":             {"t"},
		"message":           {"m"},
		"expirationMinutes": {"5"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, before, len(app.remote.recorded()))

	page := app.do(t, http.MethodGet, "/feed", nil, cookies)
	assert.Contains(t, page.Body.String(), "please select at least one topic")
}

func TestExpiredPostAffordances(t *testing.T) {
	app := newTestApp(t)
	app.remote.mu.Lock()
	app.remote.status = "Expired"
	app.remote.expires = time.Now().Add(-time.Hour)
	app.remote.mu.Unlock()

	cookies := app.login(t)
	page := app.do(t, http.MethodGet, "/feed", nil, cookies)
	body := page.Body.String()

	assert.Contains(t, body, "disabled")
	assert.Contains(t, body, "No more comments allowed")
	assert.NotContains(t, body, `action="/posts/p1/comment"`)
	assert.Contains(t, body, "Expired")
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t)

	// opening the feed creates the session's controller
	app.do(t, http.MethodGet, "/feed", nil, cookies)
	require.Equal(t, 1, app.registry.Len())

	w := app.do(t, http.MethodPost, "/logout", nil, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Zero(t, app.registry.Len())

	after := app.do(t, http.MethodGet, "/feed", nil, append(cookies, w.Result().Cookies()...))
	assert.Equal(t, http.StatusSeeOther, after.Code)
}
