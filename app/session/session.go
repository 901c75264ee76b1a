package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Foco22/chameleon-frontend/app/models"

	"github.com/alexedwards/scs/v2"
	"github.com/dgraph-io/badger/v4"
)

// Session keys. The token and identity are written at login and cleared
// at logout; the filter pair is written by the feed controller handlers
// so it survives page loads for the lifetime of the session.
const (
	apiTokenKey = "apiToken"
	userKey     = "user"
	topicKey    = "feedTopic"
	liveOnlyKey = "feedLiveOnly"
	flashKey    = "flash"
)

// Manager wraps scs with typed accessors for everything this client
// keeps per session: the API bearer token, the user identity record,
// the feed filter state and one-shot flash messages.
type Manager struct {
	*scs.SessionManager
}

// NewManager builds a session manager backed by the given badger database.
func NewManager(db *badger.DB, lifetime time.Duration) *Manager {
	sm := scs.New()
	sm.Store = NewStore(db)
	sm.Lifetime = lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return &Manager{sm}
}

// SetIdentity stores the bearer token and user record after a successful
// login. The session token is renewed to avoid fixation across the
// privilege change.
func (m *Manager) SetIdentity(ctx context.Context, token string, user models.User) error {
	if err := m.RenewToken(ctx); err != nil {
		return err
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	m.Put(ctx, apiTokenKey, token)
	m.Put(ctx, userKey, string(data))
	return nil
}

// APIToken returns the stored bearer token, empty when not logged in.
func (m *Manager) APIToken(ctx context.Context) string {
	return m.GetString(ctx, apiTokenKey)
}

// CurrentUser returns the stored identity record.
func (m *Manager) CurrentUser(ctx context.Context) (models.User, bool) {
	raw := m.GetString(ctx, userKey)
	if raw == "" {
		return models.User{}, false
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.User{}, false
	}
	return user, true
}

// SetFilter persists the feed filter state.
func (m *Manager) SetFilter(ctx context.Context, filter models.FilterState) {
	m.Put(ctx, topicKey, filter.Topic)
	m.Put(ctx, liveOnlyKey, filter.LiveOnly)
}

// Filter returns the persisted feed filter state, defaulting to all
// topics with the live-only toggle off.
func (m *Manager) Filter(ctx context.Context) models.FilterState {
	topic := m.GetString(ctx, topicKey)
	if topic == "" {
		topic = models.TopicAll
	}
	return models.FilterState{
		Topic:    topic,
		LiveOnly: m.GetBool(ctx, liveOnlyKey),
	}
}

// Flash stores a one-shot user-facing message.
func (m *Manager) Flash(ctx context.Context, message string) {
	m.Put(ctx, flashKey, message)
}

// PopFlash returns and clears the pending message, if any.
func (m *Manager) PopFlash(ctx context.Context) string {
	return m.PopString(ctx, flashKey)
}

// Clear destroys the session entirely (logout).
func (m *Manager) Clear(ctx context.Context) error {
	return m.Destroy(ctx)
}
