package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Status of a post as reported by the remote service. The client never
// computes or mutates it locally; it always re-fetches.
type Status string

const (
	StatusLive    Status = "Live"
	StatusExpired Status = "Expired"
)

// ReactionKind selects one of the two reaction sets on a post.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// TopicAll is the unscoped topic filter.
const TopicAll = "All"

// Post is a transient, non-authoritative read copy of a post document.
// It is reconstructed on every feed load and never cached between loads.
type Post struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Topics         []string  `json:"topics"`
	Owner          UserRef   `json:"owner"`
	Status         Status    `json:"status"`
	ExpirationTime time.Time `json:"expirationTime"`
	LikesCount     int       `json:"likesCount"`
	DislikesCount  int       `json:"dislikesCount"`
	CommentsCount  int       `json:"commentsCount"`
	Likes          []UserRef `json:"likes"`
	Dislikes       []UserRef `json:"dislikes"`
	Comments       []Comment `json:"comments"`
}

// Comment is owned by its parent post. Comments are only ever created
// from this surface, never edited or deleted.
type Comment struct {
	User      UserRef   `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is the session identity returned by login and registration.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// FilterState drives the query parameters of the next feed fetch.
type FilterState struct {
	Topic    string
	LiveOnly bool
}

// Params returns the topic and status query values; empty means omitted.
// The topic is omitted when unscoped and status=Live is appended only
// while the live-only toggle is set, so combinations compose additively.
func (f FilterState) Params() (topic, status string) {
	if f.Topic != "" && f.Topic != TopicAll {
		topic = f.Topic
	}
	if f.LiveOnly {
		status = string(StatusLive)
	}
	return topic, status
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the credentials before any request is issued.
func (c Credentials) Validate() error {
	return validate.Struct(c)
}

// Registration is the register request body.
type Registration struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate checks the registration fields before any request is issued.
func (r Registration) Validate() error {
	return validate.Struct(r)
}

// NewPost is the create-post request body.
type NewPost struct {
	Title             string   `json:"title" validate:"required,max=100"`
	Topics            []string `json:"topics" validate:"required,min=1,dive,required"`
	Message           string   `json:"message" validate:"required"`
	ExpirationMinutes int      `json:"expirationMinutes" validate:"required,gt=0"`
}

// Validate checks the post fields; at least one topic must be selected.
func (p NewPost) Validate() error {
	return validate.Struct(p)
}

// NewComment is the add-comment request body.
type NewComment struct {
	Text string `json:"text" validate:"required"`
}

// Validate rejects empty comment text.
func (c NewComment) Validate() error {
	return validate.Struct(c)
}
