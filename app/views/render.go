package views

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"github.com/Foco22/chameleon-frontend/app/feed"
	"github.com/Foco22/chameleon-frontend/app/models"
)

// Renderer maps post records to HTML fragments. It holds parsed templates
// and nothing else: rendering has no side effects, and every derived fact
// is computed fresh per call.
type Renderer struct {
	tpl *template.Template
}

// NewRenderer parses the fragment templates relative to basePath (empty
// when running from the repository root).
func NewRenderer(basePath string) (*Renderer, error) {
	pattern := filepath.Join(basePath, "app", "views", "templates", "*.html")
	tpl, err := template.New("fragments").Funcs(template.FuncMap{
		"lower": strings.ToLower,
	}).ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("parse view templates: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// CardData is everything the card template needs about one post,
// derived from the post record and the current session identity.
type CardData struct {
	Post             models.Post
	IsOwner          bool
	IsExpired        bool
	HasLiked         bool
	HasDisliked      bool
	Disabled         bool
	LikeUsernames    []string
	DislikeUsernames []string
	TotalReactions   int
	TimeLeft         string
}

func buildCard(post models.Post, user *models.User, now time.Time) CardData {
	return CardData{
		Post:             post,
		IsOwner:          post.IsOwner(user),
		IsExpired:        post.IsExpired(),
		HasLiked:         post.HasReacted(models.ReactionLike, user),
		HasDisliked:      post.HasReacted(models.ReactionDislike, user),
		Disabled:         post.IsExpired() || post.IsOwner(user),
		LikeUsernames:    post.ReactorUsernames(models.ReactionLike),
		DislikeUsernames: post.ReactorUsernames(models.ReactionDislike),
		TotalReactions:   post.LikesCount + post.DislikesCount,
		TimeLeft:         post.TimeLeft(now),
	}
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Card renders a single post card for the given session identity.
func (r *Renderer) Card(post models.Post, user *models.User, now time.Time) (template.HTML, error) {
	return r.execute("card", buildCard(post, user, now))
}

// FeedData drives the feed fragment: the cards, or one of the two
// placeholders (error with the failure message, or empty state).
type FeedData struct {
	Cards []CardData
	Error string
}

// Feed renders a full feed snapshot: all cards, the empty-state
// placeholder, or the error placeholder with the failure message.
func (r *Renderer) Feed(snap feed.Snapshot, user *models.User, now time.Time) (template.HTML, error) {
	data := FeedData{}
	if snap.Err != nil {
		data.Error = snap.Err.Error()
	} else {
		data.Cards = make([]CardData, 0, len(snap.Posts))
		for _, post := range snap.Posts {
			data.Cards = append(data.Cards, buildCard(post, user, now))
		}
	}
	return r.execute("feed", data)
}

// Cards renders a plain list of posts (history, expired listings) using
// the same card fragment as the feed.
func (r *Renderer) Cards(posts []models.Post, user *models.User, now time.Time) (template.HTML, error) {
	data := FeedData{Cards: make([]CardData, 0, len(posts))}
	for _, post := range posts {
		data.Cards = append(data.Cards, buildCard(post, user, now))
	}
	return r.execute("feed", data)
}

// ReactionsData drives the reaction detail view. The two categories are
// rendered independently; each shows its own zero state.
type ReactionsData struct {
	Title    string
	Likes    []string
	Dislikes []string
}

// Reactions renders the detail view of who liked and disliked a post,
// from the reference sets the interactions endpoint returns.
func (r *Renderer) Reactions(title string, likes, dislikes []models.UserRef) (template.HTML, error) {
	return r.execute("reactions", ReactionsData{
		Title:    title,
		Likes:    displayNames(likes),
		Dislikes: displayNames(dislikes),
	})
}

func displayNames(refs []models.UserRef) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.DisplayName())
	}
	return names
}
