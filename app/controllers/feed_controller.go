package controllers

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/Foco22/chameleon-frontend/app/api"
	"github.com/Foco22/chameleon-frontend/app/feed"
	"github.com/Foco22/chameleon-frontend/app/models"
	"github.com/Foco22/chameleon-frontend/app/session"
	"github.com/Foco22/chameleon-frontend/app/views"

	"github.com/gorilla/mux"
)

// FeedController renders the feed and binds every user action to an API
// call followed by a full feed reload. Action failures surface as flash
// messages; feed-level failures render as the inline error placeholder.
type FeedController struct {
	client    *api.Client
	sessions  *session.Manager
	registry  *feed.Registry
	renderer  *views.Renderer
	templates map[string]*template.Template
}

// NewFeedController creates a FeedController.
func NewFeedController(client *api.Client, sessions *session.Manager, registry *feed.Registry, renderer *views.Renderer, basePath string) *FeedController {
	return &FeedController{
		client:    client,
		sessions:  sessions,
		registry:  registry,
		renderer:  renderer,
		templates: loadTemplates(basePath),
	}
}

// controller returns the live feed controller for this session, creating
// it with the session's persisted filter state on first use.
func (fc *FeedController) controller(r *http.Request) *feed.Controller {
	ctx := r.Context()
	user, _ := fc.sessions.CurrentUser(ctx)
	return fc.registry.Acquire(
		fc.sessions.Token(ctx),
		fc.sessions.APIToken(ctx),
		user,
		fc.sessions.Filter(ctx),
	)
}

// Feed loads and renders the feed page with the current filters.
func (fc *FeedController) Feed(w http.ResponseWriter, r *http.Request) {
	ctrl := fc.controller(r)
	snap := ctrl.Load(r.Context())
	user := ctrl.User()

	fragment, err := fc.renderer.Feed(snap, &user, time.Now())
	if err != nil {
		sendError(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		Username string
		Flash    string
		Topics   []string
		Filter   models.FilterState
		Feed     template.HTML
	}{
		Username: user.Username,
		Flash:    fc.sessions.PopFlash(r.Context()),
		Topics:   Topics,
		Filter:   ctrl.Filter(),
		Feed:     fragment,
	}
	if err := fc.templates["feed"].ExecuteTemplate(w, "layout", data); err != nil {
		sendError(w, "Template error: "+err.Error(), http.StatusInternalServerError)
	}
}

// SetTopic replaces the topic filter and returns to the feed.
func (fc *FeedController) SetTopic(w http.ResponseWriter, r *http.Request) {
	ctrl := fc.controller(r)
	ctrl.SetTopicFilter(r.Context(), r.FormValue("topic"))
	fc.sessions.SetFilter(r.Context(), ctrl.Filter())
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

// SetLiveOnly replaces the live-only toggle and returns to the feed.
func (fc *FeedController) SetLiveOnly(w http.ResponseWriter, r *http.Request) {
	ctrl := fc.controller(r)
	ctrl.SetLiveOnly(r.Context(), r.FormValue("live") == "on")
	fc.sessions.SetFilter(r.Context(), ctrl.Filter())
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

// Create publishes a new post and returns to the feed.
func (fc *FeedController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	minutes, _ := strconv.Atoi(r.FormValue("expirationMinutes"))
	post := models.NewPost{
		Title:             r.FormValue("title"),
		Message:           r.FormValue("message"),
		Topics:            r.Form["topics"],
		ExpirationMinutes: minutes,
	}

	if err := fc.controller(r).CreatePost(r.Context(), post); err != nil {
		fc.sessions.Flash(r.Context(), err.Error())
	} else {
		fc.sessions.Flash(r.Context(), "Post created successfully!")
	}
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

// Like toggles a like and returns to the feed.
func (fc *FeedController) Like(w http.ResponseWriter, r *http.Request) {
	if err := fc.controller(r).Like(r.Context(), mux.Vars(r)["id"]); err != nil {
		fc.sessions.Flash(r.Context(), err.Error())
	}
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

// Dislike toggles a dislike and returns to the feed.
func (fc *FeedController) Dislike(w http.ResponseWriter, r *http.Request) {
	if err := fc.controller(r).Dislike(r.Context(), mux.Vars(r)["id"]); err != nil {
		fc.sessions.Flash(r.Context(), err.Error())
	}
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

// Comment appends a comment and returns to the feed.
func (fc *FeedController) Comment(w http.ResponseWriter, r *http.Request) {
	if err := fc.controller(r).AddComment(r.Context(), mux.Vars(r)["id"], r.FormValue("text")); err != nil {
		fc.sessions.Flash(r.Context(), err.Error())
	}
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

// Show renders a single post page.
func (fc *FeedController) Show(w http.ResponseWriter, r *http.Request) {
	user, _ := fc.sessions.CurrentUser(r.Context())
	post, err := fc.client.GetPost(r.Context(), mux.Vars(r)["id"])

	var fragment template.HTML
	var renderErr error
	if err != nil {
		fragment, renderErr = fc.renderer.Feed(feed.Snapshot{Err: err}, &user, time.Now())
	} else {
		fragment, renderErr = fc.renderer.Cards([]models.Post{*post}, &user, time.Now())
	}
	if renderErr != nil {
		sendError(w, "Template error: "+renderErr.Error(), http.StatusInternalServerError)
		return
	}
	fc.renderListPage(w, r, "Post", fragment)
}

// Reactions renders the detail view of who reacted to a post.
func (fc *FeedController) Reactions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	post, err := fc.client.GetPost(r.Context(), id)
	if err != nil {
		fc.sessions.Flash(r.Context(), err.Error())
		http.Redirect(w, r, "/feed", http.StatusSeeOther)
		return
	}
	inter, err := fc.client.PostInteractions(r.Context(), id)
	if err != nil {
		fc.sessions.Flash(r.Context(), err.Error())
		http.Redirect(w, r, "/feed", http.StatusSeeOther)
		return
	}

	fragment, err := fc.renderer.Reactions(post.Title, inter.Likes, inter.Dislikes)
	if err != nil {
		sendError(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	user, _ := fc.sessions.CurrentUser(r.Context())
	data := struct {
		Username  string
		Flash     string
		Reactions template.HTML
	}{
		Username:  user.Username,
		Flash:     fc.sessions.PopFlash(r.Context()),
		Reactions: fragment,
	}
	if err := fc.templates["reactions"].ExecuteTemplate(w, "layout", data); err != nil {
		sendError(w, "Template error: "+err.Error(), http.StatusInternalServerError)
	}
}

// Expired renders the expired posts listing, optionally scoped to a topic.
func (fc *FeedController) Expired(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	ctrl := fc.controller(r)
	user := ctrl.User()

	posts, err := ctrl.Expired(r.Context(), topic)
	fragment, renderErr := fc.renderListing(posts, err, &user)
	if renderErr != nil {
		sendError(w, "Template error: "+renderErr.Error(), http.StatusInternalServerError)
		return
	}
	fc.renderListPage(w, r, "Expired Posts", fragment)
}

// MostActive renders the post with the most interactions for a topic.
func (fc *FeedController) MostActive(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	ctrl := fc.controller(r)
	user := ctrl.User()

	var fragment template.HTML
	var renderErr error
	if topic == "" {
		fragment, renderErr = fc.renderer.Cards(nil, &user, time.Now())
	} else {
		post, err := ctrl.MostActive(r.Context(), topic)
		var posts []models.Post
		if post != nil {
			posts = []models.Post{*post}
		}
		fragment, renderErr = fc.renderListing(posts, err, &user)
	}
	if renderErr != nil {
		sendError(w, "Template error: "+renderErr.Error(), http.StatusInternalServerError)
		return
	}
	fc.renderListPage(w, r, "Most Active Post", fragment)
}

// History renders the posts the session user has interacted with.
func (fc *FeedController) History(w http.ResponseWriter, r *http.Request) {
	ctrl := fc.controller(r)
	user := ctrl.User()

	posts, err := ctrl.History(r.Context())
	fragment, renderErr := fc.renderListing(posts, err, &user)
	if renderErr != nil {
		sendError(w, "Template error: "+renderErr.Error(), http.StatusInternalServerError)
		return
	}
	fc.renderListPage(w, r, "My Interaction History", fragment)
}

// renderListing turns a fetched post list (or its failure) into a cards
// fragment with the same placeholder rules as the feed.
func (fc *FeedController) renderListing(posts []models.Post, err error, user *models.User) (template.HTML, error) {
	if err != nil {
		return fc.renderer.Feed(feed.Snapshot{Err: err}, user, time.Now())
	}
	return fc.renderer.Cards(posts, user, time.Now())
}

func (fc *FeedController) renderListPage(w http.ResponseWriter, r *http.Request, title string, content template.HTML) {
	user, _ := fc.sessions.CurrentUser(r.Context())
	data := struct {
		Username string
		Flash    string
		Title    string
		Topics   []string
		Content  template.HTML
	}{
		Username: user.Username,
		Flash:    fc.sessions.PopFlash(r.Context()),
		Title:    title,
		Topics:   Topics,
		Content:  content,
	}
	if err := fc.templates["list"].ExecuteTemplate(w, "layout", data); err != nil {
		sendError(w, "Template error: "+err.Error(), http.StatusInternalServerError)
	}
}
