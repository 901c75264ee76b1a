package controllers

import (
	"html/template"
	"net/http"

	"github.com/Foco22/chameleon-frontend/app/api"
	"github.com/Foco22/chameleon-frontend/app/feed"
	"github.com/Foco22/chameleon-frontend/app/models"
	"github.com/Foco22/chameleon-frontend/app/session"
)

// AuthController handles the entry page and the login/register/logout
// glue. Credential handling is delegated entirely to the remote service;
// on success the token and identity land in the session store.
type AuthController struct {
	client    *api.Client
	sessions  *session.Manager
	registry  *feed.Registry
	templates map[string]*template.Template
}

// NewAuthController creates an AuthController.
func NewAuthController(client *api.Client, sessions *session.Manager, registry *feed.Registry, basePath string) *AuthController {
	return &AuthController{
		client:    client,
		sessions:  sessions,
		registry:  registry,
		templates: loadTemplates(basePath),
	}
}

// Entry shows the login/register page, or goes straight to the feed when
// a session already holds a token.
func (ac *AuthController) Entry(w http.ResponseWriter, r *http.Request) {
	if ac.sessions.APIToken(r.Context()) != "" {
		http.Redirect(w, r, "/feed", http.StatusSeeOther)
		return
	}
	data := struct {
		Flash string
	}{
		Flash: ac.sessions.PopFlash(r.Context()),
	}
	if err := ac.templates["index"].ExecuteTemplate(w, "layout", data); err != nil {
		sendError(w, "Template error: "+err.Error(), http.StatusInternalServerError)
	}
}

// Login exchanges the submitted credentials for a token and redirects to
// the feed. Failures of any kind land back on the entry page with the
// failure message.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	creds := models.Credentials{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if err := creds.Validate(); err != nil {
		ac.sessions.Flash(r.Context(), "please enter a valid email and password")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	result, err := ac.client.Login(r.Context(), creds)
	if err != nil {
		ac.sessions.Flash(r.Context(), err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := ac.sessions.SetIdentity(r.Context(), result.Token, result.User); err != nil {
		sendError(w, "Session error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/feed", http.StatusSeeOther)
}

// Register creates an account and sends the user back to the entry page
// to log in. Registration never starts a session by itself.
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	reg := models.Registration{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if err := reg.Validate(); err != nil {
		ac.sessions.Flash(r.Context(), "please check your registration details")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := ac.client.Register(r.Context(), reg); err != nil {
		ac.sessions.Flash(r.Context(), err.Error())
	} else {
		ac.sessions.Flash(r.Context(), "Registration successful! Please login.")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout tears down the feed controller, clears the session and returns
// to the entry page.
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	ac.registry.Release(ac.sessions.Token(r.Context()))
	if err := ac.sessions.Clear(r.Context()); err != nil {
		sendError(w, "Session error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
