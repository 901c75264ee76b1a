package routes

import (
	"net/http"

	"github.com/Foco22/chameleon-frontend/app/controllers"
	"github.com/Foco22/chameleon-frontend/app/middleware"
	"github.com/Foco22/chameleon-frontend/app/session"

	"github.com/gorilla/mux"
)

// Setup defines the application's routes and returns a router. The
// session middleware is applied around the router by the caller so the
// auth guard can see the loaded session.
func Setup(auth *controllers.AuthController, feed *controllers.FeedController, sessions *session.Manager) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Entry page and auth glue
	router.HandleFunc("/", auth.Entry).Methods("GET")
	router.HandleFunc("/login", auth.Login).Methods("POST")
	router.HandleFunc("/register", auth.Register).Methods("POST")
	router.HandleFunc("/logout", auth.Logout).Methods("POST")

	requireAuth := middleware.RequireAuth(sessions)

	// Feed page and filter actions
	feedRoutes := router.PathPrefix("/feed").Subrouter()
	feedRoutes.Use(requireAuth)
	feedRoutes.HandleFunc("", feed.Feed).Methods("GET")
	feedRoutes.HandleFunc("/topic", feed.SetTopic).Methods("POST")
	feedRoutes.HandleFunc("/live-only", feed.SetLiveOnly).Methods("POST")

	// Post pages and mutations
	posts := router.PathPrefix("/posts").Subrouter()
	posts.Use(requireAuth)
	posts.HandleFunc("", feed.Create).Methods("POST")
	posts.HandleFunc("/{id}", feed.Show).Methods("GET")
	posts.HandleFunc("/{id}/reactions", feed.Reactions).Methods("GET")
	posts.HandleFunc("/{id}/like", feed.Like).Methods("POST")
	posts.HandleFunc("/{id}/dislike", feed.Dislike).Methods("POST")
	posts.HandleFunc("/{id}/comment", feed.Comment).Methods("POST")

	// Secondary listings
	router.Handle("/expired", requireAuth(http.HandlerFunc(feed.Expired))).Methods("GET")
	router.Handle("/most-active", requireAuth(http.HandlerFunc(feed.MostActive))).Methods("GET")
	router.Handle("/history", requireAuth(http.HandlerFunc(feed.History))).Methods("GET")

	return router
}
