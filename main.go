package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Foco22/chameleon-frontend/app/api"
	"github.com/Foco22/chameleon-frontend/app/config"
	"github.com/Foco22/chameleon-frontend/app/controllers"
	"github.com/Foco22/chameleon-frontend/app/feed"
	"github.com/Foco22/chameleon-frontend/app/routes"
	"github.com/Foco22/chameleon-frontend/app/session"
	"github.com/Foco22/chameleon-frontend/app/views"

	"github.com/dgraph-io/badger/v4"
)

const cliVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch strings.ToLower(os.Args[1]) {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("chameleon version %s\n", cliVersion)
	case "serve":
		serve()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	helpText := `Usage: chameleon <command>
Commands:
  help                Display this help message.
  version             Show version information.
  serve               Run the web frontend for the posting service.

Environment:
  CHAMELEON_ADDR            Listen address (default :8080).
  CHAMELEON_API_URL         Posting service base URL (default http://localhost:3000).
  CHAMELEON_DATA_DIR        Session database directory (default ./data).
  CHAMELEON_POLL_SECONDS    Feed refresh interval, 0 disables (default 30).
  CHAMELEON_SESSION_HOURS   Idle login lifetime (default 12).
`
	fmt.Println(helpText)
}

func serve() {
	cfg := config.Load()

	db, err := badger.Open(badger.DefaultOptions(cfg.DataDir).WithLogger(nil))
	if err != nil {
		log.Fatalf("Failed to open session database: %v", err)
	}
	defer db.Close()

	sessions := session.NewManager(db, cfg.SessionLifetime)
	client := api.NewClient(cfg.APIURL)

	registry := feed.NewRegistry(client, cfg.PollInterval, 2*cfg.SessionLifetime)
	defer registry.Close()

	renderer, err := views.NewRenderer("")
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	auth := controllers.NewAuthController(client, sessions, registry, "")
	feedC := controllers.NewFeedController(client, sessions, registry, renderer, "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go registry.Run(ctx)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: sessions.LoadAndSave(routes.Setup(auth, feedC, sessions)),
	}

	go func() {
		log.Printf("Serving frontend on %s (posting service at %s)", cfg.Addr, cfg.APIURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
