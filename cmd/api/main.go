package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/reprise-labs/reprise/internal/adapters/auth"
	"github.com/reprise-labs/reprise/internal/adapters/rest"
	"github.com/reprise-labs/reprise/internal/adapters/spotify"
	"github.com/reprise-labs/reprise/internal/adapters/sqlite"
	"github.com/reprise-labs/reprise/internal/core/services"
)

func main() {
	// 1. Configuration (Environment Variables)
	// It's best practice to crash early if required config is missing.
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO no .env file loaded: %v", err)
	}

	clientID := os.Getenv("SPOTIFY_CLIENT_ID")
	clientSecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	refreshToken := os.Getenv("SPOTIFY_REFRESH_TOKEN")
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		log.Fatal("FATAL: SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and SPOTIFY_REFRESH_TOKEN environment variables are required")
	}

	basePlaylistID := os.Getenv("BASE_PLAYLIST_ID")
	basePlaylistName := os.Getenv("BASE_PLAYLIST_NAME")
	if basePlaylistID == "" || basePlaylistName == "" {
		log.Fatal("FATAL: BASE_PLAYLIST_ID and BASE_PLAYLIST_NAME environment variables are required")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "reprise.db"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Snapshot Store
	store, err := sqlite.NewStore(dbPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer store.Close()

	// -- Auth + Spotify Adapter
	tokens := auth.NewAuthenticator(auth.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
		CachePath:    os.Getenv("TOKEN_CACHE_PATH"),
	})
	client := spotify.NewClient(nil, spotify.DefaultBaseURL, tokens)

	// 3. Initialize Core Logic (The Driver)
	// This is Dependency Injection in action: the same client serves both
	// the catalog and the library port.
	svc := services.NewRecommender(client, client, store, basePlaylistID, basePlaylistName)

	// 4. Initialize "Driving" Adapter (The Interface)
	handler := rest.NewHandler(svc)

	// 5. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("🎶 Reprise API is running on http://localhost:%s", port)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
