package main

import (
	"context"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/blondy007/Impostor/internal/catalog"
	"github.com/blondy007/Impostor/internal/handlers"
	"github.com/blondy007/Impostor/internal/middleware"
	"github.com/blondy007/Impostor/internal/models"
	"github.com/blondy007/Impostor/internal/session"
	"github.com/blondy007/Impostor/internal/words"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	ctx := context.Background()

	wordCatalog := loadCatalog(ctx, logger)
	usedWords := connectUsedWordStore(ctx, logger)

	var generator words.Generator
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		generator = words.NewGeminiGenerator(apiKey, logger)
		logger.Info("AI word generator enabled")
	} else {
		logger.Info("GEMINI_API_KEY not set, AI word generation unavailable")
	}

	gs := handlers.NewGameServer(wordCatalog, usedWords, generator, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/session", gs.CreateSessionHandler)
	mux.HandleFunc("/session/", gs.SessionHandler)
	mux.HandleFunc("/ws/session/", gs.WSHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.LogMiddleware(logger)(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Infof("Impostor server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}

// loadCatalog picks the word source: Postgres when PG_HOST is configured, a
// JSON file when WORD_CATALOG_PATH points at one, the embedded catalog
// otherwise.
func loadCatalog(ctx context.Context, logger *logrus.Logger) []models.Word {
	if os.Getenv("PG_HOST") != "" {
		pool, err := catalog.ConnectPostgres(ctx)
		if err != nil {
			logger.Fatalf("Postgres connection failed: %v", err)
		}
		wordCatalog, err := catalog.LoadPostgres(ctx, pool)
		pool.Close()
		if err != nil {
			logger.Fatalf("Failed to load word catalog from Postgres: %v", err)
		}
		logger.WithField("words", len(wordCatalog)).Info("word catalog loaded from Postgres")
		return wordCatalog
	}

	wordCatalog, err := catalog.Load(os.Getenv("WORD_CATALOG_PATH"))
	if err != nil {
		logger.Fatalf("Failed to load word catalog: %v", err)
	}
	logger.WithField("words", len(wordCatalog)).Info("word catalog loaded")
	return wordCatalog
}

// connectUsedWordStore uses Redis when REDIS_ADDR is configured so the
// used-word record survives restarts, and an in-memory store otherwise.
func connectUsedWordStore(ctx context.Context, logger *logrus.Logger) session.UsedWordStore {
	if os.Getenv("REDIS_ADDR") == "" {
		return session.NewMemoryStore()
	}
	store, err := session.ConnectRedis(ctx)
	if err != nil {
		logger.Warnf("Redis unavailable, falling back to in-memory used-word store: %v", err)
		return session.NewMemoryStore()
	}
	logger.Info("used-word store backed by Redis")
	return store
}
