package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/tural-travel/tural-bot/internal/bot"
	"github.com/tural-travel/tural-bot/internal/graph"
	"github.com/tural-travel/tural-bot/internal/i18n"
	"github.com/tural-travel/tural-bot/internal/storage"
	"github.com/tural-travel/tural-bot/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	// --- DB ---
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	// --- Telegram ---
	tg := telegram.NewClient(token)
	if err := tg.SetMyCommands(ctx); err != nil {
		log.Printf("setMyCommands error: %v", err)
	}
	if webhookURL := os.Getenv("WEBHOOK_URL"); webhookURL != "" {
		if err := tg.SetWebhook(ctx, webhookURL); err != nil {
			log.Fatalf("setWebhook error: %v", err)
		}
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// --- Bot module wiring ---
	repo := bot.NewRepo(db)
	cache := bot.NewMemoryCache()
	graphStore := graph.NewStore(db)
	translator := i18n.NewStore(db)
	botService := bot.NewService(repo, cache, graphStore, translator, tg)
	botHandler := bot.NewHandler(botService)

	bot.RegisterRoutes(r, botHandler)

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	log.Printf("listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
