package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"majordome-backend/internal/alerts"
	"majordome-backend/internal/catalog"
	"majordome-backend/internal/config"
	"majordome-backend/internal/db"
	"majordome-backend/internal/engine"
	"majordome-backend/internal/notify"
	"majordome-backend/internal/weather"
)

// ----------------------
//        MAIN
// ----------------------

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		log.Fatal("❌ Failed to apply schema:", err)
	}

	log.Println("✅ Connected to PostgreSQL!")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("❌ Invalid timezone:", err)
	}

	repo := catalog.NewRepo(database)
	weatherClient := weather.New()
	catalogHandler := catalog.NewHandler(repo, weatherClient)
	alertHandler := alerts.NewHandler(database, weatherClient)

	var notifier *notify.Telegram
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifier, err = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Println("⚠️ Telegram disabled:", err)
			notifier = nil
		} else {
			log.Println("✅ Telegram notifier ready")
		}
	}

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- ROOMS API -----
	mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			catalogHandler.Rooms(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// ----- TASKS API -----
	mux.HandleFunc("/tasks/priorities", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			catalogHandler.Priorities(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/tasks/activate", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			catalogHandler.Activate(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// ----- ACTIONS API -----
	mux.HandleFunc("/actions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			catalogHandler.RecordAction(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// ----- ALERTS API -----
	mux.HandleFunc("/alerts/suggestions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			alertHandler.Suggestions(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Daily audit
	if cfg.AuditTime != "" {
		hour, minute, err := parseClock(cfg.AuditTime)
		if err != nil {
			log.Fatal("❌ Invalid AUDIT_TIME:", err)
		}
		scheduler := cron.New(cron.WithLocation(loc))
		expr := fmt.Sprintf("%d %d * * *", minute, hour)
		if _, err := scheduler.AddFunc(expr, runAudit(database, repo, weatherClient, notifier, loc)); err != nil {
			log.Fatal("❌ Failed to schedule audit:", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("✅ Daily audit scheduled at %s (%s)", cfg.AuditTime, cfg.Timezone)
	}

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	log.Println("🚀 API server is running on", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, handler))
}

// ----------------------
//     DAILY AUDIT
// ----------------------

// runAudit ranks the whole catalog, records triggered weather alerts
// and pushes the digest to Telegram when configured.
func runAudit(database *sql.DB, repo *catalog.Repo, weatherClient *weather.Client, notifier *notify.Telegram, loc *time.Location) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var sum *engine.WeatherSummary
		if hh, err := repo.Household(ctx); err == nil && hh.Lat != nil && hh.Lon != nil {
			sum = weatherClient.FetchDailySummary(ctx, *hh.Lat, *hh.Lon)
		}
		evalCtx := engine.BuildContext(time.Now().In(loc), sum)

		inputs, err := repo.Catalog(ctx, "")
		if err != nil {
			log.Println("audit: catalog read failed:", err)
			return
		}
		ranked := engine.Rank(inputs, evalCtx, 10)

		triggered := alerts.FromSummary(sum, alerts.LoadRules(ctx, database))
		if err := alerts.Log(ctx, database, triggered); err != nil {
			log.Println("audit: alert log failed:", err)
		}

		if notifier != nil {
			if err := notifier.SendDigest(notify.BuildDigest(ranked, triggered, evalCtx.Weather)); err != nil {
				log.Println("audit: telegram send failed:", err)
			}
		}

		log.Printf("audit complete: %d visible tasks, %d alerts", len(ranked), len(triggered))
	}
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
