package alerts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"majordome-backend/internal/engine"
)

// WeatherProvider supplies the one-day forecast, nil on any failure.
type WeatherProvider interface {
	FetchDailySummary(ctx context.Context, lat, lon float64) *engine.WeatherSummary
}

// Handler serves GET /alerts/suggestions.
type Handler struct {
	DB      *sql.DB
	Weather WeatherProvider
}

func NewHandler(db *sql.DB, weather WeatherProvider) *Handler {
	return &Handler{DB: db, Weather: weather}
}

// SuggestionsResponse mirrors what the household dashboard renders.
type SuggestionsResponse struct {
	City   string  `json:"city"`
	Alerts []Alert `json:"alerts"`
	Info   string  `json:"info"`
}

// Suggestions handles GET /alerts/suggestions.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := SuggestionsResponse{City: "unknown", Alerts: []Alert{}}

	var (
		city     sql.NullString
		lat, lon sql.NullFloat64
	)
	err := h.DB.QueryRowContext(r.Context(),
		`SELECT city, lat, lon FROM household_config WHERE id = 1`,
	).Scan(&city, &lat, &lon)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Printf("alerts: household config: %v", err)
		http.Error(w, "db query error", http.StatusInternalServerError)
		return
	}
	if city.Valid {
		resp.City = city.String
	}

	if !lat.Valid || !lon.Valid {
		resp.Info = "no coordinates configured, weather suggestions unavailable"
		json.NewEncoder(w).Encode(resp)
		return
	}

	sum := h.Weather.FetchDailySummary(r.Context(), lat.Float64, lon.Float64)
	if sum == nil {
		resp.Info = "weather provider unavailable"
		json.NewEncoder(w).Encode(resp)
		return
	}

	rules := LoadRules(r.Context(), h.DB)
	if alerts := FromSummary(sum, rules); alerts != nil {
		resp.Alerts = alerts
	}
	resp.Info = sum.String()
	json.NewEncoder(w).Encode(resp)
}
