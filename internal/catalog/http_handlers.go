package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"majordome-backend/internal/engine"
)

// defaultAuditLimit is the result window for a whole-catalog query.
// Room-scoped queries are unlimited.
const defaultAuditLimit = 10

// WeatherProvider supplies the one-day forecast; nil result means
// "rank with fair-weather defaults".
type WeatherProvider interface {
	FetchDailySummary(ctx context.Context, lat, lon float64) *engine.WeatherSummary
}

// Handler serves the catalog endpoints.
type Handler struct {
	Store   Store
	Weather WeatherProvider

	// now is swappable for tests.
	now func() time.Time
}

func NewHandler(store Store, weather WeatherProvider) *Handler {
	return &Handler{Store: store, Weather: weather, now: time.Now}
}

// -------------------------------
// HANDLERS
// -------------------------------

// Rooms handles GET /rooms.
func (h *Handler) Rooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rooms, err := h.Store.Rooms(r.Context())
	if err != nil {
		log.Printf("rooms: %v", err)
		http.Error(w, "db query error", http.StatusInternalServerError)
		return
	}
	if rooms == nil {
		rooms = []Room{}
	}
	json.NewEncoder(w).Encode(rooms)
}

// PriorityItem is one ranked, explained task.
type PriorityItem struct {
	TaskID     int64  `json:"task_id"`
	Task       string `json:"task"`
	Room       string `json:"room"`
	Score      int    `json:"score"`
	Tier       string `json:"tier"`
	ReasonCode string `json:"reason_code"`
	Reason     string `json:"reason"`
	NextDue    string `json:"next_due"`
}

// PriorityResponse wraps the ranked window with the context it was
// ranked under.
type PriorityResponse struct {
	Weather string         `json:"weather"`
	Items   []PriorityItem `json:"items"`
}

// Priorities handles GET /tasks/priorities?room=&limit=.
func (h *Handler) Priorities(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	room := strings.TrimSpace(r.URL.Query().Get("room"))
	limit := defaultAuditLimit
	if room != "" {
		limit = 0
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	// Weather is best effort; the repository is not.
	var sum *engine.WeatherSummary
	if h.Weather != nil {
		if hh, err := h.Store.Household(r.Context()); err == nil && hh.Lat != nil && hh.Lon != nil {
			sum = h.Weather.FetchDailySummary(r.Context(), *hh.Lat, *hh.Lon)
		}
	}
	evalCtx := engine.BuildContext(h.now(), sum)

	inputs, err := h.Store.Catalog(r.Context(), room)
	if err != nil {
		log.Printf("priorities: %v", err)
		http.Error(w, "db query error", http.StatusInternalServerError)
		return
	}

	ranked := engine.Rank(inputs, evalCtx, limit)

	resp := PriorityResponse{Weather: evalCtx.Weather, Items: make([]PriorityItem, 0, len(ranked))}
	for _, item := range ranked {
		resp.Items = append(resp.Items, PriorityItem{
			TaskID:     item.Task.ID,
			Task:       item.Task.Name,
			Room:       item.Task.Room,
			Score:      item.Verdict.Score,
			Tier:       engine.Tier(item.Verdict.Score),
			ReasonCode: string(item.Verdict.Reason),
			Reason:     item.Verdict.Text(),
			NextDue:    item.Verdict.NextDue(),
		})
	}
	json.NewEncoder(w).Encode(resp)
}

// RecordAction handles POST /actions.
func (h *Handler) RecordAction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body struct {
		Person  string `json:"person"`
		Room    string `json:"room"`
		Task    string `json:"task"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Room) == "" || strings.TrimSpace(body.Task) == "" {
		http.Error(w, "room and task are required", http.StatusBadRequest)
		return
	}

	receipt, err := h.Store.RecordCompletion(r.Context(), Completion{
		Person:    strings.TrimSpace(body.Person),
		Room:      strings.TrimSpace(body.Room),
		Task:      strings.TrimSpace(body.Task),
		Comment:   body.Comment,
		SourceKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
	})
	if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrTaskNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("actions: %v", err)
		http.Error(w, "db insert error", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(receipt)
}

// Activate handles POST /tasks/activate: manual wake/sleep for one-off
// tasks.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body struct {
		TaskID int64 `json:"task_id"`
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if body.TaskID == 0 || body.Active == nil {
		http.Error(w, "task_id and active are required", http.StatusBadRequest)
		return
	}

	if err := h.Store.SetActive(r.Context(), body.TaskID, *body.Active); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("activate: %v", err)
		http.Error(w, "db update error", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"ok": true, "task_id": body.TaskID, "active": *body.Active})
}
