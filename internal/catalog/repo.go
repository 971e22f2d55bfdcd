package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"majordome-backend/internal/engine"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrNoHousehold  = errors.New("household config missing")
)

// Room is one room of the household with its descriptive metadata.
type Room struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	FloorAreaM2 *int    `json:"floor_area_m2,omitempty"`
	Floor       *string `json:"floor,omitempty"`
	Exposure    *string `json:"exposure,omitempty"`
	FloorType   *string `json:"floor_type,omitempty"`
}

// Household is the single-row household configuration.
type Household struct {
	City string
	Lat  *float64
	Lon  *float64
}

// Completion is a request to record "task X was done in room Y".
// Person and Comment are optional; SourceKey deduplicates retries and
// gets a generated key when empty.
type Completion struct {
	Person    string
	Room      string
	Task      string
	Comment   string
	SourceKey string
}

// Receipt describes the recorded completion.
type Receipt struct {
	ActionID    int64     `json:"action_id"`
	TaskID      int64     `json:"task_id"`
	RoomID      int64     `json:"room_id"`
	MemberID    *int64    `json:"member_id,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
	Deactivated bool      `json:"task_deactivated"`
	Duplicate   bool      `json:"duplicate"`
	SourceKey   string    `json:"source_key"`
}

// Store is what the HTTP handlers need from the repository.
type Store interface {
	Rooms(ctx context.Context) ([]Room, error)
	Catalog(ctx context.Context, room string) ([]engine.Input, error)
	RecordCompletion(ctx context.Context, c Completion) (Receipt, error)
	SetActive(ctx context.Context, taskID int64, active bool) error
	Household(ctx context.Context) (Household, error)
}

// Repo is the Postgres-backed repository.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Rooms lists every room ordered by name.
func (r *Repo) Rooms(ctx context.Context) ([]Room, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, floor_area_m2, floor, exposure, floor_type
		FROM room
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var room Room
		var area sql.NullInt64
		var floor, exposure, floorType sql.NullString
		if err := rows.Scan(&room.ID, &room.Name, &area, &floor, &exposure, &floorType); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		if area.Valid {
			n := int(area.Int64)
			room.FloorAreaM2 = &n
		}
		if floor.Valid {
			room.Floor = &floor.String
		}
		if exposure.Valid {
			room.Exposure = &exposure.String
		}
		if floorType.Valid {
			room.FloorType = &floorType.String
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// Catalog returns one resolved row per task: rule defaults applied, the
// most recent completion reduced to whole local days. An empty room
// name means the whole household.
func (r *Repo) Catalog(ctx context.Context, room string) ([]engine.Input, error) {
	query := `
		SELECT
			t.id,
			t.name,
			p.name,
			COALESCE(t.interval_days, 0),
			t.hygiene_priority,
			t.category,
			t.avoid_rain, t.avoid_wind, t.avoid_snow, t.avoid_frost, t.avoid_night,
			COALESCE(r.priority_base, 50),
			r.target_weekday,
			COALESCE(r.active, TRUE),
			a.completed_at
		FROM task t
		JOIN room p ON p.id = t.room_id
		LEFT JOIN rule r ON r.task_id = t.id
		LEFT JOIN LATERAL (
			SELECT completed_at
			FROM action
			WHERE task_id = t.id AND status = 'done'
			ORDER BY completed_at DESC
			LIMIT 1
		) a ON TRUE
	`
	args := []any{}
	if room != "" {
		query += ` WHERE p.name = $1`
		args = append(args, room)
	}
	query += ` ORDER BY p.name, t.name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var out []engine.Input
	for rows.Next() {
		var (
			task     engine.Task
			category string
			weekday  sql.NullString
			lastDone sql.NullTime
		)
		err := rows.Scan(
			&task.ID, &task.Name, &task.Room,
			&task.IntervalDays, &task.HygienePriority, &category,
			&task.AvoidRain, &task.AvoidWind, &task.AvoidSnow, &task.AvoidFrost, &task.AvoidNight,
			&task.PriorityBase, &weekday, &task.Active,
			&lastDone,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}

		task.Category, err = engine.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", task.Name, err)
		}
		if weekday.Valid {
			day, err := engine.ParseWeekday(weekday.String)
			if err != nil {
				return nil, fmt.Errorf("task %q: %w", task.Name, err)
			}
			task.TargetWeekday = &day
		}
		if err := task.Validate(); err != nil {
			return nil, err
		}

		in := engine.Input{Task: task}
		if lastDone.Valid {
			days := wholeDaysSince(now, lastDone.Time)
			in.DaysSince = &days
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// RecordCompletion appends a history entry, resolving person, room and
// task by name. Completing a one-off task puts it to sleep; it stays
// hidden until SetActive wakes it again.
func (r *Repo) RecordCompletion(ctx context.Context, c Completion) (Receipt, error) {
	if c.SourceKey == "" {
		c.SourceKey = uuid.NewString()
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Receipt{}, fmt.Errorf("starting tx: %w", err)
	}
	defer tx.Rollback()

	var roomID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM room WHERE name = $1`, c.Room).Scan(&roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return Receipt{}, fmt.Errorf("%w: %q", ErrRoomNotFound, c.Room)
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("resolving room: %w", err)
	}

	var (
		taskID   int64
		interval sql.NullInt64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, interval_days FROM task WHERE room_id = $1 AND name = $2`,
		roomID, c.Task,
	).Scan(&taskID, &interval)
	if errors.Is(err, sql.ErrNoRows) {
		return Receipt{}, fmt.Errorf("%w: %q in room %q", ErrTaskNotFound, c.Task, c.Room)
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("resolving task: %w", err)
	}

	var memberID *int64
	if c.Person != "" {
		var id int64
		err = tx.QueryRowContext(ctx, `SELECT id FROM member WHERE display_name = $1`, c.Person).Scan(&id)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return Receipt{}, fmt.Errorf("resolving member: %w", err)
		}
		if err == nil {
			memberID = &id
		}
	}

	receipt := Receipt{TaskID: taskID, RoomID: roomID, MemberID: memberID, SourceKey: c.SourceKey}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO action (member_id, room_id, task_id, status, comment, origin, source_key)
		VALUES ($1, $2, $3, 'done', NULLIF($4, ''), 'API_MAJORDOME', $5)
		ON CONFLICT (source_key) DO NOTHING
		RETURNING id, completed_at
	`, memberID, roomID, taskID, c.Comment, c.SourceKey).Scan(&receipt.ActionID, &receipt.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Retried request: the entry is already on record.
		receipt.Duplicate = true
		return receipt, tx.Commit()
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("inserting action: %w", err)
	}

	if !interval.Valid || interval.Int64 == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO rule (task_id, active) VALUES ($1, FALSE)
			ON CONFLICT (task_id) DO UPDATE SET active = FALSE
		`, taskID)
		if err != nil {
			return Receipt{}, fmt.Errorf("deactivating one-off task: %w", err)
		}
		receipt.Deactivated = true
	}

	if err := tx.Commit(); err != nil {
		return Receipt{}, fmt.Errorf("committing completion: %w", err)
	}
	return receipt, nil
}

// SetActive wakes or sleeps a task by hand.
func (r *Repo) SetActive(ctx context.Context, taskID int64, active bool) error {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM task WHERE id = $1)`, taskID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking task: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrTaskNotFound, taskID)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO rule (task_id, active) VALUES ($1, $2)
		ON CONFLICT (task_id) DO UPDATE SET active = $2
	`, taskID, active)
	if err != nil {
		return fmt.Errorf("updating activation: %w", err)
	}
	return nil
}

// Household reads the single household_config row.
func (r *Repo) Household(ctx context.Context) (Household, error) {
	var (
		hh       Household
		city     sql.NullString
		lat, lon sql.NullFloat64
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT city, lat, lon FROM household_config WHERE id = 1`,
	).Scan(&city, &lat, &lon)
	if errors.Is(err, sql.ErrNoRows) {
		return Household{}, ErrNoHousehold
	}
	if err != nil {
		return Household{}, fmt.Errorf("reading household config: %w", err)
	}
	if city.Valid {
		hh.City = city.String
	}
	if lat.Valid {
		hh.Lat = &lat.Float64
	}
	if lon.Valid {
		hh.Lon = &lon.Float64
	}
	return hh, nil
}

// wholeDaysSince counts calendar days between then and now in now's
// location, not exact elapsed hours: a completion late yesterday is one
// day old this morning.
func wholeDaysSince(now, then time.Time) int {
	then = then.In(now.Location())
	ny, nm, nd := now.Date()
	ty, tm, td := then.Date()
	nowDay := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	thenDay := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(nowDay.Sub(thenDay).Hours() / 24)
}
