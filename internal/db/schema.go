package db

import (
	"database/sql"
	"fmt"
)

// schemaStatements are idempotent and run in order on startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS member (
		id BIGSERIAL PRIMARY KEY,
		display_name TEXT NOT NULL UNIQUE,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS room (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		floor_area_m2 INT,
		floor TEXT,
		exposure TEXT,
		floor_type TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS task (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		room_id BIGINT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
		frequency TEXT NOT NULL DEFAULT 'occasional',
		interval_days INT,
		hygiene_priority INT NOT NULL DEFAULT 3,
		category TEXT NOT NULL DEFAULT 'other',
		avoid_rain BOOLEAN NOT NULL DEFAULT FALSE,
		avoid_wind BOOLEAN NOT NULL DEFAULT FALSE,
		avoid_snow BOOLEAN NOT NULL DEFAULT FALSE,
		avoid_frost BOOLEAN NOT NULL DEFAULT FALSE,
		avoid_night BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_task_room_name ON task (room_id, name)`,
	`CREATE TABLE IF NOT EXISTS rule (
		id BIGSERIAL PRIMARY KEY,
		task_id BIGINT NOT NULL UNIQUE REFERENCES task(id) ON DELETE CASCADE,
		priority_base INT NOT NULL DEFAULT 50,
		target_weekday TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS action (
		id BIGSERIAL PRIMARY KEY,
		member_id BIGINT REFERENCES member(id),
		room_id BIGINT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
		task_id BIGINT NOT NULL REFERENCES task(id) ON DELETE CASCADE,
		completed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		status TEXT NOT NULL DEFAULT 'done',
		comment TEXT,
		origin TEXT,
		source_key TEXT UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS household_config (
		id INT PRIMARY KEY DEFAULT 1,
		city TEXT,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS alert_rule (
		code TEXT PRIMARY KEY,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		threshold NUMERIC,
		details JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS alert_log (
		id BIGSERIAL PRIMARY KEY,
		code TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		level TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates missing tables and indexes.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
