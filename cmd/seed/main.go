package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"majordome-backend/internal/config"
	"majordome-backend/internal/db"
	"majordome-backend/internal/engine"
)

// ----------------------
//   YAML DESCRIPTOR
// ----------------------

type descriptor struct {
	Household struct {
		City string   `yaml:"city"`
		Lat  *float64 `yaml:"lat"`
		Lon  *float64 `yaml:"lon"`
	} `yaml:"household"`
	Members []struct {
		Name string `yaml:"name"`
	} `yaml:"members"`
	Rooms []roomSpec `yaml:"rooms"`
}

type roomSpec struct {
	Name        string     `yaml:"name"`
	FloorAreaM2 *int       `yaml:"floor_area_m2"`
	Floor       *string    `yaml:"floor"`
	Exposure    *string    `yaml:"exposure"`
	FloorType   *string    `yaml:"floor_type"`
	Zones       []zoneSpec `yaml:"zones"`
}

type zoneSpec struct {
	Name            string `yaml:"name"`
	Frequency       string `yaml:"frequency"`
	IntervalDays    *int   `yaml:"interval_days"`
	HygienePriority *int   `yaml:"hygiene_priority"`
	Category        string `yaml:"category"`
	AvoidRain       bool   `yaml:"avoid_rain"`
	AvoidWind       bool   `yaml:"avoid_wind"`
	AvoidSnow       bool   `yaml:"avoid_snow"`
	AvoidFrost      bool   `yaml:"avoid_frost"`
	AvoidNight      *bool  `yaml:"avoid_night"`
	PriorityBase    *int   `yaml:"priority_base"`
	TargetWeekday   string `yaml:"target_weekday"`
}

// frequencyIntervals maps frequency labels to recurrence periods in
// days. "occasional" (0) marks a one-off task.
var frequencyIntervals = map[string]int{
	"daily":      1,
	"semiweekly": 3,
	"weekly":     7,
	"biweekly":   14,
	"monthly":    30,
	"seasonal":   90,
	"occasional": 0,
}

// ----------------------
//        MAIN
// ----------------------

func main() {
	file := flag.String("file", "household.yaml", "household descriptor to import")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal("❌ Failed to read descriptor:", err)
	}

	var desc descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		log.Fatal("❌ Failed to parse descriptor:", err)
	}

	cfg := config.Load()
	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		log.Fatal("❌ Failed to apply schema:", err)
	}

	if err := importDescriptor(database, desc); err != nil {
		log.Fatal("❌ Import failed:", err)
	}

	log.Printf("✅ Import done: %d members, %d rooms", len(desc.Members), len(desc.Rooms))
}

func importDescriptor(database *sql.DB, desc descriptor) error {
	if desc.Household.City != "" || desc.Household.Lat != nil {
		_, err := database.Exec(`
			INSERT INTO household_config (id, city, lat, lon) VALUES (1, $1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET city = $1, lat = $2, lon = $3
		`, desc.Household.City, desc.Household.Lat, desc.Household.Lon)
		if err != nil {
			return fmt.Errorf("upserting household config: %w", err)
		}
	}

	for _, m := range desc.Members {
		if m.Name == "" {
			continue
		}
		_, err := database.Exec(`
			INSERT INTO member (display_name, active) VALUES ($1, TRUE)
			ON CONFLICT (display_name) DO NOTHING
		`, m.Name)
		if err != nil {
			return fmt.Errorf("upserting member %q: %w", m.Name, err)
		}
	}

	for _, room := range desc.Rooms {
		if room.Name == "" {
			continue
		}
		var roomID int64
		err := database.QueryRow(`
			INSERT INTO room (name, floor_area_m2, floor, exposure, floor_type)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO UPDATE SET
				floor_area_m2 = EXCLUDED.floor_area_m2,
				floor = EXCLUDED.floor,
				exposure = EXCLUDED.exposure,
				floor_type = EXCLUDED.floor_type
			RETURNING id
		`, room.Name, room.FloorAreaM2, room.Floor, room.Exposure, room.FloorType).Scan(&roomID)
		if err != nil {
			return fmt.Errorf("upserting room %q: %w", room.Name, err)
		}

		for _, zone := range room.Zones {
			if err := importZone(database, roomID, room.Name, zone); err != nil {
				return err
			}
		}
	}

	return seedAlertRules(database)
}

func importZone(database *sql.DB, roomID int64, roomName string, zone zoneSpec) error {
	frequency := strings.ToLower(strings.TrimSpace(zone.Frequency))
	if frequency == "" {
		frequency = "occasional"
	}

	interval, ok := frequencyIntervals[frequency]
	if zone.IntervalDays != nil {
		interval = *zone.IntervalDays
	} else if !ok {
		return fmt.Errorf("zone %q: unknown frequency %q", zone.Name, zone.Frequency)
	}

	hygiene := 3
	if zone.HygienePriority != nil {
		hygiene = *zone.HygienePriority
	}

	categoryName := zone.Category
	if categoryName == "" {
		categoryName = string(inferCategory(zone.Name))
	}
	category, err := engine.ParseCategory(categoryName)
	if err != nil {
		return fmt.Errorf("zone %q: %w", zone.Name, err)
	}

	avoidNight := guessAvoidNight(roomName, zone.Name)
	if zone.AvoidNight != nil {
		avoidNight = *zone.AvoidNight
	}

	// 0 is stored as NULL: the one-off marker in the schema.
	var intervalCol *int
	if interval > 0 {
		intervalCol = &interval
	}

	var taskID int64
	err = database.QueryRow(`
		INSERT INTO task (name, room_id, frequency, interval_days, hygiene_priority, category,
			avoid_rain, avoid_wind, avoid_snow, avoid_frost, avoid_night)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (room_id, name) DO UPDATE SET
			frequency = EXCLUDED.frequency,
			interval_days = EXCLUDED.interval_days,
			hygiene_priority = EXCLUDED.hygiene_priority,
			category = EXCLUDED.category,
			avoid_rain = EXCLUDED.avoid_rain,
			avoid_wind = EXCLUDED.avoid_wind,
			avoid_snow = EXCLUDED.avoid_snow,
			avoid_frost = EXCLUDED.avoid_frost,
			avoid_night = EXCLUDED.avoid_night
		RETURNING id
	`, zone.Name, roomID, frequency, intervalCol, hygiene, string(category),
		zone.AvoidRain, zone.AvoidWind, zone.AvoidSnow, zone.AvoidFrost, avoidNight).Scan(&taskID)
	if err != nil {
		return fmt.Errorf("upserting task %q: %w", zone.Name, err)
	}

	if zone.PriorityBase == nil && zone.TargetWeekday == "" {
		return nil
	}

	base := 50
	if zone.PriorityBase != nil {
		base = *zone.PriorityBase
	}
	var weekday *string
	if zone.TargetWeekday != "" {
		day, err := engine.ParseWeekday(zone.TargetWeekday)
		if err != nil {
			return fmt.Errorf("zone %q: %w", zone.Name, err)
		}
		name := strings.ToLower(day.String())
		weekday = &name
	}

	_, err = database.Exec(`
		INSERT INTO rule (task_id, priority_base, target_weekday, active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (task_id) DO UPDATE SET
			priority_base = EXCLUDED.priority_base,
			target_weekday = EXCLUDED.target_weekday
	`, taskID, base, weekday)
	if err != nil {
		return fmt.Errorf("upserting rule for %q: %w", zone.Name, err)
	}
	return nil
}

func seedAlertRules(database *sql.DB) error {
	defaults := []struct {
		code      string
		threshold float64
	}{
		{"frost", 0},
		{"wind", 60},
		{"rain", 10},
		{"heat", 28},
	}
	for _, d := range defaults {
		_, err := database.Exec(`
			INSERT INTO alert_rule (code, threshold) VALUES ($1, $2)
			ON CONFLICT (code) DO NOTHING
		`, d.code, d.threshold)
		if err != nil {
			return fmt.Errorf("seeding alert rule %q: %w", d.code, err)
		}
	}
	return nil
}

// inferCategory tags gardening zones once at import so the engine
// never matches keywords at evaluation time.
func inferCategory(name string) engine.Category {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "water") || strings.Contains(n, "plant"):
		return engine.CategoryWatering
	case strings.Contains(n, "mow") || strings.Contains(n, "lawn") || strings.Contains(n, "grass"):
		return engine.CategoryMowing
	}
	return engine.CategoryOther
}

var (
	outdoorRoomWords = []string{"outside", "exterior", "garden", "terrace", "garage", "balcony", "yard"}
	nightZoneWords   = []string{"window", "glass", "gutter"}
	trashZoneWords   = []string{"trash", "garbage", "recycl", "bin"}
)

// guessAvoidNight defaults outdoor and glass work to daylight hours;
// taking out the bins is fine after dark.
func guessAvoidNight(roomName, zoneName string) bool {
	room := strings.ToLower(roomName)
	zone := strings.ToLower(zoneName)

	for _, w := range trashZoneWords {
		if strings.Contains(zone, w) {
			return false
		}
	}
	for _, w := range outdoorRoomWords {
		if strings.Contains(room, w) {
			return true
		}
	}
	for _, w := range nightZoneWords {
		if strings.Contains(zone, w) {
			return true
		}
	}
	return false
}
