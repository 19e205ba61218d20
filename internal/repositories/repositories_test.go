package repositories

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database, one per test so state never
// leaks between them. The production schema leans on Postgres defaults
// (gen_random_uuid, now), so the tables are created with plain DDL instead of
// AutoMigrate.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE,
			profile_image TEXT NOT NULL DEFAULT '',
			created_at DATETIME
		)`,
		`CREATE TABLE user_questionnaire (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			study_status TEXT NOT NULL,
			study_field TEXT NOT NULL,
			institution TEXT NOT NULL,
			military_status TEXT NOT NULL,
			populations TEXT NOT NULL,
			work_status TEXT NOT NULL,
			volunteer_willingness TEXT NOT NULL,
			scholarship_duration_preference TEXT NOT NULL,
			submitted_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE user_scholarships (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			scholarship_key TEXT NOT NULL,
			scholarship_title TEXT NOT NULL,
			scholarship_link TEXT NOT NULL DEFAULT '',
			match_score INTEGER NOT NULL DEFAULT 0,
			match_reasons TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'מעוניין',
			alerts_enabled INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (user_id, scholarship_key)
		)`,
		`CREATE TABLE daily_job_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_name TEXT NOT NULL UNIQUE,
			last_run_date DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			t.Fatalf("failed to create test schema: %v", err)
		}
	}
	return db
}
