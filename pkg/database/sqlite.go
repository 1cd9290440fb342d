package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/noah-isme/school-conduct-api/pkg/config"
)

func init() {
	// modernc's driver registers as "sqlite"; teach sqlx its bindvar style.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// NewSQLite opens (creating if necessary) the embedded database file.
func NewSQLite(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	busyMillis := cfg.BusyTimeout.Milliseconds()
	if busyMillis <= 0 {
		busyMillis = 5000
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
		cfg.Path, busyMillis)

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite serialises writers; a single connection avoids spurious
	// SQLITE_BUSY between our own statements.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// IsBusy reports whether the error is a busy/locked condition that the
// caller should surface as retryable. It matches any error in the chain
// carrying a sqlite result code, the driver's own error type included.
func IsBusy(err error) bool {
	var se interface{ Code() int }
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}
	return false
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		status INTEGER DEFAULT 1,
		last_login TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS operation_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		module TEXT NOT NULL,
		description TEXT,
		username TEXT NOT NULL,
		status TEXT DEFAULT 'success',
		details TEXT,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (username) REFERENCES users(username)
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		student_id TEXT UNIQUE NOT NULL,
		grade TEXT NOT NULL,
		class TEXT,
		teacher TEXT,
		photo_url TEXT,
		address TEXT,
		emergency_contact TEXT,
		emergency_phone TEXT,
		notes TEXT,
		status TEXT CHECK(status IN ('正常', '警告', '严重警告', '记过', '留校察看', '勒令退学', '开除学籍')) DEFAULT '正常'
	)`,
	`CREATE TABLE IF NOT EXISTS behavior_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		category TEXT NOT NULL,
		description TEXT,
		score INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS behaviors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL,
		behavior_type TEXT NOT NULL,
		description TEXT,
		date TIMESTAMP DEFAULT (datetime(CURRENT_TIMESTAMP,'localtime')),
		image_url TEXT,
		process_result TEXT,
		FOREIGN KEY (student_id) REFERENCES students (id),
		FOREIGN KEY (behavior_type) REFERENCES behavior_types (name)
	)`,
	`CREATE TABLE IF NOT EXISTS score_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT CHECK(category IN ('加分', '减分')) NOT NULL,
		score REAL NOT NULL,
		description TEXT,
		created_at TIMESTAMP DEFAULT (datetime(CURRENT_TIMESTAMP,'localtime')),
		updated_at TIMESTAMP DEFAULT (datetime(CURRENT_TIMESTAMP,'localtime'))
	)`,
	`CREATE TABLE IF NOT EXISTS teacher_behaviors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		teacher_name TEXT NOT NULL,
		behavior_type TEXT NOT NULL,
		description TEXT NOT NULL,
		date TIMESTAMP DEFAULT (datetime(CURRENT_TIMESTAMP,'localtime')),
		process_result TEXT,
		score REAL NOT NULL DEFAULT 0,
		score_item_id INTEGER REFERENCES score_items(id),
		created_at TIMESTAMP DEFAULT (datetime(CURRENT_TIMESTAMP,'localtime')),
		updated_at TIMESTAMP DEFAULT (datetime(CURRENT_TIMESTAMP,'localtime'))
	)`,
	`CREATE TABLE IF NOT EXISTS class_scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		grade TEXT NOT NULL,
		class TEXT NOT NULL,
		total_score REAL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT (datetime(CURRENT_TIMESTAMP,'localtime')),
		UNIQUE(grade, class)
	)`,
}

// Migrate creates all tables when absent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
