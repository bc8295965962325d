package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"weathersnap/internal/metrics"
	"weathersnap/internal/models"

	_ "github.com/go-sql-driver/mysql"
)

// DB represents the database connection
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection and initializes the schema
// dsn format: "username:password@tcp(host:port)/dbname?parseTime=true"
func NewDB(dsn string) (*DB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// One snapshot per run, a small pool is plenty
	conn.SetMaxOpenConns(2)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(5 * time.Minute)

	return newDB(conn)
}

func newDB(conn *sql.DB) (*DB, error) {
	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// initSchema creates the snapshot table. One row per profile, replaced on every run.
func (db *DB) initSchema() error {
	stmt := `CREATE TABLE IF NOT EXISTS weather_snapshots (
			profile VARCHAR(100) NOT NULL PRIMARY KEY,
			generated_utc VARCHAR(40) NOT NULL,
			daily_entries INT NOT NULL,
			payload MEDIUMTEXT NOT NULL,
			updated_at DATETIME(6) NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	if _, err := db.conn.Exec(stmt); err != nil {
		return fmt.Errorf("failed to execute schema statement: %w", err)
	}
	return nil
}

func (db *DB) Name() string {
	return "mysql"
}

// Store upserts the snapshot row of its profile
func (db *DB) Store(ctx context.Context, snap models.Snapshot) error {
	defer func() {
		stats := db.conn.Stats()
		metrics.UpdateDBConnectionStats(stats.OpenConnections, stats.InUse, stats.Idle)
	}()

	query := `INSERT INTO weather_snapshots (profile, generated_utc, daily_entries, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE generated_utc = VALUES(generated_utc), daily_entries = VALUES(daily_entries),
		payload = VALUES(payload), updated_at = VALUES(updated_at)`

	queryStart := time.Now()
	_, err := db.conn.ExecContext(ctx, query, snap.Profile, snap.GeneratedUTC, snap.DailyEntries, string(snap.Data), time.Now().UTC())
	metrics.RecordDBQuery("UPSERT", "weather_snapshots", time.Since(queryStart), err)
	if err != nil {
		return fmt.Errorf("failed to store snapshot for %s: %w", snap.Profile, err)
	}
	return nil
}

// Latest retrieves the stored snapshot of a profile
func (db *DB) Latest(ctx context.Context, profile string) (*models.Snapshot, error) {
	query := `SELECT profile, generated_utc, daily_entries, payload FROM weather_snapshots WHERE profile = ? LIMIT 1`

	queryStart := time.Now()
	row := db.conn.QueryRowContext(ctx, query, profile)

	var snap models.Snapshot
	err := row.Scan(&snap.Profile, &snap.GeneratedUTC, &snap.DailyEntries, &snap.Data)
	metrics.RecordDBQuery("SELECT", "weather_snapshots", time.Since(queryStart), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot not found: %s", profile)
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	return &snap, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
