package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"weathersnap/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS weather_snapshots").WillReturnResult(sqlmock.NewResult(0, 0))

	db, err := newDB(conn)
	if err != nil {
		t.Fatalf("newDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestNewDB_SchemaError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("access denied"))
	mock.ExpectClose()

	if _, err := newDB(conn); err == nil || !strings.Contains(err.Error(), "failed to initialize schema") {
		t.Errorf("newDB() error = %v, want schema error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStore(t *testing.T) {
	db, mock := newMockDB(t)

	snap := models.Snapshot{
		Profile:      "campus",
		GeneratedUTC: "2024-01-01T12:00:00.000000+00:00",
		DailyEntries: 7,
		Data:         []byte(`{"daily":[]}`),
	}

	mock.ExpectExec("INSERT INTO weather_snapshots .* ON DUPLICATE KEY UPDATE").
		WithArgs("campus", "2024-01-01T12:00:00.000000+00:00", 7, `{"daily":[]}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := db.Store(context.Background(), snap); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStore_Error(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO weather_snapshots").WillReturnError(errors.New("connection reset"))

	err := db.Store(context.Background(), models.Snapshot{Profile: "city"})
	if err == nil || !strings.Contains(err.Error(), "failed to store snapshot for city") {
		t.Errorf("Store() error = %v, want wrapped failure", err)
	}
}

func TestLatest(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"profile", "generated_utc", "daily_entries", "payload"}).
		AddRow("campus", "2024-01-01T12:00:00.000000+00:00", 2, []byte(`{"daily":[{},{}]}`))
	mock.ExpectQuery("SELECT (.+) FROM weather_snapshots WHERE profile = ?").
		WithArgs("campus").
		WillReturnRows(rows)

	snap, err := db.Latest(context.Background(), "campus")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if snap.DailyEntries != 2 || string(snap.Data) != `{"daily":[{},{}]}` {
		t.Errorf("Latest() = %+v", snap)
	}
}

func TestLatest_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM weather_snapshots").
		WithArgs("nowhere").
		WillReturnRows(sqlmock.NewRows([]string{"profile", "generated_utc", "daily_entries", "payload"}))

	_, err := db.Latest(context.Background(), "nowhere")
	if err == nil || err.Error() != "snapshot not found: nowhere" {
		t.Errorf("Latest() error = %v, want not found", err)
	}
}
