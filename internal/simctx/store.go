package simctx

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/synhome/go-simulator/internal/device"
	"github.com/synhome/go-simulator/internal/event"
	"github.com/synhome/go-simulator/internal/physics"
	"github.com/synhome/go-simulator/internal/timeline"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sim_runs (
	run_id       TEXT PRIMARY KEY,
	day_index    INTEGER NOT NULL,
	created_at   TEXT NOT NULL,
	event_count  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS room_snapshots (
	run_id         TEXT NOT NULL,
	room_id        TEXT NOT NULL,
	temperature    REAL NOT NULL,
	humidity       REAL NOT NULL,
	hygiene        REAL NOT NULL,
	air_freshness  REAL NOT NULL,
	light_level    REAL NOT NULL,
	last_update_ts TEXT,
	PRIMARY KEY (run_id, room_id),
	FOREIGN KEY (run_id) REFERENCES sim_runs(run_id)
);

CREATE TABLE IF NOT EXISTS device_snapshots (
	run_id     TEXT NOT NULL,
	device_id  TEXT NOT NULL,
	state_json TEXT NOT NULL,
	PRIMARY KEY (run_id, device_id),
	FOREIGN KEY (run_id) REFERENCES sim_runs(run_id)
);

CREATE TABLE IF NOT EXISTS event_log (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id           TEXT NOT NULL,
	activity_id      TEXT,
	room_id          TEXT,
	start_time       TEXT,
	end_time         TEXT,
	action_type      TEXT,
	description      TEXT,
	environment_json TEXT,
	FOREIGN KEY (run_id) REFERENCES sim_runs(run_id)
);
`

// #endregion schema

// #region store
// Store persists day runs in SQLite: final snapshots and device states
// for cross-day carry-over, plus the attributed event timeline for
// auditing.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying *sql.DB for inspection tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region save-day-run
// SaveDayRun records a completed day: final context plus all events,
// atomically. Returns the new run id.
func (s *Store) SaveDayRun(dayIndex int, ctx Context, events []event.Event) (string, error) {
	runID := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sim_runs (run_id, day_index, created_at, event_count) VALUES (?, ?, ?, ?)`,
		runID, dayIndex, now.Format(time.RFC3339Nano), len(events),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for roomID, st := range ctx.Snapshot {
		_, err = tx.Exec(
			`INSERT INTO room_snapshots (run_id, room_id, temperature, humidity, hygiene, air_freshness, light_level, last_update_ts)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, roomID, st.Temperature, st.Humidity, st.Hygiene, st.AirFreshness, st.LightLevel, nullIfEmpty(st.LastUpdateTS),
		)
		if err != nil {
			return "", fmt.Errorf("insert room %s: %w", roomID, err)
		}
	}

	if ctx.Devices != nil {
		for _, id := range ctx.Devices.IDs() {
			stateJSON, err := json.Marshal(ctx.Devices.Get(id))
			if err != nil {
				return "", fmt.Errorf("marshal device %s: %w", id, err)
			}
			_, err = tx.Exec(
				`INSERT INTO device_snapshots (run_id, device_id, state_json) VALUES (?, ?, ?)`,
				runID, id, string(stateJSON),
			)
			if err != nil {
				return "", fmt.Errorf("insert device %s: %w", id, err)
			}
		}
	}

	for _, ev := range events {
		var envJSON interface{}
		if ev.RoomEnvironment != nil {
			raw, err := json.Marshal(ev.RoomEnvironment)
			if err != nil {
				return "", fmt.Errorf("marshal environment: %w", err)
			}
			envJSON = string(raw)
		}
		_, err = tx.Exec(
			`INSERT INTO event_log (run_id, activity_id, room_id, start_time, end_time, action_type, description, environment_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, ev.ActivityID, ev.RoomID, ev.StartTime, ev.EndTime, ev.ActionType, ev.Description, envJSON,
		)
		if err != nil {
			return "", fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// #endregion save-day-run

// #region load-latest
// LoadLatestContext rebuilds the carry-over context from the most
// recent run. Returns nil with no error when the store is empty.
func (s *Store) LoadLatestContext() (*Context, error) {
	var runID string
	err := s.db.QueryRow(
		`SELECT run_id FROM sim_runs ORDER BY created_at DESC, day_index DESC LIMIT 1`,
	).Scan(&runID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return s.LoadContext(runID)
}

// LoadContext rebuilds the context saved for a specific run.
func (s *Store) LoadContext(runID string) (*Context, error) {
	rows, err := s.db.Query(
		`SELECT room_id, temperature, humidity, hygiene, air_freshness, light_level, last_update_ts
		 FROM room_snapshots WHERE run_id = ?`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	snap := make(timeline.Snapshot)
	for rows.Next() {
		var roomID string
		var st physics.RoomState
		var lastTS sql.NullString
		if err := rows.Scan(&roomID, &st.Temperature, &st.Humidity, &st.Hygiene, &st.AirFreshness, &st.LightLevel, &lastTS); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		if lastTS.Valid {
			st.LastUpdateTS = lastTS.String
		}
		snap[roomID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	devRows, err := s.db.Query(
		`SELECT device_id, state_json FROM device_snapshots WHERE run_id = ?`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	defer devRows.Close()

	dev := device.NewStore()
	for devRows.Next() {
		var id, stateJSON string
		if err := devRows.Scan(&id, &stateJSON); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		var state map[string]string
		if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
			return nil, fmt.Errorf("decode device %s: %w", id, err)
		}
		dev.Set(id, state)
	}
	if err := devRows.Err(); err != nil {
		return nil, err
	}

	return &Context{Snapshot: snap, Devices: dev}, nil
}

// #endregion load-latest

// #region list-runs
// RunRecord summarizes one persisted day run.
type RunRecord struct {
	RunID      string
	DayIndex   int
	CreatedAt  time.Time
	EventCount int
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, day_index, created_at, event_count
		 FROM sim_runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(&rec.RunID, &rec.DayIndex, &created, &rec.EventCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion list-runs

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
