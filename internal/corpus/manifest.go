package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Manifest records processing runs and exported records.
type Manifest struct {
	db   *sql.DB
	path string
}

// Run is one processed caption source.
type Run struct {
	ID             string
	SourceID       string
	MediaPath      string
	Candidates     int
	Accepted       int
	Exported       int
	Verdict        string
	MeanSimilarity float64
	Result         string
	Reason         string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Record is one exported (audio, transcript) pair.
type Record struct {
	Key       string
	SourceID  string
	RunID     string
	Start     time.Duration
	End       time.Duration
	Text      string
	WavBytes  int64
	CreatedAt time.Time
}

// Totals aggregates the manifest.
type Totals struct {
	Runs         int
	Records      int
	Sources      int
	AudioBytes   int64
	AudioSeconds float64
	ByResult     map[string]int
	ByVerdict    map[string]int
}

// OpenManifest opens or creates the manifest database at path.
func OpenManifest(path string) (*Manifest, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure manifest dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	manifest := &Manifest{db: db, path: path}
	if err := manifest.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return manifest, nil
}

// Path returns the database location.
func (m *Manifest) Path() string {
	return m.path
}

// Close closes the underlying database connection.
func (m *Manifest) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

// RecordRun stores the outcome of processing one source.
func (m *Manifest) RecordRun(ctx context.Context, run Run) error {
	if run.ID == "" || run.SourceID == "" {
		return fmt.Errorf("record run: id and source id are required")
	}
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO runs (
            id, source_id, media_path, candidates, accepted, exported,
            verdict, mean_similarity, result, reason, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceID, run.MediaPath, run.Candidates, run.Accepted, run.Exported,
		run.Verdict, run.MeanSimilarity, run.Result, run.Reason,
		formatTime(run.StartedAt), formatTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// AddRecord stores rec unless its key is already present. It reports whether
// a row was inserted.
func (m *Manifest) AddRecord(ctx context.Context, rec Record) (bool, error) {
	res, err := m.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO records (
            content_key, source_id, run_id, start_us, end_us, text, wav_bytes, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Key, rec.SourceID, rec.RunID,
		rec.Start.Microseconds(), rec.End.Microseconds(),
		rec.Text, rec.WavBytes, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}
	return affected > 0, nil
}

// HasRecord reports whether key is in the manifest.
func (m *Manifest) HasRecord(ctx context.Context, key string) (bool, error) {
	var count int
	if err := m.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM records WHERE content_key = ?", key).Scan(&count); err != nil {
		return false, fmt.Errorf("lookup record: %w", err)
	}
	return count > 0, nil
}

// Totals aggregates runs and records.
func (m *Manifest) Totals(ctx context.Context) (Totals, error) {
	totals := Totals{ByResult: map[string]int{}, ByVerdict: map[string]int{}}

	row := m.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COUNT(DISTINCT source_id), COALESCE(SUM(wav_bytes), 0), COALESCE(SUM(end_us - start_us), 0)
           FROM records`)
	var micros int64
	if err := row.Scan(&totals.Records, &totals.Sources, &totals.AudioBytes, &micros); err != nil {
		return totals, fmt.Errorf("aggregate records: %w", err)
	}
	totals.AudioSeconds = (time.Duration(micros) * time.Microsecond).Seconds()

	rows, err := m.db.QueryContext(ctx, "SELECT result, verdict, COUNT(1) FROM runs GROUP BY result, verdict")
	if err != nil {
		return totals, fmt.Errorf("aggregate runs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var result, verdict string
		var count int
		if err := rows.Scan(&result, &verdict, &count); err != nil {
			return totals, fmt.Errorf("scan run totals: %w", err)
		}
		totals.Runs += count
		totals.ByResult[result] += count
		if verdict != "" {
			totals.ByVerdict[verdict] += count
		}
	}
	if err := rows.Err(); err != nil {
		return totals, fmt.Errorf("iterate run totals: %w", err)
	}
	return totals, nil
}

// RecentRuns returns up to limit runs, newest first.
func (m *Manifest) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, source_id, media_path, candidates, accepted, exported,
                verdict, mean_similarity, result, reason, started_at, finished_at
           FROM runs ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &run.SourceID, &run.MediaPath, &run.Candidates, &run.Accepted, &run.Exported,
			&run.Verdict, &run.MeanSimilarity, &run.Result, &run.Reason, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
