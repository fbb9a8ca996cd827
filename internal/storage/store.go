package storage

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/san-kum/fibersim/internal/config"
	"github.com/san-kum/fibersim/internal/engine"
	"github.com/san-kum/fibersim/internal/metrics"
)

var ErrRunNotFound = errors.New("storage: run not found")

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id       TEXT PRIMARY KEY,
	model    TEXT NOT NULL,
	created  INTEGER NOT NULL,
	seed     INTEGER NOT NULL,
	steps    INTEGER NOT NULL,
	sim_time REAL NOT NULL
)`

// Store keeps one directory per run under baseDir and an SQLite index of
// the finished ones.
type Store struct {
	baseDir string
	db      *sql.DB
}

func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(baseDir, "runs.db")+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "open run index")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create run index")
	}
	return &Store{baseDir: baseDir, db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Time      float64            `json:"time"`
	Fired     map[string]int     `json:"fired"`
	Metrics   map[string]float64 `json:"metrics"`
	Frames    bool               `json:"frames"`
}

// NewRun reserves a directory for a run of model and returns its id.
func (s *Store) NewRun(model string) (string, error) {
	runID := model + "_" + uuid.NewString()[:8]
	if err := os.MkdirAll(s.runDir(runID), 0755); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) runDir(runID string) string { return filepath.Join(s.baseDir, runID) }

// FramesDir is where a run keeps its recorded frames.
func (s *Store) FramesDir(runID string) string { return filepath.Join(s.runDir(runID), "frames") }

// Save writes the config, the result and the observable series of a
// finished run and adds it to the index.
func (s *Store) Save(runID string, cfg *config.Config, result *engine.Result, series *metrics.Series) error {
	runDir := s.runDir(runID)
	meta := RunMetadata{
		ID:        runID,
		Model:     cfg.Model,
		Timestamp: time.Now(),
		Seed:      cfg.Engine.Seed,
		Dt:        cfg.Engine.Dt,
		Steps:     result.StepsTaken,
		Time:      result.Time,
		Fired:     result.Fired,
		Metrics:   result.Metrics,
		Frames:    cfg.Output.Frames,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	if err := config.Save(filepath.Join(runDir, "config.yaml"), cfg); err != nil {
		return err
	}
	if series != nil {
		if err := writeSeries(filepath.Join(runDir, "observables.csv"), series); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO runs (id, model, created, seed, steps, sim_time) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, meta.Model, meta.Timestamp.UnixNano(), meta.Seed, meta.Steps, meta.Time)
	if err != nil {
		return errors.Wrapf(err, "index run %s", runID)
	}
	klog.V(1).Infof("storage: saved %s", runID)
	return nil
}

func writeSeries(path string, series *metrics.Series) error {
	csvFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	header := append([]string{"step", "time"}, series.Columns()...)
	if err := w.Write(header); err != nil {
		return err
	}
	steps, times, rows := series.Rows()
	for i := range rows {
		row := []string{strconv.Itoa(steps[i]), strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range rows[i] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// RunSummary is one row of the run index.
type RunSummary struct {
	ID      string
	Model   string
	Created time.Time
	Seed    int64
	Steps   int
	Time    float64
}

// List returns the indexed runs, newest first, optionally of one model.
func (s *Store) List(model string) ([]RunSummary, error) {
	q := `SELECT id, model, created, seed, steps, sim_time FROM runs`
	var args []interface{}
	if model != "" {
		q += ` WHERE model = ?`
		args = append(args, model)
	}
	rows, err := s.db.Query(q+` ORDER BY created DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var r RunSummary
		var created int64
		if err := rows.Scan(&r.ID, &r.Model, &created, &r.Seed, &r.Steps, &r.Time); err != nil {
			return nil, err
		}
		r.Created = time.Unix(0, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(runID), "metadata.json"))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "run %s metadata", runID)
	}
	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.runDir(runID), "config.yaml"))
}

// SeriesData is an observable series read back from disk.
type SeriesData struct {
	Columns []string
	Steps   []int
	Times   []float64
	Rows    [][]float64
}

// Column returns the values of one observable, or nil.
func (d *SeriesData) Column(name string) []float64 {
	for j, c := range d.Columns {
		if c != name {
			continue
		}
		out := make([]float64, len(d.Rows))
		for i, row := range d.Rows {
			out[i] = row[j]
		}
		return out
	}
	return nil
}

func (s *Store) LoadSeries(runID string) (*SeriesData, error) {
	file, err := os.Open(filepath.Join(s.runDir(runID), "observables.csv"))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &SeriesData{}, nil
	}

	d := &SeriesData{Columns: records[0][2:]}
	for i, record := range records[1:] {
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, errors.Wrapf(err, "observables.csv row %d", i+1)
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "observables.csv row %d", i+1)
		}
		row := make([]float64, 0, len(record)-2)
		for _, field := range record[2:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "observables.csv row %d", i+1)
			}
			row = append(row, val)
		}
		d.Steps = append(d.Steps, step)
		d.Times = append(d.Times, t)
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}

// Delete removes a run and its index row.
func (s *Store) Delete(runID string) error {
	if runID == "" || filepath.Base(runID) != runID {
		return errors.Wrapf(ErrRunNotFound, "bad run id %q", runID)
	}
	if _, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return err
	}
	return os.RemoveAll(s.runDir(runID))
}
