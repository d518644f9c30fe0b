package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
	"github.com/san-kum/cablesim/internal/sweep"
)

const (
	KindRun   = "run"
	KindSweep = "sweep"

	metadataFile = "metadata.json"
	sweepFile    = "sweep.csv"
	frontsFile   = "fronts.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Kind           string             `json:"kind"`
	Preset         string             `json:"preset,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
	Diffusion      float64            `json:"diffusion"`
	K              float64            `json:"k"`
	Alpha          float64            `json:"alpha"`
	Length         float64            `json:"length"`
	Duration       float64            `json:"duration"`
	Dx             float64            `json:"dx"`
	Dt             float64            `json:"dt"`
	StimulusPoints int                `json:"stimulus_points"`
	SampleEvery    int                `json:"sample_every"`
	Metrics        map[string]float64 `json:"metrics"`
}

// NewMetadata fills the model and sampling fields from a configuration.
func NewMetadata(cfg dynamo.Config, opts sim.Options, preset string) RunMetadata {
	return RunMetadata{
		Preset:         preset,
		Diffusion:      cfg.D,
		K:              cfg.K,
		Alpha:          cfg.Alpha,
		Length:         cfg.Length,
		Duration:       cfg.Duration,
		Dx:             cfg.Dx,
		Dt:             cfg.Dt,
		StimulusPoints: opts.StimulusPoints,
		SampleEvery:    opts.SampleEvery,
	}
}

// Config rebuilds the model configuration a run was made with.
func (m *RunMetadata) Config() dynamo.Config {
	return dynamo.Config{
		D:        m.Diffusion,
		K:        m.K,
		Alpha:    m.Alpha,
		Length:   m.Length,
		Duration: m.Duration,
		Dx:       m.Dx,
		Dt:       m.Dt,
	}
}

// Save stores a sweep and returns its id.
func (s *Store) Save(meta RunMetadata, results []sweep.Result) (string, error) {
	meta.Kind = KindSweep
	meta.Metrics = map[string]float64{
		"points":        float64(len(results)),
		"max_rel_error": sweep.MaxRelativeError(results, 0, analysis.CriticalThreshold),
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			formatFloat(r.Alpha),
			formatFloat(r.Simulated),
			formatFloat(r.Theoretical),
			strconv.Itoa(r.Samples),
			strconv.FormatBool(r.Propagated),
		})
	}

	header := []string{"alpha", "simulated", "theoretical", "samples", "propagated"}
	return s.write(meta, sweepFile, header, rows)
}

// SaveRun stores a single run with its front trajectory.
func (s *Store) SaveRun(meta RunMetadata, result *sim.Result) (string, error) {
	meta.Kind = KindRun
	meta.Alpha = result.Alpha
	meta.Metrics = map[string]float64{
		"velocity":    result.Velocity,
		"theoretical": result.Theoretical,
		"r_squared":   result.Fit.RSquared,
		"samples":     float64(len(result.Samples)),
		"multi_front": float64(result.MultiFront),
	}

	rows := make([][]string, 0, len(result.Samples))
	for _, smp := range result.Samples {
		rows = append(rows, []string{formatFloat(smp.Time), formatFloat(smp.Position)})
	}

	return s.write(meta, frontsFile, []string{"time", "position"}, rows)
}

func (s *Store) write(meta RunMetadata, name string, header []string, rows [][]string) (string, error) {
	runID := fmt.Sprintf("%s_%s", meta.Kind, xid.New().String())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, name))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header); err != nil {
		return "", err
	}
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSweep(runID string) ([]sweep.Result, error) {
	records, err := s.readCSV(runID, sweepFile)
	if err != nil {
		return nil, err
	}

	results := make([]sweep.Result, 0, len(records))
	for i, rec := range records {
		r, err := parseSweepRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", sweepFile, i+2, err)
		}
		results = append(results, r)
	}

	return results, nil
}

func (s *Store) LoadFronts(runID string) ([]dynamo.FrontSample, error) {
	records, err := s.readCSV(runID, frontsFile)
	if err != nil {
		return nil, err
	}

	samples := make([]dynamo.FrontSample, 0, len(records))
	for i, rec := range records {
		if len(rec) != 2 {
			return nil, fmt.Errorf("%s line %d: expected 2 fields, got %d", frontsFile, i+2, len(rec))
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", frontsFile, i+2, err)
		}
		x, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", frontsFile, i+2, err)
		}
		samples = append(samples, dynamo.FrontSample{Time: t, Position: x})
	}

	return samples, nil
}

// readCSV returns the data rows of a stored table, header excluded.
func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func parseSweepRow(rec []string) (sweep.Result, error) {
	var r sweep.Result
	if len(rec) != 5 {
		return r, fmt.Errorf("expected 5 fields, got %d", len(rec))
	}

	floats := make([]float64, 3)
	for j := range floats {
		v, err := strconv.ParseFloat(rec[j], 64)
		if err != nil {
			return r, err
		}
		floats[j] = v
	}
	samples, err := strconv.Atoi(rec[3])
	if err != nil {
		return r, err
	}
	propagated, err := strconv.ParseBool(rec[4])
	if err != nil {
		return r, err
	}

	return sweep.Result{
		Alpha:       floats[0],
		Simulated:   floats[1],
		Theoretical: floats[2],
		Samples:     samples,
		Propagated:  propagated,
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
