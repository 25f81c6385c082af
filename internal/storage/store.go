package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/san-kum/speedlab/internal/bench"
)

var ErrInvalidRunID = errors.New("invalid run id")

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
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Timestamp time.Time          `json:"timestamp"`
	Finished  time.Time          `json:"finished"`
	Scale     float64            `json:"scale"`
	Warmup    int                `json:"warmup"`
	Parallel  int                `json:"parallel"`
	Suites    []string           `json:"suites"`
	Cases     int                `json:"cases"`
	Passed    int                `json:"passed"`
	Failed    int                `json:"failed"`
	Skipped   int                `json:"skipped"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID != filepath.Base(runID) || strings.HasPrefix(runID, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

// mkRunDir creates <label>_<unix>, adding a counter when a run with the same
// label was saved in the same second.
func (s *Store) mkRunDir(label string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", label, ts.Unix())
	runID := base
	for i := 2; ; i++ {
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

// Save writes metadata.json and results.csv for report and returns the run id.
func (s *Store) Save(report *bench.Report, cfg bench.Config) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	label := report.Label
	if label == "" {
		label = "run"
	}
	ts := report.Started
	if ts.IsZero() {
		ts = time.Now()
	}

	runID, runDir, err := s.mkRunDir(label, ts)
	if err != nil {
		return "", err
	}

	sum := report.Summary()
	meta := RunMetadata{
		ID:        runID,
		Label:     label,
		Timestamp: ts,
		Finished:  report.Finished,
		Scale:     cfg.Scale,
		Warmup:    cfg.Warmup,
		Parallel:  cfg.Parallel,
		Suites:    lo.Uniq(lo.Map(report.Results, func(r bench.CaseResult, _ int) string { return r.Suite })),
		Cases:     sum.Cases,
		Passed:    sum.Passed,
		Failed:    sum.Failed,
		Skipped:   sum.Skipped,
		Metrics:   map[string]float64{"geomean_speedup": sum.GeoMeanSpeedup},
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "results.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, report.Results); err != nil {
		return "", err
	}
	return runID, nil
}

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

	slices.SortStableFunc(runs, func(a, b RunMetadata) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return runs, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs in %s", s.baseDir)
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadResults(runID string) ([]bench.CaseResult, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, "results.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// LoadReport rebuilds the report saved under runID.
func (s *Store) LoadReport(runID string) (*bench.Report, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	results, err := s.LoadResults(runID)
	if err != nil {
		return nil, err
	}
	return &bench.Report{
		Label:    meta.Label,
		Started:  meta.Timestamp,
		Finished: meta.Finished,
		Results:  results,
	}, nil
}

func (s *Store) Delete(runID string) error {
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(dir, "metadata.json")); err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

var csvHeader = []string{
	"suite", "library", "case", "iterations", "fast_ns", "reference_ns",
	"speedup", "match", "skipped", "throughput", "mean_ns", "p95_ns", "error", "diff",
}

// WriteCSV writes one row per case. reference_ns is empty for timing-only
// cases.
func WriteCSV(w io.Writer, results []bench.CaseResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range results {
		ref := ""
		if r.Reference != nil {
			ref = strconv.FormatInt(int64(r.Reference.Elapsed), 10)
		}
		row := []string{
			r.Suite,
			r.Library,
			r.Case,
			strconv.Itoa(r.Fast.Iterations),
			strconv.FormatInt(int64(r.Fast.Elapsed), 10),
			ref,
			strconv.FormatFloat(r.Speedup(), 'f', 6, 64),
			strconv.FormatBool(r.Match),
			strconv.FormatBool(r.Skipped),
			strconv.FormatFloat(r.Metrics["throughput"], 'f', 6, 64),
			strconv.FormatFloat(r.Metrics["mean_ns"], 'f', 6, 64),
			strconv.FormatFloat(r.Metrics["p95_ns"], 'f', 6, 64),
			r.Error,
			r.Diff,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows written by WriteCSV. The speedup column is derived
// data and is not read back.
func ReadCSV(r io.Reader) ([]bench.CaseResult, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []bench.CaseResult{}, nil
	}
	if !slices.Equal(records[0], csvHeader) {
		return nil, fmt.Errorf("unexpected results header %v", records[0])
	}

	results := make([]bench.CaseResult, 0, len(records)-1)
	for i, rec := range records[1:] {
		res, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func parseRow(rec []string) (bench.CaseResult, error) {
	res := bench.CaseResult{Suite: rec[0], Library: rec[1], Case: rec[2], Error: rec[12], Diff: rec[13]}

	iters, err := strconv.Atoi(rec[3])
	if err != nil {
		return res, err
	}
	fast, err := strconv.ParseInt(rec[4], 10, 64)
	if err != nil {
		return res, err
	}
	res.Fast = bench.NewTiming(time.Duration(fast), iters)

	if rec[5] != "" {
		ref, err := strconv.ParseInt(rec[5], 10, 64)
		if err != nil {
			return res, err
		}
		t := bench.NewTiming(time.Duration(ref), iters)
		res.Reference = &t
	}
	if res.Match, err = strconv.ParseBool(rec[7]); err != nil {
		return res, err
	}
	if res.Skipped, err = strconv.ParseBool(rec[8]); err != nil {
		return res, err
	}

	res.Metrics = make(map[string]float64, 3)
	for i, name := range []string{"throughput", "mean_ns", "p95_ns"} {
		v, err := strconv.ParseFloat(rec[9+i], 64)
		if err != nil {
			return res, err
		}
		res.Metrics[name] = v
	}
	return res, nil
}
