package metrics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Reporter handles metrics output and history tracking.
type Reporter struct {
	outputDir   string
	historyFile string
}

// NewReporter creates a reporter writing under <outputDir>/metrics.
func NewReporter(outputDir string) (*Reporter, error) {
	metricsDir := filepath.Join(outputDir, "metrics")
	if err := os.MkdirAll(metricsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create metrics dir: %w", err)
	}

	return &Reporter{
		outputDir:   metricsDir,
		historyFile: filepath.Join(metricsDir, "history.jsonl"),
	}, nil
}

// Write writes run metrics to latest.json, run_<id>.json and appends
// them to history.jsonl.
func (r *Reporter) Write(metrics *RunMetrics) error {
	latestPath := filepath.Join(r.outputDir, "latest.json")
	if err := r.writeJSON(latestPath, metrics); err != nil {
		return fmt.Errorf("failed to write latest.json: %w", err)
	}

	runPath := filepath.Join(r.outputDir, fmt.Sprintf("run_%s.json", metrics.RunID))
	if err := r.writeJSON(runPath, metrics); err != nil {
		return fmt.Errorf("failed to write run file: %w", err)
	}

	if err := r.appendHistory(metrics); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	return nil
}

// writeJSON writes a metrics struct to a JSON file.
func (r *Reporter) writeJSON(path string, metrics *RunMetrics) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metrics)
}

// appendHistory appends one compact JSON line to the history file.
func (r *Reporter) appendHistory(metrics *RunMetrics) error {
	file, err := os.OpenFile(r.historyFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	line, err := json.Marshal(metrics)
	if err != nil {
		return err
	}

	_, err = file.Write(append(line, '\n'))
	return err
}

// ReadHistory reads the last N runs from history. Malformed lines are
// skipped.
func (r *Reporter) ReadHistory(limit int) ([]*RunMetrics, error) {
	file, err := os.Open(r.historyFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var runs []*RunMetrics
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		var run RunMetrics
		if err := json.Unmarshal(scanner.Bytes(), &run); err != nil {
			continue
		}
		runs = append(runs, &run)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}

	return runs, nil
}

// LastRun returns the most recent run from history, or nil if there is
// none.
func (r *Reporter) LastRun() (*RunMetrics, error) {
	runs, err := r.ReadHistory(1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}

// Comparison describes how much faster one stage was than another.
type Comparison struct {
	Baseline       string        `json:"baseline"`
	Candidate      string        `json:"candidate"`
	BaselineTime   time.Duration `json:"baseline_ns"`
	CandidateTime  time.Duration `json:"candidate_ns"`
	SpeedupFactor  float64       `json:"speedup_factor"`
	BaselineCalls  int64         `json:"baseline_distance_calls"`
	CandidateCalls int64         `json:"candidate_distance_calls"`
}

// CompareStages compares two stages of the same run, typically
// StageQueryScan as the baseline and StageQueryTree as the candidate.
// It returns nil if either stage is missing.
func CompareStages(run *RunMetrics, baseline, candidate string) *Comparison {
	if run == nil {
		return nil
	}
	b, ok := run.Stages[baseline]
	if !ok {
		return nil
	}
	c, ok := run.Stages[candidate]
	if !ok {
		return nil
	}

	speedup := float64(1)
	if c.Duration() > 0 {
		speedup = float64(b.Duration()) / float64(c.Duration())
	}

	return &Comparison{
		Baseline:       baseline,
		Candidate:      candidate,
		BaselineTime:   b.Duration(),
		CandidateTime:  c.Duration(),
		SpeedupFactor:  speedup,
		BaselineCalls:  b.Counters[CounterDistanceCalls],
		CandidateCalls: c.Counters[CounterDistanceCalls],
	}
}

// FormatComparison returns a human-readable comparison string.
func FormatComparison(c *Comparison) string {
	if c == nil {
		return "Nothing to compare"
	}

	direction := "faster"
	if c.SpeedupFactor < 1 {
		direction = "slower"
	}

	return fmt.Sprintf(
		"%s was %.2fx %s than %s (%s vs %s, %d vs %d distance computations)",
		c.Candidate,
		c.SpeedupFactor,
		direction,
		c.Baseline,
		c.CandidateTime.Round(time.Microsecond),
		c.BaselineTime.Round(time.Microsecond),
		c.CandidateCalls,
		c.BaselineCalls,
	)
}
