// bkspell - Spelling suggestions from a BK-tree.
// Usage: bkspell [options] <word>...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"bkspell/internal/config"
	"bkspell/internal/distance"
	"bkspell/internal/ingest"
	"bkspell/internal/metrics"
	"bkspell/internal/normalizer"
	"bkspell/internal/similarity"
	"bkspell/internal/ui"

	"github.com/spf13/pflag"
)

// options holds the resolved flag and config values.
type options struct {
	dicts      []string
	languages  []string
	tolerance  int
	limit      int
	normalize  normalizer.Mode
	hunspell   bool
	keepBlank  bool
	compare    bool
	workers    int
	jsonOutput bool
	metrics    bool
	metricsDir string
	cacheDir   string
	force      bool
	quiet      bool
	verbose    bool
}

// queryOutput is one query's JSON output.
type queryOutput struct {
	Query    string                    `json:"query"`
	Exists   bool                      `json:"exists"`
	Count    int                       `json:"count"`
	Results  []similarity.SearchResult `json:"results"`
	Mismatch *mismatch                 `json:"mismatch,omitempty"`
}

type mismatch struct {
	Missing []string `json:"missing,omitempty"`
	Extra   []string `json:"extra,omitempty"`
}

var errMismatch = errors.New("tree and linear scan disagree")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := pflag.StringP("config", "c", "", "Path to bkspell.toml (default: search cwd and parents)")
	dicts := pflag.StringSliceP("dict", "d", nil, "Dictionary file, one word per line (repeatable, .gz accepted)")
	languages := pflag.StringSliceP("lang", "L", nil, "Download and use the Hunspell dictionary for a language")
	tolerance := pflag.IntP("tolerance", "t", similarity.DefaultTolerance, "Match words at distance strictly below this")
	limit := pflag.IntP("limit", "l", 10, "Maximum suggestions to show per word (0 = all)")
	normalize := pflag.StringP("normalize", "n", "none", "Normalize dictionary words and queries: none, nfc, lower, fold")
	hunspell := pflag.Bool("hunspell", false, "Parse dictionaries as Hunspell .dic files")
	keepBlank := pflag.Bool("keep-blank", false, "Keep blank lines as the empty word")
	compare := pflag.Bool("compare", false, "Also run a linear scan, check it agrees and compare timings")
	workers := pflag.IntP("workers", "w", 0, "Number of parallel workers (0 = auto)")
	jsonOutput := pflag.BoolP("json", "j", false, "Output as JSON")
	writeMetrics := pflag.Bool("metrics", false, "Write run metrics")
	force := pflag.BoolP("force", "f", false, "Force re-download of dictionaries")
	quiet := pflag.BoolP("quiet", "q", false, "Suppress progress output")
	verbose := pflag.BoolP("verbose", "v", false, "Verbose logging")

	pflag.Parse()

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bkspell [options] <word>...")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	cfg, cfgPath, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// Flags override the config file.
	opts := options{
		dicts:      cfg.Dictionaries,
		languages:  *languages,
		tolerance:  cfg.Defaults.Tolerance,
		limit:      cfg.Defaults.Limit,
		hunspell:   cfg.Defaults.Hunspell,
		keepBlank:  cfg.Defaults.KeepBlank,
		compare:    *compare,
		workers:    cfg.Defaults.Workers,
		jsonOutput: *jsonOutput,
		metrics:    cfg.Defaults.Metrics,
		metricsDir: cfg.Defaults.MetricsDir,
		cacheDir:   cfg.Defaults.CacheDir,
		force:      *force,
		quiet:      *quiet || *jsonOutput,
		verbose:    *verbose,
	}
	modeName := cfg.Defaults.Normalize
	if changed("dict") {
		opts.dicts = *dicts
	}
	if changed("tolerance") {
		opts.tolerance = *tolerance
	}
	if changed("limit") {
		opts.limit = *limit
	}
	if changed("normalize") {
		modeName = *normalize
	}
	if changed("hunspell") {
		opts.hunspell = *hunspell
	}
	if changed("keep-blank") {
		opts.keepBlank = *keepBlank
	}
	if changed("workers") {
		opts.workers = *workers
	}
	if changed("metrics") {
		opts.metrics = *writeMetrics
	}
	opts.workers = config.ResolveWorkers(opts.workers)

	if opts.tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative, got %d", opts.tolerance)
	}
	if opts.normalize, err = normalizer.ParseMode(modeName); err != nil {
		return err
	}

	term := ui.New(opts.quiet, opts.verbose)
	log := term.Logger()
	if cfgPath != "" {
		log.Debug("config loaded", log.Args("path", cfgPath))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return spell(ctx, term, opts, pflag.Args())
}

func spell(ctx context.Context, term *ui.UI, opts options, queries []string) error {
	log := term.Logger()

	// Hunspell downloads go in front of explicit dictionaries.
	paths := make([]string, 0, len(opts.languages)+len(opts.dicts))
	for _, lang := range opts.languages {
		spinner := term.Spinner(fmt.Sprintf("Fetching %s dictionary...", strings.ToUpper(lang)))
		path, err := ingest.Download(lang, filepath.Join(opts.cacheDir, lang), opts.force)
		spinner.Stop()
		if err != nil {
			return fmt.Errorf("fetch %s: %w", lang, err)
		}
		log.Debug("dictionary cached", log.Args("language", lang, "path", path))
		paths = append(paths, path)
		opts.hunspell = true
	}
	paths = append(paths, opts.dicts...)

	if len(paths) == 0 {
		return errors.New("no dictionary given; use --dict, --lang or the dictionaries key in bkspell.toml")
	}

	if !opts.jsonOutput {
		term.Config(paths, opts.tolerance, string(opts.normalize), opts.compare)
	}

	collector := metrics.NewCollector()
	collector.SetConfigMap(map[string]interface{}{
		"dictionaries": paths,
		"tolerance":    opts.tolerance,
		"normalize":    string(opts.normalize),
		"compare":      opts.compare,
		"workers":      opts.workers,
	})

	// Load
	collector.StartStage(metrics.StageLoad)
	ingestConfig := ingest.DefaultConfig()
	ingestConfig.SkipBlank = !opts.keepBlank
	ingestConfig.Hunspell = opts.hunspell
	ingestConfig.Normalize = opts.normalize

	results := ingest.LoadFiles(paths, ingestConfig, opts.workers, func(r *ingest.FileResult) {
		if r.Error == nil {
			log.Debug("dictionary loaded", log.Args("path", r.Path, "words", len(r.Result.Words)))
		}
	})
	words, stats, err := ingest.Merge(results)
	collector.EndStage(metrics.StageLoad)
	if err != nil {
		return err
	}
	collector.SetStageCounter(metrics.StageLoad, metrics.CounterWords, int64(len(words)))
	log.Info("dictionaries loaded", log.Args("files", stats.Successful, "words", stats.TotalWords, "skipped", stats.TotalSkipped))

	// Index
	counter := distance.NewCounter(distance.Levenshtein)
	tree := similarity.NewBKTreeWithMetric(counter.Func())

	collector.StartStage(metrics.StageIndex)
	spinner := term.Spinner("Building BK-tree...")
	tree.InsertAll(words)
	spinner.Stop()
	collector.EndStage(metrics.StageIndex)
	collector.SetStageCounter(metrics.StageIndex, metrics.CounterDistanceCalls, counter.Reset())
	collector.SetStageCounter(metrics.StageIndex, metrics.CounterWords, int64(tree.Size()))
	collector.SetStageGauge(metrics.StageIndex, "depth", float64(tree.Depth()))

	if !opts.jsonOutput {
		term.IndexStats(len(words), tree.Size(), tree.Depth(), collector.StageDuration(metrics.StageIndex))
	}

	for i, q := range queries {
		queries[i] = normalizer.Normalize(opts.normalize, strings.TrimSpace(q))
	}

	// Query
	collector.StartStage(metrics.StageQueryTree)
	treeResults, err := similarity.SuggestBatch(ctx, tree, queries, opts.tolerance, opts.workers)
	collector.EndStage(metrics.StageQueryTree)
	if err != nil {
		return err
	}
	collector.SetStageCounter(metrics.StageQueryTree, metrics.CounterDistanceCalls, counter.Reset())
	collector.SetStageCounter(metrics.StageQueryTree, metrics.CounterMatches, countMatches(treeResults))

	var scanResults []similarity.BatchResult
	if opts.compare {
		scanCounter := distance.NewCounter(distance.Levenshtein)
		scanner := similarity.NewScannerWithMetric(scanCounter.Func())
		scanner.AppendAll(words)

		collector.StartStage(metrics.StageQueryScan)
		scanResults, err = similarity.SuggestBatch(ctx, scanner, queries, opts.tolerance, opts.workers)
		collector.EndStage(metrics.StageQueryScan)
		if err != nil {
			return err
		}
		collector.SetStageCounter(metrics.StageQueryScan, metrics.CounterDistanceCalls, scanCounter.Calls())
		collector.SetStageCounter(metrics.StageQueryScan, metrics.CounterMatches, countMatches(scanResults))
	}

	outputs := make([]queryOutput, len(queries))
	mismatched := false
	for i, q := range queries {
		found := tree.Exists(q)
		matches := treeResults[i].Results

		out := queryOutput{Query: q, Exists: found, Count: len(matches)}
		if scanResults != nil {
			missing, extra := similarity.Diff(
				similarity.Words(matches),
				similarity.Words(scanResults[i].Results),
			)
			if len(missing) > 0 || len(extra) > 0 {
				out.Mismatch = &mismatch{Missing: missing, Extra: extra}
				mismatched = true
			}
		}

		similarity.SortResults(matches)
		if opts.limit > 0 && len(matches) > opts.limit {
			matches = matches[:opts.limit]
		}
		out.Results = matches
		outputs[i] = out
	}

	runMetrics := collector.Finalize(int64(tree.Size()), int64(len(queries)))

	if opts.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outputs); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
	} else {
		for _, out := range outputs {
			term.Exists(out.Query, out.Exists)
			term.Suggestions(out.Query, opts.tolerance, out.Results)
			if out.Mismatch != nil {
				term.Error(fmt.Sprintf("linear scan disagrees for %q: missing %v, extra %v",
					out.Query, out.Mismatch.Missing, out.Mismatch.Extra))
			}
		}
		if opts.compare {
			term.Comparison(metrics.CompareStages(runMetrics, metrics.StageQueryScan, metrics.StageQueryTree))
		}
	}

	if opts.metrics {
		writeRunMetrics(term, opts.metricsDir, runMetrics)
	}

	if mismatched {
		return errMismatch
	}
	return nil
}

// writeRunMetrics stores the run and reports the change against the
// previous one. Failures only warn.
func writeRunMetrics(term *ui.UI, dir string, run *metrics.RunMetrics) {
	reporter, err := metrics.NewReporter(dir)
	if err != nil {
		term.Warning(fmt.Sprintf("Failed to write metrics: %v", err))
		return
	}

	previous, _ := reporter.LastRun()
	if err := reporter.Write(run); err != nil {
		term.Warning(fmt.Sprintf("Failed to write metrics: %v", err))
		return
	}
	term.Debug(fmt.Sprintf("Metrics written: %s", run.RunID))

	if previous != nil && previous.Totals != nil && run.Totals.DurationMs > 0 {
		term.Info(fmt.Sprintf("Previous run %s took %dms, this one %dms",
			previous.RunID, previous.Totals.DurationMs, run.Totals.DurationMs))
	}
}

func loadConfig(path string) (*config.File, string, error) {
	if path != "" {
		cfg, err := config.Load(path)
		return cfg, path, err
	}
	return config.Find()
}

func changed(name string) bool {
	return pflag.CommandLine.Changed(name)
}

func countMatches(results []similarity.BatchResult) int64 {
	var n int64
	for _, r := range results {
		n += int64(len(r.Results))
	}
	return n
}
