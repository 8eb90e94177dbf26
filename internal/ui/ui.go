// Package ui provides terminal UI components using pterm.
package ui

import (
	"fmt"
	"strings"
	"time"

	"bkspell/internal/metrics"
	"bkspell/internal/similarity"

	"github.com/pterm/pterm"
)

// UI wraps pterm components for bkspell.
type UI struct {
	verbose bool
	logger  *pterm.Logger
}

// New creates a new UI instance. Quiet disables all pterm output.
func New(quiet, verbose bool) *UI {
	if quiet {
		pterm.DisableOutput()
	}

	level := pterm.LogLevelInfo
	switch {
	case quiet:
		level = pterm.LogLevelDisabled
	case verbose:
		pterm.EnableDebugMessages()
		level = pterm.LogLevelDebug
	}
	logger := pterm.DefaultLogger.WithLevel(level)

	return &UI{verbose: verbose, logger: logger}
}

// Logger returns the structured logger used for progress lines.
func (u *UI) Logger() *pterm.Logger {
	return u.logger
}

// Banner prints the application banner.
func (u *UI) Banner() {
	pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("bk", pterm.NewStyle(pterm.FgCyan)),
		pterm.NewLettersFromStringWithStyle("spell", pterm.NewStyle(pterm.FgLightBlue)),
	).Render()

	pterm.DefaultCenter.Println(
		pterm.FgGray.Sprint("BK-tree spelling suggestions"),
	)
	pterm.Println()
}

// Config prints the configuration summary.
func (u *UI) Config(dictionaries []string, tolerance int, normalize string, compare bool) {
	pterm.DefaultSection.Println("Configuration")

	data := [][]string{
		{"Dictionaries", strings.Join(dictionaries, ", ")},
		{"Tolerance", fmt.Sprintf("distance < %d", tolerance)},
		{"Normalize", normalize},
		{"Compare", fmt.Sprintf("%t", compare)},
	}

	pterm.DefaultTable.WithData(data).Render()
	pterm.Println()
}

// SpinnerWrapper hides the pterm spinner so callers can stop it without
// checking whether it started.
type SpinnerWrapper struct {
	spinner *pterm.SpinnerPrinter
}

// Spinner creates a spinner for long operations.
func (u *UI) Spinner(message string) *SpinnerWrapper {
	spinner, err := pterm.DefaultSpinner.
		WithRemoveWhenDone(true).
		Start(message)
	if err != nil {
		return &SpinnerWrapper{}
	}
	return &SpinnerWrapper{spinner: spinner}
}

// Stop stops the spinner.
func (s *SpinnerWrapper) Stop() {
	if s != nil && s.spinner != nil {
		s.spinner.Stop()
	}
}

// IndexStats prints the size of the built index.
func (u *UI) IndexStats(words, size, depth int, duration time.Duration) {
	pterm.DefaultSection.WithLevel(2).Println("Index")

	data := pterm.TableData{
		{"Words loaded", fmt.Sprintf("%d", words)},
		{"Unique words", fmt.Sprintf("%d", size)},
		{"Tree depth", fmt.Sprintf("%d", depth)},
		{"Build time", duration.Round(time.Microsecond).String()},
	}

	pterm.DefaultTable.WithData(data).Render()
	pterm.Println()
}

// Exists prints whether query is in the dictionary.
func (u *UI) Exists(query string, found bool) {
	prefix := pterm.FgCyan.Sprintf("[%s]", query)
	if found {
		pterm.Success.Println(prefix, "found in dictionary")
	} else {
		pterm.Warning.Println(prefix, "not in dictionary")
	}
}

// Suggestions prints the matches for a query, already sorted and limited.
func (u *UI) Suggestions(query string, tolerance int, results []similarity.SearchResult) {
	if len(results) == 0 {
		pterm.Info.Printfln("No matches for %q within distance < %d", query, tolerance)
		return
	}

	data := pterm.TableData{{"Suggestion", "Distance"}}
	for _, r := range results {
		data = append(data, []string{r.Word, fmt.Sprintf("%d", r.Distance)})
	}

	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Println()
}

// Comparison prints the tree vs scanner timing table.
func (u *UI) Comparison(c *metrics.Comparison) {
	if c == nil {
		return
	}

	pterm.DefaultSection.WithLevel(2).Println("Tree vs linear scan")

	data := pterm.TableData{
		{"", "Time", "Distance computations"},
		{c.Candidate, c.CandidateTime.Round(time.Microsecond).String(), fmt.Sprintf("%d", c.CandidateCalls)},
		{c.Baseline, c.BaselineTime.Round(time.Microsecond).String(), fmt.Sprintf("%d", c.BaselineCalls)},
	}

	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Info.Println(metrics.FormatComparison(c))
	pterm.Println()
}

// Success prints a success message.
func (u *UI) Success(message string) {
	pterm.Success.Println(message)
}

// Error prints an error message.
func (u *UI) Error(message string) {
	pterm.Error.Println(message)
}

// Warning prints a warning message.
func (u *UI) Warning(message string) {
	pterm.Warning.Println(message)
}

// Info prints an info message.
func (u *UI) Info(message string) {
	pterm.Info.Println(message)
}

// Debug prints a debug message (only in verbose mode).
func (u *UI) Debug(message string) {
	if u.verbose {
		pterm.Debug.Println(message)
	}
}
