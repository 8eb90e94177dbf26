// Package ingest reads dictionaries into the ordered word sequence the
// index and the scanner are built from.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"bkspell/internal/normalizer"

	"github.com/klauspost/compress/gzip"
)

// HunspellURLs maps language codes to Hunspell dictionary URLs.
var HunspellURLs = map[string]string{
	"en": "https://raw.githubusercontent.com/wooorm/dictionaries/main/dictionaries/en/index.dic",
	"tr": "https://raw.githubusercontent.com/wooorm/dictionaries/main/dictionaries/tr/index.dic",
	"de": "https://raw.githubusercontent.com/wooorm/dictionaries/main/dictionaries/de/index.dic",
	"fr": "https://raw.githubusercontent.com/wooorm/dictionaries/main/dictionaries/fr/index.dic",
	"es": "https://raw.githubusercontent.com/wooorm/dictionaries/main/dictionaries/es/index.dic",
	"it": "https://raw.githubusercontent.com/wooorm/dictionaries/main/dictionaries/it/index.dic",
	"pt": "https://raw.githubusercontent.com/wooorm/dictionaries/main/dictionaries/pt/index.dic",
	"nl": "https://raw.githubusercontent.com/wooorm/dictionaries/main/dictionaries/nl/index.dic",
	"pl": "https://raw.githubusercontent.com/wooorm/dictionaries/main/dictionaries/pl/index.dic",
	"ru": "https://raw.githubusercontent.com/wooorm/dictionaries/main/dictionaries/ru/index.dic",
}

// ErrUnsupportedLanguage is returned by Download for languages without a
// known dictionary URL.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Config configures how dictionary lines become words.
type Config struct {
	// SkipBlank drops lines that are empty after trimming. When false an
	// empty line becomes the empty word.
	SkipBlank bool
	// Hunspell skips a leading word-count line and strips /AFFIX flags.
	Hunspell bool
	// Normalize is applied to every word after trimming.
	Normalize normalizer.Mode
	// MinLength and MaxLength bound the word length in runes (0 = no bound).
	MinLength int
	MaxLength int
}

// DefaultConfig returns the loader defaults: one trimmed word per line,
// blank lines skipped, no normalization.
func DefaultConfig() Config {
	return Config{
		SkipBlank: true,
		Normalize: normalizer.None,
	}
}

// Result holds the words read from one source, in source order.
type Result struct {
	Words        []string
	SourcePath   string
	TotalRaw     int
	TotalSkipped int
}

// Load reads one word per line from r. Surrounding whitespace is trimmed
// and duplicates are kept; deduplication is the consumer's business.
func Load(r io.Reader, config Config) (*Result, error) {
	result := &Result{}

	scanner := bufio.NewScanner(r)
	// Set a larger buffer for potentially long lines
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		word := strings.TrimSpace(scanner.Text())

		if config.Hunspell {
			if lineNum == 1 && isDigits(word) {
				continue
			}
			if idx := strings.Index(word, "/"); idx != -1 {
				word = word[:idx]
			}
		}

		result.TotalRaw++

		if word == "" && config.SkipBlank {
			result.TotalSkipped++
			continue
		}

		word = normalizer.Normalize(config.Normalize, word)

		length := utf8.RuneCountInString(word)
		if (config.MinLength > 0 && length < config.MinLength) ||
			(config.MaxLength > 0 && length > config.MaxLength) {
			result.TotalSkipped++
			continue
		}

		result.Words = append(result.Words, word)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dictionary: %w", err)
	}

	return result, nil
}

// LoadFile loads a dictionary file. Files ending in .gz are decompressed.
func LoadFile(path string, config Config) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip dictionary %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	result, err := Load(r, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	result.SourcePath = path
	if abs, err := filepath.Abs(path); err == nil {
		result.SourcePath = abs
	}
	return result, nil
}

// Download downloads a Hunspell dictionary to the cache directory and
// returns its path. A cached copy is reused unless force is set.
func Download(language, cacheDir string, force bool) (string, error) {
	url, ok := HunspellURLs[language]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}

	cachedPath := filepath.Join(cacheDir, fmt.Sprintf("%s.dic", language))

	if !force && fileExists(cachedPath) {
		return cachedPath, nil
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	// Write to a temp file first so an interrupted download is not cached.
	tmp, err := os.CreateTemp(cacheDir, language+".dic.*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachedPath); err != nil {
		return "", fmt.Errorf("failed to store dictionary: %w", err)
	}

	return cachedPath, nil
}

// SupportedLanguages returns the language codes Download accepts.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(HunspellURLs))
	for lang := range HunspellURLs {
		langs = append(langs, lang)
	}
	return langs
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
