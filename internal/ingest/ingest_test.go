package ingest

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"bkspell/internal/normalizer"

	"github.com/klauspost/compress/gzip"
)

func TestHunspellURLs(t *testing.T) {
	expectedLangs := []string{"en", "tr", "de", "fr", "es", "it", "pt", "nl", "pl", "ru"}

	for _, lang := range expectedLangs {
		if _, ok := HunspellURLs[lang]; !ok {
			t.Errorf("HunspellURLs missing language: %s", lang)
		}
	}
	if len(SupportedLanguages()) != len(HunspellURLs) {
		t.Errorf("SupportedLanguages() has %d entries, want %d", len(SupportedLanguages()), len(HunspellURLs))
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if !config.SkipBlank {
		t.Error("SkipBlank = false, want true")
	}
	if config.Normalize != normalizer.None {
		t.Errorf("Normalize = %q, want none", config.Normalize)
	}
	if config.Hunspell {
		t.Error("Hunspell = true, want false")
	}
}

func TestLoadTrimsAndKeepsOrder(t *testing.T) {
	input := "  cat\ncot  \n\tcog\t\n\ndog\ncat\n"

	result, err := Load(strings.NewReader(input), DefaultConfig())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"cat", "cot", "cog", "dog", "cat"}
	if !reflect.DeepEqual(result.Words, want) {
		t.Errorf("Words = %v, want %v", result.Words, want)
	}
	if result.TotalRaw != 6 {
		t.Errorf("TotalRaw = %d, want 6", result.TotalRaw)
	}
	if result.TotalSkipped != 1 {
		t.Errorf("TotalSkipped = %d, want 1", result.TotalSkipped)
	}
}

func TestLoadKeepsBlankWhenAsked(t *testing.T) {
	config := DefaultConfig()
	config.SkipBlank = false

	result, err := Load(strings.NewReader("a\n   \nb\n"), config)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"a", "", "b"}
	if !reflect.DeepEqual(result.Words, want) {
		t.Errorf("Words = %q, want %q", result.Words, want)
	}
}

func TestLoadHunspell(t *testing.T) {
	content := `10
hello
world
testing/ABC
sample/XYZ
python
ab
`
	config := DefaultConfig()
	config.Hunspell = true
	config.MinLength = 3

	result, err := Load(strings.NewReader(content), config)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"hello", "world", "testing", "sample", "python"}
	if !reflect.DeepEqual(result.Words, want) {
		t.Errorf("Words = %v, want %v", result.Words, want)
	}
	if result.TotalSkipped != 1 {
		t.Errorf("TotalSkipped = %d, want 1", result.TotalSkipped)
	}
}

func TestLoadCountLineWithoutHunspell(t *testing.T) {
	result, err := Load(strings.NewReader("10\nword/A\n"), DefaultConfig())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"10", "word/A"}
	if !reflect.DeepEqual(result.Words, want) {
		t.Errorf("Words = %v, want %v", result.Words, want)
	}
}

func TestLoadNormalize(t *testing.T) {
	config := DefaultConfig()
	config.Normalize = normalizer.Fold
	config.MaxLength = 5

	result, err := Load(strings.NewReader("Çare\nŞeker\nmerhaba\n"), config)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"care", "seker"}
	if !reflect.DeepEqual(result.Words, want) {
		t.Errorf("Words = %v, want %v", result.Words, want)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "words.txt")

	if err := os.WriteFile(path, []byte("cat\ncot\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	result, err := LoadFile(path, DefaultConfig())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !reflect.DeepEqual(result.Words, []string{"cat", "cot"}) {
		t.Errorf("Words = %v", result.Words)
	}
	if !filepath.IsAbs(result.SourcePath) {
		t.Errorf("SourcePath = %q, want absolute path", result.SourcePath)
	}
}

func TestLoadFileGzip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "words.txt.gz")

	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(file)
	if _, err := zw.Write([]byte("cat\ncot\ncog\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	file.Close()

	result, err := LoadFile(path, DefaultConfig())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !reflect.DeepEqual(result.Words, []string{"cat", "cot", "cog"}) {
		t.Errorf("Words = %v", result.Words)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadFile(filepath.Join(tmpDir, "missing.txt"), DefaultConfig()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}

	bad := filepath.Join(tmpDir, "bad.gz")
	if err := os.WriteFile(bad, []byte("not gzip"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad, DefaultConfig()); err == nil {
		t.Error("LoadFile on invalid gzip succeeded, want error")
	}
}

func TestDownload(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "2\ncat/A\ncot\n")
	}))
	defer server.Close()

	HunspellURLs["xx"] = server.URL
	defer delete(HunspellURLs, "xx")

	cacheDir := t.TempDir()
	path, err := Download("xx", cacheDir, false)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if path != filepath.Join(cacheDir, "xx.dic") {
		t.Errorf("path = %q", path)
	}

	// Second call is served from the cache.
	if _, err := Download("xx", cacheDir, false); err != nil {
		t.Fatalf("cached Download failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}

	if _, err := Download("xx", cacheDir, true); err != nil {
		t.Fatalf("forced Download failed: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times after force, want 2", hits.Load())
	}

	config := DefaultConfig()
	config.Hunspell = true
	result, err := LoadFile(path, config)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !reflect.DeepEqual(result.Words, []string{"cat", "cot"}) {
		t.Errorf("Words = %v", result.Words)
	}
}

func TestDownloadUnsupported(t *testing.T) {
	_, err := Download("zz", t.TempDir(), false)
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("err = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestDownloadBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	HunspellURLs["xx"] = server.URL
	defer delete(HunspellURLs, "xx")

	cacheDir := t.TempDir()
	if _, err := Download("xx", cacheDir, false); err == nil {
		t.Fatal("Download with 404 succeeded, want error")
	}
	if fileExists(filepath.Join(cacheDir, "xx.dic")) {
		t.Error("failed download left a cached file")
	}
}
