package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/codelai"
	"github.com/ZaguanLabs/codelai/cache"
)

const testDict = `terms:
  - term: fetch
    translation: obtener
  - term: user
    translation: usuario
  - term: data
    translation: datos
`

func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("CODELAI_CONFIG", "")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dict.yaml"), testDict)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func withStdin(t *testing.T, content string) {
	t.Helper()
	prev := stdin
	stdin = strings.NewReader(content)
	t.Cleanup(func() { stdin = prev })
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"version"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "codelai "+codelai.Version) {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_TranslateFile(t *testing.T) {
	dir := setup(t)
	src := filepath.Join(dir, "app.py")
	writeFile(t, src, "# fetch user\nmessage = \"user data\"\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "--dict", filepath.Join(dir, "dict.yaml"), "--no-builtins", src}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	expected := "# obtener usuario\nmessage = \"usuario datos\"\n"
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
	if !strings.Contains(stderr.String(), "Strings:    1") || !strings.Contains(stderr.String(), "Comments:   1") {
		t.Errorf("expected summary on stderr, got: %s", stderr.String())
	}
}

func TestRun_TranslateStdin(t *testing.T) {
	dir := setup(t)
	withStdin(t, `const msg = "fetch user";`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "--quiet", "--lang", "js", "--dict", filepath.Join(dir, "dict.yaml")}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	if stdout.String() != `const msg = "obtener usuario";` {
		t.Errorf("unexpected output %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("--quiet should silence stderr, got: %s", stderr.String())
	}
}

func TestRun_TranslateJSON(t *testing.T) {
	dir := setup(t)
	src := filepath.Join(dir, "notes.txt")
	writeFile(t, src, "fetch the data")

	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "--json", "-q", "--no-builtins", "--dict", filepath.Join(dir, "dict.yaml"), src}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	var out struct {
		File         string `json:"file"`
		Language     string `json:"language"`
		Code         string `json:"code"`
		UsedFallback bool   `json:"usedFallback"`
		Segments     []codelai.Segment
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout.String())
	}
	if out.File != src || out.Code != "obtener the datos" || !out.UsedFallback || out.Language != "plain" {
		t.Errorf("unexpected JSON output: %+v", out)
	}
	if len(out.Segments) != 1 || out.Segments[0].Kind != codelai.KindText {
		t.Errorf("expected one text segment, got %+v", out.Segments)
	}
}

func TestRun_TranslateMultipleFiles(t *testing.T) {
	dir := setup(t)
	a := filepath.Join(dir, "a.js")
	b := filepath.Join(dir, "b.rb")
	writeFile(t, a, "// fetch\n")
	writeFile(t, b, "# user\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "-q", "--dict", filepath.Join(dir, "dict.yaml"), a, b}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	expected := "==> " + a + " <==\n// obtener\n\n==> " + b + " <==\n# usuario\n"
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
}

func TestRun_TranslateMissingFile(t *testing.T) {
	setup(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "/nonexistent/file.js"}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "reading file") {
		t.Errorf("expected read error, got: %v", err)
	}
}

func TestRun_TranslateDictionaryFailure(t *testing.T) {
	dir := setup(t)
	withStdin(t, "fetch")

	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "-q", "--dict", filepath.Join(dir, "missing.yaml")}, &stdout, &stderr)

	var dictErr *codelai.DictionaryError
	if !errors.As(err, &dictErr) {
		t.Fatalf("expected *DictionaryError, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should be written on failure, got %q", stdout.String())
	}
}

func TestRun_TranslateCacheFile(t *testing.T) {
	dir := setup(t)
	t.Setenv("CODELAI_CACHE_BACKEND", "none")
	src := filepath.Join(dir, "app.ts")
	writeFile(t, src, "const s: string = 'fetch user';\n")
	cacheFile := filepath.Join(dir, "cache.json")
	args := []string{"translate", "-q", "--dict", filepath.Join(dir, "dict.yaml"), "--cache-file", cacheFile, src}

	var stdout, stderr bytes.Buffer
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	c := cache.NewInMemoryCache(0)
	res, err := cache.NewImporter(c).ImportFromFile(t.Context(), cacheFile)
	if err != nil {
		t.Fatalf("cache file not readable: %v", err)
	}
	if res.Imported != 1 || res.Metadata["version"] != codelai.FullVersion() {
		t.Errorf("unexpected cache file contents: %+v", res)
	}

	stdout.Reset()
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if stdout.String() != "const s: string = 'obtener usuario';\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestRun_Detect(t *testing.T) {
	dir := setup(t)
	src := filepath.Join(dir, "script.sh")
	writeFile(t, src, "echo hi\n")

	tests := []struct {
		name     string
		args     []string
		stdin    string
		expected string
	}{
		{"from extension", []string{"detect", src}, "", "shell"},
		{"hint wins", []string{"detect", "--lang", "ruby", src}, "", "ruby"},
		{"stdin python", []string{"detect"}, "def main():\n    print('x')\n", "python"},
		{"stdin default", []string{"detect"}, "hello there", "js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withStdin(t, tt.stdin)
			var stdout, stderr bytes.Buffer
			if err := run(tt.args, &stdout, &stderr); err != nil {
				t.Fatalf("detect failed: %v", err)
			}
			if got := strings.TrimSpace(stdout.String()); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"frobnicate"}, &stdout, &stderr); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	setup(t)
	t.Setenv("CODELAI_LOG_LEVEL", "loud")

	var stdout, stderr bytes.Buffer
	err := run([]string{"translate"}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "unknown level") {
		t.Errorf("expected config validation error, got: %v", err)
	}
}
