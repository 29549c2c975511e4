package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write sources file: %v", err)
	}
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeSourcesFile(t, `sources:
  - name: Hacker News
    url: https://news.ycombinator.com/rss
    type: rss
    check_interval_hours: 2
  - name: 少数派
    url: https://sspai.com/feed
    active: false
`)

	sources, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}

	first := sources[0]
	if first.Name != "Hacker News" || first.URL != "https://news.ycombinator.com/rss" {
		t.Errorf("unexpected source %+v", first)
	}
	if first.CheckIntervalHours != 2 {
		t.Errorf("expected interval 2, got %d", first.CheckIntervalHours)
	}
	if !first.IsActive() {
		t.Error("omitted active flag should default to true")
	}

	second := sources[1]
	if second.Type != "rss" {
		t.Errorf("omitted type should default to rss, got %q", second.Type)
	}
	if second.CheckIntervalHours != 1 {
		t.Errorf("omitted interval should default to 1, got %d", second.CheckIntervalHours)
	}
	if second.IsActive() {
		t.Error("explicit active: false must be honored")
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	sources, err := NewLoader(filepath.Join(t.TempDir(), "absent.yml")).Load()
	if err != nil {
		t.Fatalf("a missing file is not an error: %v", err)
	}
	if sources != nil {
		t.Errorf("expected no sources, got %v", sources)
	}
}

func TestLoader_Load_InvalidSource(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name: "missing name",
			content: `sources:
  - url: https://example.com/feed
`,
		},
		{
			name: "missing url",
			content: `sources:
  - name: Broken
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSourcesFile(t, tc.content)
			if _, err := NewLoader(path).Load(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoader_Load_MalformedYAML(t *testing.T) {
	path := writeSourcesFile(t, "sources: [not: closed")
	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("expected parse error")
	}
}
