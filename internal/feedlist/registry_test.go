package feedlist

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleFeedsYAML = `feeds:
  - name: Backchannel
    url: https://medium.com/feed/backchannel
  - name: TechCrunch
    url: https://techcrunch.com/feed/
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAMLRegistry(t *testing.T) {
	path := writeFile(t, "feeds.yaml", sampleFeedsYAML)

	feeds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("expected 2 feeds, got %d", len(feeds))
	}
	if feeds[0].Name != "Backchannel" || feeds[1].URL != "https://techcrunch.com/feed/" {
		t.Fatalf("unexpected feeds %+v", feeds)
	}
}

func TestLoadJSONRegistry(t *testing.T) {
	path := writeFile(t, "feeds.json", `{"feeds":[{"name":"A","url":"https://a.example/rss"}]}`)

	feeds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(feeds) != 1 || feeds[0].Name != "A" {
		t.Fatalf("unexpected feeds %+v", feeds)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	feeds, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(feeds) != len(builtinDefaults) {
		t.Fatalf("expected built-in defaults, got %+v", feeds)
	}
}

func TestLoadRejectsDuplicateURLs(t *testing.T) {
	path := writeFile(t, "feeds.yaml", `feeds:
  - name: A
    url: https://a.example/rss
  - name: B
    url: https://a.example/rss
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected duplicate url error")
	}
}

func TestLoadRejectsInvalidURL(t *testing.T) {
	path := writeFile(t, "feeds.yaml", `feeds:
  - name: A
    url: "javascript:alert(1)"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected invalid url error")
	}
}

func TestLoadRejectsMissingName(t *testing.T) {
	path := writeFile(t, "feeds.yaml", `feeds:
  - url: https://a.example/rss
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected missing name error")
	}
}
