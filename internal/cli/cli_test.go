package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "stepmotion")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "stepmotion") {
		t.Errorf("cacheDir() = %q, want XDG override", dir)
	}
}

func TestConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-config", "stepmotion") {
		t.Errorf("configDir() = %q, want XDG override", dir)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"png", []string{"png"}},
		{"png,gif", []string{"png", "gif"}},
		{" svg , json ", []string{"svg", "json"}},
		{"png,,gif", []string{"png", "gif"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRootCommandStructure(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()

	want := []string{"render", "play", "info", "layouts", "serve", "push", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[render]
width = 1024.0
height = 768.0
formats = ["png", "svg"]
easing = "linear"

[play]
fps = 20

[serve]
addr = ":9090"

[theme]
background = "#112233"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(os.Stderr, LogInfo)
	c.configPath = path

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Render.Width != 1024 {
		t.Errorf("Render.Width = %g, want 1024", cfg.Render.Width)
	}
	if !reflect.DeepEqual(cfg.Render.Formats, []string{"png", "svg"}) {
		t.Errorf("Render.Formats = %v", cfg.Render.Formats)
	}
	if cfg.Play.FPS != 20 {
		t.Errorf("Play.FPS = %d, want 20", cfg.Play.FPS)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Serve.Addr = %q, want :9090", cfg.Serve.Addr)
	}
	if cfg.Theme["background"] != "#112233" {
		t.Errorf("Theme[background] = %q", cfg.Theme["background"])
	}
}

func TestLoadConfigMissingDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(os.Stderr, LogInfo)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() with no file should succeed, got: %v", err)
	}
	if cfg.Render.Width != 0 {
		t.Errorf("missing config should yield zero values, got width %g", cfg.Render.Width)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.configPath = filepath.Join(t.TempDir(), "nope.toml")

	if _, err := c.loadConfig(); err == nil {
		t.Error("loadConfig() with missing explicit --config should fail")
	}
}

func TestParseThemeFlags(t *testing.T) {
	theme, err := parseThemeFlags([]string{"background=#112233", "highlight=#ff0000"})
	if err != nil {
		t.Fatalf("parseThemeFlags() error: %v", err)
	}
	if theme["background"] != "#112233" || theme["highlight"] != "#ff0000" {
		t.Errorf("parseThemeFlags() = %v", theme)
	}

	if _, err := parseThemeFlags([]string{"background"}); err == nil {
		t.Error("parseThemeFlags() should reject entries without =")
	}
	if _, err := parseThemeFlags([]string{"=#112233"}); err == nil {
		t.Error("parseThemeFlags() should reject empty token")
	}

	theme, err = parseThemeFlags(nil)
	if err != nil || theme != nil {
		t.Errorf("parseThemeFlags(nil) = %v, %v; want nil, nil", theme, err)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		input  string
		want   string
	}{
		{"", "trace.json", "trace"},
		{"", "dir/bubble-sort.json", "bubble-sort"},
		{"", "https://example.com/traces/bfs.json?v=2", "bfs"},
		{"out/frame.png", "trace.json", "out/frame"},
		{"out/frames", "trace.json", "out/frames"},
		{"archive.v1", "trace.json", "archive.v1"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestApplyRenderConfig(t *testing.T) {
	cfg := fileConfig{
		Render: renderConfig{
			Width:   1024,
			Formats: []string{"gif"},
			Easing:  "linear",
		},
		Theme: map[string]string{"background": "#000000"},
	}

	opts := renderOpts{width: 640} // Flag set; should not be overridden
	applyRenderConfig(&opts, cfg)

	if opts.width != 640 {
		t.Errorf("explicit width overridden: %g", opts.width)
	}
	if !reflect.DeepEqual(opts.formats, []string{"gif"}) {
		t.Errorf("formats not filled from config: %v", opts.formats)
	}
	if opts.easing != "linear" {
		t.Errorf("easing not filled from config: %q", opts.easing)
	}
	if len(opts.theme) != 1 || !strings.HasPrefix(opts.theme[0], "background=") {
		t.Errorf("theme not filled from config: %v", opts.theme)
	}
}
