package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := `
log_level: debug
log_format: json
ui_language: RU
notifications: true
brightness_step: 5
debounce: 200ms
command_timeout: 3s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.LogLevel = "debug"
	want.LogFormat = "json"
	want.UILanguage = "ru"
	want.Notifications = true
	want.BrightnessStep = 5
	want.Debounce = 200 * time.Millisecond
	want.CommandTimeout = 3 * time.Second
	if cfg != want {
		t.Fatalf("cfg = %+v\nwant  %+v", cfg, want)
	}
}

func TestParseInvalidValues(t *testing.T) {
	cfg, err := Parse([]byte("log_level: loud\nbrightness_step: 0\ndebounce: 1h\nui_language: de\npoll_interval: 250ms\n"))
	if err == nil {
		t.Fatal("want error listing invalid fields")
	}
	for _, name := range []string{"log_level", "brightness_step", "debounce", "ui_language"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}

	def := Default()
	if cfg.LogLevel != def.LogLevel || cfg.BrightnessStep != def.BrightnessStep || cfg.Debounce != def.Debounce || cfg.UILanguage != def.UILanguage {
		t.Fatalf("invalid values not replaced: %+v", cfg)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Fatalf("valid value lost: poll_interval = %s", cfg.PollInterval)
	}
}

func TestParseMalformed(t *testing.T) {
	cfg, err := Parse([]byte("debounce: [1, 2"))
	if err == nil {
		t.Fatal("want parse error")
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}
