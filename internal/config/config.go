// Package config читает настройки из config.yaml рядом с бинарником.
//
// Файл необязателен и только читается: отсутствующие или некорректные
// значения заменяются значениями по умолчанию.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"fnfixer/internal/i18n"
	"fnfixer/internal/logging"
)

// FileName - имя файла настроек.
const FileName = "config.yaml"

// Config хранит настройки приложения.
type Config struct {
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	UILanguage    string `yaml:"ui_language"`
	Notifications bool   `yaml:"notifications"`

	// BrightnessStep - шаг яркости F5/F6 в процентах.
	BrightnessStep int `yaml:"brightness_step"`

	Debounce       time.Duration `yaml:"debounce"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	StopTimeout    time.Duration `yaml:"stop_timeout"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
	FlashDuration  time.Duration `yaml:"flash_duration"`
}

// Default возвращает настройки по умолчанию.
func Default() Config {
	return Config{
		LogLevel:       "info",
		LogFormat:      "text",
		UILanguage:     "en",
		Notifications:  false,
		BrightnessStep: 10,
		Debounce:       120 * time.Millisecond,
		PollInterval:   500 * time.Millisecond,
		StopTimeout:    800 * time.Millisecond,
		CommandTimeout: 5 * time.Second,
		FlashDuration:  time.Second,
	}
}

// Path возвращает путь к файлу настроек рядом с бинарником.
func Path() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	// Резолвим симлинки
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(execPath), FileName), nil
}

// Load читает настройки из path. Отсутствие файла не ошибка.
// При ошибке разбора возвращаются значения по умолчанию вместе с ошибкой.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse разбирает YAML. Незаданные поля берутся по умолчанию, значения
// вне допустимого диапазона заменяются значениями по умолчанию и
// перечисляются в ошибке.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if invalid := cfg.normalize(); len(invalid) > 0 {
		return cfg, fmt.Errorf("invalid config values replaced with defaults: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// normalize заменяет недопустимые значения и возвращает имена исправленных полей.
func (c *Config) normalize() []string {
	def := Default()
	var invalid []string

	if logging.Validate(c.LogLevel) != nil {
		c.LogLevel = def.LogLevel
		invalid = append(invalid, "log_level")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		c.LogFormat = def.LogFormat
		invalid = append(invalid, "log_format")
	}
	c.UILanguage = strings.ToLower(c.UILanguage)
	if !slices.Contains(i18n.AvailableLanguages(), i18n.Language(c.UILanguage)) {
		c.UILanguage = def.UILanguage
		invalid = append(invalid, "ui_language")
	}
	if c.BrightnessStep < 1 || c.BrightnessStep > 100 {
		c.BrightnessStep = def.BrightnessStep
		invalid = append(invalid, "brightness_step")
	}

	durations := []struct {
		name     string
		v        *time.Duration
		def      time.Duration
		min, max time.Duration
	}{
		{"debounce", &c.Debounce, def.Debounce, time.Millisecond, 2 * time.Second},
		{"poll_interval", &c.PollInterval, def.PollInterval, 10 * time.Millisecond, 10 * time.Second},
		{"stop_timeout", &c.StopTimeout, def.StopTimeout, 10 * time.Millisecond, 10 * time.Second},
		{"command_timeout", &c.CommandTimeout, def.CommandTimeout, 100 * time.Millisecond, time.Minute},
		{"flash_duration", &c.FlashDuration, def.FlashDuration, 100 * time.Millisecond, 10 * time.Second},
	}
	for _, d := range durations {
		if *d.v < d.min || *d.v > d.max {
			*d.v = d.def
			invalid = append(invalid, d.name)
		}
	}
	return invalid
}
