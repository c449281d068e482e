package i18n

import "testing"

func TestLanguagesHaveSameKeys(t *testing.T) {
	for key := range translations[EN] {
		if _, ok := translations[RU][key]; !ok {
			t.Errorf("key %q missing in %s", key, RU)
		}
	}
	for key := range translations[RU] {
		if _, ok := translations[EN][key]; !ok {
			t.Errorf("key %q missing in %s", key, EN)
		}
	}
}

func TestTFallbacks(t *testing.T) {
	defer SetLanguage(GetLanguage())

	SetLanguage(RU)
	if got := T("tray_quit"); got != "Выход" {
		t.Fatalf("T(tray_quit) = %q", got)
	}
	if got := T("no_such_key"); got != "no_such_key" {
		t.Fatalf("T(no_such_key) = %q, want key itself", got)
	}

	SetLanguage("de")
	if GetLanguage() != RU {
		t.Fatalf("unknown language must be ignored, got %q", GetLanguage())
	}
}

func TestTf(t *testing.T) {
	defer SetLanguage(GetLanguage())
	SetLanguage(EN)

	tests := map[string]struct {
		key  string
		args []any
		want string
	}{
		"value":    {"status_brightness_value", []any{40}, "Brightness: 40%"},
		"positive": {"status_brightness_adjusted", []any{10}, "Brightness: adjusted (+10)"},
		"negative": {"status_brightness_adjusted", []any{-20}, "Brightness: adjusted (-20)"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Tf(tt.key, tt.args...); got != tt.want {
				t.Fatalf("Tf = %q, want %q", got, tt.want)
			}
		})
	}
}
