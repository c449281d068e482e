// Package i18n provides internationalization support.
package i18n

import (
	"fmt"
	"sync"
)

// Language represents a UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = EN // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	EN: {
		// App
		"app_name": "FN Fixer",

		// Tray
		"tooltip_normal":    "FnLock: Normal mode",
		"tooltip_augmented": "FnLock: Media mode",
		"icon_normal":       "FN",
		"icon_augmented":    "AU",
		"label_normal":      "Mode: Normal (F1–F6)",
		"label_augmented":   "Mode: Media (F1=Mute, F2=Vol-, F3=Vol+, F4=Mic, F5=Bright-, F6=Bright+)",
		"tray_toggle":       "Toggle (Num Lock)",
		"tray_toggle_hint":  "Switch between F-keys and media keys",
		"tray_about":        "About",
		"tray_about_hint":   "About FN Fixer",
		"tray_quit":         "Quit",
		"tray_quit_hint":    "Close the application",

		// Status flashes
		"status_toggled":                "Toggled",
		"status_action_error":           "Action error",
		"status_brightness_value":       "Brightness: %d%%",
		"status_brightness_adjusted":    "Brightness: adjusted (%+d)",
		"status_brightness_unsupported": "Brightness: not supported",
		"status_mic_muted":              "Mic: muted",
		"status_mic_unmuted":            "Mic: unmuted",
		"status_mic_toggled":            "Mic: toggled",
		"status_mic_error":              "Mic: error",
		"status_bind_error":             "Key %s unavailable",

		// Dialogs
		"about_title":       "About FN Fixer",
		"about_text":        "FN Fixer %s\n\nNum Lock switches F1–F6 between F-keys and media keys:\nF1 mute, F2/F3 volume, F4 microphone, F5/F6 brightness.",
		"error_title":       "FN Fixer",
		"error_hotkey_init": "Could not register the Num Lock hotkey: %v",
	},

	RU: {
		// App
		"app_name": "FN Fixer",

		// Tray
		"tooltip_normal":    "FnLock: обычный режим",
		"tooltip_augmented": "FnLock: медиа-режим",
		"icon_normal":       "FN",
		"icon_augmented":    "AU",
		"label_normal":      "Режим: обычный (F1–F6)",
		"label_augmented":   "Режим: медиа (F1=Звук, F2=Тише, F3=Громче, F4=Микрофон, F5=Темнее, F6=Ярче)",
		"tray_toggle":       "Переключить (Num Lock)",
		"tray_toggle_hint":  "F-клавиши или медиа-клавиши",
		"tray_about":        "О программе",
		"tray_about_hint":   "О FN Fixer",
		"tray_quit":         "Выход",
		"tray_quit_hint":    "Закрыть приложение",

		// Status flashes
		"status_toggled":                "Переключено",
		"status_action_error":           "Ошибка действия",
		"status_brightness_value":       "Яркость: %d%%",
		"status_brightness_adjusted":    "Яркость: изменена (%+d)",
		"status_brightness_unsupported": "Яркость: не поддерживается",
		"status_mic_muted":              "Микрофон: выключен",
		"status_mic_unmuted":            "Микрофон: включён",
		"status_mic_toggled":            "Микрофон: переключён",
		"status_mic_error":              "Микрофон: ошибка",
		"status_bind_error":             "Клавиша %s недоступна",

		// Dialogs
		"about_title":       "О FN Fixer",
		"about_text":        "FN Fixer %s\n\nNum Lock переключает F1–F6 между F-клавишами и медиа-клавишами:\nF1 звук, F2/F3 громкость, F4 микрофон, F5/F6 яркость.",
		"error_title":       "FN Fixer",
		"error_hotkey_init": "Не удалось зарегистрировать Num Lock: %v",
	},
}

// T returns the translation for the given key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if strings, ok := translations[current]; ok {
		if s, ok := strings[key]; ok {
			return s
		}
	}
	// Fallback to English, then to the key itself
	if s, ok := translations[EN][key]; ok {
		return s
	}
	return key
}

// Tf formats the translation for the given key.
func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}

// SetLanguage sets the current UI language. Unknown languages are ignored.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := translations[lang]; ok {
		current = lang
	}
}

// GetLanguage returns the current UI language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// AvailableLanguages returns list of supported languages.
func AvailableLanguages() []Language {
	return []Language{EN, RU}
}
