// Package dialog показывает модальные окна.
package dialog

import (
	"github.com/ncruces/zenity"

	"fnfixer/internal/i18n"
)

// ShowInfo показывает информационное сообщение.
func ShowInfo(title, message string) {
	zenity.Info(message, zenity.Title(title), zenity.InfoIcon)
}

// ShowError показывает сообщение об ошибке.
func ShowError(title, message string) {
	zenity.Error(message, zenity.Title(title), zenity.ErrorIcon)
}

// About показывает окно "О программе".
func About(version string) {
	ShowInfo(i18n.T("about_title"), i18n.Tf("about_text", version))
}

// Fatal показывает ошибку запуска.
func Fatal(err error) {
	ShowError(i18n.T("error_title"), i18n.Tf("error_hotkey_init", err))
}
