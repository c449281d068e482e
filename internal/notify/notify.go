// Package notify предоставляет системные уведомления.
package notify

import (
	"github.com/gen2brain/beeep"

	"fnfixer/internal/i18n"
)

type sendFunc func(title, message, icon string) error

// Notifier дублирует временные статусы системными уведомлениями.
// Включение задаётся один раз при создании.
type Notifier struct {
	enabled bool
	send    sendFunc
}

// New создаёт новый Notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, send: beeep.Notify}
}

// Enabled возвращает true если уведомления включены.
func (n *Notifier) Enabled() bool {
	return n.enabled
}

// Flash показывает статус уведомлением. Не ждёт, пока уведомление покажется.
func (n *Notifier) Flash(msg string) {
	if !n.Enabled() || msg == "" {
		return
	}
	title := i18n.T("app_name")
	go func() {
		// Игнорируем ошибки уведомлений - они не критичны
		_ = n.send(title, msg, "")
	}()
}
