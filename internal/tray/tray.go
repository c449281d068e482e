// Package tray предоставляет системный трей с меню и индикатором режима.
package tray

import (
	"log/slog"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"fnfixer/internal/i18n"
	"fnfixer/internal/icon"
	"fnfixer/internal/mode"
)

// DefaultFlashDuration - сколько держится временный статус.
const DefaultFlashDuration = time.Second

// Callbacks содержит обработчики событий меню.
type Callbacks struct {
	OnToggle func()
	OnAbout  func()
	OnQuit   func()
}

// ui - то, что трей меняет в системной области уведомлений.
type ui interface {
	SetIcon(data []byte)
	SetTooltip(text string)
	SetTitle(text string)
}

type systrayUI struct{}

func (systrayUI) SetIcon(data []byte)    { systray.SetIcon(data) }
func (systrayUI) SetTooltip(text string) { systray.SetTooltip(text) }
func (systrayUI) SetTitle(text string)   { systray.SetTitle(text) }

// Tray управляет иконкой в системном трее. Методы можно вызывать из любой горутины.
type Tray struct {
	callbacks Callbacks
	flashFor  time.Duration
	log       *slog.Logger
	ui        ui

	mu       sync.Mutex
	ready    bool
	mode     mode.Mode
	base     string // подсказка без временного статуса
	label    string
	flashGen uint64
	icons    map[mode.Mode][]byte

	status    *systray.MenuItem
	toggleBtn *systray.MenuItem
	aboutBtn  *systray.MenuItem
	quitBtn   *systray.MenuItem
}

// New создаёт новый Tray.
func New(callbacks Callbacks, flashFor time.Duration, log *slog.Logger) *Tray {
	if flashFor <= 0 {
		flashFor = DefaultFlashDuration
	}
	if log == nil {
		log = slog.Default()
	}
	t := &Tray{
		callbacks: callbacks,
		flashFor:  flashFor,
		log:       log.With("component", "tray"),
		ui:        systrayUI{},
		base:      tooltip(mode.Normal),
		label:     mode.Normal.Label(),
		icons:     make(map[mode.Mode][]byte),
	}
	for _, m := range []mode.Mode{mode.Normal, mode.Augmented} {
		data, err := icon.ForTray(iconText(m))
		if err != nil {
			t.log.Error("иконка не создана", "mode", m, "err", err)
			continue
		}
		t.icons[m] = data
	}
	return t
}

// Run запускает системный трей. Блокирующая функция.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, t.onExit)
}

func (t *Tray) onReady() {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Статус
	t.status = systray.AddMenuItem(t.label, "")
	t.status.Disable()

	systray.AddSeparator()

	t.toggleBtn = systray.AddMenuItem(i18n.T("tray_toggle"), i18n.T("tray_toggle_hint"))
	t.aboutBtn = systray.AddMenuItem(i18n.T("tray_about"), i18n.T("tray_about_hint"))

	systray.AddSeparator()

	// Выход
	t.quitBtn = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	t.ready = true
	t.applyLocked()

	// Обработка событий меню
	go t.handleMenuEvents(t.toggleBtn, t.aboutBtn, t.quitBtn)
}

func (t *Tray) handleMenuEvents(toggleBtn, aboutBtn, quitBtn *systray.MenuItem) {
	for {
		select {
		case <-toggleBtn.ClickedCh:
			if t.callbacks.OnToggle != nil {
				t.callbacks.OnToggle()
			}

		case <-aboutBtn.ClickedCh:
			if t.callbacks.OnAbout != nil {
				t.callbacks.OnAbout()
			}

		// Выход
		case <-quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

// SetIconState меняет иконку и подсказку под режим.
func (t *Tray) SetIconState(m mode.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = m
	t.base = tooltip(m)
	// Смена режима отменяет временный статус.
	t.flashGen++
	t.applyLocked()
}

// SetStatus меняет подпись режима в меню.
func (t *Tray) SetStatus(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.label = text
	if t.status != nil {
		t.status.SetTitle(text)
	}
}

// Flash дописывает msg к подсказке и убирает через flashFor.
func (t *Tray) Flash(msg string) {
	t.mu.Lock()
	t.flashGen++
	gen := t.flashGen
	text := t.base + " • " + msg
	if t.ready {
		t.ui.SetTooltip(text)
		t.ui.SetTitle(msg)
	}
	t.mu.Unlock()

	time.AfterFunc(t.flashFor, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// Более новый статус сам себя уберёт.
		if gen != t.flashGen {
			return
		}
		t.applyLocked()
	})
}

// Tooltip возвращает текущую подсказку без временного статуса.
func (t *Tray) Tooltip() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.base
}

// applyLocked показывает иконку и подсказку текущего режима.
func (t *Tray) applyLocked() {
	if !t.ready {
		return
	}
	if data, ok := t.icons[t.mode]; ok {
		t.ui.SetIcon(data)
	}
	t.ui.SetTooltip(t.base)
	t.ui.SetTitle(iconText(t.mode))
}

func (t *Tray) onExit() {
	t.log.Debug("трей закрыт")
}

// Quit закрывает системный трей.
func (t *Tray) Quit() {
	systray.Quit()
}

func tooltip(m mode.Mode) string {
	if m == mode.Augmented {
		return i18n.T("tooltip_augmented")
	}
	return i18n.T("tooltip_normal")
}

func iconText(m mode.Mode) string {
	if m == mode.Augmented {
		return i18n.T("icon_augmented")
	}
	return i18n.T("icon_normal")
}
