// Package mode хранит режим клавиш F1..F6 и держит привязки горячих
// клавиш в соответствии с ним.
//
// Привязки существуют тогда и только тогда, когда режим Augmented.
// Bind и Unbind выполняются синхронно внутри переключения, поэтому метка
// режима в трее никогда не опережает реальное состояние привязок.
package mode

import (
	"log/slog"
	"strings"
	"sync"

	"fnfixer/internal/device"
	"fnfixer/internal/i18n"
	"fnfixer/internal/keys"
	"fnfixer/internal/worker"
)

// Mode - режим клавиш.
type Mode int

const (
	// Normal - F1..F6 работают как обычные F-клавиши.
	Normal Mode = iota
	// Augmented - F1..F6 управляют звуком, микрофоном и яркостью.
	Augmented
)

func (m Mode) String() string {
	if m == Augmented {
		return "augmented"
	}
	return "normal"
}

// Label возвращает подпись режима для меню.
func (m Mode) Label() string {
	if m == Augmented {
		return i18n.T("label_augmented")
	}
	return i18n.T("label_normal")
}

// Notifier получает состояние режима.
type Notifier interface {
	SetStatus(text string)
	SetIconState(m Mode)
}

// Queue принимает действия. Enqueue не должен блокировать.
type Queue interface {
	Enqueue(a worker.Action)
}

// Binding связывает клавишу с действием.
type Binding struct {
	Key    keys.Key
	Action worker.Action
}

// DefaultBindings возвращает раскладку медиа-режима. step - шаг яркости.
func DefaultBindings(step int) []Binding {
	return []Binding{
		{keys.KeyF1, worker.Volume(device.VolumeMute)},
		{keys.KeyF2, worker.Volume(device.VolumeDown)},
		{keys.KeyF3, worker.Volume(device.VolumeUp)},
		{keys.KeyF4, worker.MicToggle()},
		{keys.KeyF5, worker.BrightnessDelta(-step)},
		{keys.KeyF6, worker.BrightnessDelta(step)},
	}
}

// Machine - конечный автомат Normal/Augmented.
type Machine struct {
	binder   keys.Binder
	queue    Queue
	notifier Notifier
	bindings []Binding
	log      *slog.Logger

	mu      sync.Mutex
	mode    Mode
	handles []keys.Handle
}

// New создаёт автомат в режиме Normal. notifier может быть nil.
func New(binder keys.Binder, queue Queue, notifier Notifier, bindings []Binding, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		binder:   binder,
		queue:    queue,
		notifier: notifier,
		bindings: bindings,
		log:      log.With("component", "mode"),
	}
}

// Start сообщает начальный режим индикатору.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announce()
}

// Mode возвращает текущий режим.
func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Label возвращает подпись текущего режима.
func (m *Machine) Label() string {
	return m.Mode().Label()
}

// Toggle переключает режим и возвращает новый.
func (m *Machine) Toggle() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := Normal
	if m.mode == Normal {
		next = Augmented
	}

	m.unbindAll()
	if next == Augmented {
		m.bindAll()
	}
	m.mode = next
	m.log.Info("режим переключён", "mode", next, "bound", len(m.handles))

	m.announce()
	m.queue.Enqueue(worker.StatusFlash(i18n.T("status_toggled")))
	return next
}

// Close снимает все привязки независимо от режима. Повторный вызов безопасен.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unbindAll()
}

func (m *Machine) bindAll() {
	for _, b := range m.bindings {
		action := b.Action
		h, err := m.binder.Bind(b.Key, func() { m.queue.Enqueue(action) }, true)
		if err != nil {
			// Остальные клавиши всё равно привязываются.
			m.log.Warn("клавиша не привязана", "key", b.Key, "err", err)
			m.queue.Enqueue(worker.StatusFlash(i18n.Tf("status_bind_error", strings.ToUpper(string(b.Key)))))
			continue
		}
		m.handles = append(m.handles, h)
	}
}

func (m *Machine) unbindAll() {
	for _, h := range m.handles {
		if err := m.binder.Unbind(h); err != nil {
			m.log.Debug("ошибка снятия привязки", "handle", h, "err", err)
		}
	}
	m.handles = nil
}

func (m *Machine) announce() {
	if m.notifier == nil {
		return
	}
	m.notifier.SetIconState(m.mode)
	m.notifier.SetStatus(m.mode.Label())
}
