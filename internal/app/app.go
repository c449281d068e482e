// Package app связывает режим, очередь действий, адаптеры устройств и трей.
package app

import (
	"log/slog"
	"sync"
	"time"

	"fnfixer/internal/brightness"
	"fnfixer/internal/config"
	"fnfixer/internal/device"
	"fnfixer/internal/dialog"
	"fnfixer/internal/hotkey"
	"fnfixer/internal/i18n"
	"fnfixer/internal/keys"
	"fnfixer/internal/mic"
	"fnfixer/internal/mode"
	"fnfixer/internal/notify"
	"fnfixer/internal/tray"
	"fnfixer/internal/worker"
)

// toggleDebounce - защита клавиши переключения от автоповтора.
const toggleDebounce = 300 * time.Millisecond

// flashers рассылает временный статус нескольким получателям.
type flashers []worker.Notifier

func (f flashers) Flash(text string) {
	for _, n := range f {
		n.Flash(text)
	}
}

// App представляет главное приложение.
type App struct {
	version  string
	log      *slog.Logger
	platform *device.Platform
	worker   *worker.Worker
	machine  *mode.Machine
	hotkeys  *hotkey.Service
	tray     *tray.Tray
	notifier *notify.Notifier

	closeOnce sync.Once
}

// New создаёт новое приложение.
func New(cfg config.Config, version string, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	i18n.SetLanguage(i18n.Language(cfg.UILanguage))

	platform, err := device.NewPlatform(device.Options{CommandTimeout: cfg.CommandTimeout})
	if err != nil {
		// Остальные адаптеры работают, недоступное действие покажет ошибку.
		log.Warn("часть адаптеров недоступна", "err", err)
	}

	a := &App{
		version:  version,
		log:      log,
		platform: platform,
		notifier: notify.New(cfg.Notifications),
	}

	a.tray = tray.New(tray.Callbacks{
		OnToggle: a.onToggle,
		OnAbout:  a.onAbout,
		OnQuit:   a.Close,
	}, cfg.FlashDuration, log)

	a.worker = worker.New(worker.Handlers{
		Volume:     platform.Keys,
		Brightness: brightness.New(platform.Displays, platform.Backends, log),
		Mic:        mic.New(platform.Mic, platform.Fallback, log),
		Notifier:   flashers{a.tray, a.notifier},
	}, worker.Options{
		Debounce:     cfg.Debounce,
		PollInterval: cfg.PollInterval,
		StopTimeout:  cfg.StopTimeout,
	}, log)

	a.hotkeys = hotkey.New(log, hotkey.WithDebounce(keys.KeyNumLock, toggleDebounce))
	a.machine = mode.New(a.hotkeys, a.worker, a.tray, mode.DefaultBindings(cfg.BrightnessStep), log)
	return a
}

// Run запускает приложение и блокируется до выхода. Возвращает ошибку,
// если не удалось зарегистрировать клавишу переключения.
func (a *App) Run() error {
	a.worker.Start()

	var runErr error
	a.tray.Run(func() {
		a.machine.Start()

		// Регистрируем клавишу переключения после инициализации трея.
		// Num Lock не подавляется: индикатор и цифровой блок работают как обычно.
		if _, err := a.hotkeys.Bind(keys.KeyNumLock, a.onToggle, false); err != nil {
			a.log.Error("клавиша переключения не зарегистрирована", "err", err)
			runErr = err
			dialog.Fatal(err)
			a.Close()
			return
		}
		a.log.Info("приложение запущено", "version", a.version, "mode", a.machine.Mode())
	})
	return runErr
}

// Close останавливает очередь, снимает привязки и закрывает трей.
// Повторные вызовы ничего не делают.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		shutdown(a.log, a.worker, a.platform, a.machine, a.hotkeys)
		a.tray.Quit()
		a.log.Info("приложение остановлено")
	})
}

type stopper interface {
	Stop() bool
}

type closer interface {
	Close()
}

// shutdown останавливает очередь и закрывает bindings. devices закрываются,
// только если очередь остановилась: незавершённое действие ещё
// пользуется дескрипторами устройств. Возвращает true, если devices закрыты.
func shutdown(log *slog.Logger, w stopper, devices closer, bindings ...closer) bool {
	stopped := w.Stop()
	for _, c := range bindings {
		c.Close()
	}
	if !stopped {
		log.Warn("очередь действий не завершилась, адаптеры устройств не закрыты")
		return false
	}
	devices.Close()
	return true
}

func (a *App) onToggle() {
	a.machine.Toggle()
}

func (a *App) onAbout() {
	// Диалог модальный, меню трея не должно ждать его закрытия.
	go dialog.About(a.version)
}
