// FN Fixer - переключает F1..F6 между обычными F-клавишами и медиа-клавишами.
//
// Работает в системном трее. Num Lock переключает режим: в медиа-режиме
// F1 выключает звук, F2/F3 меняют громкость, F4 выключает микрофон,
// F5/F6 меняют яркость.
package main

import (
	"log/slog"
	"os"

	"fnfixer/internal/app"
	"fnfixer/internal/config"
	"fnfixer/internal/hotkey"
	"fnfixer/internal/logging"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

func main() {
	// Запускаем в главном потоке (требование для macOS и некоторых GUI)
	hotkey.RunOnMainThread(run)
}

func run() {
	cfg := config.Default()
	var cfgErr error
	if path, err := config.Path(); err == nil {
		cfg, cfgErr = config.Load(path)
	}

	log, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log = slog.Default()
		log.Error("ошибка настройки логирования", "err", err)
	}
	if cfgErr != nil {
		log.Warn("настройки частично заменены значениями по умолчанию", "err", cfgErr)
	}
	log.Info("FN Fixer запускается", "version", Version)

	application := app.New(cfg, Version, log)
	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
