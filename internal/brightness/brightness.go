// Package brightness меняет яркость дисплеев каскадом бэкендов.
//
// Бэкенды перебираются в фиксированном порядке, первым идёт тот, что
// сработал в прошлый раз. Кэш перезаписывается при каждом успехе, так что
// он сам исправляется при смене мониторов.
package brightness

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"

	"fnfixer/internal/device"
	"fnfixer/internal/i18n"
)

// internalMarkers - подстроки имени встроенного дисплея.
var internalMarkers = []string{"integrated", "internal", "built-in", "edp"}

// Attempt - результат одного бэкенда.
type Attempt struct {
	Backend device.BackendID
	Err     error
}

// Outcome - итог Adjust.
type Outcome struct {
	Supported bool
	Backend   device.BackendID
	Delta     int
	// Value - среднее значение после изменения, если HasValue.
	Value    int
	HasValue bool
	Attempts []Attempt
}

// Status возвращает строку для индикатора.
func (o Outcome) Status() string {
	switch {
	case !o.Supported:
		return i18n.T("status_brightness_unsupported")
	case o.HasValue:
		return i18n.Tf("status_brightness_value", o.Value)
	default:
		return i18n.Tf("status_brightness_adjusted", o.Delta)
	}
}

// Cascade перебирает бэкенды яркости.
type Cascade struct {
	lister   device.DisplayLister
	backends []device.Backend
	log      *slog.Logger

	mu     sync.Mutex
	cached device.BackendID
}

// New создаёт каскад. Порядок backends задаёт приоритет.
func New(lister device.DisplayLister, backends []device.Backend, log *slog.Logger) *Cascade {
	if log == nil {
		log = slog.Default()
	}
	return &Cascade{
		lister:   lister,
		backends: backends,
		log:      log.With("component", "brightness"),
	}
}

// Cached возвращает бэкенд, сработавший последним.
func (c *Cascade) Cached() (device.BackendID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cached, c.cached != ""
}

// Adjust меняет яркость на delta процентов.
func (c *Cascade) Adjust(ctx context.Context, delta int) Outcome {
	out := Outcome{Delta: delta}
	targets := PreferInternal(c.displays(ctx))

	for _, b := range c.order() {
		values, err := c.try(ctx, b, targets, delta)
		out.Attempts = append(out.Attempts, Attempt{Backend: b.ID(), Err: err})
		if err != nil {
			c.log.Debug("бэкенд не сработал", "backend", b.ID(), "err", err)
			continue
		}

		c.mu.Lock()
		c.cached = b.ID()
		c.mu.Unlock()

		out.Supported = true
		out.Backend = b.ID()
		if avg, ok := average(values); ok {
			out.Value = avg
			out.HasValue = true
		}
		c.log.Debug("яркость изменена", "backend", b.ID(), "delta", delta, "value", out.Value, "known", out.HasValue)
		return out
	}

	c.log.Info("яркость не поддерживается", "delta", delta, "targets", len(targets))
	return out
}

// displays перечисляет дисплеи. Ошибка означает пустой список.
func (c *Cascade) displays(ctx context.Context) []device.Display {
	if c.lister == nil {
		return nil
	}
	displays, err := c.lister.Displays(ctx)
	if err != nil {
		c.log.Debug("перечисление дисплеев не удалось", "err", err)
		return nil
	}
	return displays
}

// order возвращает бэкенды: кэшированный первым, затем остальные по приоритету.
func (c *Cascade) order() []device.Backend {
	cached, ok := c.Cached()
	if !ok {
		return c.backends
	}
	ordered := make([]device.Backend, 0, len(c.backends))
	for _, b := range c.backends {
		if b.ID() == cached {
			ordered = append(ordered, b)
		}
	}
	for _, b := range c.backends {
		if b.ID() != cached {
			ordered = append(ordered, b)
		}
	}
	return ordered
}

// try применяет delta ко всем целям одного бэкенда. Бэкенд успешен, если
// запись принял хотя бы один дисплей.
func (c *Cascade) try(ctx context.Context, b device.Backend, targets []device.Display, delta int) ([]int, error) {
	if sel, ok := b.(device.TargetSelector); ok {
		own, err := sel.Targets(ctx, targets)
		if err != nil {
			return nil, err
		}
		targets = own
	}
	if len(targets) == 0 {
		return nil, device.ErrNoTargets
	}

	var (
		values   []int
		accepted int
		errs     []error
	)
	for _, d := range targets {
		cur, err := b.Get(ctx, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		r, err := b.Set(ctx, d, device.Clamp(device.Clamp(cur)+delta))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		accepted++
		if r.Known {
			values = append(values, device.Clamp(r.Value))
		}
	}
	if accepted == 0 {
		if len(errs) == 0 {
			return nil, device.ErrDeviceRejected
		}
		return nil, errors.Join(errs...)
	}
	return values, nil
}

// PreferInternal оставляет встроенные дисплеи, если они есть.
func PreferInternal(displays []device.Display) []device.Display {
	var internal []device.Display
	for _, d := range displays {
		name := strings.ToLower(d.Name)
		for _, m := range internalMarkers {
			if strings.Contains(name, m) {
				internal = append(internal, d)
				break
			}
		}
	}
	if len(internal) > 0 {
		return internal
	}
	return displays
}

func average(values []int) (int, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values)))), true
}
