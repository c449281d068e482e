// Package worker выполняет действия горячих клавиш в одной горутине.
//
// Обработчики клавиш только ставят действие в очередь; всё, что трогает
// устройства, выполняется здесь последовательно. Изменения яркости
// копятся в аккумуляторе и применяются одним вызовом после паузы.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fnfixer/internal/brightness"
	"fnfixer/internal/device"
	"fnfixer/internal/i18n"
	"fnfixer/internal/mic"
)

const (
	DefaultDebounce     = 120 * time.Millisecond
	DefaultPollInterval = 500 * time.Millisecond
	DefaultStopTimeout  = 800 * time.Millisecond
)

var errNoHandler = errors.New("no handler for action")

// Kind - тип действия.
type Kind int

const (
	KindVolume Kind = iota
	KindMicToggle
	KindBrightnessDelta
	KindStatusFlash
	KindShutdown

	kindFlushBrightness
)

func (k Kind) String() string {
	switch k {
	case KindVolume:
		return "volume"
	case KindMicToggle:
		return "mic-toggle"
	case KindBrightnessDelta:
		return "brightness-delta"
	case KindStatusFlash:
		return "status-flash"
	case KindShutdown:
		return "shutdown"
	case kindFlushBrightness:
		return "flush-brightness"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action - элемент очереди.
type Action struct {
	Kind   Kind
	Volume device.VolumeCommand
	Delta  int
	Text   string
}

// Volume нажимает мультимедийную клавишу громкости.
func Volume(cmd device.VolumeCommand) Action { return Action{Kind: KindVolume, Volume: cmd} }

// MicToggle переключает микрофон.
func MicToggle() Action { return Action{Kind: KindMicToggle} }

// BrightnessDelta меняет яркость на delta процентов.
func BrightnessDelta(delta int) Action { return Action{Kind: KindBrightnessDelta, Delta: delta} }

// StatusFlash показывает временный статус.
func StatusFlash(text string) Action { return Action{Kind: KindStatusFlash, Text: text} }

// Notifier показывает временный статус.
type Notifier interface {
	Flash(text string)
}

// BrightnessAdjuster меняет яркость.
type BrightnessAdjuster interface {
	Adjust(ctx context.Context, delta int) brightness.Outcome
}

// MicToggler переключает микрофон.
type MicToggler interface {
	Toggle(ctx context.Context) mic.Outcome
}

// Handlers - исполнители действий. Любое поле может быть nil, тогда
// соответствующее действие завершается ошибкой.
type Handlers struct {
	Volume     device.KeySender
	Brightness BrightnessAdjuster
	Mic        MicToggler
	Notifier   Notifier
}

// Options - тайминги очереди. Нулевые значения заменяются значениями по умолчанию.
type Options struct {
	Debounce     time.Duration
	PollInterval time.Duration
	StopTimeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = DefaultStopTimeout
	}
	return o
}

// Worker - очередь действий с единственным потребителем.
type Worker struct {
	h    Handlers
	opts Options
	log  *slog.Logger
	ctx  context.Context

	mu      sync.Mutex
	queue   []Action
	pending int // накопленная дельта яркости

	wake     chan struct{}
	stopCh   chan struct{}
	done     chan struct{}
	stopped  atomic.Bool
	started  atomic.Bool
	stopOnce sync.Once
}

// New создаёт очередь. Горутина запускается в Start.
func New(h Handlers, opts Options, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		h:      h,
		opts:   opts.withDefaults(),
		log:    log.With("component", "worker"),
		ctx:    context.Background(),
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start запускает обработку. Повторные вызовы ничего не делают.
func (w *Worker) Start() {
	if w.stopped.Load() || !w.started.CompareAndSwap(false, true) {
		return
	}
	go w.run()
}

// Enqueue ставит действие в очередь и никогда не блокирует.
// После Stop ничего не делает.
func (w *Worker) Enqueue(a Action) {
	if w.stopped.Load() {
		return
	}
	switch a.Kind {
	case KindBrightnessDelta:
		w.AddBrightness(a.Delta)
	case KindShutdown, kindFlushBrightness:
		// управляются самой очередью
		w.log.Debug("служебное действие отброшено", "action", a.Kind)
	default:
		w.push(a)
	}
}

// AddBrightness добавляет delta к накопленной дельте и ставит маркер сброса.
func (w *Worker) AddBrightness(delta int) {
	if w.stopped.Load() {
		return
	}
	w.mu.Lock()
	w.pending += delta
	w.mu.Unlock()
	w.push(Action{Kind: kindFlushBrightness})
}

// Stop останавливает обработку и ждёт завершения не дольше StopTimeout.
// Действия, оставшиеся в очереди, отбрасываются; начатое может завершиться.
// Возвращает false, если горутина не успела выйти.
func (w *Worker) Stop() bool {
	w.stopOnce.Do(func() {
		w.stopped.Store(true)
		close(w.stopCh)
		w.push(Action{Kind: KindShutdown})
	})
	if !w.started.Load() {
		return true
	}

	timer := time.NewTimer(w.opts.StopTimeout)
	defer timer.Stop()
	select {
	case <-w.done:
		return true
	case <-timer.C:
		w.log.Warn("очередь не остановилась вовремя", "timeout", w.opts.StopTimeout)
		return false
	}
}

func (w *Worker) push(a Action) {
	w.mu.Lock()
	w.queue = append(w.queue, a)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// pop берёт первое действие из очереди.
func (w *Worker) pop() (Action, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return Action{}, false
	}
	a := w.queue[0]
	w.queue[0] = Action{}
	w.queue = w.queue[1:]
	return a, true
}

func (w *Worker) run() {
	defer close(w.done)
	w.log.Debug("очередь запущена")

	timer := time.NewTimer(w.opts.PollInterval)
	defer timer.Stop()

	for {
		a, ok := w.pop()
		if !ok {
			if w.stopped.Load() {
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.opts.PollInterval)
			select {
			case <-w.wake:
			case <-timer.C:
			}
			continue
		}

		if a.Kind == KindShutdown || w.stopped.Load() {
			w.log.Debug("очередь остановлена")
			return
		}
		w.execute(a)
	}
}

// execute выполняет одно действие. Ошибки и паники не выходят за его пределы.
func (w *Worker) execute(a Action) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("паника при выполнении действия", "action", a.Kind, "panic", r)
			w.flash(i18n.T("status_action_error"))
		}
	}()

	if err := w.handle(a); err != nil {
		w.log.Warn("действие не выполнено", "action", a.Kind, "err", err)
		w.flash(i18n.T("status_action_error"))
	}
}

func (w *Worker) handle(a Action) error {
	switch a.Kind {
	case KindVolume:
		if w.h.Volume == nil {
			return errNoHandler
		}
		return w.h.Volume.Press(a.Volume)

	case KindMicToggle:
		if w.h.Mic == nil {
			return errNoHandler
		}
		out := w.h.Mic.Toggle(w.ctx)
		w.flash(out.Status())
		return nil

	case kindFlushBrightness:
		return w.flushBrightness()

	case KindStatusFlash:
		w.flash(a.Text)
		return nil

	default:
		return fmt.Errorf("%w: %s", errNoHandler, a.Kind)
	}
}

// flushBrightness ждёт Debounce и применяет накопленную дельту.
// Маркеры, пришедшие позже, застают нулевой аккумулятор и ничего не делают.
func (w *Worker) flushBrightness() error {
	w.mu.Lock()
	empty := w.pending == 0
	w.mu.Unlock()
	if empty {
		return nil
	}

	timer := time.NewTimer(w.opts.Debounce)
	select {
	case <-timer.C:
	case <-w.stopCh:
		timer.Stop()
		return nil
	}

	w.mu.Lock()
	delta := w.pending
	w.pending = 0
	w.mu.Unlock()

	if delta == 0 {
		return nil
	}
	if w.h.Brightness == nil {
		return errNoHandler
	}
	out := w.h.Brightness.Adjust(w.ctx, delta)
	w.flash(out.Status())
	return nil
}

func (w *Worker) flash(text string) {
	if w.h.Notifier != nil && text != "" {
		w.h.Notifier.Flash(text)
	}
}
