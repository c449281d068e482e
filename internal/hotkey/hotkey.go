// Package hotkey предоставляет глобальные горячие клавиши.
package hotkey

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"fnfixer/internal/keys"
)

const unregisterTimeout = 500 * time.Millisecond

// source - источник нажатий одной клавиши.
type source interface {
	Keydown() <-chan hotkey.Event
	Keyup() <-chan hotkey.Event
	Unregister() error
}

// openFunc регистрирует клавишу. suppress=false означает, что нажатие
// должно дойти до остальных приложений.
type openFunc func(code hotkey.Key, suppress bool) (source, error)

func open(code hotkey.Key, suppress bool) (source, error) {
	if !suppress {
		return openPassthrough(code)
	}
	return register(code)
}

// register регистрирует клавишу через RegisterHotKey и аналоги.
// Такая клавиша поглощается.
func register(code hotkey.Key) (source, error) {
	hk := hotkey.New(nil, code)
	if err := hk.Register(); err != nil {
		return nil, err
	}
	return hk, nil
}

type binding struct {
	key    keys.Key
	src    source
	stopCh chan struct{}
}

// Option настраивает Service.
type Option func(*Service)

// WithDebounce игнорирует повторные нажатия key чаще, чем раз в d.
// Защищает от автоповтора клавиатуры.
func WithDebounce(key keys.Key, d time.Duration) Option {
	return func(s *Service) {
		s.debounce[key] = d
	}
}

// Service регистрирует горячие клавиши и вызывает обработчики.
// Реализует keys.Binder.
type Service struct {
	mu       sync.Mutex
	next     keys.Handle
	active   map[keys.Handle]*binding
	debounce map[keys.Key]time.Duration
	open     openFunc
	log      *slog.Logger
}

// New создаёт сервис горячих клавиш.
func New(log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		active:   make(map[keys.Handle]*binding),
		debounce: make(map[keys.Key]time.Duration),
		open:     open,
		log:      log.With("component", "hotkey"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bind регистрирует клавишу. fn вызывается в горутине сервиса на каждое
// нажатие. При suppress клавиша не доходит до других приложений.
func (s *Service) Bind(key keys.Key, fn func(), suppress bool) (keys.Handle, error) {
	code, ok := keyMap[key]
	if !ok {
		return 0, fmt.Errorf("unknown key %q", key)
	}

	src, err := s.open(code, suppress)
	if err != nil {
		s.log.Warn("ошибка регистрации", "key", key, "suppress", suppress, "err", err)
		return 0, fmt.Errorf("register %s: %w", key, err)
	}

	b := &binding{key: key, src: src, stopCh: make(chan struct{})}

	s.mu.Lock()
	s.next++
	h := s.next
	s.active[h] = b
	interval := s.debounce[key]
	s.mu.Unlock()

	s.log.Debug("горячая клавиша зарегистрирована", "key", key, "handle", h, "suppress", suppress)
	go s.listen(b, fn, &debouncer{interval: interval})
	return h, nil
}

// Unbind снимает регистрацию. Неизвестный handle игнорируется.
func (s *Service) Unbind(h keys.Handle) error {
	s.mu.Lock()
	b, ok := s.active[h]
	delete(s.active, h)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return s.unregister(b)
}

// Close снимает все регистрации.
func (s *Service) Close() {
	s.mu.Lock()
	bindings := make([]*binding, 0, len(s.active))
	for h, b := range s.active {
		bindings = append(bindings, b)
		delete(s.active, h)
	}
	s.mu.Unlock()

	for _, b := range bindings {
		if err := s.unregister(b); err != nil {
			s.log.Warn("ошибка отмены регистрации", "key", b.key, "err", err)
		}
	}
}

// unregister останавливает listener и отменяет регистрацию с таймаутом.
func (s *Service) unregister(b *binding) error {
	close(b.stopCh)

	done := make(chan error, 1)
	go func() {
		done <- b.src.Unregister()
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("unregister %s: %w", b.key, err)
		}
		return nil
	case <-time.After(unregisterTimeout):
		s.log.Warn("таймаут отмены регистрации", "key", b.key)
		return nil
	}
}

func (s *Service) listen(b *binding, fn func(), d *debouncer) {
	for {
		select {
		case <-b.stopCh:
			return
		case _, ok := <-b.src.Keydown():
			if !ok {
				return
			}
			// после Unbind нажатие уже не наше
			select {
			case <-b.stopCh:
				return
			default:
			}
			if d.allow(time.Now()) {
				fn()
			}
		case _, ok := <-b.src.Keyup():
			if !ok {
				return
			}
		}
	}
}

// debouncer пропускает не больше одного нажатия за interval.
// Нулевой interval пропускает всё.
type debouncer struct {
	interval time.Duration
	last     time.Time
}

func (d *debouncer) allow(now time.Time) bool {
	if d.interval <= 0 {
		return true
	}
	if !d.last.IsZero() && now.Sub(d.last) < d.interval {
		return false
	}
	d.last = now
	return true
}

// RunOnMainThread запускает функцию в главном потоке.
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}
