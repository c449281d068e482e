package hotkey

import (
	"errors"
	"sync"
	"testing"
	"time"

	"golang.design/x/hotkey"

	"fnfixer/internal/keys"
)

type fakeSource struct {
	keydown chan hotkey.Event
	keyup   chan hotkey.Event

	mu           sync.Mutex
	unregistered int
}

func newFakeSource() *fakeSource {
	return &fakeSource{keydown: make(chan hotkey.Event), keyup: make(chan hotkey.Event)}
}

func (f *fakeSource) Keydown() <-chan hotkey.Event { return f.keydown }
func (f *fakeSource) Keyup() <-chan hotkey.Event   { return f.keyup }

func (f *fakeSource) Unregister() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered++
	return nil
}

func (f *fakeSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unregistered
}

// opener выдаёт fakeSource на каждую регистрацию и запоминает флаг suppress.
type opener struct {
	mu       sync.Mutex
	sources  []*fakeSource
	suppress []bool
	err      error
}

func (o *opener) open(_ hotkey.Key, suppress bool) (source, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	src := newFakeSource()
	o.sources = append(o.sources, src)
	o.suppress = append(o.suppress, suppress)
	return src, nil
}

func newService(o *opener, opts ...Option) *Service {
	s := New(nil, opts...)
	s.open = o.open
	return s
}

func TestUnbindUnknownHandle(t *testing.T) {
	s := New(nil)
	if err := s.Unbind(42); err != nil {
		t.Fatalf("Unbind(unknown) = %v", err)
	}
	if err := s.Unbind(42); err != nil {
		t.Fatalf("second Unbind(unknown) = %v", err)
	}
}

func TestBindUnknownKey(t *testing.T) {
	o := &opener{}
	s := newService(o)
	if _, err := s.Bind("f13", func() {}, true); err == nil {
		t.Fatal("Bind of an unmapped key succeeded")
	}
	if len(o.sources) != 0 {
		t.Fatal("unmapped key reached the OS")
	}
}

func TestBindPassesSuppress(t *testing.T) {
	o := &opener{}
	s := newService(o)
	defer s.Close()

	if _, err := s.Bind(keys.KeyF1, func() {}, true); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Bind(keys.KeyNumLock, func() {}, false); err != nil {
		t.Fatal(err)
	}
	if len(o.suppress) != 2 || !o.suppress[0] || o.suppress[1] {
		t.Fatalf("suppress flags = %v, want [true false]", o.suppress)
	}
}

func TestBindFailure(t *testing.T) {
	o := &opener{err: errors.New("hotkey already registered")}
	s := newService(o)
	if _, err := s.Bind(keys.KeyF4, func() {}, true); err == nil {
		t.Fatal("Bind succeeded although registration failed")
	}
	if len(s.active) != 0 {
		t.Fatalf("%d active bindings after failure", len(s.active))
	}
}

func TestKeydownCallsHandlerUntilUnbind(t *testing.T) {
	o := &opener{}
	s := newService(o)
	pressed := make(chan struct{}, 4)

	h, err := s.Bind(keys.KeyF5, func() { pressed <- struct{}{} }, true)
	if err != nil {
		t.Fatal(err)
	}
	src := o.sources[0]

	src.keydown <- hotkey.Event{}
	src.keyup <- hotkey.Event{}
	src.keydown <- hotkey.Event{}
	for i := 0; i < 2; i++ {
		select {
		case <-pressed:
		case <-time.After(2 * time.Second):
			t.Fatalf("press %d not delivered", i)
		}
	}

	if err := s.Unbind(h); err != nil {
		t.Fatal(err)
	}
	if err := s.Unbind(h); err != nil {
		t.Fatalf("second Unbind = %v", err)
	}
	if src.count() != 1 {
		t.Fatalf("unregistered %d times, want 1", src.count())
	}
	select {
	case src.keydown <- hotkey.Event{}:
	case <-time.After(50 * time.Millisecond):
	}
	select {
	case <-pressed:
		t.Fatal("handler called after Unbind")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseUnregistersAll(t *testing.T) {
	o := &opener{}
	s := newService(o)
	for _, k := range []keys.Key{keys.KeyF1, keys.KeyF2, keys.KeyF3} {
		if _, err := s.Bind(k, func() {}, true); err != nil {
			t.Fatal(err)
		}
	}

	s.Close()
	s.Close()
	for i, src := range o.sources {
		if src.count() != 1 {
			t.Fatalf("source %d unregistered %d times", i, src.count())
		}
	}
	if len(s.active) != 0 {
		t.Fatalf("%d bindings left after Close", len(s.active))
	}
}

func TestDebouncer(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ms := func(n int) time.Time { return base.Add(time.Duration(n) * time.Millisecond) }

	tests := []struct {
		name     string
		interval time.Duration
		presses  []time.Time
		want     []bool
	}{
		{"off", 0, []time.Time{ms(0), ms(1), ms(2)}, []bool{true, true, true}},
		{"repeat dropped", 300 * time.Millisecond, []time.Time{ms(0), ms(30), ms(299)}, []bool{true, false, false}},
		{"after interval", 300 * time.Millisecond, []time.Time{ms(0), ms(300), ms(450), ms(700)}, []bool{true, true, false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &debouncer{interval: tt.interval}
			for i, at := range tt.presses {
				if got := d.allow(at); got != tt.want[i] {
					t.Fatalf("press %d allow = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestDebounceAppliesToKey(t *testing.T) {
	o := &opener{}
	s := newService(o, WithDebounce(keys.KeyNumLock, time.Hour))
	defer s.Close()
	pressed := make(chan struct{}, 4)

	if _, err := s.Bind(keys.KeyNumLock, func() { pressed <- struct{}{} }, false); err != nil {
		t.Fatal(err)
	}
	src := o.sources[0]
	src.keydown <- hotkey.Event{}
	src.keydown <- hotkey.Event{}
	src.keydown <- hotkey.Event{}

	select {
	case <-pressed:
	case <-time.After(2 * time.Second):
		t.Fatal("first press not delivered")
	}
	select {
	case <-pressed:
		t.Fatal("auto-repeat not filtered")
	case <-time.After(50 * time.Millisecond):
	}
}
