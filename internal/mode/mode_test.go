package mode

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"fnfixer/internal/keys"
	"fnfixer/internal/worker"
)

// fakeBinder запоминает привязки и проверяет, что handle не снимают дважды.
type fakeBinder struct {
	t      *testing.T
	next   keys.Handle
	active map[keys.Handle]keys.Key
	fns    map[keys.Key]func()
	fail   map[keys.Key]bool
	binds  int
	open   []keys.Key // привязки без подавления
}

func newBinder(t *testing.T) *fakeBinder {
	return &fakeBinder{t: t, active: map[keys.Handle]keys.Key{}, fns: map[keys.Key]func(){}, fail: map[keys.Key]bool{}}
}

func (b *fakeBinder) Bind(key keys.Key, fn func(), suppress bool) (keys.Handle, error) {
	if !suppress {
		b.open = append(b.open, key)
	}
	if b.fail[key] {
		return 0, errors.New("already registered")
	}
	for _, k := range b.active {
		if k == key {
			b.t.Fatalf("key %s bound twice", key)
		}
	}
	b.next++
	b.binds++
	b.active[b.next] = key
	b.fns[key] = fn
	return b.next, nil
}

func (b *fakeBinder) Unbind(h keys.Handle) error {
	key, ok := b.active[h]
	if !ok {
		return nil
	}
	delete(b.active, h)
	delete(b.fns, key)
	return nil
}

func (b *fakeBinder) press(key keys.Key) {
	if fn := b.fns[key]; fn != nil {
		fn()
	}
}

type fakeQueue struct{ actions []worker.Action }

func (q *fakeQueue) Enqueue(a worker.Action) { q.actions = append(q.actions, a) }

type fakeNotifier struct {
	statuses []string
	icons    []Mode
}

func (n *fakeNotifier) SetStatus(text string) { n.statuses = append(n.statuses, text) }
func (n *fakeNotifier) SetIconState(m Mode)   { n.icons = append(n.icons, m) }

func setup(t *testing.T) (*Machine, *fakeBinder, *fakeQueue, *fakeNotifier) {
	b := newBinder(t)
	q := &fakeQueue{}
	n := &fakeNotifier{}
	return New(b, q, n, DefaultBindings(10), nil), b, q, n
}

func TestToggleAlternates(t *testing.T) {
	m, b, _, n := setup(t)
	m.Start()
	if m.Mode() != Normal {
		t.Fatalf("initial mode = %s", m.Mode())
	}

	want := []Mode{Augmented, Normal, Augmented, Normal}
	for i, w := range want {
		if got := m.Toggle(); got != w {
			t.Fatalf("toggle %d = %s, want %s", i, got, w)
		}
		bound := len(b.active)
		if w == Augmented && bound != 6 {
			t.Fatalf("augmented with %d bindings", bound)
		}
		if w == Normal && bound != 0 {
			t.Fatalf("normal with %d bindings", bound)
		}
	}

	if !reflect.DeepEqual(n.icons, append([]Mode{Normal}, want...)) {
		t.Fatalf("icon states = %v", n.icons)
	}
	if n.statuses[1] != Augmented.Label() || n.statuses[2] != Normal.Label() {
		t.Fatalf("statuses = %v", n.statuses)
	}
}

func TestToggleFlashes(t *testing.T) {
	m, _, q, _ := setup(t)
	m.Toggle()
	if len(q.actions) != 1 || q.actions[0] != worker.StatusFlash("Toggled") {
		t.Fatalf("queue = %+v, want a single Toggled flash", q.actions)
	}
}

func TestCallbacksOnlyEnqueue(t *testing.T) {
	m, b, q, _ := setup(t)
	m.Toggle()
	q.actions = nil

	for _, k := range []keys.Key{keys.KeyF1, keys.KeyF2, keys.KeyF3, keys.KeyF4, keys.KeyF5, keys.KeyF6} {
		b.press(k)
	}
	if len(b.open) != 0 {
		t.Fatalf("keys %v bound without suppression", b.open)
	}
	want := []worker.Action{
		worker.Volume("mute"),
		worker.Volume("down"),
		worker.Volume("up"),
		worker.MicToggle(),
		worker.BrightnessDelta(-10),
		worker.BrightnessDelta(10),
	}
	if !reflect.DeepEqual(q.actions, want) {
		t.Fatalf("enqueued %+v, want %+v", q.actions, want)
	}
}

func TestPartialBindFailure(t *testing.T) {
	m, b, q, _ := setup(t)
	b.fail[keys.KeyF4] = true

	if got := m.Toggle(); got != Augmented {
		t.Fatalf("mode = %s, want augmented despite bind failure", got)
	}
	if len(b.active) != 5 {
		t.Fatalf("bound %d keys, want 5", len(b.active))
	}
	if q.actions[0] != worker.StatusFlash(fmt.Sprintf("Key %s unavailable", "F4")) {
		t.Fatalf("queue = %+v", q.actions)
	}

	m.Toggle()
	if len(b.active) != 0 {
		t.Fatalf("%d bindings left in normal mode", len(b.active))
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	m, b, _, _ := setup(t)
	m.Toggle()

	m.Close()
	m.Close()
	if len(b.active) != 0 {
		t.Fatalf("%d bindings left after Close", len(b.active))
	}

	// Close в обычном режиме тоже ничего не ломает.
	m2, b2, _, _ := setup(t)
	m2.Close()
	if b2.binds != 0 || len(b2.active) != 0 {
		t.Fatal("Close in normal mode touched bindings")
	}
}

func TestLabel(t *testing.T) {
	m, _, _, _ := setup(t)
	if m.Label() != "Mode: Normal (F1–F6)" {
		t.Fatalf("label = %q", m.Label())
	}
	m.Toggle()
	if m.Label() != Augmented.Label() {
		t.Fatalf("label = %q", m.Label())
	}
}
