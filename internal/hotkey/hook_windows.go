//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.design/x/hotkey"
	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL  = 13
	llkhfInjected = 0x10
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
)

type kbdllHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

// llHook - общий WH_KEYBOARD_LL хук для привязок без подавления.
// Хук только наблюдает: каждое событие уходит дальше через CallNextHookEx,
// поэтому клавиша (например Num Lock со своим индикатором) работает как обычно.
type llHook struct {
	mu       sync.Mutex
	targets  map[uint32]chan hotkey.Event
	threadID uint32
	stopped  chan struct{}
}

var (
	llhook = &llHook{targets: make(map[uint32]chan hotkey.Event)}

	// Колбэк создаётся один раз: число колбэков в процессе ограничено.
	llCallback = windows.NewCallback(llProc)
)

func llProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 && (wParam == win.WM_KEYDOWN || wParam == win.WM_SYSKEYDOWN) {
		k := *(**kbdllHookStruct)(unsafe.Pointer(&lParam))
		// свои и чужие синтетические нажатия не считаются
		if k.flags&llkhfInjected == 0 {
			llhook.dispatch(k.vkCode)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return ret
}

// dispatch не блокирует: хук обязан вернуться быстро.
func (h *llHook) dispatch(vk uint32) {
	h.mu.Lock()
	ch := h.targets[vk]
	h.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- hotkey.Event{}:
	default:
	}
}

func (h *llHook) add(vk uint32) (chan hotkey.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.targets[vk]; ok {
		return nil, fmt.Errorf("vk 0x%X already hooked", vk)
	}
	if h.threadID == 0 {
		if err := h.startLocked(); err != nil {
			return nil, err
		}
	}
	ch := make(chan hotkey.Event, 1)
	h.targets[vk] = ch
	return ch, nil
}

func (h *llHook) remove(vk uint32) {
	h.mu.Lock()
	delete(h.targets, vk)
	if len(h.targets) > 0 || h.threadID == 0 {
		h.mu.Unlock()
		return
	}
	tid, stopped := h.threadID, h.stopped
	h.threadID, h.stopped = 0, nil
	h.mu.Unlock()

	procPostThreadMessageW.Call(uintptr(tid), win.WM_QUIT, 0, 0)
	select {
	case <-stopped:
	case <-time.After(unregisterTimeout):
	}
}

// startLocked ставит хук на отдельном потоке ОС с циклом сообщений.
func (h *llHook) startLocked() error {
	type started struct {
		tid uint32
		err error
	}
	res := make(chan started, 1)
	stopped := make(chan struct{})

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(stopped)

		hhk, _, callErr := procSetWindowsHookExW.Call(whKeyboardLL, llCallback, 0, 0)
		if hhk == 0 {
			res <- started{err: fmt.Errorf("SetWindowsHookExW: %v", callErr)}
			return
		}
		defer procUnhookWindowsHookEx.Call(hhk)

		res <- started{tid: windows.GetCurrentThreadId()}

		var msg win.MSG
		for win.GetMessage(&msg, 0, 0, 0) > 0 {
		}
	}()

	r := <-res
	if r.err != nil {
		return r.err
	}
	h.threadID, h.stopped = r.tid, stopped
	return nil
}

// hookSource - клавиша, которую наблюдает llHook.
type hookSource struct {
	vk      uint32
	keydown chan hotkey.Event
}

func (s *hookSource) Keydown() <-chan hotkey.Event { return s.keydown }

// Keyup не нужен: отпускание клавиши не отслеживается.
func (s *hookSource) Keyup() <-chan hotkey.Event { return nil }

func (s *hookSource) Unregister() error {
	llhook.remove(s.vk)
	return nil
}

// openPassthrough наблюдает клавишу, не поглощая её.
func openPassthrough(code hotkey.Key) (source, error) {
	vk := uint32(code)
	ch, err := llhook.add(vk)
	if err != nil {
		return nil, err
	}
	return &hookSource{vk: vk, keydown: ch}, nil
}
