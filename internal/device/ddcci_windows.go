//go:build windows

package device

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dxva2  = windows.NewLazySystemDLL("dxva2.dll")

	procEnumDisplayMonitors                     = user32.NewProc("EnumDisplayMonitors")
	procGetNumberOfPhysicalMonitorsFromHMONITOR = dxva2.NewProc("GetNumberOfPhysicalMonitorsFromHMONITOR")
	procGetPhysicalMonitorsFromHMONITOR         = dxva2.NewProc("GetPhysicalMonitorsFromHMONITOR")
	procDestroyPhysicalMonitors                 = dxva2.NewProc("DestroyPhysicalMonitors")
	procGetMonitorBrightness                    = dxva2.NewProc("GetMonitorBrightness")
	procSetMonitorBrightness                    = dxva2.NewProc("SetMonitorBrightness")
)

type physicalMonitor struct {
	handle      windows.Handle
	description [128]uint16
}

// Колбэк создаётся один раз: число колбэков в процессе ограничено.
var (
	enumMu       sync.Mutex
	enumHandles  []uintptr
	enumCallback = windows.NewCallback(func(hMonitor, hdc, rect, lparam uintptr) uintptr {
		enumHandles = append(enumHandles, hMonitor)
		return 1
	})
)

func displayMonitors() ([]uintptr, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumHandles = nil
	ret, _, err := procEnumDisplayMonitors.Call(0, 0, enumCallback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %w", err)
	}
	out := make([]uintptr, len(enumHandles))
	copy(out, enumHandles)
	return out, nil
}

// DDCCI управляет яркостью внешних мониторов по DDC/CI (dxva2).
// Дисплеи адресуются индексом в последнем перечислении.
type DDCCI struct {
	mu       sync.Mutex
	monitors []physicalMonitor
}

// NewDDCCI создаёт DDC/CI бэкенд.
func NewDDCCI() *DDCCI { return &DDCCI{} }

// ID возвращает идентификатор бэкенда.
func (d *DDCCI) ID() BackendID { return BackendDDCCI }

// Targets перечисляет физические мониторы заново: набор мог измениться.
func (d *DDCCI) Targets(ctx context.Context, _ []Display) ([]Display, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := dxva2.Load(); err != nil {
		return nil, fmt.Errorf("%w: dxva2: %v", ErrBackendUnavailable, err)
	}

	handles, err := displayMonitors()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	var monitors []physicalMonitor
	for _, h := range handles {
		var n uint32
		ret, _, _ := procGetNumberOfPhysicalMonitorsFromHMONITOR.Call(h, uintptr(unsafe.Pointer(&n)))
		if ret == 0 || n == 0 {
			continue
		}
		batch := make([]physicalMonitor, n)
		ret, _, _ = procGetPhysicalMonitorsFromHMONITOR.Call(h, uintptr(n), uintptr(unsafe.Pointer(&batch[0])))
		if ret == 0 {
			continue
		}
		monitors = append(monitors, batch...)
	}

	d.mu.Lock()
	d.destroyLocked()
	d.monitors = monitors
	d.mu.Unlock()

	displays := make([]Display, len(monitors))
	for i, m := range monitors {
		displays[i] = Display{
			ID:   strconv.Itoa(i),
			Name: windows.UTF16ToString(m.description[:]),
		}
	}
	return displays, nil
}

// handleLocked ищет дескриптор по индексу. Вызывается под d.mu.
func (d *DDCCI) handleLocked(disp Display) (windows.Handle, error) {
	i, err := strconv.Atoi(disp.ID)
	if err != nil || i < 0 || i >= len(d.monitors) {
		return 0, fmt.Errorf("%w: unknown monitor %q", ErrBackendUnavailable, disp.ID)
	}
	return d.monitors[i].handle, nil
}

// Get читает яркость и нормирует её к процентам.
// d.mu держится весь вызов, чтобы Close не уничтожил дескриптор посреди него.
func (d *DDCCI) Get(ctx context.Context, disp Display) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, err := d.handleLocked(disp)
	if err != nil {
		return 0, err
	}
	lo, cur, hi, err := monitorBrightness(h)
	if err != nil {
		return 0, err
	}
	return toPercent(cur, lo, hi), nil
}

// Set записывает яркость в процентах.
func (d *DDCCI) Set(ctx context.Context, disp Display, value int) (Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, err := d.handleLocked(disp)
	if err != nil {
		return Reading{}, err
	}
	lo, _, hi, err := monitorBrightness(h)
	if err != nil {
		return Reading{}, err
	}
	raw := percentToRaw(Clamp(value), lo, hi)
	ret, _, callErr := procSetMonitorBrightness.Call(uintptr(h), uintptr(raw))
	if ret == 0 {
		return Reading{}, fmt.Errorf("%w: SetMonitorBrightness: %v", ErrDeviceRejected, callErr)
	}
	// Читаем назад: монитор мог округлить значение.
	if lo, cur, hi, err := monitorBrightness(h); err == nil {
		return Reading{Value: toPercent(cur, lo, hi), Known: true}, nil
	}
	return Reading{}, nil
}

// Close освобождает дескрипторы физических мониторов.
func (d *DDCCI) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyLocked()
}

func (d *DDCCI) destroyLocked() {
	if len(d.monitors) == 0 {
		return
	}
	procDestroyPhysicalMonitors.Call(uintptr(len(d.monitors)), uintptr(unsafe.Pointer(&d.monitors[0])))
	d.monitors = nil
}

func monitorBrightness(h windows.Handle) (lo, cur, hi uint32, err error) {
	ret, _, callErr := procGetMonitorBrightness.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&lo)),
		uintptr(unsafe.Pointer(&cur)),
		uintptr(unsafe.Pointer(&hi)),
	)
	if ret == 0 {
		return 0, 0, 0, fmt.Errorf("%w: GetMonitorBrightness: %v", ErrBackendUnavailable, callErr)
	}
	return lo, cur, hi, nil
}

func percentToRaw(value int, lo, hi uint32) uint32 {
	if hi <= lo {
		return lo
	}
	return lo + uint32(value)*(hi-lo)/100
}

func toPercent(cur, lo, hi uint32) int {
	if hi <= lo {
		return Clamp(int(cur))
	}
	if cur < lo {
		return 0
	}
	return Clamp(int((cur - lo) * 100 / (hi - lo)))
}
