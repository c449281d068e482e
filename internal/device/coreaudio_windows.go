//go:build windows

package device

import (
	"context"
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
)

var (
	clsidMMDeviceEnumerator = ole.NewGUID("{BCDE0395-E52F-467C-8E3D-C4579291692E}")
	iidIMMDeviceEnumerator  = ole.NewGUID("{A95664D2-9614-4F35-A746-DE8DB63617E6}")
	iidIAudioEndpointVolume = ole.NewGUID("{5CDF2C82-841E-4546-9722-0CF74078229A}")
)

const (
	eCapture   = 1
	clsctxAll  = 0x17
	hrNotFound = 0x80070490

	// Индексы методов в vtable.
	vtblGetDefaultAudioEndpoint = 4
	vtblActivate                = 3
	vtblSetMute                 = 14
	vtblGetMute                 = 15
)

// comCall вызывает метод COM-объекта по индексу в vtable.
func comCall(obj *ole.IUnknown, method int, args ...uintptr) error {
	vtbl := *(*uintptr)(unsafe.Pointer(obj))
	fn := *(*uintptr)(unsafe.Pointer(vtbl + uintptr(method)*unsafe.Sizeof(uintptr(0))))
	hr, _, _ := syscall.SyscallN(fn, append([]uintptr{uintptr(unsafe.Pointer(obj))}, args...)...)
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}

// CoreAudio находит устройство записи по умолчанию через IMMDeviceEnumerator.
type CoreAudio struct{}

// NewCoreAudio создаёт резолвер микрофона.
func NewCoreAudio() *CoreAudio { return &CoreAudio{} }

// Resolve закрепляет горутину за потоком до Release: COM-объекты
// endpoint'а живут в апартаменте этого потока.
func (CoreAudio) Resolve(ctx context.Context, role Role) (MicEndpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runtime.LockOSThread()
	uninit, err := comInit()
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	ep := &coreAudioEndpoint{uninit: uninit}

	enumerator, err := ole.CreateInstance(clsidMMDeviceEnumerator, iidIMMDeviceEnumerator)
	if err != nil {
		ep.Release()
		return nil, fmt.Errorf("%w: MMDeviceEnumerator: %v", ErrBackendUnavailable, err)
	}
	defer enumerator.Release()

	var device *ole.IUnknown
	if err := comCall(enumerator, vtblGetDefaultAudioEndpoint, eCapture, uintptr(role), uintptr(unsafe.Pointer(&device))); err != nil {
		ep.Release()
		if oleErr, ok := err.(*ole.OleError); ok && oleErr.Code() == hrNotFound {
			return nil, fmt.Errorf("%w: no capture endpoint for role %s", ErrNoTargets, role)
		}
		return nil, fmt.Errorf("%w: GetDefaultAudioEndpoint(%s): %v", ErrBackendUnavailable, role, err)
	}
	defer device.Release()

	var volume *ole.IUnknown
	if err := comCall(device, vtblActivate, uintptr(unsafe.Pointer(iidIAudioEndpointVolume)), clsctxAll, 0, uintptr(unsafe.Pointer(&volume))); err != nil {
		ep.Release()
		return nil, fmt.Errorf("%w: Activate(IAudioEndpointVolume): %v", ErrBackendUnavailable, err)
	}
	ep.volume = volume
	return ep, nil
}

type coreAudioEndpoint struct {
	volume   *ole.IUnknown
	uninit   bool
	released bool
}

func (e *coreAudioEndpoint) Muted() (bool, error) {
	var muted int32
	if err := comCall(e.volume, vtblGetMute, uintptr(unsafe.Pointer(&muted))); err != nil {
		return false, fmt.Errorf("%w: GetMute: %v", ErrBackendUnavailable, err)
	}
	return muted != 0, nil
}

func (e *coreAudioEndpoint) SetMuted(muted bool) error {
	var v uintptr
	if muted {
		v = 1
	}
	if err := comCall(e.volume, vtblSetMute, v, 0); err != nil {
		return fmt.Errorf("%w: SetMute: %v", ErrDeviceRejected, err)
	}
	return nil
}

func (e *coreAudioEndpoint) Release() {
	if e.released {
		return
	}
	e.released = true
	if e.volume != nil {
		e.volume.Release()
		e.volume = nil
	}
	if e.uninit {
		ole.CoUninitialize()
	}
	runtime.UnlockOSThread()
}
