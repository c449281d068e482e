//go:build windows

package device

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

const (
	wmiNamespace = `root\WMI`

	sFalse           = 0x00000001
	rpcEChangedMode  = 0x80010106
	wmiSetTimeoutSec = 1
)

// withCOM выполняет fn на закреплённом потоке с инициализированным COM.
func withCOM(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	uninit, err := comInit()
	if err != nil {
		return err
	}
	if uninit {
		defer ole.CoUninitialize()
	}
	return fn()
}

// comInit инициализирует COM на текущем потоке. Возвращает true, если
// вызывающий обязан вызвать CoUninitialize.
func comInit() (bool, error) {
	err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED)
	if err == nil {
		return true, nil
	}
	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		switch oleErr.Code() {
		case sFalse:
			return true, nil
		case rpcEChangedMode:
			// поток уже в STA, COM пригоден
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: CoInitializeEx: %v", ErrBackendUnavailable, err)
}

// wmiQuery выполняет WQL-запрос в root\WMI и вызывает fn для каждого объекта.
func wmiQuery(query string, fn func(item *ole.IDispatch) error) error {
	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return fmt.Errorf("%w: SWbemLocator: %v", ErrBackendUnavailable, err)
	}
	defer unknown.Release()

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("%w: SWbemLocator dispatch: %v", ErrBackendUnavailable, err)
	}
	defer locator.Release()

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer", nil, wmiNamespace)
	if err != nil {
		return fmt.Errorf("%w: ConnectServer: %v", ErrBackendUnavailable, err)
	}
	defer serviceRaw.Clear()
	service := serviceRaw.ToIDispatch()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", query)
	if err != nil {
		return fmt.Errorf("%w: ExecQuery: %v", ErrBackendUnavailable, err)
	}
	defer resultRaw.Clear()

	return oleutil.ForEach(resultRaw.ToIDispatch(), func(v *ole.VARIANT) error {
		defer v.Clear()
		return fn(v.ToIDispatch())
	})
}

func wmiString(item *ole.IDispatch, name string) (string, error) {
	v, err := oleutil.GetProperty(item, name)
	if err != nil {
		return "", err
	}
	defer v.Clear()
	return v.ToString(), nil
}

func wmiInt(item *ole.IDispatch, name string) (int64, error) {
	v, err := oleutil.GetProperty(item, name)
	if err != nil {
		return 0, err
	}
	defer v.Clear()
	n, ok := variantInt(v.Value())
	if !ok {
		return 0, fmt.Errorf("property %s: unexpected type %T", name, v.Value())
	}
	return n, nil
}

func variantInt(val interface{}) (int64, bool) {
	switch n := val.(type) {
	case uint8:
		return int64(n), true
	case int8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case int16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// wqlQuote экранирует строку для WQL.
func wqlQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// WMI управляет яркостью встроенных панелей через WmiMonitorBrightness.
type WMI struct{}

// NewWMI создаёт WMI-бэкенд.
func NewWMI() *WMI { return &WMI{} }

// ID возвращает идентификатор бэкенда.
func (w *WMI) ID() BackendID { return BackendWMI }

// Get читает CurrentBrightness для экземпляра дисплея.
func (w *WMI) Get(ctx context.Context, d Display) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	value := -1
	err := withCOM(func() error {
		q := "SELECT CurrentBrightness FROM WmiMonitorBrightness WHERE InstanceName=" + wqlQuote(d.ID)
		return wmiQuery(q, func(item *ole.IDispatch) error {
			n, err := wmiInt(item, "CurrentBrightness")
			if err != nil {
				return err
			}
			value = int(n)
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: %s has no WmiMonitorBrightness", ErrBackendUnavailable, d.ID)
	}
	return Clamp(value), nil
}

// Set вызывает WmiSetBrightness.
func (w *WMI) Set(ctx context.Context, d Display, value int) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	value = Clamp(value)
	applied := false
	err := withCOM(func() error {
		q := "SELECT * FROM WmiMonitorBrightnessMethods WHERE InstanceName=" + wqlQuote(d.ID)
		return wmiQuery(q, func(item *ole.IDispatch) error {
			res, err := oleutil.CallMethod(item, "WmiSetBrightness", uint32(wmiSetTimeoutSec), uint8(value))
			if err != nil {
				return fmt.Errorf("%w: WmiSetBrightness: %v", ErrDeviceRejected, err)
			}
			res.Clear()
			applied = true
			return nil
		})
	})
	if err != nil {
		return Reading{}, err
	}
	if !applied {
		return Reading{}, fmt.Errorf("%w: %s has no WmiMonitorBrightnessMethods", ErrBackendUnavailable, d.ID)
	}
	return Reading{Value: value, Known: true}, nil
}

// WMIDisplays перечисляет дисплеи через WmiMonitorID и дописывает к имени
// тип подключения из WmiMonitorConnectionParams.
type WMIDisplays struct{}

// Displays возвращает дисплеи в порядке перечисления WMI.
func (WMIDisplays) Displays(ctx context.Context) ([]Display, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var displays []Display
	err := withCOM(func() error {
		tech := make(map[string]int64)
		// Типы подключения необязательны: без них остаётся только имя.
		_ = wmiQuery("SELECT InstanceName, VideoOutputTechnology FROM WmiMonitorConnectionParams", func(item *ole.IDispatch) error {
			id, err := wmiString(item, "InstanceName")
			if err != nil {
				return nil
			}
			if n, err := wmiInt(item, "VideoOutputTechnology"); err == nil {
				tech[id] = n
			}
			return nil
		})

		return wmiQuery("SELECT InstanceName, UserFriendlyName FROM WmiMonitorID", func(item *ole.IDispatch) error {
			id, err := wmiString(item, "InstanceName")
			if err != nil {
				return err
			}
			name := friendlyName(item)
			if name == "" {
				name = id
			}
			if n, ok := tech[id]; ok {
				if label := outputTechnology(n); label != "" {
					name += " [" + label + "]"
				}
			}
			displays = append(displays, Display{ID: id, Name: name})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return displays, nil
}

// friendlyName декодирует UserFriendlyName (массив UTF-16 кодов).
func friendlyName(item *ole.IDispatch) string {
	v, err := oleutil.GetProperty(item, "UserFriendlyName")
	if err != nil {
		return ""
	}
	defer v.Clear()
	arr := v.ToArray()
	if arr == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range arr.ToValueArray() {
		n, ok := variantInt(c)
		if !ok || n == 0 {
			break
		}
		b.WriteRune(rune(n))
	}
	return strings.TrimSpace(b.String())
}

// outputTechnology переводит D3DKMDT_VIDEO_OUTPUT_TECHNOLOGY в метку.
func outputTechnology(n int64) string {
	switch uint32(n) {
	case 0x80000000:
		return "internal"
	case 6:
		return "LVDS"
	case 11:
		return "eDP"
	case 13:
		return "UDI embedded"
	case 5:
		return "DVI"
	case 4:
		return "HDMI"
	case 10:
		return "DisplayPort"
	default:
		return ""
	}
}
