// Package device содержит адаптеры к системным устройствам: громкость,
// микрофон и яркость дисплеев.
//
// Каждый адаптер возвращает явную ошибку. Ошибки ожидаемы и не фатальны:
// каскад яркости и переключатель микрофона по ним выбирают запасной путь.
package device

import (
	"context"
	"errors"
)

var (
	// ErrBackendUnavailable - бэкенд недоступен или не смог перечислить устройства.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrDeviceRejected - устройство найдено, но отказалось принять значение.
	ErrDeviceRejected = errors.New("device rejected write")
	// ErrTimeout - команда не уложилась в отведённое время.
	ErrTimeout = errors.New("command timed out")
	// ErrNoTargets - не найдено ни одного подходящего устройства.
	ErrNoTargets = errors.New("no target devices")
)

// BackendID идентифицирует способ управления яркостью.
type BackendID string

const (
	BackendWMI        BackendID = "wmi"
	BackendDDCCI      BackendID = "ddcci"
	BackendPowerShell BackendID = "powershell"
)

// Priority - фиксированный порядок перебора бэкендов яркости.
var Priority = []BackendID{BackendWMI, BackendDDCCI, BackendPowerShell}

// InPriority упорядочивает бэкенды по Priority. Бэкенды с ID вне Priority
// и повторы отбрасываются.
func InPriority(backends ...Backend) []Backend {
	byID := make(map[BackendID]Backend, len(backends))
	for _, b := range backends {
		if _, ok := byID[b.ID()]; !ok {
			byID[b.ID()] = b
		}
	}
	out := make([]Backend, 0, len(Priority))
	for _, id := range Priority {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Display описывает дисплей. ID понятен только бэкенду, который его выдал,
// или DisplayLister'у.
type Display struct {
	ID   string
	Name string
}

// Reading - значение яркости, которое бэкенд сообщил после записи.
type Reading struct {
	Value int
	Known bool
}

// Backend управляет яркостью одним способом.
type Backend interface {
	ID() BackendID
	// Get возвращает текущую яркость дисплея в процентах.
	Get(ctx context.Context, d Display) (int, error)
	// Set записывает яркость и, если может, сообщает итоговое значение.
	Set(ctx context.Context, d Display, value int) (Reading, error)
}

// TargetSelector реализуют бэкенды, которые адресуют свои устройства сами
// и не могут работать с дисплеями из общего перечисления.
type TargetSelector interface {
	Targets(ctx context.Context, preferred []Display) ([]Display, error)
}

// DisplayLister перечисляет подключённые дисплеи.
type DisplayLister interface {
	Displays(ctx context.Context) ([]Display, error)
}

// Role - роль устройства записи по умолчанию (значения ERole).
type Role int

const (
	RoleConsole        Role = 0
	RoleCommunications Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleConsole:
		return "console"
	case RoleCommunications:
		return "communications"
	default:
		return "unknown"
	}
}

// MicEndpoint - временный дескриптор регулятора mute устройства записи.
// Release обязателен после использования.
type MicEndpoint interface {
	Muted() (bool, error)
	SetMuted(muted bool) error
	Release()
}

// MicEndpoints находит устройство записи по умолчанию для роли.
type MicEndpoints interface {
	Resolve(ctx context.Context, role Role) (MicEndpoint, error)
}

// Command - системная команда, отправляемая активному окну.
type Command int

const (
	CmdMicMuteToggle Command = iota
)

func (c Command) String() string {
	switch c {
	case CmdMicMuteToggle:
		return "mic-mute-toggle"
	default:
		return "unknown"
	}
}

// CommandSender отправляет системную команду. Результат не проверяется,
// ошибка означает только что сама отправка не удалась.
type CommandSender interface {
	SendCommand(ctx context.Context, cmd Command) error
}

// VolumeCommand - действие мультимедийной клавиши громкости.
type VolumeCommand string

const (
	VolumeMute VolumeCommand = "mute"
	VolumeDown VolumeCommand = "down"
	VolumeUp   VolumeCommand = "up"
)

// KeySender нажимает мультимедийную клавишу громкости.
type KeySender interface {
	Press(cmd VolumeCommand) error
}

// Clamp ограничивает яркость диапазоном [0, 100].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
