// Package mic переключает mute микрофона по умолчанию.
package mic

import (
	"context"
	"fmt"
	"log/slog"

	"fnfixer/internal/device"
	"fnfixer/internal/i18n"
)

// State - результат переключения.
type State int

const (
	// StateError - не сработал ни endpoint, ни запасная команда.
	StateError State = iota
	StateMuted
	StateUnmuted
	// StateToggled - отправлена системная команда, итог неизвестен.
	StateToggled
)

// Outcome - итог Toggle.
type Outcome struct {
	State State
	Role  device.Role
	// Err - последняя ошибка на пути к результату.
	Err error
}

// Status возвращает строку для индикатора.
func (o Outcome) Status() string {
	switch o.State {
	case StateMuted:
		return i18n.T("status_mic_muted")
	case StateUnmuted:
		return i18n.T("status_mic_unmuted")
	case StateToggled:
		return i18n.T("status_mic_toggled")
	default:
		return i18n.T("status_mic_error")
	}
}

var roles = []device.Role{device.RoleConsole, device.RoleCommunications}

// Toggler переключает микрофон: сначала напрямую через endpoint,
// затем системной командой активному окну.
type Toggler struct {
	endpoints device.MicEndpoints
	fallback  device.CommandSender
	log       *slog.Logger
}

// New создаёт переключатель. Любой из адаптеров может быть nil.
func New(endpoints device.MicEndpoints, fallback device.CommandSender, log *slog.Logger) *Toggler {
	if log == nil {
		log = slog.Default()
	}
	return &Toggler{
		endpoints: endpoints,
		fallback:  fallback,
		log:       log.With("component", "mic"),
	}
}

// Toggle переключает mute. Endpoint ищется заново при каждом вызове.
func (t *Toggler) Toggle(ctx context.Context) Outcome {
	var lastErr error
	if t.endpoints != nil {
		for _, role := range roles {
			ep, err := t.endpoints.Resolve(ctx, role)
			if err != nil {
				t.log.Debug("endpoint не найден", "role", role, "err", err)
				lastErr = err
				continue
			}
			out, err := t.flip(ep, role)
			if err == nil {
				return out
			}
			t.log.Debug("mute не переключён", "role", role, "err", err)
			lastErr = err
			// Endpoint нашёлся, но не отвечает: дальше только системная команда.
			break
		}
	}
	return t.sendFallback(ctx, lastErr)
}

func (t *Toggler) flip(ep device.MicEndpoint, role device.Role) (Outcome, error) {
	defer ep.Release()

	muted, err := ep.Muted()
	if err != nil {
		return Outcome{}, fmt.Errorf("read mute: %w", err)
	}
	if err := ep.SetMuted(!muted); err != nil {
		return Outcome{}, fmt.Errorf("write mute: %w", err)
	}

	out := Outcome{State: StateMuted, Role: role}
	if muted {
		out.State = StateUnmuted
	}
	t.log.Debug("микрофон переключён", "role", role, "muted", !muted)
	return out, nil
}

func (t *Toggler) sendFallback(ctx context.Context, cause error) Outcome {
	if t.fallback == nil {
		return Outcome{State: StateError, Err: cause}
	}
	if err := t.fallback.SendCommand(ctx, device.CmdMicMuteToggle); err != nil {
		t.log.Info("запасная команда микрофона не отправлена", "err", err, "cause", cause)
		return Outcome{State: StateError, Err: err}
	}
	return Outcome{State: StateToggled, Err: cause}
}
