//go:build windows

package device

import (
	"context"
	"fmt"

	"github.com/lxn/win"
)

const appCommandMicrophoneVolumeMute = 24 << 16

// AppCommand шлёт WM_APPCOMMAND активному окну. Окно само решает, что
// делать с командой, поэтому итог не проверяется.
type AppCommand struct{}

// NewAppCommand создаёт отправителя системных команд.
func NewAppCommand() *AppCommand { return &AppCommand{} }

// SendCommand отправляет команду. SendMessage блокируется на зависшем окне,
// поэтому ожидание ограничено контекстом.
func (AppCommand) SendCommand(ctx context.Context, cmd Command) error {
	var lParam uintptr
	switch cmd {
	case CmdMicMuteToggle:
		lParam = appCommandMicrophoneVolumeMute
	default:
		return fmt.Errorf("%w: command %s", ErrBackendUnavailable, cmd)
	}

	hwnd := win.GetForegroundWindow()
	if hwnd == 0 {
		return fmt.Errorf("%w: no foreground window", ErrNoTargets)
	}

	done := make(chan struct{})
	go func() {
		win.SendMessage(hwnd, win.WM_APPCOMMAND, 0, lParam)
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: WM_APPCOMMAND %s", ErrTimeout, cmd)
	}
}
