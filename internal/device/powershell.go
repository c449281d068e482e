package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	psGetBrightness = "(Get-CimInstance -Namespace root/WMI -ClassName WmiMonitorBrightness | Select -First 1).CurrentBrightness"
	psSetBrightness = "$v=%d; Get-CimInstance -Namespace root/WMI -ClassName WmiMonitorBrightnessMethods " +
		"| Invoke-CimMethod -MethodName WmiSetBrightness -Arguments @{Timeout=1; Brightness=$v} | Out-Null"
)

// DefaultCommandTimeout ограничивает внешний процесс, если таймаут не задан.
const DefaultCommandTimeout = 5 * time.Second

// scriptRunner выполняет скрипт PowerShell и возвращает stdout.
type scriptRunner func(ctx context.Context, script string) (string, error)

// PowerShell - последний бэкенд каскада: CIM-вызовы через отдельный процесс.
// Медленный, но работает там, где COM из процесса недоступен.
type PowerShell struct {
	timeout time.Duration
	run     scriptRunner
}

// NewPowerShell создаёт бэкенд с жёстким таймаутом на каждый вызов.
func NewPowerShell(timeout time.Duration) *PowerShell {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &PowerShell{timeout: timeout, run: runPowerShell}
}

// ID возвращает идентификатор бэкенда.
func (p *PowerShell) ID() BackendID { return BackendPowerShell }

// Targets игнорирует перечисление: скрипт работает с первой панелью,
// которую отдаёт WmiMonitorBrightness.
func (p *PowerShell) Targets(context.Context, []Display) ([]Display, error) {
	return []Display{{ID: "primary", Name: "WmiMonitorBrightness"}}, nil
}

// Get читает текущую яркость.
func (p *PowerShell) Get(ctx context.Context, _ Display) (int, error) {
	out, err := p.exec(ctx, psGetBrightness)
	if err != nil {
		return 0, err
	}
	v, ok := lastInt(out)
	if !ok {
		return 0, fmt.Errorf("%w: no brightness in output %q", ErrBackendUnavailable, strings.TrimSpace(out))
	}
	return Clamp(v), nil
}

// Set записывает яркость.
func (p *PowerShell) Set(ctx context.Context, _ Display, value int) (Reading, error) {
	value = Clamp(value)
	if _, err := p.exec(ctx, fmt.Sprintf(psSetBrightness, value)); err != nil {
		if errors.Is(err, ErrTimeout) {
			return Reading{}, err
		}
		return Reading{}, fmt.Errorf("%w: %v", ErrDeviceRejected, err)
	}
	return Reading{Value: value, Known: true}, nil
}

func (p *PowerShell) exec(ctx context.Context, script string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.run(ctx, script)
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w: powershell after %s", ErrTimeout, p.timeout)
	}
	if err != nil {
		return "", fmt.Errorf("%w: powershell: %v", ErrBackendUnavailable, err)
	}
	return out, nil
}

func runPowerShell(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-Command", script)
	hideWindow(cmd)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// lastInt возвращает последнее целое число в выводе.
func lastInt(out string) (int, bool) {
	fields := strings.Fields(out)
	for i := len(fields) - 1; i >= 0; i-- {
		if v, err := strconv.Atoi(fields[i]); err == nil {
			return v, true
		}
	}
	return 0, false
}
