//go:build !windows

package device

import (
	"context"
	"fmt"
	"runtime"
)

var errUnsupportedOS = fmt.Errorf("%w: %s is not supported", ErrBackendUnavailable, runtime.GOOS)

// NewPlatform возвращает адаптеры-заглушки: утилита работает только в Windows.
func NewPlatform(opts Options) (*Platform, error) {
	stub := unsupported{err: errUnsupportedOS}
	return &Platform{
		Displays: stub,
		Backends: []Backend{NewPowerShell(opts.CommandTimeout)},
		Mic:      stub,
		Fallback: stub,
		Keys:     stub,
	}, nil
}

func (u unsupported) Displays(context.Context) ([]Display, error) { return nil, u.err }

func (u unsupported) Resolve(context.Context, Role) (MicEndpoint, error) { return nil, u.err }

func (u unsupported) SendCommand(context.Context, Command) error { return u.err }
