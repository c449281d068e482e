//go:build windows

package device

// NewPlatform создаёт адаптеры Windows. Недоступная клавиатурная эмуляция
// не мешает остальным адаптерам.
func NewPlatform(opts Options) (*Platform, error) {
	ddc := NewDDCCI()
	p := &Platform{
		Displays: WMIDisplays{},
		Backends: InPriority(NewPowerShell(opts.CommandTimeout), ddc, NewWMI()),
		Mic:      NewCoreAudio(),
		Fallback: NewAppCommand(),
		closers:  []func(){ddc.Close},
	}

	keys, err := NewMediaKeys()
	if err != nil {
		p.Keys = unsupported{err: err}
		return p, err
	}
	p.Keys = keys
	return p, nil
}
