package device

import "time"

// Platform собирает адаптеры текущей ОС.
type Platform struct {
	Displays DisplayLister
	Backends []Backend
	Mic      MicEndpoints
	Fallback CommandSender
	Keys     KeySender

	closers []func()
}

// Options настраивает адаптеры.
type Options struct {
	// CommandTimeout ограничивает внешние процессы и отправку команд окнам.
	CommandTimeout time.Duration
}

// Close освобождает ресурсы адаптеров.
func (p *Platform) Close() {
	for _, c := range p.closers {
		c()
	}
	p.closers = nil
}
