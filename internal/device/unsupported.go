package device

// unsupported отвечает ошибкой на любой вызов адаптера.
type unsupported struct {
	err error
}

func (u unsupported) Press(VolumeCommand) error { return u.err }
