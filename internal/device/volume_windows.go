//go:build windows

package device

import (
	"fmt"
	"sync"

	"github.com/micmonay/keybd_event"
)

var volumeKeys = map[VolumeCommand]int{
	VolumeMute: keybd_event.VK_VOLUME_MUTE,
	VolumeDown: keybd_event.VK_VOLUME_DOWN,
	VolumeUp:   keybd_event.VK_VOLUME_UP,
}

// MediaKeys нажимает мультимедийные клавиши громкости. Громкость меняет
// сама система, как от клавиатуры.
type MediaKeys struct {
	mu sync.Mutex
	kb keybd_event.KeyBonding
}

// NewMediaKeys создаёт отправитель клавиш.
func NewMediaKeys() (*MediaKeys, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("%w: keybd_event: %v", ErrBackendUnavailable, err)
	}
	return &MediaKeys{kb: kb}, nil
}

// Press нажимает и отпускает клавишу.
func (m *MediaKeys) Press(cmd VolumeCommand) error {
	vk, ok := volumeKeys[cmd]
	if !ok {
		return fmt.Errorf("unknown volume command %q", cmd)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.kb.SetKeys(vk)
	if err := m.kb.Launching(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDeviceRejected, cmd, err)
	}
	return nil
}
