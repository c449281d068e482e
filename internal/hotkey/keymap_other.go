//go:build !windows

package hotkey

import (
	"golang.design/x/hotkey"

	"fnfixer/internal/keys"
)

// Num Lock нельзя зарегистрировать через X11 и Carbon без модификатора,
// переключение висит на F12.
var keyMap = map[keys.Key]hotkey.Key{
	keys.KeyF1:      hotkey.KeyF1,
	keys.KeyF2:      hotkey.KeyF2,
	keys.KeyF3:      hotkey.KeyF3,
	keys.KeyF4:      hotkey.KeyF4,
	keys.KeyF5:      hotkey.KeyF5,
	keys.KeyF6:      hotkey.KeyF6,
	keys.KeyNumLock: hotkey.KeyF12,
}
