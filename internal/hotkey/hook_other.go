//go:build !windows

package hotkey

import "golang.design/x/hotkey"

// openPassthrough: вне Windows нет наблюдающего хука, клавиша
// регистрируется обычным образом и поглощается.
func openPassthrough(code hotkey.Key) (source, error) {
	return register(code)
}
