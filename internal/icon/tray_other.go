//go:build !windows

package icon

// ForTray возвращает иконку в формате, который принимает трей.
func ForTray(text string) ([]byte, error) {
	return PNG(text)
}
