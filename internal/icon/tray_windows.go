//go:build windows

package icon

// ForTray возвращает иконку в формате, который принимает трей: в Windows это ICO.
func ForTray(text string) ([]byte, error) {
	data, err := PNG(text)
	if err != nil {
		return nil, err
	}
	return ICO(data, Size), nil
}
