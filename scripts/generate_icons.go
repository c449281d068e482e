//go:build ignore

// Скрипт для генерации иконок трея в файлы (для установщика и README).
// Запуск: go run scripts/generate_icons.go [dir]
package main

import (
	"log"
	"os"
	"path/filepath"

	"fnfixer/internal/icon"
)

func main() {
	dir := "assets"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Не удалось создать директорию %s: %v", dir, err)
	}

	icons := []struct {
		name string
		text string
	}{
		{"icon_normal", "FN"},
		{"icon_augmented", "AU"},
	}

	for _, ic := range icons {
		data, err := icon.PNG(ic.text)
		if err != nil {
			log.Fatalf("Ошибка генерации %s: %v", ic.name, err)
		}
		write(filepath.Join(dir, ic.name+".png"), data)
		write(filepath.Join(dir, ic.name+".ico"), icon.ICO(data, icon.Size))
	}
}

func write(path string, data []byte) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Fatalf("Ошибка записи %s: %v", path, err)
	}
	log.Printf("Создан: %s", path)
}
