// Package icon рисует иконки трея с текстом ("FN", "AU") во время работы.
package icon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Size - сторона иконки трея в пикселях.
const Size = 32

// canvas - сторона холста, на котором рисуется текст до масштабирования.
const canvas = 16

var (
	Foreground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Background = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)

// Render рисует text по центру квадрата size x size.
func Render(text string, size int, fg, bg color.Color) *image.RGBA {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}

	w := d.MeasureString(text).Ceil()
	srcW := canvas
	if w+2 > srcW {
		srcW = w + 2
	}
	src := image.NewRGBA(image.Rect(0, 0, srcW, canvas))
	draw.Draw(src, src.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	m := face.Metrics()
	height := m.Height.Ceil()
	d.Dst = src
	d.Src = image.NewUniform(fg)
	d.Dot = fixed.P((srcW-w)/2, (canvas-height)/2+m.Ascent.Ceil())
	d.DrawString(text)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// PNG рисует иконку и кодирует её в PNG.
func PNG(text string) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(text, Size, Foreground, Background)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ICO упаковывает PNG размера size в контейнер ICO с одним изображением.
func ICO(pngData []byte, size int) []byte {
	var buf bytes.Buffer

	// ICONDIR
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})

	// ICONDIRENTRY; 0 означает 256
	dim := uint8(size)
	if size >= 256 {
		dim = 0
	}
	buf.Write([]byte{dim, dim, 0, 0})
	binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
	binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(pngData)), 6 + 16})

	buf.Write(pngData)
	return buf.Bytes()
}
