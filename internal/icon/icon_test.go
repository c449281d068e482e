package icon

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"
)

func TestRenderDrawsText(t *testing.T) {
	img := Render("FN", Size, Foreground, Background)
	if b := img.Bounds(); b.Dx() != Size || b.Dy() != Size {
		t.Fatalf("bounds = %v", b)
	}

	fg := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if img.RGBAAt(x, y) == Foreground {
				fg++
			}
		}
	}
	if fg == 0 {
		t.Fatal("no text pixels rendered")
	}
	if fg > Size*Size/2 {
		t.Fatalf("%d foreground pixels, text fills the icon", fg)
	}
}

func TestRenderDiffers(t *testing.T) {
	a, b := Render("FN", Size, Foreground, Background), Render("AU", Size, Foreground, Background)
	if bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("different labels rendered identically")
	}
}

func TestPNGDecodes(t *testing.T) {
	data, err := PNG("AU")
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != Size {
		t.Fatalf("width = %d", img.Bounds().Dx())
	}
}

func TestICOHeader(t *testing.T) {
	payload := []byte("\x89PNG fake")
	ico := ICO(payload, 32)

	if len(ico) != 6+16+len(payload) {
		t.Fatalf("len = %d", len(ico))
	}
	if typ := binary.LittleEndian.Uint16(ico[2:]); typ != 1 {
		t.Fatalf("type = %d, want 1 (icon)", typ)
	}
	if n := binary.LittleEndian.Uint16(ico[4:]); n != 1 {
		t.Fatalf("count = %d", n)
	}
	if ico[6] != 32 || ico[7] != 32 {
		t.Fatalf("dimensions = %dx%d", ico[6], ico[7])
	}
	if size := binary.LittleEndian.Uint32(ico[14:]); int(size) != len(payload) {
		t.Fatalf("size = %d", size)
	}
	if off := binary.LittleEndian.Uint32(ico[18:]); off != 22 {
		t.Fatalf("offset = %d", off)
	}
	if !bytes.Equal(ico[22:], payload) {
		t.Fatal("payload not appended")
	}
	if big := ICO(payload, 256); big[6] != 0 {
		t.Fatalf("256px dimension byte = %d, want 0", big[6])
	}
}
