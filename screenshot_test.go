package bloomfield

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"initial", "initial"},
		{"after drag", "after_drag"},
		{"../etc/passwd", ".._etc_passwd"},
		{"v1.2-final", "v1.2-final"},
		{"  ", "unlabeled"},
		{"", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		128, 64, 0, 128, // half transparent
		10, 20, 30, 255, // opaque: unchanged
		0, 0, 0, 0, // transparent: unchanged
		200, 0, 0, 100, // over-bright channel clamps
	}
	img := unpremultiply(pixels, 2, 2)
	want := []byte{
		255, 127, 0, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
		255, 0, 0, 100,
	}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", img.Pix, want)
		}
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Pix[0], src.Pix[3] = 255, 255
	if err := writePNG(path, src); err != nil {
		t.Fatalf("writePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v", b)
	}
}

func TestWritePNGBadDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "shot.png")
	if err := writePNG(path, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("writePNG into a missing directory succeeded")
	}
}

func TestScreenshotsFlushEmptyQueue(t *testing.T) {
	s := newScreenshots(t.TempDir())
	if paths := s.flush(nil); paths != nil {
		t.Errorf("flush with no labels = %v", paths)
	}
	s.add("a")
	s.add("b")
	if len(s.queue) != 2 {
		t.Errorf("queue = %v", s.queue)
	}
}
