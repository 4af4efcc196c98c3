package media

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"image-indexer/internal/indexerr"
)

// writeSolidPNG writes a width x height PNG filled with c.
func writeSolidPNG(t *testing.T, path string, width, height int, c color.Color) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{name: "Square downscale", width: 448, height: 448, wantW: 224, wantH: 224},
		{name: "Landscape", width: 640, height: 480, wantW: 224, wantH: 168},
		{name: "Portrait", width: 480, height: 640, wantW: 168, wantH: 224},
		{name: "Exact fit", width: 224, height: 224, wantW: 224, wantH: 224},
		{name: "Small image is scaled up", width: 100, height: 50, wantW: 224, wantH: 112},
		{name: "Extreme aspect keeps one pixel", width: 10000, height: 10, wantW: 224, wantH: 1},
		{name: "Single pixel", width: 1, height: 1, wantW: 224, wantH: 224},
		{name: "Zero width", width: 0, height: 10, wantW: 0, wantH: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitDimensions(tt.width, tt.height, ThumbnailSize)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitDimensions(%d, %d) = %dx%d, want %dx%d",
					tt.width, tt.height, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestProcessSingleImage(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "red.png")
	writeSolidPNG(t, path, 640, 480, color.NRGBA{R: 255, A: 255})

	buf, err := NewThumbnailer().ProcessSingleImage(path)
	if err != nil {
		t.Fatalf("ProcessSingleImage() error: %v", err)
	}

	if buf.Width != 224 || buf.Height != 168 {
		t.Errorf("dimensions = %dx%d, want 224x168", buf.Width, buf.Height)
	}
	if len(buf.Pix) != buf.Width*buf.Height*3 {
		t.Fatalf("len(Pix) = %d, want %d", len(buf.Pix), buf.Width*buf.Height*3)
	}

	for i := 0; i < len(buf.Pix); i += 3 {
		if buf.Pix[i] != 255 || buf.Pix[i+1] != 0 || buf.Pix[i+2] != 0 {
			t.Fatalf("pixel %d = %v, want [255 0 0]", i/3, buf.Pix[i:i+3])
		}
	}
}

func TestProcessSingleImageDropsAlpha(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "translucent.png")
	writeSolidPNG(t, path, 8, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	buf, err := NewThumbnailer().ProcessSingleImage(path)
	if err != nil {
		t.Fatalf("ProcessSingleImage() error: %v", err)
	}

	if len(buf.Pix) != 224*224*3 {
		t.Fatalf("len(Pix) = %d, want %d", len(buf.Pix), 224*224*3)
	}
	if buf.Pix[0] != 10 || buf.Pix[1] != 20 || buf.Pix[2] != 30 {
		t.Errorf("first pixel = %v, want [10 20 30]", buf.Pix[:3])
	}
}

func TestProcessBatchPreservesOrder(t *testing.T) {
	tmpDir := t.TempDir()

	sizes := [][2]int{{640, 480}, {100, 300}, {224, 224}, {50, 50}, {1000, 250}}
	paths := make([]string, len(sizes))
	for i, s := range sizes {
		paths[i] = filepath.Join(tmpDir, fmt.Sprintf("img%d.png", i))
		writeSolidPNG(t, paths[i], s[0], s[1], color.NRGBA{R: uint8(i * 40), A: 255})
	}

	buffers, err := NewThumbnailer().ProcessBatch(paths)
	if err != nil {
		t.Fatalf("ProcessBatch() error: %v", err)
	}
	if len(buffers) != len(paths) {
		t.Fatalf("got %d buffers, want %d", len(buffers), len(paths))
	}

	for i, s := range sizes {
		wantW, wantH := FitDimensions(s[0], s[1], ThumbnailSize)
		if buffers[i].Width != wantW || buffers[i].Height != wantH {
			t.Errorf("buffer %d = %dx%d, want %dx%d", i, buffers[i].Width, buffers[i].Height, wantW, wantH)
		}
		if buffers[i].Pix[0] != uint8(i*40) {
			t.Errorf("buffer %d red = %d, want %d", i, buffers[i].Pix[0], i*40)
		}
	}
}

func TestProcessBatchFailsOnCorruptImage(t *testing.T) {
	tmpDir := t.TempDir()

	good := filepath.Join(tmpDir, "good.png")
	writeSolidPNG(t, good, 32, 32, color.White)

	corrupt := filepath.Join(tmpDir, "corrupt.jpg")
	if err := os.WriteFile(corrupt, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	buffers, err := NewThumbnailer().ProcessBatch([]string{good, corrupt, good})
	if err == nil {
		t.Fatal("Expected batch error, got nil")
	}
	if buffers != nil {
		t.Errorf("Expected no buffers on failure, got %d", len(buffers))
	}
	if !indexerr.IsKind(err, indexerr.KindCodec) {
		t.Errorf("error kind = %q, want %q", indexerr.KindOf(err), indexerr.KindCodec)
	}
}

func TestProcessBatchMissingFile(t *testing.T) {
	_, err := NewThumbnailer().ProcessBatch([]string{filepath.Join(t.TempDir(), "missing.png")})
	if !indexerr.IsKind(err, indexerr.KindIO) {
		t.Errorf("error kind = %q, want %q (%v)", indexerr.KindOf(err), indexerr.KindIO, err)
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	buffers, err := NewThumbnailer().ProcessBatch(nil)
	if err != nil {
		t.Fatalf("ProcessBatch(nil) error: %v", err)
	}
	if len(buffers) != 0 {
		t.Errorf("got %d buffers, want 0", len(buffers))
	}
}

func BenchmarkProcessSingleImage(b *testing.B) {
	path := filepath.Join(b.TempDir(), "bench.png")
	img := image.NewNRGBA(image.Rect(0, 0, 1024, 768))
	f, err := os.Create(path)
	if err != nil {
		b.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		b.Fatal(err)
	}
	f.Close()

	th := NewThumbnailer()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := th.ProcessSingleImage(path); err != nil {
			b.Fatal(err)
		}
	}
}
