package render

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/geom"
	"github.com/dacebt/gh-brickbreak/internal/sim"
)

// testLayout is a one-cell playfield for snapshot-level drawing tests.
func testLayout() geom.Layout {
	return geom.Layout{
		Cols: 1, Rows: 1,
		CellSize: 14, CellSpacing: 3,
		MarginTop: 50, MarginBottom: 120,
		MarginLeft: 50, MarginRight: 50,
	}
}

// offscreen is a minimal snapshot whose ball and paddle are outside the
// frame, leaving only background and grid visible.
func offscreen() sim.Snapshot {
	return sim.Snapshot{
		Ball:   sim.BallView{X: -100, Y: -100, Radius: 4},
		Paddle: sim.PaddleView{X: -100, Y: -100, Width: 60, Height: 10},
	}
}

func TestNewRejectsBadTheme(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Ball = "yellow"
	if _, err := New(cfg, testLayout(), ""); err == nil {
		t.Fatal("expected error for unparseable theme color, got nil")
	}
}

func TestFrameDrawsAllLayers(t *testing.T) {
	grid, err := sim.NewGrid([][]sim.Cell{
		{{Level: 1, Count: 2}, {}},
		{{}, {Level: 2, Count: 5}},
	})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	s, err := sim.New(grid, config.Default(), 42)
	if err != nil {
		t.Fatalf("New state: %v", err)
	}
	r, err := New(config.Default(), s.Layout(), "")
	if err != nil {
		t.Fatalf("New renderer: %v", err)
	}

	img := r.Frame(s.Snapshot())

	if got, want := img.Bounds(), image.Rect(0, 0, 134, 204); got != want {
		t.Fatalf("frame bounds = %v, want %v", got, want)
	}

	ball := s.Ball()
	paddle := s.Paddle()
	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"top-left corner is background", 0, 0, color.RGBA{R: 13, G: 17, B: 23, A: 255}},
		{"bottom-right corner is background", 133, 203, color.RGBA{R: 13, G: 17, B: 23, A: 255}},
		{"level 1 brick at (0,0)", 57, 57, color.RGBA{R: 14, G: 68, B: 41, A: 255}},
		{"level 2 brick at (1,1)", 74, 74, color.RGBA{R: 0, G: 109, B: 50, A: 255}},
		{"empty cell (1,0) shows the grid underlay", 74, 57, color.RGBA{R: 22, G: 27, B: 34, A: 255}},
		{"empty cell (0,1) shows the grid underlay", 57, 74, color.RGBA{R: 22, G: 27, B: 34, A: 255}},
		{"ball center", int(ball.X), int(ball.Y), color.RGBA{R: 255, G: 223, B: 0, A: 255}},
		{"paddle center", int(paddle.X), int(paddle.Y + paddle.Height/2), color.RGBA{R: 201, G: 209, B: 217, A: 255}},
		{"paddle corner is rounded off", int(paddle.X - paddle.Width/2), int(paddle.Y), color.RGBA{R: 13, G: 17, B: 23, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.At(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFrameFadesDamagedBricks(t *testing.T) {
	r, err := New(config.Default(), testLayout(), "")
	if err != nil {
		t.Fatalf("New renderer: %v", err)
	}

	snap := offscreen()
	snap.Bricks = []sim.BrickView{{Col: 0, Row: 0, Strength: 1, MaxStrength: 4, Level: 4}}
	img := r.Frame(snap)

	faded := r.theme.BrickColor(4, 1, 4)
	want := r.palette.Convert(faded)
	if got := img.At(57, 57); got != want {
		t.Errorf("damaged brick pixel = %v, want %v", got, want)
	}
	if want == r.theme.LevelColor(4) {
		t.Error("damaged brick renders at full brightness")
	}

	// At full strength the exact base color is in the palette.
	snap.Bricks[0].Strength = 4
	img = r.Frame(snap)
	if got, want := img.At(57, 57), r.theme.LevelColor(4); got != want {
		t.Errorf("full-strength brick pixel = %v, want %v", got, want)
	}
}

func TestFrameExplosionFlash(t *testing.T) {
	r, err := New(config.Default(), testLayout(), "")
	if err != nil {
		t.Fatalf("New renderer: %v", err)
	}

	snap := offscreen()
	snap.Explosions = []sim.ExplosionView{{X: 57, Y: 100, Progress: 0.2, MaxRadius: 15}}
	img := r.Frame(snap)
	if got, want := img.At(57, 100), white; got != want {
		t.Errorf("young explosion center = %v, want white flash %v", got, want)
	}

	// Past the half-life the flash is gone.
	snap.Explosions[0].Progress = 0.6
	img = r.Frame(snap)
	if got, want := img.At(57, 100), r.theme.Background; got != want {
		t.Errorf("old explosion center = %v, want background %v", got, want)
	}
}

func TestFrameWatermark(t *testing.T) {
	countColor := func(img *image.Paletted, c color.RGBA) int {
		n := 0
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if img.At(x, y) == c {
					n++
				}
			}
		}
		return n
	}

	marked, err := New(config.Default(), testLayout(), "brickbreak")
	if err != nil {
		t.Fatalf("New renderer: %v", err)
	}
	img := marked.Frame(offscreen())
	if countColor(img, marked.theme.Watermark) == 0 {
		t.Error("no watermark-colored pixels in a watermarked frame")
	}
	if countColor(img, black) == 0 {
		t.Error("no shadow pixels in a watermarked frame")
	}

	plain, err := New(config.Default(), testLayout(), "")
	if err != nil {
		t.Fatalf("New renderer: %v", err)
	}
	img = plain.Frame(offscreen())
	if n := countColor(img, plain.theme.Watermark); n != 0 {
		t.Errorf("found %d watermark-colored pixels with the watermark disabled", n)
	}
}

func TestEncodeGIFRoundTrip(t *testing.T) {
	p := color.Palette{
		color.RGBA{A: 255},
		color.RGBA{R: 255, A: 255},
	}
	frames := make([]*image.Paletted, 3)
	for i := range frames {
		frames[i] = image.NewPaletted(image.Rect(0, 0, 8, 8), p)
		frames[i].SetColorIndex(i, i, 1)
	}

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, frames, 40); err != nil {
		t.Fatalf("EncodeGIF: %v", err)
	}

	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if got, want := len(decoded.Image), len(frames); got != want {
		t.Fatalf("decoded %d frames, want %d", got, want)
	}
	if decoded.LoopCount != 0 {
		t.Errorf("LoopCount = %d, want 0 (loop forever)", decoded.LoopCount)
	}
	for i, d := range decoded.Delay {
		if d != 2 {
			t.Errorf("frame %d delay = %d, want 2", i, d)
		}
	}
}

func TestEncodeGIFDelays(t *testing.T) {
	tests := []struct {
		fps  int
		want int
	}{
		{10, 10},
		{25, 4},
		{40, 2},
		{50, 2},
		{100, 2}, // Floored at the decoder-safe minimum
	}
	for _, tt := range tests {
		p := color.Palette{color.RGBA{A: 255}}
		frame := image.NewPaletted(image.Rect(0, 0, 4, 4), p)

		var buf bytes.Buffer
		if err := EncodeGIF(&buf, []*image.Paletted{frame}, tt.fps); err != nil {
			t.Fatalf("EncodeGIF(fps=%d): %v", tt.fps, err)
		}
		decoded, err := gif.DecodeAll(&buf)
		if err != nil {
			t.Fatalf("DecodeAll(fps=%d): %v", tt.fps, err)
		}
		if got := decoded.Delay[0]; got != tt.want {
			t.Errorf("fps %d: delay = %d, want %d", tt.fps, got, tt.want)
		}
	}
}

func TestEncodeGIFRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, nil, 40); err == nil {
		t.Error("expected error for zero frames, got nil")
	}

	frame := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.RGBA{A: 255}})
	if err := EncodeGIF(&buf, []*image.Paletted{frame}, 0); err == nil {
		t.Error("expected error for zero fps, got nil")
	}
}
