package render

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
)

// EncodeGIF writes the frames as a looping animated GIF. The per-frame
// delay is 100/fps in GIF centisecond units, floored at 2 because most
// decoders clamp anything shorter.
func EncodeGIF(w io.Writer, frames []*image.Paletted, fps int) error {
	if len(frames) == 0 {
		return errors.New("render: no frames to encode")
	}
	if fps <= 0 {
		return fmt.Errorf("render: fps must be positive, got %d", fps)
	}

	delay := 100 / fps
	if delay < 2 {
		delay = 2
	}

	g := &gif.GIF{
		Image:     frames,
		Delay:     make([]int, len(frames)),
		LoopCount: 0, // Loop forever
	}
	for i := range g.Delay {
		g.Delay[i] = delay
	}

	if err := gif.EncodeAll(w, g); err != nil {
		return fmt.Errorf("render: cannot encode gif: %w", err)
	}
	return nil
}
