package render

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const watermarkInset = 10

// drawWatermark stamps the attribution text in the bottom-right corner,
// shadowed one pixel down-right in black so it stays readable over
// bright bricks.
func (r *Renderer) drawWatermark(img *image.Paletted) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	textW := font.MeasureString(face, r.watermark).Ceil()
	textH := (metrics.Ascent + metrics.Descent).Ceil()

	x := img.Bounds().Max.X - textW - watermarkInset
	top := img.Bounds().Max.Y - textH - watermarkInset
	baseline := top + metrics.Ascent.Ceil()

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(black),
		Face: face,
		Dot:  fixed.P(x+1, baseline+1),
	}
	d.DrawString(r.watermark)

	d.Src = image.NewUniform(r.theme.Watermark)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(r.watermark)
}
