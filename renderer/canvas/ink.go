package canvasrenderer

import (
	"image"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/screentitle/layout"
)

// inkExtent 栅格化文本块并扫描非透明像素，得到相对文本块左上角的墨迹范围。
// 四周各留一个字号的余量，容纳超出逻辑范围的笔画。
func (r *Renderer) inkExtent(face *canvas.FontFace, block *layout.TextBlock) (layout.Rect, error) {
	if block.Logical.Empty() {
		return layout.Rect{}, nil
	}
	pad := math.Ceil(block.FontPx)
	w := int(math.Ceil(block.Logical.W + 2*pad))
	h := int(math.Ceil(block.Logical.H + 2*pad))
	mask, err := glyphMask(face, block, pad, pad, w, h)
	if err != nil {
		return layout.Rect{}, err
	}
	b := alphaBounds(mask)
	if b.Empty() {
		return layout.Rect{}, nil
	}
	return layout.Rect{
		X: float64(b.Min.X) - pad,
		Y: float64(b.Min.Y) - pad,
		W: float64(b.Dx()),
		H: float64(b.Dy()),
	}, nil
}

// alphaBounds returns the smallest rectangle holding every pixel with non-zero alpha.
func alphaBounds(img *image.RGBA) image.Rectangle {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[(y-bounds.Min.Y)*img.Stride:]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if row[(x-bounds.Min.X)*4+3] == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX || maxY < minY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// rasterize renders c at one pixel per millimetre.
func rasterize(c *canvas.Canvas) *image.RGBA {
	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
}
