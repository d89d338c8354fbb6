package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/ByLCY/screentitle/layout"
	"github.com/ByLCY/screentitle/preset"
)

// GradientDir is the asset sub-directory holding gradient fill images.
const GradientDir = "font_gradients"

// LoadPattern 实现 layout.PatternSource：从 <assets>/font_gradients/<key> 读取并解码图案。
func (r *Renderer) LoadPattern(key string) (image.Image, error) {
	if !preset.SafeAssetName(key) {
		return nil, fmt.Errorf("渐变图案名 %q 不安全", key)
	}
	if r.assetsDir == "" {
		return nil, fmt.Errorf("未指定资源目录，无法加载渐变图案 %s", key)
	}
	path := filepath.Join(r.assetsDir, GradientDir, key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("读取渐变图案 %s 失败: %w", key, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("渐变图案 %s 不是普通文件", key)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取渐变图案 %s 失败: %w", key, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码渐变图案 %s 失败: %w", key, err)
	}
	return img, nil
}

// tiledPattern 将图案双线性缩放到 W×H（按 key 与尺寸缓存），并以 (OffsetX, OffsetY) 为原点平铺。
func (r *Renderer) tiledPattern(p *layout.Pattern) (*tiled, error) {
	if p.Image == nil || p.W <= 0 || p.H <= 0 {
		return nil, fmt.Errorf("渐变图案 %s 无效", p.Key)
	}
	cacheKey := fmt.Sprintf("%s|%dx%d", p.Key, p.W, p.H)
	r.patternMu.Lock()
	defer r.patternMu.Unlock()
	scaled, ok := r.scaled[cacheKey]
	if !ok {
		scaled = image.NewRGBA(image.Rect(0, 0, p.W, p.H))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), p.Image, p.Image.Bounds(), draw.Src, nil)
		r.scaled[cacheKey] = scaled
	}
	return &tiled{
		src: scaled,
		ox:  int(math.Round(p.OffsetX)),
		oy:  int(math.Round(p.OffsetY)),
	}, nil
}

// tiled is an unbounded image repeating src with its origin at (ox, oy).
type tiled struct {
	src    *image.RGBA
	ox, oy int
}

func (t *tiled) ColorModel() color.Model { return color.RGBAModel }

func (t *tiled) Bounds() image.Rectangle {
	return image.Rectangle{Min: image.Point{X: -1e9, Y: -1e9}, Max: image.Point{X: 1e9, Y: 1e9}}
}

func (t *tiled) At(x, y int) color.Color {
	b := t.src.Bounds()
	return t.src.RGBAAt(mod(x-t.ox, b.Dx()), mod(y-t.oy, b.Dy()))
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
