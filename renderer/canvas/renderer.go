package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"sync"

	"github.com/rivo/uniseg"
	"github.com/tdewolff/canvas"
	"golang.org/x/image/draw"

	"github.com/ByLCY/screentitle/fontkey"
	"github.com/ByLCY/screentitle/fonts"
	"github.com/ByLCY/screentitle/layout"
	"github.com/ByLCY/screentitle/renderer"
)

// Renderer draws layout results via github.com/tdewolff/canvas and also acts
// as the typesetter and gradient pattern source for the layout stage.
type Renderer struct {
	assetsDir string

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry

	patternMu sync.Mutex
	scaled    map[string]*image.RGBA
}

var (
	_ renderer.Renderer    = (*Renderer)(nil)
	_ layout.Typesetter    = (*Renderer)(nil)
	_ layout.PatternSource = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
	source fonts.Source
}

// NewRenderer creates a renderer that resolves fonts and gradients under assetsDir.
// assetsDir may be empty: fonts then come from the embedded set and gradients are unavailable.
func NewRenderer(assetsDir string) *Renderer {
	return &Renderer{
		assetsDir:    assetsDir,
		fontFamilies: map[string]*fontFamilyEntry{},
		scaled:       map[string]*image.RGBA{},
	}
}

// Probe 加载默认字体，确认引擎可用。
func (r *Renderer) Probe() error {
	if _, err := r.fontFace(fontkey.Default(), 16); err != nil {
		return err
	}
	return nil
}

// Render 在一张透明画布上按顺序执行所有绘制指令。
func (r *Renderer) Render(result *layout.Result) (*image.RGBA, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.Frame.Width <= 0 || result.Frame.Height <= 0 {
		return nil, fmt.Errorf("画面尺寸无效 %dx%d", result.Frame.Width, result.Frame.Height)
	}
	s := newSurface(result.Frame.Width, result.Frame.Height)
	for i, op := range result.Ops {
		if err := r.drawOp(s, op); err != nil {
			return nil, fmt.Errorf("绘制指令 %d (%s/%s): %w", i, op.Kind, op.Layer, err)
		}
	}
	s.flush()
	layout.Logger().Debug("frame rendered",
		slog.Int("width", result.Frame.Width), slog.Int("height", result.Frame.Height),
		slog.Int("ops", len(result.Ops)))
	return s.dst, nil
}

// surface 把连续的纯色指令累积在一张 canvas 上，遇到图案填充或结束时栅格化并合成到 dst。
type surface struct {
	w, h int
	dst  *image.RGBA
	c    *canvas.Canvas
	ctx  *canvas.Context
}

func newSurface(w, h int) *surface {
	return &surface{w: w, h: h, dst: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (s *surface) context() *canvas.Context {
	if s.c == nil {
		s.c = canvas.New(float64(s.w), float64(s.h))
		s.ctx = canvas.NewContext(s.c)
	}
	return s.ctx
}

func (s *surface) flush() {
	if s.c == nil {
		return
	}
	img := rasterize(s.c)
	draw.Draw(s.dst, s.dst.Bounds(), img, image.Point{}, draw.Over)
	s.c, s.ctx = nil, nil
}

// flipY converts a top-down frame y to canvas' bottom-up coordinates.
func (s *surface) flipY(y float64) float64 { return float64(s.h) - y }

func (r *Renderer) drawOp(s *surface, op layout.Op) error {
	switch op.Kind {
	case layout.OpRoundedRect, layout.OpRect:
		if op.W <= 0 || op.H <= 0 {
			return nil
		}
		ctx := s.context()
		ctx.SetFillColor(withAlpha(op.Color, op.Alpha))
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		path := canvas.Rectangle(op.W, op.H)
		if op.Kind == layout.OpRoundedRect && op.Radius > 0 {
			path = canvas.RoundedRectangle(op.W, op.H, op.Radius)
		}
		ctx.DrawPath(op.X, s.flipY(op.Y+op.H), path)
		return nil
	case layout.OpGlyphs:
		return r.drawGlyphs(s, op)
	default:
		return fmt.Errorf("未知的绘制指令 %q", op.Kind)
	}
}

func (r *Renderer) drawGlyphs(s *surface, op layout.Op) error {
	if op.Block == nil {
		return fmt.Errorf("文字指令缺少排版结果")
	}
	face, err := r.fontFace(op.Block.Font, op.Block.FontPx)
	if err != nil {
		return err
	}
	if op.Pattern != nil {
		return r.drawPatternGlyphs(s, face, op)
	}

	ctx := s.context()
	transparent := color.RGBA{0, 0, 0, 0}
	if op.StrokeWidth > 0 {
		ctx.SetFillColor(transparent)
		ctx.SetStrokeColor(withAlpha(op.Color, op.Alpha))
		ctx.SetStrokeWidth(op.StrokeWidth)
		ctx.SetStrokeJoiner(canvas.RoundJoin)
	} else {
		ctx.SetFillColor(withAlpha(op.Color, op.Alpha))
		ctx.SetStrokeColor(transparent)
	}
	return drawBlock(ctx, face, op.Block, op.OriginX, op.OriginY, float64(s.h))
}

// drawPatternGlyphs 用字形遮罩把平铺图案合成到 dst；之前累积的纯色指令先落地以保持顺序。
func (r *Renderer) drawPatternGlyphs(s *surface, face *canvas.FontFace, op layout.Op) error {
	s.flush()
	tile, err := r.tiledPattern(op.Pattern)
	if err != nil {
		// 运行期缩放失败同样回退为纯色。
		layout.Logger().Warn("gradient pattern failed, using solid fill",
			slog.String("key", op.Pattern.Key), slog.Any("err", err))
		solid := op
		solid.Pattern = nil
		return r.drawGlyphs(s, solid)
	}
	mask, err := glyphMask(face, op.Block, op.OriginX, op.OriginY, s.w, s.h)
	if err != nil {
		return err
	}
	draw.DrawMask(s.dst, s.dst.Bounds(), tile, image.Point{}, mask, image.Point{}, draw.Over)
	return nil
}

// glyphMask 把文本块栅格化成与画面等大的 alpha 遮罩。
func glyphMask(face *canvas.FontFace, block *layout.TextBlock, ox, oy float64, w, h int) (*image.RGBA, error) {
	c := canvas.New(float64(w), float64(h))
	ctx := canvas.NewContext(c)
	ctx.SetFillColor(canvas.Black)
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	if err := drawBlock(ctx, face, block, ox, oy, float64(h)); err != nil {
		return nil, err
	}
	return rasterize(c), nil
}

// drawBlock 以 (ox, oy) 为文本块左上角绘制所有行的字形轮廓。canvasH 用于翻转 y 轴。
func drawBlock(ctx *canvas.Context, face *canvas.FontFace, block *layout.TextBlock, ox, oy, canvasH float64) error {
	for _, ln := range block.Lines {
		if strings.TrimSpace(ln.Content) == "" {
			continue
		}
		x := ox + ln.X
		y := canvasH - (oy + ln.Baseline)
		if block.TrackingPx == 0 {
			path, _, err := face.ToPath(ln.Content)
			if err != nil {
				return fmt.Errorf("生成字形轮廓失败: %w", err)
			}
			ctx.DrawPath(x, y, path)
			continue
		}
		// 有字距时逐个字素簇定位。
		gr := uniseg.NewGraphemes(ln.Content)
		for gr.Next() {
			path, adv, err := face.ToPath(gr.Str())
			if err != nil {
				return fmt.Errorf("生成字形轮廓失败: %w", err)
			}
			if !path.Empty() {
				ctx.DrawPath(x, y, path)
			}
			x += adv + block.TrackingPx
		}
	}
	return nil
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(float64(c.A)*alpha + 0.5)
	return c
}
