package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/screentitle/fontkey"
	"github.com/ByLCY/screentitle/preset"
)

const minTextBoundPx = 10.0

// ComputeMetrics 计算字号、内边距、描边余量与阴影位移（像素）。
func ComputeMetrics(frame Frame, s preset.Style) Metrics {
	fontPx := s.FontPx(frame.Height)
	m := Metrics{
		FontPx:         fontPx,
		OutlineWidthPx: s.OutlineWidthPx(fontPx),
		ShadowDX:       s.ShadowOffsetPx,
		ShadowDY:       s.ShadowOffsetPx,
		Blur:           s.ShadowBlurPx,
		TrackingPx:     fontPx * s.TrackingPct / 100,
		LineSpacingPx:  fontPx * s.LineSpacingPct / 100,
	}
	// 只有带背景的样式才留内边距。
	if s.Variant.HasBackground() {
		m.PadX = clamp(fontPx*0.45, 8, 40)
		m.PadY = clamp(fontPx*0.30, 6, 28)
	}
	m.StrokePad = math.Max(1.5, m.OutlineWidthPx*1.5)
	return m
}

// TextBounds 返回排版可用的最大宽高：先从区域宽度扣除盒子余量，
// legacy inset 区域再额外受 frame.width×maxWidthPct 限制。
func TextBounds(frame Frame, s preset.Style, kind preset.RegionKind, region Rect, m Metrics) (float64, float64) {
	w := region.W - m.ReserveX()
	if kind == preset.RegionLegacyInset {
		w = math.Min(w, PctOf(float64(frame.Width), s.MaxWidthPct))
	}
	w = math.Max(minTextBoundPx, w)
	h := math.Max(minTextBoundPx, region.H-m.ReserveY())
	return w, h
}

// Measurement 是 Measure 的结果，可以直接交给 Place。Kind 是实际生效的区域方案（placement 可能退回到四边）。
type Measurement struct {
	Region  Rect
	Kind    preset.RegionKind
	Metrics Metrics
	Block   *TextBlock
	Content MeasuredContent
	// W/H/X0/Y0 are the box size and its origin in content-local coordinates.
	W, H   float64
	X0, Y0 float64
}

// Measure 调用排版后端测量文本，并得出盒子尺寸。它没有绘制副作用，预排版与正式排版共用。
func Measure(frame Frame, s preset.Style, text string, ts Typesetter) (Measurement, error) {
	if ts == nil {
		return Measurement{}, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	region, kind := ResolveRegionKind(frame, s)
	m := ComputeMetrics(frame, s)
	maxW, maxH := TextBounds(frame, s, kind, region, m)

	block, err := ts.Typeset(TextRequest{
		Text:          strings.ReplaceAll(text, "\r\n", "\n"),
		Font:          fontkey.Resolve(s.FontKey),
		FontPx:        m.FontPx,
		MaxWidth:      maxW,
		MaxHeight:     maxH,
		TrackingPx:    m.TrackingPx,
		LineSpacingPx: m.LineSpacingPx,
		Align:         s.Alignment,
	})
	if err != nil {
		return Measurement{}, fmt.Errorf("layout: 排版失败: %w", err)
	}
	if block == nil {
		return Measurement{}, fmt.Errorf("layout: 排版后端返回空结果")
	}
	mc := MeasuredContent{Ink: block.Ink, Logical: block.Logical}
	content := mc.Content()

	return Measurement{
		Region:  region,
		Kind:    kind,
		Metrics: m,
		Block:   block,
		Content: mc,
		W:       content.W + m.ReserveX(),
		H:       content.H + m.ReserveY(),
		X0:      content.X - m.PadX - m.StrokePad - m.Blur - math.Max(0, -m.ShadowDX),
		Y0:      content.Y - m.PadY - m.StrokePad - m.Blur - math.Max(0, -m.ShadowDY),
	}, nil
}
