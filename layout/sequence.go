package layout

import (
	"math"

	"github.com/ByLCY/screentitle/preset"
)

// PillRadius 是圆角半径：clamp(fontPx×0.45, 6, 22)，且不超过盒子短边的一半。
func PillRadius(fontPx, w, h float64) float64 {
	r := clamp(fontPx*0.45, 6, 22)
	return math.Max(0, math.Min(r, math.Min(w, h)/2))
}

// Sequence 生成单个实例的有序绘制指令：背景 → 阴影采样 → 描边 → 填充。
// pattern 为 nil 时使用纯色填充。
func Sequence(frame Frame, p *InstancePlan, pattern *Pattern) []Op {
	s := p.Style
	m := p.Metrics
	b := p.Box
	ox, oy := b.Origin()
	ops := make([]Op, 0, 20)

	switch s.Variant {
	case preset.VariantPill:
		if a := s.PillBgOpacity(); a > 0 {
			ops = append(ops, Op{
				Kind:     OpRoundedRect,
				Layer:    LayerBackground,
				Instance: p.Index,
				X:        b.X,
				Y:        b.Y,
				W:        b.W,
				H:        b.H,
				Radius:   PillRadius(m.FontPx, b.W, b.H),
				Color:    s.PillBgColor,
				Alpha:    a,
			})
		}
	case preset.VariantStrip:
		// strip 横跨整个区域宽度，纵向与盒子一致。
		if a := s.PillBgOpacity(); a > 0 {
			ops = append(ops, Op{
				Kind:     OpRect,
				Layer:    LayerBackground,
				Instance: p.Index,
				X:        p.Region.X,
				Y:        b.Y,
				W:        p.Region.W,
				H:        b.H,
				Color:    s.PillBgColor,
				Alpha:    a,
			})
		}
	}

	if opacity := s.ShadowOpacity(); opacity > 0 {
		samples := ShadowSamples(m.Blur)
		alphas := ShadowAlphas(samples, opacity)
		for i, smp := range samples {
			ops = append(ops, Op{
				Kind:     OpGlyphs,
				Layer:    LayerShadow,
				Instance: p.Index,
				Block:    p.Block,
				OriginX:  ox + m.ShadowDX + smp.DX,
				OriginY:  oy + m.ShadowDY + smp.DY,
				Color:    s.ShadowColor,
				Alpha:    alphas[i],
			})
		}
	}

	if m.OutlineWidthPx > 0 && s.OutlineOpacity > 0 {
		ops = append(ops, Op{
			Kind:        OpGlyphs,
			Layer:       LayerOutline,
			Instance:    p.Index,
			Block:       p.Block,
			OriginX:     ox,
			OriginY:     oy,
			StrokeWidth: m.OutlineWidthPx,
			Color:       p.Outline.Color,
			Alpha:       s.OutlineOpacity,
		})
	}

	fill := Op{
		Kind:     OpGlyphs,
		Layer:    LayerFill,
		Instance: p.Index,
		Block:    p.Block,
		OriginX:  ox,
		OriginY:  oy,
		Color:    s.FontColor,
		Alpha:    1,
	}
	if pattern != nil {
		pt := *pattern
		pt.W, pt.H = frame.Width, frame.Height
		pt.OffsetX, pt.OffsetY = ox, oy
		fill.Pattern = &pt
	}
	return append(ops, fill)
}
