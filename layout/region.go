package layout

import (
	"log/slog"
	"math"

	"github.com/ByLCY/screentitle/preset"
)

// minRegionPx is the floor for region width and height.
const minRegionPx = 10.0

// ResolveRegion 返回实例可用的区域，始终位于画面内，宽高不小于 10px。
func ResolveRegion(frame Frame, s preset.Style) Rect {
	r, _ := ResolveRegionKind(frame, s)
	return r
}

// ResolveRegionKind 同时返回实际生效的区域方案。
//
//   - placement: 百分比全部以画面宽度为基准（与 margins 一致），在像素空间裁进画面；
//     裁剪后宽或高不足下限时退回到四边方案
//   - margins:   四边均为宽度百分比
//   - legacy:    左右为宽度百分比，上下为高度百分比
func ResolveRegionKind(frame Frame, s preset.Style) (Rect, preset.RegionKind) {
	fw, fh := float64(frame.Width), float64(frame.Height)
	spec := s.Region
	if spec.Kind == preset.RegionPlacement {
		if r, ok := placementRect(spec.Rect, fw, fh); ok {
			return r, preset.RegionPlacement
		}
		Logger().Debug("placement rect outside frame, using sides",
			slog.Float64("y_pct", spec.Rect.YPct), slog.Float64("h_pct", spec.Rect.HPct),
			slog.String("fallback", spec.Fallback.String()))
		spec.Kind = spec.Fallback
	}
	yBase := fh
	if spec.Kind == preset.RegionMargins {
		yBase = fw
	}
	l, rr := PctOf(fw, spec.LeftPct), PctOf(fw, spec.RightPct)
	t, b := PctOf(yBase, spec.TopPct), PctOf(yBase, spec.BottomPct)
	return fitInFrame(Rect{X: l, Y: t, W: fw - l - rr, H: fh - t - b}, fw, fh), spec.Kind
}

// placementRect 把百分比矩形换算为像素并裁进画面；裁剪后过小则拒绝。
func placementRect(p preset.PlacementRect, fw, fh float64) (Rect, bool) {
	r := Rect{
		X: PctOf(fw, p.XPct),
		Y: PctOf(fw, p.YPct),
		W: PctOf(fw, p.WPct),
		H: PctOf(fw, p.HPct),
	}
	r.W = math.Min(r.W, fw-r.X)
	r.H = math.Min(r.H, fh-r.Y)
	minPx := PctOf(fw, preset.MinPlacementExtentPct)
	if r.W < minPx || r.H < minPx {
		return Rect{}, false
	}
	return fitInFrame(r, fw, fh), true
}

// fitInFrame clips r to the frame, flooring each side length at minRegionPx
// and shifting the origin back when the floor would push r past the edge.
func fitInFrame(r Rect, fw, fh float64) Rect {
	r.X = clamp(r.X, 0, fw)
	r.Y = clamp(r.Y, 0, fh)
	r.W = math.Max(minRegionPx, math.Min(r.W, fw-r.X))
	r.H = math.Max(minRegionPx, math.Min(r.H, fh-r.Y))
	if r.X+r.W > fw {
		r.X = math.Max(0, fw-r.W)
	}
	if r.Y+r.H > fh {
		r.Y = math.Max(0, fh-r.H)
	}
	return r
}
