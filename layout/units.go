package layout

import "math"

// 渲染器以 1px = 1mm 的比例栅格化，字体大小需要从像素换算到 pt。

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToPt converts a pixel font size to points at one pixel per millimetre.
func PxToPt(px float64) float64 { return px * MmToPt }

// PtToPx is the inverse of PxToPt.
func PtToPx(pt float64) float64 { return pt * PtToMm }

// PctOf returns pct percent of base.
func PctOf(base, pct float64) float64 { return base * pct / 100 }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// clampRange 与 clamp 相同，但当区间为空（hi < lo）时取 lo。
func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return clamp(v, lo, hi)
}

func abs(v float64) float64 { return math.Abs(v) }
