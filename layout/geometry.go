package layout

import "github.com/ByLCY/screentitle/preset"

// Place 把测量得到的盒子放进区域：对齐与位置、共享锚点、逐实例偏移，最后按策略限幅。
// shared 为同一位置类在预排版中的最大盒高，可为 nil。
func Place(frame Frame, s preset.Style, ms Measurement, shared *float64) Box {
	r := ms.Region
	box := Box{X0: ms.X0, Y0: ms.Y0, W: ms.W, H: ms.H}

	var x float64
	switch s.Alignment {
	case preset.AlignLeft:
		x = r.X
	case preset.AlignRight:
		x = r.Right() - box.W
	default:
		x = r.X + (r.W-box.W)/2
	}
	x = clampRange(x, r.X, r.Right()-box.W)

	// middle/bottom 并非真正居中/贴底，而是区域高度的 1/3 与 2/3 处。
	anchorH := box.H
	var y float64
	switch s.Position {
	case preset.PositionMiddle:
		y = r.Y + r.H/3
	case preset.PositionBottom:
		y = r.Y + r.H*2/3
	default:
		y = r.Y
	}
	if s.Position.Shared() && shared != nil && *shared > anchorH {
		anchorH = *shared
	}
	y = clampRange(y, r.Y, r.Bottom()-anchorH)

	box.PreOffsetX, box.PreOffsetY = x, y
	x += s.OffsetXPx
	y += s.OffsetYPx

	fw, fh := float64(frame.Width), float64(frame.Height)
	if ms.Kind == preset.RegionPlacement {
		x = clampRange(x, r.X, r.Right()-box.W)
		y = clampRange(y, r.Y, r.Bottom()-box.H)
	} else {
		x = clampAxis(x, box.W, fw, s.OffsetXPx)
		y = clampAxis(y, box.H, fh, s.OffsetYPx)
	}
	box.X, box.Y = x, y
	return box
}

// clampAxis 在没有偏移时把盒子限制在画面内；有偏移时允许最多一个盒长的出界。
func clampAxis(v, size, extent, offset float64) float64 {
	if offset != 0 {
		return clampRange(v, -size, extent)
	}
	return clampRange(v, 0, extent-size)
}
