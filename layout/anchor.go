package layout

import (
	"log/slog"

	"github.com/ByLCY/screentitle/preset"
)

// Instance 是一条待布局的字幕：文本与已解析的样式。
type Instance struct {
	Text  string
	Style preset.Style
}

// ComputeAnchors 对 middle/bottom 实例做一次只测量的预排版，记录每类的最大盒高。
// 单个实例测量失败只记录日志并跳过，不影响其他实例。
func ComputeAnchors(frame Frame, instances []Instance, ts Typesetter) Anchors {
	var a Anchors
	for i, inst := range instances {
		if !inst.Style.Position.Shared() {
			continue
		}
		ms, err := Measure(frame, inst.Style, inst.Text, ts)
		if err != nil {
			Logger().Warn("anchor pre-pass measurement failed",
				slog.Int("instance", i), slog.String("position", string(inst.Style.Position)), slog.Any("err", err))
			continue
		}
		slot := &a.Middle
		if inst.Style.Position == preset.PositionBottom {
			slot = &a.Bottom
		}
		if *slot == nil || ms.H > **slot {
			h := ms.H
			*slot = &h
		}
	}
	return a
}
