package layout

import (
	"fmt"
	"log/slog"
	"strings"
)

// Build 为整帧计算布局：先做锚点预排版，再按输入顺序逐个实例测量、定位并生成绘制指令。
func Build(frame Frame, instances []Instance, opts BuildOptions) (*Result, error) {
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("layout: 画面尺寸无效 %dx%d", frame.Width, frame.Height)
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if len(instances) == 0 {
		return nil, fmt.Errorf("layout: 没有字幕实例")
	}

	anchors := ComputeAnchors(frame, instances, opts.Typesetter)
	res := &Result{
		Frame:     frame,
		Anchors:   anchors,
		Instances: make([]InstancePlan, 0, len(instances)),
	}
	patterns := newPatternCache(opts.Patterns)

	for i, inst := range instances {
		plan, err := buildInstance(frame, i, inst, anchors, opts.Typesetter, patterns)
		if err != nil {
			return nil, fmt.Errorf("实例 %d: %w", i, err)
		}
		res.Instances = append(res.Instances, plan)
		res.Ops = append(res.Ops, plan.Ops...)
	}
	return res, nil
}

func buildInstance(frame Frame, idx int, inst Instance, anchors Anchors, ts Typesetter, patterns *patternCache) (InstancePlan, error) {
	if strings.TrimSpace(inst.Text) == "" {
		return InstancePlan{}, fmt.Errorf("layout: 文本为空")
	}
	ms, err := Measure(frame, inst.Style, inst.Text, ts)
	if err != nil {
		return InstancePlan{}, err
	}
	box := Place(frame, inst.Style, ms, anchors.For(inst.Style.Position))

	pattern := patterns.get(inst.Style.FontGradientKey)
	plan := InstancePlan{
		Index:      idx,
		Text:       inst.Text,
		Style:      inst.Style,
		Region:     ms.Region,
		RegionKind: ms.Kind,
		Metrics:    ms.Metrics,
		Content:    ms.Content,
		Block:      ms.Block,
		Box:        box,
		Outline:    inst.Style.ResolveOutlineColor(pattern != nil),
	}
	plan.Ops = Sequence(frame, &plan, pattern)

	Logger().Debug("instance laid out",
		slog.Int("instance", idx),
		slog.String("variant", string(inst.Style.Variant)),
		slog.String("region", ms.Kind.String()),
		slog.Float64("box_x", box.X), slog.Float64("box_y", box.Y),
		slog.Float64("box_w", box.W), slog.Float64("box_h", box.H),
		slog.Int("ops", len(plan.Ops)))
	return plan, nil
}

// patternCache 在一次 Build 内按 key 缓存渐变图案，失败同样缓存，避免重复告警。
type patternCache struct {
	src  PatternSource
	seen map[string]*Pattern
}

func newPatternCache(src PatternSource) *patternCache {
	return &patternCache{src: src, seen: map[string]*Pattern{}}
}

func (c *patternCache) get(key string) *Pattern {
	if key == "" || c.src == nil {
		return nil
	}
	if p, ok := c.seen[key]; ok {
		return p
	}
	img, err := c.src.LoadPattern(key)
	if err != nil || img == nil || img.Bounds().Empty() {
		Logger().Warn("gradient pattern unavailable, using solid fill",
			slog.String("key", key), slog.Any("err", err))
		c.seen[key] = nil
		return nil
	}
	p := &Pattern{Key: key, Image: img}
	c.seen[key] = p
	return p
}
