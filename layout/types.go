package layout

import (
	"image"
	"image/color"

	"github.com/ByLCY/screentitle/fontkey"
	"github.com/ByLCY/screentitle/preset"
)

// 该文件定义布局结果与绘制指令，供布局计算、渲染与调试 JSON 共用。
// 所有坐标单位均为像素，原点在画面左上角，y 轴向下。

// Frame 是输出画布尺寸。
type Frame struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect 是一个轴对齐矩形。
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Right returns X+W.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns Y+H.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether o lies inside r, allowing eps of float slack.
func (r Rect) Contains(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps && o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// TextLine 表示排版后的一行文本。X 与 Baseline 相对文本块左上角。
type TextLine struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Baseline float64 `json:"baseline"`
	Width    float64 `json:"width"`
}

// TextBlock 是排版后端返回的文本块：行、墨迹范围与逻辑范围。
type TextBlock struct {
	Lines         []TextLine         `json:"lines"`
	Ink           Rect               `json:"ink"`
	Logical       Rect               `json:"logical"`
	Font          fontkey.Descriptor `json:"font"`
	FontPx        float64            `json:"fontPx"`
	TrackingPx    float64            `json:"trackingPx,omitempty"`
	LineSpacingPx float64            `json:"lineSpacingPx,omitempty"`
	Truncated     bool               `json:"truncated,omitempty"`
}

// MeasuredContent holds the ink and logical extents of one caption.
type MeasuredContent struct {
	Ink     Rect `json:"ink"`
	Logical Rect `json:"logical"`
}

// Content picks the ink extent when it has area and the logical extent otherwise.
func (m MeasuredContent) Content() Rect {
	if !m.Ink.Empty() {
		return m.Ink
	}
	return m.Logical
}

// Metrics 是一个实例与尺寸相关的派生量（像素）。
type Metrics struct {
	FontPx         float64 `json:"fontPx"`
	PadX           float64 `json:"padX"`
	PadY           float64 `json:"padY"`
	StrokePad      float64 `json:"strokePad"`
	OutlineWidthPx float64 `json:"outlineWidthPx"`
	ShadowDX       float64 `json:"shadowDx"`
	ShadowDY       float64 `json:"shadowDy"`
	Blur           float64 `json:"blur"`
	TrackingPx     float64 `json:"trackingPx"`
	LineSpacingPx  float64 `json:"lineSpacingPx"`
}

// ReserveX is the horizontal space the box adds around the content.
func (m Metrics) ReserveX() float64 {
	return 2*(m.PadX+m.StrokePad) + abs(m.ShadowDX) + 2*m.Blur
}

// ReserveY is the vertical space the box adds around the content.
func (m Metrics) ReserveY() float64 {
	return 2*(m.PadY+m.StrokePad) + abs(m.ShadowDY) + 2*m.Blur
}

// Box 是背景与内容的包围盒。X0/Y0 为内容局部坐标下的盒子原点，X/Y 为画面坐标。
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	// PreOffsetX/PreOffsetY are X/Y before the per-instance pixel offset.
	PreOffsetX float64 `json:"preOffsetX"`
	PreOffsetY float64 `json:"preOffsetY"`
}

// Rect returns the box in frame coordinates.
func (b Box) Rect() Rect { return Rect{X: b.X, Y: b.Y, W: b.W, H: b.H} }

// Right is X+W.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom is Y+H.
func (b Box) Bottom() float64 { return b.Y + b.H }

// Origin is the translation that maps content-local coordinates onto the frame.
func (b Box) Origin() (float64, float64) { return b.X - b.X0, b.Y - b.Y0 }

// Anchors 记录 middle/bottom 两类位置在预排版中得到的最大盒高；nil 表示没有参与者。
type Anchors struct {
	Middle *float64 `json:"middle,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
}

// For returns the shared height for p, or nil for unshared positions.
func (a Anchors) For(p preset.Position) *float64 {
	switch p {
	case preset.PositionMiddle:
		return a.Middle
	case preset.PositionBottom:
		return a.Bottom
	default:
		return nil
	}
}

// OpKind 是绘制指令类型。
type OpKind string

const (
	OpRoundedRect OpKind = "rounded-rect"
	OpRect        OpKind = "rect"
	OpGlyphs      OpKind = "glyphs"
)

// Layer 标记指令所属的绘制阶段，便于调试与测试统计。
type Layer string

const (
	LayerBackground Layer = "background"
	LayerShadow     Layer = "shadow"
	LayerOutline    Layer = "outline"
	LayerFill       Layer = "fill"
)

// Pattern 是平铺图案填充：图案缩放到 W×H 后以 (OffsetX, OffsetY) 为原点平铺。
type Pattern struct {
	Key     string      `json:"key"`
	Image   image.Image `json:"-"`
	W       int         `json:"w"`
	H       int         `json:"h"`
	OffsetX float64     `json:"offsetX"`
	OffsetY float64     `json:"offsetY"`
}

// Op 是一条有序绘制指令。矩形类使用 X/Y/W/H，文字类使用 Block 与 OriginX/OriginY。
type Op struct {
	Kind     OpKind      `json:"kind"`
	Layer    Layer       `json:"layer"`
	Instance int         `json:"instance"`
	X        float64     `json:"x,omitempty"`
	Y        float64     `json:"y,omitempty"`
	W        float64     `json:"w,omitempty"`
	H        float64     `json:"h,omitempty"`
	Radius   float64     `json:"radius,omitempty"`
	Color    color.NRGBA `json:"color"`
	Alpha    float64     `json:"alpha"`

	Block       *TextBlock `json:"-"`
	OriginX     float64    `json:"originX,omitempty"`
	OriginY     float64    `json:"originY,omitempty"`
	StrokeWidth float64    `json:"strokeWidth,omitempty"`
	Pattern     *Pattern   `json:"pattern,omitempty"`
}

// InstancePlan 是单个字幕实例的完整布局记录。
type InstancePlan struct {
	Index      int                       `json:"index"`
	Text       string                    `json:"text"`
	Style      preset.Style              `json:"style"`
	Region     Rect                      `json:"region"`
	RegionKind preset.RegionKind         `json:"regionKind"`
	Metrics    Metrics                   `json:"metrics"`
	Content    MeasuredContent           `json:"content"`
	Block      *TextBlock                `json:"block"`
	Box        Box                       `json:"box"`
	Outline    preset.OutlineColorChoice `json:"outline"`
	Ops        []Op                      `json:"-"`
}

// Result 保存整帧的布局结果。Ops 按绘制顺序排列，后面的指令覆盖前面的。
type Result struct {
	Frame     Frame          `json:"frame"`
	Anchors   Anchors        `json:"anchors"`
	Instances []InstancePlan `json:"instances"`
	Ops       []Op           `json:"ops"`
}
