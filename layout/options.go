package layout

import (
	"image"

	"github.com/ByLCY/screentitle/fontkey"
	"github.com/ByLCY/screentitle/preset"
)

// BuildOptions 配置布局阶段所需的依赖，例如排版后端与渐变图案来源。
type BuildOptions struct {
	Typesetter Typesetter
	// Patterns may be nil; gradient keys then fall back to solid fills.
	Patterns PatternSource
}

// TextRequest 是一次排版请求，尺寸单位均为像素。
type TextRequest struct {
	Text          string
	Font          fontkey.Descriptor
	FontPx        float64
	MaxWidth      float64
	MaxHeight     float64
	TrackingPx    float64
	LineSpacingPx float64
	Align         preset.Alignment
}

// Typesetter 负责在宽高约束下折行、测量文本，返回带墨迹/逻辑范围的文本块。
// 实现需要按词折行，必要时退化为按字符折行，遵守显式换行，超出高度时在末尾加省略号。
type Typesetter interface {
	Typeset(req TextRequest) (*TextBlock, error)
}

// PatternSource loads the tiling image named by a gradient key.
type PatternSource interface {
	LoadPattern(key string) (image.Image, error)
}
