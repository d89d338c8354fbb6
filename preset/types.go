package preset

import "image/color"

// Variant 是背景样式。历史值 "outline" 在解析时改写为 VariantNone。
type Variant string

const (
	VariantPill  Variant = "pill"
	VariantStrip Variant = "strip"
	VariantNone  Variant = "none"
)

// HasBackground reports whether the variant paints a background shape.
func (v Variant) HasBackground() bool { return v == VariantPill || v == VariantStrip }

// Position 是垂直锚点。
type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

// Shared reports whether instances at this position share an anchor height.
func (p Position) Shared() bool { return p == PositionMiddle || p == PositionBottom }

// Alignment 是水平对齐方式。
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// RegionKind tags which configuration scheme produced the overlay's region.
type RegionKind int

const (
	// RegionLegacyInset: no margin field and no placement rect. Horizontal
	// insets are a percentage of width, vertical insets of height, and the
	// legacy maxWidthPct cap applies.
	RegionLegacyInset RegionKind = iota
	// RegionMargins: at least one explicit margin; every side is a percentage of width.
	RegionMargins
	// RegionPlacement: an explicit placement rectangle, percentages of width on both axes.
	RegionPlacement
)

func (k RegionKind) String() string {
	switch k {
	case RegionMargins:
		return "margins"
	case RegionPlacement:
		return "placement"
	default:
		return "legacy-inset"
	}
}

// MarshalText keeps debug JSON readable.
func (k RegionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// PlacementRect 以百分比描述一个显式放置区域。
type PlacementRect struct {
	XPct float64 `json:"xPct"`
	YPct float64 `json:"yPct"`
	WPct float64 `json:"wPct"`
	HPct float64 `json:"hPct"`
}

// RegionSpec is resolved exactly once; downstream code switches on Kind
// instead of re-deriving precedence from raw fields. The four sides are always
// resolved; Fallback names their scheme, used when a placement rect is rejected
// in pixel space.
type RegionSpec struct {
	Kind      RegionKind    `json:"kind"`
	LeftPct   float64       `json:"leftPct"`
	RightPct  float64       `json:"rightPct"`
	TopPct    float64       `json:"topPct"`
	BottomPct float64       `json:"bottomPct"`
	Rect      PlacementRect `json:"rect"`
	Fallback  RegionKind    `json:"fallback"`
}

// OutlineColor is either "auto" (derived from the fill) or a literal color.
type OutlineColor struct {
	Auto  bool        `json:"auto"`
	Color color.NRGBA `json:"color"`
}

// Style 是完全解析、带默认值并限幅后的预设。
type Style struct {
	Variant       Variant   `json:"variant"`
	LegacyOutline bool      `json:"legacyOutline,omitempty"`
	Position      Position  `json:"position"`
	Alignment     Alignment `json:"alignment"`

	FontKey        string  `json:"fontKey"`
	SizeKey        string  `json:"sizeKey,omitempty"`
	FontSizePct    float64 `json:"fontSizePct"`
	MaxWidthPct    float64 `json:"maxWidthPct"`
	TrackingPct    float64 `json:"trackingPct"`
	LineSpacingPct float64 `json:"lineSpacingPct"`

	Region RegionSpec `json:"region"`

	FontColor        color.NRGBA `json:"fontColor"`
	ShadowColor      color.NRGBA `json:"shadowColor"`
	PillBgColor      color.NRGBA `json:"pillBgColor"`
	PillBgOpacityPct float64     `json:"pillBgOpacityPct"`
	ShadowOpacityPct float64     `json:"shadowOpacityPct"`

	ShadowOffsetPx float64 `json:"shadowOffsetPx"`
	ShadowBlurPx   float64 `json:"shadowBlurPx"`

	OffsetXPx float64 `json:"offsetXPx"`
	OffsetYPx float64 `json:"offsetYPx"`

	// OutlineWidthPct is nil when the preset left it unset; the variant default applies.
	OutlineWidthPct *float64     `json:"outlineWidthPct,omitempty"`
	OutlineOpacity  float64      `json:"outlineOpacity"`
	OutlineColor    OutlineColor `json:"outlineColor"`

	FontGradientKey string `json:"fontGradientKey,omitempty"`
}

// Options tweak resolution for the calling path.
type Options struct {
	// Legacy marks the single-text payload, whose font size floor is 2% instead of 1%.
	Legacy bool
}

// OutlineColorChoice is the stroke color actually used, with where it came from.
type OutlineColorChoice struct {
	Color  color.NRGBA `json:"color"`
	Source string      `json:"source"`
}
