// Package preset normalizes raw screen-title presets into fully defaulted,
// range-clamped styles. Resolution is pure and never fails: unparsable fields
// fall back to their defaults.
package preset

import (
	"strings"

	"github.com/ByLCY/screentitle/fontkey"
)

// Defaults for fields the preset leaves unset.
const (
	DefaultFontSizePct      = 4.5
	DefaultMaxWidthPct      = 90.0
	DefaultPillBgOpacityPct = 55.0
	DefaultShadowOpacityPct = 65.0
	DefaultShadowOffsetPx   = 2.0
)

var (
	defaultFontColor   = White
	defaultShadowColor = Black
	defaultPillBgColor = Black
)

// 历史 outline 样式与 pill/strip 的描边默认值不同，两者分别保留。
const (
	noneOutlineWidthPx   = 1.0
	noneOutlineOpacity   = 0.45
	backedOutlineWidthPx = 0.9
	backedOutlineOpacity = 0.25
	maxOutlineWidthPx    = 12.0
)

// MinPlacementExtentPct 是 placement 宽高的下限（画面宽度百分比），低于它视为缺省。
const MinPlacementExtentPct = 0.001

var marginKeys = [4]string{"marginLeftPct", "marginRightPct", "marginTopPct", "marginBottomPct"}

// Resolve turns a raw preset mapping into a Style.
func Resolve(raw map[string]any, opts Options) Style {
	if raw == nil {
		raw = map[string]any{}
	}
	var s Style

	// style 必须最先解析，后续默认值依赖它。
	s.Variant, s.LegacyOutline = resolveVariant(stringOr(raw, "style", string(VariantPill)))
	s.Position = NormalizePosition(stringOr(raw, "position", ""))
	s.Alignment = NormalizeAlignment(stringOr(raw, "alignment", ""))

	s.FontKey = stringOr(raw, "fontKey", fontkey.DefaultKey)
	s.SizeKey = strings.ToLower(stringOr(raw, "sizeKey", ""))
	sized, hasSize := LookupSize(s.FontKey, s.SizeKey)

	minFont := 1.0
	if opts.Legacy {
		minFont = 2.0
	}
	fontDef, trackDef, lineDef := DefaultFontSizePct, 0.0, 0.0
	if hasSize {
		fontDef, trackDef, lineDef = sized.FontSizePct, sized.TrackingPct, sized.LineSpacingPct
	}
	s.FontSizePct = Clamp(numberOr(raw, "fontSizePct", fontDef, minFont, 8), minFont, 8)
	s.MaxWidthPct = numberOr(raw, "maxWidthPct", DefaultMaxWidthPct, 20, 100)
	s.TrackingPct = numberOr(raw, "trackingPct", trackDef, -20, 50)
	s.LineSpacingPct = numberOr(raw, "lineSpacingPct", lineDef, -20, 200)

	s.Region = resolveRegion(raw)

	s.FontColor = colorOr(raw, "fontColor", defaultFontColor)
	s.ShadowColor = colorOr(raw, "shadowColor", defaultShadowColor)
	s.PillBgColor = colorOr(raw, "pillBgColor", defaultPillBgColor)
	s.PillBgOpacityPct = numberOr(raw, "pillBgOpacityPct", DefaultPillBgOpacityPct, 0, 100)
	s.ShadowOpacityPct = numberOr(raw, "shadowOpacityPct", DefaultShadowOpacityPct, 0, 100)
	s.ShadowOffsetPx = numberOr(raw, "shadowOffsetPx", DefaultShadowOffsetPx, -50, 50)
	s.ShadowBlurPx = numberOr(raw, "shadowBlurPx", 0, 0, 20)
	s.OffsetXPx = numberOr(raw, "offsetXPx", 0, -1000, 1000)
	s.OffsetYPx = numberOr(raw, "offsetYPx", 0, -1000, 1000)

	if w, ok := number(raw["outlineWidthPct"]); ok {
		w = Clamp(w, 0, 100)
		s.OutlineWidthPct = &w
	}
	s.OutlineOpacity = defaultOutlineOpacity(s.Variant)
	if o, ok := number(raw["outlineOpacityPct"]); ok {
		s.OutlineOpacity = Clamp(o, 0, 100) / 100
	}
	s.OutlineColor = resolveOutlineColor(raw)
	s.FontGradientKey = ""
	if key := stringOr(raw, "fontGradientKey", ""); SafeAssetName(key) {
		s.FontGradientKey = key
	}
	return s
}

func resolveVariant(raw string) (Variant, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "outline":
		return VariantNone, true
	case "none":
		return VariantNone, false
	case "strip":
		return VariantStrip, false
	default:
		return VariantPill, false
	}
}

// NormalizePosition maps the accepted spellings to a Position; default top.
func NormalizePosition(raw string) Position {
	p := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case p == "middle", p == "center", p == "middle_center":
		return PositionMiddle
	case strings.HasPrefix(p, "bottom"):
		return PositionBottom
	default:
		return PositionTop
	}
}

// NormalizeAlignment maps raw alignment; anything unknown centers.
func NormalizeAlignment(raw string) Alignment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "left":
		return AlignLeft
	case "right":
		return AlignRight
	default:
		return AlignCenter
	}
}

// InsetPctForPreset maps the legacy inset preset names to a percentage.
func InsetPctForPreset(name string) float64 {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "small":
		return 6
	case "large":
		return 14
	default:
		return 10
	}
}

// resolveRegion 总是解析四边，placement 生效时四边作为退路保留。
func resolveRegion(raw map[string]any) RegionSpec {
	spec := resolveSides(raw)
	spec.Fallback = spec.Kind
	if rect, ok := resolvePlacement(raw["placementRect"]); ok {
		spec.Kind = RegionPlacement
		spec.Rect = rect
	}
	return spec
}

func resolveSides(raw map[string]any) RegionSpec {
	insetX := InsetPctForPreset(stringOr(raw, "insetXPreset", ""))
	insetY := InsetPctForPreset(stringOr(raw, "insetYPreset", "medium"))
	spec := RegionSpec{
		Kind:      RegionLegacyInset,
		LeftPct:   insetX,
		RightPct:  insetX,
		TopPct:    insetY,
		BottomPct: insetY,
	}
	for _, k := range marginKeys {
		if present(raw, k) {
			spec.Kind = RegionMargins
			break
		}
	}
	if spec.Kind == RegionLegacyInset {
		return spec
	}
	spec.LeftPct = numberOr(raw, marginKeys[0], insetX, 0, 40)
	spec.RightPct = numberOr(raw, marginKeys[1], insetX, 0, 40)
	spec.TopPct = numberOr(raw, marginKeys[2], insetY, 0, 40)
	spec.BottomPct = numberOr(raw, marginKeys[3], insetY, 0, 40)
	return spec
}

func resolvePlacement(v any) (PlacementRect, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return PlacementRect{}, false
	}
	x := numberOr(m, "xPct", 0, 0, 100)
	y := numberOr(m, "yPct", 0, 0, 100)
	w := numberOr(m, "wPct", 0, 0, 100)
	h := numberOr(m, "hPct", 0, 0, 100)
	w = Clamp(w, 0, 100-x)
	h = Clamp(h, 0, 100-y)
	if w < MinPlacementExtentPct || h < MinPlacementExtentPct {
		return PlacementRect{}, false
	}
	return PlacementRect{XPct: x, YPct: y, WPct: w, HPct: h}, true
}

func defaultOutlineOpacity(v Variant) float64 {
	switch v {
	case VariantNone:
		return noneOutlineOpacity
	case VariantPill, VariantStrip:
		return backedOutlineOpacity
	default:
		return 0
	}
}

func resolveOutlineColor(raw map[string]any) OutlineColor {
	s := stringOr(raw, "outlineColor", "auto")
	if strings.EqualFold(s, "auto") {
		return OutlineColor{Auto: true}
	}
	if c, ok := ParseHex(s); ok {
		return OutlineColor{Color: c}
	}
	return OutlineColor{Auto: true}
}

// SafeAssetName reports whether name is a plain file name: no separators, no traversal.
func SafeAssetName(name string) bool {
	if name == "" || name == "." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..") && !strings.ContainsRune(name, 0)
}

// FontPx converts the height-relative font size into pixels for a frame height.
func (s Style) FontPx(frameHeight int) float64 {
	return Clamp(float64(frameHeight)*s.FontSizePct/100, 8, 220)
}

// OutlineWidthPx is the glyph stroke width in pixels at the given font size.
func (s Style) OutlineWidthPx(fontPx float64) float64 {
	if s.OutlineWidthPct == nil {
		switch s.Variant {
		case VariantNone:
			return noneOutlineWidthPx
		case VariantPill, VariantStrip:
			return backedOutlineWidthPx
		default:
			return 0
		}
	}
	return Clamp(fontPx**s.OutlineWidthPct/100, 0, maxOutlineWidthPx)
}

// ShadowOpacity is ShadowOpacityPct as a fraction.
func (s Style) ShadowOpacity() float64 { return s.ShadowOpacityPct / 100 }

// PillBgOpacity is PillBgOpacityPct as a fraction.
func (s Style) PillBgOpacity() float64 { return s.PillBgOpacityPct / 100 }

// ResolveOutlineColor picks the stroke color; gradient reports whether a pattern fill is active.
func (s Style) ResolveOutlineColor(gradient bool) OutlineColorChoice {
	if !s.OutlineColor.Auto {
		return OutlineColorChoice{Color: s.OutlineColor.Color, Source: "literal"}
	}
	if gradient {
		return OutlineColorChoice{Color: Black, Source: "gradient"}
	}
	if Luminance(s.FontColor) > 0.55 {
		return OutlineColorChoice{Color: Black, Source: "auto"}
	}
	return OutlineColorChoice{Color: White, Source: "auto"}
}
