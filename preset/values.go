package preset

import (
	"encoding/json"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// White is the fallback for any color that is present but not "#rrggbb".
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Black is used for auto outlines over light fills and gradients.
var Black = color.NRGBA{A: 255}

// present 判断字段是否被显式给出：nil 与空白字符串都视为缺省。
func present(raw map[string]any, key string) bool {
	v, ok := raw[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// number converts JSON/YAML/TOML scalars to a finite float64.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// numberOr returns raw[key] clamped to [lo,hi], or def when missing or unparsable.
func numberOr(raw map[string]any, key string, def, lo, hi float64) float64 {
	f, ok := number(raw[key])
	if !ok {
		return def
	}
	return Clamp(f, lo, hi)
}

func stringOr(raw map[string]any, key, def string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// colorOr parses raw[key] as "#rrggbb". Missing → def; present but invalid → White.
func colorOr(raw map[string]any, key string, def color.NRGBA) color.NRGBA {
	if !present(raw, key) {
		return def
	}
	s, _ := raw[key].(string)
	if c, ok := ParseHex(s); ok {
		return c
	}
	return White
}

// ParseHex parses a strict "#rrggbb" color.
func ParseHex(s string) (color.NRGBA, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, true
}

// Luminance is the Rec. 709 weighted brightness of c in [0,1].
func Luminance(c color.NRGBA) float64 {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return 0.2126*cf.R + 0.7152*cf.G + 0.0722*cf.B
}

// Clamp limits v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
