package canvasrenderer

import (
	"fmt"
	"log/slog"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/screentitle/fontkey"
	"github.com/ByLCY/screentitle/fonts"
	"github.com/ByLCY/screentitle/layout"
	"github.com/ByLCY/screentitle/renderer"
)

// fontFace 返回 d 在 fontPx 像素下的字体面。画布按 1px = 1mm 栅格化，因此字号需换算为 pt。
func (r *Renderer) fontFace(d fontkey.Descriptor, fontPx float64) (*canvas.FontFace, error) {
	entry, err := r.ensureFontFamily(d)
	if err != nil {
		return nil, err
	}
	return entry.family.Face(layout.PxToPt(fontPx), canvas.Black, entry.style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(d fontkey.Descriptor) (*fontFamilyEntry, error) {
	key := d.String()
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry, nil
	}

	style := canvasStyle(d)
	data, src, err := fonts.Load(r.assetsDir, d)
	if err == nil {
		family := canvas.NewFontFamily(d.Family)
		if err = family.LoadFont(data, 0, style); err == nil {
			entry := &fontFamilyEntry{family: family, style: style, source: src}
			r.fontFamilies[key] = entry
			layout.Logger().Debug("font loaded", slog.String("font", key), slog.String("source", src.Name))
			return entry, nil
		}
		if src.Embedded() {
			return nil, fmt.Errorf("%w: 加载内置字体 %s 失败: %v", renderer.ErrEngineUnavailable, src.Name, err)
		}
	}

	// 资源目录中的字体无法使用时退回内置字体。
	layout.Logger().Warn("font unusable, falling back to embedded",
		slog.String("font", key), slog.String("source", src.Path), slog.Any("err", err))
	name, blob := fonts.Embedded(d)
	family := canvas.NewFontFamily(name)
	if ferr := family.LoadFont(blob, 0, style); ferr != nil {
		return nil, fmt.Errorf("%w: 加载内置字体 %s 失败: %v", renderer.ErrEngineUnavailable, name, ferr)
	}
	entry := &fontFamilyEntry{family: family, style: style, source: fonts.Source{Name: name}}
	r.fontFamilies[key] = entry
	return entry, nil
}

// canvasStyle maps the closed weight enumeration onto canvas font styles.
func canvasStyle(d fontkey.Descriptor) canvas.FontStyle {
	var style canvas.FontStyle
	switch d.Weight {
	case fontkey.WeightMedium:
		style = canvas.FontMedium
	case fontkey.WeightSemiBold:
		style = canvas.FontSemiBold
	case fontkey.WeightBold:
		style = canvas.FontBold
	case fontkey.WeightUltraBold:
		style = canvas.FontExtraBold
	case fontkey.WeightHeavy:
		style = canvas.FontBlack
	default:
		style = canvas.FontRegular
	}
	if d.Italic {
		style |= canvas.FontItalic
	}
	return style
}
