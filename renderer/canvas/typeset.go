package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/screentitle/layout"
	"github.com/ByLCY/screentitle/preset"
)

const ellipsis = "…"

// measurer 测量一段文本的像素宽度，字距按字素簇均匀累加。
type measurer struct {
	face     *canvas.FontFace
	tracking float64
}

func (m measurer) width(s string) float64 {
	if s == "" {
		return 0
	}
	if m.tracking == 0 {
		return m.face.TextWidth(s)
	}
	w, n := 0.0, 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w += m.face.TextWidth(gr.Str())
		n++
	}
	return w + float64(n-1)*m.tracking
}

// Typeset 实现 layout.Typesetter：按词贪心折行（超长词按字素拆分），遵守显式换行，
// 超出高度时截断并在末行加省略号，最后通过栅格化得到墨迹范围。
func (r *Renderer) Typeset(req layout.TextRequest) (*layout.TextBlock, error) {
	face, err := r.fontFace(req.Font, req.FontPx)
	if err != nil {
		return nil, err
	}
	m := measurer{face: face, tracking: req.TrackingPx}
	metrics := face.Metrics()
	lineH := metrics.LineHeight
	if lineH <= 0 {
		lineH = req.FontPx * 1.2
	}
	advance := math.Max(lineH+req.LineSpacingPx, 1)

	lines := greedyWrapTokens(req.Text, req.MaxWidth, m)
	lines, truncated := fitHeight(lines, req.MaxHeight, lineH, advance, req.MaxWidth, m)

	blockW := 0.0
	for _, ln := range lines {
		blockW = math.Max(blockW, ln.Width)
	}
	block := &layout.TextBlock{
		Font:          req.Font,
		FontPx:        req.FontPx,
		TrackingPx:    req.TrackingPx,
		LineSpacingPx: req.LineSpacingPx,
		Truncated:     truncated,
	}
	for i, ln := range lines {
		block.Lines = append(block.Lines, layout.TextLine{
			Content:  ln.Content,
			X:        alignOffset(blockW, ln.Width, req.Align),
			Baseline: float64(i)*advance + metrics.Ascent,
			Width:    ln.Width,
		})
	}
	block.Logical = layout.Rect{W: blockW, H: float64(len(lines)-1)*advance + lineH}
	ink, err := r.inkExtent(face, block)
	if err != nil {
		return nil, err
	}
	block.Ink = ink
	return block, nil
}

func alignOffset(container, width float64, align preset.Alignment) float64 {
	if container <= width {
		return 0
	}
	switch align {
	case preset.AlignCenter:
		return (container - width) / 2
	case preset.AlignRight:
		return container - width
	default:
		return 0
	}
}

// fitHeight 保留能放进 maxH 的行（至少一行），被截断时末行以省略号结尾。
func fitHeight(lines []layout.TextLine, maxH, lineH, advance, maxW float64, m measurer) ([]layout.TextLine, bool) {
	if len(lines) == 0 {
		return []layout.TextLine{{}}, false
	}
	fit := 1
	if maxH > lineH {
		fit = 1 + int(math.Floor((maxH-lineH)/advance+1e-9))
	}
	if len(lines) <= fit {
		return lines, false
	}
	lines = lines[:fit]
	last := &lines[fit-1]
	last.Content = ellipsize(last.Content, maxW, m)
	last.Width = m.width(last.Content)
	return lines, true
}

// ellipsize 从末尾逐个去掉字素簇，直到 "内容…" 不超过 maxW。
func ellipsize(s string, maxW float64, m measurer) string {
	var graphemes []string
	gr := uniseg.NewGraphemes(strings.TrimRightFunc(s, unicode.IsSpace))
	for gr.Next() {
		graphemes = append(graphemes, gr.Str())
	}
	for len(graphemes) > 0 {
		cand := strings.TrimRightFunc(strings.Join(graphemes, ""), unicode.IsSpace) + ellipsis
		if m.width(cand) <= maxW {
			return cand
		}
		graphemes = graphemes[:len(graphemes)-1]
	}
	return ellipsis
}

func greedyWrapTokens(content string, width float64, m measurer) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	// 优先在空白处分割，超过限制时在词内按字素拆分
	tokens := tokenizeContent(content)
	var lines []layout.TextLine
	var builder strings.Builder

	emit := func(force bool) {
		lineStr := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		builder.Reset()
		if lineStr == "" && !force {
			return
		}
		lines = append(lines, layout.TextLine{Content: lineStr, Width: m.width(lineStr)})
	}
	current := func() float64 { return m.width(builder.String()) }

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}
		isSpace := strings.TrimSpace(token) == ""
		// 折行后行首的空白直接丢弃
		if isSpace && builder.Len() == 0 && len(lines) > 0 {
			continue
		}

		if builder.Len() > 0 && m.width(builder.String()+token) > limit {
			emit(false)
			if isSpace {
				continue
			}
		}
		if m.width(token) <= limit {
			builder.WriteString(token)
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, m) {
			if builder.Len() > 0 && current()+m.width(chunk) > limit {
				emit(false)
			}
			builder.WriteString(chunk)
		}
	}

	emit(true)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitTokenByWidth 按字素簇拆分超长的词，保证组合字符不会被拆开。
func splitTokenByWidth(token string, limit float64, m measurer) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	gr := uniseg.NewGraphemes(token)
	for gr.Next() {
		g := gr.Str()
		if builder.Len() > 0 && m.width(builder.String()+g) > limit {
			parts = append(parts, builder.String())
			builder.Reset()
		}
		builder.WriteString(g)
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
