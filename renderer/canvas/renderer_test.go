package canvasrenderer

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/screentitle/fontkey"
	"github.com/ByLCY/screentitle/layout"
	"github.com/ByLCY/screentitle/preset"
)

func request(text string, maxW, maxH float64) layout.TextRequest {
	return layout.TextRequest{
		Text:      text,
		Font:      fontkey.Default(),
		FontPx:    40,
		MaxWidth:  maxW,
		MaxHeight: maxH,
		Align:     preset.AlignCenter,
	}
}

func measureWidth(t *testing.T, r *Renderer, s string, tracking float64) float64 {
	t.Helper()
	face, err := r.fontFace(fontkey.Default(), 40)
	if err != nil {
		t.Fatalf("加载字体失败: %v", err)
	}
	return measurer{face: face, tracking: tracking}.width(s)
}

func TestTypesetGreedyWrapsText(t *testing.T) {
	r := NewRenderer("")
	limit := measureWidth(t, r, "hello world", 0) - 1
	block, err := r.Typeset(request("hello world again", limit, 1e6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(block.Lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(block.Lines))
	}
	for _, ln := range block.Lines {
		if ln.Width > limit+1e-9 {
			t.Fatalf("line %q wider than limit: %g > %g", ln.Content, ln.Width, limit)
		}
		if strings.HasSuffix(ln.Content, " ") {
			t.Fatalf("line %q keeps trailing space", ln.Content)
		}
	}
}

func TestTypesetHonorsNewlines(t *testing.T) {
	r := NewRenderer("")
	block, err := r.Typeset(request("foo\n\nbar", 1000, 1e6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(block.Lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(block.Lines))
	}
	if block.Lines[1].Content != "" {
		t.Fatalf("expected middle line to be blank, got %q", block.Lines[1].Content)
	}
	if block.Lines[2].Baseline <= block.Lines[0].Baseline {
		t.Fatalf("baselines must increase: %+v", block.Lines)
	}
}

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	r := NewRenderer("")
	first := "SAMPLE-A"
	limit := measureWidth(t, r, first, 0)
	block, err := r.Typeset(request(first+"\n"+"SAMPLE-B", limit, 1e6))
	if err != nil {
		t.Fatalf("Typeset error: %v", err)
	}
	if got := len(block.Lines); got != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", got)
	}
	if block.Lines[0].Content != first || block.Lines[1].Content != "SAMPLE-B" {
		t.Fatalf("line mismatch: %+v", block.Lines)
	}
}

func TestTypesetEllipsizesOverflow(t *testing.T) {
	r := NewRenderer("")
	text := "one two three four five six seven eight nine ten eleven twelve"
	face, _ := r.fontFace(fontkey.Default(), 40)
	lineH := face.Metrics().LineHeight
	block, err := r.Typeset(request(text, 200, lineH+1))
	if err != nil {
		t.Fatalf("Typeset error: %v", err)
	}
	if len(block.Lines) != 1 || !block.Truncated {
		t.Fatalf("expected a single truncated line, got %+v", block.Lines)
	}
	last := block.Lines[0]
	if !strings.HasSuffix(last.Content, ellipsis) || last.Width > 200+1e-9 {
		t.Fatalf("expected ellipsized line within width: %q (%g)", last.Content, last.Width)
	}
	if block.Logical.H > lineH+1+1e-9 {
		t.Fatalf("logical height %g exceeds bound", block.Logical.H)
	}
}

func TestTrackingWidensLines(t *testing.T) {
	r := NewRenderer("")
	face, _ := r.fontFace(fontkey.Default(), 40)
	sum := 0.0
	for _, g := range []string{"T", "R", "A", "C", "K"} {
		sum += face.TextWidth(g)
	}
	spaced := measureWidth(t, r, "TRACK", 10)
	if d := spaced - sum; math.Abs(d-40) > 1e-9 {
		t.Fatalf("4 gaps × 10px should add 40px, got %g", d)
	}
	req := request("TRACK", 1000, 1e6)
	req.TrackingPx = 10
	block, err := r.Typeset(req)
	if err != nil {
		t.Fatalf("Typeset error: %v", err)
	}
	if math.Abs(block.Lines[0].Width-spaced) > 1e-9 {
		t.Fatalf("line width should include tracking: %g vs %g", block.Lines[0].Width, spaced)
	}
}

// TestLineSpacingStepsBaselines 行距为正、为负以及压到 1px 下限时的基线步长。
func TestLineSpacingStepsBaselines(t *testing.T) {
	r := NewRenderer("")
	face, err := r.fontFace(fontkey.Default(), 40)
	if err != nil {
		t.Fatalf("加载字体失败: %v", err)
	}
	lineH := face.Metrics().LineHeight
	if lineH <= 0 {
		lineH = 48
	}
	cases := []struct {
		spacing float64
		want    float64
	}{
		{0, lineH},
		{10, lineH + 10},
		{-8, lineH - 8},
		{-1e6, 1},
	}
	for _, c := range cases {
		req := request("foo\nbar", 1000, 1e6)
		req.LineSpacingPx = c.spacing
		block, err := r.Typeset(req)
		if err != nil {
			t.Fatalf("spacing=%g: Typeset error: %v", c.spacing, err)
		}
		if len(block.Lines) != 2 {
			t.Fatalf("spacing=%g: expected 2 lines, got %d", c.spacing, len(block.Lines))
		}
		if d := block.Lines[1].Baseline - block.Lines[0].Baseline; math.Abs(d-c.want) > 1e-9 {
			t.Fatalf("spacing=%g: baseline step %g, want %g", c.spacing, d, c.want)
		}
		if h := block.Logical.H; math.Abs(h-(c.want+lineH)) > 1e-9 {
			t.Fatalf("spacing=%g: logical height %g, want %g", c.spacing, h, c.want+lineH)
		}
	}
}

func TestInkExtent(t *testing.T) {
	r := NewRenderer("")
	block, err := r.Typeset(request("HELLO", 1000, 1e6))
	if err != nil {
		t.Fatalf("Typeset error: %v", err)
	}
	if block.Ink.Empty() {
		t.Fatalf("ink extent should not be empty")
	}
	// 大写字母没有下伸部，墨迹应比逻辑行高更矮。
	if block.Ink.H >= block.Logical.H {
		t.Fatalf("ink height %g should be below logical %g", block.Ink.H, block.Logical.H)
	}
	if block.Ink.Y <= 0 {
		t.Fatalf("cap glyphs should start below the line top: %g", block.Ink.Y)
	}
}

func TestSplitTokenKeepsGraphemes(t *testing.T) {
	r := NewRenderer("")
	face, _ := r.fontFace(fontkey.Default(), 40)
	m := measurer{face: face}
	token := strings.Repeat("e\u0301", 12)
	parts := splitTokenByWidth(token, m.width("e\u0301e\u0301e\u0301"), m)
	if len(parts) < 2 {
		t.Fatalf("expected the token to be split, got %q", parts)
	}
	for _, part := range parts {
		if strings.HasPrefix(part, "\u0301") {
			t.Fatalf("combining mark split from its base: %q", part)
		}
	}
}

func TestRenderPaintsPixels(t *testing.T) {
	r := NewRenderer("")
	frame := layout.Frame{Width: 400, Height: 300}
	s := preset.Resolve(map[string]any{"style": "pill", "fontSizePct": 8}, preset.Options{})
	res, err := layout.Build(frame, []layout.Instance{{Text: "HELLO", Style: s}}, layout.BuildOptions{Typesetter: r, Patterns: r})
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	img, err := r.Render(res)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 400, 300) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Fatalf("background should stay transparent, alpha=%d", a)
	}
	box := res.Instances[0].Box
	if a := img.RGBAAt(int(box.X+4), int(box.Y+box.H/2)).A; a == 0 {
		t.Fatalf("pill background not painted at its left edge")
	}
}

func writeSolidPNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestGradientFill(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, GradientDir), 0o755); err != nil {
		t.Fatal(err)
	}
	writeSolidPNG(t, filepath.Join(dir, GradientDir, "red.png"), color.RGBA{R: 255, A: 255})

	r := NewRenderer(dir)
	if _, err := r.LoadPattern("../red.png"); err == nil {
		t.Fatalf("unsafe key must be rejected")
	}

	frame := layout.Frame{Width: 400, Height: 300}
	s := preset.Resolve(map[string]any{
		"style":             "none",
		"fontSizePct":       8,
		"shadowOpacityPct":  0,
		"outlineOpacityPct": 0,
		"fontGradientKey":   "red.png",
	}, preset.Options{})
	res, err := layout.Build(frame, []layout.Instance{{Text: "RED", Style: s}}, layout.BuildOptions{Typesetter: r, Patterns: r})
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if len(res.Ops) != 1 || res.Ops[0].Pattern == nil {
		t.Fatalf("expected a single pattern fill op, got %+v", res.Ops)
	}
	img, err := r.Render(res)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	painted := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 0 {
			continue
		}
		painted++
		if img.Pix[i+1] != 0 || img.Pix[i+2] != 0 {
			t.Fatalf("gradient fill should only contribute red, got %v", img.Pix[i:i+4])
		}
	}
	if painted == 0 {
		t.Fatalf("no glyph pixels painted")
	}
}
