// Package fontkey resolves screen-title font keys into concrete font descriptors.
//
// Two key shapes are accepted:
//
//	dejavu_sans_bold              built-in key, looked up in a fixed table
//	fc:<family>:<style>           dynamic key, family/style are URL-escaped
//
// Style strings ("Bold Italic", "SemiBold", "Black Oblique") are tokenized and
// mapped through a closed weight table instead of ad hoc string scanning.
package fontkey

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// DefaultKey is used when a preset carries no (or an unknown) font key.
const DefaultKey = "dejavu_sans_bold"

var (
	keyLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Colon", Pattern: `:`},
		{Name: "Word", Pattern: `[^:]+`},
	})

	styleLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Word", Pattern: `[A-Za-z]+`},
		{Name: "Sep", Pattern: `[^A-Za-z]+`},
	})

	keyParser = participle.MustBuild[keyAST](
		participle.Lexer(keyLexer),
	)

	styleParser = participle.MustBuild[styleAST](
		participle.Lexer(styleLexer),
		participle.Elide("Sep"),
	)
)

// keyAST is the root node of a font key.
type keyAST struct {
	Head    string       `parser:"@Word"`
	Dynamic *dynamicPart `parser:"@@?"`
}

// dynamicPart holds the ":<family>:<style>" tail of an fc: key. Either segment
// may be empty: the family then defaults and the style reads as Normal.
type dynamicPart struct {
	Family Escaped `parser:"':' @Word?"`
	Style  Escaped `parser:"( ':' @Word? )?"`
}

// styleAST is a style string split into alphabetic words.
type styleAST struct {
	Words []string `parser:"@Word*"`
}

// Escaped unescapes URL-encoded segments on capture.
type Escaped string

// Capture implements participle.Capture.
func (e *Escaped) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("escaped segment capture requires value")
	}
	val, err := url.PathUnescape(values[0])
	if err != nil {
		return err
	}
	*e = Escaped(strings.TrimSpace(val))
	return nil
}

// Descriptor is a resolved font request: family name, weight class and slant.
type Descriptor struct {
	Family string `json:"family"`
	Weight Weight `json:"weight"`
	Italic bool   `json:"italic"`
}

func (d Descriptor) String() string {
	s := d.Family + " " + d.Weight.String()
	if d.Italic {
		s += " Italic"
	}
	return s
}

var builtins = map[string]Descriptor{
	"dejavu_sans_regular":     {Family: "DejaVu Sans", Weight: WeightNormal},
	"dejavu_sans_bold":        {Family: "DejaVu Sans", Weight: WeightUltraBold},
	"dejavu_sans_italic":      {Family: "DejaVu Sans", Weight: WeightNormal, Italic: true},
	"dejavu_sans_bold_italic": {Family: "DejaVu Sans", Weight: WeightUltraBold, Italic: true},
	"caveat_regular":          {Family: "Caveat", Weight: WeightNormal},
	"caveat_medium":           {Family: "Caveat", Weight: WeightMedium},
	"caveat_semibold":         {Family: "Caveat", Weight: WeightSemiBold},
	"caveat_bold":             {Family: "Caveat", Weight: WeightBold},
}

// Default returns the descriptor of DefaultKey.
func Default() Descriptor { return builtins[DefaultKey] }

// IsBuiltin reports whether key names a built-in variant.
func IsBuiltin(key string) bool {
	_, ok := builtins[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// Resolve maps a font key to a descriptor. It never fails: malformed or
// unknown keys yield Default().
func Resolve(key string) Descriptor {
	d, err := Parse(key)
	if err != nil {
		return Default()
	}
	return d
}

// Parse is Resolve with the parse error exposed, for validation paths.
func Parse(key string) (Descriptor, error) {
	raw := strings.TrimSpace(key)
	if raw == "" {
		return Default(), nil
	}
	ast, err := keyParser.ParseString("", raw)
	if err != nil {
		return Descriptor{}, fmt.Errorf("font key %q: %w", key, err)
	}
	if ast.Dynamic == nil {
		if d, ok := builtins[strings.ToLower(ast.Head)]; ok {
			return d, nil
		}
		return Descriptor{}, fmt.Errorf("font key %q: unknown built-in", key)
	}
	if !strings.EqualFold(ast.Head, "fc") {
		return Descriptor{}, fmt.Errorf("font key %q: unknown scheme %q", key, ast.Head)
	}
	d := Default()
	if fam := string(ast.Dynamic.Family); fam != "" {
		d.Family = fam
	}
	d.Weight, d.Italic = ParseStyle(string(ast.Dynamic.Style))
	return d, nil
}

// ParseStyle maps a free-form style string to a weight class and italic flag.
// An empty or unparsable style is Normal, upright.
func ParseStyle(style string) (Weight, bool) {
	ast, err := styleParser.ParseString("", style)
	if err != nil || ast == nil {
		return WeightNormal, false
	}
	words := make([]string, len(ast.Words))
	for i, w := range ast.Words {
		words[i] = strings.ToLower(w)
	}
	return lookupWeight(words), hasSlant(words)
}
