package input

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const jsonDoc = `{
  "frame": {"width": 1920, "height": 1080},
  "instances": [
    {"text": "Hello\r\nWorld", "preset": {"style": "strip", "fontSizePct": 6, "marginLeftPct": 12, "position": "bottom"}},
    {"text": "Second", "preset": {"placementRect": {"xPct": 10, "yPct": 70, "wPct": 50, "hPct": 20}, "fontColor": "#ffcc00"}}
  ]
}`

const yamlDoc = `
frame:
  width: 1920
  height: 1080
instances:
  - text: "Hello\r\nWorld"
    preset:
      style: strip
      fontSizePct: 6
      marginLeftPct: 12
      position: bottom
  - text: Second
    preset:
      placementRect: {xPct: 10, yPct: 70, wPct: 50, hPct: 20}
      fontColor: "#ffcc00"
`

const tomlDoc = `
[frame]
width = 1920
height = 1080

[[instances]]
text = "Hello\r\nWorld"
[instances.preset]
style = "strip"
fontSizePct = 6
marginLeftPct = 12
position = "bottom"

[[instances]]
text = "Second"
[instances.preset]
fontColor = "#ffcc00"
placementRect = { xPct = 10, yPct = 70, wPct = 50, hPct = 20 }
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写入 %s 失败: %v", name, err)
	}
	return path
}

// TestFormatsAgree 断言三种格式解析后得到相同的画面、文本与样式。
func TestFormatsAgree(t *testing.T) {
	var payloads []*Payload
	for name, body := range map[string]string{"a.json": jsonDoc, "a.yaml": yamlDoc, "a.toml": tomlDoc} {
		p, err := Load(writeFile(t, name, body))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		payloads = append(payloads, p)
	}
	base := payloads[0]
	if base.Frame.Width != 1920 || base.Frame.Height != 1080 || base.Legacy {
		t.Fatalf("画面解析错误: %+v", base)
	}
	if len(base.Instances) != 2 || base.Instances[0].Text != "Hello\nWorld" {
		t.Fatalf("实例解析错误: %+v", base.Instances)
	}
	for _, p := range payloads[1:] {
		if p.Frame != base.Frame {
			t.Fatalf("画面不一致: %+v vs %+v", p.Frame, base.Frame)
		}
		if !reflect.DeepEqual(p.Resolve(), base.Resolve()) {
			t.Fatalf("解析后的样式不一致:\n%+v\n%+v", p.Resolve(), base.Resolve())
		}
	}
}

func TestLegacySingleText(t *testing.T) {
	raw, err := Decode([]byte(`{"frame":{"width":1080,"height":1920},"text":"  Solo  ","preset":{"fontSizePct":1}}`), FormatJSON)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if !p.Legacy || len(p.Instances) != 1 || p.Instances[0].Text != "Solo" {
		t.Fatalf("单文本形式解析错误: %+v", p)
	}
	// 单文本路径下字号下限为 2%。
	if got := p.Resolve()[0].Style.FontSizePct; got != 2 {
		t.Fatalf("legacy 字号下限应为 2，实际 %g", got)
	}
}

func TestConfigErrors(t *testing.T) {
	cases := map[string]string{
		"zero width":     `{"frame":{"width":0,"height":10},"text":"x"}`,
		"negative":       `{"frame":{"width":10,"height":-1},"text":"x"}`,
		"fraction":       `{"frame":{"width":10.5,"height":10},"text":"x"}`,
		"no frame":       `{"text":"x"}`,
		"blank text":     `{"frame":{"width":10,"height":10},"text":" \r\n "}`,
		"no text":        `{"frame":{"width":10,"height":10}}`,
		"empty list":     `{"frame":{"width":10,"height":10},"instances":[]}`,
		"bad preset":     `{"frame":{"width":10,"height":10},"text":"x","preset":"pill"}`,
		"non-string":     `{"frame":{"width":10,"height":10},"instances":[{"text":5}]}`,
		"malformed json": `{"frame":`,
	}
	for name, doc := range cases {
		raw, err := Decode([]byte(doc), FormatJSON)
		if err == nil {
			_, err = Parse(raw)
		}
		if !errors.Is(err, ErrConfig) {
			t.Fatalf("%s: 期望 ErrConfig，实际 %v", name, err)
		}
	}
	if _, err := FormatFromPath("caption.xml"); !errors.Is(err, ErrConfig) {
		t.Fatalf("未知扩展名应返回 ErrConfig，实际 %v", err)
	}
}

func TestNormalizeText(t *testing.T) {
	// e + 组合重音 → 预组合字符
	if got := NormalizeText("Cafe\u0301\r\rX "); got != "Caf\u00e9\n\nX" {
		t.Fatalf("规范化结果错误: %q", got)
	}
}

func TestBindInterpolates(t *testing.T) {
	raw, err := Decode([]byte(`{"frame":{"width":10,"height":10},"data":{"name":"Ada"},
		"instances":[{"text":"Hi ${name}"},{"text":"${missing}"},{"text":"${gone|}"}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	p.Instances = p.Instances[:2]
	missing, err := p.Bind(nil)
	if err != nil {
		t.Fatalf("插值失败: %v", err)
	}
	if p.Instances[0].Text != "Hi Ada" || p.Instances[1].Text != "${missing}" {
		t.Fatalf("插值结果错误: %+v", p.Instances)
	}
	if !reflect.DeepEqual(missing, []string{"missing"}) {
		t.Fatalf("缺失路径错误: %v", missing)
	}

	p, _ = Parse(raw)
	if _, err := p.Bind(map[string]any{"name": "x"}); !errors.Is(err, ErrConfig) {
		t.Fatalf("插值后为空的文本应报 ErrConfig，实际 %v", err)
	}
}
