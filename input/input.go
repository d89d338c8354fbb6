// Package input loads the invocation config (frame plus caption instances)
// from JSON, YAML or TOML and normalizes it for the layout engine.
package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/screentitle/binding"
	"github.com/ByLCY/screentitle/layout"
	"github.com/ByLCY/screentitle/preset"
)

// ErrConfig 标记所有配置类错误，CLI 据此返回退出码 2。
var ErrConfig = errors.New("invalid config")

// ConfigError 描述某个字段的配置问题。
type ConfigError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("配置错误")
	if e.Field != "" {
		b.WriteString(" [" + e.Field + "]")
	}
	b.WriteString(": " + e.Msg)
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is 让 errors.Is(err, ErrConfig) 对所有 ConfigError 成立。
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func configErr(field, msg string, err error) error {
	return &ConfigError{Field: field, Msg: msg, Err: err}
}

// Format 是配置文件格式。
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath 按扩展名判断格式。
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", configErr("", fmt.Sprintf("不支持的配置文件格式 %q", filepath.Ext(path)), nil)
	}
}

// Instance 是一条待排版的字幕：规范化后的文本与原始预设。
type Instance struct {
	Text   string
	Preset map[string]any
}

// Payload 是一次合成调用的完整输入。
type Payload struct {
	Frame     layout.Frame
	Instances []Instance
	// Legacy 为 true 表示输入采用单文本 {text, preset} 形式。
	Legacy bool
	// Data 是配置内联的插值数据，可被 -data 覆盖。
	Data any
}

// Load 读取并解析配置文件。
func Load(path string) (*Payload, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configErr("", "无法读取配置文件 "+path, err)
	}
	raw, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Decode 将配置文本解码为通用映射。JSON 数字保留为 json.Number。
func Decode(data []byte, format Format) (map[string]any, error) {
	raw := map[string]any{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, configErr("", "JSON 解析失败", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, configErr("", "YAML 解析失败", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, configErr("", "TOML 解析失败", err)
		}
	default:
		return nil, configErr("", fmt.Sprintf("未知格式 %q", format), nil)
	}
	if raw == nil {
		return nil, configErr("", "配置为空", nil)
	}
	return raw, nil
}

// Parse 校验通用映射并构造 Payload。
func Parse(raw map[string]any) (*Payload, error) {
	frame, err := parseFrame(raw["frame"])
	if err != nil {
		return nil, err
	}
	p := &Payload{Frame: frame, Data: raw["data"]}

	list, hasList := raw["instances"]
	if !hasList || list == nil {
		// 单文本形式
		if _, ok := raw["text"]; !ok {
			return nil, configErr("instances", "缺少 instances 或 text", nil)
		}
		inst, err := parseInstance("text", raw)
		if err != nil {
			return nil, err
		}
		p.Legacy = true
		p.Instances = []Instance{inst}
		return p, nil
	}

	items, ok := list.([]any)
	if !ok {
		return nil, configErr("instances", "必须是数组", nil)
	}
	if len(items) == 0 {
		return nil, configErr("instances", "至少需要一条字幕", nil)
	}
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, configErr(fmt.Sprintf("instances[%d]", i), "必须是对象", nil)
		}
		inst, err := parseInstance(fmt.Sprintf("instances[%d].text", i), m)
		if err != nil {
			return nil, err
		}
		p.Instances = append(p.Instances, inst)
	}
	return p, nil
}

func parseInstance(field string, m map[string]any) (Instance, error) {
	text, ok := m["text"].(string)
	if !ok {
		return Instance{}, configErr(field, "必须是字符串", nil)
	}
	text = NormalizeText(text)
	if text == "" {
		return Instance{}, configErr(field, "文本为空", nil)
	}
	inst := Instance{Text: text, Preset: map[string]any{}}
	switch pr := m["preset"].(type) {
	case nil:
	case map[string]any:
		inst.Preset = pr
	default:
		return Instance{}, configErr(strings.TrimSuffix(field, "text")+"preset", "必须是对象", nil)
	}
	return inst, nil
}

func parseFrame(v any) (layout.Frame, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return layout.Frame{}, configErr("frame", "缺少 frame 对象", nil)
	}
	w, err := dimension("frame.width", m["width"])
	if err != nil {
		return layout.Frame{}, err
	}
	h, err := dimension("frame.height", m["height"])
	if err != nil {
		return layout.Frame{}, err
	}
	return layout.Frame{Width: w, Height: h}, nil
}

// dimension 接受各解码器产出的整数表示，要求为正整数。
func dimension(field string, v any) (int, error) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return 0, configErr(field, "不是数字", err)
		}
		f = x
	case nil:
		return 0, configErr(field, "缺失", nil)
	default:
		return 0, configErr(field, fmt.Sprintf("类型无效 %T", v), nil)
	}
	if math.IsNaN(f) || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, configErr(field, fmt.Sprintf("必须是整数，实际 %v", v), nil)
	}
	if f <= 0 {
		return 0, configErr(field, fmt.Sprintf("必须大于 0，实际 %v", v), nil)
	}
	return int(f), nil
}

// NormalizeText 统一换行为 LF，做 NFC 归一化并去掉首尾空白。
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(norm.NFC.String(s))
}

// Bind 用 data 插值所有字幕文本，返回无法解析的占位符路径。data 为 nil 时使用配置内联数据。
func (p *Payload) Bind(data any) ([]string, error) {
	if data == nil {
		data = p.Data
	}
	if data == nil {
		return nil, nil
	}
	var missing []string
	for i := range p.Instances {
		text, miss := binding.Expand(p.Instances[i].Text, data)
		text = NormalizeText(text)
		if text == "" {
			return missing, configErr(fmt.Sprintf("instances[%d].text", i), "插值后文本为空", nil)
		}
		p.Instances[i].Text = text
		missing = append(missing, miss...)
	}
	return missing, nil
}

// Resolve 解析每条字幕的预设，得到布局输入。
func (p *Payload) Resolve() []layout.Instance {
	opts := preset.Options{Legacy: p.Legacy}
	out := make([]layout.Instance, 0, len(p.Instances))
	for _, inst := range p.Instances {
		out = append(out, layout.Instance{Text: inst.Text, Style: preset.Resolve(inst.Preset, opts)})
	}
	return out
}
