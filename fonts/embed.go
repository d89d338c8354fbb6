// Package fonts supplies font bytes for a resolved font descriptor: first from
// an asset directory, then from the embedded Go font family.
package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/screentitle/fontkey"
)

// Source 标明字体数据来自哪里，便于日志与调试。
type Source struct {
	Name string // 文件名或内置字体名
	Path string // 资源目录中的完整路径；内置字体为空
}

// Embedded reports whether the bytes came from the built-in Go fonts.
func (s Source) Embedded() bool { return s.Path == "" }

var fontExts = []string{".ttf", ".otf"}

// StyleName returns the file style suffix for d: "Regular", "Bold", "SemiBoldItalic", "Italic", ...
func StyleName(d fontkey.Descriptor) string {
	w := d.Weight.String()
	if d.Weight == fontkey.WeightNormal {
		w = "Regular"
	}
	if d.Italic {
		if w == "Regular" {
			return "Italic"
		}
		return w + "Italic"
	}
	return w
}

// candidates 生成资源目录中可能的文件名：<Family>-<Style> 与去空格的 <Family>-<Style>。
func candidates(d fontkey.Descriptor) []string {
	style := StyleName(d)
	fams := []string{d.Family}
	if compact := strings.ReplaceAll(d.Family, " ", ""); compact != d.Family {
		fams = append(fams, compact)
	}
	var out []string
	for _, f := range fams {
		for _, ext := range fontExts {
			out = append(out, f+"-"+style+ext)
		}
	}
	return out
}

// Load 返回 d 对应的字体数据。assetsDir 为空或找不到文件时使用内置字体，按最接近的字重与斜体选择。
func Load(assetsDir string, d fontkey.Descriptor) ([]byte, Source, error) {
	if assetsDir != "" {
		dir := filepath.Join(assetsDir, "fonts")
		for _, name := range candidates(d) {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err == nil {
				return data, Source{Name: name, Path: path}, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, Source{}, fmt.Errorf("读取字体 %s 失败: %w", path, err)
			}
		}
	}
	name, data := Embedded(d)
	return data, Source{Name: name}, nil
}

// Embedded picks the closest built-in Go font for d.
func Embedded(d fontkey.Descriptor) (string, []byte) {
	switch {
	case d.Weight >= fontkey.WeightBold && d.Italic:
		return "Go-BoldItalic", gobolditalic.TTF
	case d.Weight >= fontkey.WeightBold:
		return "Go-Bold", gobold.TTF
	case d.Weight >= fontkey.WeightMedium && d.Italic:
		return "Go-MediumItalic", gomediumitalic.TTF
	case d.Weight >= fontkey.WeightMedium:
		return "Go-Medium", gomedium.TTF
	case d.Italic:
		return "Go-Italic", goitalic.TTF
	default:
		return "Go-Regular", goregular.TTF
	}
}
