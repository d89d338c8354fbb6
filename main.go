package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/screentitle/input"
	"github.com/ByLCY/screentitle/layout"
	"github.com/ByLCY/screentitle/renderer"
	canvasrenderer "github.com/ByLCY/screentitle/renderer/canvas"
)

// 退出码
const (
	exitOK = iota
	exitFailure
	exitConfig
	exitEngine
	exitEncode
)

func main() {
	in := flag.String("in", "", "字幕配置文件路径（.json/.yaml/.toml）")
	output := flag.String("out", "output/title.png", "PNG 输出路径")
	assets := flag.String("assets", "", "资源目录（fonts/、font_gradients/），默认与配置文件同目录")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "用于 ${path} 插值的 JSON 数据，覆盖配置中的 data")
	logLevel := flag.String("log-level", "warn", "日志级别：debug/info/warn/error")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	layout.SetLogger(logger)

	if *in == "" {
		logger.Error("缺少 -in 参数")
		os.Exit(exitConfig)
	}
	var data any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &data); err != nil {
			logger.Error("解析 data JSON 失败", slog.Any("err", err))
			os.Exit(exitConfig)
		}
	}
	if *assets == "" {
		*assets = filepath.Dir(*in)
	}

	r := canvasrenderer.NewRenderer(*assets)
	if err := run(*in, *output, *debug, data, r); err != nil {
		logger.Error("生成字幕图失败", slog.Any("err", err))
		os.Exit(exitCode(err))
	}
	fmt.Printf("已生成字幕图：%s\n", *output)
}

// engine 是 CLI 需要的渲染后端能力集合。
type engine interface {
	renderer.Renderer
	layout.Typesetter
	layout.PatternSource
	Probe() error
}

// run 串联配置加载、布局与渲染；只有全部成功后才写出 PNG。
func run(inputPath, outputPath, debugPath string, data any, r engine) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	if err := r.Probe(); err != nil {
		return fmt.Errorf("初始化渲染引擎失败: %w", err)
	}

	payload, err := input.Load(inputPath)
	if err != nil {
		return fmt.Errorf("读取配置失败: %w", err)
	}
	missing, err := payload.Bind(data)
	if err != nil {
		return fmt.Errorf("插值失败: %w", err)
	}
	if len(missing) > 0 {
		layout.Logger().Warn("unresolved placeholders", slog.String("paths", strings.Join(missing, ",")))
	}

	result, err := layout.Build(payload.Frame, payload.Resolve(), layout.BuildOptions{
		Typesetter: r,
		Patterns:   r,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	img, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("%w: 创建输出目录失败: %v", renderer.ErrEncode, err)
	}
	if err := renderer.WritePNG(img, outputPath); err != nil {
		return fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	f, err := os.Create(debugPath)
	if err != nil {
		return fmt.Errorf("创建调试文件失败: %w", err)
	}
	defer f.Close()
	if err := layout.WriteDebugJSON(result, f); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return f.Close()
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, input.ErrConfig):
		return exitConfig
	case errors.Is(err, renderer.ErrEngineUnavailable):
		return exitEngine
	case errors.Is(err, renderer.ErrEncode):
		return exitEncode
	default:
		return exitFailure
	}
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return l
}
