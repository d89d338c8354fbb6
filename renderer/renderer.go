// Package renderer executes a layout result onto a raster surface and writes it out.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ByLCY/screentitle/layout"
)

var (
	// ErrEngineUnavailable 表示图形/文字引擎无法初始化（例如字体无法加载）。
	ErrEngineUnavailable = errors.New("text/graphics engine unavailable")
	// ErrEncode 表示最终图像写出失败。
	ErrEncode = errors.New("encode output image")
)

// Renderer 按顺序执行布局结果中的绘制指令，返回与画面等大的透明底图像。
type Renderer interface {
	Render(result *layout.Result) (*image.RGBA, error)
}

// WritePNG 先写入同目录下的临时文件，成功后再重命名，失败时不会留下半个文件。
func WritePNG(img image.Image, path string) (err error) {
	if img == nil {
		return fmt.Errorf("%w: 图像为空", ErrEncode)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = png.Encode(tmp, img); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}
