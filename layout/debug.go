package layout

import (
	"encoding/json"
	"io"
)

// debugDoc 在 Result 之外附带每个实例的阴影采样，便于核对模糊近似。
type debugDoc struct {
	*Result
	Shadows map[int][]ShadowSample `json:"shadows,omitempty"`
}

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, w io.Writer) error {
	if res == nil {
		return nil
	}
	doc := debugDoc{Result: res, Shadows: map[int][]ShadowSample{}}
	for _, inst := range res.Instances {
		if inst.Style.ShadowOpacity() > 0 {
			doc.Shadows[inst.Index] = ShadowSamples(inst.Metrics.Blur)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
