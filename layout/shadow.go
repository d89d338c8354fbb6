package layout

import "math"

// ShadowSample 是一次阴影采样：相对偏移与归一化前的权重。
type ShadowSample struct {
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Weight float64 `json:"weight"`
}

const (
	blurEpsilon     = 0.01
	shadowRingTaps  = 8
	centerWeight    = 3.5
	innerRingWeight = 1.6
	outerRingWeight = 0.9
	innerRingFactor = 0.55
	minInnerRingRad = 0.5
	minOuterRingRad = 0.8
)

// ShadowSamples 用多点采样近似模糊：blur≈0 时 1 个样本，否则中心 + 两圈各 8 个，共 17 个。
func ShadowSamples(blur float64) []ShadowSample {
	if blur <= blurEpsilon {
		return []ShadowSample{{Weight: 1}}
	}
	inner := math.Max(minInnerRingRad, innerRingFactor*blur)
	outer := math.Max(minOuterRingRad, blur)
	out := make([]ShadowSample, 0, 1+2*shadowRingTaps)
	out = append(out, ShadowSample{Weight: centerWeight})
	for _, ring := range []struct{ r, w float64 }{{inner, innerRingWeight}, {outer, outerRingWeight}} {
		for i := 0; i < shadowRingTaps; i++ {
			a := 2 * math.Pi * float64(i) / shadowRingTaps
			out = append(out, ShadowSample{DX: ring.r * math.Cos(a), DY: ring.r * math.Sin(a), Weight: ring.w})
		}
	}
	return out
}

// ShadowAlphas returns opacity·w/Σw for each sample; the result sums to opacity.
func ShadowAlphas(samples []ShadowSample, opacity float64) []float64 {
	total := 0.0
	for _, s := range samples {
		total += s.Weight
	}
	out := make([]float64, len(samples))
	if total <= 0 {
		return out
	}
	for i, s := range samples {
		out[i] = opacity * s.Weight / total
	}
	return out
}
