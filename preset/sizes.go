package preset

import (
	"strings"

	"github.com/ByLCY/screentitle/fontkey"
)

// SizePreset is one named font size step for a family, tuned against a 1080×1920 frame.
type SizePreset struct {
	FontSizePct    float64 `json:"fontSizePct"`
	TrackingPct    float64 `json:"trackingPct"`
	LineSpacingPct float64 `json:"lineSpacingPct"`
}

// SizeKeys lists the accepted sizeKey values, smallest first.
var SizeKeys = []string{"x_small", "small", "medium", "large", "x_large"}

func steps(pcts ...float64) map[string]SizePreset {
	m := make(map[string]SizePreset, len(SizeKeys))
	for i, k := range SizeKeys {
		m[k] = SizePreset{FontSizePct: pcts[i]}
	}
	return m
}

// familySizes 以 family 的 snake_case 名称为键。
var familySizes = map[string]map[string]SizePreset{
	"dejavu_sans": steps(2.8, 3.4, 4.2, 5.2, 6.4),
	"caveat":      steps(3.2, 3.8, 4.6, 5.6, 6.8),
	"aladin":      steps(2.9, 3.6, 4.4, 5.4, 6.6),
	"pirata_one":  steps(2.9, 3.6, 4.4, 5.4, 6.6),
	"titan_one":   steps(2.6, 3.2, 3.9, 4.8, 5.7),
}

// FamilyKey converts a family name such as "Pirata One" to "pirata_one".
func FamilyKey(family string) string {
	return strings.Join(strings.Fields(strings.ToLower(family)), "_")
}

// LookupSize returns the size preset of fontKey's family; unknown families use DejaVu Sans steps.
func LookupSize(fontKey, sizeKey string) (SizePreset, bool) {
	if sizeKey == "" {
		return SizePreset{}, false
	}
	table, ok := familySizes[FamilyKey(fontkey.Resolve(fontKey).Family)]
	if !ok {
		table = familySizes["dejavu_sans"]
	}
	p, ok := table[sizeKey]
	return p, ok
}
