package fontkey

import (
	"encoding/json"
	"strings"
)

// Weight is the closed set of weight classes the renderer understands.
type Weight int

const (
	WeightNormal Weight = iota
	WeightMedium
	WeightSemiBold
	WeightBold
	WeightUltraBold
	WeightHeavy
)

var weightNames = [...]string{
	WeightNormal:    "Normal",
	WeightMedium:    "Medium",
	WeightSemiBold:  "SemiBold",
	WeightBold:      "Bold",
	WeightUltraBold: "UltraBold",
	WeightHeavy:     "Heavy",
}

// CSS numeric weight for each class.
var weightCSS = [...]int{
	WeightNormal:    400,
	WeightMedium:    500,
	WeightSemiBold:  600,
	WeightBold:      700,
	WeightUltraBold: 800,
	WeightHeavy:     900,
}

func (w Weight) String() string {
	if w < 0 || int(w) >= len(weightNames) {
		return weightNames[WeightNormal]
	}
	return weightNames[w]
}

// CSS returns the numeric (100..900) weight.
func (w Weight) CSS() int {
	if w < 0 || int(w) >= len(weightCSS) {
		return weightCSS[WeightNormal]
	}
	return weightCSS[w]
}

// MarshalJSON writes the weight by name so debug output stays readable.
func (w Weight) MarshalJSON() ([]byte, error) { return json.Marshal(w.String()) }

// weightRules is checked top to bottom; the first rule whose needle occurs in
// any style word wins. Order matters: "semibold" must be tested before "bold",
// "ultra"/"black" before everything else.
var weightRules = []struct {
	needle string
	weight Weight
}{
	{"ultra", WeightUltraBold},
	{"black", WeightUltraBold},
	{"heavy", WeightHeavy},
	{"semibold", WeightSemiBold},
	{"demibold", WeightSemiBold},
	{"medium", WeightMedium},
	{"bold", WeightBold},
}

var slantWords = []string{"italic", "oblique"}

func lookupWeight(words []string) Weight {
	for _, rule := range weightRules {
		for _, w := range words {
			if strings.Contains(w, rule.needle) {
				return rule.weight
			}
		}
	}
	return WeightNormal
}

func hasSlant(words []string) bool {
	for _, w := range words {
		for _, s := range slantWords {
			if strings.Contains(w, s) {
				return true
			}
		}
	}
	return false
}
