package catalog

import "github.com/lunarpine/menagerie-api/internal/balance"

// Element is a creature or ally element.
type Element string

// The closed element enumeration.
const (
	ElementFire   Element = "fire"
	ElementWater  Element = "water"
	ElementEarth  Element = "earth"
	ElementStorm  Element = "storm"
	ElementShadow Element = "shadow"
	ElementLight  Element = "light"
)

// ValidElement reports whether e is a recognized element.
func ValidElement(e Element) bool {
	switch e {
	case ElementFire, ElementWater, ElementEarth, ElementStorm, ElementShadow, ElementLight:
		return true
	}
	return false
}

var (
	typeAdvantage = 1 + float64(balance.ValueAt(5))/10 // 1.5
	typeResist    = 1 - float64(balance.ValueAt(5))/10 // 0.5
)

// typeChart maps attacking element to defending element to multiplier.
// Effectiveness is directional: fire being strong against earth says
// nothing about earth against fire unless earth's own row encodes it.
// Absent entries are neutral.
var typeChart = map[Element]map[Element]float64{
	ElementFire: {
		ElementEarth: typeAdvantage,
		ElementWater: typeResist,
	},
	ElementWater: {
		ElementFire:  typeAdvantage,
		ElementStorm: typeResist,
	},
	ElementEarth: {
		ElementStorm: typeAdvantage,
		ElementFire:  typeResist,
	},
	ElementStorm: {
		ElementWater: typeAdvantage,
		ElementEarth: typeResist,
	},
	ElementShadow: {
		ElementLight: typeAdvantage,
	},
	ElementLight: {
		ElementShadow: typeAdvantage,
	},
}

// TypeChartRow returns a copy of the attacking element's row, or nil when
// the element has no encoded matchups.
func TypeChartRow(attacker Element) map[Element]float64 {
	row, ok := typeChart[attacker]
	if !ok {
		return nil
	}
	out := make(map[Element]float64, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
