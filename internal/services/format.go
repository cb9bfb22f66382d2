package services

import (
	"fmt"
	"math"
)

// CurrencyPrefix is the prefix of revenue metrics.
const CurrencyPrefix = "R$"

var units = [...]string{"", "mil", "milhões"}

// FormatNumber renders value as "{prefix} {value:.2f} {unit}", dividing by
// 1000 while the magnitude is at least 1000 and a larger unit remains.
// The magnitude test ignores the sign, so -1500 renders as " -1.50 mil".
func FormatNumber(value float64, prefix string) string {
	unit := 0
	for unit < len(units)-1 && math.Abs(value) >= 1000 {
		value /= 1000
		unit++
	}
	return fmt.Sprintf("%s %.2f %s", prefix, value, units[unit])
}
