package fmt

import (
	"fmt"
	"strings"
)

// SprintFloat formats value with up to decimal places, removing trailing zeros. Values that
// round to zero are always printed as "0", never "-0".
func SprintFloat(value float64, decimal uint) string {
	var floatStr string
	if decimal > 0 {
		floatFormat := fmt.Sprintf("%%.%df", decimal)
		floatStr = fmt.Sprintf(floatFormat, value)
		floatStr = strings.TrimRight(strings.TrimRight(floatStr, "0"), ".")
	} else {
		floatStr = fmt.Sprintf("%.0f", value)
	}
	if floatStr == "-0" {
		return "0"
	}
	return floatStr
}
