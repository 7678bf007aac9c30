package utils

import "strings"

var sizeAliases = map[string]string{
	"MINI":        "MN",
	"INTERMEDIO":  "IT",
	"EXTRA SMALL": "XS",
	"SMALL":       "S",
	"MEDIUM":      "M",
	"LARGE":       "L",
	"EXTRA LARGE": "XL",
}

// NormalizeSize normalizes size labels to their short code.
// Mini -> MN, Intermedio -> IT
func NormalizeSize(size string) string {
	upper := strings.ToUpper(strings.TrimSpace(size))
	if code, ok := sizeAliases[upper]; ok {
		return code
	}
	return upper
}
