// Package formatting parses and formats human-readable byte sizes.
package formatting

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// units are base-1024 multiples, indexed by power.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above 1, using precision decimal places. Negative precision is treated as 0.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	size := float64(n)
	i := 0
	for ; i < len(units)-1 && (size >= 1024 || size <= -1024); i++ {
		size /= 1024
	}

	if i == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses sizes such as "50MB", "1.5 gb" or "1024" into a byte
// count. A bare number is bytes. Units are base-1024 and case-insensitive.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})

	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.ToUpper(strings.TrimSpace(s[split:]))
	}
	if number == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number %q: %w", number, err)
	}

	if unit == "" {
		return int64(value), nil
	}

	power := slices.Index(units, unit)
	if power < 0 {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}

	for range power {
		value *= 1024
	}
	return int64(value), nil
}
