package services

import (
	"regexp"
	"strconv"
)

var nonDigits = regexp.MustCompile(`[^0-9]+`)

// ParseDrawnInput extracts drawn numbers from free text (the host can
// paste "5, 12 33-90"). Out-of-range values are dropped, duplicates
// removed keeping first occurrence order.
func ParseDrawnInput(text string) []int {
	seen := make(map[int]struct{})
	out := []int{}
	for _, tok := range nonDigits.Split(text, -1) {
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 || n > 90 {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
