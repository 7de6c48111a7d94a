package pricing

import (
	"strconv"
	"strings"
)

// ParseLeadingInt reads the integer prefix of s, ignoring leading spaces.
// "512GB" yields 512, "2021" yields 2021 and anything without a leading digit
// yields 0.
func ParseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
