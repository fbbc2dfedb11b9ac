package utils

import (
	"regexp"
	"strings"
)

// Matches the jurisdiction segment of a reverse-geocoded address,
// e.g. "..., Colombo District, Western Province" yields "Colombo".
var districtRe = regexp.MustCompile(`(?i),\s*([^,]+?)\s+District\s*,`)

// ExtractDistrict pulls the district name out of a free-form address
// string, or returns "" when no district segment is present.
func ExtractDistrict(addressText string) string {
	m := districtRe.FindStringSubmatch(addressText)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
