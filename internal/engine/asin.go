package engine

import (
	"regexp"
	"strings"
)

// asinPattern extracts a 10-character alphanumeric product code. Matching
// positionally on the token makes the extraction tolerant of asin=/asin:
// markers and quoting around it, at the cost of matching any unrelated
// 10-character token too. That breadth is a known precision limitation of
// the upstream report format and is kept as-is.
var asinPattern = regexp.MustCompile(`\b[A-Za-z0-9]{10}\b`)

// ExtractASIN pulls a product code from a targeting expression, falling back
// to the product targeting id. The result is normalized to upper case.
// ok=false means the record carries no recognizable ASIN and must be left
// out of ASIN grouping entirely.
func ExtractASIN(expression, targetingID string) (asin string, ok bool) {
	if m := asinPattern.FindString(expression); m != "" {
		return strings.ToUpper(m), true
	}
	if m := asinPattern.FindString(targetingID); m != "" {
		return strings.ToUpper(m), true
	}
	return "", false
}
