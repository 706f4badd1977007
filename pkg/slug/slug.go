package slug

import (
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Make turns a display name into a URL-safe slug. Runs of anything other
// than ASCII letters and digits collapse into a single hyphen. The result
// may be empty.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = invalidChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
