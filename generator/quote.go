package generator

import (
	"regexp"
	"strings"
)

var (
	// whitespace next to literal text, or the empty string. Whitespace
	// between variable references such as "${a} ${b}" does not count.
	needsQuotingRegex = regexp.MustCompile(`[^\}\s]\s|\s[^\s\$]|^$`)
	hasQuotesRegex    = regexp.MustCompile(`".*"`)
	quotedRegex       = regexp.MustCompile(`"(.*)"`)
)

// Quote returns elem in the form it is written as a CMake argument: values
// with whitespace in literal text, and empty values, get double quotes;
// quotes around values that do not need them are removed.
// Quote(Quote(x)) == Quote(x) for all x.
func Quote(elem string) string {
	for {
		needs := needsQuotingRegex.MatchString(elem)
		has := hasQuotesRegex.MatchString(elem)
		switch {
		case needs && !has:
			return `"` + elem + `"`
		case !needs && has:
			// removing one pair may reveal another
			elem = quotedRegex.ReplaceAllString(elem, "$1")
		default:
			return elem
		}
	}
}

// Unquote removes the quotes Quote would have added to s. Any other value
// is returned unchanged, so Quote(Unquote(Quote(x))) == Quote(x).
func Unquote(s string) string {
	if len(s) < 2 || !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return s
	}
	inner := s[1 : len(s)-1]
	if Quote(inner) != s {
		return s
	}
	return inner
}

// escapeBackslashes doubles backslashes for use inside a quoted argument.
func escapeBackslashes(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}
