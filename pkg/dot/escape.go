package dot

import "strings"

// Only double quotes and newlines are escaped. Other DOT metacharacters
// (backslashes, angle brackets) pass through as-is.
var escaper = strings.NewReplacer(`"`, `\"`, "\n", `\n`)

// EscapeID escapes a node identifier for use inside double quotes.
func EscapeID(id string) string {
	return escaper.Replace(id)
}

// EscapeLabel escapes a label value for use inside double quotes.
func EscapeLabel(label string) string {
	return escaper.Replace(label)
}
