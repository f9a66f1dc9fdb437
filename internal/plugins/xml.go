package plugins

import (
	"encoding/xml"
	"strings"
)

// xmlText escapes s for use as XML character data or an attribute value.
func xmlText(s string) string {
	var b strings.Builder
	// Writes to a strings.Builder cannot fail.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
