// Package courtportal builds, decodes and paginates search URLs for the
// Alabama Appeals Court public portal and parses the case tables it renders.
//
// The portal keeps its whole search state in a single criteria query
// parameter written in its own dialect: "~" separates keys from values and
// fields from each other, "%28"/"%29" open and close nested blocks, "%27"
// marks string values and "%2a2f" stands in for "/" inside dates.
package courtportal

import (
	"strings"
)

// SlashEscape is the sequence the portal uses in place of "/" in date fields.
const SlashEscape = "%2a2f"

// decodedSlashEscape is what SlashEscape looks like after percent-decoding.
const decodedSlashEscape = "*2f"

// Decode turns a portal URL into a plain-text form that is easier to match
// against: percent escapes are resolved and the slash escape becomes "/".
// Malformed escapes are left as they are.
func Decode(raw string) string {
	decoded := unescapePercent(raw)

	// The slash escape survives percent-decoding as "*2f" (or "*2F")
	decoded = strings.ReplaceAll(decoded, decodedSlashEscape, "/")
	decoded = strings.ReplaceAll(decoded, "*2F", "/")

	return decoded
}

// EncodeSensitiveChars re-applies the one substitution the portal requires
// after a decoded URL has been edited: every "/" becomes SlashEscape. The
// other structural characters are accepted by the portal in decoded form.
func EncodeSensitiveChars(raw string) string {
	return strings.ReplaceAll(raw, "/", SlashEscape)
}

// unescapePercent resolves %XX sequences with valid hex digits and copies
// everything else through unchanged. Unlike url.QueryUnescape it never fails
// and does not treat "+" as a space.
func unescapePercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}

	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
