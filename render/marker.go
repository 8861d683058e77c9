package render

import (
	"fmt"
	"strconv"
	"strings"
)

// markerDelim brackets internal placeholder markers. Verbatim text is
// checked with Verbatim, so markers never collide with raw fragments such
// as PostgreSQL dollar quoting.
const markerDelim = '\x00'

// Verbatim returns text unchanged for inclusion in rendered SQL. It panics
// if text contains a NUL byte, which would be read as a placeholder marker.
func Verbatim(text string) string {
	if strings.IndexByte(text, markerDelim) >= 0 {
		panic(fmt.Sprintf("wherekit: NUL byte in verbatim SQL %q", text))
	}
	return text
}

func marker(n int) string {
	return string(markerDelim) + strconv.Itoa(n) + string(markerDelim)
}

// parseMarker decodes the marker at the start of s, returning its number
// and its width in bytes.
func parseMarker(s string) (int, int) {
	end := strings.IndexByte(s[1:], markerDelim)
	if end < 0 {
		panic(fmt.Sprintf("wherekit: unterminated placeholder marker in %q", s))
	}
	n, err := strconv.Atoi(s[1 : end+1])
	if err != nil || n < 0 {
		panic(fmt.Sprintf("wherekit: malformed placeholder marker %q", s[:end+2]))
	}
	return n, end + 2
}
