package runserver

import (
	"bytes"
	"strings"
)

const (
	// RunPath is the prefix of the run-trigger path.
	RunPath = "/run"
	// ExportsDirParam is the query parameter carrying the exports directory.
	ExportsDirParam = "exports_dir"
)

// ParseRequestLine returns the method and target of the first line in buf.
// ok is false when the line has fewer than two whitespace-separated tokens.
func ParseRequestLine(buf []byte) (method, target string, ok bool) {
	line := buf
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = bytes.TrimSuffix(line, []byte("\r"))

	fields := strings.Fields(strings.ToValidUTF8(string(line), "\uFFFD"))
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// IsRunPath reports whether target triggers a backend run.
func IsRunPath(target string) bool {
	return strings.HasPrefix(target, RunPath)
}

// QueryValue returns the percent-decoded value of the first query segment
// named key, or "" when the target has no query or no such segment.
func QueryValue(target, key string) string {
	_, query, found := strings.Cut(target, "?")
	if !found {
		return ""
	}

	prefix := key + "="
	for _, segment := range strings.Split(query, "&") {
		if value, ok := strings.CutPrefix(segment, prefix); ok {
			return PercentDecode(value)
		}
	}
	return ""
}

// PercentDecode decodes %XX escapes and '+' as space. A malformed escape
// keeps the '%' and the two characters after it; a truncated one keeps the
// rest of the input. Bytes that do not form valid
// UTF-8 after decoding are replaced.
func PercentDecode(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '%':
			if i+2 >= len(s) {
				// truncated escape
				out = append(out, s[i:]...)
				i = len(s)
				continue
			}
			if isHex(s[i+1]) && isHex(s[i+2]) {
				out = append(out, unhex(s[i+1])<<4|unhex(s[i+2]))
			} else {
				out = append(out, s[i:i+3]...)
			}
			i += 2
		case '+':
			out = append(out, ' ')
		default:
			out = append(out, c)
		}
	}
	return strings.ToValidUTF8(string(out), "\uFFFD")
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
