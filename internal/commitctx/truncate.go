package commitctx

import "strings"

// Truncate clamps text to maxLines lines (keeping the first ones) and then
// maxBytes bytes, without ever splitting a multi-byte character. A cap <= 0
// disables that dimension. The bool reports whether either clamp fired.
func Truncate(text string, maxLines, maxBytes int) (string, bool) {
	truncated := false
	if maxLines > 0 {
		lines := splitLines(text)
		if len(lines) > maxLines {
			text = strings.Join(lines[:maxLines], "\n")
			truncated = true
		}
	}
	if maxBytes > 0 && len(text) > maxBytes {
		text = truncateBytes(text, maxBytes)
		truncated = true
	}
	return text, truncated
}

// splitLines splits on newlines without counting a trailing newline as an
// extra empty line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// truncateBytes cuts text at maxBytes and walks backward over any trailing
// partial UTF-8 sequence.
func truncateBytes(text string, maxBytes int) string {
	b := []byte(text)[:maxBytes]
	for len(b) > 0 && b[len(b)-1]&0xC0 == 0x80 {
		b = b[:len(b)-1]
	}
	// The cut may also leave a bare lead byte behind.
	if len(b) > 0 && b[len(b)-1] >= 0xC0 {
		b = b[:len(b)-1]
	}
	return string(b)
}
