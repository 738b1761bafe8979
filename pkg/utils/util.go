package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/k3a/html2text"
)

// CleanHTMLText turns an HTML email body into plain text with line breaks preserved
func CleanHTMLText(html string) string {
	text := html2text.HTML2TextWithOptions(html, html2text.WithUnixLineBreaks())
	return strings.TrimSpace(text)
}

// FormatDuration formats d as HH:MM, dropping seconds. Negative durations keep a leading minus.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Truncate(time.Minute)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
}

// normalizeText turns CRLF and CR into LF and every Unicode space separator
// (NBSP from &nbsp; included) into an ASCII space, since RE2's \s is ASCII-only
func normalizeText(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r != ' ' && unicode.Is(unicode.Zs, r) {
			return ' '
		}
		return r
	}, body)
}
