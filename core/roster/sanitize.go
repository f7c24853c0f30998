package roster

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// quoteChars are the straight and curly quotes trimmed around notes and roster fields.
const quoteChars = `"'“”‘’`

var (
	nbspRegex      = regexp.MustCompile(`(?i)&nbsp;`)
	lineBreakRegex = regexp.MustCompile(`(?i)<br\s*/?>|</p\s*>|</div\s*>`)
	tagRegex       = regexp.MustCompile(`<[^>]*>`)

	// CRM payloads sometimes carry JSON-escaped line breaks as plain text.
	textReplacer = strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		`\r\n`, "\n",
		`\n`, "\n",
		"“", `"`,
		"”", `"`,
	)
)

// Sanitize turns a raw CRM note (HTML fragments, smart quotes, CRLF) into plain text.
func Sanitize(raw string) string {
	s := nbspRegex.ReplaceAllString(raw, " ")
	s = lineBreakRegex.ReplaceAllString(s, "\n")
	s = tagRegex.ReplaceAllString(s, " ")
	s = textReplacer.Replace(s)
	s = stripQuotes(strings.TrimSpace(s))
	return strings.TrimSpace(s)
}

// stripQuotes removes one leading and one trailing quote character, if any.
func stripQuotes(s string) string {
	if r, size := utf8.DecodeRuneInString(s); size > 0 && strings.ContainsRune(quoteChars, r) {
		s = s[size:]
	}
	if r, size := utf8.DecodeLastRuneInString(s); size > 0 && strings.ContainsRune(quoteChars, r) {
		s = s[:len(s)-size]
	}
	return s
}

func isQuote(r rune) bool {
	return strings.ContainsRune(quoteChars, r)
}
