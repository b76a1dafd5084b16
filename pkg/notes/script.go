package notes

import "strings"

// Scripts emit unit-separated fields and record-separated rows so note
// titles containing pipes or newlines survive the round trip. The
// AppleScript side builds the same separators from character codes.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// scriptPrelude binds fs/rs inside a Notes tell block.
const scriptPrelude = `set fs to (ASCII character 31)
set rs to (ASCII character 30)
`

// escapeScript escapes a value for embedding in a double-quoted
// AppleScript string literal.
func escapeScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// htmlBody renders the note body the way the Notes app stores it: an h1
// title followed by the text with newlines as <br>.
func htmlBody(name, body string) string {
	escaped := strings.ReplaceAll(escapeScript(body), "\n", "<br>")
	return "<html><head></head><body><h1>" + escapeScript(name) + "</h1><br>" + escaped + "</body></html>"
}

func splitRecords(out string) []string {
	var records []string
	for _, r := range strings.Split(out, recordSep) {
		r = strings.TrimSpace(r)
		if r != "" {
			records = append(records, r)
		}
	}
	return records
}

func splitFields(record string) []string {
	return strings.Split(record, fieldSep)
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
