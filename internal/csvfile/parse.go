package csvfile

import (
	"strings"
	"unicode"
)

// Row maps a canonical header key to a trimmed field value.
type Row map[string]string

// Get returns the value stored under key, or "" when absent.
func (r Row) Get(key string) string {
	return r[key]
}

// NumberedRow is a parsed data row with its 1-based physical line number
// in the source text.
type NumberedRow struct {
	Line int
	Row  Row
}

// Parse splits CSV text into rows keyed by the canonical form of the
// header line. Blank lines are ignored and quoted fields may contain
// commas. Records spanning multiple physical lines are not supported.
func Parse(text string) []Row {
	records := ParseNumbered(text)
	if len(records) == 0 {
		return nil
	}
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = rec.Row
	}
	return rows
}

// ParseNumbered is Parse keeping the line number of every row. A leading
// UTF-8 byte order mark is dropped.
func ParseNumbered(text string) []NumberedRow {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var (
		keys    []string
		records []NumberedRow
	)
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := SplitLine(line)
		if keys == nil {
			keys = make([]string, len(fields))
			for j, h := range fields {
				keys[j] = CanonicalHeader(h)
			}
			continue
		}
		if allEmpty(fields) {
			continue
		}
		records = append(records, NumberedRow{Line: i + 1, Row: buildRow(keys, fields)})
	}
	return records
}

func buildRow(keys, fields []string) Row {
	row := make(Row, len(keys))
	for i, key := range keys {
		if key == "" {
			continue
		}
		if i < len(fields) {
			row[key] = fields[i]
		} else if _, ok := row[key]; !ok {
			row[key] = ""
		}
	}
	return row
}

// CanonicalHeader lower-cases a header name and drops all whitespace.
func CanonicalHeader(h string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}

// SplitLine splits one CSV line into trimmed fields. A field wrapped in
// double quotes is unwrapped and "" inside it becomes a literal quote.
//
// Malformed quoting is tolerated rather than rejected: an unterminated
// quote runs to the end of the line and a field that does not both start
// and end with a quote is returned verbatim.
func SplitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, unquote(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, unquote(current.String()))
}

func unquote(field string) string {
	field = strings.TrimSpace(field)
	if len(field) >= 2 && field[0] == '"' && field[len(field)-1] == '"' {
		return strings.TrimSpace(strings.ReplaceAll(field[1:len(field)-1], `""`, `"`))
	}
	return field
}

func allEmpty(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
