package format

import (
	"strings"
)

var fieldEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\t", `\t`,
	"\n", `\n`,
	"\r", `\r`,
	"#", `\#`,
)

// EscapeField encodes a value so it can be written as a single field. Leading and trailing spaces are escaped since
// the reader trims unescaped spaces around fields.
func EscapeField(value string) string {
	var (
		escaped  = fieldEscaper.Replace(value)
		trimmed  = strings.TrimLeft(escaped, " ")
		leading  = len(escaped) - len(trimmed)
		core     = strings.TrimRight(trimmed, " ")
		trailing = len(trimmed) - len(core)
	)

	if leading == 0 && trailing == 0 {
		return escaped
	}

	return strings.Repeat(`\s`, leading) + core + strings.Repeat(`\s`, trailing)
}

// UnescapeField reverses EscapeField. Unescaped spaces around the field are dropped.
func UnescapeField(field string) (string, error) {
	field = strings.Trim(field, " ")

	if !strings.Contains(field, `\`) {
		return field, nil
	}

	var builder strings.Builder
	builder.Grow(len(field))

	for idx := 0; idx < len(field); idx++ {
		if field[idx] != '\\' {
			builder.WriteByte(field[idx])
			continue
		}

		if idx+1 >= len(field) {
			return "", ErrBadEscape
		}

		idx++

		switch field[idx] {
		case '\\':
			builder.WriteByte('\\')
		case 't':
			builder.WriteByte('\t')
		case 'n':
			builder.WriteByte('\n')
		case 'r':
			builder.WriteByte('\r')
		case 's':
			builder.WriteByte(' ')
		case '#':
			builder.WriteByte('#')
		default:
			return "", ErrBadEscape
		}
	}

	return builder.String(), nil
}

// splitFields splits a line into its raw, still escaped fields.
func splitFields(text string) []string {
	return strings.Split(text, fieldSeparator)
}
