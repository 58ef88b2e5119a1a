// printer.go — textual rendering of runtime values.
//
// Two renderings exist on purpose. PrintValue is what the `print`
// statement writes: strings appear raw, everything else in its canonical
// literal form. FormatValue is the REPL echo form, where strings keep
// their quotes so `"1"` and `1` stay distinguishable.
package rox

import (
	"strconv"
	"strings"
)

// PrintValue renders v for `print` output.
func PrintValue(v Value) string {
	if v.Tag == VTStr {
		return v.Data.(string)
	}
	return FormatValue(v)
}

// FormatValue renders v the way a REPL echoes results.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return quoteString(v.Data.(string))
	default:
		return "<unknown>"
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
