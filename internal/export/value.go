package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/digitorus/pdf"
)

// serializeValue renders a parsed value back into PDF syntax. Values that
// were indirect in the source file are written as references so that the
// incremental update never inlines an object it does not own; only direct
// values are expanded.
func serializeValue(v pdf.Value) string {
	if ptr := v.GetPtr(); ptr.GetID() != 0 {
		return fmt.Sprintf("%d %d R", ptr.GetID(), ptr.GetGen())
	}

	switch v.Kind() {
	case pdf.Null:
		return "null"
	case pdf.Bool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case pdf.Integer:
		return strconv.FormatInt(v.Int64(), 10)
	case pdf.Real:
		return formatNumber(v.Float64())
	case pdf.String:
		return escapeString(v.RawString())
	case pdf.Name:
		return "/" + v.Name()
	case pdf.Array:
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, serializeValue(v.Index(i)))
		}
		return "[ " + strings.Join(parts, " ") + " ]"
	case pdf.Dict:
		var b strings.Builder
		b.WriteString("<<")
		for _, key := range v.Keys() {
			b.WriteString(" /")
			b.WriteString(key)
			b.WriteString(" ")
			b.WriteString(serializeValue(v.Key(key)))
		}
		b.WriteString(" >>")
		return b.String()
	default:
		// Streams are always indirect; a direct stream value here means
		// the source was malformed. Null is the safest substitute.
		return "null"
	}
}

func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`, "\r", `\r`)
	return "(" + r.Replace(s) + ")"
}

// formatNumber writes a float the way PDF content expects: plain decimal,
// no exponent, trailing zeros trimmed.
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
