package tp

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatLiteral renders a value into the Targetprocess query grammar's
// literal syntax. It is total over its input domain and never fails.
//
// Rules:
//   - nil renders as the unquoted literal "null"
//   - booleans render lowercase
//   - times render as the single-quoted calendar date only ('YYYY-MM-DD')
//   - slices render bracketed, comma-joined, with elements formatted
//     recursively
//   - everything else renders as a single-quoted string literal with
//     internal single quotes doubled
func FormatLiteral(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return "'" + v.Format("2006-01-02") + "'"
	case *time.Time:
		if v == nil {
			return "null"
		}

		return "'" + v.Format("2006-01-02") + "'"
	case []interface{}:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = FormatLiteral(elem)
		}

		return "[" + strings.Join(parts, ",") + "]"
	case []string:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = FormatLiteral(elem)
		}

		return "[" + strings.Join(parts, ",") + "]"
	case string:
		return quoteStringLiteral(v)
	default:
		return quoteStringLiteral(fmt.Sprintf("%v", v))
	}
}

// quoteStringLiteral produces a validly quoted string literal regardless of
// whether the caller pre-quoted the value. One leading and one trailing
// quote character are stripped first so that re-quoting an already-quoted
// value does not double-wrap it.
func quoteStringLiteral(s string) string {
	if len(s) > 0 && (s[0] == '\'' || s[0] == '"') {
		s = s[1:]
	}

	if len(s) > 0 && (s[len(s)-1] == '\'' || s[len(s)-1] == '"') {
		s = s[:len(s)-1]
	}

	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
