package messages

import (
	"fmt"
	"strconv"
	"strings"
)

// Format replaces positional placeholders ({0}, {1}, ...) in template with
// the matching argument. Placeholders without an argument are kept as-is,
// and a doubled quote ('') is emitted as a single quote.
func Format(template string, args ...any) string {
	var sb strings.Builder
	sb.Grow(len(template))

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c == '\'' && i+1 < len(template) && template[i+1] == '\'' {
			sb.WriteByte('\'')
			i++
			continue
		}
		if c != '{' {
			sb.WriteByte(c)
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			sb.WriteString(template[i:])
			break
		}
		index, err := strconv.Atoi(template[i+1 : i+end])
		if err != nil || index < 0 || index >= len(args) {
			sb.WriteString(template[i : i+end+1])
		} else {
			sb.WriteString(formatArg(args[index]))
		}
		i += end
	}
	return sb.String()
}

func formatArg(arg any) string {
	switch v := arg.(type) {
	case nil:
		return "null"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
