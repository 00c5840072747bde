package signature

import (
	"strings"

	"ternsnip/internal/domain"
)

// Repr prints fn approximately as it was written before parsing.
func Repr(fn *domain.FuncType) string {
	if fn == nil {
		return ""
	}
	args := make([]string, len(fn.Args))
	for i, arg := range fn.Args {
		args[i] = ReprType(arg)
	}

	var sb strings.Builder
	sb.WriteString("fn(")
	sb.WriteString(strings.Join(args, ", "))
	sb.WriteString(")")
	if fn.Ret != nil {
		sb.WriteString(" -> ")
		sb.WriteString(ReprType(*fn.Ret))
	}
	return sb.String()
}

func ReprType(t domain.Type) string {
	if t.Func != nil {
		return Repr(t.Func)
	}
	return t.Name
}
