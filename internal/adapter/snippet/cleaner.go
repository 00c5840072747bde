package snippet

import "strings"

// functionPrefix marks display text that is already a synthesized callback
// placeholder rather than a plain argument name.
const functionPrefix = "function("

// Clean turns raw argument display strings into argument names, for
// instance "compare:, number" becomes "compare" and "i:number" becomes "i".
//
// Labels ("name:") are first joined with the value that follows them. A
// label followed by a callback placeholder yields the placeholder, any other
// label yields its bare name. Inline "name:type" annotations are then cut
// down to the name. Empty strings never join and are dropped at the end.
func Clean(args []string) []string {
	joined := joinElements(args, joinLabel)

	cleaned := make([]string, 0, len(joined))
	for _, arg := range joined {
		if i := strings.Index(arg, ":"); i > 0 && !strings.HasPrefix(arg, functionPrefix) {
			arg = arg[:i]
		}
		if arg == "" {
			continue
		}
		cleaned = append(cleaned, arg)
	}
	return cleaned
}

// joinElements walks xs left to right. When join accepts a pair both
// elements are replaced by its result, otherwise the left element is kept
// and the walk advances by one.
func joinElements(xs []string, join func(left, right string) (string, bool)) []string {
	results := make([]string, 0, len(xs))
	for i := 0; i < len(xs); {
		if i+1 == len(xs) {
			results = append(results, xs[i])
			break
		}
		if combined, ok := join(xs[i], xs[i+1]); ok {
			results = append(results, combined)
			i += 2
			continue
		}
		results = append(results, xs[i])
		i++
	}
	return results
}

func joinLabel(left, right string) (string, bool) {
	if left == "" || right == "" {
		return "", false
	}
	if !strings.HasSuffix(left, ":") {
		return "", false
	}
	if strings.HasPrefix(right, functionPrefix) {
		return right, true
	}
	return strings.TrimSuffix(left, ":"), true
}
