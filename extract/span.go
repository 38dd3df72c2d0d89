package extract

// BalancedSpan scans s from start, which must point at '{' or '[', and
// returns the offset just past the matching closing delimiter. Braces and
// brackets inside string literals are ignored; an escaped quote does not
// toggle the string flag and an escaped backslash does not escape the byte
// after it. Single pass, no allocation.
func BalancedSpan(s string, start int) (int, error) {
	if start < 0 || start >= len(s) || (s[start] != '{' && s[start] != '[') {
		return 0, ErrUnbalancedInput
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				depth++
			}
		case '}', ']':
			if !inString {
				depth--
				if depth == 0 {
					return i + 1, nil
				}
			}
		}
	}

	return 0, ErrUnbalancedInput
}
