package remote

// extractJSON returns the first balanced top-level JSON object in content.
// Models sometimes wrap the object in prose or markdown fences, so the
// scanner is string-aware: braces inside string literals do not count.
// When no balanced object is found the input is returned unchanged and the
// caller's unmarshal reports the failure.
func extractJSON(content string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range content {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}

			continue
		}

		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}

			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return content[start : i+1]
				}
			}
		}
	}

	return content
}
