package completion

import "strings"

// ExtractJSON returns the span from the first open delimiter to the last close
// delimiter in content, e.g. '{' and '}' for an object.
func ExtractJSON(content string, open, close byte) (string, bool) {
	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, close)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}
