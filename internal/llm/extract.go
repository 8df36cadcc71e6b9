package llm

import (
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// ExtractJSON pulls the JSON payload out of a model response:
//  1. the contents of a ```json fenced block, if present;
//  2. otherwise the span from the first '{' to the last '}';
//  3. otherwise the raw text unchanged (parsing will fail downstream).
func ExtractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
