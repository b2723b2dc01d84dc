package intake

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML collects the text nodes of an HTML document, skipping script
// and style contents. Block boundaries become newlines so the rule engine
// still sees word boundaries.
func StripHTML(src string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(src))

	var b strings.Builder

	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if skipTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if skipTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}

			text := strings.TrimSpace(string(tokenizer.Text()))
			if text == "" {
				continue
			}

			if b.Len() > 0 {
				b.WriteByte('\n')
			}

			b.WriteString(text)
		}
	}
}

func skipTag(name string) bool {
	return name == "script" || name == "style"
}
