package orgmd2xhs

import (
	"strings"

	"golang.org/x/net/html"
)

// captionMaxLen caps the plain-text excerpt accompanying a post.
const captionMaxLen = 200

// Caption derives the caption text for a rendered post: the title, a blank
// line, then the fragment's plain text with markup stripped, whitespace
// collapsed, and the excerpt truncated to 200 characters.
func Caption(title, fragment string) string {
	text := strings.Join(strings.Fields(extractText(fragment)), " ")

	runes := []rune(text)
	if len(runes) > captionMaxLen {
		text = strings.TrimRight(string(runes[:captionMaxLen]), " ")
	}

	return title + "\n\n" + text
}

// extractText strips markup from an HTML fragment, keeping text content.
// Script and style bodies are dropped; a tokenizer is enough here since the
// fragment structure itself does not matter.
func extractText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}
