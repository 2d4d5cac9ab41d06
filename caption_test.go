package orgmd2xhs

import (
	"strings"
	"testing"
)

func TestCaption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		title    string
		fragment string
		want     string
	}{
		{
			name:     "strips markup",
			title:    "Demo",
			fragment: "<p>Hello <strong>world</strong></p>",
			want:     "Demo\n\nHello world",
		},
		{
			name:     "collapses whitespace",
			title:    "Demo",
			fragment: "<p>a\n\n   b</p>\n<p>c</p>",
			want:     "Demo\n\na b c",
		},
		{
			name:     "empty fragment keeps title header",
			title:    "Demo",
			fragment: "",
			want:     "Demo\n\n",
		},
		{
			name:     "drops script bodies",
			title:    "T",
			fragment: "<p>keep</p><script>var x = 1;</script><p>this</p>",
			want:     "T\n\nkeep this",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Caption(tt.title, tt.fragment); got != tt.want {
				t.Errorf("Caption() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCaption_TruncatesAt200(t *testing.T) {
	t.Parallel()

	long := "<p>" + strings.Repeat("word ", 100) + "</p>"
	got := Caption("T", long)

	body := strings.TrimPrefix(got, "T\n\n")
	if n := len([]rune(body)); n > 200 {
		t.Errorf("excerpt is %d runes, want at most 200", n)
	}
	if strings.HasSuffix(body, " ") {
		t.Error("excerpt has trailing whitespace")
	}
}

func TestCaption_TruncationCountsRunes(t *testing.T) {
	t.Parallel()

	long := "<p>" + strings.Repeat("汉", 300) + "</p>"
	got := Caption("标题", long)

	body := strings.TrimPrefix(got, "标题\n\n")
	if n := len([]rune(body)); n != 200 {
		t.Errorf("excerpt is %d runes, want exactly 200", n)
	}
}
