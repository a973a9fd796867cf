package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func renderString(t *testing.T, md string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(md).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestHeadings(t *testing.T) {
	got := renderString(t, "# Title\n\n## Section")
	if !strings.Contains(got, "<h1>Title</h1>") {
		t.Errorf("missing h1 in %q", got)
	}
	if !strings.Contains(got, "<h2>Section</h2>") {
		t.Errorf("missing h2 in %q", got)
	}
}

func TestParagraphJoining(t *testing.T) {
	got := renderString(t, "line one\nline two\n\nsecond para")
	if !strings.Contains(got, "<p>line one line two</p>") {
		t.Errorf("adjacent lines should join into one paragraph, got %q", got)
	}
	if !strings.Contains(got, "<p>second para</p>") {
		t.Errorf("missing second paragraph in %q", got)
	}
}

func TestCodeBlockIsLiteral(t *testing.T) {
	got := renderString(t, "```\nconst a = <b>1</b>\n**not bold**\n```")
	if !strings.Contains(got, "const a = &lt;b&gt;1&lt;/b&gt;") {
		t.Errorf("code block should be escaped, got %q", got)
	}
	if strings.Contains(got, "<strong>") {
		t.Errorf("inline formatting should not apply inside code blocks: %q", got)
	}
}

func TestLists(t *testing.T) {
	got := renderString(t, "- one\n- two\n\n1. first\n2. second")
	if !strings.Contains(got, "<ul>\n<li>one</li>\n<li>two</li>\n</ul>") {
		t.Errorf("unordered list malformed: %q", got)
	}
	if !strings.Contains(got, "<ol>\n<li>first</li>\n<li>second</li>\n</ol>") {
		t.Errorf("ordered list malformed: %q", got)
	}
}

func TestInline(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"`code`", "<code>code</code>"},
		{"[text](https://example.com)", `<a href="https://example.com">text</a>`},
		{"![alt](/img.jpg)", `<img src="/img.jpg" alt="alt">`},
		{"a < b & c", "a &lt; b &amp; c"},
	}
	for _, tt := range tests {
		if got := Inline(tt.input); got != tt.want {
			t.Errorf("Inline(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBlockquote(t *testing.T) {
	got := renderString(t, "> quoted text")
	if !strings.Contains(got, "<blockquote>\nquoted text\n</blockquote>") {
		t.Errorf("blockquote malformed: %q", got)
	}
}

func TestChineseContent(t *testing.T) {
	got := renderString(t, "# 深入理解 React 18\n\n并发特性是核心改进。")
	if !strings.Contains(got, "<h1>深入理解 React 18</h1>") {
		t.Errorf("missing CJK heading in %q", got)
	}
	if !strings.Contains(got, "<p>并发特性是核心改进。</p>") {
		t.Errorf("missing CJK paragraph in %q", got)
	}
}
