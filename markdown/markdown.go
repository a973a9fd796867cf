// Package markdown renders the markdown-like post content to HTML as a
// templ component. It covers the subset the blog editor produces:
// headings, paragraphs, fenced code blocks, lists, blockquotes, images
// and the usual inline spans.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reImage      = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	reLink       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reOrdered    = regexp.MustCompile(`^\d+\.\s+`)
)

// Render returns a templ.Component that writes the HTML for md.
func Render(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeHTML(&buf, md)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

type blockState int

const (
	blockNone blockState = iota
	blockParagraph
	blockCode
	blockList
	blockOrderedList
	blockQuote
)

// writeHTML converts md to HTML line by line.
func writeHTML(buf *bytes.Buffer, md string) {
	state := blockNone

	flush := func() {
		switch state {
		case blockParagraph:
			buf.WriteString("</p>\n")
		case blockCode:
			buf.WriteString("</code></pre>\n")
		case blockList:
			buf.WriteString("</ul>\n")
		case blockOrderedList:
			buf.WriteString("</ol>\n")
		case blockQuote:
			buf.WriteString("</blockquote>\n")
		}
		state = blockNone
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.HasPrefix(line, "```") {
			if state == blockCode {
				flush()
			} else {
				flush()
				buf.WriteString("<pre><code>")
				state = blockCode
			}
			continue
		}
		if state == blockCode {
			buf.WriteString(html.EscapeString(line))
			buf.WriteByte('\n')
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "#"):
			flush()
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' && level < 6 {
				level++
			}
			text := strings.TrimSpace(trimmed[level:])
			buf.WriteString(heading(level, Inline(text)))
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			if state != blockList {
				flush()
				buf.WriteString("<ul>\n")
				state = blockList
			}
			buf.WriteString("<li>" + Inline(trimmed[2:]) + "</li>\n")
		case reOrdered.MatchString(trimmed):
			if state != blockOrderedList {
				flush()
				buf.WriteString("<ol>\n")
				state = blockOrderedList
			}
			buf.WriteString("<li>" + Inline(reOrdered.ReplaceAllString(trimmed, "")) + "</li>\n")
		case strings.HasPrefix(trimmed, "> "):
			if state != blockQuote {
				flush()
				buf.WriteString("<blockquote>\n")
				state = blockQuote
			}
			buf.WriteString(Inline(trimmed[2:]) + "\n")
		default:
			if state != blockParagraph {
				flush()
				buf.WriteString("<p>")
				state = blockParagraph
			} else {
				buf.WriteByte(' ')
			}
			buf.WriteString(Inline(trimmed))
		}
	}
	flush()
}

func heading(level int, inner string) string {
	tags := []string{"h1", "h2", "h3", "h4", "h5", "h6"}
	tag := tags[level-1]
	return "<" + tag + ">" + inner + "</" + tag + ">\n"
}

// Inline escapes text and applies the inline spans: code first so its
// contents stay literal, then images, links, bold and italic.
func Inline(text string) string {
	s := html.EscapeString(text)
	s = reInlineCode.ReplaceAllString(s, "<code>$1</code>")
	s = reImage.ReplaceAllString(s, `<img src="$2" alt="$1">`)
	s = reLink.ReplaceAllString(s, `<a href="$2">$1</a>`)
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	return s
}
