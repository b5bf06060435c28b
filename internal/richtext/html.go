package richtext

import (
	"html"
	"strings"
)

// Render serializes the document to the HTML stored in templates and email
// bodies.
func Render(d Document) string {
	var b strings.Builder
	for _, block := range d.Blocks {
		switch block.Kind {
		case BlockParagraph:
			b.WriteString("<p>")
			renderRuns(&b, block.Runs)
			b.WriteString("</p>")
		case BlockList:
			open, closing := listTags(block.Marker)
			b.WriteString(open)
			for _, item := range block.Items {
				b.WriteString("<li>")
				renderRuns(&b, item)
				b.WriteString("</li>")
			}
			b.WriteString(closing)
		case BlockImage:
			if block.Pending || block.Src == "" {
				continue
			}
			b.WriteString(`<img src="`)
			b.WriteString(html.EscapeString(block.Src))
			b.WriteString(`" alt="`)
			b.WriteString(html.EscapeString(block.Alt))
			b.WriteString(`">`)
		}
	}
	return b.String()
}

func listTags(marker ListStyle) (string, string) {
	switch marker {
	case ListNumber:
		return `<ol type="1">`, "</ol>"
	case ListRoman:
		return `<ol type="I">`, "</ol>"
	case ListAlpha:
		return `<ol type="a">`, "</ol>"
	}
	return "<ul>", "</ul>"
}

func renderRuns(b *strings.Builder, runs []Run) {
	for _, r := range runs {
		text := html.EscapeString(r.Text)
		if r.Style&Bold != 0 {
			text = "<strong>" + text + "</strong>"
		}
		if r.Style&Italic != 0 {
			text = "<em>" + text + "</em>"
		}
		if r.Style&Underline != 0 {
			text = "<u>" + text + "</u>"
		}
		if r.Link != "" {
			text = `<a href="` + html.EscapeString(r.Link) + `">` + text + "</a>"
		}
		b.WriteString(text)
	}
}
