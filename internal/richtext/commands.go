package richtext

import (
	"errors"
	"strings"
)

// ErrSinSeleccion rejects a link command issued with nothing selected.
var ErrSinSeleccion = errors.New("se requiere una selección de texto")

func ToggleBold(d Document, sel Selection) Document {
	return toggleStyle(d, sel, Bold)
}

func ToggleItalic(d Document, sel Selection) Document {
	return toggleStyle(d, sel, Italic)
}

func ToggleUnderline(d Document, sel Selection) Document {
	return toggleStyle(d, sel, Underline)
}

// toggleStyle applies st over the selection, or removes it when every selected
// run already carries it.
func toggleStyle(d Document, sel Selection, st Style) Document {
	if sel.Empty() || sel.Block < 0 || sel.Block >= len(d.Blocks) {
		return d
	}
	out := d.clone()
	block := &out.Blocks[sel.Block]
	if block.Kind != BlockParagraph {
		return d
	}

	runs, i, j := splitRuns(block.Runs, sel.Start, sel.End)
	all := i < j
	for k := i; k < j; k++ {
		if runs[k].Style&st == 0 {
			all = false
			break
		}
	}
	for k := i; k < j; k++ {
		if all {
			runs[k].Style &^= st
		} else {
			runs[k].Style |= st
		}
	}
	block.Runs = runs
	return out
}

// InsertLink attaches a URL to the selected text. The selection must be
// non-empty, and a URL with no scheme gets https:// prefixed.
func InsertLink(d Document, sel Selection, url string) (Document, error) {
	if sel.Empty() {
		return d, ErrSinSeleccion
	}
	if sel.Block < 0 || sel.Block >= len(d.Blocks) {
		return d, ErrSinSeleccion
	}

	url = NormalizeURL(url)
	out := d.clone()
	block := &out.Blocks[sel.Block]
	runs, i, j := splitRuns(block.Runs, sel.Start, sel.End)
	for k := i; k < j; k++ {
		runs[k].Link = url
	}
	block.Runs = runs
	return out, nil
}

// NormalizeURL prefixes https:// when the URL carries no scheme.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return url
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}

const placeholderItem = "Elemento de lista"

// InsertList turns the selection into a list block. A multi-line selection
// becomes one item per line; an empty selection inserts a single placeholder
// item after the current block. Text before and after the selection stays
// behind as paragraphs.
func InsertList(d Document, sel Selection, marker ListStyle) Document {
	out := d.clone()

	if sel.Block < 0 || sel.Block >= len(out.Blocks) {
		return d
	}

	if sel.Empty() {
		list := Block{Kind: BlockList, Marker: marker, Items: [][]Run{{{Text: placeholderItem}}}}
		out.Blocks = insertBlock(out.Blocks, sel.Block+1, list)
		return out
	}

	text := []rune(d.Text(sel.Block))
	start, end := clamp(sel.Start, 0, len(text)), clamp(sel.End, 0, len(text))
	if start >= end {
		return d
	}

	var items [][]Run
	for _, line := range strings.Split(string(text[start:end]), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, []Run{{Text: line}})
	}
	if items == nil {
		items = [][]Run{{{Text: placeholderItem}}}
	}
	list := Block{Kind: BlockList, Marker: marker, Items: items}

	var replacement []Block
	if before := string(text[:start]); before != "" {
		replacement = append(replacement, Block{Kind: BlockParagraph, Runs: []Run{{Text: before}}})
	}
	replacement = append(replacement, list)
	if after := string(text[end:]); after != "" {
		replacement = append(replacement, Block{Kind: BlockParagraph, Runs: []Run{{Text: after}}})
	}

	blocks := append([]Block{}, out.Blocks[:sel.Block]...)
	blocks = append(blocks, replacement...)
	blocks = append(blocks, out.Blocks[sel.Block+1:]...)
	out.Blocks = blocks
	return out
}

func insertBlock(blocks []Block, at int, b Block) []Block {
	at = clamp(at, 0, len(blocks))
	out := append([]Block{}, blocks[:at]...)
	out = append(out, b)
	return append(out, blocks[at:]...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
