// Package richtext models composed email content as a value object: an
// ordered sequence of blocks holding styled runs. Toolbar commands are pure
// transforms that return a new document, so the stored HTML can be re-rendered
// after every command and any rendering surface stays a plain view of the
// model.
package richtext

type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Underline
)

// Run is a span of text sharing one style and optional link.
type Run struct {
	Text  string `json:"text"`
	Style Style  `json:"style,omitempty"`
	Link  string `json:"link,omitempty"`
}

type ListStyle int

const (
	ListBullet ListStyle = iota
	ListNumber
	ListRoman
	ListAlpha
)

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockList
	BlockImage
)

type Block struct {
	Kind BlockKind `json:"kind"`

	// Paragraph
	Runs []Run `json:"runs,omitempty"`

	// List
	Marker ListStyle `json:"marker,omitempty"`
	Items  [][]Run   `json:"items,omitempty"`

	// Image
	Src     string `json:"src,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Pending bool   `json:"pending,omitempty"`
}

type Document struct {
	Blocks []Block `json:"blocks"`
}

// Selection addresses a range of runes inside one block, [Start, End).
type Selection struct {
	Block int
	Start int
	End   int
}

func (s Selection) Empty() bool {
	return s.Start >= s.End
}

// Plain builds a single-paragraph document from unstyled text.
func Plain(text string) Document {
	if text == "" {
		return Document{Blocks: []Block{{Kind: BlockParagraph}}}
	}
	return Document{Blocks: []Block{{
		Kind: BlockParagraph,
		Runs: []Run{{Text: text}},
	}}}
}

// Text returns the concatenated text of a paragraph block.
func (d Document) Text(block int) string {
	if block < 0 || block >= len(d.Blocks) {
		return ""
	}
	var out []rune
	for _, r := range d.Blocks[block].Runs {
		out = append(out, []rune(r.Text)...)
	}
	return string(out)
}

// clone makes a deep enough copy for a transform to mutate freely.
func (d Document) clone() Document {
	blocks := make([]Block, len(d.Blocks))
	copy(blocks, d.Blocks)
	for i := range blocks {
		if blocks[i].Runs != nil {
			runs := make([]Run, len(blocks[i].Runs))
			copy(runs, blocks[i].Runs)
			blocks[i].Runs = runs
		}
		if blocks[i].Items != nil {
			items := make([][]Run, len(blocks[i].Items))
			for j := range blocks[i].Items {
				item := make([]Run, len(blocks[i].Items[j]))
				copy(item, blocks[i].Items[j])
				items[j] = item
			}
			blocks[i].Items = items
		}
	}
	return Document{Blocks: blocks}
}

// splitRuns re-cuts runs so that start and end fall on run boundaries, and
// returns the index range [i, j) of the runs covered by the selection.
func splitRuns(runs []Run, start, end int) ([]Run, int, int) {
	var out []Run
	first, last := -1, -1
	pos := 0
	for _, r := range runs {
		text := []rune(r.Text)
		n := len(text)
		cuts := []int{0, n}
		if start > pos && start < pos+n {
			cuts = append(cuts, start-pos)
		}
		if end > pos && end < pos+n {
			cuts = append(cuts, end-pos)
		}
		sortInts(cuts)
		for c := 0; c+1 < len(cuts); c++ {
			lo, hi := cuts[c], cuts[c+1]
			if lo == hi {
				continue
			}
			piece := Run{Text: string(text[lo:hi]), Style: r.Style, Link: r.Link}
			absLo, absHi := pos+lo, pos+hi
			if absLo >= start && absHi <= end {
				if first == -1 {
					first = len(out)
				}
				last = len(out) + 1
			}
			out = append(out, piece)
		}
		pos += n
	}
	if first == -1 {
		first, last = 0, 0
	}
	return out, first, last
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j] < a[j-1]; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
