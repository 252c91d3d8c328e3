// Package doctree defines the parsed document model consumed by the
// assembly driver. Block and Inline are closed sets: only the types in this
// package implement them.
package doctree

// Document is an ordered forest of blocks.
type Document struct {
	Blocks []Block
}

// Block is a block-level node.
type Block interface {
	block()
}

// Inline is a span-level node inside a block.
type Inline interface {
	inline()
}

// Alignment is a table column alignment.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

type (
	// Heading is a section title of level 1 to 6.
	Heading struct {
		Level   int
		Content []Inline
	}

	// Paragraph is a run of inline content.
	Paragraph struct {
		Content []Inline
	}

	// List is an ordered or bulleted list. Start is the first number of an
	// ordered list.
	List struct {
		Ordered bool
		Start   int
		Items   []ListItem
	}

	// CodeBlock is preformatted text with an optional language tag.
	CodeBlock struct {
		Language string
		Text     string
	}

	// Table has a header row and data rows of inline cells.
	Table struct {
		Header Row
		Rows   []Row
		Align  []Alignment
	}

	// BlockQuote holds quoted blocks.
	BlockQuote struct {
		Blocks []Block
	}

	// Image is an image standing alone in its paragraph.
	Image struct {
		Source string
		Alt    string
	}

	// MathBlock is a display formula.
	MathBlock struct {
		LaTeX string
	}

	// ThematicBreak is a horizontal rule.
	ThematicBreak struct{}
)

// ListItem is one entry of a List. Checked is set for task list items.
type ListItem struct {
	Blocks  []Block
	Checked *bool
}

// Row is a table row; each cell is inline content.
type Row []Cell

// Cell is the inline content of one table cell.
type Cell []Inline

func (*Heading) block()       {}
func (*Paragraph) block()     {}
func (*List) block()          {}
func (*CodeBlock) block()     {}
func (*Table) block()         {}
func (*BlockQuote) block()    {}
func (*Image) block()         {}
func (*MathBlock) block()     {}
func (*ThematicBreak) block() {}

type (
	Text struct {
		Text string
	}
	Bold struct {
		Content []Inline
	}
	Italic struct {
		Content []Inline
	}
	BoldItalic struct {
		Content []Inline
	}
	Strikethrough struct {
		Content []Inline
	}
	// Highlight is ==marked== text.
	Highlight struct {
		Content []Inline
	}
	InlineCode struct {
		Code string
	}
	InlineMath struct {
		LaTeX string
	}
	InlineImage struct {
		Source string
		Alt    string
	}
	Link struct {
		URL     string
		Content []Inline
	}
	// LineBreak is a hard line break inside a paragraph.
	LineBreak struct{}
)

func (*Text) inline()          {}
func (*Bold) inline()          {}
func (*Italic) inline()        {}
func (*BoldItalic) inline()    {}
func (*Strikethrough) inline() {}
func (*Highlight) inline()     {}
func (*InlineCode) inline()    {}
func (*InlineMath) inline()    {}
func (*InlineImage) inline()   {}
func (*Link) inline()          {}
func (*LineBreak) inline()     {}
