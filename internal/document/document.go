// Package document converts resume PDFs into ordered, typed text blocks and a
// Markdown rendering suitable as model input.
package document

import (
	"fmt"
	"strings"
)

// BlockType tags a block of converted text
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockTable     BlockType = "table"
	BlockLink      BlockType = "link"
)

// Block is one structural unit of a converted document
type Block struct {
	Type BlockType  `json:"type"`
	Page int        `json:"page"`
	Text string     `json:"text"`
	Rows [][]string `json:"rows,omitempty"`
	URL  string     `json:"url,omitempty"`
}

// Document is the converter output
type Document struct {
	Source string  `json:"source,omitempty"`
	Pages  int     `json:"pages"`
	Blocks []Block `json:"blocks"`
}

// Links returns the link blocks in document order.
func (d *Document) Links() []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Type == BlockLink {
			out = append(out, b)
		}
	}
	return out
}

// Empty reports whether the document has no text blocks.
func (d *Document) Empty() bool {
	for _, b := range d.Blocks {
		if b.Type != BlockLink && strings.TrimSpace(b.Text) != "" {
			return false
		}
	}
	return true
}

// Markdown renders the document. Headings become "##" lines, tables become
// pipe tables and links are listed as "text [url]" the way they read on paper.
func (d *Document) Markdown() string {
	var sb strings.Builder
	for i, b := range d.Blocks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch b.Type {
		case BlockHeading:
			sb.WriteString("## ")
			sb.WriteString(b.Text)
		case BlockTable:
			writeTable(&sb, b.Rows)
		case BlockLink:
			if b.Text == "" || b.Text == b.URL {
				fmt.Fprintf(&sb, "Link [%s]", b.URL)
			} else {
				fmt.Fprintf(&sb, "%s [%s]", b.Text, b.URL)
			}
		default:
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

func writeTable(sb *strings.Builder, rows [][]string) {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	for i, r := range rows {
		cells := make([]string, width)
		copy(cells, r)
		sb.WriteString("| ")
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString(" |")
		if i == 0 {
			sb.WriteString("\n|")
			sb.WriteString(strings.Repeat(" --- |", width))
		}
		if i < len(rows)-1 {
			sb.WriteString("\n")
		}
	}
}
