// Package pdftest builds small, valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Line is a run of text drawn at (X, Y) in Helvetica at Size points
type Line struct {
	X, Y float64
	Size float64
	Text string
}

// Link is a URI link annotation covering a rectangle
type Link struct {
	X1, Y1, X2, Y2 float64
	URI            string
}

// Page is the content of one page
type Page struct {
	Lines []Line
	Links []Link
}

// Options tweak the generated document
type Options struct {
	// Encrypted adds a Standard security handler the reader cannot open
	Encrypted bool
}

// Build renders pages into a PDF.
func Build(pages ...Page) []byte {
	return BuildWithOptions(Options{}, pages...)
}

// BuildWithOptions renders pages into a PDF using opts.
func BuildWithOptions(opts Options, pages ...Page) []byte {
	w := &writer{}
	w.buf.WriteString("%PDF-1.4\n")

	// object numbers: 1 catalog, 2 pages, 3 font, then per page: page, contents, annots...
	next := 4
	type pageRefs struct {
		page, contents int
		annots         []int
	}
	refs := make([]pageRefs, len(pages))
	for i, p := range pages {
		refs[i].page = next
		refs[i].contents = next + 1
		next += 2
		for range p.Links {
			refs[i].annots = append(refs[i].annots, next)
			next++
		}
	}
	encryptObj := 0
	if opts.Encrypted {
		encryptObj = next
		next++
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", refs[i].page)
	}

	w.object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	w.object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	w.object(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding "+
		"/FirstChar 32 /LastChar 126 /Widths ["+widths()+"] >>")

	for i, p := range pages {
		annots := ""
		if len(refs[i].annots) > 0 {
			parts := make([]string, len(refs[i].annots))
			for j, n := range refs[i].annots {
				parts[j] = fmt.Sprintf("%d 0 R", n)
			}
			annots = " /Annots [" + strings.Join(parts, " ") + "]"
		}
		w.object(refs[i].page, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R%s >>",
			refs[i].contents, annots))

		stream := content(p.Lines)
		w.object(refs[i].contents, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))

		for j, l := range p.Links {
			w.object(refs[i].annots[j], fmt.Sprintf(
				"<< /Type /Annot /Subtype /Link /Rect [%s %s %s %s] /Border [0 0 0] /A << /S /URI /URI (%s) >> >>",
				num(l.X1), num(l.Y1), num(l.X2), num(l.Y2), escape(l.URI)))
		}
	}

	if encryptObj > 0 {
		zeros := "<" + strings.Repeat("00", 32) + ">"
		w.object(encryptObj, fmt.Sprintf("<< /Filter /Standard /V 1 /R 2 /O %s /U %s /P -4 >>", zeros, zeros))
	}

	xref := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", next)
	w.buf.WriteString("0000000000 65535 f \n")
	for n := 1; n < next; n++ {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", w.offsets[n])
	}
	trailer := fmt.Sprintf("<< /Size %d /Root 1 0 R", next)
	if encryptObj > 0 {
		trailer += fmt.Sprintf(" /Encrypt %d 0 R /ID [<0102030405060708> <0102030405060708>]", encryptObj)
	}
	trailer += " >>"
	fmt.Fprintf(&w.buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xref)

	return w.buf.Bytes()
}

type writer struct {
	buf     bytes.Buffer
	offsets map[int]int
}

func (w *writer) object(n int, body string) {
	if w.offsets == nil {
		w.offsets = make(map[int]int)
	}
	w.offsets[n] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", n, body)
}

func content(lines []Line) string {
	var sb strings.Builder
	for _, l := range lines {
		size := l.Size
		if size == 0 {
			size = 11
		}
		fmt.Fprintf(&sb, "BT /F1 %s Tf %s %s Td (%s) Tj ET\n", num(size), num(l.X), num(l.Y), escape(l.Text))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func widths() string {
	w := make([]string, 126-32+1)
	for i := range w {
		w[i] = "500"
	}
	return strings.Join(w, " ")
}

func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
