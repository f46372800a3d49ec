package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Layout thresholds, relative to the font size of a line.
const (
	lineTolerance   = 0.35 // max baseline drift within one line
	wordGapRatio    = 0.20 // gap that implies a missing space
	cellGapRatio    = 1.50 // gap that splits a line into cells
	paraGapRatio    = 1.80 // vertical gap that ends a paragraph
	headingRatio    = 1.15 // size above body text that marks a heading
	minTableCells   = 3
	maxHeadingRunes = 40
)

var (
	urlPattern   = regexp.MustCompile(`(?i)\bhttps?://[^\s\])>"']+`)
	barePattern  = regexp.MustCompile(`(?i)\b(?:www\.)?(?:github\.com|linkedin\.com|gitlab\.com|medium\.com|leetcode\.com|stackoverflow\.com|hackerrank\.com)/[^\s\])>"']+`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•●▪◦]|\d+[.)])\s+`)
)

// Options configures the converter
type Options struct {
	// MaxPages stops conversion after this many pages; zero means all.
	MaxPages int
}

// Converter turns PDF bytes into a Document
type Converter struct {
	opts Options
}

// NewConverter returns a converter using opts
func NewConverter(opts Options) *Converter {
	return &Converter{opts: opts}
}

// ConvertFile reads and converts the PDF at path.
func (c *Converter) ConvertFile(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Source: path, Message: "failed to read file", Cause: err}
	}
	doc, err := c.Convert(ctx, data)
	if err != nil {
		var extractErr *ExtractionError
		if errors.As(err, &extractErr) && extractErr.Source == "" {
			extractErr.Source = filepath.Base(path)
		}
		return nil, err
	}
	doc.Source = filepath.Base(path)
	return doc, nil
}

// Convert extracts ordered blocks from raw PDF bytes. Output depends only on
// the input bytes.
func (c *Converter) Convert(ctx context.Context, data []byte) (doc *Document, err error) {
	defer func() {
		// the PDF library panics on some malformed inputs
		if r := recover(); r != nil {
			doc = nil
			err = &ExtractionError{Message: fmt.Sprintf("malformed PDF: %v", r), Cause: ErrUnreadable}
		}
	}()

	if len(data) == 0 {
		return nil, &ExtractionError{Message: "empty input", Cause: ErrUnreadable}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) || bytes.Contains(data, []byte("/Encrypt")) {
			return nil, &ExtractionError{Message: err.Error(), Cause: ErrEncrypted}
		}
		return nil, &ExtractionError{Message: err.Error(), Cause: ErrUnreadable}
	}

	numPages := reader.NumPage()
	if c.opts.MaxPages > 0 && numPages > c.opts.MaxPages {
		numPages = c.opts.MaxPages
	}

	var pages []pageLayout
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, pageLayout{
			number: i,
			lines:  buildLines(page.Content().Text),
			annots: linkAnnotations(page),
		})
	}

	doc = &Document{Pages: reader.NumPage()}
	body := bodyFontSize(pages)
	seen := make(map[string]bool)
	for _, p := range pages {
		doc.Blocks = append(doc.Blocks, classify(p, body)...)
		doc.Blocks = append(doc.Blocks, pageLinks(p, seen)...)
	}

	if doc.Empty() {
		return nil, &ExtractionError{Message: "no text found on any page", Cause: ErrNoText}
	}
	return doc, nil
}

type pageLayout struct {
	number int
	lines  []textLine
	annots []annotation
}

type textLine struct {
	y      float64
	size   float64
	cells  []string
	glyphs []pdf.Text
}

func (l textLine) text() string {
	return strings.Join(l.cells, "  ")
}

type annotation struct {
	uri            string
	x1, y1, x2, y2 float64
}

// buildLines groups glyphs into lines top to bottom, left to right.
func buildLines(glyphs []pdf.Text) []textLine {
	filtered := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			filtered = append(filtered, g)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Y != filtered[j].Y {
			return filtered[i].Y > filtered[j].Y
		}
		return filtered[i].X < filtered[j].X
	})

	var lines []textLine
	for _, g := range filtered {
		if n := len(lines); n > 0 {
			cur := &lines[n-1]
			tol := math.Max(cur.size, g.FontSize) * lineTolerance
			if math.Abs(cur.y-g.Y) <= tol {
				cur.glyphs = append(cur.glyphs, g)
				cur.size = math.Max(cur.size, g.FontSize)
				continue
			}
		}
		lines = append(lines, textLine{y: g.Y, size: g.FontSize, glyphs: []pdf.Text{g}})
	}

	out := lines[:0]
	for _, l := range lines {
		sort.SliceStable(l.glyphs, func(i, j int) bool { return l.glyphs[i].X < l.glyphs[j].X })
		l.cells = splitCells(l.glyphs, l.size)
		if len(l.cells) > 0 {
			out = append(out, l)
		}
	}
	return out
}

// splitCells joins glyphs into words and words into cells separated by wide gaps.
func splitCells(glyphs []pdf.Text, size float64) []string {
	var cells []string
	var cur strings.Builder
	lastEnd := math.Inf(-1)
	prevSpace := true

	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			cells = append(cells, s)
		}
		cur.Reset()
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			cur.WriteString(" ")
			prevSpace = true
			continue
		}
		if !math.IsInf(lastEnd, -1) {
			gap := g.X - lastEnd
			switch {
			case gap > size*cellGapRatio:
				flush()
			case gap > size*wordGapRatio && !prevSpace:
				cur.WriteString(" ")
			}
		}
		cur.WriteString(g.S)
		lastEnd = g.X + g.W
		prevSpace = false
	}
	flush()
	return cells
}

// bodyFontSize is the size carrying the most glyphs, rounded to half points.
func bodyFontSize(pages []pageLayout) float64 {
	counts := make(map[float64]int)
	for _, p := range pages {
		for _, l := range p.lines {
			counts[math.Round(l.size*2)/2] += len(l.glyphs)
		}
	}
	best, bestCount := 0.0, -1
	for size, n := range counts {
		if n > bestCount || (n == bestCount && size < best) {
			best, bestCount = size, n
		}
	}
	return best
}

func classify(p pageLayout, body float64) []Block {
	var blocks []Block
	var prev *textLine

	for i := range p.lines {
		l := p.lines[i]
		switch {
		case len(l.cells) >= minTableCells:
			if n := len(blocks); n > 0 && blocks[n-1].Type == BlockTable && prev != nil && len(prev.cells) >= minTableCells {
				blocks[n-1].Rows = append(blocks[n-1].Rows, l.cells)
				blocks[n-1].Text += "\n" + strings.Join(l.cells, " | ")
			} else {
				blocks = append(blocks, Block{
					Type: BlockTable,
					Page: p.number,
					Text: strings.Join(l.cells, " | "),
					Rows: [][]string{l.cells},
				})
			}
		case isHeading(l, body):
			blocks = append(blocks, Block{Type: BlockHeading, Page: p.number, Text: l.text()})
		default:
			text := l.text()
			n := len(blocks)
			continues := n > 0 && blocks[n-1].Type == BlockParagraph && prev != nil &&
				prev.y-l.y <= math.Max(prev.size, l.size)*paraGapRatio &&
				!bulletPrefix.MatchString(text)
			if continues {
				blocks[n-1].Text += "\n" + text
			} else {
				blocks = append(blocks, Block{Type: BlockParagraph, Page: p.number, Text: text})
			}
		}
		prev = &p.lines[i]
	}
	return blocks
}

func isHeading(l textLine, body float64) bool {
	text := l.text()
	if body > 0 && l.size >= body*headingRatio && len([]rune(text)) <= maxHeadingRunes*2 {
		return true
	}
	if len([]rune(text)) > maxHeadingRunes || len(strings.Fields(text)) > 5 {
		return false
	}
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 3
}

func linkAnnotations(page pdf.Page) []annotation {
	annots := page.V.Key("Annots")
	var out []annotation
	for i := 0; i < annots.Len(); i++ {
		a := annots.Index(i)
		if a.Key("Subtype").Name() != "Link" {
			continue
		}
		uri := a.Key("A").Key("URI")
		if uri.Kind() != pdf.String {
			continue
		}
		ann := annotation{uri: strings.TrimSpace(uri.RawString())}
		if rect := a.Key("Rect"); rect.Len() == 4 {
			ann.x1, ann.y1 = rect.Index(0).Float64(), rect.Index(1).Float64()
			ann.x2, ann.y2 = rect.Index(2).Float64(), rect.Index(3).Float64()
			if ann.x1 > ann.x2 {
				ann.x1, ann.x2 = ann.x2, ann.x1
			}
			if ann.y1 > ann.y2 {
				ann.y1, ann.y2 = ann.y2, ann.y1
			}
		}
		if ann.uri != "" {
			out = append(out, ann)
		}
	}
	return out
}

// anchorText returns the text drawn inside the annotation rectangle.
func (a annotation) anchorText(lines []textLine) string {
	var parts []string
	for _, l := range lines {
		var inside []pdf.Text
		for _, g := range l.glyphs {
			cx := g.X + g.W/2
			if cx >= a.x1-1 && cx <= a.x2+1 && g.Y >= a.y1-2 && g.Y <= a.y2+2 {
				inside = append(inside, g)
			}
		}
		if cells := splitCells(inside, l.size); len(cells) > 0 {
			parts = append(parts, strings.Join(cells, " "))
		}
	}
	return strings.Join(parts, " ")
}

// pageLinks emits link blocks for annotations first, then URLs and e-mail
// addresses found in the text. seen dedupes across pages.
func pageLinks(p pageLayout, seen map[string]bool) []Block {
	var out []Block
	add := func(text, url string) {
		key := linkKey(url)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, Block{Type: BlockLink, Page: p.number, Text: text, URL: url})
	}

	for _, a := range p.annots {
		text := a.anchorText(p.lines)
		if text == "" {
			text = a.uri
		}
		add(text, a.uri)
	}

	for _, l := range p.lines {
		text := l.text()
		for _, m := range urlPattern.FindAllString(text, -1) {
			m = strings.TrimRight(m, ".,;:")
			add(m, m)
		}
		for _, m := range barePattern.FindAllString(text, -1) {
			m = strings.TrimRight(m, ".,;:")
			if strings.Contains(strings.ToLower(text), "://"+strings.ToLower(m)) {
				continue
			}
			add(m, "https://"+m)
		}
		for _, m := range emailPattern.FindAllString(text, -1) {
			add(m, "mailto:"+m)
		}
	}
	return out
}

func linkKey(url string) string {
	key := strings.ToLower(strings.TrimSpace(url))
	key = strings.TrimPrefix(key, "https://")
	key = strings.TrimPrefix(key, "http://")
	key = strings.TrimPrefix(key, "www.")
	return strings.TrimSuffix(key, "/")
}
