// internal/reporting/text_reporter.go
package reporting

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xkilldash9x/boxlayout/internal/layout"
)

// TextReporter writes an indented outline of the box tree, one box per line.
type TextReporter struct {
	writer io.WriteCloser
}

func NewTextReporter(w io.WriteCloser) *TextReporter {
	return &TextReporter{writer: w}
}

func (r *TextReporter) Write(root *layout.LayoutBox) error {
	if root == nil {
		return fmt.Errorf("cannot report a nil box tree")
	}
	bw := bufio.NewWriter(r.writer)
	writeBox(bw, NewBoxReport(root), 0)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write box tree: %w", err)
	}
	return nil
}

func (r *TextReporter) Close() error {
	return r.writer.Close()
}

func writeBox(w *bufio.Writer, b *BoxReport, depth int) {
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString(b.Type)
	if l := boxLabel(b); l != "" {
		w.WriteString(" " + l)
	}
	c := b.Content
	fmt.Fprintf(w, " content=(%s,%s %sx%s)", num(c.X), num(c.Y), num(c.Width), num(c.Height))
	writeEdges(w, "padding", b.Padding)
	writeEdges(w, "border", b.Border)
	writeEdges(w, "margin", b.Margin)
	w.WriteByte('\n')
	for _, child := range b.Children {
		writeBox(w, child, depth+1)
	}
}

func boxLabel(b *BoxReport) string {
	switch {
	case b.Tag != "":
		var sb strings.Builder
		sb.WriteString("<" + b.Tag)
		if b.ID != "" {
			sb.WriteString("#" + b.ID)
		}
		for _, class := range b.Classes {
			sb.WriteString("." + class)
		}
		sb.WriteString(">")
		return sb.String()
	case b.Text != "":
		return strconv.Quote(b.Text)
	}
	return ""
}

// writeEdges omits all-zero edges.
func writeEdges(w *bufio.Writer, name string, e EdgesReport) {
	if e == (EdgesReport{}) {
		return
	}
	fmt.Fprintf(w, " %s=(%s %s %s %s)", name, num(e.Top), num(e.Right), num(e.Bottom), num(e.Left))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
