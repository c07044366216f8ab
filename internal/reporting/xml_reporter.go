// internal/reporting/xml_reporter.go
package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/xkilldash9x/boxlayout/internal/layout"
)

// XMLReporter writes each box tree as one XML document of nested <box>
// elements.
type XMLReporter struct {
	writer io.WriteCloser
	indent bool
}

func NewXMLReporter(w io.WriteCloser, indent bool) *XMLReporter {
	return &XMLReporter{writer: w, indent: indent}
}

func (r *XMLReporter) Write(root *layout.LayoutBox) error {
	if root == nil {
		return fmt.Errorf("cannot report a nil box tree")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	appendBox(&doc.Element, NewBoxReport(root))
	if r.indent {
		doc.Indent(2)
	}
	if _, err := doc.WriteTo(r.writer); err != nil {
		return fmt.Errorf("failed to write XML report: %w", err)
	}
	if !r.indent {
		// Keep one document per line.
		if _, err := io.WriteString(r.writer, "\n"); err != nil {
			return fmt.Errorf("failed to write XML report: %w", err)
		}
	}
	return nil
}

func (r *XMLReporter) Close() error {
	return r.writer.Close()
}

func appendBox(parent *etree.Element, b *BoxReport) {
	el := parent.CreateElement("box")
	el.CreateAttr("type", b.Type)
	if b.Tag != "" {
		el.CreateAttr("tag", b.Tag)
	}
	if b.ID != "" {
		el.CreateAttr("id", b.ID)
	}
	if len(b.Classes) > 0 {
		el.CreateAttr("class", strings.Join(b.Classes, " "))
	}

	content := el.CreateElement("content")
	content.CreateAttr("x", num(b.Content.X))
	content.CreateAttr("y", num(b.Content.Y))
	content.CreateAttr("width", num(b.Content.Width))
	content.CreateAttr("height", num(b.Content.Height))
	appendEdges(el, "padding", b.Padding)
	appendEdges(el, "border", b.Border)
	appendEdges(el, "margin", b.Margin)

	if b.Text != "" {
		el.CreateElement("text").SetText(b.Text)
	}
	for _, child := range b.Children {
		appendBox(el, child)
	}
}

func appendEdges(parent *etree.Element, name string, e EdgesReport) {
	if e == (EdgesReport{}) {
		return
	}
	el := parent.CreateElement(name)
	el.CreateAttr("top", num(e.Top))
	el.CreateAttr("right", num(e.Right))
	el.CreateAttr("bottom", num(e.Bottom))
	el.CreateAttr("left", num(e.Left))
}
