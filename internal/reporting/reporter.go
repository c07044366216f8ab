// internal/reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xkilldash9x/boxlayout/internal/dom"
	"github.com/xkilldash9x/boxlayout/internal/layout"
)

// Reporter writes laid out box trees to an output. Everything a painter
// would need is carried in the absolute box geometry.
type Reporter interface {
	// Write serializes one box tree.
	Write(root *layout.LayoutBox) error
	// Close finalizes the report and closes any underlying resources.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for format ("text", "json" or "xml") writing to outputPath,
// or to stdout when outputPath is empty or "stdout".
func New(format, outputPath string, indent bool) (Reporter, error) {
	var writer io.WriteCloser
	var cleanup func()

	if outputPath == "" || outputPath == "stdout" {
		writer = &nopWriteCloser{os.Stdout}
		cleanup = func() {}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
		cleanup = func() { f.Close() }
	}

	switch format {
	case "text":
		return NewTextReporter(writer), nil
	case "json":
		return NewJSONReporter(writer, indent), nil
	case "xml":
		return NewXMLReporter(writer, indent), nil
	default:
		cleanup()
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// RectReport is the serialized form of a layout.Rect.
type RectReport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EdgesReport is the serialized form of layout.EdgeSizes.
type EdgesReport struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// BoxReport is the serialized form of a layout box and its descendants.
type BoxReport struct {
	Type     string       `json:"type"`
	Tag      string       `json:"tag,omitempty"`
	ID       string       `json:"id,omitempty"`
	Classes  []string     `json:"classes,omitempty"`
	Text     string       `json:"text,omitempty"`
	Content  RectReport   `json:"content"`
	Padding  EdgesReport  `json:"padding"`
	Border   EdgesReport  `json:"border"`
	Margin   EdgesReport  `json:"margin"`
	Children []*BoxReport `json:"children,omitempty"`
}

// NewBoxReport converts a box tree into its serialized form.
func NewBoxReport(b *layout.LayoutBox) *BoxReport {
	d := b.Dimensions
	report := &BoxReport{
		Type:    b.BoxType.String(),
		Content: RectReport{X: d.Content.X, Y: d.Content.Y, Width: d.Content.Width, Height: d.Content.Height},
		Padding: edges(d.Padding),
		Border:  edges(d.Border),
		Margin:  edges(d.Margin),
	}
	if b.StyledNode != nil && b.StyledNode.Node != nil {
		n := b.StyledNode.Node
		switch n.Type {
		case dom.ElementNode:
			report.Tag = n.Element.TagName
			report.ID, _ = n.Element.ID()
			if classes := strings.Fields(n.Element.Attrs["class"]); len(classes) > 0 {
				report.Classes = classes
			}
		case dom.TextNode:
			report.Text = strings.TrimSpace(n.Text)
		}
	}
	for _, child := range b.Children {
		report.Children = append(report.Children, NewBoxReport(child))
	}
	return report
}

func edges(e layout.EdgeSizes) EdgesReport {
	return EdgesReport{Top: e.Top, Right: e.Right, Bottom: e.Bottom, Left: e.Left}
}
