// internal/reporting/json_reporter.go
package reporting

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/boxlayout/internal/layout"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONReporter writes each box tree as one JSON document.
type JSONReporter struct {
	writer io.WriteCloser
	indent bool
}

func NewJSONReporter(w io.WriteCloser, indent bool) *JSONReporter {
	return &JSONReporter{writer: w, indent: indent}
}

func (r *JSONReporter) Write(root *layout.LayoutBox) error {
	if root == nil {
		return fmt.Errorf("cannot report a nil box tree")
	}
	encoder := json.NewEncoder(r.writer)
	if r.indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(NewBoxReport(root)); err != nil {
		return fmt.Errorf("failed to encode box tree: %w", err)
	}
	return nil
}

func (r *JSONReporter) Close() error {
	return r.writer.Close()
}
