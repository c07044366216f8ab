// internal/layout/fuzz_test.go
package layout

import (
	"math"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"

	"github.com/xkilldash9x/boxlayout/internal/css"
	"github.com/xkilldash9x/boxlayout/internal/dom"
	"github.com/xkilldash9x/boxlayout/internal/style"
)

// widthInput is populated from fuzzed data. Lengths are kept in small integer
// ranges so the sums stay exact.
type widthInput struct {
	ContainerWidth  uint16
	Width           uint16
	MarginLeft      int16
	MarginRight     int16
	PaddingLeft     uint8
	PaddingRight    uint8
	BorderLeft      uint8
	BorderRight     uint8
	AutoWidth       bool
	AutoMarginLeft  bool
	AutoMarginRight bool
}

func (in widthInput) styledNode() *style.StyledNode {
	values := style.PropertyMap{
		"display":            css.Keyword("block"),
		"width":              css.PxLength(float64(in.Width)),
		"margin-left":        css.PxLength(float64(in.MarginLeft)),
		"margin-right":       css.PxLength(float64(in.MarginRight)),
		"padding-left":       css.PxLength(float64(in.PaddingLeft)),
		"padding-right":      css.PxLength(float64(in.PaddingRight)),
		"border-left-width":  css.PxLength(float64(in.BorderLeft)),
		"border-right-width": css.PxLength(float64(in.BorderRight)),
	}
	if in.AutoWidth {
		values["width"] = auto
	}
	if in.AutoMarginLeft {
		values["margin-left"] = auto
	}
	if in.AutoMarginRight {
		values["margin-right"] = auto
	}
	return &style.StyledNode{Node: dom.NewElement("div", nil), SpecifiedValues: values}
}

// FuzzBlockWidth checks that width resolution always fills the containing
// block exactly and never produces a negative content width.
func FuzzBlockWidth(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		in := widthInput{}
		if err := fuzz.NewConsumer(data).GenerateStruct(&in); err != nil {
			return
		}

		box, err := LayoutTree(in.styledNode(), Viewport(float64(in.ContainerWidth), 0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		d := box.Dimensions
		if d.Content.Width < 0 {
			t.Fatalf("negative content width %v for %+v", d.Content.Width, in)
		}
		if got := d.MarginBox().Width; math.Abs(got-float64(in.ContainerWidth)) > 1e-9 {
			t.Fatalf("margin box width %v != container width %v for %+v", got, in.ContainerWidth, in)
		}
		if !in.AutoWidth && d.Content.Width != float64(in.Width) {
			t.Fatalf("explicit width %v was changed to %v", in.Width, d.Content.Width)
		}
		if d.Padding.Left < 0 || d.Padding.Right < 0 || d.Border.Left < 0 || d.Border.Right < 0 {
			t.Fatalf("negative padding or border for %+v", in)
		}
	})
}
