// internal/layout/box.go
package layout

import "github.com/xkilldash9x/boxlayout/internal/style"

// -- Core Structures: Box Model and Dimensions --

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// ExpandedBy returns a new rectangle expanded by the edge sizes.
func (r Rect) ExpandedBy(e EdgeSizes) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// EdgeSizes holds the size of each side of a margin, border or padding.
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// Dimensions defines the geometry of a layout box.
type Dimensions struct {
	// Content area relative to the document origin.
	Content Rect

	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

// PaddingBox returns the rectangle enclosing the padding area.
func (d Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

// BorderBox returns the rectangle enclosing the border area.
func (d Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// MarginBox returns the rectangle enclosing the margin area.
func (d Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// Viewport returns the dimensions of an initial containing block.
func Viewport(width, height float64) Dimensions {
	return Dimensions{Content: Rect{Width: width, Height: height}}
}

// -- Layout Tree (Box Tree) --

// BoxType defines the type of box generated by a node.
type BoxType int

const (
	BlockNode BoxType = iota
	InlineNode
	AnonymousBlock
)

func (t BoxType) String() string {
	switch t {
	case BlockNode:
		return "block"
	case InlineNode:
		return "inline"
	case AnonymousBlock:
		return "anonymous"
	default:
		return "unknown"
	}
}

// LayoutBox is a node in the layout tree. StyledNode is nil for anonymous
// boxes; for the others it points into the style tree, which must stay alive
// while the box is laid out.
type LayoutBox struct {
	Dimensions Dimensions
	BoxType    BoxType
	StyledNode *style.StyledNode
	Children   []*LayoutBox
}

func NewLayoutBox(boxType BoxType, styledNode *style.StyledNode) *LayoutBox {
	return &LayoutBox{
		BoxType:    boxType,
		StyledNode: styledNode,
	}
}

// getInlineContainer returns the box that a new inline child should be added
// to, appending an anonymous block when a block box needs one.
func (b *LayoutBox) getInlineContainer() *LayoutBox {
	switch b.BoxType {
	case InlineNode, AnonymousBlock:
		return b
	default:
		// Keep using the anonymous block we just generated, if any.
		if n := len(b.Children); n > 0 && b.Children[n-1].BoxType == AnonymousBlock {
			return b.Children[n-1]
		}
		anon := NewLayoutBox(AnonymousBlock, nil)
		b.Children = append(b.Children, anon)
		return anon
	}
}

// Walk visits b and its descendants in depth-first order.
func (b *LayoutBox) Walk(fn func(*LayoutBox)) {
	fn(b)
	for _, child := range b.Children {
		child.Walk(fn)
	}
}
