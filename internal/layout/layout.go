// internal/layout/layout.go
package layout

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/boxlayout/internal/css"
	"github.com/xkilldash9x/boxlayout/internal/dom"
	"github.com/xkilldash9x/boxlayout/internal/style"
)

// ErrRootNotRenderable is returned when the root of the style tree has
// display: none.
var ErrRootNotRenderable = errors.New("root node has display: none")

var (
	auto = css.Keyword("auto")
	zero = css.PxLength(0)
)

// LayoutTree builds the layout tree for a style tree and lays it out inside
// the viewport. The viewport height is not a constraint: block heights come
// from their content, so it is reset to zero to act as the stacking offset.
func LayoutTree(root *style.StyledNode, viewport Dimensions) (*LayoutBox, error) {
	viewport.Content.Height = 0

	box, err := BuildLayoutTree(root)
	if err != nil {
		return nil, err
	}
	box.Layout(viewport)
	return box, nil
}

// -- Layout Tree Construction --

// BuildLayoutTree constructs the tree of boxes without computing geometry.
func BuildLayoutTree(styledNode *style.StyledNode) (*LayoutBox, error) {
	if styledNode.Display() == style.DisplayNone {
		return nil, fmt.Errorf("%w (%s)", ErrRootNotRenderable, describe(styledNode.Node))
	}
	return buildBox(styledNode), nil
}

// buildBox must not be called for a node with display: none.
func buildBox(styledNode *style.StyledNode) *LayoutBox {
	var root *LayoutBox
	if styledNode.Display() == style.DisplayBlock {
		root = NewLayoutBox(BlockNode, styledNode)
	} else {
		root = NewLayoutBox(InlineNode, styledNode)
	}

	for _, child := range styledNode.Children {
		switch child.Display() {
		case style.DisplayBlock:
			root.Children = append(root.Children, buildBox(child))
		case style.DisplayInline:
			container := root.getInlineContainer()
			container.Children = append(container.Children, buildBox(child))
		case style.DisplayNone:
			// Skipped along with its whole subtree.
		}
	}
	return root
}

func describe(n *dom.Node) string {
	if n == nil {
		return "<nil>"
	}
	if n.Type == dom.TextNode {
		return "#text"
	}
	return "<" + n.Element.TagName + ">"
}

// -- Layout Algorithm --

// Layout lays out the box and its descendants. containingBlock.Content.Height
// is the vertical offset at which this box starts inside its containing block.
func (b *LayoutBox) Layout(containingBlock Dimensions) {
	switch b.BoxType {
	case BlockNode:
		b.layoutBlock(containingBlock)
	case InlineNode, AnonymousBlock:
		b.layoutPassThrough(containingBlock)
	}
}

func (b *LayoutBox) layoutBlock(containingBlock Dimensions) {
	// Child width can depend on parent width, so the width is resolved
	// before the children are laid out.
	b.calculateBlockWidth(containingBlock)
	b.calculateBlockPosition(containingBlock)
	b.layoutBlockChildren()
	// Parent height can depend on child height.
	b.calculateBlockHeight()
}

// layoutPassThrough handles inline and anonymous boxes, which take the full
// width of their containing block, add no edges of their own and stack their
// children like a block does.
func (b *LayoutBox) layoutPassThrough(containingBlock Dimensions) {
	d := &b.Dimensions
	d.Padding, d.Border, d.Margin = EdgeSizes{}, EdgeSizes{}, EdgeSizes{}
	d.Content.X = containingBlock.Content.X
	d.Content.Y = containingBlock.Content.Y + containingBlock.Content.Height
	d.Content.Width = containingBlock.Content.Width
	b.layoutBlockChildren()
}

// calculateBlockWidth resolves width, horizontal margins, borders and
// padding against the containing block width.
func (b *LayoutBox) calculateBlockWidth(containingBlock Dimensions) {
	sn := b.StyledNode

	width, ok := sn.Value("width")
	if !ok {
		width = auto
	}

	marginLeft := sn.Lookup("margin-left", "margin", zero)
	marginRight := sn.Lookup("margin-right", "margin", zero)

	borderLeft := sn.Lookup("border-left-width", "border-width", zero)
	borderRight := sn.Lookup("border-right-width", "border-width", zero)

	paddingLeft := sn.Lookup("padding-left", "padding", zero)
	paddingRight := sn.Lookup("padding-right", "padding", zero)

	total := sumPx(marginLeft, marginRight, borderLeft, borderRight, paddingLeft, paddingRight, width)

	// If width is not auto and the total is wider than the container, treat
	// auto margins as 0.
	if width != auto && total > containingBlock.Content.Width {
		if marginLeft == auto {
			marginLeft = zero
		}
		if marginRight == auto {
			marginRight = zero
		}
	}

	// Space left over in the containing block; negative when overflowing.
	underflow := containingBlock.Content.Width - total

	switch {
	case width != auto && marginLeft != auto && marginRight != auto:
		// Over-constrained: the right margin absorbs the difference.
		marginRight = css.PxLength(marginRight.ToPx() + underflow)
	case width != auto && marginLeft != auto && marginRight == auto:
		marginRight = css.PxLength(underflow)
	case width != auto && marginLeft == auto && marginRight != auto:
		marginLeft = css.PxLength(underflow)
	case width != auto:
		// Both margins auto: center the box.
		marginLeft = css.PxLength(underflow / 2)
		marginRight = css.PxLength(underflow / 2)
	default:
		// Auto width takes all remaining space; auto margins become 0.
		if marginLeft == auto {
			marginLeft = zero
		}
		if marginRight == auto {
			marginRight = zero
		}
		if underflow >= 0 {
			width = css.PxLength(underflow)
		} else {
			// Width can't be negative; the right margin goes negative instead.
			width = zero
			marginRight = css.PxLength(marginRight.ToPx() + underflow)
		}
	}

	d := &b.Dimensions
	d.Content.Width = width.ToPx()

	d.Padding.Left = paddingLeft.ToPx()
	d.Padding.Right = paddingRight.ToPx()

	d.Border.Left = borderLeft.ToPx()
	d.Border.Right = borderRight.ToPx()

	d.Margin.Left = marginLeft.ToPx()
	d.Margin.Right = marginRight.ToPx()
}

// calculateBlockPosition places the box below the previous boxes in the
// containing block and resolves its vertical edges.
func (b *LayoutBox) calculateBlockPosition(containingBlock Dimensions) {
	sn := b.StyledNode
	d := &b.Dimensions

	// Auto vertical margins resolve to 0.
	d.Margin.Top = sn.Lookup("margin-top", "margin", zero).ToPx()
	d.Margin.Bottom = sn.Lookup("margin-bottom", "margin", zero).ToPx()

	d.Border.Top = sn.Lookup("border-top-width", "border-width", zero).ToPx()
	d.Border.Bottom = sn.Lookup("border-bottom-width", "border-width", zero).ToPx()

	d.Padding.Top = sn.Lookup("padding-top", "padding", zero).ToPx()
	d.Padding.Bottom = sn.Lookup("padding-bottom", "padding", zero).ToPx()

	d.Content.X = containingBlock.Content.X + d.Margin.Left + d.Border.Left + d.Padding.Left

	// Position the box below all the previous boxes in the container.
	d.Content.Y = containingBlock.Content.Height + containingBlock.Content.Y +
		d.Margin.Top + d.Border.Top + d.Padding.Top
}

// layoutBlockChildren lays out the children vertically. The content height
// doubles as the stacking offset passed to each child.
func (b *LayoutBox) layoutBlockChildren() {
	d := &b.Dimensions
	d.Content.Height = 0
	for _, child := range b.Children {
		child.Layout(*d)
		d.Content.Height += child.Dimensions.MarginBox().Height
	}
}

// calculateBlockHeight applies an explicit height; otherwise the height
// computed from the children is kept.
func (b *LayoutBox) calculateBlockHeight() {
	if h, ok := b.StyledNode.Value("height"); ok && h.Kind == css.LengthValue {
		b.Dimensions.Content.Height = h.ToPx()
	}
}

func sumPx(values ...css.Value) float64 {
	total := 0.0
	for _, v := range values {
		total += v.ToPx()
	}
	return total
}
