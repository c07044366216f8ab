// internal/dom/dom.go
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// NodeType distinguishes element nodes from text nodes.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// ElementData holds the tag name and raw attributes of an element.
type ElementData struct {
	TagName string
	Attrs   map[string]string
}

// Node is a read-only DOM node consumed by the style engine.
type Node struct {
	Type     NodeType
	Text     string
	Element  ElementData
	Children []*Node
}

// NewText creates a text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Text: data}
}

// NewElement creates an element node. Tag names are lowercased.
func NewElement(tagName string, attrs map[string]string, children ...*Node) *Node {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &Node{
		Type:     ElementNode,
		Element:  ElementData{TagName: strings.ToLower(tagName), Attrs: attrs},
		Children: children,
	}
}

// ID returns the value of the id attribute, if present.
func (e ElementData) ID() (string, bool) {
	id, ok := e.Attrs["id"]
	return id, ok
}

// Classes returns the set of class names in the class attribute.
func (e ElementData) Classes() map[string]struct{} {
	classes := make(map[string]struct{})
	for _, name := range strings.Fields(e.Attrs["class"]) {
		classes[name] = struct{}{}
	}
	return classes
}

// HasClass reports whether the element carries the given class name.
func (e ElementData) HasClass(name string) bool {
	_, ok := e.Classes()[name]
	return ok
}

// Document is a converted HTML tree. Sources maps every element back to the
// html.Node it was built from so callers can run selector queries on the
// original parse tree.
type Document struct {
	Root    *Node
	Sources map[*html.Node]*Node
}

// FromHTML converts an html parse tree into a Document rooted at the first
// element found under n. Comments, doctypes and whitespace-only text are
// dropped.
func FromHTML(n *html.Node) *Document {
	doc := &Document{Sources: make(map[*html.Node]*Node)}
	root := firstElement(n)
	if root != nil {
		doc.Root = doc.convert(root)
	}
	return doc
}

func firstElement(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstElement(c); found != nil {
			return found
		}
	}
	return nil
}

func (d *Document) convert(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return NewText(n.Data)
	case html.ElementNode:
		attrs := make(map[string]string, len(n.Attr))
		for _, attr := range n.Attr {
			// First occurrence wins, matching the HTML tokenizer.
			if _, exists := attrs[attr.Key]; !exists {
				attrs[attr.Key] = attr.Val
			}
		}
		node := NewElement(n.Data, attrs)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := d.convert(c); child != nil {
				node.Children = append(node.Children, child)
			}
		}
		d.Sources[n] = node
		return node
	default:
		return nil
	}
}

// Walk visits n and its descendants in document order.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
