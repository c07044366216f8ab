// internal/style/style.go
package style

import (
	"sort"

	"github.com/xkilldash9x/boxlayout/internal/css"
	"github.com/xkilldash9x/boxlayout/internal/dom"
)

// PropertyMap maps CSS property names to their specified values.
type PropertyMap map[string]css.Value

// StyledNode represents a DOM node combined with its specified values.
type StyledNode struct {
	Node            *dom.Node
	SpecifiedValues PropertyMap
	Children        []*StyledNode
}

// Display is the outer display type of a node.
type Display int

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayNone
)

func (d Display) String() string {
	switch d {
	case DisplayBlock:
		return "block"
	case DisplayNone:
		return "none"
	default:
		return "inline"
	}
}

// -- Style Tree Construction --

// BuildTree applies a stylesheet to an entire DOM tree. Every DOM node gets a
// StyledNode; display:none filtering is left to layout tree construction.
func BuildTree(root *dom.Node, sheet css.Stylesheet) *StyledNode {
	values := PropertyMap{}
	if root.Type == dom.ElementNode {
		values = SpecifiedValues(root.Element, sheet)
	}

	styledNode := &StyledNode{
		Node:            root,
		SpecifiedValues: values,
		Children:        make([]*StyledNode, 0, len(root.Children)),
	}
	for _, child := range root.Children {
		styledNode.Children = append(styledNode.Children, BuildTree(child, sheet))
	}
	return styledNode
}

// -- The Cascade --

// MatchedRule is a rule together with the specificity of the selector that
// matched it.
type MatchedRule struct {
	Specificity css.Specificity
	Rule        *css.Rule
}

// SpecifiedValues merges the declarations of every rule matching elem,
// lowest specificity first, so later declarations overwrite earlier ones.
func SpecifiedValues(elem dom.ElementData, sheet css.Stylesheet) PropertyMap {
	values := make(PropertyMap)
	rules := MatchingRules(elem, sheet)

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Specificity.Less(rules[j].Specificity)
	})
	for _, matched := range rules {
		for _, decl := range matched.Rule.Declarations {
			values[decl.Name] = decl.Value
		}
	}
	return values
}

// MatchingRules returns every rule of the sheet that matches elem, in source
// order. Rules are scanned linearly.
func MatchingRules(elem dom.ElementData, sheet css.Stylesheet) []MatchedRule {
	var matched []MatchedRule
	for i := range sheet.Rules {
		if m, ok := matchRule(elem, &sheet.Rules[i]); ok {
			matched = append(matched, m)
		}
	}
	return matched
}

// matchRule ranks a rule by its first matching selector. The parser orders
// selectors most specific first.
func matchRule(elem dom.ElementData, rule *css.Rule) (MatchedRule, bool) {
	for _, selector := range rule.Selectors {
		if Matches(elem, selector) {
			return MatchedRule{Specificity: selector.Specificity(), Rule: rule}, true
		}
	}
	return MatchedRule{}, false
}

// Matches reports whether a simple selector matches the element.
func Matches(elem dom.ElementData, selector css.SimpleSelector) bool {
	if selector.TagName != "" && selector.TagName != elem.TagName {
		return false
	}
	if selector.ID != "" {
		if id, ok := elem.ID(); !ok || id != selector.ID {
			return false
		}
	}
	if len(selector.Classes) > 0 {
		classes := elem.Classes()
		for _, class := range selector.Classes {
			if _, ok := classes[class]; !ok {
				return false
			}
		}
	}
	return true
}

// -- Property Lookup --

// Value returns the specified value of a property, if any.
func (sn *StyledNode) Value(name string) (css.Value, bool) {
	v, ok := sn.SpecifiedValues[name]
	return v, ok
}

// Lookup returns the value of name, or of fallbackName if name is not
// specified, or def if neither is.
func (sn *StyledNode) Lookup(name, fallbackName string, def css.Value) css.Value {
	if v, ok := sn.Value(name); ok {
		return v
	}
	if v, ok := sn.Value(fallbackName); ok {
		return v
	}
	return def
}

// Display returns the value of the display property, defaulting to inline.
func (sn *StyledNode) Display() Display {
	v, ok := sn.Value("display")
	if !ok || v.Kind != css.KeywordValue {
		return DisplayInline
	}
	switch v.Keyword {
	case "block":
		return DisplayBlock
	case "none":
		return DisplayNone
	default:
		return DisplayInline
	}
}

// Walk visits sn and its descendants in document order.
func (sn *StyledNode) Walk(fn func(*StyledNode)) {
	fn(sn)
	for _, child := range sn.Children {
		child.Walk(fn)
	}
}
