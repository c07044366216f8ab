// internal/css/stylesheet.go
package css

// Declaration is a property/value pair (e.g., display: none).
type Declaration struct {
	Name  string
	Value Value
}

// Specificity ranks a selector as (ids, classes, tags), compared
// lexicographically.
type Specificity [3]int

// Less reports whether s ranks strictly below other.
func (s Specificity) Less(other Specificity) bool {
	for i := range s {
		if s[i] != other[i] {
			return s[i] < other[i]
		}
	}
	return false
}

// SimpleSelector is a tag/id/class predicate. Empty fields are absent
// predicates; a selector with none of them matches every element.
type SimpleSelector struct {
	TagName string
	ID      string
	Classes []string
}

// Specificity calculates the rank of the selector.
func (s SimpleSelector) Specificity() Specificity {
	var spec Specificity
	if s.ID != "" {
		spec[0] = 1
	}
	spec[1] = len(s.Classes)
	if s.TagName != "" {
		spec[2] = 1
	}
	return spec
}

func (s SimpleSelector) String() string {
	out := s.TagName
	if s.ID != "" {
		out += "#" + s.ID
	}
	for _, class := range s.Classes {
		out += "." + class
	}
	if out == "" {
		return "*"
	}
	return out
}

// Rule applies its declarations to elements matched by any of its selectors.
type Rule struct {
	Selectors    []SimpleSelector
	Declarations []Declaration
}

// Stylesheet is an ordered list of rules in source order.
type Stylesheet struct {
	Rules []Rule
}

// Concat joins stylesheets, preserving source order across them.
func Concat(sheets ...Stylesheet) Stylesheet {
	var out Stylesheet
	for _, sheet := range sheets {
		out.Rules = append(out.Rules, sheet.Rules...)
	}
	return out
}
