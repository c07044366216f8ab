// internal/css/parser_test.go
package css

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper functions to build expected structures concisely
func d(name string, v Value) Declaration {
	return Declaration{Name: name, Value: v}
}

func s(tag, id string, classes ...string) SimpleSelector {
	return SimpleSelector{TagName: tag, ID: id, Classes: classes}
}

func TestParseSimpleSelectors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SimpleSelector
	}{
		{"Tag", "div", s("div", "")},
		{"Uppercase Tag", "DIV", s("div", "")},
		{"ID", "#main", s("", "main")},
		{"Class", ".button", s("", "", "button")},
		{"Multiple Classes", ".btn.primary", s("", "", "btn", "primary")},
		{"Combined", "input#username.required", s("input", "username", "required")},
		{"Universal", "*", s("", "")},
		{"Universal With Class", "*.note", s("", "", "note")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.input + " { }")
			selectors := p.parseSelectors()
			require.Len(t, selectors, 1, "input: %s", tt.input)
			assert.Equal(t, tt.expected, selectors[0])
			assert.Empty(t, p.Errors())
		})
	}
}

func TestParseSelectors_SortedBySpecificity(t *testing.T) {
	p := NewParser("p, #main, div.note, .a.b, * {}")
	got := p.parseSelectors()

	want := []SimpleSelector{
		s("", "main"),
		s("", "", "a", "b"),
		s("div", "", "note"),
		s("p", ""),
		s("", ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseSelectors() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSelectors_UnsupportedAreDropped(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []SimpleSelector
	}{
		{"Descendant", "div p, h1 {}", []SimpleSelector{s("h1", "")}},
		{"Child", "ul > li {}", nil},
		{"Pseudo Class", "a:hover, a {}", []SimpleSelector{s("a", "")}},
		{"Attribute", `input[type="text"] {}`, nil},
		{"Sibling", "h1 + p, h2 ~ p, .ok {}", []SimpleSelector{s("", "", "ok")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.input)
			got := p.parseSelectors()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseSelectors() mismatch (-want +got):\n%s", diff)
			}
			assert.NotEmpty(t, p.Errors(), "dropped selectors should be reported")
		})
	}
}

func TestParseStylesheet(t *testing.T) {
	input := `
		/* Global Styles */
		body { margin: 0; padding: 0px; }

		h1, .title {
			color: #333;
			font-size: 24px;
		}

		#main-content {
			display: block;
			WIDTH: 80px;
		}
	`
	sheet := Parse(input)

	want := Stylesheet{Rules: []Rule{
		{
			Selectors:    []SimpleSelector{s("body", "")},
			Declarations: []Declaration{
				d("margin", PxLength(0)),
				d("margin-top", PxLength(0)), d("margin-right", PxLength(0)),
				d("margin-bottom", PxLength(0)), d("margin-left", PxLength(0)),
				d("padding", PxLength(0)),
				d("padding-top", PxLength(0)), d("padding-right", PxLength(0)),
				d("padding-bottom", PxLength(0)), d("padding-left", PxLength(0)),
			},
		},
		{
			Selectors:    []SimpleSelector{s("", "", "title"), s("h1", "")},
			Declarations: []Declaration{d("color", ColorOf(Color{0x33, 0x33, 0x33, 255})), d("font-size", PxLength(24))},
		},
		{
			Selectors:    []SimpleSelector{s("", "main-content")},
			Declarations: []Declaration{d("display", Keyword("block")), d("width", PxLength(80))},
		},
	}}
	if diff := cmp.Diff(want, sheet); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseShorthandExpansion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Declaration
	}{
		{
			"Single Value Kept And Expanded",
			"div { margin: auto; }",
			[]Declaration{
				d("margin", Keyword("auto")),
				d("margin-top", Keyword("auto")), d("margin-right", Keyword("auto")),
				d("margin-bottom", Keyword("auto")), d("margin-left", Keyword("auto")),
			},
		},
		{
			"Single Value Of Other Property",
			"div { width: 5px; }",
			[]Declaration{d("width", PxLength(5))},
		},
		{
			"Two Values",
			"div { padding: 1px 2px; }",
			[]Declaration{
				d("padding-top", PxLength(1)), d("padding-right", PxLength(2)),
				d("padding-bottom", PxLength(1)), d("padding-left", PxLength(2)),
			},
		},
		{
			"Three Values",
			"div { margin: 1px auto 3px; }",
			[]Declaration{
				d("margin-top", PxLength(1)), d("margin-right", Keyword("auto")),
				d("margin-bottom", PxLength(3)), d("margin-left", Keyword("auto")),
			},
		},
		{
			"Four Values",
			"div { border-width: 1px 2px 3px 4px; }",
			[]Declaration{
				d("border-top-width", PxLength(1)), d("border-right-width", PxLength(2)),
				d("border-bottom-width", PxLength(3)), d("border-left-width", PxLength(4)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := Parse(tt.input)
			require.Len(t, sheet.Rules, 1)
			if diff := cmp.Diff(tt.want, sheet.Rules[0].Declarations); diff != "" {
				t.Errorf("declarations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRecovery(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantRules int
		wantDecls []Declaration
	}{
		{
			"Invalid Declaration Skipped",
			"p { color red; width: 10px; }",
			1, []Declaration{d("width", PxLength(10))},
		},
		{
			"Unsupported Unit Skipped",
			"p { width: 50%; height: 2em; top: 3px; }",
			1, []Declaration{d("top", PxLength(3))},
		},
		{
			"Important Rejected",
			"p { display: none !important; width: 1px; }",
			1, []Declaration{d("width", PxLength(1))},
		},
		{
			"Too Many Components",
			"p { margin: 1px 2px 3px 4px 5px; font-family: a b; height: 5px; }",
			1, []Declaration{d("height", PxLength(5))},
		},
		{
			"Media Query Skipped",
			"@media print { p { display: none; } } p { width: 1px; }",
			1, []Declaration{d("width", PxLength(1))},
		},
		{
			"Import Skipped",
			`@import url("x.css"); p { width: 1px; }`,
			1, []Declaration{d("width", PxLength(1))},
		},
		{
			"Rule Without Supported Selectors",
			"div > p { width: 1px; } p { width: 2px; }",
			1, []Declaration{d("width", PxLength(2))},
		},
		{
			"Unterminated Block",
			"p { width: 1px;",
			1, []Declaration{d("width", PxLength(1))},
		},
		{
			"Empty Rule Dropped",
			"p { } p { width: 2px }",
			1, []Declaration{d("width", PxLength(2))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := Parse(tt.input)
			require.Len(t, sheet.Rules, tt.wantRules)
			if diff := cmp.Diff(tt.wantDecls, sheet.Rules[0].Declarations); diff != "" {
				t.Errorf("declarations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEmptyAndGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "/* only a comment */", "}}}", "{{{", "@", "p", "p {"} {
		t.Run(input, func(t *testing.T) {
			assert.NotPanics(t, func() {
				sheet := Parse(input)
				assert.Empty(t, sheet.Rules)
			})
		})
	}
}

func TestSpecificity(t *testing.T) {
	assert.Equal(t, Specificity{1, 2, 1}, s("a", "x", "b", "c").Specificity())
	assert.Equal(t, Specificity{0, 0, 0}, s("", "").Specificity())

	assert.True(t, Specificity{0, 0, 5}.Less(Specificity{0, 1, 0}))
	assert.True(t, Specificity{0, 9, 9}.Less(Specificity{1, 0, 0}))
	assert.False(t, Specificity{0, 1, 0}.Less(Specificity{0, 1, 0}))
	assert.False(t, Specificity{1, 0, 0}.Less(Specificity{0, 3, 3}))
}

func TestSimpleSelectorString(t *testing.T) {
	assert.Equal(t, "*", s("", "").String())
	assert.Equal(t, "div#main.a.b", s("div", "main", "a", "b").String())
}

func TestConcat(t *testing.T) {
	a := Parse("p { width: 1px; }")
	b := Parse("div { width: 2px; } span { width: 3px; }")
	got := Concat(a, b)
	require.Len(t, got.Rules, 3)
	assert.Equal(t, "p", got.Rules[0].Selectors[0].TagName)
	assert.Equal(t, "span", got.Rules[2].Selectors[0].TagName)
}

func FuzzParse(f *testing.F) {
	f.Add("div { margin: 1px auto; }")
	f.Add("@media x { a { b: c } } #id.c, p:hover { width: -3px }")
	f.Add("p { color: #abc; padding: 0 1px 2px; }")
	f.Fuzz(func(t *testing.T, input string) {
		sheet := Parse(input)
		for _, rule := range sheet.Rules {
			if len(rule.Selectors) == 0 || len(rule.Declarations) == 0 {
				t.Fatalf("rule with no selectors or declarations from %q", input)
			}
			for i := 1; i < len(rule.Selectors); i++ {
				if rule.Selectors[i-1].Specificity().Less(rule.Selectors[i].Specificity()) {
					t.Fatalf("selectors not sorted by specificity in %q", input)
				}
			}
		}
	})
}
