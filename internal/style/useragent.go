// internal/style/useragent.go
package style

import "github.com/xkilldash9x/boxlayout/internal/css"

// DefaultUserAgentCSS gives common block-level elements block display and
// hides elements that never render. It only uses features the parser supports.
const DefaultUserAgentCSS = `
html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, form, header, footer,
section, article, nav, main, aside, blockquote, pre, figure, table {
    display: block;
}

head, title, style, script, meta, link, template {
    display: none;
}
`

// UserAgentSheet parses DefaultUserAgentCSS. It is meant to be placed before
// the author sheet so equally specific author rules win.
func UserAgentSheet() css.Stylesheet {
	return css.Parse(DefaultUserAgentCSS)
}
