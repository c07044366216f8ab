// internal/engine/engine.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/boxlayout/internal/config"
	"github.com/xkilldash9x/boxlayout/internal/css"
	"github.com/xkilldash9x/boxlayout/internal/dom"
	"github.com/xkilldash9x/boxlayout/internal/layout"
	"github.com/xkilldash9x/boxlayout/internal/style"
)

// ErrEmptyDocument is returned when the HTML input contains no element.
var ErrEmptyDocument = errors.New("document has no root element")

// Engine runs the parse, style and layout stages for one document at a time.
// It holds no per-render state and is safe for concurrent use.
type Engine struct {
	cfg    config.Interface
	logger *zap.Logger
}

// New creates a new Engine.
func New(cfg config.Interface, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "engine")),
	}
}

// Timings records how long each stage of a render took.
type Timings struct {
	Parse  time.Duration
	Style  time.Duration
	Layout time.Duration
}

// Total is the sum of all stage durations.
func (t Timings) Total() time.Duration {
	return t.Parse + t.Style + t.Layout
}

// Result holds every tree produced by a render. The layout tree points into
// the style tree, which points into the DOM, so they are kept together.
type Result struct {
	RenderID   string
	HTMLRoot   *html.Node
	Document   *dom.Document
	Stylesheet css.Stylesheet
	StyleRoot  *style.StyledNode
	LayoutRoot *layout.LayoutBox
	Timings    Timings
}

// Render parses htmlSrc and cssSrc and lays the document out in the
// configured viewport. cssSrc may be nil. The context is checked between
// stages; the stages themselves run to completion.
func (e *Engine) Render(ctx context.Context, htmlSrc, cssSrc io.Reader) (*Result, error) {
	res := &Result{RenderID: uuid.New().String()}
	logger := e.logger.With(zap.String("render_id", res.RenderID))

	// -- Parse --
	start := time.Now()
	root, err := html.Parse(htmlSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	res.HTMLRoot = root
	res.Document = dom.FromHTML(root)
	if res.Document.Root == nil {
		return nil, ErrEmptyDocument
	}

	sheet, err := e.parseStylesheet(logger, cssSrc)
	if err != nil {
		return nil, err
	}
	res.Stylesheet = sheet
	res.Timings.Parse = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// -- Style --
	start = time.Now()
	res.StyleRoot = style.BuildTree(res.Document.Root, res.Stylesheet)
	res.Timings.Style = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// -- Layout --
	start = time.Now()
	vp := e.cfg.Viewport()
	res.LayoutRoot, err = layout.LayoutTree(res.StyleRoot, layout.Viewport(vp.Width, vp.Height))
	if err != nil {
		return nil, fmt.Errorf("failed to lay out document: %w", err)
	}
	res.Timings.Layout = time.Since(start)

	logger.Debug("Render complete",
		zap.Int("rules", len(res.Stylesheet.Rules)),
		zap.Duration("parse", res.Timings.Parse),
		zap.Duration("style", res.Timings.Style),
		zap.Duration("layout", res.Timings.Layout),
	)
	return res, nil
}

// parseStylesheet reads the author sheet and prepends the user-agent sheet
// when enabled. Skipped CSS is logged, not returned.
func (e *Engine) parseStylesheet(logger *zap.Logger, cssSrc io.Reader) (css.Stylesheet, error) {
	var author css.Stylesheet
	if cssSrc != nil {
		data, err := io.ReadAll(cssSrc)
		if err != nil {
			return css.Stylesheet{}, fmt.Errorf("failed to read CSS: %w", err)
		}
		p := css.NewParser(string(data))
		author = p.Parse()
		for _, perr := range p.Errors() {
			logger.Debug("Skipped CSS", zap.Error(perr))
		}
	}

	if !e.cfg.Style().UserAgent {
		return author, nil
	}
	return css.Concat(style.UserAgentSheet(), author), nil
}

// Query returns the layout boxes of the elements matching a CSS selector, in
// document order. Elements that generate no box are left out. The full
// selector grammar is available here, unlike in the cascade.
func (r *Result) Query(selector string) ([]*layout.LayoutBox, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	matched := make(map[*dom.Node]struct{})
	for _, n := range sel.MatchAll(r.HTMLRoot) {
		if node, ok := r.Document.Sources[n]; ok {
			matched[node] = struct{}{}
		}
	}

	var boxes []*layout.LayoutBox
	r.LayoutRoot.Walk(func(b *layout.LayoutBox) {
		if b.StyledNode == nil {
			return
		}
		if _, ok := matched[b.StyledNode.Node]; ok {
			boxes = append(boxes, b)
		}
	})
	return boxes, nil
}
