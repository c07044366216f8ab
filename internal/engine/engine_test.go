// internal/engine/engine_test.go
package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/boxlayout/internal/config"
	"github.com/xkilldash9x/boxlayout/internal/layout"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testHTML = `<!DOCTYPE html>
<html>
  <head><title>test</title></head>
  <body>
    <div id="main" class="card">
      <p>Hello</p>
      <p class="second">World</p>
    </div>
  </body>
</html>`

const testCSS = `
div { width: 100px; margin: auto; }
p { height: 50px; }
`

func newTestEngine(t *testing.T, mutate func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.NewDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return New(cfg, zaptest.NewLogger(t))
}

func TestRender(t *testing.T) {
	e := newTestEngine(t, nil)

	res, err := e.Render(context.Background(), strings.NewReader(testHTML), strings.NewReader(testCSS))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.NotEmpty(t, res.RenderID)
	assert.NotNil(t, res.StyleRoot)
	assert.GreaterOrEqual(t, res.Timings.Total(), res.Timings.Layout)

	// The user-agent sheet makes html, body, div and p blocks and hides head.
	root := res.LayoutRoot
	require.NotNil(t, root)
	assert.Equal(t, layout.BlockNode, root.BoxType)
	assert.Equal(t, 800.0, root.Dimensions.Content.Width)
	require.Len(t, root.Children, 1, "head should not generate a box")
	body := root.Children[0]
	assert.Equal(t, "body", body.StyledNode.Node.Element.TagName)

	require.Len(t, body.Children, 1)
	div := body.Children[0]
	d := div.Dimensions
	assert.Equal(t, 100.0, d.Content.Width)
	assert.Equal(t, 350.0, d.Margin.Left)
	assert.Equal(t, 350.0, d.Margin.Right)
	assert.Equal(t, 350.0, d.Content.X)
	assert.Equal(t, 100.0, d.Content.Height)

	require.Len(t, div.Children, 2)
	first, second := div.Children[0].Dimensions, div.Children[1].Dimensions
	assert.Equal(t, d.Content.Y, first.Content.Y)
	assert.Equal(t, first.Content.Y+50, second.Content.Y)

	// Heights are driven by content, not by the viewport height.
	assert.Equal(t, 100.0, root.Dimensions.Content.Height)
}

func TestRender_NoUserAgent(t *testing.T) {
	e := newTestEngine(t, func(c *config.Config) { c.StyleCfg.UserAgent = false })

	res, err := e.Render(context.Background(), strings.NewReader(testHTML), nil)
	require.NoError(t, err)

	// Without any sheet every element is inline.
	assert.Equal(t, layout.InlineNode, res.LayoutRoot.BoxType)
	assert.Empty(t, res.Stylesheet.Rules)
	res.LayoutRoot.Walk(func(b *layout.LayoutBox) {
		assert.NotEqual(t, layout.BlockNode, b.BoxType)
	})
}

func TestRender_Viewport(t *testing.T) {
	e := newTestEngine(t, func(c *config.Config) { c.ViewportCfg.Width = 300 })

	res, err := e.Render(context.Background(), strings.NewReader(testHTML), strings.NewReader(testCSS))
	require.NoError(t, err)

	boxes, err := res.Query("#main")
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, 100.0, boxes[0].Dimensions.Margin.Left)
	assert.Equal(t, 100.0, boxes[0].Dimensions.Margin.Right)
}

func TestRender_Errors(t *testing.T) {
	e := newTestEngine(t, nil)

	t.Run("RootDisplayNone", func(t *testing.T) {
		_, err := e.Render(context.Background(), strings.NewReader(testHTML), strings.NewReader(`html { display: none; }`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, layout.ErrRootNotRenderable))
	})

	t.Run("UnreadableCSS", func(t *testing.T) {
		readErr := errors.New("disk on fire")
		_, err := e.Render(context.Background(), strings.NewReader(testHTML), iotest.ErrReader(readErr))
		require.Error(t, err)
		assert.ErrorIs(t, err, readErr)
	})

	t.Run("UnreadableHTML", func(t *testing.T) {
		readErr := errors.New("socket closed")
		_, err := e.Render(context.Background(), iotest.ErrReader(readErr), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, readErr)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := e.Render(ctx, strings.NewReader(testHTML), strings.NewReader(testCSS))
		assert.Nil(t, res)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRender_MalformedCSSIsSkipped(t *testing.T) {
	e := newTestEngine(t, nil)
	css := `div > p { color: red; } div { width: 100px; margin: auto; } @media print { p { display: none; } }`

	res, err := e.Render(context.Background(), strings.NewReader(testHTML), strings.NewReader(css))
	require.NoError(t, err)

	boxes, err := res.Query("p")
	require.NoError(t, err)
	assert.Len(t, boxes, 2)
}

func TestResult_Query(t *testing.T) {
	e := newTestEngine(t, nil)
	res, err := e.Render(context.Background(), strings.NewReader(testHTML), strings.NewReader(testCSS))
	require.NoError(t, err)

	tests := []struct {
		name     string
		selector string
		want     int
	}{
		{"ID", "#main", 1},
		{"Tag", "p", 2},
		{"Class", ".second", 1},
		{"Descendant combinator", "div.card > p", 2},
		{"Pseudo class", "p:first-child", 1},
		{"No box for hidden element", "title", 0},
		{"No match", "span", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			boxes, err := res.Query(tc.selector)
			require.NoError(t, err)
			assert.Len(t, boxes, tc.want)
			for _, b := range boxes {
				require.NotNil(t, b.StyledNode)
			}
		})
	}

	t.Run("DocumentOrder", func(t *testing.T) {
		boxes, err := res.Query("p")
		require.NoError(t, err)
		require.Len(t, boxes, 2)
		assert.Less(t, boxes[0].Dimensions.Content.Y, boxes[1].Dimensions.Content.Y)
	})

	t.Run("InvalidSelector", func(t *testing.T) {
		_, err := res.Query("p[")
		assert.Error(t, err)
	})
}

func TestRender_Concurrent(t *testing.T) {
	e := newTestEngine(t, nil)

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.Render(context.Background(), strings.NewReader(testHTML), strings.NewReader(testCSS))
			if assert.NoError(t, err) {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	ids := make(map[string]struct{})
	for _, res := range results {
		require.NotNil(t, res)
		ids[res.RenderID] = struct{}{}
		assert.Equal(t, 100.0, res.LayoutRoot.Dimensions.Content.Height)
	}
	assert.Len(t, ids, len(results), "render IDs should be unique")
}

func TestRenderAll(t *testing.T) {
	e := newTestEngine(t, func(c *config.Config) { c.BatchCfg.Concurrency = 2 })

	widths := []string{"100px", "200px", "300px", "400px", "500px"}
	inputs := make([]Input, len(widths))
	for i, w := range widths {
		inputs[i] = Input{
			Name: "doc-" + w,
			HTML: strings.NewReader(testHTML),
			CSS:  strings.NewReader("div { width: " + w + "; }"),
		}
	}

	results, err := e.RenderAll(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))

	for i, res := range results {
		boxes, err := res.Query("#main")
		require.NoError(t, err)
		require.Len(t, boxes, 1)
		assert.Equal(t, float64(100*(i+1)), boxes[0].Dimensions.Content.Width, "results must keep input order")
	}

	t.Run("FirstErrorWins", func(t *testing.T) {
		inputs := []Input{
			{Name: "good", HTML: strings.NewReader(testHTML)},
			{Name: "hidden", HTML: strings.NewReader(testHTML), CSS: strings.NewReader("html { display: none; }")},
		}
		results, err := e.RenderAll(context.Background(), inputs)
		assert.Nil(t, results)
		require.Error(t, err)
		assert.ErrorIs(t, err, layout.ErrRootNotRenderable)
		assert.Contains(t, err.Error(), "hidden:")
	})

	t.Run("Empty", func(t *testing.T) {
		results, err := e.RenderAll(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.RenderAll(ctx, []Input{{Name: "a", HTML: strings.NewReader(testHTML)}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
