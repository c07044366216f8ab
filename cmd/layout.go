// File: cmd/layout.go
package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/config"
	"github.com/xkilldash9x/boxlayout/internal/engine"
	"github.com/xkilldash9x/boxlayout/internal/layout"
	"github.com/xkilldash9x/boxlayout/internal/observability"
	"github.com/xkilldash9x/boxlayout/internal/reporting"
	"github.com/xkilldash9x/boxlayout/internal/source"
)

// layoutOptions are the per-invocation inputs of the layout command.
type layoutOptions struct {
	HTMLPaths  []string
	CSSPath    string
	Selector   string
	OutputPath string
}

// newLayoutCmd creates and configures the `layout` command.
func newLayoutCmd() *cobra.Command {
	var opts layoutOptions
	var noUserAgent bool

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out HTML documents and report their box trees",
		Long: `Parses HTML documents and a stylesheet, resolves styles, builds the box trees
and lays them out in the configured viewport. The resulting boxes are written
as an indented text outline, JSON or XML. Inputs ending in .br or .gz are
decompressed first. Repeat --html to lay out several documents with the same
stylesheet; they are rendered concurrently and reported in argument order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if noUserAgent {
				cfg.StyleCfg.UserAgent = false
			}

			// Delegate to the testable core logic function.
			return runLayout(ctx, logger, cfg, opts)
		},
	}

	flags := layoutCmd.Flags()
	flags.StringArrayVar(&opts.HTMLPaths, "html", nil, "Path to an HTML document (required, repeatable)")
	_ = layoutCmd.MarkFlagRequired("html")
	flags.StringVar(&opts.CSSPath, "css", "", "Path to the author stylesheet")
	flags.StringVar(&opts.Selector, "select", "", "Only report the boxes of elements matching this CSS selector")
	flags.StringVarP(&opts.OutputPath, "output", "o", "", "Output file path. If unset, the report is printed to stdout.")
	flags.BoolVar(&noUserAgent, "no-ua", false, "Do not apply the built-in user agent stylesheet")

	flags.Float64("width", 0, "Viewport width in pixels")
	annotateFlag(flags, "width", "viewport.width")
	flags.Float64("height", 0, "Viewport height in pixels (reported only; boxes are not constrained to it)")
	annotateFlag(flags, "height", "viewport.height")
	flags.StringP("format", "f", "", "Report format (text, json or xml)")
	annotateFlag(flags, "format", "output.format")
	flags.Int("concurrency", 0, "Maximum number of documents rendered at once")
	annotateFlag(flags, "concurrency", "batch.concurrency")

	return layoutCmd
}

// runLayout contains the core, testable logic of the layout command.
func runLayout(ctx context.Context, logger *zap.Logger, cfg config.Interface, opts layoutOptions) error {
	var css []byte
	if opts.CSSPath != "" {
		var err error
		if css, err = source.ReadAll(opts.CSSPath); err != nil {
			return fmt.Errorf("failed to open stylesheet: %w", err)
		}
	}

	inputs := make([]engine.Input, 0, len(opts.HTMLPaths))
	for _, path := range opts.HTMLPaths {
		htmlSrc, err := source.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open HTML document: %w", err)
		}
		defer htmlSrc.Close()

		in := engine.Input{Name: path, HTML: htmlSrc}
		if css != nil {
			in.CSS = bytes.NewReader(css)
		}
		inputs = append(inputs, in)
	}

	results, err := engine.New(cfg, logger).RenderAll(ctx, inputs)
	if err != nil {
		return err
	}

	var boxes []*layout.LayoutBox
	for _, res := range results {
		if opts.Selector == "" {
			boxes = append(boxes, res.LayoutRoot)
			continue
		}
		matched, err := res.Query(opts.Selector)
		if err != nil {
			return err
		}
		boxes = append(boxes, matched...)
	}
	if len(boxes) == 0 {
		return fmt.Errorf("selector %q matched no rendered elements", opts.Selector)
	}

	if err := writeReport(logger, cfg.Output(), opts.OutputPath, boxes); err != nil {
		return err
	}

	for _, res := range results {
		logger.Info("Layout complete",
			zap.String("render_id", res.RenderID),
			zap.Duration("elapsed", res.Timings.Total()),
		)
	}
	logger.Debug("Report finished", zap.Int("documents", len(results)), zap.Int("boxes_reported", len(boxes)))
	return nil
}

// writeReport writes each box tree with the configured reporter.
func writeReport(logger *zap.Logger, out config.OutputConfig, outputPath string, boxes []*layout.LayoutBox) error {
	reporter, err := reporting.New(out.Format, outputPath, out.Indent)
	if err != nil {
		return fmt.Errorf("failed to initialize reporter: %w", err)
	}
	defer func() {
		if err := reporter.Close(); err != nil {
			logger.Warn("Failed to close reporter cleanly.", zap.Error(err))
		}
	}()

	for _, box := range boxes {
		if err := reporter.Write(box); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if outputPath != "" {
		logger.Debug("Report written to file", zap.String("path", outputPath))
	}
	return nil
}
