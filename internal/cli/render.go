package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flexdock/pkg/pipeline"
	"github.com/matzehuels/flexdock/pkg/render"
)

// renderOpts holds the flags of the render command that are not frame
// flags.
type renderOpts struct {
	output  string
	formats []string
	scale   float64
	cols    int
	rows    int
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      frameFlags
		formatsStr string
		ro         renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json|layout.toml]",
		Short: "Render a layout document",
		Long: `Render a layout document to one or more formats.

Formats:
  svg       tab sets, tab buttons and splitters as vector graphics
  png       the same picture rasterized (--scale)
  json      the frames, as written by 'layout'
  txt       tab sets drawn as boxes on a character grid (--cols, --rows)
  dot       the node tree as Graphviz source
  tree.svg  the node tree rendered by Graphviz

A single format is written to --output; several formats share its base
name (layout.svg, layout.png, ...). Results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ro.formats = parseFormats(formatsStr)
			if err := render.ValidateFormats(ro.formats); err != nil {
				return err
			}
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Formats = ro.formats
			opts.Scale = ro.scale
			opts.TextCols = ro.cols
			opts.TextRows = ro.rows
			opts.Refresh = ro.refresh
			return c.runRender(cmd.Context(), args[0], opts, ro)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, txt, dot, tree.svg (comma-separated)")
	cmd.Flags().Float64Var(&ro.scale, "scale", pipeline.DefaultScale, "PNG pixel scale")
	cmd.Flags().IntVar(&ro.cols, "cols", pipeline.DefaultTextCols, "text grid columns")
	cmd.Flags().IntVar(&ro.rows, "rows", pipeline.DefaultTextRows, "text grid rows")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&ro.refresh, "refresh", false, "recompute and overwrite cached results")

	return cmd
}

// runRender renders every requested format and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, ro renderOpts) error {
	logger := loggerFromContext(ctx)

	doc, err := readDocument(input)
	if err != nil {
		return err
	}
	paths := outputPaths(input, ro.output, opts.Formats)
	for _, format := range opts.Formats {
		if err := checkPath(paths[format]); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := startSpinner(ctx, os.Stderr, "Loading layout...").follow()

	res, err := runner.Execute(ctx, doc.data, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, format := range opts.Formats {
		if err := writeOutput(paths[format], res.Artifacts[format]); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", format, "bytes", len(res.Artifacts[format]))
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.Formats)))

	if ro.output == stdio {
		return nil
	}
	printSuccess("Render complete")
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(res.Stats.Nodes, res.Stats.Frames, res.CacheInfo.RenderHit)
	return nil
}

// outputPaths maps each format to its file. A single format goes to output
// as given; several formats share output's base name.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
