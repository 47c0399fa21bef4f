package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flexdock/pkg/pipeline"
	"github.com/matzehuels/flexdock/pkg/render"
)

// layoutCommand creates the layout command for computing frames.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   frameFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [layout.json|layout.toml]",
		Short: "Compute the frames of a layout document",
		Long: `Compute the frames of a layout document.

The layout command lays the document out in a width x height frame and writes
the geometry of every node (rows, tab sets, tabs and splitters) as JSON. The
output is the same as 'render -f json'.

Use "-" to read the document from stdin. Results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Formats = []string{render.FormatJSON}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.frames.json, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads the document, computes the frames and writes them.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := readDocument(input)
	if err != nil {
		return err
	}
	if err := checkPath(output); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := startSpinner(ctx, os.Stderr, "Loading layout...").follow()

	res, err := runner.Execute(ctx, doc.data, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".frames.json"
	}
	if err := writeOutput(outputPath, res.Artifacts[render.FormatJSON]); err != nil {
		return err
	}
	if outputPath == stdio {
		return nil
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res.Stats.Nodes, res.Stats.Frames, res.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
