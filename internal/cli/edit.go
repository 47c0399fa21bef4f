package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/pipeline"
)

// =============================================================================
// tidy
// =============================================================================

func (c *CLI) tidyCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "tidy [layout.json|layout.toml]",
		Short: "Remove empty tab sets and collapse redundant rows",
		Long: `Tidy a layout document and write it back.

Tidying removes empty closable tab sets, hoists rows that hold a single child
and merges rows into parents of the same orientation. The tree keeps at least
one tab set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			m, err := doc.model(cmd.Context())
			if err != nil {
				return err
			}
			before := m.Len()
			m.Tidy()
			if err := writeDocument(m, output, doc.format); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("tidied", "removed", before-m.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// =============================================================================
// drop
// =============================================================================

func (c *CLI) dropCommand() *cobra.Command {
	var (
		flags   frameFlags
		req     pipeline.DropRequest
		newID   string
		newName string
		output  string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "drop [layout.json|layout.toml]",
		Short: "Drag a tab or tab set to a point and drop it",
		Long: `Drag a node to (x, y) in the laid-out frame and drop it there.

Drag an existing tab or tab set with --node, or a new tab with --new-id and
--new-name. The point decides the target: a tab strip inserts the tab, the
content area of a tab set splits it, and the thin bands along the middle of
the frame's edges dock to the whole layout.

With --dry-run the target is reported and the document is left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if newID != "" || newName != "" {
				req.New = model.Attributes{"type": "tab", "name": newName}
				if newID != "" {
					req.New["id"] = newID
				}
			}
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			m, err := doc.model(ctx)
			if err != nil {
				return err
			}

			if dryRun {
				info, err := pipeline.FindDrop(ctx, m, opts, req)
				if err != nil {
					return err
				}
				printOutcome(pipeline.OutcomeOf(info), false)
				return nil
			}

			out, err := pipeline.Drop(ctx, m, opts, req)
			if err != nil {
				return err
			}
			if !out.Dropped {
				printWarning("Nothing to drop on at (%d, %d)", req.X, req.Y)
				return nil
			}
			if err := writeDocument(m, output, doc.format); err != nil {
				return err
			}
			if output != "" && output != stdio {
				printOutcome(out, true)
				printFile(output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&req.Node, "node", "", "id of the tab or tab set to drag")
	cmd.Flags().StringVar(&newID, "new-id", "", "id of a new tab to drag in")
	cmd.Flags().StringVar(&newName, "new-name", "", "name of a new tab to drag in")
	cmd.Flags().IntVar(&req.X, "x", 0, "drop point x")
	cmd.Flags().IntVar(&req.Y, "y", 0, "drop point y")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the target without dropping")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.MarkFlagsMutuallyExclusive("node", "new-id")
	cmd.MarkFlagsMutuallyExclusive("node", "new-name")

	return cmd
}

// =============================================================================
// split
// =============================================================================

func (c *CLI) splitCommand() *cobra.Command {
	var (
		flags  frameFlags
		req    pipeline.SplitRequest
		output string
	)

	cmd := &cobra.Command{
		Use:   "split [layout.json|layout.toml]",
		Short: "Drag a splitter to a position",
		Long: `Drag the splitter between children --index and --index+1 of row --row
(default: the root row) to --position, in pixels along the row's axis, and
write the rebalanced document. Positions past the neighbours' minimum sizes
are clamped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			m, err := doc.model(ctx)
			if err != nil {
				return err
			}
			r, err := pipeline.Split(ctx, m, opts, req)
			if err != nil {
				return err
			}
			if err := writeDocument(m, output, doc.format); err != nil {
				return err
			}
			loggerFromContext(ctx).Info("split",
				"first", r.Node1, "first_weight", fmt.Sprintf("%.2f", r.Weight1),
				"second", r.Node2, "second_weight", fmt.Sprintf("%.2f", r.Weight2))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&req.Row, "row", "", "row id (default: the root)")
	cmd.Flags().IntVar(&req.Index, "index", 0, "splitter index within the row")
	cmd.Flags().IntVar(&req.Position, "position", 0, "splitter position in pixels")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}

// =============================================================================
// apply
// =============================================================================

// actionFile is the JSON accepted by `apply`: either a bare array of
// actions or {"actions": [...]}.
type actionFile struct {
	Actions []model.Action `json:"actions"`
}

func readActions(path string) ([]model.Action, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var list []model.Action
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var f actionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode actions %s", path)
	}
	return f.Actions, nil
}

func (c *CLI) applyCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "apply [layout.json|layout.toml] [actions.json]",
		Short: "Apply model actions to a layout document",
		Long: `Apply a JSON list of actions in order and write the result.

Each action has a "type" (add_node, move_node, delete_tab, rename_tab,
select_tab, set_active_tabset, adjust_split, maximize_toggle,
update_model_attributes, update_node_attributes) and the fields it needs.
The first failing action aborts the run and nothing is written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			actions, err := readActions(args[1])
			if err != nil {
				return err
			}
			m, err := doc.model(ctx)
			if err != nil {
				return err
			}
			n, err := pipeline.Apply(ctx, m, actions...)
			if err != nil {
				return err
			}
			if err := writeDocument(m, output, doc.format); err != nil {
				return err
			}
			loggerFromContext(ctx).Info("applied", "actions", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
