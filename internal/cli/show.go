package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/pipeline"
	"github.com/matzehuels/flexdock/pkg/render/sink"
)

// showCommand prints the frames of a document as a table.
func (c *CLI) showCommand() *cobra.Command {
	var (
		flags  frameFlags
		hidden bool
		text   bool
	)

	cmd := &cobra.Command{
		Use:   "show [layout.json|layout.toml]",
		Short: "Print the laid-out nodes as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
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
			frames, removed := pipeline.LayoutModel(ctx, m, opts)

			fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("%s  %dx%d", doc.path, opts.Width, opts.Height)))
			fmt.Fprintln(stdout, framesTable(frames, hidden))
			if text {
				fmt.Fprintln(stdout, sink.RenderText(frames, opts.Width, opts.Height,
					sink.TextSize(pipeline.DefaultTextCols, pipeline.DefaultTextRows), sink.TextStyled()))
			}
			printStats(m.Len(), len(frames), false)
			if removed > 0 {
				printDetail("tidy removed %d nodes", removed)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden nodes")
	cmd.Flags().BoolVar(&text, "text", false, "also draw the layout as text")

	return cmd
}

// framesTable lays the frames out as a bordered table, indenting ids by
// depth. Hidden frames are skipped unless hidden is set.
func framesTable(frames []model.Frame, hidden bool) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	var rows [][]string
	var shown []model.Frame
	for _, f := range frames {
		if !f.Visible && !hidden {
			continue
		}
		rows = append(rows, []string{
			strings.Repeat("  ", f.Depth) + f.ID,
			f.Type,
			f.Rect.String(),
			formatWeight(f),
			f.Name,
			frameFlagsString(f),
		})
		shown = append(shown, f)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Type", "Rect", "Weight", "Name", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(shown) {
				return lipgloss.NewStyle()
			}
			return frameStyle(shown[row])
		})
	return t.Render()
}

func formatWeight(f model.Frame) string {
	if f.Type == "splitter" || f.Parent == "" || f.Type == "tab" {
		return ""
	}
	return strconv.FormatFloat(f.Weight, 'g', 4, 64)
}

func frameFlagsString(f model.Frame) string {
	var s []string
	if f.Selected {
		s = append(s, "selected")
	}
	if f.Active {
		s = append(s, "active")
	}
	if f.Maximized {
		s = append(s, "maximized")
	}
	if !f.Visible {
		s = append(s, "hidden")
	}
	return strings.Join(s, ",")
}
