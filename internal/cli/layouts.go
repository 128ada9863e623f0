package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepmotion/pkg/catalog"
	"github.com/matzehuels/stepmotion/pkg/layout"
)

// layoutsCommand creates the layouts command listing registered layouts
// and the catalog algorithms that use them.
func (c *CLI) layoutsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List available layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayouts(layout.Builtin(), catalog.Default())
		},
	}
}

func runLayouts(reg *layout.Registry, cat *catalog.Catalog) error {
	// Invert the catalog: layout name -> algorithm ids.
	usedBy := map[string][]string{}
	for _, alg := range cat.List() {
		usedBy[alg.Layout] = append(usedBy[alg.Layout], alg.ID)
	}

	descriptions := reg.Descriptions()
	names := reg.Names()
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		algorithms := usedBy[name]
		sort.Strings(algorithms)
		rows = append(rows, []string{
			name,
			descriptions[name],
			truncate(joinOrDash(algorithms), 40),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layout", "Description", "Algorithms").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			if col == 2 {
				return StyleDim
			}
			return StyleValue
		})

	fmt.Println(t.Render())
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "—"
	}
	out := items[0]
	for _, s := range items[1:] {
		out += ", " + s
	}
	return out
}
