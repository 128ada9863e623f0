package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepmotion/pkg/trace"
)

// infoCommand creates the info command for inspecting a trace without
// rendering it.
func (c *CLI) infoCommand() *cobra.Command {
	var (
		series  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "info [file|url]",
		Short: "Show a summary of a trace",
		Long: `Info loads a trace and prints its metadata, inputs, and a step table.
With --series it additionally plots a numeric state variable across steps.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(cmd.Context(), args[0], series, refresh)
		},
	}

	cmd.Flags().StringVar(&series, "series", "", "state variable to plot across steps")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch remote traces, bypassing the HTTP cache")

	return cmd
}

func (c *CLI) runInfo(ctx context.Context, input, series string, refresh bool) error {
	seq, err := c.loadTrace(ctx, input, refresh)
	if err != nil {
		return err
	}

	printKeyValue("Algorithm", seq.AlgorithmID)
	printKeyValue("Steps", fmt.Sprintf("%d", len(seq.Steps)))
	printKeyValue("Generated", seq.GeneratedAt)
	printKeyValue("Producer", seq.GeneratedBy)
	printKeyValue("Hash", seq.Hash()[:12])

	if len(seq.Inputs) > 0 {
		printNewline()
		fmt.Println(StyleTitle.Render("Inputs"))
		keys := make([]string, 0, len(seq.Inputs))
		for k := range seq.Inputs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			printKeyValue(k, fmt.Sprintf("%v", seq.Inputs[k]))
		}
	}

	printNewline()
	fmt.Println(stepTable(seq))

	if series != "" {
		printNewline()
		if err := printSeries(seq, series); err != nil {
			return err
		}
	}

	return nil
}

// stepTable renders the step list as a bordered table. Long explanations
// are truncated so the table stays readable in a standard terminal.
func stepTable(seq *trace.Sequence) string {
	rows := make([][]string, 0, len(seq.Steps))
	for _, step := range seq.Steps {
		marker := ""
		if step.IsTerminal {
			marker = "■"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", step.Index),
			step.ID,
			truncate(step.Title, 32),
			step.Phase,
			marker,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "ID", "Title", "Phase", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 || col == 3 {
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

// printSeries plots a numeric state variable with an ASCII line chart.
// Steps where the variable is absent or non-numeric are skipped.
func printSeries(seq *trace.Sequence, name string) error {
	var data []float64
	for _, step := range seq.Steps {
		if v, ok := numericState(step.State, name); ok {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		available := numericStateNames(seq)
		if len(available) == 0 {
			return fmt.Errorf("state variable %q is not numeric in any step", name)
		}
		return fmt.Errorf("state variable %q is not numeric in any step (numeric variables: %s)",
			name, strings.Join(available, ", "))
	}

	fmt.Println(StyleTitle.Render(name))
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(3)))
	return nil
}

// numericState extracts a state variable as a float64. JSON decoding
// delivers numbers as float64; int covers hand-built sequences in tests.
func numericState(state map[string]any, name string) (float64, bool) {
	switch v := state[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func numericStateNames(seq *trace.Sequence) []string {
	seen := map[string]bool{}
	for _, step := range seq.Steps {
		for k := range step.State {
			if _, ok := numericState(step.State, k); ok {
				seen[k] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
