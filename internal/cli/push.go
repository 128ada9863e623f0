package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stepmotion/pkg/trace"
)

// pushCommand creates the push command for uploading trace files to a
// sequence store.
func (c *CLI) pushCommand() *cobra.Command {
	var (
		storeURL string
		traces   string
	)

	cmd := &cobra.Command{
		Use:   "push [file...]",
		Short: "Upload trace files to a sequence store",
		Long: `Push validates each trace file and stores it under its algorithm id,
replacing any previous sequence for that id. The target is a MongoDB
store (--store-url) or a local trace directory (--traces).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if storeURL == "" {
				storeURL = fileCfg.Serve.StoreURL
			}
			if traces == "" {
				traces = fileCfg.Serve.Traces
			}
			if traces == "" {
				traces = "."
			}
			return c.runPush(cmd.Context(), args, traces, storeURL)
		},
	}

	cmd.Flags().StringVar(&storeURL, "store-url", "", "mongodb:// URI for the target store")
	cmd.Flags().StringVar(&traces, "traces", "", "target trace directory (default .)")

	return cmd
}

func (c *CLI) runPush(ctx context.Context, files []string, traces, storeURL string) error {
	logger := loggerFromContext(ctx)

	st, err := openStore(ctx, traces, storeURL)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	for _, path := range files {
		seq, err := trace.ReadSequenceFile(path)
		if err != nil {
			printError("Skipping %s: %v", path, err)
			continue
		}
		if err := st.Put(ctx, seq); err != nil {
			return err
		}
		logger.Debug("stored sequence", "algorithm", seq.AlgorithmID, "steps", len(seq.Steps))
		printSuccess("Pushed %s (%d steps)", seq.AlgorithmID, len(seq.Steps))
	}
	return nil
}
