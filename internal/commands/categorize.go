package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type categorizeOptions struct {
	repoDir string
	from    string
	to      string
}

func newCategorizeCommand() *cobra.Command {
	var opts categorizeOptions

	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Apply categorization rules to uncategorized transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategorize(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.repoDir, "repo", ".", "workspace directory")
	f.StringVar(&opts.from, "from", "", "first date to consider (YYYY-MM-DD)")
	f.StringVar(&opts.to, "to", "", "last date to consider (YYYY-MM-DD)")

	return cmd
}

func runCategorize(ctx context.Context, out io.Writer, opts categorizeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	from, err := parseDateFlag("from", opts.from)
	if err != nil {
		return err
	}
	to, err := parseDateFlag("to", opts.to)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(opts.repoDir)
	if err != nil {
		return err
	}
	defer ws.Close()

	txns, err := ws.store.ListTransactions(ctx, ws.cfg.Import.UserID, from, to)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}
	fmt.Fprintf(out, "%d transactions\n", len(txns))
	return categorizeTransactions(ctx, out, ws, txns)
}
