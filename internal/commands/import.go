package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/cleared-dev/bankfeed/internal/bankformat"
	"github.com/cleared-dev/bankfeed/internal/categorize"
	"github.com/cleared-dev/bankfeed/internal/importer"
	"github.com/cleared-dev/bankfeed/internal/importlog"
	"github.com/cleared-dev/bankfeed/internal/logger"
	"github.com/cleared-dev/bankfeed/internal/model"
)

type importOptions struct {
	repoDir        string
	accountID      int
	keepDuplicates bool
	// keepSet is true when --keep-duplicates was given explicitly.
	keepSet        bool
	categorize     bool
	mapping        model.ColumnMapping
}

func newImportCommand() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank statement files",
		Long: "Import bank statement files. With no arguments every statement in import/ is\n" +
			"imported and moved to import/processed/ once all of its rows are stored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.keepSet = cmd.Flags().Changed("keep-duplicates")
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.repoDir, "repo", ".", "workspace directory")
	f.IntVar(&opts.accountID, "account", 0, "bank account ID from bankfeed.yaml (default: first configured)")
	f.BoolVar(&opts.keepDuplicates, "keep-duplicates", false, "import rows already present in the store (overrides import.skip_duplicates)")
	f.BoolVar(&opts.categorize, "categorize", false, "apply categorization rules to imported rows")
	f.StringVar(&opts.mapping.Date, "date-col", "", "header of the date column")
	f.StringVar(&opts.mapping.Description, "description-col", "", "header of the description column")
	f.StringVar(&opts.mapping.Amount, "amount-col", "", "header of a signed amount column")
	f.StringVar(&opts.mapping.Credit, "credit-col", "", "header of the credit column")
	f.StringVar(&opts.mapping.Debit, "debit-col", "", "header of the debit column")
	f.StringVar(&opts.mapping.Reference, "reference-col", "", "header of the reference column")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, opts importOptions, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ws, err := openWorkspace(opts.repoDir)
	if err != nil {
		return err
	}
	defer ws.Close()

	acct, err := ws.bankAccount(opts.accountID)
	if err != nil {
		return err
	}

	detector := bankformat.DefaultDetector()
	if acct.Signature != "" {
		if detector, err = detector.Pin(acct.Signature); err != nil {
			return err
		}
	}

	var mapping *model.ColumnMapping
	if opts.mapping != (model.ColumnMapping{}) {
		if !opts.mapping.Complete() {
			return errors.New("manual mapping needs --date-col, --description-col and one of --amount-col, --credit-col, --debit-col")
		}
		mapping = &opts.mapping
	}

	p := &importer.Pipeline{
		Store:    ws.store,
		Detector: detector,
		BuildOptions: importer.BuildOptions{
			UnparsedDates: importer.UnparsedDatePolicy(ws.cfg.Import.UnparsedDates),
		},
		BatchSize:    ws.cfg.Import.BatchSize,
		LookbackDays: ws.cfg.Import.FingerprintLookbackDays,
	}

	type target struct {
		path     string
		fromDir  bool
		fileName string
	}
	var targets []target
	if len(args) == 0 {
		files, err := importer.Scan(ws.root)
		if err != nil {
			return err
		}
		for _, f := range files {
			targets = append(targets, target{path: f.Path, fromDir: true, fileName: f.Name})
		}
		if len(targets) == 0 {
			fmt.Fprintln(out, "No statements in import/")
			return nil
		}
	} else {
		for _, a := range args {
			targets = append(targets, target{path: a, fileName: filepath.Base(a)})
		}
	}

	skip := ws.cfg.Import.SkipDuplicates
	if opts.keepSet {
		skip = !opts.keepDuplicates
	}

	var errs error
	for _, t := range targets {
		sess, err := importFile(ctx, ws, p, acct.AccountID, mapping, skip, t.path)
		if err != nil {
			errs = multierr.Append(errs, err)
			fmt.Fprintf(out, "%s: %v\n", t.fileName, err)
			continue
		}
		printCounts(out, t.fileName, sess)

		if err := importlog.Append(ws.root, []importlog.Entry{importlog.FromSession(sess, time.Now().UTC())}); err != nil {
			logger.Get().Warnw("import log not written", "file", t.fileName, "error", err)
		}

		if opts.categorize && len(sess.Report.Persisted) > 0 {
			if err := categorizeTransactions(ctx, out, ws, sess.Report.Persisted); err != nil {
				errs = multierr.Append(errs, err)
			}
		}

		if sess.Report.FailedCount > 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", t.fileName, sess.Report.Err()))
			continue
		}
		if t.fromDir {
			if err := importer.MarkProcessed(ws.root, t.fileName); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}
	return errs
}

func importFile(ctx context.Context, ws *workspace, p *importer.Pipeline, accountID int, mapping *model.ColumnMapping, skip bool, path string) (*importer.Session, error) {
	text, err := importer.ReadText(path)
	if err != nil {
		return nil, err
	}
	sess := p.NewSession(ws.cfg.Import.UserID, accountID, path)
	sess.Mapping = mapping
	sess.SkipDuplicates = skip
	if _, err := p.Run(ctx, sess, text); err != nil {
		return nil, err
	}
	return sess, nil
}

func printCounts(out io.Writer, name string, s *importer.Session) {
	c := s.Counts()
	fmt.Fprintf(out, "%s [%s]: %s\n", name, s.Detection.SignatureID, s.Build.Stats.Summary())
	fmt.Fprintf(out, "  total rows:  %d\n", c.TotalRows)
	fmt.Fprintf(out, "  valid:       %d\n", c.Valid)
	fmt.Fprintf(out, "  duplicates:  %d\n", c.Duplicates)
	fmt.Fprintf(out, "  imported:    %d\n", c.Imported)
	fmt.Fprintf(out, "  failed:      %d\n", c.Failed)
}

func categorizeTransactions(ctx context.Context, out io.Writer, ws *workspace, txns []model.PersistedTransaction) error {
	rules, err := categorize.LoadRules(ws.rulesPath())
	if err != nil {
		return err
	}
	if err := rules.Validate(ws.chart); err != nil {
		return fmt.Errorf("validating rules: %w", err)
	}
	r := &categorize.Runner{
		Store:       ws.store,
		Categorizer: categorize.RuleCategorizer{Rules: rules},
		GroupSize:   ws.cfg.Categorize.GroupSize,
		Pace:        ws.pace(),
	}
	results, err := r.Run(ctx, categorize.Uncategorized(txns))
	matched, unmatched, failed := categorize.Summary(results)
	fmt.Fprintf(out, "  categorized: %d (unmatched %d, failed %d)\n", matched, unmatched, failed)
	return err
}
