package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankfeed/internal/accounts"
	"github.com/cleared-dev/bankfeed/internal/categorize"
	"github.com/cleared-dev/bankfeed/internal/config"
	"github.com/cleared-dev/bankfeed/internal/places"
	"github.com/cleared-dev/bankfeed/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var entityType string
	var base string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bankfeed workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, name, entityType, base); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized bankfeed workspace at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&entityType, "entity-type", "ltd", "entity type (ltd or sole_trader)")
	cmd.Flags().StringVar(&base, "base", "", "director's base location (default Dublin)")

	return cmd
}

func runInit(dir, name, entityType, base string) error {
	cfg := config.Default(name, entityType)
	if base != "" {
		p, ok := places.Default().Lookup(base)
		if !ok {
			return fmt.Errorf("unknown base location %q", base)
		}
		cfg.Director.BaseLocation = p.Name
		cfg.Director.HomeCounty = p.County
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Create directory structure.
	dirs := []string{
		"accounts",
		"rules",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	svc := accounts.NewService(accounts.DefaultChart(entityType))
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	if err := categorize.SaveRules(resolvePath(dir, cfg.Categorize.RulesFile, categorize.RulesPath), categorize.DefaultRules()); err != nil {
		return err
	}

	// The database is local state, not workspace content.
	gitignore := cfg.Store.Path + "\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	// Create the database so later commands fail only on real problems.
	_, db, err := store.Open(filepath.Join(dir, cfg.Store.Path))
	if err != nil {
		return err
	}
	return store.Close(db)
}
