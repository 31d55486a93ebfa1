package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
	tablesource "github.com/KirkDiggler/rpg-dicebot/internal/repositories/table_source"
)

var (
	tablesDBPath string
	importName   string
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage table sources",
}

var tablesImportCmd = &cobra.Command{
	Use:   "import [file]...",
	Short: "Store table text files in the SQLite table store",
	Long: `Each file becomes one source named after its file stem, replacing any source of that name.

  tables import --db tables.db wald.txt sumpf.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTablesImport,
}

var tablesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the sources in the SQLite table store",
	Args:  cobra.NoArgs,
	RunE:  runTablesList,
}

var tablesDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Remove a source from the SQLite table store",
	Args:  cobra.ExactArgs(1),
	RunE:  runTablesDelete,
}

var tablesCheckCmd = &cobra.Command{
	Use:   "check [file]...",
	Short: "Compile table text files and print what was recognized",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTablesCheck,
}

func init() {
	tablesCmd.PersistentFlags().StringVar(&tablesDBPath, "db", "", "SQLite table store, defaults to TABLES_DB")
	tablesImportCmd.Flags().StringVar(&importName, "name", "", "Source name, only valid with a single file")

	tablesCmd.AddCommand(tablesImportCmd)
	tablesCmd.AddCommand(tablesListCmd)
	tablesCmd.AddCommand(tablesDeleteCmd)
	tablesCmd.AddCommand(tablesCheckCmd)
}

func openTableStore(cmd *cobra.Command) (*tablesource.SQLiteStore, error) {
	path := tablesDBPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.TablesDB
	}
	if path == "" {
		return nil, fmt.Errorf("no table store, pass --db or set TABLES_DB")
	}

	return tablesource.OpenSQLite(cmd.Context(), &tablesource.SQLiteConfig{Path: path, Clock: clock.New()})
}

func runTablesImport(cmd *cobra.Command, args []string) error {
	if importName != "" && len(args) > 1 {
		return fmt.Errorf("--name needs exactly one file")
	}

	store, err := openTableStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	for _, path := range args {
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		name := importName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}

		out, err := store.Put(cmd.Context(), &tablesource.PutInput{Name: name, Body: string(body)})
		if err != nil {
			return err
		}

		compiled := tables.Compile(out.Source.Body)
		fmt.Printf("✅ %s: %d categories, %d entries, %d warnings\n",
			out.Source.Name, len(compiled.Categories()), compiled.Len(), len(compiled.Warnings()))
	}
	return nil
}

func runTablesList(cmd *cobra.Command, _ []string) error {
	store, err := openTableStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	out, err := store.List(cmd.Context(), &tablesource.ListInput{})
	if err != nil {
		return err
	}

	for _, src := range out.Sources {
		fmt.Printf("%s\t%d bytes\t%s\n", src.Name, len(src.Body), src.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runTablesDelete(cmd *cobra.Command, args []string) error {
	store, err := openTableStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	out, err := store.Delete(cmd.Context(), &tablesource.DeleteInput{Name: args[0]})
	if err != nil {
		return err
	}
	if !out.Deleted {
		return fmt.Errorf("no source named %q", args[0])
	}
	fmt.Printf("🗑 %s\n", args[0])
	return nil
}

func runTablesCheck(_ *cobra.Command, args []string) error {
	for _, path := range args {
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		compiled := tables.Compile(string(body))
		fmt.Printf("📄 %s\n", path)
		for _, category := range compiled.Categories() {
			for _, tier := range compiled.Tiers(category) {
				fmt.Printf("  %s (Stufe %s): %d entries\n", category, tier, len(compiled.Entries(category, tier)))
			}
		}
		for _, w := range compiled.Warnings() {
			fmt.Printf("  ⚠ %s\n", w.String())
		}
	}
	return nil
}
