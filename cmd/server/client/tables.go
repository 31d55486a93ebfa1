package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dicebot/internal/handlers/api/v1alpha1"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [category] [tier]",
	Short: "Roll once on a range table",
	Long: `Roll on the table of a category and level band. Examples:

  resolve Wald 1-4
  resolve Sumpf "Stufe 11 bis 16"`,
	Args: cobra.ExactArgs(2),
	RunE: resolveTable,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories [category]",
	Short: "List loaded categories, or the tiers of one category",
	Args:  cobra.MaximumNArgs(1),
	RunE:  listCategories,
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Recompile every table source on the server",
	Args:  cobra.NoArgs,
	RunE:  reloadTables,
}

var travelCmd = &cobra.Command{
	Use:   "travel [current]",
	Short: "Sample the next travel category, from the stored one when omitted",
	Args:  cobra.MaximumNArgs(1),
	RunE:  sampleTransition,
}

func resolveTable(cmd *cobra.Command, args []string) error {
	resp, err := call(cmd, v1alpha1.MethodResolveTable, map[string]any{
		"conversation_id": conversationID,
		"category":        args[0],
		"tier":            args[1],
	})
	if err != nil {
		return err
	}

	printText(cmd.OutOrStdout(), resp)
	return nil
}

func listCategories(cmd *cobra.Command, args []string) error {
	fields := map[string]any{}
	if len(args) == 1 {
		fields["category"] = args[0]
	}

	resp, err := call(cmd, v1alpha1.MethodListCategories, fields)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if tiers, ok := resp["tiers"].([]any); ok {
		_, _ = fmt.Fprintf(out, "%v:\n", resp["category"])
		for _, tier := range tiers {
			_, _ = fmt.Fprintf(out, "  Stufe %v\n", tier)
		}
		return nil
	}

	categories, _ := resp["categories"].([]any)
	for _, category := range categories {
		_, _ = fmt.Fprintln(out, category)
	}
	return nil
}

func reloadTables(cmd *cobra.Command, _ []string) error {
	resp, err := call(cmd, v1alpha1.MethodReloadTables, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "✅ %v sources, %v categories, %v entries\n", resp["sources"], resp["categories"], resp["entries"])
	warnings, _ := resp["warnings"].([]any)
	for _, w := range warnings {
		_, _ = fmt.Fprintf(out, "⚠ %v\n", w)
	}
	return nil
}

func sampleTransition(cmd *cobra.Command, args []string) error {
	fields := map[string]any{"conversation_id": conversationID}
	if len(args) == 1 {
		fields["current"] = args[0]
	}

	resp, err := call(cmd, v1alpha1.MethodSampleTransition, fields)
	if err != nil {
		return err
	}

	printText(cmd.OutOrStdout(), resp)
	return nil
}
