package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dicebot/internal/handlers/api/v1alpha1"
)

var (
	skipBonus   bool
	rollContext string
)

var rollCmd = &cobra.Command{
	Use:   "roll [expression]",
	Short: "Roll a dice expression",
	Long: `Roll a dice expression and see individual results. Examples:

  roll 2W6+3
  roll 1d20 --conversation chat-42`,
	Args: cobra.MinimumNArgs(1),
	RunE: rollDice,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the roll history of a conversation",
	Args:  cobra.NoArgs,
	RunE:  getRollSession,
}

var clearHistoryCmd = &cobra.Command{
	Use:   "clear-history",
	Short: "Clear the roll history of a conversation",
	Args:  cobra.NoArgs,
	RunE:  clearRollSession,
}

func init() {
	rollCmd.Flags().BoolVar(&skipBonus, "skip-bonus", false, "Leave a pending bonus for the next table roll")
	for _, cmd := range []*cobra.Command{rollCmd, historyCmd, clearHistoryCmd} {
		cmd.Flags().StringVar(&rollContext, "context", "", "History context, the default roll history when empty")
	}
}

func rollDice(cmd *cobra.Command, args []string) error {
	resp, err := call(cmd, v1alpha1.MethodRollDice, map[string]any{
		"conversation_id": conversationID,
		"context":         rollContext,
		"expression":      strings.Join(args, " "),
		"skip_bonus":      skipBonus,
	})
	if err != nil {
		return err
	}

	printText(cmd.OutOrStdout(), resp)
	return nil
}

func getRollSession(cmd *cobra.Command, _ []string) error {
	resp, err := call(cmd, v1alpha1.MethodGetRollSession, map[string]any{
		"conversation_id": conversationID,
		"context":         rollContext,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rolls, _ := resp["rolls"].([]any)
	_, _ = fmt.Fprintf(out, "📜 Roll Session (%d rolls)\n", len(rolls))
	if expiresAt, ok := resp["expires_at"].(float64); ok {
		_, _ = fmt.Fprintf(out, "Expires: %s\n", time.Unix(int64(expiresAt), 0).Format("2006-01-02 15:04:05"))
	}

	for i, r := range rolls {
		roll, _ := r.(map[string]any)
		_, _ = fmt.Fprintf(out, "\n🎲 Roll %d: %v = %v\n", i+1, roll["expression"], roll["total"])
		trace, _ := roll["trace"].([]any)
		for _, line := range trace {
			_, _ = fmt.Fprintf(out, "  %v\n", line)
		}
	}
	return nil
}

func clearRollSession(cmd *cobra.Command, _ []string) error {
	resp, err := call(cmd, v1alpha1.MethodClearRollSession, map[string]any{
		"conversation_id": conversationID,
		"context":         rollContext,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Roll session cleared, %v rolls removed\n", resp["rolls_cleared"])
	return nil
}
