package client

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dicebot/internal/handlers/api/v1alpha1"
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Drive a multi-step conversation flow",
	Long: `Start a flow, then answer its prompts one at a time. Example:

  flow start encounter
  flow select Wald
  flow select 1-4`,
}

var flowStartCmd = &cobra.Command{
	Use:       "start [encounter|roll|travel|bonus]",
	Short:     "Start a flow, discarding any active one",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"encounter", "roll", "travel", "bonus"},
	RunE:      startFlow,
}

var flowSelectCmd = &cobra.Command{
	Use:   "select [option]",
	Short: "Answer the current prompt with one of its options",
	Args:  cobra.ExactArgs(1),
	RunE:  submit("selection"),
}

var flowTextCmd = &cobra.Command{
	Use:   "text [answer]",
	Short: "Answer the current prompt with free text",
	Args:  cobra.ExactArgs(1),
	RunE:  submit("text"),
}

var flowCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the active flow",
	Args:  cobra.NoArgs,
	RunE:  cancelFlow,
}

func init() {
	flowCmd.AddCommand(flowStartCmd)
	flowCmd.AddCommand(flowSelectCmd)
	flowCmd.AddCommand(flowTextCmd)
	flowCmd.AddCommand(flowCancelCmd)
}

func startFlow(cmd *cobra.Command, args []string) error {
	resp, err := call(cmd, v1alpha1.MethodStartFlow, map[string]any{
		"conversation_id": conversationID,
		"kind":            args[0],
	})
	if err != nil {
		return err
	}

	printStep(cmd.OutOrStdout(), resp)
	return nil
}

func submit(kind string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		resp, err := call(cmd, v1alpha1.MethodSubmitInput, map[string]any{
			"conversation_id": conversationID,
			"kind":            kind,
			"value":           args[0],
		})
		if err != nil {
			return err
		}

		printStep(cmd.OutOrStdout(), resp)
		return nil
	}
}

func cancelFlow(cmd *cobra.Command, _ []string) error {
	resp, err := call(cmd, v1alpha1.MethodCancelFlow, map[string]any{
		"conversation_id": conversationID,
	})
	if err != nil {
		return err
	}

	if cancelled, _ := resp["cancelled"].(bool); cancelled {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Abgebrochen")
	} else {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Kein aktiver Ablauf")
	}
	return nil
}

func printStep(w io.Writer, resp map[string]any) {
	switch resp["status"] {
	case "rejected":
		_, _ = fmt.Fprintf(w, "❌ %v\n", resp["reason"])
		printText(w, resp)
	case "resolved":
		if outcome, ok := resp["outcome"].(map[string]any); ok {
			printText(w, outcome)
		}
	case "cancelled":
		_, _ = fmt.Fprintln(w, "Abgebrochen")
	default:
		printText(w, resp)
	}
}
