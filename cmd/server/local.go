package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dicebot/internal/handlers/format"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/table"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/travel"
)

var (
	localConversationID string
	showDistribution    bool
)

var rollCmd = &cobra.Command{
	Use:   "roll [expression]",
	Short: "Roll a dice expression locally",
	Long: `Roll a dice expression without a server. Examples:

  roll 2W6+3
  roll 1d20 + 1d4 - 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoll,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [category] [tier]",
	Short: "Roll once on a range table locally",
	Long: `Compile the configured table sources and roll once. Examples:

  resolve Wald 1-4
  resolve sumpf "Stufe 11 bis 16"`,
	Args: cobra.ExactArgs(2),
	RunE: runResolve,
}

var travelCmd = &cobra.Command{
	Use:   "travel [current]",
	Short: "Sample the next travel category locally",
	Args:  cobra.ExactArgs(1),
	RunE:  runTravel,
}

func init() {
	for _, cmd := range []*cobra.Command{rollCmd, resolveCmd, travelCmd} {
		cmd.Flags().StringVar(&localConversationID, "conversation", "cli", "Conversation ID for bonus and history")
	}
	travelCmd.Flags().BoolVar(&showDistribution, "distribution", false, "Print the transition probabilities instead of sampling")
}

func runRoll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.dice.RollDice(cmd.Context(), &dice.RollDiceInput{
		ConversationID: localConversationID,
		Expression:     strings.Join(args, " "),
	})
	if err != nil {
		return err
	}

	fmt.Println(format.Roll(out.Result, out.Roll.Bonus))
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	reloaded, err := a.table.Reload(cmd.Context(), &table.ReloadInput{})
	if err != nil {
		return err
	}
	for _, w := range reloaded.Warnings {
		fmt.Println("⚠", w.String())
	}

	out, err := a.table.Resolve(cmd.Context(), &table.ResolveInput{
		ConversationID: localConversationID,
		Category:       args[0],
		Tier:           args[1],
	})
	if err != nil {
		return err
	}

	fmt.Println(format.Resolution(out.Result))
	return nil
}

func runTravel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if showDistribution {
		out, err := a.travel.Distribution(cmd.Context(), &travel.DistributionInput{Current: args[0]})
		if err != nil {
			return err
		}
		fmt.Println(format.Distribution(out.Weights))
		return nil
	}

	out, err := a.travel.Travel(cmd.Context(), &travel.TravelInput{
		ConversationID: localConversationID,
		Current:        args[0],
	})
	if err != nil {
		return err
	}

	fmt.Println(format.Transition(out.Transition))
	return nil
}
