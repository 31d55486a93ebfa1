// Package main is the entry point for the dice bot server and its tooling
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dicebot/cmd/server/client"
	"github.com/KirkDiggler/rpg-dicebot/internal/config"
	"github.com/KirkDiggler/rpg-dicebot/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-dicebot",
	Short: "Dice bot resolution engine",
	Long:  `rpg-dicebot rolls dice expressions, resolves range tables and samples travel transitions, locally or over gRPC.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(travelCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(client.ClientCmd)
}

// loadConfig reads the environment and installs the logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(logger.Options{JSON: cfg.Production(), Level: cfg.LogLevel})
	return cfg, nil
}
