// Package client provides test commands for the dice bot gRPC service
package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dicebot/internal/handlers/api/v1alpha1"
)

var (
	// Connection flags
	serverAddr     string
	timeout        time.Duration
	conversationID string
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the dice bot",
	Long:  `Client commands allow you to test the dice bot by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&conversationID, "conversation", "cli", "Conversation ID")

	// Dice commands
	ClientCmd.AddCommand(rollCmd)
	ClientCmd.AddCommand(historyCmd)
	ClientCmd.AddCommand(clearHistoryCmd)

	// Table commands
	ClientCmd.AddCommand(resolveCmd)
	ClientCmd.AddCommand(categoriesCmd)
	ClientCmd.AddCommand(reloadCmd)
	ClientCmd.AddCommand(travelCmd)

	// Flow commands
	ClientCmd.AddCommand(flowCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// call invokes one method with a timeout and returns the response fields
func call(cmd *cobra.Command, method string, fields map[string]any) (map[string]any, error) {
	conn, err := createConnection()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	resp, err := v1alpha1.NewClient(conn).Call(ctx, method, fields)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}
	return resp.AsMap(), nil
}

// printText writes the display text of a response, or the raw fields when there is none
func printText(w io.Writer, fields map[string]any) {
	if text, ok := fields["text"].(string); ok && text != "" {
		_, _ = fmt.Fprintln(w, text)
		return
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		_, _ = fmt.Fprintln(w, fields)
		return
	}
	_, _ = fmt.Fprintln(w, s.String())
}
