package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-dicebot/internal/entities"
)

// Scans stored conversation state and offers to delete entries the bot can no longer
// read: flows of an unknown kind or without a step, and bonuses that are not integers.
func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning for corrupted conversation data...")

	iter := client.Scan(ctx, 0, "conversation:*", 0).Iterator()

	var corruptedKeys []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		if problem := check(key, data); problem != "" {
			fmt.Printf("✗ %s: %s\n", key, problem)
			corruptedKeys = append(corruptedKeys, key)
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupted entries\n", checkedCount, len(corruptedKeys))

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	// Ask for confirmation before deletion
	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, key := range corruptedKeys {
		if err := client.Del(ctx, key).Err(); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nCleanup complete!")
}

func check(key, data string) string {
	switch {
	case strings.HasSuffix(key, ":flow"):
		var conversation entities.Conversation
		if err := json.Unmarshal([]byte(data), &conversation); err != nil {
			return fmt.Sprintf("unreadable flow: %v", err)
		}
		if conversation.Flow == nil {
			return "conversation without flow"
		}
		if conversation.Flow.CurrentStep() == "" {
			return fmt.Sprintf("%s flow without step", conversation.Flow.Kind())
		}
	case strings.HasSuffix(key, ":bonus"):
		if _, err := strconv.Atoi(data); err != nil {
			return fmt.Sprintf("bonus is not a number: %q", data)
		}
	}
	return ""
}
