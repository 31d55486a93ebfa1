// Package dicesession provides repository interface and types for per-conversation roll history
package dicesession

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=dicesessionmock github.com/KirkDiggler/rpg-dicebot/internal/repositories/dice_session Repository

// DiceSession is the roll history of one conversation within a context
type DiceSession struct {
	// Conversation that owns these rolls (e.g., a chat id)
	ConversationID string

	// Context for grouping related rolls (e.g., "roll", "encounter")
	Context string

	// Rolls in the order they were made, oldest first
	Rolls []DiceRoll

	// When this session was created
	CreatedAt time.Time

	// When this session expires
	ExpiresAt time.Time
}

// DiceRoll is a single evaluated expression
type DiceRoll struct {
	// Unique identifier for this roll
	RollID string

	// Normalized expression that was rolled (e.g., "1d20+2d6+3")
	Expression string

	// Final result including any bonus
	Total int

	// One line per term, plus a bonus line when one was applied
	Trace []string

	// Carry-over bonus consumed by this roll
	Bonus int

	RolledAt time.Time
}

// CreateInput contains parameters for creating a dice session
type CreateInput struct {
	ConversationID string
	Context        string
	Rolls          []DiceRoll
	TTL            time.Duration // How long the session should live
}

// CreateOutput contains the result of creating a dice session
type CreateOutput struct {
	Session *DiceSession
}

// GetInput contains parameters for retrieving a dice session
type GetInput struct {
	ConversationID string
	Context        string
}

// GetOutput contains the result of retrieving a dice session
type GetOutput struct {
	Session *DiceSession
}

// AppendInput contains parameters for adding a roll to a session
type AppendInput struct {
	ConversationID string
	Context        string
	Roll           DiceRoll
	TTL            time.Duration
	// MaxRolls caps the history, the oldest rolls are dropped first
	MaxRolls int
}

// AppendOutput contains the session after the roll was added
type AppendOutput struct {
	Session *DiceSession
}

// DeleteInput contains parameters for deleting a dice session
type DeleteInput struct {
	ConversationID string
	Context        string
}

// DeleteOutput contains the result of deleting a dice session
type DeleteOutput struct {
	RollsDeleted int32
}

// Repository defines the interface for dice session storage operations
type Repository interface {
	// Create stores a new dice session with the specified TTL
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a dice session by conversation ID and context
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Append adds a roll, creating the session when it does not exist, and refreshes its TTL
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// Delete removes a dice session
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
