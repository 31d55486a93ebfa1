// Package conversation stores the active flow of each conversation plus the values that
// outlive a single flow: the carry-over bonus and the current travel category.
package conversation

import (
	"context"

	"github.com/KirkDiggler/rpg-dicebot/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=conversationmock github.com/KirkDiggler/rpg-dicebot/internal/repositories/conversation Repository

// GetInput identifies a conversation
type GetInput struct {
	ConversationID string
}

// GetOutput holds the stored conversation
type GetOutput struct {
	Conversation *entities.Conversation
}

// SaveInput replaces the stored conversation
type SaveInput struct {
	Conversation *entities.Conversation
}

// SaveOutput is empty for now
type SaveOutput struct{}

// DeleteInput identifies the conversation whose flow is discarded
type DeleteInput struct {
	ConversationID string
}

// DeleteOutput reports whether a flow was stored
type DeleteOutput struct {
	Deleted bool
}

// SetBonusInput stores a carry-over bonus, replacing any pending one
type SetBonusInput struct {
	ConversationID string
	Bonus          int
}

// SetBonusOutput is empty for now
type SetBonusOutput struct{}

// TakeBonusInput identifies the conversation whose bonus is consumed
type TakeBonusInput struct {
	ConversationID string
}

// TakeBonusOutput holds the consumed bonus. Found is false when none was pending.
type TakeBonusOutput struct {
	Bonus int
	Found bool
}

// GetCurrentCategoryInput identifies a conversation
type GetCurrentCategoryInput struct {
	ConversationID string
}

// GetCurrentCategoryOutput holds the stored travel category
type GetCurrentCategoryOutput struct {
	Category string
	Found    bool
}

// SetCurrentCategoryInput stores the travel category
type SetCurrentCategoryInput struct {
	ConversationID string
	Category       string
}

// SetCurrentCategoryOutput is empty for now
type SetCurrentCategoryOutput struct{}

// Repository defines conversation storage operations
type Repository interface {
	// Get returns NotFound when the conversation has no active flow
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	SetBonus(ctx context.Context, input *SetBonusInput) (*SetBonusOutput, error)
	// TakeBonus reads and clears the bonus in one step
	TakeBonus(ctx context.Context, input *TakeBonusInput) (*TakeBonusOutput, error)

	GetCurrentCategory(ctx context.Context, input *GetCurrentCategoryInput) (*GetCurrentCategoryOutput, error)
	SetCurrentCategory(ctx context.Context, input *SetCurrentCategoryInput) (*SetCurrentCategoryOutput, error)
}

const (
	errInputRequired          = "input is required"
	errConversationIDRequired = "conversation ID is required"
	errConversationRequired   = "conversation is required"
)
