package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-dicebot/internal/entities"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
)

type storedFlow struct {
	conversation entities.Conversation
	expiresAt    time.Time
}

// InMemoryRepository implements Repository in process memory. State is lost on restart.
type InMemoryRepository struct {
	mu      sync.RWMutex
	clock   clock.Clock
	flowTTL time.Duration
	flows   map[string]*storedFlow
	bonuses map[string]int
	current map[string]string
}

// NewInMemory creates a new in-memory repository. A nil clock uses the real clock.
func NewInMemory(c clock.Clock, flowTTL time.Duration) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	if flowTTL == 0 {
		flowTTL = defaultFlowTTL
	}

	return &InMemoryRepository{
		clock:   c,
		flowTTL: flowTTL,
		flows:   make(map[string]*storedFlow),
		bonuses: make(map[string]int),
		current: make(map[string]string),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Get retrieves the active flow
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.flows[input.ConversationID]
	if !exists || r.clock.Now().After(stored.expiresAt) {
		return nil, errors.NotFoundf("no active flow for conversation %s", input.ConversationID)
	}

	// Return a copy to prevent external modification
	conv := stored.conversation
	return &GetOutput{Conversation: &conv}, nil
}

// Save stores the flow and restarts its TTL
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.Conversation == nil {
		return nil, errors.InvalidArgument(errConversationRequired)
	}
	if input.Conversation.ID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	now := r.clock.Now()
	conv := *input.Conversation
	conv.UpdatedAt = now
	if conv.StartedAt.IsZero() {
		conv.StartedAt = now
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.flows[conv.ID] = &storedFlow{conversation: conv, expiresAt: now.Add(r.flowTTL)}

	return &SaveOutput{}, nil
}

// Delete discards the active flow
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.flows[input.ConversationID]
	delete(r.flows, input.ConversationID)

	return &DeleteOutput{Deleted: exists}, nil
}

// SetBonus stores the carry-over bonus
func (r *InMemoryRepository) SetBonus(_ context.Context, input *SetBonusInput) (*SetBonusOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.bonuses[input.ConversationID] = input.Bonus

	return &SetBonusOutput{}, nil
}

// TakeBonus reads and clears the bonus under the write lock
func (r *InMemoryRepository) TakeBonus(_ context.Context, input *TakeBonusInput) (*TakeBonusOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bonus, exists := r.bonuses[input.ConversationID]
	delete(r.bonuses, input.ConversationID)

	return &TakeBonusOutput{Bonus: bonus, Found: exists}, nil
}

// GetCurrentCategory reads the travel category
func (r *InMemoryRepository) GetCurrentCategory(_ context.Context, input *GetCurrentCategoryInput) (*GetCurrentCategoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	category, exists := r.current[input.ConversationID]
	return &GetCurrentCategoryOutput{Category: category, Found: exists}, nil
}

// SetCurrentCategory stores the travel category
func (r *InMemoryRepository) SetCurrentCategory(_ context.Context, input *SetCurrentCategoryInput) (*SetCurrentCategoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}
	if input.Category == "" {
		return nil, errors.InvalidArgument("category is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.current[input.ConversationID] = input.Category

	return &SetCurrentCategoryOutput{}, nil
}
