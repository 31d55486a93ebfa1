package travel

import (
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/transition"
)

// TravelInput defines one travel step
type TravelInput struct {
	ConversationID string
	// Current overrides the stored category, required when none is stored
	Current string
}

// TravelOutput holds the sampled step
type TravelOutput struct {
	Transition *transition.Transition
	// Current is the category stored after the step
	Current string
}

// GetCurrentInput identifies a conversation
type GetCurrentInput struct {
	ConversationID string
}

// GetCurrentOutput holds the stored category
type GetCurrentOutput struct {
	Category string
	Found    bool
}

// DistributionInput names the category being left
type DistributionInput struct {
	Current string
}

// DistributionOutput lists the probability of every destination
type DistributionOutput struct {
	Weights []transition.Weight
}

// ListUniverseInput is empty for now
type ListUniverseInput struct{}

// ListUniverseOutput lists the known categories in configured order
type ListUniverseOutput struct {
	Categories []string
}
