// Package travel moves a conversation's party between terrain categories
package travel

//go:generate mockgen -destination=mock/mock_service.go -package=travelmock github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/travel Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/transition"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/repositories/conversation"
)

// Service defines travel operations
type Service interface {
	// Travel samples the next category. The stored category is only replaced when the
	// party actually leaves, a destination found within the current one is just reported.
	Travel(ctx context.Context, input *TravelInput) (*TravelOutput, error)
	GetCurrent(ctx context.Context, input *GetCurrentInput) (*GetCurrentOutput, error)
	Distribution(ctx context.Context, input *DistributionInput) (*DistributionOutput, error)
	ListUniverse(ctx context.Context, input *ListUniverseInput) (*ListUniverseOutput, error)
}

// Config holds the dependencies for the travel orchestrator
type Config struct {
	Sampler          *transition.Sampler
	Settings         *transition.Settings
	ConversationRepo conversation.Repository
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Sampler == nil {
		vb.RequiredField("Sampler")
	}
	if c.Settings == nil {
		vb.RequiredField("Settings")
	}
	if c.ConversationRepo == nil {
		vb.RequiredField("ConversationRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	sampler          *transition.Sampler
	settings         *transition.Settings
	conversationRepo conversation.Repository
}

// NewOrchestrator creates a travel orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		sampler:          cfg.Sampler,
		settings:         cfg.Settings,
		conversationRepo: cfg.ConversationRepo,
	}, nil
}

// Travel samples one step from the given or stored category
func (o *orchestrator) Travel(ctx context.Context, input *TravelInput) (*TravelOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument("conversation ID is required")
	}

	current := input.Current
	if current == "" {
		stored, err := o.conversationRepo.GetCurrentCategory(ctx, &conversation.GetCurrentCategoryInput{
			ConversationID: input.ConversationID,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to read current category")
		}
		if !stored.Found {
			return nil, errors.InvalidArgument("current category is required, none is stored yet")
		}
		current = stored.Category
	}

	t, err := o.sampler.Next(current)
	if err != nil {
		return nil, err
	}

	where := t.To
	if t.Stays {
		where = t.From
	}

	_, err = o.conversationRepo.SetCurrentCategory(ctx, &conversation.SetCurrentCategoryInput{
		ConversationID: input.ConversationID,
		Category:       where,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store current category")
	}

	slog.Info("Travel sampled",
		"conversation_id", input.ConversationID,
		"from", t.From,
		"to", t.To,
		"stays", t.Stays,
		"draw", t.Draw,
	)

	return &TravelOutput{
		Transition: t,
		Current:    where,
	}, nil
}

// GetCurrent returns the stored category
func (o *orchestrator) GetCurrent(ctx context.Context, input *GetCurrentInput) (*GetCurrentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument("conversation ID is required")
	}

	stored, err := o.conversationRepo.GetCurrentCategory(ctx, &conversation.GetCurrentCategoryInput{
		ConversationID: input.ConversationID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read current category")
	}

	return &GetCurrentOutput{Category: stored.Category, Found: stored.Found}, nil
}

// Distribution returns the configured weights for leaving a category
func (o *orchestrator) Distribution(_ context.Context, input *DistributionInput) (*DistributionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	weights, err := o.sampler.Distribution(input.Current, o.settings.FixedWeights, o.settings.CurrentWeight)
	if err != nil {
		return nil, err
	}

	return &DistributionOutput{Weights: weights}, nil
}

// ListUniverse lists the known categories
func (o *orchestrator) ListUniverse(_ context.Context, _ *ListUniverseInput) (*ListUniverseOutput, error) {
	return &ListUniverseOutput{Categories: o.sampler.Universe()}, nil
}
