// Package conversation drives the multi-step flows that collect the parameters of a
// resolution before committing to it.
//
// Every flow has the same shape: entering it stores the first step, each accepted reply
// stores the next step, the last step calls exactly one resolver and clears the state. A
// reply of the wrong kind or with an invalid value is rejected and the same step is
// prompted again. Cancel ends any flow.
package conversation

//go:generate mockgen -destination=mock/mock_service.go -package=conversationmock github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/conversation Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/canon"
	"github.com/KirkDiggler/rpg-dicebot/internal/entities"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/table"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/travel"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
	conversationrepo "github.com/KirkDiggler/rpg-dicebot/internal/repositories/conversation"
)

// Service defines conversation flow operations
type Service interface {
	StartFlow(ctx context.Context, input *StartFlowInput) (*StartFlowOutput, error)
	Submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error)
	CancelFlow(ctx context.Context, input *CancelFlowInput) (*CancelFlowOutput, error)
	GetFlow(ctx context.Context, input *GetFlowInput) (*GetFlowOutput, error)
}

// Config holds the dependencies for the conversation orchestrator
type Config struct {
	ConversationRepo conversationrepo.Repository
	DiceService      dice.Service
	TableService     table.Service
	TravelService    travel.Service
	EventBus         events.EventBus
	Clock            clock.Clock
	// Canonicalizer is optional, the default definitions are used when nil
	Canonicalizer *canon.Canonicalizer
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ConversationRepo == nil {
		vb.RequiredField("ConversationRepo")
	}
	if c.DiceService == nil {
		vb.RequiredField("DiceService")
	}
	if c.TableService == nil {
		vb.RequiredField("TableService")
	}
	if c.TravelService == nil {
		vb.RequiredField("TravelService")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	repo       conversationrepo.Repository
	dice       dice.Service
	table      table.Service
	travel     travel.Service
	eventBus   events.EventBus
	clock      clock.Clock
	categoryOf func(string) string
	locks      *stripedLock
}

// NewOrchestrator creates a conversation orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		repo:       cfg.ConversationRepo,
		dice:       cfg.DiceService,
		table:      cfg.TableService,
		travel:     cfg.TravelService,
		eventBus:   cfg.EventBus,
		clock:      cfg.Clock,
		categoryOf: canon.Category,
		locks:      newStripedLock(),
	}
	if cfg.Canonicalizer != nil {
		o.categoryOf = cfg.Canonicalizer.Category
	}

	return o, nil
}

// StartFlow discards any active flow and stores the first step of the new one
func (o *orchestrator) StartFlow(ctx context.Context, input *StartFlowInput) (*StartFlowOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument("conversation ID is required")
	}

	unlock := o.locks.lock(input.ConversationID)
	defer unlock()

	var (
		flow   entities.FlowState
		prompt *Prompt
		err    error
	)
	switch input.Kind {
	case entities.FlowEncounter:
		flow, prompt, err = o.startEncounter(ctx)
	case entities.FlowRoll:
		flow, prompt = o.startRoll()
	case entities.FlowTravel:
		flow, prompt, err = o.startTravel(ctx, input.ConversationID)
	case entities.FlowBonus:
		flow, prompt = o.startBonus()
	default:
		return nil, errors.InvalidArgumentf("unknown flow kind %q", input.Kind)
	}
	if err != nil {
		return nil, err
	}

	// re-entry resets, it never stacks
	if err := o.clear(ctx, input.ConversationID); err != nil {
		return nil, err
	}

	now := o.clock.Now()
	if err := o.save(ctx, &entities.Conversation{
		ID:        input.ConversationID,
		Flow:      flow,
		StartedAt: now,
	}); err != nil {
		return nil, err
	}

	slog.Info("Flow started",
		"conversation_id", input.ConversationID,
		"flow", input.Kind,
		"step", flow.CurrentStep(),
	)
	o.publish(ctx, EventFlowStarted, input.ConversationID, input.Kind)

	return &StartFlowOutput{Status: StatusPrompt, Prompt: prompt}, nil
}

// Submit applies one reply to the active flow
func (o *orchestrator) Submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument("conversation ID is required")
	}

	unlock := o.locks.lock(input.ConversationID)
	defer unlock()

	conv, err := o.load(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		if input.Reply.Kind == ReplyCancel {
			return &SubmitOutput{Status: StatusCancelled}, nil
		}
		return nil, errors.FailedPrecondition("no active flow, start one first")
	}

	if input.Reply.Kind == ReplyCancel {
		if err := o.cancel(ctx, conv); err != nil {
			return nil, err
		}
		return &SubmitOutput{Status: StatusCancelled}, nil
	}

	switch flow := conv.Flow.(type) {
	case entities.EncounterFlow:
		return o.stepEncounter(ctx, conv, flow, input.Reply)
	case entities.RollFlow:
		return o.stepRoll(ctx, conv, input.Reply)
	case entities.TravelFlow:
		return o.stepTravel(ctx, conv, input.Reply)
	case entities.BonusFlow:
		return o.stepBonus(ctx, conv, input.Reply)
	default:
		// unreachable while FlowState is sealed
		return nil, errors.Internalf("unsupported flow %T", conv.Flow)
	}
}

// CancelFlow discards the active flow
func (o *orchestrator) CancelFlow(ctx context.Context, input *CancelFlowInput) (*CancelFlowOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument("conversation ID is required")
	}

	unlock := o.locks.lock(input.ConversationID)
	defer unlock()

	conv, err := o.load(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return &CancelFlowOutput{Cancelled: false}, nil
	}

	if err := o.cancel(ctx, conv); err != nil {
		return nil, err
	}
	return &CancelFlowOutput{Cancelled: true}, nil
}

// GetFlow returns the active flow, if any
func (o *orchestrator) GetFlow(ctx context.Context, input *GetFlowInput) (*GetFlowOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument("conversation ID is required")
	}

	conv, err := o.load(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return &GetFlowOutput{}, nil
	}
	return &GetFlowOutput{Flow: conv.Flow}, nil
}

func (o *orchestrator) cancel(ctx context.Context, conv *entities.Conversation) error {
	if err := o.clear(ctx, conv.ID); err != nil {
		return err
	}

	slog.Info("Flow cancelled",
		"conversation_id", conv.ID,
		"flow", conv.Flow.Kind(),
		"step", conv.Flow.CurrentStep(),
	)
	o.publish(ctx, EventFlowCancelled, conv.ID, conv.Flow.Kind())
	return nil
}

// resolved clears the state after the terminal step and reports the outcome
func (o *orchestrator) resolved(ctx context.Context, conv *entities.Conversation, outcome *Outcome) (*SubmitOutput, error) {
	if err := o.clear(ctx, conv.ID); err != nil {
		return nil, err
	}

	slog.Info("Flow resolved",
		"conversation_id", conv.ID,
		"flow", outcome.Flow,
	)
	o.publish(ctx, EventFlowResolved, conv.ID, outcome.Flow)

	return &SubmitOutput{Status: StatusResolved, Outcome: outcome}, nil
}

// advance stores the next step and prompts for it
func (o *orchestrator) advance(ctx context.Context, conv *entities.Conversation, next entities.FlowState, prompt *Prompt) (*SubmitOutput, error) {
	conv.Flow = next
	if err := o.save(ctx, conv); err != nil {
		return nil, err
	}
	return &SubmitOutput{Status: StatusPrompt, Prompt: prompt}, nil
}

func rejected(prompt *Prompt, reason string) *SubmitOutput {
	return &SubmitOutput{Status: StatusRejected, Prompt: prompt, Reason: reason}
}

func (o *orchestrator) load(ctx context.Context, conversationID string) (*entities.Conversation, error) {
	out, err := o.repo.Get(ctx, &conversationrepo.GetInput{ConversationID: conversationID})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to load conversation")
	}
	return out.Conversation, nil
}

func (o *orchestrator) save(ctx context.Context, conv *entities.Conversation) error {
	conv.UpdatedAt = o.clock.Now()
	if _, err := o.repo.Save(ctx, &conversationrepo.SaveInput{Conversation: conv}); err != nil {
		return errors.Wrap(err, "failed to save conversation")
	}
	return nil
}

func (o *orchestrator) clear(ctx context.Context, conversationID string) error {
	if _, err := o.repo.Delete(ctx, &conversationrepo.DeleteInput{ConversationID: conversationID}); err != nil {
		return errors.Wrap(err, "failed to clear conversation")
	}
	return nil
}
