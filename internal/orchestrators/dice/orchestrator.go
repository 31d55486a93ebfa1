// Package dice implements the dice orchestrator for single-shot expression rolls
package dice

//go:generate mockgen -destination=mock/mock_service.go -package=dicemock github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/dice Service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dicebot/internal/repositories/conversation"
	dicesession "github.com/KirkDiggler/rpg-dicebot/internal/repositories/dice_session"
)

const (
	// ContextRoll is the default history context for single-shot rolls
	ContextRoll = "roll"

	// DefaultSessionTTL is how long roll history is kept after the last roll
	DefaultSessionTTL = 15 * time.Minute

	// DefaultMaxHistory caps the rolls kept per session
	DefaultMaxHistory = 50
)

// Service defines the interface for dice operations
type Service interface {
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)
	GetRollSession(ctx context.Context, input *GetRollSessionInput) (*GetRollSessionOutput, error)
	ClearRollSession(ctx context.Context, input *ClearRollSessionInput) (*ClearRollSessionOutput, error)
}

// Config holds the dependencies for the dice orchestrator
type Config struct {
	DiceSessionRepo  dicesession.Repository
	ConversationRepo conversation.Repository
	Evaluator        *expression.Evaluator
	IDGenerator      idgen.Generator
	Clock            clock.Clock
	HistoryTTL       time.Duration
	MaxHistory       int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.DiceSessionRepo == nil {
		vb.RequiredField("DiceSessionRepo")
	}
	if c.ConversationRepo == nil {
		vb.RequiredField("ConversationRepo")
	}
	if c.Evaluator == nil {
		vb.RequiredField("Evaluator")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	diceSessionRepo  dicesession.Repository
	conversationRepo conversation.Repository
	evaluator        *expression.Evaluator
	idGen            idgen.Generator
	clock            clock.Clock
	historyTTL       time.Duration
	maxHistory       int
}

// NewOrchestrator creates a new dice orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		diceSessionRepo:  cfg.DiceSessionRepo,
		conversationRepo: cfg.ConversationRepo,
		evaluator:        cfg.Evaluator,
		idGen:            cfg.IDGenerator,
		clock:            cfg.Clock,
		historyTTL:       cfg.HistoryTTL,
		maxHistory:       cfg.MaxHistory,
	}
	if o.historyTTL == 0 {
		o.historyTTL = DefaultSessionTTL
	}
	if o.maxHistory == 0 {
		o.maxHistory = DefaultMaxHistory
	}

	return o, nil
}

// RollDice evaluates the expression, applies a pending carry-over bonus and records the
// roll. The bonus is only consumed once the expression is known to be valid.
func (o *orchestrator) RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument("conversation ID is required")
	}

	rollContext := input.Context
	if rollContext == "" {
		rollContext = ContextRoll
	}

	terms, normalized, err := o.evaluator.Parse(input.Expression)
	if err != nil {
		return nil, err
	}

	result, err := o.evaluator.Roll(terms, normalized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll dice")
	}

	bonus := 0
	if !input.SkipBonus {
		taken, err := o.conversationRepo.TakeBonus(ctx, &conversation.TakeBonusInput{
			ConversationID: input.ConversationID,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to read carry-over bonus")
		}
		if taken.Found && taken.Bonus != 0 {
			bonus = taken.Bonus
			result.Total += bonus
			result.Trace = append(result.Trace, fmt.Sprintf("Bonus: %+d", bonus))
		}
	}

	roll := &dicesession.DiceRoll{
		RollID:     o.idGen.Generate(),
		Expression: result.Expression,
		Total:      result.Total,
		Trace:      result.Trace,
		Bonus:      bonus,
		RolledAt:   o.clock.Now(),
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = o.historyTTL
	}

	appendOutput, err := o.diceSessionRepo.Append(ctx, dicesession.AppendInput{
		ConversationID: input.ConversationID,
		Context:        rollContext,
		Roll:           *roll,
		TTL:            ttl,
		MaxRolls:       o.maxHistory,
	})
	if err != nil {
		// history is best effort, the roll itself stands
		slog.Warn("Failed to record dice roll",
			"conversation_id", input.ConversationID,
			"context", rollContext,
			"error", err,
		)
		appendOutput = &dicesession.AppendOutput{}
	}

	slog.Info("Dice rolled successfully",
		"conversation_id", input.ConversationID,
		"context", rollContext,
		"expression", result.Expression,
		"total", roll.Total,
		"bonus", bonus,
		"roll_id", roll.RollID,
	)

	return &RollDiceOutput{
		Roll:    roll,
		Result:  result,
		Session: appendOutput.Session,
	}, nil
}

// GetRollSession retrieves the roll history
func (o *orchestrator) GetRollSession(ctx context.Context, input *GetRollSessionInput) (*GetRollSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument("conversation ID is required")
	}

	rollContext := input.Context
	if rollContext == "" {
		rollContext = ContextRoll
	}

	getOutput, err := o.diceSessionRepo.Get(ctx, dicesession.GetInput{
		ConversationID: input.ConversationID,
		Context:        rollContext,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get dice session")
	}

	return &GetRollSessionOutput{
		Session: getOutput.Session,
	}, nil
}

// ClearRollSession removes the roll history
func (o *orchestrator) ClearRollSession(ctx context.Context, input *ClearRollSessionInput) (*ClearRollSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument("conversation ID is required")
	}

	rollContext := input.Context
	if rollContext == "" {
		rollContext = ContextRoll
	}

	deleteOutput, err := o.diceSessionRepo.Delete(ctx, dicesession.DeleteInput{
		ConversationID: input.ConversationID,
		Context:        rollContext,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete dice session")
	}

	slog.Info("Dice session cleared",
		"conversation_id", input.ConversationID,
		"context", rollContext,
		"rolls_deleted", deleteOutput.RollsDeleted,
	)

	return &ClearRollSessionOutput{
		RollsDeleted: deleteOutput.RollsDeleted,
	}, nil
}
