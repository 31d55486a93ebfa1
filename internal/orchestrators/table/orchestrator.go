// Package table holds the compiled range table and resolves against it
package table

//go:generate mockgen -destination=mock/mock_service.go -package=tablemock github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/table Service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/canon"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/repositories/conversation"
	tablesource "github.com/KirkDiggler/rpg-dicebot/internal/repositories/table_source"
)

// Service defines table operations
type Service interface {
	// Reload compiles every source and swaps the result in. On failure the previous
	// table stays in use.
	Reload(ctx context.Context, input *ReloadInput) (*ReloadOutput, error)
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)
	ListCategories(ctx context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error)
	ListTiers(ctx context.Context, input *ListTiersInput) (*ListTiersOutput, error)
}

// Config holds the dependencies for the table orchestrator
type Config struct {
	SourceRepo       tablesource.Repository
	ConversationRepo conversation.Repository
	Resolver         *tables.Resolver
	// Canonicalizer is optional, the default definitions are used when nil
	Canonicalizer *canon.Canonicalizer
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SourceRepo == nil {
		vb.RequiredField("SourceRepo")
	}
	if c.ConversationRepo == nil {
		vb.RequiredField("ConversationRepo")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}

	return vb.Build()
}

type orchestrator struct {
	sourceRepo       tablesource.Repository
	conversationRepo conversation.Repository
	resolver         *tables.Resolver
	canonicalizer    *canon.Canonicalizer
	categoryOf       func(string) string

	// current is read without locking, reloads swap the whole table
	current  atomic.Pointer[tables.Table]
	reloadMu sync.Mutex
}

// NewOrchestrator creates a table orchestrator holding an empty table. Call Reload to
// load data.
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		sourceRepo:       cfg.SourceRepo,
		conversationRepo: cfg.ConversationRepo,
		resolver:         cfg.Resolver,
		canonicalizer:    cfg.Canonicalizer,
		categoryOf:       canon.Category,
	}
	if cfg.Canonicalizer != nil {
		o.categoryOf = cfg.Canonicalizer.Category
	}
	o.current.Store(tables.Compile(""))

	return o, nil
}

// Reload compiles each source separately so one source cannot swallow the heading
// context of another, then merges them
func (o *orchestrator) Reload(ctx context.Context, _ *ReloadInput) (*ReloadOutput, error) {
	o.reloadMu.Lock()
	defer o.reloadMu.Unlock()

	listOutput, err := o.sourceRepo.List(ctx, &tablesource.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list table sources")
	}

	compiled := make([]*tables.Table, 0, len(listOutput.Sources))
	for _, src := range listOutput.Sources {
		t := tables.CompileWith(src.Body, o.canonicalizer)
		if t.Empty() {
			slog.Warn("Table source produced no entries", "source", src.Name)
		}
		compiled = append(compiled, t)
	}

	merged := tables.Merge(compiled...)
	warnings := merged.Warnings()
	for _, w := range warnings {
		slog.Warn("Table warning",
			"category", w.Category,
			"tier", w.Tier,
			"warning", w.Message,
		)
	}

	o.current.Store(merged)

	slog.Info("Tables reloaded",
		"sources", len(listOutput.Sources),
		"categories", len(merged.Categories()),
		"entries", merged.Len(),
		"warnings", len(warnings),
	)

	return &ReloadOutput{
		Sources:    len(listOutput.Sources),
		Categories: len(merged.Categories()),
		Entries:    merged.Len(),
		Warnings:   warnings,
	}, nil
}

// Resolve rolls against the current table. A pending bonus is consumed and handed back
// if the resolution fails.
func (o *orchestrator) Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Category == "" {
		return nil, errors.InvalidArgument("category is required")
	}
	if input.Tier == "" {
		return nil, errors.InvalidArgument("tier is required")
	}

	bonus := 0
	if input.ConversationID != "" {
		taken, err := o.conversationRepo.TakeBonus(ctx, &conversation.TakeBonusInput{
			ConversationID: input.ConversationID,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to read carry-over bonus")
		}
		bonus = taken.Bonus
	}

	result, err := o.resolver.Resolve(o.current.Load(), input.Category, input.Tier, bonus)
	if err != nil {
		if bonus != 0 {
			o.restoreBonus(ctx, input.ConversationID, bonus)
		}
		return nil, err
	}

	slog.Info("Table resolved",
		"conversation_id", input.ConversationID,
		"category", result.Category,
		"tier", result.Tier,
		"fell_back", result.FellBack,
		"roll", result.Roll,
		"bonus", result.Bonus,
		"value", result.Value,
		"gap", result.Gap,
	)

	return &ResolveOutput{Result: result}, nil
}

func (o *orchestrator) restoreBonus(ctx context.Context, conversationID string, bonus int) {
	_, err := o.conversationRepo.SetBonus(ctx, &conversation.SetBonusInput{
		ConversationID: conversationID,
		Bonus:          bonus,
	})
	if err != nil {
		slog.Error("Failed to restore carry-over bonus",
			"conversation_id", conversationID,
			"bonus", bonus,
			"error", err,
		)
	}
}

// ListCategories lists the loaded categories
func (o *orchestrator) ListCategories(_ context.Context, _ *ListCategoriesInput) (*ListCategoriesOutput, error) {
	return &ListCategoriesOutput{
		Categories: o.current.Load().Categories(),
	}, nil
}

// ListTiers lists the tiers of a category
func (o *orchestrator) ListTiers(_ context.Context, input *ListTiersInput) (*ListTiersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Category == "" {
		return nil, errors.InvalidArgument("category is required")
	}

	t := o.current.Load()
	key, ok := t.Lookup(o.categoryOf(input.Category))
	if !ok {
		return nil, errors.NotFoundf("no table for category %q", input.Category).
			WithReason(errors.ReasonNoTableFound)
	}

	return &ListTiersOutput{
		Category: key,
		Tiers:    t.Tiers(key),
	}, nil
}
