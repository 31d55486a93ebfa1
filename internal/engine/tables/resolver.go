package tables

import (
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/canon"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
)

// GapSentinel is the text of a result whose roll no entry covers
const GapSentinel = "(kein Eintrag für diesen Wurf)"

// Result is one resolution. It is built fresh for every call.
type Result struct {
	Category      string
	RequestedTier string
	// Tier is the tier actually used, the super-band after a fallback
	Tier     string
	FellBack bool

	// Roll is the natural d100, Value the roll after bonus clamped to the table domain
	Roll  int
	Bonus int
	Value int

	// Entry is nil for a gap
	Entry    *Entry
	Gap      bool
	RawText  string
	Text     string
	SubRolls []expression.SubRoll
}

// ResolverConfig holds the dependencies for a Resolver
type ResolverConfig struct {
	Roller    dice.Roller
	Evaluator *expression.Evaluator
	// Canonicalizer is optional, the default definitions are used when nil
	Canonicalizer *canon.Canonicalizer
}

// Validate ensures all required dependencies are provided
func (c *ResolverConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Evaluator == nil {
		vb.RequiredField("Evaluator")
	}

	return vb.Build()
}

// Resolver rolls against compiled tables
type Resolver struct {
	roller     dice.Roller
	evaluator  *expression.Evaluator
	categoryOf func(string) string
}

// NewResolver creates a resolver
func NewResolver(cfg *ResolverConfig) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	categoryOf := canon.Category
	if cfg.Canonicalizer != nil {
		categoryOf = cfg.Canonicalizer.Category
	}

	return &Resolver{
		roller:     cfg.Roller,
		evaluator:  cfg.Evaluator,
		categoryOf: categoryOf,
	}, nil
}

// Resolve draws a d100, shifts it by bonus and returns the first entry covering it.
// A roll no entry covers is not an error: the result carries GapSentinel instead.
func (r *Resolver) Resolve(t *Table, categoryRaw, tierRaw string, bonus int) (*Result, error) {
	category := r.categoryOf(categoryRaw)
	requested := canon.Tier(tierRaw)

	key, ok := t.Lookup(category)
	if !ok {
		return nil, errors.NotFoundf("no table for category %q", category).
			WithReason(errors.ReasonNoTableFound).
			WithMeta("category", category).
			WithMeta(errors.MetaAvailableTiers, "")
	}

	tier := requested
	entries := t.Entries(key, tier)
	fellBack := false
	if len(entries) == 0 {
		if super, ok := canon.SuperBand(requested); ok {
			if superEntries := t.Entries(key, super); len(superEntries) > 0 {
				tier, entries, fellBack = super, superEntries, true
			}
		}
	}
	if len(entries) == 0 {
		available := strings.Join(t.Tiers(key), ", ")
		return nil, errors.NotFoundf("no table for %s at tier %s (available: %s)", key, requested, available).
			WithReason(errors.ReasonNoTableFound).
			WithMeta("category", key).
			WithMeta(errors.MetaAvailableTiers, available)
	}

	roll, err := r.roller.Roll(RollDomain)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll d100")
	}
	value := clamp(roll+bonus, 1, RollDomain)

	result := &Result{
		Category:      key,
		RequestedTier: requested,
		Tier:          tier,
		FellBack:      fellBack,
		Roll:          roll,
		Bonus:         bonus,
		Value:         value,
	}

	for i := range entries {
		if entries[i].Contains(value) {
			entry := entries[i]
			result.Entry = &entry
			break
		}
	}

	if result.Entry == nil {
		result.Gap = true
		result.RawText = GapSentinel
		result.Text = GapSentinel
		return result, nil
	}

	result.RawText = result.Entry.Text
	result.Text, result.SubRolls = r.evaluator.Expand(result.Entry.Text)

	return result, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
