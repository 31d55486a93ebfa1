package conversation

import (
	"context"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/canon"
	"github.com/KirkDiggler/rpg-dicebot/internal/entities"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/table"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/travel"
	conversationrepo "github.com/KirkDiggler/rpg-dicebot/internal/repositories/conversation"
)

// Bonus bounds accepted by the bonus flow
const (
	MinBonus = -100
	MaxBonus = 100
)

const (
	msgChooseCategory   = "Wähle eine Kategorie"
	msgChooseTier       = "Wähle eine Stufe"
	msgEnterExpression  = "Gib einen Würfelausdruck ein (z.B. 2W6+3)"
	msgChooseCurrent    = "Wo befindet ihr euch gerade?"
	msgEnterBonus       = "Gib einen Bonus zwischen -100 und +100 ein"
	msgExpectsSelection = "Bitte wähle eine der angebotenen Optionen"
	msgExpectsText      = "Bitte antworte mit einer Texteingabe"
	msgUnknownOption    = "Unbekannte Auswahl"
	msgInvalidBonus     = "Der Bonus muss eine ganze Zahl zwischen -100 und +100 sein"
)

func categoryPrompt(categories []string) *Prompt {
	return &Prompt{
		Step:    entities.StepCollectingCategory,
		Message: msgChooseCategory,
		Options: categories,
		Expects: ReplySelection,
	}
}

func tierPrompt(category string, tiers []string) *Prompt {
	return &Prompt{
		Step:    entities.StepCollectingTier,
		Message: msgChooseTier + " (" + category + ")",
		Options: tiers,
		Expects: ReplySelection,
	}
}

func expressionPrompt() *Prompt {
	return &Prompt{
		Step:    entities.StepCollectingExpression,
		Message: msgEnterExpression,
		Expects: ReplyText,
	}
}

func currentPrompt(options []string) *Prompt {
	return &Prompt{
		Step:    entities.StepCollectingCurrent,
		Message: msgChooseCurrent,
		Options: options,
		Expects: ReplySelection,
	}
}

func bonusPrompt() *Prompt {
	return &Prompt{
		Step:    entities.StepCollectingBonus,
		Message: msgEnterBonus,
		Expects: ReplyText,
	}
}

// expect returns the rejection for a reply of the wrong kind, nil when it fits
func expect(reply Reply, prompt *Prompt) *SubmitOutput {
	if reply.Kind == prompt.Expects {
		return nil
	}
	if prompt.Expects == ReplySelection {
		return rejected(prompt, msgExpectsSelection)
	}
	return rejected(prompt, msgExpectsText)
}

// Encounter: category, then tier, then one table resolution.

func (o *orchestrator) startEncounter(ctx context.Context) (entities.FlowState, *Prompt, error) {
	categories, err := o.categories(ctx)
	if err != nil {
		return nil, nil, err
	}
	return entities.EncounterFlow{Step: entities.StepCollectingCategory}, categoryPrompt(categories), nil
}

func (o *orchestrator) categories(ctx context.Context) ([]string, error) {
	out, err := o.table.ListCategories(ctx, &table.ListCategoriesInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	if len(out.Categories) == 0 {
		return nil, errors.FailedPrecondition("no tables loaded")
	}
	return out.Categories, nil
}

func (o *orchestrator) stepEncounter(
	ctx context.Context,
	conv *entities.Conversation,
	flow entities.EncounterFlow,
	reply Reply,
) (*SubmitOutput, error) {
	switch flow.Step {
	case entities.StepCollectingCategory:
		categories, err := o.categories(ctx)
		if err != nil {
			return nil, err
		}
		prompt := categoryPrompt(categories)
		if rej := expect(reply, prompt); rej != nil {
			return rej, nil
		}

		category, ok := o.matchCategory(reply.Value, categories)
		if !ok {
			return rejected(prompt, msgUnknownOption), nil
		}

		tiers, err := o.table.ListTiers(ctx, &table.ListTiersInput{Category: category})
		if err != nil {
			if errors.IsNotFound(err) {
				return rejected(prompt, msgUnknownOption), nil
			}
			return nil, errors.Wrap(err, "failed to list tiers")
		}

		next := entities.EncounterFlow{Step: entities.StepCollectingTier, Category: tiers.Category}
		return o.advance(ctx, conv, next, tierPrompt(tiers.Category, tiers.Tiers))

	case entities.StepCollectingTier:
		tiers, err := o.table.ListTiers(ctx, &table.ListTiersInput{Category: flow.Category})
		if err != nil {
			if errors.IsNotFound(err) {
				// the table was reloaded without this category
				_ = o.clear(ctx, conv.ID)
			}
			return nil, errors.Wrap(err, "failed to list tiers")
		}
		prompt := tierPrompt(tiers.Category, tiers.Tiers)
		if rej := expect(reply, prompt); rej != nil {
			return rej, nil
		}

		tier, ok := matchTier(reply.Value, tiers.Tiers)
		if !ok {
			return rejected(prompt, msgUnknownOption), nil
		}

		out, err := o.table.Resolve(ctx, &table.ResolveInput{
			ConversationID: conv.ID,
			Category:       flow.Category,
			Tier:           tier,
		})
		if err != nil {
			// a failed resolution still ends the flow
			if clearErr := o.clear(ctx, conv.ID); clearErr != nil {
				return nil, clearErr
			}
			return nil, errors.Wrap(err, "failed to resolve table")
		}

		return o.resolved(ctx, conv, &Outcome{Flow: entities.FlowEncounter, Resolution: out.Result})

	default:
		return nil, errors.Internalf("encounter flow in unknown step %q", flow.Step)
	}
}

func (o *orchestrator) matchCategory(value string, options []string) (string, bool) {
	want := o.categoryOf(value)
	if want == "" {
		return "", false
	}
	for _, option := range options {
		if o.categoryOf(option) == want {
			return option, true
		}
	}
	return "", false
}

// matchTier accepts an offered tier or a sub-band of one
func matchTier(value string, options []string) (string, bool) {
	want := canon.Tier(value)
	if want == "" {
		return "", false
	}
	super, hasSuper := canon.SuperBand(want)
	for _, option := range options {
		if option == want {
			return want, true
		}
	}
	if hasSuper {
		for _, option := range options {
			if option == super {
				return want, true
			}
		}
	}
	return "", false
}

// Roll: one expression.

func (o *orchestrator) startRoll() (entities.FlowState, *Prompt) {
	return entities.RollFlow{Step: entities.StepCollectingExpression}, expressionPrompt()
}

func (o *orchestrator) stepRoll(ctx context.Context, conv *entities.Conversation, reply Reply) (*SubmitOutput, error) {
	prompt := expressionPrompt()
	if rej := expect(reply, prompt); rej != nil {
		return rej, nil
	}
	if strings.TrimSpace(reply.Value) == "" {
		return rejected(prompt, msgEnterExpression), nil
	}

	out, err := o.dice.RollDice(ctx, &dice.RollDiceInput{
		ConversationID: conv.ID,
		Expression:     reply.Value,
	})
	if err != nil {
		if errors.HasReason(err, errors.ReasonInvalidExpression) {
			return rejected(prompt, errors.GetMessage(err)), nil
		}
		return nil, errors.Wrap(err, "failed to roll dice")
	}

	return o.resolved(ctx, conv, &Outcome{Flow: entities.FlowRoll, Roll: out})
}

// Travel: the category being left.

func (o *orchestrator) startTravel(ctx context.Context, conversationID string) (entities.FlowState, *Prompt, error) {
	options, err := o.travelOptions(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	return entities.TravelFlow{Step: entities.StepCollectingCurrent}, currentPrompt(options), nil
}

// travelOptions lists the universe with the stored category first
func (o *orchestrator) travelOptions(ctx context.Context, conversationID string) ([]string, error) {
	universe, err := o.travel.ListUniverse(ctx, &travel.ListUniverseInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	current, err := o.travel.GetCurrent(ctx, &travel.GetCurrentInput{ConversationID: conversationID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current category")
	}

	options := make([]string, 0, len(universe.Categories))
	if current.Found {
		options = append(options, current.Category)
	}
	for _, c := range universe.Categories {
		if current.Found && c == current.Category {
			continue
		}
		options = append(options, c)
	}
	return options, nil
}

func (o *orchestrator) stepTravel(ctx context.Context, conv *entities.Conversation, reply Reply) (*SubmitOutput, error) {
	options, err := o.travelOptions(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	prompt := currentPrompt(options)
	if rej := expect(reply, prompt); rej != nil {
		return rej, nil
	}

	current, ok := o.matchCategory(reply.Value, options)
	if !ok {
		return rejected(prompt, msgUnknownOption), nil
	}

	out, err := o.travel.Travel(ctx, &travel.TravelInput{
		ConversationID: conv.ID,
		Current:        current,
	})
	if err != nil {
		if errors.HasReason(err, errors.ReasonUnknownCategory) {
			return rejected(prompt, msgUnknownOption), nil
		}
		return nil, errors.Wrap(err, "failed to travel")
	}

	return o.resolved(ctx, conv, &Outcome{Flow: entities.FlowTravel, Travel: out})
}

// Bonus: one signed integer stored for the next resolution.

func (o *orchestrator) startBonus() (entities.FlowState, *Prompt) {
	return entities.BonusFlow{Step: entities.StepCollectingBonus}, bonusPrompt()
}

func (o *orchestrator) stepBonus(ctx context.Context, conv *entities.Conversation, reply Reply) (*SubmitOutput, error) {
	prompt := bonusPrompt()
	if rej := expect(reply, prompt); rej != nil {
		return rej, nil
	}

	bonus, ok := ParseBonus(reply.Value)
	if !ok {
		return rejected(prompt, msgInvalidBonus), nil
	}

	if _, err := o.repo.SetBonus(ctx, &conversationrepo.SetBonusInput{
		ConversationID: conv.ID,
		Bonus:          bonus,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to store bonus")
	}

	return o.resolved(ctx, conv, &Outcome{Flow: entities.FlowBonus, Bonus: &bonus})
}

// ParseBonus reads a signed integer such as "+5", "-12" or "7" within the bonus bounds
func ParseBonus(raw string) (int, bool) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	value = strings.Replace(value, "−", "-", 1)
	if value == "" {
		return 0, false
	}

	bonus, err := strconv.Atoi(value)
	if err != nil || bonus < MinBonus || bonus > MaxBonus {
		return 0, false
	}
	return bonus, true
}
