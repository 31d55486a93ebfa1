package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/transition"
	"github.com/KirkDiggler/rpg-dicebot/internal/handlers/format"
)

func TestRoll(t *testing.T) {
	result := &expression.Result{
		Expression: "2d6+3",
		Total:      10,
		Terms: []expression.TermResult{
			{Term: expression.Term{Sign: 1, Count: 2, Sides: 6, IsDice: true}, Rolls: []int{3, 4}, Subtotal: 7},
			{Term: expression.Term{Sign: 1, Value: 3}, Subtotal: 3},
		},
	}

	assert.Equal(t, "🎲 2d6+3\nWürfe: 3, 4\nSumme: 10", format.Roll(result, 0))
	assert.Equal(t, "🎲 2d6+3\nWürfe: 3, 4\nBonus: +2\nSumme: 10", format.Roll(result, 2))
	assert.Equal(t, "🎲 5\nWürfe: -\nSumme: 5", format.Roll(&expression.Result{Expression: "5", Total: 5}, 0))
	assert.Empty(t, format.Roll(nil, 0))
}

func TestResolution(t *testing.T) {
	result := &tables.Result{
		Category:      "Wald",
		RequestedTier: "17-20",
		Tier:          "11-20",
		FellBack:      true,
		Roll:          80,
		Value:         80,
		Text:          "4 Oger",
	}
	assert.Equal(t, "📜 Wald, Stufe 17-20 (Tabelle 11-20)\nWurf: 80\n4 Oger", format.Resolution(result))

	result = &tables.Result{
		Category:      "Sumpf",
		RequestedTier: "5-10",
		Tier:          "5-10",
		Roll:          3,
		Bonus:         5,
		Value:         8,
		Text:          tables.GapSentinel,
	}
	assert.Equal(t, "📜 Sumpf, Stufe 5-10\nWurf: 3 (Bonus +5 = 8)\n"+tables.GapSentinel, format.Resolution(result))
}

func TestTransition(t *testing.T) {
	assert.Equal(t, "🧭 Von Wald nach Gebirge", format.Transition(&transition.Transition{From: "Wald", To: "Gebirge"}))
	assert.Equal(t, "🧭 Ihr bleibt in Wald", format.Transition(&transition.Transition{From: "Wald", To: "Wald"}))
	assert.Equal(t,
		"🧭 Sumpf: ihr findet Stadt/Dorf und bleibt in Sumpf",
		format.Transition(&transition.Transition{From: "Sumpf", To: "Stadt/Dorf", Stays: true}),
	)
}

func TestDistribution(t *testing.T) {
	got := format.Distribution([]transition.Weight{
		{Category: "Wald", Percent: 66},
		{Category: "Wasser", Percent: 2.375},
	})
	assert.Equal(t, "Wald: 66.00%\nWasser: 2.38%", got)
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "Wähle eine Stufe\n1-4 | 11-20", format.Prompt("Wähle eine Stufe", []string{"1-4", "11-20"}))
	assert.Equal(t, "Gib einen Bonus ein", format.Prompt("Gib einen Bonus ein", nil))
	assert.Equal(t, "Bonus -3 gilt für den nächsten Wurf", format.Bonus(-3))
}
