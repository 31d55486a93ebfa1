// Package format renders engine results as chat display text
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/transition"
)

// Roll renders a dice roll. result.Total already includes bonus.
//
//	🎲 2d6+3
//	Würfe: 3, 4
//	Summe: 10
func Roll(result *expression.Result, bonus int) string {
	if result == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("🎲 " + result.Expression + "\n")
	b.WriteString("Würfe: " + rolls(result.Terms) + "\n")
	if bonus != 0 {
		fmt.Fprintf(&b, "Bonus: %+d\n", bonus)
	}
	b.WriteString("Summe: " + strconv.Itoa(result.Total))
	return b.String()
}

func rolls(terms []expression.TermResult) string {
	var parts []string
	for _, t := range terms {
		for _, r := range t.Rolls {
			parts = append(parts, strconv.Itoa(r))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// Resolution renders a table resolution
func Resolution(result *tables.Result) string {
	if result == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("📜 " + result.Category + ", Stufe " + result.RequestedTier)
	if result.FellBack {
		b.WriteString(" (Tabelle " + result.Tier + ")")
	}
	b.WriteString("\n")

	if result.Bonus != 0 {
		fmt.Fprintf(&b, "Wurf: %d (Bonus %+d = %d)\n", result.Roll, result.Bonus, result.Value)
	} else {
		fmt.Fprintf(&b, "Wurf: %d\n", result.Value)
	}

	b.WriteString(result.Text)
	for _, sub := range result.SubRolls {
		b.WriteString("\n" + sub.String())
	}
	return b.String()
}

// Transition renders one travel step
func Transition(t *transition.Transition) string {
	if t == nil {
		return ""
	}
	if t.Stays {
		return fmt.Sprintf("🧭 %s: ihr findet %s und bleibt in %s", t.From, t.To, t.From)
	}
	if t.To == t.From {
		return fmt.Sprintf("🧭 Ihr bleibt in %s", t.From)
	}
	return fmt.Sprintf("🧭 Von %s nach %s", t.From, t.To)
}

// Distribution renders transition probabilities, one category per line
func Distribution(weights []transition.Weight) string {
	lines := make([]string, 0, len(weights))
	for _, w := range weights {
		lines = append(lines, fmt.Sprintf("%s: %.2f%%", w.Category, w.Percent))
	}
	return strings.Join(lines, "\n")
}

// Bonus renders a stored carry-over bonus
func Bonus(bonus int) string {
	return fmt.Sprintf("Bonus %+d gilt für den nächsten Wurf", bonus)
}

// Prompt renders a question and its options
func Prompt(message string, options []string) string {
	if len(options) == 0 {
		return message
	}
	return message + "\n" + strings.Join(options, " | ")
}
