package tables

import (
	"strings"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/canon"
)

// Compile builds a table from source text. It never fails: lines it cannot place are
// dropped, and blank input yields an empty table.
func Compile(raw string) *Table {
	return CompileWith(raw, nil)
}

// CompileWith compiles using a specific canonicalizer for heading categories. A nil
// canonicalizer uses the default definitions.
func CompileWith(raw string, c *canon.Canonicalizer) *Table {
	categoryOf := canon.Category
	if c != nil {
		categoryOf = c.Category
	}

	b := &builder{table: newTable()}
	for _, rawLine := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line := Classify(rawLine)

		switch line.Kind {
		case LineHeading:
			b.flush()
			b.category = categoryOf(line.CategoryText)
			b.tier = canon.TierFromBounds(line.TierLow, line.TierHigh)
		case LineRangeStart:
			b.flush()
			b.pending = &pendingEntry{low: line.Low, high: line.High}
			if line.Text != "" {
				b.pending.text = append(b.pending.text, line.Text)
			}
		case LineContinuation:
			if b.pending != nil {
				b.pending.text = append(b.pending.text, line.Text)
			}
		case LineMarker, LineBlank:
			// skipped
		}
	}
	b.flush()

	return b.table
}

type pendingEntry struct {
	low, high int
	text      []string
}

type builder struct {
	table    *Table
	category string
	tier     string
	pending  *pendingEntry
}

// flush commits the pending entry when a category and tier are active and it has text
func (b *builder) flush() {
	p := b.pending
	b.pending = nil
	if p == nil || b.category == "" || b.tier == "" {
		return
	}

	text := strings.Join(p.text, " ")
	if text == "" {
		return
	}

	e := Entry{Low: p.low, High: p.high, Text: text}
	if w, overlapping := b.table.overlap(b.category, b.tier, e); overlapping {
		b.table.warnings = append(b.table.warnings, w)
	}
	b.table.add(b.category, b.tier, e)
}
