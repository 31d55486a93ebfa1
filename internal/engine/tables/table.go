// Package tables compiles free-text range tables and resolves d100 rolls against them.
//
// Source text looks like:
//
//	Wald (Stufe 1-4)
//	W100
//	01-04 Ein Rudel Wölfe
//	      umkreist das Lager
//	05-12 Ein Wolf taucht auf
//	...
//	96-00 2W6 Goblins
//
// A compiled Table is never modified. Reloading means compiling a new Table.
package tables

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// RollDomain is the die every table is rolled with
const RollDomain = 100

// Entry is one row of a table covering the inclusive interval [Low, High]
type Entry struct {
	Low  int    `json:"low"`
	High int    `json:"high"`
	Text string `json:"text"`
}

// Contains reports whether roll falls inside the entry
func (e Entry) Contains(roll int) bool {
	return roll >= e.Low && roll <= e.High
}

// Bounds renders the interval the way tables print it, e.g. "05-12" or "96-00"
func (e Entry) Bounds() string {
	if e.Low == e.High {
		return printBound(e.Low)
	}
	return printBound(e.Low) + "-" + printBound(e.High)
}

func printBound(n int) string {
	if n == RollDomain {
		return "00"
	}
	return fmt.Sprintf("%02d", n)
}

// Warning describes suspicious but accepted source data
type Warning struct {
	Category string
	Tier     string
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s): %s", w.Category, w.Tier, w.Message)
}

type category struct {
	tiers map[string][]Entry
	order []string
}

// Table maps category -> tier -> entries in authored order
type Table struct {
	categories map[string]*category
	order      []string
	folded     map[string]string
	warnings   []Warning // overlaps; gaps are computed on demand
}

func newTable() *Table {
	return &Table{
		categories: make(map[string]*category),
		folded:     make(map[string]string),
	}
}

func (t *Table) add(categoryKey, tier string, e Entry) {
	c, ok := t.categories[categoryKey]
	if !ok {
		c = &category{tiers: make(map[string][]Entry)}
		t.categories[categoryKey] = c
		t.order = append(t.order, categoryKey)
		t.folded[cases.Fold().String(categoryKey)] = categoryKey
	}
	if _, ok := c.tiers[tier]; !ok {
		c.order = append(c.order, tier)
	}
	c.tiers[tier] = append(c.tiers[tier], e)
}

// Empty reports whether the table holds no entries, i.e. no data was loaded
func (t *Table) Empty() bool {
	return t == nil || len(t.order) == 0
}

// Categories lists category keys in the order they were first authored
func (t *Table) Categories() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Tiers lists the tiers of a category in authored order
func (t *Table) Tiers(categoryKey string) []string {
	c := t.category(categoryKey)
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Entries returns a copy of the entries for category and tier
func (t *Table) Entries(categoryKey, tier string) []Entry {
	c := t.category(categoryKey)
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.tiers[tier]...)
}

// Len counts all entries
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, c := range t.categories {
		for _, entries := range c.tiers {
			n += len(entries)
		}
	}
	return n
}

// Warnings reports overlapping ranges and uncovered rolls. Neither stops the table from
// being used.
func (t *Table) Warnings() []Warning {
	if t == nil {
		return nil
	}
	out := append([]Warning(nil), t.warnings...)
	return append(out, t.gaps()...)
}

// Lookup finds the stored key for a category, ignoring case differences
func (t *Table) Lookup(categoryKey string) (string, bool) {
	if t == nil {
		return "", false
	}
	if _, ok := t.categories[categoryKey]; ok {
		return categoryKey, true
	}
	key, ok := t.folded[cases.Fold().String(categoryKey)]
	return key, ok
}

func (t *Table) category(categoryKey string) *category {
	key, ok := t.Lookup(categoryKey)
	if !ok {
		return nil
	}
	return t.categories[key]
}

// Merge combines tables. Entries for the same category and tier are appended in argument
// order. Overlaps created by merging are reported as warnings.
func Merge(tables ...*Table) *Table {
	merged := newTable()
	for _, src := range tables {
		if src == nil {
			continue
		}
		for _, key := range src.order {
			c := src.categories[key]
			for _, tier := range c.order {
				for _, e := range c.tiers[tier] {
					if w, overlapping := merged.overlap(key, tier, e); overlapping {
						merged.warnings = append(merged.warnings, w)
					}
					merged.add(key, tier, e)
				}
			}
		}
	}
	return merged
}

func (t *Table) overlap(categoryKey, tier string, e Entry) (Warning, bool) {
	c, ok := t.categories[categoryKey]
	if !ok {
		return Warning{}, false
	}
	for _, existing := range c.tiers[tier] {
		if e.Low <= existing.High && existing.Low <= e.High {
			return Warning{
				Category: categoryKey,
				Tier:     tier,
				Message:  fmt.Sprintf("range %s overlaps %s, first match wins", e.Bounds(), existing.Bounds()),
			}, true
		}
	}
	return Warning{}, false
}

// gaps lists the uncovered rolls of every tier as warnings
func (t *Table) gaps() []Warning {
	var warnings []Warning
	for _, key := range t.order {
		c := t.categories[key]
		for _, tier := range c.order {
			var covered [RollDomain + 1]bool
			for _, e := range c.tiers[tier] {
				for r := e.Low; r <= e.High && r <= RollDomain; r++ {
					covered[r] = true
				}
			}

			var missing []string
			for r := 1; r <= RollDomain; r++ {
				if covered[r] {
					continue
				}
				start := r
				for r < RollDomain && !covered[r+1] {
					r++
				}
				missing = append(missing, Entry{Low: start, High: r}.Bounds())
			}
			if len(missing) > 0 {
				warnings = append(warnings, Warning{
					Category: key,
					Tier:     tier,
					Message:  "no entry for rolls " + strings.Join(missing, ", "),
				})
			}
		}
	}
	return warnings
}
