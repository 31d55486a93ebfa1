// Package canon canonicalizes free-text category and tier input into table keys.
//
// Every function in this package is total and idempotent: any input maps to some key, and
// canonicalizing a key again returns the same key.
package canon

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var punctuation = strings.NewReplacer(
	"\u2010", "-", "\u2011", "-", "\u2012", "-", "\u2013", "-", "\u2014", "-", "\u2015", "-",
	"\u2212", "-",
	"\u00a0", " ", "\u2007", " ", "\u202f", " ", "\t", " ",
)

// Clean applies NFC normalization, maps Unicode dash variants and non-breaking spaces to
// ASCII, collapses runs of whitespace and trims.
func Clean(s string) string {
	s = punctuation.Replace(norm.NFC.String(s))
	return strings.Join(strings.Fields(s), " ")
}

// fold is the comparison key for aliases. A Caser holds state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Definition names a canonical category and the spellings that should resolve to it
type Definition struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// DefaultDefinitions are the terrain categories of the bot's tables
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: "Wald", Aliases: []string{"wälder", "waelder", "forst", "forest", "woods"}},
		{Name: "Gebirge", Aliases: []string{"berge", "berg", "gebirg", "mountains", "mountain"}},
		{Name: "Hügel", Aliases: []string{"huegel", "hugel", "hügelland", "hills", "hill"}},
		{Name: "Ebene", Aliases: []string{"ebenen", "grasland", "steppe", "plains", "grassland"}},
		{Name: "Sumpf", Aliases: []string{"sümpfe", "suempfe", "moor", "swamp", "marsh"}},
		{Name: "Wüste", Aliases: []string{"wueste", "wuste", "desert"}},
		{Name: "Küste", Aliases: []string{"kueste", "kuste", "strand", "coast", "coastal"}},
		{Name: "Arktis", Aliases: []string{"arktisch", "eis", "tundra", "arctic"}},
		{Name: "Wasser", Aliases: []string{"see", "meer", "fluss", "water", "sea"}},
		{Name: "Unterreich", Aliases: []string{"unterwelt", "höhlen", "hoehlen", "underdark"}},
		{Name: "Stadt/Dorf", Aliases: []string{"stadt", "dorf", "siedlung", "stadt / dorf", "town", "city", "village"}},
	}
}

type alias struct {
	key       string // folded
	canonical string
}

// Canonicalizer maps category spellings onto canonical names
type Canonicalizer struct {
	exact   map[string]string
	aliases []alias // sorted by key for deterministic fuzzy ties
}

// New builds a canonicalizer. Canonical names always resolve to themselves.
func New(defs []Definition) *Canonicalizer {
	c := &Canonicalizer{exact: make(map[string]string)}

	add := func(spelling, canonical string) {
		key := fold(Clean(spelling))
		if key == "" {
			return
		}
		if _, exists := c.exact[key]; exists {
			return
		}
		c.exact[key] = canonical
		c.aliases = append(c.aliases, alias{key: key, canonical: canonical})
	}

	// names first so an alias can never shadow a canonical name
	for _, d := range defs {
		name := Clean(d.Name)
		if name != "" {
			add(name, name)
		}
	}
	for _, d := range defs {
		name := Clean(d.Name)
		if name == "" {
			continue
		}
		for _, a := range d.Aliases {
			add(a, name)
		}
	}

	sort.Slice(c.aliases, func(i, j int) bool { return c.aliases[i].key < c.aliases[j].key })
	return c
}

// Category returns the canonical name for raw, falling back to the cleaned input
func (c *Canonicalizer) Category(raw string) string {
	cleaned := Clean(raw)
	if cleaned == "" {
		return ""
	}

	key := fold(cleaned)
	if canonical, ok := c.exact[key]; ok {
		return canonical
	}

	if canonical, ok := c.fuzzy(key); ok {
		return canonical
	}
	return cleaned
}

// Known reports whether raw resolves to a canonical name
func (c *Canonicalizer) Known(raw string) bool {
	_, ok := c.exact[fold(c.Category(raw))]
	return ok
}

func (c *Canonicalizer) fuzzy(key string) (string, bool) {
	if utf8.RuneCountInString(key) < minFuzzyLength {
		return "", false
	}

	best, bestDist := "", -1
	for _, a := range c.aliases {
		if utf8.RuneCountInString(a.key) < minFuzzyLength {
			continue
		}
		limit := levenshteinLimit(utf8.RuneCountInString(a.key))
		dist := levenshtein.ComputeDistance(key, a.key)
		if dist > limit {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = a.canonical, dist
		}
	}
	return best, bestDist >= 0
}

// short words are too close to each other for edit distance to mean anything
const minFuzzyLength = 4

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

var defaultCanonicalizer = New(DefaultDefinitions())

// Category canonicalizes raw with the default definitions
func Category(raw string) string {
	return defaultCanonicalizer.Category(raw)
}
