package expression

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// embedded matches dice notation inside free text, e.g. "2W6+1 Goblins" or "1d4 Tage"
var embedded = regexp.MustCompile(`\b(\d+)\s*([dDwW])(\d+)\b(?:\s*([+-])\s*(\d+)\b)?`)

// SubRoll records one substitution made by Expand
type SubRoll struct {
	Source string // text as written, e.g. "2W6+1"
	Result *Result
}

// String renders the substitution for traces, e.g. "2W6+1 -> 9"
func (s SubRoll) String() string {
	return fmt.Sprintf("%s -> %d", s.Source, s.Result.Total)
}

// Expand replaces every embedded dice expression in text with its rolled total.
//
// This is a single pass: substituted totals are plain numbers and are never scanned again.
// Occurrences that fail to evaluate (for example "1W1") are left untouched.
func (e *Evaluator) Expand(text string) (string, []SubRoll) {
	matches := embedded.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var (
		b    strings.Builder
		subs []SubRoll
		last int
	)
	for _, m := range matches {
		source := text[m[0]:m[1]]
		notation := text[m[2]:m[3]] + text[m[4]:m[5]] + text[m[6]:m[7]]
		if m[8] >= 0 {
			notation += text[m[8]:m[9]] + text[m[10]:m[11]]
		}

		result, err := e.Evaluate(notation)
		if err != nil {
			continue
		}

		b.WriteString(text[last:m[0]])
		b.WriteString(strconv.Itoa(result.Total))
		last = m[1]
		subs = append(subs, SubRoll{Source: source, Result: result})
	}
	b.WriteString(text[last:])

	return b.String(), subs
}
