// Package expression evaluates dice expressions such as "1d20+2d6+3" or "3W6-1".
//
// An expression is a sequence of signed terms. A term is either a dice term
// (count, separator 'd' or 'w', sides) or a flat integer. Whitespace is ignored, and the
// matched terms must cover the compacted input completely or the whole expression is
// rejected.
package expression

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
)

// ReasonInvalidExpression marks errors caused by malformed or out-of-bounds expressions
const ReasonInvalidExpression = errors.ReasonInvalidExpression

var (
	allowedChars = regexp.MustCompile(`^[0-9dDwW+\-\s]+$`)
	whitespace   = regexp.MustCompile(`\s+`)

	termLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Dice", Pattern: `[+-]?\d+[dDwW]\d+`},
		{Name: "Flat", Pattern: `[+-]?\d+`},
	})
	diceToken = termLexer.Symbols()["Dice"]
	flatToken = termLexer.Symbols()["Flat"]

	diceTerm = regexp.MustCompile(`^([+-]?)(\d+)([dDwW])(\d+)$`)
	flatTerm = regexp.MustCompile(`^([+-]?)(\d+)$`)
)

// Limits bounds what a single expression may roll
type Limits struct {
	MaxCount     int // dice per term
	MinSides     int
	MaxSides     int
	MaxTotalDice int // dice across the whole expression
}

// DefaultLimits mirrors the bot's historical bounds: 1..100 dice, 2..100000 sides, 200 total
func DefaultLimits() Limits {
	return Limits{
		MaxCount:     100,
		MinSides:     2,
		MaxSides:     100000,
		MaxTotalDice: 200,
	}
}

// Term is one parsed, immutable term of an expression
type Term struct {
	Sign      int // +1 or -1
	Count     int // dice terms only
	Sides     int // dice terms only
	Separator string
	Value     int // flat terms only
	IsDice    bool
}

// String renders the term with an explicit sign
func (t Term) String() string {
	sign := "+"
	if t.Sign < 0 {
		sign = "-"
	}
	if t.IsDice {
		return fmt.Sprintf("%s%d%s%d", sign, t.Count, t.Separator, t.Sides)
	}
	return fmt.Sprintf("%s%d", sign, t.Value)
}

// TermResult is a rolled term
type TermResult struct {
	Term     Term
	Rolls    []int
	Subtotal int // signed
}

// Result is the outcome of one evaluation
type Result struct {
	// Expression is the normalized display string, e.g. "1d20+2d6+3"
	Expression string
	Total      int
	Trace      []string
	Terms      []TermResult
}

// Config holds the dependencies for an Evaluator
type Config struct {
	Roller dice.Roller
	Limits *Limits
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Limits != nil {
		if c.Limits.MaxCount < 1 {
			vb.InvalidField("Limits.MaxCount", "must be at least 1")
		}
		if c.Limits.MinSides < 1 || c.Limits.MaxSides < c.Limits.MinSides {
			vb.InvalidField("Limits.Sides", "need 1 <= MinSides <= MaxSides")
		}
		if c.Limits.MaxTotalDice < c.Limits.MaxCount {
			vb.InvalidField("Limits.MaxTotalDice", "must be at least MaxCount")
		}
	}

	return vb.Build()
}

// Evaluator parses and rolls expressions. It is safe for concurrent use as long as its
// Roller is.
type Evaluator struct {
	roller dice.Roller
	limits Limits
}

// NewEvaluator creates an evaluator
func NewEvaluator(cfg *Config) (*Evaluator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	limits := DefaultLimits()
	if cfg.Limits != nil {
		limits = *cfg.Limits
	}

	return &Evaluator{roller: cfg.Roller, limits: limits}, nil
}

// Limits returns the evaluator's bounds
func (e *Evaluator) Limits() Limits {
	return e.limits
}

func invalid(format string, args ...any) error {
	return errors.InvalidArgumentf(format, args...).WithReason(ReasonInvalidExpression)
}

// IsInvalidExpression reports whether err was caused by a malformed expression
func IsInvalidExpression(err error) bool {
	return errors.HasReason(err, ReasonInvalidExpression)
}

// Parse splits raw into terms and checks every bound. It returns the normalized display.
func (e *Evaluator) Parse(raw string) ([]Term, string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, "", invalid("expression is empty")
	}
	if !allowedChars.MatchString(trimmed) {
		return nil, "", invalid("expression %q contains characters other than digits, d, w, + and -", trimmed)
	}

	compact := whitespace.ReplaceAllString(trimmed, "")

	lex, err := termLexer.LexString("", compact)
	if err != nil {
		return nil, "", invalid("cannot read expression %q", trimmed)
	}

	var (
		terms     []Term
		consumed  strings.Builder
		totalDice int
	)
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, "", invalid("unexpected text in expression %q", trimmed)
		}
		if tok.EOF() {
			break
		}
		consumed.WriteString(tok.Value)

		var term Term
		switch tok.Type {
		case diceToken:
			term, err = e.parseDice(tok.Value)
		case flatToken:
			term, err = parseFlat(tok.Value)
		default:
			err = invalid("unexpected token %q", tok.Value)
		}
		if err != nil {
			return nil, "", err
		}

		if term.IsDice {
			totalDice += term.Count
			if totalDice > e.limits.MaxTotalDice {
				return nil, "", invalid("expression rolls more than %d dice", e.limits.MaxTotalDice)
			}
		}
		terms = append(terms, term)
	}

	if consumed.String() != compact || len(terms) == 0 {
		return nil, "", invalid("unexpected text in expression %q", trimmed)
	}

	return terms, display(terms), nil
}

func (e *Evaluator) parseDice(value string) (Term, error) {
	m := diceTerm.FindStringSubmatch(value)
	if m == nil {
		return Term{}, invalid("malformed dice term %q", value)
	}

	count, err := strconv.Atoi(m[2])
	if err != nil {
		return Term{}, invalid("dice count in %q is out of range", value)
	}
	sides, err := strconv.Atoi(m[4])
	if err != nil {
		return Term{}, invalid("die size in %q is out of range", value)
	}

	if count < 1 || count > e.limits.MaxCount {
		return Term{}, invalid("dice count must be between 1 and %d, got %d", e.limits.MaxCount, count)
	}
	if sides < e.limits.MinSides || sides > e.limits.MaxSides {
		return Term{}, invalid("die size must be between %d and %d, got %d", e.limits.MinSides, e.limits.MaxSides, sides)
	}

	return Term{
		Sign:      signOf(m[1]),
		Count:     count,
		Sides:     sides,
		Separator: strings.ToLower(m[3]),
		IsDice:    true,
	}, nil
}

func parseFlat(value string) (Term, error) {
	m := flatTerm.FindStringSubmatch(value)
	if m == nil {
		return Term{}, invalid("malformed number %q", value)
	}
	if len(m[2]) > 9 {
		return Term{}, invalid("number %q is too large", value)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Term{}, invalid("number %q is out of range", value)
	}
	return Term{Sign: signOf(m[1]), Value: n}, nil
}

func signOf(s string) int {
	if s == "-" {
		return -1
	}
	return 1
}

func display(terms []Term) string {
	var b strings.Builder
	for i, t := range terms {
		s := t.String()
		if i == 0 {
			s = strings.TrimPrefix(s, "+")
		}
		b.WriteString(s)
	}
	return b.String()
}

// Evaluate parses raw and rolls every dice term
func (e *Evaluator) Evaluate(raw string) (*Result, error) {
	terms, normalized, err := e.Parse(raw)
	if err != nil {
		return nil, err
	}
	return e.Roll(terms, normalized)
}

// Roll rolls already parsed terms
func (e *Evaluator) Roll(terms []Term, normalized string) (*Result, error) {
	result := &Result{
		Expression: normalized,
		Trace:      make([]string, 0, len(terms)),
		Terms:      make([]TermResult, 0, len(terms)),
	}

	for i, t := range terms {
		label := t.String()
		if i == 0 {
			label = strings.TrimPrefix(label, "+")
		}

		if !t.IsDice {
			sub := t.Sign * t.Value
			result.Total += sub
			result.Terms = append(result.Terms, TermResult{Term: t, Subtotal: sub})
			result.Trace = append(result.Trace, fmt.Sprintf("%+d", sub))
			continue
		}

		rolls, err := e.roller.RollN(t.Count, t.Sides)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll %s", label)
		}
		sum := 0
		for _, r := range rolls {
			sum += r
		}
		sub := t.Sign * sum
		result.Total += sub
		result.Terms = append(result.Terms, TermResult{Term: t, Rolls: rolls, Subtotal: sub})
		result.Trace = append(result.Trace, fmt.Sprintf("%s: [%s] = %+d", label, joinInts(rolls), sub))
	}

	return result, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
