// Package transition samples the next terrain category of a journey.
//
// The current category keeps a fixed share of the probability mass. Some categories carry
// a fixed weight of their own, and the rest is split evenly over everything else.
package transition

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/canon"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
)

// drawResolution splits one percent into this many steps
const drawResolution = 10000

// Weight is the probability of one category, in percent
type Weight struct {
	Category string
	Percent  float64
}

// Transition is one sampled step
type Transition struct {
	From string
	To   string
	// Stays is true when To is found within From instead of replacing it
	Stays bool
	Draw  int
}

// Config holds the dependencies for a Sampler
type Config struct {
	Roller   dice.Roller
	Settings *Settings
	// Canonicalizer is optional, the default definitions are used when nil
	Canonicalizer *canon.Canonicalizer
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Settings == nil {
		vb.RequiredField("Settings")
	}

	return vb.Build()
}

// Sampler draws transitions. It is safe for concurrent use as long as its Roller is.
type Sampler struct {
	roller     dice.Roller
	settings   *Settings
	categoryOf func(string) string
	universe   []string
	stayWithin map[string]bool
}

// NewSampler creates a sampler
func NewSampler(cfg *Config) (*Sampler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}

	categoryOf := canon.Category
	if cfg.Canonicalizer != nil {
		categoryOf = cfg.Canonicalizer.Category
	}

	s := &Sampler{
		roller:     cfg.Roller,
		settings:   cfg.Settings,
		categoryOf: categoryOf,
		stayWithin: make(map[string]bool),
	}
	for _, c := range cfg.Settings.Universe {
		s.universe = append(s.universe, categoryOf(c))
	}
	for _, c := range cfg.Settings.StayWithin {
		s.stayWithin[categoryOf(c)] = true
	}

	return s, nil
}

// Universe lists the known categories in configured order
func (s *Sampler) Universe() []string {
	return append([]string(nil), s.universe...)
}

// Next samples from current using the configured weights
func (s *Sampler) Next(current string) (*Transition, error) {
	return s.sample(current, s.settings.FixedWeights, s.settings.CurrentWeight)
}

// SampleNextCategory samples from current with explicit weights
func (s *Sampler) SampleNextCategory(current string, fixedWeights map[string]float64, currentWeight float64) (string, bool, error) {
	t, err := s.sample(current, fixedWeights, currentWeight)
	if err != nil {
		return "", false, err
	}
	return t.To, t.Stays, nil
}

// Distribution returns the probability of every category when leaving current. The
// current category comes first, the others follow in universe order.
func (s *Sampler) Distribution(current string, fixedWeights map[string]float64, currentWeight float64) ([]Weight, error) {
	from := s.categoryOf(current)
	if !s.known(from) {
		return nil, errors.InvalidArgumentf("unknown category %q", current).
			WithReason(errors.ReasonUnknownCategory).
			WithMeta("category", from)
	}

	fixed := make(map[string]float64, len(fixedWeights))
	fixedSum := 0.0
	for c, w := range fixedWeights {
		key := s.categoryOf(c)
		if !s.known(key) {
			return nil, errors.InvalidArgumentf("fixed weight for unknown category %q", c).
				WithReason(errors.ReasonUnknownCategory)
		}
		if key == from {
			continue
		}
		fixed[key] = w
		fixedSum += w
	}

	remaining := 100 - currentWeight - fixedSum
	if currentWeight < 0 || remaining < -1e-9 {
		return nil, errors.InvalidArgumentf("weights exceed 100%%: current %.2f, fixed %.2f", currentWeight, fixedSum)
	}

	var others []string
	for _, c := range s.universe {
		if c == from {
			continue
		}
		if _, ok := fixed[c]; ok {
			continue
		}
		others = append(others, c)
	}

	share := 0.0
	currentPercent := currentWeight
	if len(others) > 0 {
		share = remaining / float64(len(others))
	} else {
		currentPercent += remaining
	}

	weights := []Weight{{Category: from, Percent: currentPercent}}
	for _, c := range s.universe {
		if c == from {
			continue
		}
		if w, ok := fixed[c]; ok {
			weights = append(weights, Weight{Category: c, Percent: w})
			continue
		}
		weights = append(weights, Weight{Category: c, Percent: share})
	}

	return weights, nil
}

func (s *Sampler) sample(current string, fixedWeights map[string]float64, currentWeight float64) (*Transition, error) {
	weights, err := s.Distribution(current, fixedWeights, currentWeight)
	if err != nil {
		return nil, err
	}

	draw, err := s.roller.Roll(100 * drawResolution)
	if err != nil {
		return nil, errors.Wrap(err, "failed to draw transition")
	}

	from := weights[0].Category
	chosen := from
	threshold := float64(draw) / drawResolution
	cumulative := 0.0
	for _, w := range weights {
		cumulative += w.Percent
		if threshold <= cumulative {
			chosen = w.Category
			break
		}
	}

	return &Transition{
		From:  from,
		To:    chosen,
		Stays: s.stayWithin[chosen],
		Draw:  draw,
	}, nil
}

func (s *Sampler) known(category string) bool {
	for _, c := range s.universe {
		if c == category {
			return true
		}
	}
	return false
}
