package transition

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
)

//go:embed transitions.yaml
var defaultSettings []byte

// Settings describe the category universe and its transition weights, in percent
type Settings struct {
	Universe      []string           `yaml:"universe"`
	FixedWeights  map[string]float64 `yaml:"fixed_weights"`
	CurrentWeight float64            `yaml:"current_weight"`
	StayWithin    []string           `yaml:"stay_within"`
}

// Validate checks the settings are self-consistent
func (s *Settings) Validate() error {
	vb := errors.NewValidationBuilder()

	if len(s.Universe) == 0 {
		vb.RequiredField("universe")
	}
	if s.CurrentWeight < 0 || s.CurrentWeight > 100 {
		vb.InvalidField("current_weight", "must be between 0 and 100")
	}

	known := make(map[string]bool, len(s.Universe))
	for _, c := range s.Universe {
		known[c] = true
	}
	for c, w := range s.FixedWeights {
		if !known[c] {
			vb.InvalidField("fixed_weights", c+" is not part of the universe")
		}
		if w < 0 {
			vb.InvalidField("fixed_weights", c+" has a negative weight")
		}
	}
	for _, c := range s.StayWithin {
		if !known[c] {
			vb.InvalidField("stay_within", c+" is not part of the universe")
		}
	}

	return vb.Build()
}

// DefaultSettings returns the built-in terrain settings
func DefaultSettings() *Settings {
	s, err := ParseSettings(defaultSettings)
	if err != nil {
		panic("invalid embedded transition settings: " + err.Error())
	}
	return s
}

// ParseSettings reads YAML settings
func ParseSettings(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to parse transition settings")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSettings reads settings from path, or returns the defaults when path is empty
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read transition settings %s", path)
	}
	return ParseSettings(data)
}
