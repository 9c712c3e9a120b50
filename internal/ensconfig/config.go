// Package ensconfig loads the threshold/weight configuration consumed by
// the classifier driver (C1), the collection aggregator (C2) and the
// ensemble decider (C3). A YAML override file is unmarshaled into a
// copy of the defaults, so any field the file omits keeps its default
// value.
package ensconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// C1Config configures the classifier driver.
type C1Config struct {
	Lids                       []string `yaml:"lids"`
	MinimalTextLength          int      `yaml:"minimal_text_length"`
	AlphabeticalRatioThreshold float64  `yaml:"alphabetical_ratio_threshold"`
	RoundNDigits               int      `yaml:"round_ndigits"`

	// LangdetectDefaultLangs are the languages for which langdetect's
	// seeded re-draw loop may stop early once a draw exceeds
	// LangdetectEarlyStopProb.
	LangdetectDefaultLangs  []string `yaml:"langdetect_default_langs"`
	LangdetectEarlyStopProb float64  `yaml:"langdetect_early_stop_prob"`
	LangdetectSeed          int64    `yaml:"langdetect_seed"`
	LangdetectRedraws       int      `yaml:"langdetect_redraws"`
}

// C2Config configures the collection aggregator.
type C2Config struct {
	Lids                 []string `yaml:"lids"`
	AdmissibleLanguages   []string `yaml:"admissible_languages"`
	BoostedLids           []string `yaml:"boosted_lids"`
	BoostFactor           float64  `yaml:"boost_factor"`
	MinimalLidProbability float64  `yaml:"minimal_lid_probability"`
	MinimalVoteScore      float64  `yaml:"minimal_vote_score"`
	MinimalTextLength     int      `yaml:"minimal_text_length"`
	RoundNDigits          int      `yaml:"round_ndigits"`
}

// C3Config configures the ensemble decider.
type C3Config struct {
	Lids                        []string `yaml:"lids"`
	AdmissibleLanguages         []string `yaml:"admissible_languages"`
	ExcludeLb                   []string `yaml:"exclude_lb"`
	WeightLbImpressoFt          float64  `yaml:"weight_lb_impresso_ft"`
	MinimalLidProbability       float64  `yaml:"minimal_lid_probability"`
	MinimalVotingScore          float64  `yaml:"minimal_voting_score"`
	MinimalTextLength           int      `yaml:"minimal_text_length"`
	ThresholdConfidenceOrigLg   float64  `yaml:"threshold_confidence_orig_lg"`
	AlphabeticalRatioThreshold  float64  `yaml:"alphabetical_ratio_threshold"`
	DominantLanguageThreshold   float64  `yaml:"dominant_language_threshold"`
	RoundNDigits                int      `yaml:"round_ndigits"`
}

// Config bundles the three components' configuration so a single YAML
// file can hold overrides for all of them.
type Config struct {
	C1 C1Config `yaml:"c1"`
	C2 C2Config `yaml:"c2"`
	C3 C3Config `yaml:"c3"`
}

const defaultImprFastText = "impresso_ft"

// defaultLids is the classifier name set the default config enables.
var defaultLids = []string{"langdetect", "langid", defaultImprFastText, "wp_ft", "lingua"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		C1: C1Config{
			Lids:                       append([]string(nil), defaultLids...),
			MinimalTextLength:          20,
			AlphabeticalRatioThreshold: 0.5,
			RoundNDigits:               3,
			LangdetectDefaultLangs:     []string{"de", "fr", "en", "it"},
			LangdetectEarlyStopProb:    0.95,
			LangdetectSeed:             42,
			LangdetectRedraws:          3,
		},
		C2: C2Config{
			Lids:                  append([]string(nil), defaultLids...),
			BoostedLids:           []string{defaultImprFastText},
			BoostFactor:           1.5,
			MinimalLidProbability: 0.25,
			MinimalVoteScore:      0.5,
			MinimalTextLength:     200,
			RoundNDigits:          3,
		},
		C3: C3Config{
			Lids:                       append([]string(nil), defaultLids...),
			ExcludeLb:                  nil,
			WeightLbImpressoFt:         3,
			MinimalLidProbability:      0.5,
			MinimalVotingScore:         0.5,
			MinimalTextLength:          20,
			ThresholdConfidenceOrigLg:  0.75,
			AlphabeticalRatioThreshold: 0.5,
			DominantLanguageThreshold:  0.90,
			RoundNDigits:               3,
		},
	}
}

// Load reads a YAML file at path and unmarshals it into a copy of
// DefaultConfig, so omitted fields keep their defaults. An empty path
// returns DefaultConfig() unchanged.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ensconfig: read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ensconfig: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects a configuration with no classifiers in any of the
// three components: run to completion on an empty lids set would
// silently produce degenerate output instead of failing at startup.
func (c *Config) validate() error {
	switch {
	case len(c.C1.Lids) == 0:
		return &types.ExitError{Code: 2, Message: "ensconfig: c1.lids is empty, no classifiers configured"}
	case len(c.C2.Lids) == 0:
		return &types.ExitError{Code: 2, Message: "ensconfig: c2.lids is empty, no classifiers configured"}
	case len(c.C3.Lids) == 0:
		return &types.ExitError{Code: 2, Message: "ensconfig: c3.lids is empty, no classifiers configured"}
	}
	return nil
}
