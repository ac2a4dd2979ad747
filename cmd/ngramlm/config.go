package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ngramlm "github.com/krypt0nn/markov-chains"
)

// genParamsConfig is the YAML-loadable shape of GenParams (SPEC_FULL.md §2:
// "--config" file). Zero-valued fields are left alone by applyTo, so a
// partial file only overrides the options it mentions. "model load" applies
// it after the command-line flags, so a value the file sets wins over the
// same flag given on the command line.
type genParamsConfig struct {
	KNormal             *float64 `yaml:"k_normal"`
	Temperature         *float64 `yaml:"temperature"`
	TemperatureAlpha    *float64 `yaml:"temperature_alpha"`
	RepeatPenalty       *float64 `yaml:"repeat_penalty"`
	RepeatPenaltyWindow *int     `yaml:"repeat_penalty_window"`
	MaxLen              *int     `yaml:"max_len"`
	MinLen              *int     `yaml:"min_len"`
	Smoothing           *string  `yaml:"smoothing"`
	DisableBigram       *bool    `yaml:"disable_bigram"`
	DisableTrigram      *bool    `yaml:"disable_trigram"`
	EndWeight           *float64 `yaml:"end_weight"`
	EndHeight           *int     `yaml:"end_height"`
	ForceBreakLen       *int     `yaml:"force_break_len"`
	ContextWindow       *int     `yaml:"context_window"`
}

// loadGenParamsConfig reads a YAML defaults file at path, or returns a zero
// config if path is empty.
func loadGenParamsConfig(path string) (genParamsConfig, error) {
	var cfg genParamsConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyTo overlays every field cfg sets onto params.
func (cfg genParamsConfig) applyTo(params *ngramlm.GenParams) error {
	if cfg.KNormal != nil {
		params.KNormal = *cfg.KNormal
	}
	if cfg.Temperature != nil {
		params.Temperature = *cfg.Temperature
	}
	if cfg.TemperatureAlpha != nil {
		params.TemperatureAlpha = *cfg.TemperatureAlpha
	}
	if cfg.RepeatPenalty != nil {
		params.RepeatPenalty = *cfg.RepeatPenalty
	}
	if cfg.RepeatPenaltyWindow != nil {
		params.RepeatPenaltyWindow = *cfg.RepeatPenaltyWindow
	}
	if cfg.MaxLen != nil {
		params.MaxLen = *cfg.MaxLen
	}
	if cfg.MinLen != nil {
		params.MinLen = *cfg.MinLen
	}
	if cfg.DisableBigram != nil {
		params.DisableBigram = *cfg.DisableBigram
	}
	if cfg.DisableTrigram != nil {
		params.DisableTrigram = *cfg.DisableTrigram
	}
	if cfg.EndWeight != nil {
		params.EndWeight = *cfg.EndWeight
	}
	if cfg.EndHeight != nil {
		params.EndHeight = *cfg.EndHeight
	}
	if cfg.ForceBreakLen != nil {
		params.ForceBreakLen = *cfg.ForceBreakLen
	}
	if cfg.ContextWindow != nil {
		params.ContextWindow = *cfg.ContextWindow
	}
	if cfg.Smoothing != nil {
		switch *cfg.Smoothing {
		case "", "none":
			params.Smoothing = ngramlm.NoSmoothing
		case "absolute_discounting":
			params.Smoothing = ngramlm.SmoothingAbsoluteDiscounting
		case "kneser_ney":
			params.Smoothing = ngramlm.SmoothingKneserNey
		default:
			return fmt.Errorf("unknown smoothing %q", *cfg.Smoothing)
		}
	}
	return nil
}
