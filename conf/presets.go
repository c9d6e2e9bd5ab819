package conf

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/edustage/backend/actsrvc"
)

// ActivityPreset is a named scoring configuration that activity creators
// can start from: weights, judging criteria and the expert scale.
type ActivityPreset struct {
	Name           string                    `toml:"name"`
	Weights        actsrvc.ScoreWeights      `toml:"weights"`
	ExpertScaleMax float64                   `toml:"expert_scale_max"`
	Criteria       []actsrvc.ExpertCriterion `toml:"criteria"`
}

type presetFile struct {
	Presets []ActivityPreset `toml:"presets"`
}

// LoadActivityPresets reads scoring presets from a TOML file.
func LoadActivityPresets(path string) ([]ActivityPreset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets file: %w", err)
	}

	var parsed presetFile
	if err := toml.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("parsing presets file: %w", err)
	}

	for _, preset := range parsed.Presets {
		if preset.Name == "" {
			return nil, fmt.Errorf("preset without a name")
		}
	}

	return parsed.Presets, nil
}
