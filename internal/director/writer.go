package director

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteScript writes a script to a YAML file
func WriteScript(script *Script, path string) error {
	data, err := yaml.Marshal(script)
	if err != nil {
		return fmt.Errorf("encode script: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}

// ReadScript reads a script and rejects one without keyframes or with
// keyframes out of time order, since SampleAt relies on both.
func ReadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("decode script %s: %w", path, err)
	}
	if len(script.Keyframes) == 0 {
		return nil, fmt.Errorf("script %s has no keyframes", path)
	}
	for i := 1; i < len(script.Keyframes); i++ {
		if script.Keyframes[i].Time < script.Keyframes[i-1].Time {
			return nil, fmt.Errorf("script %s: keyframe %d at %gs is before keyframe %d at %gs",
				path, i, script.Keyframes[i].Time, i-1, script.Keyframes[i-1].Time)
		}
	}

	return &script, nil
}
