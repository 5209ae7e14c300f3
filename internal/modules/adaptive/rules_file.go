package adaptive

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadStopRules reads threshold overrides from a YAML file. Missing keys keep their defaults;
// an empty path returns the defaults.
//
//	stop_rules:
//	  consecutive_easy_failures: 3
//	  max_questions: 12
func LoadStopRules(path string) (StopRules, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultStopRules(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return StopRules{}, fmt.Errorf("read rules file: %w", err)
	}
	return ParseStopRules(raw)
}

func ParseStopRules(raw []byte) (StopRules, error) {
	var doc struct {
		StopRules StopRules `yaml:"stop_rules"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return StopRules{}, fmt.Errorf("parse rules file: %w", err)
	}
	r := doc.StopRules.withDefaults()
	if r.EarlyHardFailures > r.EarlyHardWindow {
		return StopRules{}, fmt.Errorf("early_hard_failures (%d) exceeds early_hard_window (%d)", r.EarlyHardFailures, r.EarlyHardWindow)
	}
	return r, nil
}
