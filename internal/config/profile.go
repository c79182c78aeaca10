package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
)

// LoadProfile reads a YAML column profile. Fields left out keep their
// default labels; an explicit empty stage list disables the stage columns.
//
//	finished: FINALIZADO
//	total: TEMPO_TOTAL
//	location: LUGAR
//	stages:
//	  - label: AGUARDANDO_LIMPEZA_51
//	    title: Aguardando limpeza
func LoadProfile(path string) (analysis.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.Profile{}, fmt.Errorf("profile: read file: %w", err)
	}
	return parseProfile(data)
}

func parseProfile(data []byte) (analysis.Profile, error) {
	p := analysis.DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return analysis.Profile{}, fmt.Errorf("profile: parse yaml: %w", err)
	}

	if err := validateProfile(p); err != nil {
		return analysis.Profile{}, fmt.Errorf("profile: %w", err)
	}
	return p, nil
}

func validateProfile(p analysis.Profile) error {
	if p.Finished == "" || p.Total == "" || p.Location == "" {
		return fmt.Errorf("finished, total and location columns must be non-empty")
	}

	seen := make(map[string]bool)
	for _, label := range append(p.Required(), stageLabels(p)...) {
		key := analysis.NormalizeHeader(label)
		if key == "" {
			return fmt.Errorf("stage label must be non-empty")
		}
		if seen[key] {
			return fmt.Errorf("column %q is mapped twice", key)
		}
		seen[key] = true
	}
	return nil
}

func stageLabels(p analysis.Profile) []string {
	out := make([]string, 0, len(p.Stages))
	for _, s := range p.Stages {
		out = append(out, s.Label)
	}
	return out
}
