package labspec

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadFromFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func validate(s *Suite) error {
	if len(s.Probes) == 0 {
		s.Probes = Default().Probes
	}
	for i, p := range s.Probes {
		if p.Path == "" {
			return fmt.Errorf("probe at index %d has no path", i)
		}
		switch strings.ToUpper(p.Method) {
		case "", "GET":
			s.Probes[i].Method = "GET"
		case "POST":
			s.Probes[i].Method = "POST"
		default:
			return fmt.Errorf("probe %q has unsupported method %q", p.Path, p.Method)
		}
	}

	if len(s.Cases) == 0 {
		s.Cases = Default().Cases
	}
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("case at index %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate case name %q", c.Name)
		}
		seen[c.Name] = true
	}

	if s.Benchmark.Path == "" {
		s.Benchmark.Path = DefaultScorePath
	}
	if s.Benchmark.Payload == (ScorePayload{}) {
		s.Benchmark.Payload = Default().Benchmark.Payload
	}

	return nil
}
