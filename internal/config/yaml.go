package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML config. Unknown keys are rejected so typos
// surface instead of silently falling back to defaults.
func ParseYAML(data []byte) (Game, error) {
	var raw rawGame
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Game{}, fmt.Errorf("parse YAML: %w", err)
	}
	return raw.resolve()
}
