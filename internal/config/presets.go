package config

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/rulial/internal/enumerate"
)

// Presets are named signatures with a step limit suited to their size.
var Presets = map[string]*Config{
	"tiny": {
		Signature: enumerate.Signature{States: 1, Symbols: 2}, Steps: 10, Policy: "halt",
	},
	"binary": {
		Signature: enumerate.Signature{States: 2, Symbols: 1}, Steps: 10, Policy: "halt",
	},
	"wide": {
		Signature: enumerate.Signature{States: 1, Symbols: 3}, Steps: 8, Policy: "halt",
	},
	"ring": {
		Signature: enumerate.Signature{States: 1, Symbols: 2}, Steps: 150, Policy: "wrap",
	},
	"square": {
		Signature: enumerate.Signature{States: 2, Symbols: 2}, Steps: 4, Policy: "halt",
	},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset copies the preset's signature, steps and policy into c.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return errors.Wrapf(ErrUnknownPreset, "%q (available: %v)", name, ListPresets())
	}
	c.Signature = p.Signature
	c.Steps = p.Steps
	c.Policy = p.Policy
	return nil
}
