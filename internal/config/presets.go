package config

import (
	"math"
	"sort"
)

var Presets = map[string]*Config{
	"rest":     withInit(InitStateConfig{Placement: PlaceDrag, Length: DefaultLength}),
	"swing":    withInit(InitStateConfig{Placement: PlaceAngle, Length: DefaultLength, Theta: 1.2}),
	"inverted": withInit(InitStateConfig{Placement: PlaceAngle, Length: DefaultLength, Theta: math.Pi - 1e-3}),
	"spin":     withInit(InitStateConfig{Placement: PlaceAngle, Length: DefaultLength, ThetaDot: 3}),
}

func withInit(st InitStateConfig) *Config {
	cfg := DefaultConfig()
	cfg.InitState = st
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
