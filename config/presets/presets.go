// Package presets contains named configurations that a config file can build on.
package presets

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spacemeshos/go-governance/config"
)

var presets = map[string]config.Config{}

func register(name string, conf config.Config) {
	if _, exist := presets[name]; exist {
		panic(fmt.Sprintf("preset with name %s already exists", name))
	}
	conf.Preset = name
	presets[name] = conf
}

// Options returns names of the registered presets.
func Options() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Get a preset by name.
func Get(name string) (config.Config, error) {
	conf, exist := presets[name]
	if !exist {
		return config.Config{}, fmt.Errorf("preset %s is not registered, options: %v", name, Options())
	}
	return conf, nil
}
