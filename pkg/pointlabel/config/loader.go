package config

import (
	"fmt"

	"github.com/cognicore/pointlabel/pkg/pointlabel/vocab"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	ClassifierPath string
	BlacklistPath  string
}

// Components holds all loaded configuration components
type Components struct {
	Config vocab.Config
}

// Load reads all configuration files on top of vocab.DefaultConfig.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Config: vocab.DefaultConfig()}

	if l.ClassifierPath != "" {
		c, err := LoadClassifier(l.ClassifierPath)
		if err != nil {
			return nil, fmt.Errorf("load classifier config: %w", err)
		}
		comp.Config = c.Apply(comp.Config)
	}

	if l.BlacklistPath != "" {
		bl, err := LoadBlacklist(l.BlacklistPath)
		if err != nil {
			return nil, fmt.Errorf("load blacklist: %w", err)
		}
		comp.Config.EquipBlacklist = append(comp.Config.EquipBlacklist, bl.Terms...)
	}

	return comp, nil
}
