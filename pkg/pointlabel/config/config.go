package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/pointlabel/pkg/pointlabel/internalerr"
	"github.com/cognicore/pointlabel/pkg/pointlabel/vocab"
)

// Classifier represents the classifier configuration file. Every field is
// optional; an absent field keeps the default.
type Classifier struct {
	Thresholds ThresholdOverrides `yaml:"thresholds"`
	Seeds      Seeds              `yaml:"seeds"`

	IOTypes             []string `yaml:"io_types"`
	VendorHints         []string `yaml:"vendor_hints"`
	EquipStopwords      []string `yaml:"equip_stopwords"`
	EquipBlacklist      []string `yaml:"equip_blacklist"`
	FunctionStems       []string `yaml:"function_stems"`
	StateWords          []string `yaml:"state_words"`
	MeasurementKeywords []string `yaml:"measurement_keywords"`
}

// ThresholdOverrides holds the thresholds set in the file.
type ThresholdOverrides struct {
	MinFrequency         *int64 `yaml:"min_frequency"`
	MinBuildings         *int64 `yaml:"min_buildings"`
	MinNumericSuccession *int64 `yaml:"min_numeric_succession"`
	MaxEquipSize         *int   `yaml:"max_equip_size"`
	MinSubcompScore      *int64 `yaml:"min_subcomp_score"`
	MinPointFuncScore    *int64 `yaml:"min_point_func_score"`
}

// Seeds replaces the seed lists of the inducible vocabularies.
type Seeds struct {
	Equip     []string `yaml:"equip"`
	Subcomp   []string `yaml:"subcomp"`
	PointFunc []string `yaml:"point_func"`
}

// LoadClassifier loads classifier overrides from a YAML file
func LoadClassifier(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Classifier
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	if err := c.Thresholds.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	return &c, nil
}

func (t ThresholdOverrides) validate() error {
	for name, v := range map[string]*int64{
		"min_frequency":          t.MinFrequency,
		"min_buildings":          t.MinBuildings,
		"min_numeric_succession": t.MinNumericSuccession,
		"min_subcomp_score":      t.MinSubcompScore,
		"min_point_func_score":   t.MinPointFuncScore,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if t.MaxEquipSize != nil && *t.MaxEquipSize <= 0 {
		return fmt.Errorf("max_equip_size must be positive")
	}
	return nil
}

// Apply returns base with the file's overrides applied.
func (c *Classifier) Apply(base vocab.Config) vocab.Config {
	out := base
	th := &out.Thresholds
	if v := c.Thresholds.MinFrequency; v != nil {
		th.MinFrequency = *v
	}
	if v := c.Thresholds.MinBuildings; v != nil {
		th.MinBuildings = *v
	}
	if v := c.Thresholds.MinNumericSuccession; v != nil {
		th.MinNumericSuccession = *v
	}
	if v := c.Thresholds.MaxEquipSize; v != nil {
		th.MaxEquipSize = *v
	}
	if v := c.Thresholds.MinSubcompScore; v != nil {
		th.MinSubcompScore = *v
	}
	if v := c.Thresholds.MinPointFuncScore; v != nil {
		th.MinPointFuncScore = *v
	}

	replace(&out.SeedEquip, c.Seeds.Equip)
	replace(&out.SeedSubcomp, c.Seeds.Subcomp)
	replace(&out.SeedPointFunc, c.Seeds.PointFunc)
	replace(&out.IOTypes, c.IOTypes)
	replace(&out.VendorHints, c.VendorHints)
	replace(&out.EquipStopwords, c.EquipStopwords)
	replace(&out.FunctionStems, c.FunctionStems)
	replace(&out.StateWords, c.StateWords)
	replace(&out.MeasurementKeywords, c.MeasurementKeywords)

	if len(c.EquipBlacklist) > 0 {
		out.EquipBlacklist = append(append([]string(nil), base.EquipBlacklist...), c.EquipBlacklist...)
	}
	return out
}

func replace(dst *[]string, src []string) {
	if src != nil {
		*dst = append([]string(nil), src...)
	}
}

// Blacklist represents an equipment blacklist file
type Blacklist struct {
	Terms []string `yaml:"terms"`
}

// LoadBlacklist loads blacklisted equipment tokens from a YAML file
func LoadBlacklist(path string) (*Blacklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var bl Blacklist
	if err := yaml.Unmarshal(data, &bl); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	return &bl, nil
}
