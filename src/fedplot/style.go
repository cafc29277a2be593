package fedplot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/orr"
)

// StyleOverride is a partial style. Empty fields leave the base style
// alone, so overrides compose field by field.
type StyleOverride struct {
	Color string `yaml:"color,omitempty"`
	Dash  string `yaml:"dash,omitempty"`
}

// FormatRule restyles any diagram whose non-bulk rows all carry the
// given column values. An empty Match matches every diagram, which
// sets a base style ahead of more specific rules.
type FormatRule struct {
	Match map[string]string `yaml:"match"`
	Style StyleOverride     `yaml:"style"`
}

func (f FormatRule) matches(rows []dataset.Row) bool {
	for col, want := range f.Match {
		if !columnPresent(rows, col) {
			dataset.Warnf("style rule column %q not present in table", col)
			return false
		}
		for _, r := range rows {
			if r.Adsorbate == orr.StateBulk {
				continue
			}
			if r.Prop(col) != want {
				return false
			}
		}
	}
	return true
}

// columnPresent reports whether any row carries the column. Canonical
// field-backed columns always exist.
func columnPresent(rows []dataset.Row, col string) bool {
	switch col {
	case dataset.ColAdsorbate, dataset.ColSite, dataset.ColEnergy,
		dataset.ColElectronic, dataset.ColCorrection:
		return true
	}
	for _, r := range rows {
		if _, ok := r.Props[col]; ok {
			return true
		}
	}
	return false
}

// ApplyRules folds the rules in order over a diagram's rows: each
// matching rule overrides previously set fields, so on conflicts the
// last matching rule wins.
func ApplyRules(rules []FormatRule, rows []dataset.Row) StyleOverride {
	var out StyleOverride
	for _, rule := range rules {
		if !rule.matches(rows) {
			continue
		}
		if rule.Style.Color != "" {
			out.Color = rule.Style.Color
		}
		if rule.Style.Dash != "" {
			out.Dash = rule.Style.Dash
		}
	}
	return out
}

// LayoutOverrides are the layout fields the style file may replace.
type LayoutOverrides struct {
	Title  string `yaml:"title,omitempty"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

// StyleConfig is the on-disk styling file: ordered format rules, an
// optional group color palette, and optional layout tweaks.
type StyleConfig struct {
	Rules  []FormatRule    `yaml:"rules"`
	Colors []string        `yaml:"colors,omitempty"`
	Layout LayoutOverrides `yaml:"layout"`
}

// LoadStyleConfig reads and parses a YAML style file.
func LoadStyleConfig(path string) (StyleConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return StyleConfig{}, err
	}
	var cfg StyleConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return StyleConfig{}, fmt.Errorf("parse style config %s: %w", path, err)
	}
	return cfg, nil
}

// Apply folds the overrides into a layout.
func (o LayoutOverrides) Apply(l Layout) Layout {
	if o.Title != "" {
		l.Title = o.Title
	}
	if o.Width > 0 {
		l.Width = o.Width
	}
	if o.Height > 0 {
		l.Height = o.Height
	}
	return l
}
