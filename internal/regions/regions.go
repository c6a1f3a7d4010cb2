// Package regions maps free-text body-part labels onto a fixed set of coarse
// body regions.
//
// Classification is a first-match substring scan over an ordered keyword
// table. Table order is part of the observable behavior: "kidney" is checked
// before "kidney_left", so the more specific key never decides anything.
// Both map to the same region today; keep new keys consistent with that or
// place them ahead of the broader keys they overlap with.
package regions

import (
	"fmt"
	"strings"
)

// Region is a coarse body-location bucket.
type Region string

// Regions of the default table.
const (
	Head    Region = "head"
	Arms    Region = "arms"
	Chest   Region = "chest"
	Back    Region = "back"
	Stomach Region = "stomach"
	Legs    Region = "legs"
	Feet    Region = "feet"
)

// GeneralKey is the classification text used when an item names no body part.
const GeneralKey = "general"

// Rule maps a lowercase keyword to a region.
type Rule struct {
	Keyword string
	Region  Region
}

// Table is an ordered keyword table with a designated fallback region.
// A Table is immutable after construction and safe for concurrent use.
type Table struct {
	regions  []Region
	rules    []Rule
	fallback Region
}

// NewTable builds a table. Every rule region and the fallback must be one of
// regions, keywords must be non-empty, and regions must not repeat.
func NewTable(regions []Region, rules []Rule, fallback Region) (*Table, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("region set is empty")
	}
	known := make(map[Region]struct{}, len(regions))
	for _, r := range regions {
		if _, dup := known[r]; dup {
			return nil, fmt.Errorf("duplicate region %q", r)
		}
		known[r] = struct{}{}
	}
	if _, ok := known[fallback]; !ok {
		return nil, fmt.Errorf("fallback region %q is not in the region set", fallback)
	}

	normalized := make([]Rule, 0, len(rules))
	for i, rule := range rules {
		kw := strings.ToLower(rule.Keyword)
		if kw == "" {
			return nil, fmt.Errorf("rule %d has an empty keyword", i)
		}
		if _, ok := known[rule.Region]; !ok {
			return nil, fmt.Errorf("rule %q maps to unknown region %q", rule.Keyword, rule.Region)
		}
		normalized = append(normalized, Rule{Keyword: kw, Region: rule.Region})
	}

	return &Table{
		regions:  append([]Region(nil), regions...),
		rules:    normalized,
		fallback: fallback,
	}, nil
}

// MustNewTable is like NewTable but panics on error.
func MustNewTable(regions []Region, rules []Rule, fallback Region) *Table {
	t, err := NewTable(regions, rules, fallback)
	if err != nil {
		panic(err)
	}
	return t
}

// ToRegion classifies text. Empty text is treated as GeneralKey. The first
// rule whose keyword occurs anywhere in the lower-cased text wins; when none
// matches the fallback region is returned.
func (t *Table) ToRegion(text string) Region {
	if text == "" {
		text = GeneralKey
	}
	lowered := strings.ToLower(text)
	for _, rule := range t.rules {
		if strings.Contains(lowered, rule.Keyword) {
			return rule.Region
		}
	}
	return t.fallback
}

// Regions returns the region set in display order.
func (t *Table) Regions() []Region {
	return append([]Region(nil), t.regions...)
}

// Rules returns the rules in scan order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Fallback returns the region used when no keyword matches.
func (t *Table) Fallback() Region {
	return t.fallback
}
