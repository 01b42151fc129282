// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify infers a document category from a workbook file name.
package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sheet2md/pkg/types"
)

// Rule maps a set of file-name keywords to a document category. Rules are
// evaluated in slice order; the first rule with a matching keyword wins.
type Rule struct {
	Category types.Category `yaml:"category"`
	Keywords []string       `yaml:"keywords"`
}

// DefaultRules returns the built-in keyword table. The source domain names
// workbooks in Japanese, so the vocabulary carries both Japanese and English
// keywords. Test/viewpoint keywords are checked before design/spec keywords.
func DefaultRules() []Rule {
	return []Rule{
		{Category: types.CategoryTestViewpoints, Keywords: []string{"観点", "view", "test"}},
		{Category: types.CategoryDesignSpec, Keywords: []string{"設計", "仕様", "design", "spec"}},
	}
}

// Classify maps a workbook file name to a document category by substring
// match on the lowercased file stem. It never fails; a name matching no rule
// is CategoryUnknown.
func Classify(name string, rules []Rule) types.Category {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	stem = strings.ToLower(stem)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(stem, strings.ToLower(kw)) {
				return r.Category
			}
		}
	}
	return types.CategoryUnknown
}

// LoadRules reads a rule table from a YAML file. The file holds a list of
// {category, keywords} entries evaluated in file order, replacing the
// built-in table entirely.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}
	for i, r := range rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rules file %s: rule %d has no category", path, i)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rules file %s: rule %d (%s) has no keywords", path, i, r.Category)
		}
	}
	return rules, nil
}
