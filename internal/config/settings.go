// Package config loads the optional .statementledger.yaml settings file.
package config

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the user configuration. Both lists filter merchants out of the
// final ledger: IgnoreMerchants holds case-insensitive glob patterns,
// IgnoreMerchantsRegex holds regular expressions.
type Settings struct {
	IgnoreMerchants      []string `yaml:"ignore_merchants"`
	IgnoreMerchantsRegex []string `yaml:"ignore_merchants_regex"`
}

// Load reads settings from path. A missing file yields empty settings; a
// present but invalid file is an error.
func Load(p string) (Settings, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("read config %s: %w", p, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse config %s: %w", p, err)
	}
	return s, nil
}

// MerchantFilter matches merchant names against the configured patterns.
type MerchantFilter struct {
	globs    []string
	patterns []*regexp.Regexp
}

// Filter compiles the settings into a matcher. Duplicate patterns are
// collapsed, keeping first position.
func (s Settings) Filter() (*MerchantFilter, error) {
	f := &MerchantFilter{}

	seen := make(map[string]bool)
	for _, g := range s.IgnoreMerchants {
		g = strings.ToUpper(strings.TrimSpace(g))
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		if _, err := path.Match(g, ""); err != nil {
			return nil, fmt.Errorf("bad ignore_merchants pattern %q: %w", g, err)
		}
		f.globs = append(f.globs, g)
	}

	for _, expr := range s.IgnoreMerchantsRegex {
		expr = strings.TrimSpace(expr)
		if expr == "" || seen[expr] {
			continue
		}
		seen[expr] = true
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("bad ignore_merchants_regex pattern %q: %w", expr, err)
		}
		f.patterns = append(f.patterns, re)
	}

	return f, nil
}

// Match reports whether the merchant is filtered out.
func (f *MerchantFilter) Match(merchant string) bool {
	if f == nil {
		return false
	}
	upper := strings.ToUpper(merchant)
	for _, g := range f.globs {
		if ok, _ := path.Match(g, upper); ok {
			return true
		}
	}
	for _, re := range f.patterns {
		if re.MatchString(merchant) {
			return true
		}
	}
	return false
}

// Empty reports whether the filter has no patterns at all.
func (f *MerchantFilter) Empty() bool {
	return f == nil || (len(f.globs) == 0 && len(f.patterns) == 0)
}
