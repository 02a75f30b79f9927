// Package pii matches text against a registry of named PII patterns.
//
// Matching is purely pattern-based: no semantic understanding is attempted,
// and permissive categories such as national_id are expected to produce false
// positives by design of the calling layer.
package pii

import (
	"fmt"
	"regexp"
)

// Rule is a single named detection pattern.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Registry is an ordered, immutable set of detection rules. It is built once
// at startup and safe for concurrent use.
type Registry struct {
	rules []Rule
}

// Category names of the built-in rules.
const (
	CategoryEmail      = "email"
	CategoryPhone      = "phone"
	CategoryPostcode   = "postcode"
	CategoryNationalID = "national_id"
	CategoryAddress    = "address"
)

// defaultPatterns lists the built-in rules in registry order.
var defaultPatterns = []struct {
	name    string
	pattern string
}{
	// RFC 5322-ish: dotted or quoted local part, domain or bracketed IP literal.
	{CategoryEmail, `(?:[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*|"(?:[\x01-\x08\x0b\x0c\x0e-\x1f\x21\x23-\x5b\x5d-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])*")@(?:(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z0-9](?:[a-z0-9-]*[a-z0-9])?|\[(?:(?:(2(5[0-5]|[0-4][0-9])|1[0-9][0-9]|[1-9]?[0-9]))\.){3}(?:(2(5[0-5]|[0-4][0-9])|1[0-9][0-9]|[1-9]?[0-9])|[a-z0-9-]*[a-z0-9]:(?:[\x01-\x08\x0b\x0c\x0e-\x1f\x21-\x5a\x53-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])+)\])`},
	// Dutch mobile numbers: +31/0031/0 prefix, mobile 6, eight more digits
	// with optional spacing or hyphens.
	{CategoryPhone, `\(?([+]31|0031|0)\s?-?6(\s?|-)([0-9]\s{0,3}){8}`},
	// Dutch postcode: four digits, optional space, two letters.
	{CategoryPostcode, `(\d{4}\s?[a-zA-Z]{2})`},
	// Bare nine-digit sequence (BSN-shaped). Intentionally permissive.
	{CategoryNationalID, `\d{9}`},
	// House number + two words + comma + word + five-digit code.
	{CategoryAddress, `\d{1,5}\s\w+\s\w+,\s\w+\s\d{5}`},
}

// NewDefaultRegistry builds the registry of built-in rules.
func NewDefaultRegistry() *Registry {
	rules := make([]Rule, 0, len(defaultPatterns))
	for _, p := range defaultPatterns {
		rules = append(rules, Rule{Name: p.name, Pattern: regexp.MustCompile(p.pattern)})
	}
	return &Registry{rules: rules}
}

// NewRegistry compiles an ordered rule set from name/pattern pairs. A pattern
// that fails to compile makes the whole registry construction fail; this is a
// startup-time condition, never a per-document one.
func NewRegistry(patterns []struct{ Name, Pattern string }) (*Registry, error) {
	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", p.Name, err)
		}
		rules = append(rules, Rule{Name: p.Name, Pattern: re})
	}
	return &Registry{rules: rules}, nil
}

// WithRule returns a new registry with an additional rule appended. The
// receiver is not modified.
func (r *Registry) WithRule(name, pattern string) (*Registry, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", name, err)
	}
	rules := make([]Rule, len(r.rules), len(r.rules)+1)
	copy(rules, r.rules)
	rules = append(rules, Rule{Name: name, Pattern: re})
	return &Registry{rules: rules}, nil
}

// Rules returns the rules in registry order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	return len(r.rules)
}
