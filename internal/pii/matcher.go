package pii

// Match is one (category, matched substring) pair.
type Match struct {
	Category string
	Data     string
}

// MatchText scans a text blob against the registry and returns one Match per
// non-empty hit: rules in registry order, occurrences in match order within a
// rule. Empty matches are skipped.
func MatchText(reg *Registry, text string) []Match {
	if text == "" {
		return nil
	}

	var matches []Match
	for _, rule := range reg.Rules() {
		for _, m := range rule.Pattern.FindAllString(text, -1) {
			if m == "" {
				continue
			}
			matches = append(matches, Match{Category: rule.Name, Data: m})
		}
	}
	return matches
}
