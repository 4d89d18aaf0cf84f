package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/liadelivery/backend/internal/domain"
)

// Sales-group prefixes stripped from addition display names before matching
// ("Adicionais - Bacon" is matched as "Bacon").
var additionNamePrefixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:adicionais|adicional)\s*[-–]?\s*`),
	regexp.MustCompile(`(?i)^acr[ée]scimos?\s*[-–]?\s*`),
	regexp.MustCompile(`(?i)^extras?\s*[-–]?\s*`),
	regexp.MustCompile(`(?i)^no prato\s*[-–]?\s*`),
}

// UnmatchedAddition pairs an addition phrase that found no match with its
// best-effort suggestions.
type UnmatchedAddition struct {
	Text        string
	Suggestions []string
}

// AdditionMatcher resolves addition phrases against a matched product's own
// additions. The scope is strict: an addition belonging to another product is
// never considered, whatever its similarity.
type AdditionMatcher struct {
	config MatcherConfig
}

// NewAdditionMatcher creates a new addition matcher
func NewAdditionMatcher(config MatcherConfig) *AdditionMatcher {
	return &AdditionMatcher{config: config.withDefaults()}
}

// MatchOne finds the addition closest to the text within the product's
// available additions: exact fingerprint first, then token-sort fuzzy above
// the addition threshold. Products with no additions fail immediately with
// no suggestions.
func (m *AdditionMatcher) MatchOne(additionText string, product *domain.MatchedProduct) (*domain.MatchedAddition, []string) {
	additions := product.AvailableAdditions
	if len(additions) == 0 {
		if m.config.EnableDebugLogging {
			log.Printf("[ADDITION] product %q has no additions", product.DisplayName)
		}
		return nil, nil
	}

	if entry := exactAdditionMatch(additionText, additions); entry != nil {
		return toMatchedAddition(*entry, exactMatchScore), nil
	}

	entry, score, suggestions := m.fuzzyAdditionMatch(additionText, additions)
	if entry != nil {
		if m.config.EnableDebugLogging {
			log.Printf("[ADDITION] fuzzy: %q -> %q (%.0f)", additionText, entry.DisplayName, score)
		}
		return toMatchedAddition(*entry, score), suggestions
	}

	return nil, suggestions
}

// MatchAll resolves every addition phrase, pairing each failure with its
// suggestions.
func (m *AdditionMatcher) MatchAll(additionTexts []string, product *domain.MatchedProduct) ([]domain.MatchedAddition, []UnmatchedAddition) {
	var matched []domain.MatchedAddition
	var unmatched []UnmatchedAddition

	for _, text := range additionTexts {
		add, suggestions := m.MatchOne(text, product)
		if add != nil {
			matched = append(matched, *add)
		} else {
			unmatched = append(unmatched, UnmatchedAddition{Text: text, Suggestions: suggestions})
		}
	}

	return matched, unmatched
}

func toMatchedAddition(entry domain.CatalogEntry, score float64) *domain.MatchedAddition {
	return &domain.MatchedAddition{
		PDV:         entry.PDV,
		DisplayName: cleanAdditionName(entry.DisplayName),
		UnitPrice:   entry.UnitPrice,
		Quantity:    1,
		MatchScore:  score,
	}
}

// exactAdditionMatch compares the query fingerprint against the stored
// fingerprint and against the fingerprint of the prefix-cleaned display name.
func exactAdditionMatch(text string, additions []domain.CatalogEntry) *domain.CatalogEntry {
	fp := Fingerprint(text)
	for i := range additions {
		if additions[i].Fingerprint != "" && additions[i].Fingerprint == fp {
			return &additions[i]
		}
		if Fingerprint(cleanAdditionName(additions[i].DisplayName)) == fp {
			return &additions[i]
		}
	}
	return nil
}

func (m *AdditionMatcher) fuzzyAdditionMatch(text string, additions []domain.CatalogEntry) (*domain.CatalogEntry, float64, []string) {
	cleanNames := make([]string, len(additions))
	for i, a := range additions {
		cleanNames[i] = cleanAdditionName(a.DisplayName)
	}

	ranked := rankByTokenSortRatio(text, cleanNames)
	if len(ranked) == 0 {
		return nil, 0, nil
	}

	best := ranked[0]

	var suggestions []string
	for _, cand := range ranked[1:] {
		if len(suggestions) == maxAdditionSuggestions {
			break
		}
		if cand.score >= m.config.SuggestionThreshold {
			suggestions = append(suggestions, cand.name)
		}
	}

	if best.score >= m.config.AdditionFuzzyThreshold {
		return &additions[best.index], best.score, suggestions
	}

	if best.name != "" && !containsString(suggestions, best.name) {
		suggestions = append([]string{best.name}, suggestions...)
	}
	if len(suggestions) > maxAdditionSuggestions {
		suggestions = suggestions[:maxAdditionSuggestions]
	}
	return nil, best.score, suggestions
}

// cleanAdditionName strips the sales-group prefixes from an addition display
// name.
func cleanAdditionName(name string) string {
	result := name
	for _, p := range additionNamePrefixPatterns {
		result = p.ReplaceAllString(result, "")
	}
	return strings.TrimSpace(result)
}
