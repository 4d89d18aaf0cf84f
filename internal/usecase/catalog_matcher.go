package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/liadelivery/backend/internal/domain"
)

// Fixed tier scores
const (
	exactMatchScore     = 100.0
	substringMatchScore = 85.0
)

// Default thresholds; all tunable through MatcherConfig
const (
	defaultProductFuzzyThreshold  = 75.0
	defaultAdditionFuzzyThreshold = 70.0
	defaultSuggestionThreshold    = 50.0
)

// Suggestion caps
const (
	maxProductSuggestions  = 3
	maxAdditionSuggestions = 2
)

// MatcherConfig holds the tunable thresholds for catalog and addition
// matching. The addition threshold is lower than the product one: addition
// names are shorter, so the same typo costs more ratio points.
type MatcherConfig struct {
	ProductFuzzyThreshold  float64
	AdditionFuzzyThreshold float64
	SuggestionThreshold    float64
	EnableDebugLogging     bool
}

// withDefaults fills unset thresholds the way the service expects them.
func (c MatcherConfig) withDefaults() MatcherConfig {
	if c.ProductFuzzyThreshold <= 0 {
		c.ProductFuzzyThreshold = defaultProductFuzzyThreshold
	}
	if c.AdditionFuzzyThreshold <= 0 {
		c.AdditionFuzzyThreshold = defaultAdditionFuzzyThreshold
	}
	if c.SuggestionThreshold <= 0 {
		c.SuggestionThreshold = defaultSuggestionThreshold
	}
	return c
}

// catalogSnapshot is an immutable view of the menu index, grouped for
// matching. Replaced wholesale on reload, never mutated in place.
type catalogSnapshot struct {
	products          []domain.CatalogEntry
	additionsByParent map[string][]domain.CatalogEntry
}

// CatalogMatcher finds the catalog product closest to a normalized query
// using a three-tier strategy: exact fingerprint, substring fingerprint,
// token-sort fuzzy similarity. It holds a lazily loaded snapshot of the
// index; concurrent Match calls are safe, and a race during the first load
// costs at most one redundant fetch.
type CatalogMatcher struct {
	repo   domain.CatalogRepository
	config MatcherConfig

	mu       sync.RWMutex
	snapshot *catalogSnapshot
}

// NewCatalogMatcher creates a catalog matcher backed by the given index
// repository.
func NewCatalogMatcher(repo domain.CatalogRepository, config MatcherConfig) *CatalogMatcher {
	return &CatalogMatcher{
		repo:   repo,
		config: config.withDefaults(),
	}
}

// ClearCache drops the catalog snapshot; the next Match reloads the index.
// Call after a catalog sync.
func (m *CatalogMatcher) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
}

// loadSnapshot returns the current snapshot, fetching the index on first use.
func (m *CatalogMatcher) loadSnapshot(ctx context.Context) (*catalogSnapshot, error) {
	m.mu.RLock()
	snap := m.snapshot
	m.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	entries, err := m.repo.FetchIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	snap = buildSnapshot(entries)

	m.mu.Lock()
	if m.snapshot == nil {
		m.snapshot = snap
	} else {
		snap = m.snapshot
	}
	m.mu.Unlock()

	return snap, nil
}

func buildSnapshot(entries []domain.CatalogEntry) *catalogSnapshot {
	snap := &catalogSnapshot{
		additionsByParent: make(map[string][]domain.CatalogEntry),
	}
	for _, e := range entries {
		if e.IsProduct() {
			snap.products = append(snap.products, e)
		} else {
			snap.additionsByParent[e.ParentPDV] = append(snap.additionsByParent[e.ParentPDV], e)
		}
	}
	return snap
}

// Match finds the best catalog product for a normalized query. Returns the
// match (nil when nothing clears the fuzzy threshold) and up to three
// suggestion names from the fuzzy ranking.
func (m *CatalogMatcher) Match(ctx context.Context, productQuery string) (*domain.MatchedProduct, []string, error) {
	snap, err := m.loadSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	if len(snap.products) == 0 {
		log.Printf("[MATCH] catalog has no products; query %q unmatched", productQuery)
		return nil, nil, nil
	}

	// Tier 1: exact fingerprint
	if entry := exactProductMatch(productQuery, snap.products); entry != nil {
		if m.config.EnableDebugLogging {
			log.Printf("[MATCH] exact: %q -> %q", productQuery, entry.DisplayName)
		}
		return m.toMatchedProduct(snap, *entry, exactMatchScore), nil, nil
	}

	// Tier 2: catalog fingerprint contained in the query fingerprint
	if entry := substringProductMatch(productQuery, snap.products); entry != nil {
		if m.config.EnableDebugLogging {
			log.Printf("[MATCH] substring: %q -> %q", productQuery, entry.DisplayName)
		}
		return m.toMatchedProduct(snap, *entry, substringMatchScore), nil, nil
	}

	// Tier 3: token-sort fuzzy similarity
	entry, score, suggestions := m.fuzzyProductMatch(productQuery, snap.products)
	if entry != nil {
		if m.config.EnableDebugLogging {
			log.Printf("[MATCH] fuzzy: %q -> %q (%.0f)", productQuery, entry.DisplayName, score)
		}
		return m.toMatchedProduct(snap, *entry, score), suggestions, nil
	}

	if m.config.EnableDebugLogging {
		log.Printf("[MATCH] no match for %q (best %.0f), suggestions: %v", productQuery, score, suggestions)
	}
	return nil, suggestions, nil
}

func (m *CatalogMatcher) toMatchedProduct(snap *catalogSnapshot, entry domain.CatalogEntry, score float64) *domain.MatchedProduct {
	return &domain.MatchedProduct{
		PDV:                entry.PDV,
		DisplayName:        entry.DisplayName,
		UnitPrice:          entry.UnitPrice,
		MatchScore:         score,
		AvailableAdditions: snap.additionsByParent[entry.PDV],
	}
}

func exactProductMatch(query string, products []domain.CatalogEntry) *domain.CatalogEntry {
	fp := Fingerprint(query)
	for i := range products {
		if products[i].Fingerprint != "" && products[i].Fingerprint == fp {
			return &products[i]
		}
	}
	return nil
}

// substringProductMatch picks, among products whose fingerprint is contained
// in the query's fingerprint, the one with the longest fingerprint. Longest
// wins as the least ambiguous reading of queries like "X Salada Grande".
func substringProductMatch(query string, products []domain.CatalogEntry) *domain.CatalogEntry {
	fp := Fingerprint(query)
	if fp == "" {
		return nil
	}

	var candidates []domain.CatalogEntry
	for _, p := range products {
		if p.Fingerprint != "" && strings.Contains(fp, p.Fingerprint) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Fingerprint) > len(candidates[j].Fingerprint)
	})
	return &candidates[0]
}

// fuzzyProductMatch ranks every product by token-sort ratio against the
// query. Returns the accepted entry (or nil), the best score, and up to
// maxProductSuggestions near-miss names.
func (m *CatalogMatcher) fuzzyProductMatch(query string, products []domain.CatalogEntry) (*domain.CatalogEntry, float64, []string) {
	ranked := rankByTokenSortRatio(query, productNames(products))
	if len(ranked) == 0 {
		return nil, 0, nil
	}

	best := ranked[0]

	var suggestions []string
	for _, cand := range ranked[1:] {
		if len(suggestions) == maxProductSuggestions {
			break
		}
		if cand.score >= m.config.SuggestionThreshold {
			suggestions = append(suggestions, cand.name)
		}
	}

	if best.score >= m.config.ProductFuzzyThreshold {
		return &products[best.index], best.score, suggestions
	}

	if best.name != "" && !containsString(suggestions, best.name) {
		suggestions = append([]string{best.name}, suggestions...)
	}
	if len(suggestions) > maxProductSuggestions {
		suggestions = suggestions[:maxProductSuggestions]
	}
	return nil, best.score, suggestions
}

func productNames(products []domain.CatalogEntry) []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.DisplayName
	}
	return names
}

// scoredCandidate is one ranked name from a fuzzy pass.
type scoredCandidate struct {
	name  string
	score float64
	index int
}

// rankByTokenSortRatio scores every candidate name against the query with
// token-sort ratio and returns them ordered by descending score. The sort is
// stable so catalog order breaks ties deterministically.
func rankByTokenSortRatio(query string, names []string) []scoredCandidate {
	ranked := make([]scoredCandidate, 0, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		score := float64(fuzzy.TokenSortRatio(query, name))
		ranked = append(ranked, scoredCandidate{name: name, score: score, index: i})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
