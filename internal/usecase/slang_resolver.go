package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/liadelivery/backend/internal/domain"
)

// slangEffectKind tags what a slang token does to the item it modifies.
type slangEffectKind int

const (
	effectObservation slangEffectKind = iota
	effectProductSuffix
	effectIgnore
)

type slangEffect struct {
	kind  slangEffectKind
	value string
}

// slangEffects maps canonical modifier tokens to their effect. Unknown
// modifiers are dropped silently.
var slangEffects = map[string]slangEffect{
	"careca":   {effectObservation, "sem salada"},
	"completo": {effectIgnore, ""},
	"no prato": {effectProductSuffix, " no Prato"},
	"aberto":   {effectProductSuffix, " no Prato"},
}

// sizeSynonyms rewrites size/volume terms to the catalog's canonical spelling.
// Scanned in order, first hit wins; longer terms come before their own
// substrings ("2 litros" before "2 l") so a partial term never rewrites
// inside a longer one.
var sizeSynonyms = []struct {
	term      string
	canonical string
}{
	{"2 litros", "2 Litros"},
	{"2 litro", "2 Litros"},
	{"2 l", "2 Litros"},
	{"2l", "2 Litros"},
	{"1 litro", "1 Litro"},
	{"1 l", "1 Litro"},
	{"1l", "1 Litro"},
	{"600 ml", "600ml"},
	{"600ml", "600ml"},
	{"350 ml", "350ml"},
	{"350ml", "350ml"},
	{"latinha", "Lata"},
	{"lata", "Lata"},
	{"meia porção", "(Meia Porção)"},
	{"meia porcao", "(Meia Porção)"},
	{"meia", "(Meia Porção)"},
	{"um quarto", "(1/4 Porção)"},
	{"1/4", "(1/4 Porção)"},
	{"pequena", "(1/4 Porção)"},
	{"pequeno", "(1/4 Porção)"},
	{"grande", "(Porção)"},
	{"inteira", "(Porção)"},
}

// productPrefixes canonicalizes the regional "x"/"xis" burger prefix.
var productPrefixes = []struct {
	prefix    string
	canonical string
}{
	{"x ", "X "},
	{"x-", "X "},
	{"xis ", "X "},
}

// lowercaseConnectors stay lowercase when title-casing product names.
var lowercaseConnectors = map[string]bool{
	"de": true, "da": true, "do": true, "e": true,
	"com": true, "no": true, "na": true,
}

var leadingAdditionArticlePattern = regexp.MustCompile(`(?i)^(um|uma|o|a)\s+`)

// SlangResolver applies the slang rule table and name normalizations to
// parsed items so that matching runs against canonical catalog spellings
// instead of raw customer text.
type SlangResolver struct {
	enableDebugLogging bool
}

// NewSlangResolver creates a new slang resolver
func NewSlangResolver(enableDebugLogging bool) *SlangResolver {
	return &SlangResolver{enableDebugLogging: enableDebugLogging}
}

// Resolve applies slang effects and normalizations to one parsed item.
func (r *SlangResolver) Resolve(item domain.ParsedLineItem) domain.ResolvedLineItem {
	product := item.ProductPhrase
	var slangObservations []string

	for _, modifier := range item.Modifiers {
		effect, ok := slangEffects[strings.ToLower(modifier)]
		if !ok {
			continue
		}
		switch effect.kind {
		case effectObservation:
			slangObservations = append(slangObservations, effect.value)
		case effectProductSuffix:
			product += effect.value
		case effectIgnore:
		}
	}

	productQuery := NormalizeProductName(product)

	additionQueries := make([]string, 0, len(item.AdditionPhrases))
	for _, phrase := range item.AdditionPhrases {
		additionQueries = append(additionQueries, normalizeAddition(phrase))
	}

	observations := append(slangObservations, item.ObservationPhrases...)

	if r.enableDebugLogging {
		log.Printf("[SLANG] %q -> query=%q additions=%v observations=%v",
			item.ProductPhrase, productQuery, additionQueries, observations)
	}

	return domain.ResolvedLineItem{
		OriginalText:    item.OriginalText,
		Quantity:        item.Quantity,
		ProductQuery:    productQuery,
		AdditionQueries: additionQueries,
		Observations:    observations,
	}
}

// ResolveAll resolves a list of parsed items, order-preserving.
func (r *SlangResolver) ResolveAll(items []domain.ParsedLineItem) []domain.ResolvedLineItem {
	resolved := make([]domain.ResolvedLineItem, 0, len(items))
	for _, item := range items {
		resolved = append(resolved, r.Resolve(item))
	}
	return resolved
}

// NormalizeProductName rewrites a product phrase to the catalog's spelling
// conventions: canonical "X " prefix, size/volume synonyms, title case with
// lowercase connectors. Applying it twice is a no-op for names with no
// further synonym hits.
func NormalizeProductName(product string) string {
	result := product

	for _, p := range productPrefixes {
		if strings.HasPrefix(strings.ToLower(result), p.prefix) {
			result = p.canonical + result[len(p.prefix):]
			break
		}
	}

	lower := strings.ToLower(result)
	for _, syn := range sizeSynonyms {
		if strings.Contains(lower, syn.term) {
			pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(syn.term))
			result = pattern.ReplaceAllString(result, syn.canonical)
			break
		}
	}

	words := strings.Fields(result)
	for i, word := range words {
		switch {
		case lowercaseConnectors[strings.ToLower(word)]:
			words[i] = strings.ToLower(word)
		case strings.HasPrefix(word, "("):
		default:
			words[i] = capitalize(word)
		}
	}

	return strings.Join(words, " ")
}

func normalizeAddition(addition string) string {
	addition = leadingAdditionArticlePattern.ReplaceAllString(addition, "")
	return capitalize(strings.TrimSpace(addition))
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(word string) string {
	if word == "" {
		return word
	}
	r := []rune(word)
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}
