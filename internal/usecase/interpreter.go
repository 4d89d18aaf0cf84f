package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/liadelivery/backend/internal/domain"
)

// User-facing messages relayed verbatim to the customer by the ordering
// agent; they stay in Portuguese.
const (
	msgNoOrderText = "Nenhum texto de pedido fornecido."
	msgNoItems     = "Não consegui identificar itens no pedido. Por favor, informe os itens desejados."
)

// Interpreter turns free-text Portuguese orders into catalog-validated,
// priced items. It sequences parser, slang resolver and the two matchers,
// collecting unmatched items and warnings instead of failing the call.
type Interpreter struct {
	parser          *Parser
	resolver        *SlangResolver
	catalogMatcher  *CatalogMatcher
	additionMatcher *AdditionMatcher
	debug           bool
}

// NewInterpreter creates an interpreter backed by the given catalog index
// repository.
func NewInterpreter(repo domain.CatalogRepository, config MatcherConfig) *Interpreter {
	return &Interpreter{
		parser:          NewParser(config.EnableDebugLogging),
		resolver:        NewSlangResolver(config.EnableDebugLogging),
		catalogMatcher:  NewCatalogMatcher(repo, config),
		additionMatcher: NewAdditionMatcher(config),
		debug:           config.EnableDebugLogging,
	}
}

// InvalidateCatalog drops the cached catalog snapshot. Call after the menu
// index changes.
func (s *Interpreter) InvalidateCatalog() {
	s.catalogMatcher.ClearCache()
}

// Interpret processes one order text and always returns a structured result;
// it never returns an error and never panics through to the caller. Sucesso
// is true iff every line item matched a product; addition-level mismatches
// surface only as warnings, since the kitchen can still make the product
// without the extra.
func (s *Interpreter) Interpret(ctx context.Context, orderText string) (result domain.InterpretationResult) {
	result = emptyResult()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[INTERPRET] panic recovered: %v", r)
			result = emptyResult()
			result.Warnings = []string{fmt.Sprintf("Erro ao processar pedido: %v", r)}
		}
	}()

	if strings.TrimSpace(orderText) == "" {
		result.Warnings = append(result.Warnings, msgNoOrderText)
		return result
	}

	parsed := s.parser.Parse(orderText)
	if len(parsed) == 0 {
		result.Warnings = append(result.Warnings, msgNoItems)
		return result
	}

	resolved := s.resolver.ResolveAll(parsed)

	for _, item := range resolved {
		product, suggestions, err := s.catalogMatcher.Match(ctx, item.ProductQuery)
		if err != nil {
			result = emptyResult()
			result.Warnings = []string{fmt.Sprintf("Erro ao processar pedido: %v", err)}
			return result
		}

		if product == nil {
			result.UnmatchedItems = append(result.UnmatchedItems, domain.UnmatchedItem{
				OriginalText: item.OriginalText,
				Reason:       domain.UnmatchedReasonProductNotFound,
				Suggestions:  emptyIfNil(suggestions),
			})
			if len(suggestions) > 0 {
				result.Suggestions = append(result.Suggestions, domain.Suggestion{
					ClientText:    item.ProductQuery,
					SuggestedText: suggestions[0],
				})
			}
			continue
		}

		additions, warnings := s.matchAdditions(item, product)
		result.Warnings = append(result.Warnings, warnings...)

		result.ValidatedItems = append(result.ValidatedItems, domain.ValidatedItem{
			DisplayName:  product.DisplayName,
			PDV:          product.PDV,
			Quantity:     item.Quantity,
			UnitPrice:    product.UnitPrice,
			Additions:    additions,
			Observations: strings.Join(item.Observations, ", "),
		})
	}

	result.Success = len(result.UnmatchedItems) == 0

	if s.debug {
		log.Printf("[INTERPRET] sucesso=%v validated=%d unmatched=%d warnings=%d",
			result.Success, len(result.ValidatedItems), len(result.UnmatchedItems), len(result.Warnings))
	}

	return result
}

// matchAdditions validates the item's addition queries against the matched
// product, turning failures into warnings.
func (s *Interpreter) matchAdditions(item domain.ResolvedLineItem, product *domain.MatchedProduct) ([]domain.ValidatedAddition, []string) {
	additions := []domain.ValidatedAddition{}
	var warnings []string

	if len(item.AdditionQueries) == 0 {
		return additions, nil
	}

	matched, unmatched := s.additionMatcher.MatchAll(item.AdditionQueries, product)

	for _, ma := range matched {
		additions = append(additions, domain.ValidatedAddition{
			DisplayName: ma.DisplayName,
			PDV:         ma.PDV,
			Quantity:    ma.Quantity,
			UnitPrice:   ma.UnitPrice,
		})
	}

	for _, ua := range unmatched {
		if len(ua.Suggestions) > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"Adicional '%s' não encontrado para %s. Sugestões: %s",
				ua.Text, product.DisplayName, strings.Join(ua.Suggestions, ", ")))
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"Adicional '%s' não está disponível para %s.",
				ua.Text, product.DisplayName))
		}
	}

	return additions, warnings
}

// emptyResult returns a failed result with every collection non-nil so the
// serialized document always carries the full key set.
func emptyResult() domain.InterpretationResult {
	return domain.InterpretationResult{
		ValidatedItems: []domain.ValidatedItem{},
		UnmatchedItems: []domain.UnmatchedItem{},
		Suggestions:    []domain.Suggestion{},
		Warnings:       []string{},
	}
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
