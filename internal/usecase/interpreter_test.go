package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/liadelivery/backend/internal/domain"
)

func newTestInterpreter(entries []domain.CatalogEntry) *Interpreter {
	return NewInterpreter(&fakeCatalogRepo{entries: entries}, MatcherConfig{})
}

func TestInterpret_BlankInput(t *testing.T) {
	interp := newTestInterpreter(testCatalogEntries())

	for _, input := range []string{"", "   ", "\n\t"} {
		result := interp.Interpret(context.Background(), input)
		if result.Success {
			t.Errorf("Interpret(%q).Success = true, want false", input)
		}
		if len(result.Warnings) != 1 || result.Warnings[0] != msgNoOrderText {
			t.Errorf("Warnings = %v, want [%q]", result.Warnings, msgNoOrderText)
		}
		if len(result.ValidatedItems) != 0 || len(result.UnmatchedItems) != 0 {
			t.Errorf("Interpret(%q) produced items for blank input", input)
		}
	}
}

func TestInterpret_NoParseableItems(t *testing.T) {
	interp := newTestInterpreter(testCatalogEntries())

	result := interp.Interpret(context.Background(), "2 x")
	if result.Success {
		t.Error("Success = true, want false")
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != msgNoItems {
		t.Errorf("Warnings = %v, want [%q]", result.Warnings, msgNoItems)
	}
}

func TestInterpret_MatchedItemWithAddition(t *testing.T) {
	entries := []domain.CatalogEntry{
		{PDV: "100", DisplayName: "X Salada", Fingerprint: "xsalada", Kind: domain.EntryKindProduct, UnitPrice: 10.0},
		{PDV: "100.1", DisplayName: "Bacon", Fingerprint: "bacon", Kind: domain.EntryKindAddition, ParentPDV: "100", UnitPrice: 2.0},
	}
	interp := newTestInterpreter(entries)

	result := interp.Interpret(context.Background(), "2 x X Salada com Bacon")
	if !result.Success {
		t.Fatalf("Success = false, warnings: %v", result.Warnings)
	}
	if len(result.ValidatedItems) != 1 {
		t.Fatalf("ValidatedItems = %v, want 1 entry", result.ValidatedItems)
	}

	item := result.ValidatedItems[0]
	if item.PDV != "100" {
		t.Errorf("PDV = %q, want %q", item.PDV, "100")
	}
	if item.Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", item.Quantity)
	}
	if item.UnitPrice != 10.0 {
		t.Errorf("UnitPrice = %v, want 10.0", item.UnitPrice)
	}
	if len(item.Additions) != 1 {
		t.Fatalf("Additions = %v, want 1 entry", item.Additions)
	}
	if item.Additions[0].PDV != "100.1" || item.Additions[0].UnitPrice != 2.0 {
		t.Errorf("addition = %+v, want PDV 100.1 at 2.0", item.Additions[0])
	}
	if len(result.UnmatchedItems) != 0 || len(result.Warnings) != 0 {
		t.Errorf("unexpected unmatched=%v warnings=%v", result.UnmatchedItems, result.Warnings)
	}
}

func TestInterpret_UnknownProduct(t *testing.T) {
	interp := newTestInterpreter(testCatalogEntries())

	result := interp.Interpret(context.Background(), "1 x Pizza Inexistente")
	if result.Success {
		t.Error("Success = true, want false")
	}
	if len(result.ValidatedItems) != 0 {
		t.Errorf("ValidatedItems = %v, want none", result.ValidatedItems)
	}
	if len(result.UnmatchedItems) != 1 {
		t.Fatalf("UnmatchedItems = %v, want 1 entry", result.UnmatchedItems)
	}

	unmatched := result.UnmatchedItems[0]
	if unmatched.OriginalText != "1 x Pizza Inexistente" {
		t.Errorf("OriginalText = %q, want the raw chunk", unmatched.OriginalText)
	}
	if unmatched.Reason != domain.UnmatchedReasonProductNotFound {
		t.Errorf("Reason = %q, want %q", unmatched.Reason, domain.UnmatchedReasonProductNotFound)
	}
	if unmatched.Suggestions == nil {
		t.Error("Suggestions is nil, want a non-nil slice")
	}
}

func TestInterpret_MixedOrder(t *testing.T) {
	interp := newTestInterpreter(testCatalogEntries())

	result := interp.Interpret(context.Background(), "1 x galinha\n1 x pizza inexistente")
	if result.Success {
		t.Error("Success = true with an unmatched item, want false")
	}
	if len(result.ValidatedItems) != 1 {
		t.Errorf("ValidatedItems = %v, want 1 entry", result.ValidatedItems)
	}
	if len(result.UnmatchedItems) != 1 {
		t.Errorf("UnmatchedItems = %v, want 1 entry", result.UnmatchedItems)
	}
}

func TestInterpret_SlangAndObservations(t *testing.T) {
	entries := []domain.CatalogEntry{
		{PDV: "102", DisplayName: "Galinha", Fingerprint: "galinha", Kind: domain.EntryKindProduct, UnitPrice: 25.0},
		{PDV: "102.1", DisplayName: "Bacon", Fingerprint: "bacon", Kind: domain.EntryKindAddition, ParentPDV: "102", UnitPrice: 3.0},
	}
	interp := newTestInterpreter(entries)

	result := interp.Interpret(context.Background(), "2 x galinha careca com bacon e milho cortado ao meio")
	if !result.Success {
		t.Fatalf("Success = false, warnings: %v", result.Warnings)
	}
	if len(result.ValidatedItems) != 1 {
		t.Fatalf("ValidatedItems = %v, want 1 entry", result.ValidatedItems)
	}

	item := result.ValidatedItems[0]
	if item.PDV != "102" || item.Quantity != 2 {
		t.Errorf("item = %+v, want Galinha x2", item)
	}
	if item.Observations != "sem salada, cortado ao meio" {
		t.Errorf("Observations = %q, want %q", item.Observations, "sem salada, cortado ao meio")
	}
	if len(item.Additions) != 1 || item.Additions[0].DisplayName != "Bacon" {
		t.Errorf("Additions = %v, want only Bacon", item.Additions)
	}

	// milho is not available on this product: warning, not failure
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Milho") {
		t.Errorf("Warnings = %v, want one warning about Milho", result.Warnings)
	}
}

func TestInterpret_SuggestionForUnmatchedItem(t *testing.T) {
	interp := newTestInterpreter(testCatalogEntries())

	// close but under the acceptance threshold
	result := interp.Interpret(context.Background(), "1 x galina frita")
	if len(result.UnmatchedItems) != 1 {
		t.Fatalf("UnmatchedItems = %v, want 1 entry", result.UnmatchedItems)
	}
	if len(result.UnmatchedItems[0].Suggestions) == 0 {
		t.Fatal("unmatched item has no suggestions")
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("result has no top-level suggestions")
	}
	if result.Suggestions[0].SuggestedText != result.UnmatchedItems[0].Suggestions[0] {
		t.Errorf("top-level suggestion %q != first item suggestion %q",
			result.Suggestions[0].SuggestedText, result.UnmatchedItems[0].Suggestions[0])
	}
}

func TestInterpret_CatalogError(t *testing.T) {
	interp := NewInterpreter(&fakeCatalogRepo{err: errors.New("db unreachable")}, MatcherConfig{})

	result := interp.Interpret(context.Background(), "1 x galinha")
	if result.Success {
		t.Error("Success = true, want false")
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Erro ao processar pedido") {
		t.Errorf("Warnings = %v, want a processing-error warning", result.Warnings)
	}
	if result.ValidatedItems == nil || result.UnmatchedItems == nil || result.Suggestions == nil {
		t.Error("result collections must stay non-nil on failure")
	}
}

func TestInterpret_JSONContract(t *testing.T) {
	interp := newTestInterpreter(testCatalogEntries())

	result := interp.Interpret(context.Background(), "1 x galinha\n1 x pizza inexistente")

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"sucesso", "itens_validos", "itens_nao_encontrados", "sugestoes", "avisos"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("serialized result missing key %q", key)
		}
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(doc["itens_validos"], &items); err != nil {
		t.Fatalf("itens_validos: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("itens_validos = %s, want 1 entry", doc["itens_validos"])
	}
	for _, key := range []string{"nome", "pdv", "quantidade", "preco_unitario", "adicionais", "observacoes"} {
		if _, ok := items[0][key]; !ok {
			t.Errorf("validated item missing key %q", key)
		}
	}
}
