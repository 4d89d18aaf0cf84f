package usecase

import (
	"testing"

	"github.com/liadelivery/backend/internal/domain"
)

func additionTestProduct() *domain.MatchedProduct {
	return &domain.MatchedProduct{
		PDV:         "100",
		DisplayName: "X Salada",
		UnitPrice:   10.0,
		MatchScore:  100,
		AvailableAdditions: []domain.CatalogEntry{
			{PDV: "100.1", DisplayName: "Adicionais - Bacon", Fingerprint: "bacon", Kind: domain.EntryKindAddition, ParentPDV: "100", UnitPrice: 2.0},
			{PDV: "100.2", DisplayName: "Adicionais - Batata Palha", Fingerprint: "batatapalha", Kind: domain.EntryKindAddition, ParentPDV: "100", UnitPrice: 1.5},
		},
	}
}

func TestMatchOne_Exact(t *testing.T) {
	m := NewAdditionMatcher(MatcherConfig{})

	t.Run("stored fingerprint", func(t *testing.T) {
		add, suggestions := m.MatchOne("Bacon", additionTestProduct())
		if add == nil {
			t.Fatal("MatchOne() = nil, want a match")
		}
		if add.PDV != "100.1" {
			t.Errorf("PDV = %q, want %q", add.PDV, "100.1")
		}
		if add.MatchScore != exactMatchScore {
			t.Errorf("MatchScore = %v, want %v", add.MatchScore, exactMatchScore)
		}
		if add.DisplayName != "Bacon" {
			t.Errorf("DisplayName = %q, want prefix-cleaned %q", add.DisplayName, "Bacon")
		}
		if add.Quantity != 1 {
			t.Errorf("Quantity = %d, want 1", add.Quantity)
		}
		if len(suggestions) != 0 {
			t.Errorf("suggestions = %v, want none", suggestions)
		}
	})

	t.Run("cleaned display name when stored fingerprint kept the prefix", func(t *testing.T) {
		product := additionTestProduct()
		product.AvailableAdditions[0].Fingerprint = "adicionaisbacon"

		add, _ := m.MatchOne("Bacon", product)
		if add == nil || add.PDV != "100.1" {
			t.Fatalf("MatchOne() = %v, want addition 100.1", add)
		}
	})
}

func TestMatchOne_Fuzzy(t *testing.T) {
	m := NewAdditionMatcher(MatcherConfig{})

	add, _ := m.MatchOne("Bacom", additionTestProduct())
	if add == nil {
		t.Fatal("MatchOne() = nil, want a fuzzy match")
	}
	if add.PDV != "100.1" {
		t.Errorf("PDV = %q, want %q", add.PDV, "100.1")
	}
	if add.MatchScore < defaultAdditionFuzzyThreshold || add.MatchScore >= exactMatchScore {
		t.Errorf("MatchScore = %v, want fuzzy score in [%v, 100)", add.MatchScore, defaultAdditionFuzzyThreshold)
	}
}

func TestMatchOne_NoAdditionsAvailable(t *testing.T) {
	m := NewAdditionMatcher(MatcherConfig{})
	product := &domain.MatchedProduct{PDV: "200", DisplayName: "Coca Lata"}

	add, suggestions := m.MatchOne("Bacon", product)
	if add != nil || suggestions != nil {
		t.Errorf("MatchOne() = (%v, %v), want (nil, nil)", add, suggestions)
	}
}

func TestMatchOne_OutOfScopeAddition(t *testing.T) {
	m := NewAdditionMatcher(MatcherConfig{})

	// "Cheddar" exists for no entry of this product; whatever the catalog
	// holds elsewhere must not leak in.
	add, suggestions := m.MatchOne("Cheddar", additionTestProduct())
	if add != nil {
		t.Fatalf("MatchOne() = %v, want nil", add)
	}
	if len(suggestions) == 0 {
		t.Fatal("suggestions empty, want at least the best candidate")
	}
	if len(suggestions) > maxAdditionSuggestions {
		t.Errorf("len(suggestions) = %d, want at most %d", len(suggestions), maxAdditionSuggestions)
	}
}

func TestMatchAll(t *testing.T) {
	m := NewAdditionMatcher(MatcherConfig{})

	matched, unmatched := m.MatchAll([]string{"Bacon", "Cheddar", "Batata Palha"}, additionTestProduct())
	if len(matched) != 2 {
		t.Fatalf("matched = %v, want 2 entries", matched)
	}
	if matched[0].PDV != "100.1" || matched[1].PDV != "100.2" {
		t.Errorf("matched PDVs = %q, %q, want 100.1, 100.2", matched[0].PDV, matched[1].PDV)
	}
	if len(unmatched) != 1 {
		t.Fatalf("unmatched = %v, want 1 entry", unmatched)
	}
	if unmatched[0].Text != "Cheddar" {
		t.Errorf("unmatched[0].Text = %q, want %q", unmatched[0].Text, "Cheddar")
	}
}

func TestCleanAdditionName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Adicionais - Bacon", "Bacon"},
		{"Adicional Milho", "Milho"},
		{"Extras - Batata Palha", "Batata Palha"},
		{"Bacon", "Bacon"},
	}

	for _, tt := range tests {
		if got := cleanAdditionName(tt.input); got != tt.want {
			t.Errorf("cleanAdditionName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
