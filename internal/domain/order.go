package domain

// ParsedLineItem is one line item extracted from the customer's free text,
// before any slang or normalization rules run.
type ParsedLineItem struct {
	OriginalText       string
	Quantity           int
	ProductPhrase      string
	Modifiers          []string
	AdditionPhrases    []string
	ObservationPhrases []string
}

// ResolvedLineItem is a line item after slang resolution and normalization,
// ready to be matched against the catalog.
type ResolvedLineItem struct {
	OriginalText    string
	Quantity        int
	ProductQuery    string
	AdditionQueries []string
	Observations    []string
}

// MatchedProduct is a catalog product matched to one line item, carrying the
// additions that can be attached to it.
type MatchedProduct struct {
	PDV                string
	DisplayName        string
	UnitPrice          float64
	MatchScore         float64
	AvailableAdditions []CatalogEntry
}

// MatchedAddition is an addition matched within a product's available set.
type MatchedAddition struct {
	PDV         string
	DisplayName string
	UnitPrice   float64
	Quantity    int
	MatchScore  float64
}

// ValidatedAddition is an addition confirmed against the catalog, in the shape
// the ordering agent consumes.
type ValidatedAddition struct {
	DisplayName string  `json:"nome"`
	PDV         string  `json:"pdv"`
	Quantity    int     `json:"quantidade"`
	UnitPrice   float64 `json:"preco_unitario"`
}

// ValidatedItem is a fully validated order line ready for submission.
type ValidatedItem struct {
	DisplayName  string              `json:"nome"`
	PDV          string              `json:"pdv"`
	Quantity     int                 `json:"quantidade"`
	UnitPrice    float64             `json:"preco_unitario"`
	Additions    []ValidatedAddition `json:"adicionais"`
	Observations string              `json:"observacoes"`
}

// UnmatchedReasonProductNotFound is the wire value reported when no catalog
// product matches a line item.
const UnmatchedReasonProductNotFound = "produto_nao_encontrado"

// UnmatchedItem is a line item that could not be validated.
type UnmatchedItem struct {
	OriginalText string   `json:"texto_original"`
	Reason       string   `json:"motivo"`
	Suggestions  []string `json:"sugestoes"`
}

// Suggestion proposes a catalog name for text the customer typed.
type Suggestion struct {
	ClientText    string  `json:"texto_cliente"`
	SuggestedText string  `json:"sugestao"`
	Score         float64 `json:"score"`
}

// InterpretationResult is the structured outcome of interpreting one order
// text. Sucesso is true iff every line item matched a product; addition-level
// mismatches only produce warnings.
type InterpretationResult struct {
	Success        bool            `json:"sucesso"`
	ValidatedItems []ValidatedItem `json:"itens_validos"`
	UnmatchedItems []UnmatchedItem `json:"itens_nao_encontrados"`
	Suggestions    []Suggestion    `json:"sugestoes"`
	Warnings       []string        `json:"avisos"`
}
