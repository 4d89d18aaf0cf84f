package domain

// EntryKind distinguishes sellable products from the additions sold under them.
type EntryKind string

const (
	EntryKindProduct  EntryKind = "product"
	EntryKindAddition EntryKind = "addition"
)

// CatalogEntry is one row of the flattened menu search index. Products have an
// empty ParentPDV; additions carry the PDV code of the product they belong to.
type CatalogEntry struct {
	PDV         string    `json:"pdv"`
	DisplayName string    `json:"nome_original"`
	Fingerprint string    `json:"fingerprint"`
	Kind        EntryKind `json:"item_type"`
	ParentPDV   string    `json:"parent_pdv,omitempty"`
	UnitPrice   float64   `json:"price"`
}

// IsProduct reports whether the entry is a top-level sellable product.
func (e CatalogEntry) IsProduct() bool {
	return e.Kind == EntryKindProduct
}
