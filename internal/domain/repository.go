package domain

import "context"

// CatalogRepository supplies the flattened menu search index. Implementations
// own retry/backoff; callers treat FetchIndex as a single blocking read.
type CatalogRepository interface {
	FetchIndex(ctx context.Context) ([]CatalogEntry, error)
	ReplaceIndex(ctx context.Context, entries []CatalogEntry) error
}

// POSClient defines the interface for the restaurant POS order API.
type POSClient interface {
	SendOrder(ctx context.Context, order *POSOrder) (*POSOrderResponse, error)
	CancelOrder(ctx context.Context, codStore, orderID string) error
	FetchCatalog(ctx context.Context) ([]POSCatalogItem, error)
}
