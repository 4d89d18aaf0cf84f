package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/liadelivery/backend/internal/domain"
)

// CatalogInvalidator drops a cached catalog snapshot after the index
// changes. Satisfied by Interpreter.
type CatalogInvalidator interface {
	InvalidateCatalog()
}

// CatalogSyncService pulls the POS catalog export, flattens it into the menu
// search index and invalidates the matcher snapshot so the next
// interpretation sees the new menu.
type CatalogSyncService struct {
	pos         domain.POSClient
	repo        domain.CatalogRepository
	invalidator CatalogInvalidator
}

// NewCatalogSyncService creates a new catalog sync service
func NewCatalogSyncService(pos domain.POSClient, repo domain.CatalogRepository, invalidator CatalogInvalidator) *CatalogSyncService {
	return &CatalogSyncService{pos: pos, repo: repo, invalidator: invalidator}
}

// Sync replaces the menu index with the current POS catalog. Returns the
// number of entries written.
func (s *CatalogSyncService) Sync(ctx context.Context) (int, error) {
	items, err := s.pos.FetchCatalog(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching POS catalog: %w", err)
	}

	entries := FlattenCatalog(items)
	if len(entries) == 0 {
		return 0, domain.ErrCatalogEmpty
	}

	if err := s.repo.ReplaceIndex(ctx, entries); err != nil {
		return 0, fmt.Errorf("replacing menu index: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateCatalog()
	}

	log.Printf("[SYNC] menu index replaced with %d entries", len(entries))
	return len(entries), nil
}

// FlattenCatalog maps raw POS catalog rows into index entries. Addition rows
// carry dotted codes ("100.1"); the prefix before the dot is the parent
// product's PDV code. Disabled rows are skipped.
func FlattenCatalog(items []domain.POSCatalogItem) []domain.CatalogEntry {
	entries := make([]domain.CatalogEntry, 0, len(items))

	for _, item := range items {
		if item.Code == "" || !item.Enabled {
			continue
		}

		parent := ""
		kind := domain.EntryKindProduct
		if idx := strings.Index(item.Code, "."); idx > 0 {
			parent = item.Code[:idx]
			kind = domain.EntryKindAddition
		}
		if item.ItemType == string(domain.EntryKindAddition) {
			kind = domain.EntryKindAddition
		}

		name := item.Item
		if kind == domain.EntryKindAddition && item.ComplementItem != "" {
			name = item.ComplementItem
		}
		if name == "" {
			continue
		}

		fingerprint := Fingerprint(name)
		if kind == domain.EntryKindAddition {
			fingerprint = AdditionFingerprint(name)
		}

		entries = append(entries, domain.CatalogEntry{
			PDV:         item.Code,
			DisplayName: name,
			Fingerprint: fingerprint,
			Kind:        kind,
			ParentPDV:   parent,
			UnitPrice:   item.Price,
		})
	}

	return entries
}
